package main

import (
	"context"
	"log"
	"os"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/email"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/infrastructure/kinesis"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/notification"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

var notificationHandler *notification.Handler

func init() {
	smtpHost := getEnv("SMTP_HOST", "localhost")
	smtpPort := getEnv("SMTP_PORT", "1025")
	smtpFrom := getEnv("SMTP_FROM", "noreply@example.com")
	baseURL := getEnv("PUBLIC_BASE_URL", "http://localhost:8080")

	emailSvc := email.NewService(smtpHost, smtpPort, smtpFrom)
	notificationHandler = notification.NewHandler(emailSvc, baseURL)

	log.Printf("[Lambda Notifier] Initialized successfully (SMTP: %s:%s)", smtpHost, smtpPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// handler reports failed records back to Kinesis so only they are retried.
func handler(ctx context.Context, kinesisEvent events.KinesisEvent) (events.KinesisEventResponse, error) {
	log.Printf("[Lambda Notifier] Received %d records", len(kinesisEvent.Records))

	var batchItemFailures []events.KinesisBatchItemFailure

	for _, record := range kinesisEvent.Records {
		msg, err := kinesis.ConvertFromKinesisRecord(record)
		if err != nil {
			// malformed records would fail forever; log and move on
			log.Printf("[Lambda Notifier] Skipping record %s: %v", record.EventID, err)
			continue
		}

		// Nothing to notify (REMOVE, unchanged status, non-order items)
		if msg == nil {
			continue
		}

		log.Printf("[Lambda Notifier] Processing %s for %s", msg.Type, msg.TrackingID)

		if err := notificationHandler.HandleMessage(ctx, *msg); err != nil {
			log.Printf("[Lambda Notifier] Failed to process record %s: %v", record.EventID, err)
			batchItemFailures = append(batchItemFailures, events.KinesisBatchItemFailure{
				ItemIdentifier: record.Kinesis.SequenceNumber,
			})
			continue
		}
	}

	successCount := len(kinesisEvent.Records) - len(batchItemFailures)
	log.Printf("[Lambda Notifier] Processed %d/%d records successfully", successCount, len(kinesisEvent.Records))

	return events.KinesisEventResponse{
		BatchItemFailures: batchItemFailures,
	}, nil
}

func main() {
	lambda.Start(handler)
}
