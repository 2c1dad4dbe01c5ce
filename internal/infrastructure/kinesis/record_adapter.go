package kinesis

import (
	"encoding/json"
	"fmt"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/notification"
	"github.com/aws/aws-lambda-go/events"
)

// ConvertFromKinesisRecord converts a Kinesis record carrying a DynamoDB Streams
// change of the orders table into a notification message. Changes that need no
// notification yield a nil message.
func ConvertFromKinesisRecord(record events.KinesisEventRecord) (*notification.Message, error) {
	var dynamoDBRecord events.DynamoDBEventRecord
	if err := json.Unmarshal(record.Kinesis.Data, &dynamoDBRecord); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DynamoDB record: %w", err)
	}
	return ConvertFromDynamoDBStreamRecord(dynamoDBRecord)
}

// ConvertFromDynamoDBStreamRecord maps an INSERT to an order placed message and
// a MODIFY that changed the status to a status changed message.
func ConvertFromDynamoDBStreamRecord(record events.DynamoDBEventRecord) (*notification.Message, error) {
	switch record.EventName {
	case "INSERT":
		return convertImage(record.Change.NewImage, notification.MessageOrderPlaced)
	case "MODIFY":
		oldStatus, _ := stringAttr(record.Change.OldImage, "status")
		newStatus, _ := stringAttr(record.Change.NewImage, "status")
		if oldStatus == newStatus {
			return nil, nil
		}
		return convertImage(record.Change.NewImage, notification.MessageStatusChanged)
	default:
		return nil, nil
	}
}

// convertImage extracts the customer contact and status from an order item.
// Images without a status attribute belong to other item types and are skipped.
func convertImage(image map[string]events.DynamoDBAttributeValue, msgType notification.MessageType) (*notification.Message, error) {
	if image == nil {
		return nil, fmt.Errorf("DynamoDB image is nil")
	}

	rawStatus, ok := stringAttr(image, "status")
	if !ok {
		return nil, nil
	}
	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	msg := &notification.Message{Type: msgType}
	msg.TrackingID, _ = stringAttr(image, "tracking_id")
	msg.Email, _ = stringAttr(image, "customer_email")
	msg.CustomerName, _ = stringAttr(image, "customer_name")
	if msgType == notification.MessageStatusChanged {
		msg.Status = status
	}

	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("missing required fields: tracking_id=%s, customer_email=%s: %w",
			msg.TrackingID, msg.Email, err)
	}
	return msg, nil
}

func stringAttr(image map[string]events.DynamoDBAttributeValue, name string) (string, bool) {
	v, ok := image[name]
	if !ok || v.DataType() != events.DataTypeString {
		return "", false
	}
	return v.String(), true
}
