package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/api"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/catalog"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/command"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/config"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/infrastructure/cache"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/infrastructure/kafka"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/infrastructure/store"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/notification"
	"github.com/MubarakOnGit/clickwave-launchpad/internal/query"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Invalid configuration: %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] Storefront - Orders & Tracking")
	log.Println("[API] ========================================")
	log.Printf("[API] Store: %s (timeout %s)", cfg.StoreBackend, cfg.StoreTimeout)
	log.Printf("[API] Public URL: %s", cfg.PublicBaseURL)

	orders, closeStore := openStore(ctx, cfg)
	defer closeStore()

	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr)
		defer client.Close()
		redisCache := cache.NewRedisCache(client, "storefront:")
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("[API] Redis at %s unreachable, lookups will fall through: %v", cfg.RedisAddr, err)
		}
		orders = store.NewCachedOrderStore(orders, redisCache, cfg.TrackingCacheTTL)
		log.Printf("[API] Tracking cache: redis %s (ttl %s)", cfg.RedisAddr, cfg.TrackingCacheTTL)
	}

	var notifier notification.Dispatcher
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		notifier = notification.NewKafkaDispatcher(producer)
		log.Printf("[API] Notifications: kafka %v topic %s", cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		notifier = notification.NewLogDispatcher(cfg.PublicBaseURL)
		log.Println("[API] Notifications: log only (KAFKA_BROKERS not set)")
	}

	products := catalog.Default()
	cmdHandler := command.NewHandler(orders, order.NewTrackingIDGenerator(), notifier, products, cfg.CheckoutMaxAttempts)
	queryHandler := query.NewHandler(orders, products)
	handlers := api.NewHandlers(cmdHandler, queryHandler, cfg.PublicBaseURL)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(handlers),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Shutdown error: %v", err)
	}
}

// openStore builds the configured order store and returns a cleanup func.
func openStore(ctx context.Context, cfg *config.Config) (store.OrderStore, func()) {
	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			log.Fatalf("[API] Failed to load AWS configuration: %v", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
			}
		})
		log.Printf("[API] DynamoDB tables: %s, %s (region %s)", cfg.OrdersTable, cfg.TrackingTable, cfg.AWSRegion)
		return store.NewDynamoOrderStore(client, cfg.OrdersTable, cfg.TrackingTable, cfg.StoreTimeout), func() {}

	case config.BackendPostgres:
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
		}
		pg := store.NewPostgresOrderStore(db, cfg.StoreTimeout)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("[API] Failed to migrate schema: %v", err)
		}
		log.Println("[API] Connected to PostgreSQL")
		return pg, closeDB(db)

	default:
		log.Println("[API] Using in-memory store; orders are lost on restart")
		return store.NewMemoryOrderStore(), func() {}
	}
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Printf("[API] Failed to close database: %v", err)
		}
	}
}
