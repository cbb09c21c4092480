// main.go
package main

import (
	"context"
	"log"
	"time"

	"court-booking/cmd"
	"court-booking/internal/data/repository"
	"court-booking/internal/gateway"
	"court-booking/internal/notifier"
	"court-booking/internal/wire"
	"court-booking/pkg/database"
	"court-booking/pkg/middleware"
	"court-booking/pkg/telemetry"
	"court-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("timezone", config.App.Location().String()),
	)

	ctx := context.Background()

	// Tracing
	tel, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        config.Telemetry.Enabled,
		ServiceName:    config.App.Name,
		ServiceVersion: config.Telemetry.ServiceVersion,
		CollectorAddr:  config.Telemetry.CollectorAddr,
	})
	if err != nil {
		logger.Fatal("Failed to init telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema applied")
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Payment gateway
	var gw gateway.PaymentGateway
	switch config.Payment.Provider {
	case "stripe":
		stripeGw, err := gateway.NewStripeGateway(gateway.StripeGatewayConfig{
			SecretKey:     config.Payment.StripeSecretKey,
			Currency:      config.Payment.Currency,
			PaymentMethod: config.Payment.StripePaymentMethod,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to init stripe gateway", zap.Error(err))
		}
		gw = stripeGw
	default:
		gw = gateway.NewMockGateway(gateway.MockGatewayConfig{
			SuccessRate: config.Payment.MockSuccessRate,
			Delay:       config.Payment.MockDelay,
		})
	}
	logger.Info("Payment gateway ready", zap.String("provider", gw.Name()))

	// Notifier
	var ntf notifier.Notifier
	switch config.Notifier.Driver {
	case "kafka":
		kafkaNtf, err := notifier.NewKafkaNotifier(ctx, notifier.KafkaNotifierConfig{
			Brokers:  config.Notifier.KafkaBrokers,
			ClientID: config.Notifier.KafkaClientID,
			Topic:    config.Notifier.TopicBookingConfirmed,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Kafka", zap.Error(err))
		}
		defer kafkaNtf.Close()
		ntf = kafkaNtf
	default:
		ntf = notifier.NewLogNotifier(logger)
	}

	// Redis backs idempotent replays; without it the middleware passes through
	var idempotencyStore middleware.RedisClient
	if config.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr(),
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis unavailable, idempotency disabled", zap.Error(err))
		} else {
			idempotencyStore = client
			logger.Info("Redis connected", zap.String("addr", config.Redis.Addr()))
		}
		cancel()
	}

	// Wire all dependencies
	app := wire.Wiring(wire.Dependencies{
		Repo:     repos,
		Gateway:  gw,
		Notifier: ntf,
		Redis:    idempotencyStore,
	}, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}

	// Let in-flight confirmation notices finish before closing the producer
	app.Service.Wait()
	logger.Info("Server stopped")
}
