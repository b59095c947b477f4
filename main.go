package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"foodhive/internal/handlers"
	"foodhive/internal/middleware"
	"foodhive/internal/repositories"
	"foodhive/internal/services"
	"foodhive/pkg/config"
	"foodhive/pkg/database"
	"foodhive/pkg/logger"
	"foodhive/pkg/metrics"
	"foodhive/pkg/mongodb"
	"foodhive/pkg/rabbitmq"
)

const serviceName = "foodhive"

func main() {
	// --- Configuration ---
	// A .env file is optional; real environment variables take precedence.
	envErr := godotenv.Load()

	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: serviceName,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		zlog.Warn("Failed to load .env file", zap.Error(envErr))
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal("Server stopped with error", zap.Error(err))
	}
	zlog.Info("Server gracefully stopped")
}

// run wires every component and blocks until ctx is cancelled or a component fails.
func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg, serviceName)

	// --- Initialize Document Store ---
	docs, closeStore, err := openDocumentStore(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Initialize Services ---
	store := services.NewProductStore(docs, zlog.Named("products"), m)
	shoppingList := services.NewShoppingList(docs, zlog.Named("shopping"))

	// --- Initialize RabbitMQ Client ---
	// Messaging is optional: without a URL reminders are only logged.
	var (
		mqClient  *rabbitmq.Client
		publisher services.ReminderPublisher
	)
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.ReminderQueue}, zlog.Named("rabbitmq"))
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	}
	expiryService := services.NewExpiryService(store, publisher, zlog.Named("expiry"), m)

	app := newApp(cfg, store, shoppingList, reg, m, zlog)

	g, gctx := errgroup.WithContext(ctx)

	// --- Start HTTP Server ---
	g.Go(func() error {
		zlog.Info("Starting server", zap.String("port", cfg.AppPort), zap.String("store", cfg.StoreDriver))
		return app.Listen(cfg.AppPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("Shutting down server...")
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	// --- Start Expiry Checks ---
	g.Go(func() error {
		err := expiryService.Run(gctx, cfg.ExpiryCheckInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// --- Start RabbitMQ Consumer ---
	if mqClient != nil {
		reminderHandler := handlers.NewReminderHandler(zlog.Named("reminders"), nil)
		if err := mqClient.Consume(reminderHandler.HandleDelivery); err != nil {
			zlog.Error("Failed to start RabbitMQ consumer", zap.Error(err))
		}
	}

	return g.Wait()
}

// openDocumentStore builds the document store selected by STORE_DRIVER and
// returns a func that releases it.
func openDocumentStore(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (repositories.DocumentStore, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		zlog.Warn("Using in-memory document store; products are lost on restart")
		return repositories.NewMockDocumentStore(), func() {}, nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.Open(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		docs := repositories.NewGORMDocumentStore(db)
		if err := docs.AutoMigrate(); err != nil {
			_ = database.Close(db)
			return nil, nil, err
		}
		return docs, func() {
			if err := database.Close(db); err != nil {
				zlog.Warn("Error closing database", zap.Error(err))
			}
		}, nil

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, 10*time.Second)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewMongoDocumentStore(client.Database(cfg.MongoDatabase)), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				zlog.Warn("Error disconnecting from MongoDB", zap.Error(err))
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// newApp builds the Fiber app with middleware, health, metrics and API routes.
func newApp(cfg *config.Config, store *services.ProductStore, shoppingList *services.ShoppingList, gatherer prometheus.Gatherer, m *metrics.Metrics, zlog *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(zlog.Named("http"), m))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"store":     cfg.StoreDriver,
			"messaging": cfg.RabbitMQURL != "",
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	productHandler := handlers.NewProductHandler(store, zlog.Named("products"), cfg.SaveTimeout)
	productHandler.RegisterRoutes(apiV1)
	shoppingHandler := handlers.NewShoppingHandler(shoppingList, zlog.Named("shopping"))
	shoppingHandler.RegisterRoutes(apiV1)

	return app
}
