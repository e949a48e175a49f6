package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aakash-redy/cravin-lije/internal/config"
	"github.com/aakash-redy/cravin-lije/internal/database"
	"github.com/aakash-redy/cravin-lije/internal/logger"
	"github.com/aakash-redy/cravin-lije/internal/messaging"
	"github.com/aakash-redy/cravin-lije/internal/notify"
	"github.com/aakash-redy/cravin-lije/internal/services/alerts"
	"github.com/aakash-redy/cravin-lije/internal/services/kitchen"
	"github.com/aakash-redy/cravin-lije/internal/services/storefront"
	"github.com/aakash-redy/cravin-lije/internal/store"
	"github.com/aakash-redy/cravin-lije/internal/sync"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (storefront, kitchen, alerts)")
		port       = flag.Int("port", 3000, "HTTP port (storefront mode)")
		configPath = flag.String("config", "config.yaml", "Path to config file")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count (alerts mode)")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "storefront":
		err = runStorefront(ctx, cfg, log, *port)
	case "kitchen":
		err = runKitchen(ctx, cfg, log)
	case "alerts":
		err = runAlerts(ctx, cfg, log, *prefetch)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runStorefront runs the customer-facing HTTP API.
func runStorefront(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	st := store.New(db, log)
	service := storefront.NewService(st, log)
	handler := storefront.NewHandler(service, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("Storefront started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runKitchen runs the kitchen console: sync engine, dispatcher and alert
// publishing.
func runKitchen(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	st := store.New(db, log)
	feed := store.NewChangeFeed(cfg, log)
	publisher := messaging.NewPublisher(conn, log)

	engine := sync.New(st, feed, log, sync.Options{
		PollInterval: cfg.Sync.PollInterval,
	})

	console := kitchen.New(engine, notify.PublishTo(publisher, log), log)
	return console.Run(ctx)
}

// runAlerts runs the alert subscriber.
func runAlerts(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.AlertsQueue, "alerts-subscriber", prefetch)
	subscriber := alerts.NewSubscriber(consumer, log)

	if err := subscriber.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
