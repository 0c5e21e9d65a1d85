package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/streadway/amqp"

	"toko/internal/app"
	"toko/internal/config"
	"toko/internal/database"
	"toko/internal/logging"
	"toko/internal/services"
	"toko/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// --- Order events (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.Error("failed to initialize RabbitMQ client", "error", err)
			os.Exit(1)
		}
		defer mqClient.Close()
		publisher = mqClient

		err = mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
			log.Info("received order event", "routing_key", msg.RoutingKey, "body", string(msg.Body))
			return nil
		})
		if err != nil {
			log.Error("failed to start order event consumer", "error", err)
		}
	} else {
		log.Info("RABBITMQ_URL not set, order events disabled")
	}

	server := app.New(app.Deps{
		Config:    cfg,
		DB:        db,
		Logger:    log,
		Publisher: publisher,
	})

	go func() {
		log.Info("starting server", "addr", cfg.AppPort)
		if err := server.Listen(cfg.AppPort); err != nil {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")
	if err := server.Shutdown(); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server gracefully stopped")
}
