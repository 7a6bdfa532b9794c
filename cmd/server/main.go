package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/approvals/internal/server"
	"github.com/iota-uz/approvals/modules/requests/handlers"
	"github.com/iota-uz/approvals/modules/requests/infrastructure/notify"
	"github.com/iota-uz/approvals/modules/requests/infrastructure/persistence"
	"github.com/iota-uz/approvals/modules/requests/infrastructure/registry"
	"github.com/iota-uz/approvals/modules/requests/presentation/controllers"
	"github.com/iota-uz/approvals/modules/requests/services"
	"github.com/iota-uz/approvals/pkg/configuration"
	"github.com/iota-uz/approvals/pkg/eventbus"
	"github.com/iota-uz/approvals/pkg/metrics"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	bus := eventbus.NewEventPublisher(logger)
	handlers.RegisterAuditHandlers(bus, logger)

	registryClient := registry.NewHTTPClient(
		conf.Registry.BaseURL,
		conf.Registry.Timeout,
		logger.WithField("component", "registry"),
	)

	var channel notify.Channel
	if conf.Notifier.WebhookURL != "" {
		channel = notify.NewWebhookChannel(conf.Notifier.WebhookURL, conf.Notifier.Timeout)
	} else {
		logger.Warn("NOTIFIER_WEBHOOK_URL not set, notifications are logged only")
		channel = notify.NewLogChannel(logger.WithField("component", "notify"))
	}
	notifier := notify.New(channel, logger.WithField("component", "notify"))

	repo := persistence.NewRequestRepository()
	requestService := services.NewRequestService(repo, registryClient, bus, logger, conf.PageSize, conf.MaxPageSize)
	approvalService := services.NewApprovalService(repo, registryClient, notifier, bus, logger)

	serverControllers := []server.Controller{
		controllers.NewRequestAPIController(requestService, approvalService),
	}
	if conf.Prometheus.Enabled {
		serverControllers = append(serverControllers, metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Pool:          pool,
		Controllers:   serverControllers,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
