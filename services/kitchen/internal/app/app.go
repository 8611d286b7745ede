package app

import (
	"context"
	"time"

	"github.com/appetiteclub/apt"
	aptevents "github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/middleware"

	"github.com/dmndev/restaurant/pkg"
	"github.com/dmndev/restaurant/pkg/event"
	"github.com/dmndev/restaurant/services/kitchen/internal/events"
	"github.com/dmndev/restaurant/services/kitchen/internal/kitchen"
	"github.com/dmndev/restaurant/services/kitchen/internal/mongo"
)

const (
	AppName    = "kitchen"
	AppVersion = "0.1.0"
)

// App encapsulates the kitchen service application
type App struct {
	config     *apt.Config
	logger     apt.Logger
	micro      *apt.Micro
	ticketRepo *mongo.TicketRepo
}

// New creates a new kitchen service application
func New(config *apt.Config, logger apt.Logger) (*App, error) {
	return &App{
		config: config,
		logger: logger,
	}, nil
}

// Initialize sets up all dependencies and components
func (a *App) Initialize(ctx context.Context) error {
	a.ticketRepo = mongo.NewTicketRepo(a.config, a.logger)

	natsURL, _ := a.config.GetString("nats.url")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	// Stream mode persists kitchen events in JetStream so the ticket cache
	// can be rebuilt by replay; otherwise fall back to NATS core.
	var kitchenStream *pkg.NATSStream
	var orderSubscriber *pkg.NATSSubscriber
	var eventPublisher aptevents.Publisher

	streamEnabled, _ := a.config.GetString("nats.stream.enabled")
	if streamEnabled == "true" && natsURL != "" {
		streamCfg := pkg.NATSStreamConfig{
			URL:          natsURL,
			StreamName:   "KITCHEN_EVENTS",
			Topic:        event.Wildcard(event.KitchenEventsTopic),
			ConsumerName: "kitchen-publisher",
			MaxAge:       24 * time.Hour,
			MaxMsgs:      0,
		}
		var err error
		kitchenStream, err = pkg.NewNATSStream(streamCfg)
		if err != nil {
			return err
		}
		a.logger.Info("NATS stream initialized for persistent events")
		eventPublisher = kitchenStream

		orderSubscriber, err = pkg.NewNATSSubscriber(natsURL)
		if err != nil {
			return err
		}
	} else {
		publisher, err := pkg.NewNATSPublisher(natsURL)
		if err != nil {
			return err
		}
		eventPublisher = publisher

		orderSubscriber, err = pkg.NewNATSSubscriber(natsURL)
		if err != nil {
			return err
		}
	}

	service := kitchen.NewService(a.ticketRepo, eventPublisher, a.logger)

	var streamForCache aptevents.StreamConsumer
	if kitchenStream != nil {
		streamForCache = kitchenStream
	}
	ticketCache := kitchen.NewTicketStateCache(streamForCache, a.ticketRepo, a.logger)

	eventSubscriber := events.NewOrderEventSubscriber(orderSubscriber, service, ticketCache, a.logger)

	handler := kitchen.NewHandler(service, ticketCache, a.config, a.logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      a.logger,
		DisableCORS: true,
	})
	stack = append(stack, middleware.InternalOnly())

	lifecycles := []interface{}{a.ticketRepo, eventSubscriber}

	// Warm cache after repo is started
	cacheLifecycle := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			if err := ticketCache.Warm(ctx); err != nil {
				a.logger.Info("failed to warm ticket cache", "error", err)
			}
			return nil
		},
	}
	lifecycles = append(lifecycles, cacheLifecycle)

	if kitchenStream != nil {
		streamLifecycle := apt.LifecycleHooks{
			OnStop: func(context.Context) error { return kitchenStream.Close() },
		}
		lifecycles = append(lifecycles, streamLifecycle)
	}
	if orderSubscriber != nil {
		subscriberLifecycle := apt.LifecycleHooks{
			OnStop: func(context.Context) error { return orderSubscriber.Close() },
		}
		lifecycles = append(lifecycles, subscriberLifecycle)
	}

	options := []apt.Option{
		apt.WithConfig(a.config),
		apt.WithLogger(a.logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(AppName),
	}

	a.micro = apt.NewMicro(options...)
	return nil
}

// Run starts the application
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("Starting %s(%s)", AppName, AppVersion)
	if err := a.micro.Run(ctx); err != nil {
		return err
	}
	a.logger.Infof("%s(%s) stopped", AppName, AppVersion)
	return nil
}
