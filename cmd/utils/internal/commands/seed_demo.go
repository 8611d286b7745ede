package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmndev/restaurant/cmd/utils/internal/seeding"
	"github.com/dmndev/restaurant/pkg"
)

func connect(ctx context.Context, config *apt.Config) (*mongo.Client, error) {
	mongoURL, _ := config.GetString("mongo.url")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL).SetRegistry(pkg.MongoRegistry()))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// SeedDemo creates demo orders with matching kitchen tickets so the services
// have data to show against a fresh database.
func SeedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo seeding...")

	client, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	orders, err := seeding.SeedOrders(ctx, client.Database("restaurant_order"))
	if err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	logger.Infof("Seeded %d demo orders", len(orders))

	if err := seeding.SeedTickets(ctx, client.Database("restaurant_kitchen"), orders); err != nil {
		return fmt.Errorf("seed kitchen tickets: %w", err)
	}
	logger.Infof("Seeded kitchen tickets for %d orders", len(orders))

	return nil
}
