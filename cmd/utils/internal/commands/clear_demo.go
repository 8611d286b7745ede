package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
)

// ClearDemo removes every document stamped by the demo seeder.
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	client, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	targets := []struct {
		database   string
		collection string
	}{
		{"restaurant_order", "orders"},
		{"restaurant_kitchen", "tickets"},
	}

	for _, t := range targets {
		collection := client.Database(t.database).Collection(t.collection)
		result, err := collection.DeleteMany(ctx, bson.M{"created_by": "demo-seed"})
		if err != nil {
			return fmt.Errorf("clear %s.%s: %w", t.database, t.collection, err)
		}
		logger.Infof("Removed %d demo documents from %s.%s", result.DeletedCount, t.database, t.collection)
	}

	return nil
}
