package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds returns all seeds for the menu service.
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-08-20_menu_sample_items",
			Description: "Seed a starter menu so a fresh environment can take orders",
			Run: func(ctx context.Context) error {
				return seedSampleItems(ctx, db)
			},
		},
	}
}

func seedSampleItems(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("menu_items")
	now := time.Now()

	samples := []struct {
		name        string
		description string
		price       string
		category    string
		tags        []string
		allergens   []string
	}{
		{"Classic Burger", "Beef patty, cheddar, lettuce, tomato", "10.00", "mains", []string{"signature"}, []string{"gluten", "dairy"}},
		{"Fries", "Hand-cut, double fried", "4.50", "sides", nil, nil},
		{"Caesar Salad", "Romaine, parmesan, house dressing", "8.00", "starters", nil, []string{"dairy", "egg"}},
		{"Margherita Pizza", "San Marzano tomato, mozzarella, basil", "12.00", "mains", nil, []string{"gluten", "dairy"}},
		{"Lemonade", "Fresh squeezed", "3.50", "drinks", nil, nil},
	}

	for _, s := range samples {
		price, err := decimal.NewFromString(s.price)
		if err != nil {
			return fmt.Errorf("bad seed price %q: %w", s.price, err)
		}
		_, err = collection.UpdateOne(ctx,
			bson.M{"name": s.name},
			bson.M{"$setOnInsert": bson.M{
				"_id":           uuid.New(),
				"name":          s.name,
				"description":   s.description,
				"price":         price,
				"category":      s.category,
				"tags":          s.tags,
				"allergens":     s.allergens,
				"available":     true,
				"created_at":    now,
				"updated_at":    now,
				"model_version": 1,
			}},
			options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed menu item %q: %w", s.name, err)
		}
	}

	return nil
}

// SeedingFunc returns a function for running seeds during service startup
func SeedingFunc(appName string, dbFn func() *mongo.Database, logger apt.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("Applying menu service database seeds...")
		db := dbFn()
		tracker := seed.NewMongoTracker(db)
		seeds := Seeds(db)
		if err := seed.Apply(ctx, tracker, seeds, appName); err != nil {
			return fmt.Errorf("apply seeds: %w", err)
		}
		logger.Info("Menu service database seeds applied successfully")
		return nil
	}
}
