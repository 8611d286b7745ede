package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// mapOrderStatusToPrepStatus gives each demo order a ticket in the matching
// preparation state.
func mapOrderStatusToPrepStatus(orderStatus string) string {
	switch orderStatus {
	case "preparing":
		return "in_progress"
	case "ready_for_delivery":
		return "ready"
	case "delivered":
		return "delivered"
	case "cancelled":
		return "cancelled"
	default:
		return "received"
	}
}

// SeedTickets creates one kitchen ticket per demo order.
func SeedTickets(ctx context.Context, db *mongo.Database, orders []DemoOrder) error {
	collection := db.Collection("tickets")
	now := time.Now()

	for _, o := range orders {
		status := mapOrderStatusToPrepStatus(o.Status)

		items := make([]map[string]interface{}, len(o.Items))
		for i, item := range o.Items {
			items[i] = map[string]interface{}{
				"product_id":   item.ProductID,
				"product_name": item.ProductName,
				"quantity":     item.Quantity,
				"prepared":     false,
			}
		}

		doc := map[string]interface{}{
			"_id":           uuid.New(),
			"order_id":      o.ID,
			"customer_id":   o.CustomerID,
			"customer_name": o.CustomerName,
			"items":         items,
			"status":        status,
			"priority":      1,
			"created_at":    now,
			"updated_at":    now,
			"model_version": 1,
			"created_by":    "demo-seed",
		}
		if status == "in_progress" {
			doc["assigned_to"] = "demo-chef-1"
			doc["preparation_started_at"] = now
		}

		if _, err := collection.InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("insert demo ticket for order %s: %w", o.ID, err)
		}
	}

	return nil
}
