package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
)

// DemoOrder carries what the ticket seeder needs from a seeded order.
type DemoOrder struct {
	ID           uuid.UUID
	CustomerID   string
	CustomerName string
	Status       string
	Items        []DemoItem
}

type DemoItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

var taxRate = decimal.NewFromFloat(0.10)

func demoOrders() []DemoOrder {
	return []DemoOrder{
		{
			ID:           uuid.New(),
			CustomerID:   "demo-cust-1",
			CustomerName: "Alice Smith",
			Status:       "paid",
			Items: []DemoItem{
				{ProductID: "demo-prod-1", ProductName: "Classic Burger", Quantity: 2, UnitPrice: decimal.NewFromFloat(10.00)},
				{ProductID: "demo-prod-2", ProductName: "Fries", Quantity: 1, UnitPrice: decimal.NewFromFloat(4.50)},
			},
		},
		{
			ID:           uuid.New(),
			CustomerID:   "demo-cust-2",
			CustomerName: "Bob Jones",
			Status:       "preparing",
			Items: []DemoItem{
				{ProductID: "demo-prod-3", ProductName: "Margherita Pizza", Quantity: 1, UnitPrice: decimal.NewFromFloat(12.00)},
			},
		},
		{
			ID:           uuid.New(),
			CustomerID:   "demo-cust-3",
			CustomerName: "Carol White",
			Status:       "created",
			Items: []DemoItem{
				{ProductID: "demo-prod-4", ProductName: "Caesar Salad", Quantity: 1, UnitPrice: decimal.NewFromFloat(8.00)},
				{ProductID: "demo-prod-5", ProductName: "Lemonade", Quantity: 2, UnitPrice: decimal.NewFromFloat(3.50)},
			},
		},
	}
}

// SeedOrders inserts demo orders and returns them for the ticket seeder.
func SeedOrders(ctx context.Context, db *mongo.Database) ([]DemoOrder, error) {
	collection := db.Collection("orders")
	now := time.Now()

	orders := demoOrders()
	for _, o := range orders {
		subtotal := decimal.Zero
		items := make([]map[string]interface{}, len(o.Items))
		for i, item := range o.Items {
			total := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			subtotal = subtotal.Add(total)
			items[i] = map[string]interface{}{
				"id":           uuid.New(),
				"product_id":   item.ProductID,
				"product_name": item.ProductName,
				"quantity":     item.Quantity,
				"unit_price":   item.UnitPrice,
				"total_price":  total,
			}
		}
		tax := subtotal.Mul(taxRate)

		doc := map[string]interface{}{
			"_id":           o.ID,
			"customer_id":   o.CustomerID,
			"customer_name": o.CustomerName,
			"items":         items,
			"subtotal":      subtotal,
			"tax":           tax,
			"total":         subtotal.Add(tax),
			"status":        o.Status,
			"created_at":    now,
			"updated_at":    now,
			"model_version": 1,
			"created_by":    "demo-seed",
		}
		if _, err := collection.InsertOne(ctx, doc); err != nil {
			return nil, fmt.Errorf("insert demo order %s: %w", o.ID, err)
		}
	}

	return orders, nil
}
