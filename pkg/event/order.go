package event

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderEventsTopic    = "order-events"
	EventOrderCreated   = "order.created"
	EventOrderUpdated   = "order.updated"
	EventOrderCancelled = "order.cancelled"
)

// OrderEvent is the wire format for order lifecycle events published to the
// order-events topic. It is a denormalized snapshot of the order at the moment
// of publication; domain types never go on the wire directly.
type OrderEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`

	OrderID      string             `json:"order_id"`
	CustomerID   string             `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	Items        []OrderItemPayload `json:"items"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Tax          decimal.Decimal    `json:"tax"`
	Total        decimal.Decimal    `json:"total"`
	Status       string             `json:"status"`
	Notes        string             `json:"notes,omitempty"`
	Priority     int                `json:"priority,omitempty"`
}

type OrderItemPayload struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Quantity            int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
}
