package event

import "time"

const (
	KitchenEventsTopic             = "kitchen-events"
	EventKitchenTicketCreated      = "kitchen.ticket.created"
	EventKitchenTicketStatusChange = "kitchen.ticket.status_changed"
	EventOrderReady                = "order.ready"
)

type KitchenTicketEventMetadata struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	TicketID   string    `json:"ticket_id"`
	OrderID    string    `json:"order_id"`
}

type KitchenTicketCreatedEvent struct {
	KitchenTicketEventMetadata
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Status       string              `json:"status"`
	Priority     int                 `json:"priority"`
	Items        []TicketItemPayload `json:"items"`
	Notes        string              `json:"notes,omitempty"`
}

type KitchenTicketStatusChangedEvent struct {
	KitchenTicketEventMetadata
	NewStatus              string     `json:"new_status"`
	PreviousStatus         string     `json:"previous_status"`
	AssignedTo             string     `json:"assigned_to,omitempty"`
	Notes                  string     `json:"notes,omitempty"`
	PreparationStartedAt   *time.Time `json:"preparation_started_at,omitempty"`
	PreparationCompletedAt *time.Time `json:"preparation_completed_at,omitempty"`
}

type TicketItemPayload struct {
	ProductID           string `json:"product_id"`
	ProductName         string `json:"product_name"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
	Prepared            bool   `json:"prepared"`
}

// OrderReadyEvent notifies downstream consumers that the kitchen finished
// preparing an order. The kitchen service publishes it to both kitchen-events
// and order-events so order-side and delivery-side consumers each see it.
type OrderReadyEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	OccurredAt      time.Time `json:"occurred_at"`
	OrderID         string    `json:"order_id"`
	KitchenTicketID string    `json:"kitchen_ticket_id"`
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	PreparedBy      string    `json:"prepared_by,omitempty"`
	PreparedAt      time.Time `json:"prepared_at"`
	Notes           string    `json:"notes,omitempty"`
}

// OrderCancelledNotice is published by the kitchen service to order-events
// when a ticket is cancelled on the kitchen side.
type OrderCancelledNotice struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	OccurredAt      time.Time `json:"occurred_at"`
	OrderID         string    `json:"order_id"`
	KitchenTicketID string    `json:"kitchen_ticket_id"`
	Reason          string    `json:"reason,omitempty"`
}
