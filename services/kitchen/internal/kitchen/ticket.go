package kitchen

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmndev/restaurant/pkg/enums/prepstatus"
)

type TicketID = uuid.UUID
type OrderID = uuid.UUID

const DefaultPriority = 1

// Ticket is the kitchen-side aggregate tracking preparation of one order.
// There is exactly one ticket per order; OrderID is unique across tickets.
type Ticket struct {
	ID           TicketID     `bson:"_id" json:"id"`
	OrderID      OrderID      `bson:"order_id" json:"order_id"`
	CustomerID   string       `bson:"customer_id" json:"customer_id"`
	CustomerName string       `bson:"customer_name" json:"customer_name"`
	Items        []TicketItem `bson:"items" json:"items"`
	Status       string       `bson:"status" json:"status"`
	Priority     int          `bson:"priority" json:"priority"`
	Notes        string       `bson:"notes,omitempty" json:"notes,omitempty"`
	AssignedTo   string       `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`

	CreatedAt              time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `bson:"updated_at" json:"updated_at"`
	PreparationStartedAt   *time.Time `bson:"preparation_started_at,omitempty" json:"preparation_started_at,omitempty"`
	PreparationCompletedAt *time.Time `bson:"preparation_completed_at,omitempty" json:"preparation_completed_at,omitempty"`

	ModelVersion int `bson:"model_version" json:"model_version"`
}

// TicketItem is one line of a ticket. It has no lifecycle of its own beyond
// the prepared flag.
type TicketItem struct {
	ProductID           string `bson:"product_id" json:"product_id"`
	ProductName         string `bson:"product_name" json:"product_name"`
	Quantity            int    `bson:"quantity" json:"quantity"`
	SpecialInstructions string `bson:"special_instructions,omitempty" json:"special_instructions,omitempty"`
	Prepared            bool   `bson:"prepared" json:"prepared"`
}

// NewTicket builds a ticket in RECEIVED status for an inbound order.
func NewTicket(orderID OrderID, customerID, customerName string, items []TicketItem, notes string) *Ticket {
	now := time.Now()
	return &Ticket{
		ID:           uuid.New(),
		OrderID:      orderID,
		CustomerID:   customerID,
		CustomerName: customerName,
		Items:        items,
		Status:       prepstatus.Statuses.Received.Code(),
		Priority:     DefaultPriority,
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (t *Ticket) GetID() uuid.UUID {
	return t.ID
}

func (t *Ticket) ResourceType() string {
	return "ticket"
}

// Validate checks the data a ticket cannot exist without: an order reference
// and at least one well-formed item.
func (t *Ticket) Validate() error {
	if t.OrderID == uuid.Nil {
		return ErrInvalidTicketData
	}
	if len(t.Items) == 0 {
		return ErrInvalidTicketData
	}
	for _, item := range t.Items {
		if item.ProductID == "" || item.ProductName == "" || item.Quantity <= 0 {
			return ErrInvalidTicketData
		}
	}
	return nil
}

// PrepStatus returns the parsed status. Unknown codes come back as RECEIVED;
// the repository never stores one.
func (t *Ticket) PrepStatus() prepstatus.Status {
	if s := prepstatus.ByName(t.Status); s != nil {
		return *s
	}
	return prepstatus.Statuses.Received
}

// AssignTo assigns the ticket to a chef.
func (t *Ticket) AssignTo(chefID string) {
	t.AssignedTo = chefID
	t.UpdatedAt = time.Now()
}

// AllItemsPrepared reports whether every item is prepared. A ticket with no
// items is never "all prepared".
func (t *Ticket) AllItemsPrepared() bool {
	if len(t.Items) == 0 {
		return false
	}
	for _, item := range t.Items {
		if !item.Prepared {
			return false
		}
	}
	return true
}

// PreparationProgress returns the percentage of items prepared (0-100).
func (t *Ticket) PreparationProgress() int {
	if len(t.Items) == 0 {
		return 0
	}
	prepared := 0
	for _, item := range t.Items {
		if item.Prepared {
			prepared++
		}
	}
	return int(float64(prepared) * 100.0 / float64(len(t.Items)))
}

// UpdateStatus applies a status transition with its side effects:
// entering IN_PROGRESS requires an assigned chef and stamps
// PreparationStartedAt once; entering READY force-marks every item prepared
// and stamps PreparationCompletedAt once; entering CANCELLED resets every
// item's prepared flag.
func (t *Ticket) UpdateStatus(next prepstatus.Status) error {
	current := t.PrepStatus()
	if err := current.ValidateTransition(next); err != nil {
		return err
	}

	switch next {
	case prepstatus.Statuses.InProgress:
		if t.AssignedTo == "" {
			return ErrChefNotAssigned
		}
	case prepstatus.Statuses.Ready:
		if !t.AllItemsPrepared() {
			for i := range t.Items {
				t.Items[i].Prepared = true
			}
		}
	case prepstatus.Statuses.Cancelled:
		for i := range t.Items {
			t.Items[i].Prepared = false
		}
	}

	t.Status = next.Code()
	now := time.Now()
	t.UpdatedAt = now

	if next == prepstatus.Statuses.InProgress && t.PreparationStartedAt == nil {
		t.PreparationStartedAt = &now
	}
	if next == prepstatus.Statuses.Ready && t.PreparationCompletedAt == nil {
		t.PreparationCompletedAt = &now
	}

	return nil
}

// MarkItemPrepared marks the un-prepared item matching productID as prepared.
// Only legal while the ticket is IN_PROGRESS. When the last item becomes
// prepared the ticket auto-advances to READY with the same side effects as an
// explicit transition.
func (t *Ticket) MarkItemPrepared(productID string) error {
	if productID == "" {
		return ErrBlankProductID
	}
	if t.PrepStatus() != prepstatus.Statuses.InProgress {
		return ErrNotInProgress
	}

	found := false
	for i := range t.Items {
		if t.Items[i].ProductID == productID && !t.Items[i].Prepared {
			t.Items[i].Prepared = true
			found = true
		}
	}
	if !found {
		return ErrItemNotPreparable
	}

	t.UpdatedAt = time.Now()

	if t.AllItemsPrepared() {
		return t.UpdateStatus(prepstatus.Statuses.Ready)
	}
	return nil
}
