package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmndev/restaurant/pkg/enums/orderstatus"
)

type OrderID = uuid.UUID

// TaxRate is the fixed tax rate applied to every order's subtotal.
var TaxRate = decimal.NewFromFloat(0.10)

// Order is the ordering-side aggregate. Totals are derived from the items and
// recomputed on every item mutation; Total is always Subtotal + Tax.
type Order struct {
	ID           OrderID     `bson:"_id" json:"id"`
	CustomerID   string      `bson:"customer_id" json:"customer_id"`
	CustomerName string      `bson:"customer_name" json:"customer_name"`
	Items        []OrderItem `bson:"items" json:"items"`

	Subtotal decimal.Decimal `bson:"subtotal" json:"subtotal"`
	Tax      decimal.Decimal `bson:"tax" json:"tax"`
	Total    decimal.Decimal `bson:"total" json:"total"`

	Status   string `bson:"status" json:"status"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty"`
	Priority int    `bson:"priority,omitempty" json:"priority,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	ModelVersion int `bson:"model_version" json:"model_version"`
}

// OrderItem is one line of an order. ProductName and UnitPrice are snapshots
// taken from the catalog at creation time and never re-fetched.
type OrderItem struct {
	ID                  uuid.UUID       `bson:"id" json:"id"`
	ProductID           string          `bson:"product_id" json:"product_id"`
	ProductName         string          `bson:"product_name" json:"product_name"`
	Quantity            int             `bson:"quantity" json:"quantity"`
	UnitPrice           decimal.Decimal `bson:"unit_price" json:"unit_price"`
	TotalPrice          decimal.Decimal `bson:"total_price" json:"total_price"`
	SpecialInstructions string          `bson:"special_instructions,omitempty" json:"special_instructions,omitempty"`
}

// NewOrderItem builds an order line with TotalPrice derived from the
// quantity and the snapshotted unit price.
func NewOrderItem(productID, productName string, quantity int, unitPrice decimal.Decimal, specialInstructions string) OrderItem {
	return OrderItem{
		ID:                  uuid.New(),
		ProductID:           productID,
		ProductName:         productName,
		Quantity:            quantity,
		UnitPrice:           unitPrice,
		TotalPrice:          unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		SpecialInstructions: specialInstructions,
	}
}

// NewOrder builds an order in CREATED status and computes its totals.
func NewOrder(customerID, customerName string, items []OrderItem, notes string) *Order {
	now := time.Now()
	o := &Order{
		ID:           uuid.New(),
		CustomerID:   customerID,
		CustomerName: customerName,
		Items:        items,
		Status:       orderstatus.Statuses.Created.Code(),
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	o.recalculateTotals()
	return o
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

// Validate checks the data an order cannot exist without: at least one item,
// each with a product reference, a positive quantity and a positive price.
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range o.Items {
		if item.ProductID == "" || item.ProductName == "" {
			return ErrInvalidOrderData
		}
		if item.Quantity <= 0 || !item.UnitPrice.IsPositive() {
			return ErrInvalidOrderData
		}
	}
	return nil
}

// OrderStatus returns the parsed status. Unknown codes come back as CREATED;
// the repository never stores one.
func (o *Order) OrderStatus() orderstatus.Status {
	if s := orderstatus.ByName(o.Status); s != nil {
		return *s
	}
	return orderstatus.Statuses.Created
}

// UpdateStatus applies a status transition. The state machine owns legality;
// this layer only bumps UpdatedAt.
func (o *Order) UpdateStatus(next orderstatus.Status) error {
	current := o.OrderStatus()
	if err := current.ValidateTransition(next); err != nil {
		return err
	}
	o.Status = next.Code()
	o.UpdatedAt = time.Now()
	return nil
}

// AddItem appends a line and recomputes totals. Insertion order is preserved
// for display.
func (o *Order) AddItem(item OrderItem) {
	o.Items = append(o.Items, item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
}

// RemoveItem drops the line matching itemID and recomputes totals. It reports
// whether a line was removed.
func (o *Order) RemoveItem(itemID uuid.UUID) bool {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// UpdateItemQuantity changes a line's quantity, recomputing its total price
// and the order totals. A non-positive quantity is rejected.
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidOrderData
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items[i].Quantity = quantity
			o.Items[i].TotalPrice = o.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrItemNotFound
}

// UpdateNotes replaces the order's free-text notes.
func (o *Order) UpdateNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	o.Subtotal = subtotal
	o.Tax = subtotal.Mul(TaxRate)
	o.Total = o.Subtotal.Add(o.Tax)
}
