package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is a product the restaurant offers. The order service snapshots
// name and price from here at order time; later edits never touch existing
// orders.
type MenuItem struct {
	ID          uuid.UUID       `bson:"_id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	Price       decimal.Decimal `bson:"price" json:"price"`
	Category    string          `bson:"category,omitempty" json:"category,omitempty"`
	Tags        []string        `bson:"tags,omitempty" json:"tags,omitempty"`
	Allergens   []string        `bson:"allergens,omitempty" json:"allergens,omitempty"`
	Available   bool            `bson:"available" json:"available"`
	ImageURL    string          `bson:"image_url,omitempty" json:"image_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	ModelVersion int `bson:"model_version" json:"model_version"`
}

// NewMenuItem builds an available item with a fresh id.
func NewMenuItem(name, description string, price decimal.Decimal, category string) *MenuItem {
	now := time.Now()
	return &MenuItem{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (m *MenuItem) GetID() uuid.UUID {
	return m.ID
}

func (m *MenuItem) ResourceType() string {
	return "menu_item"
}

// Validate checks the fields an item cannot be offered without.
func (m *MenuItem) Validate() error {
	if m.Name == "" {
		return ErrInvalidItemData
	}
	if !m.Price.IsPositive() {
		return ErrInvalidItemData
	}
	return nil
}

// SetAvailability toggles whether the item can be ordered.
func (m *MenuItem) SetAvailability(available bool) {
	m.Available = available
	m.UpdatedAt = time.Now()
}
