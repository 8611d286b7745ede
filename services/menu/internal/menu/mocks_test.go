package menu

import (
	"context"

	"github.com/google/uuid"
)

// MockMenuItemRepo is a test mock for MenuItemRepo
type MockMenuItemRepo struct {
	items      map[uuid.UUID]*MenuItem
	CreateFunc func(ctx context.Context, item *MenuItem) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*MenuItem, error)
	ListFunc   func(ctx context.Context, filter ItemFilter) ([]MenuItem, error)
	SaveFunc   func(ctx context.Context, item *MenuItem) error
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockMenuItemRepo() *MockMenuItemRepo {
	return &MockMenuItemRepo{
		items: make(map[uuid.UUID]*MenuItem),
	}
}

func (m *MockMenuItemRepo) Create(ctx context.Context, item *MenuItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	m.items[item.ID] = item
	return nil
}

func (m *MockMenuItemRepo) Get(ctx context.Context, id uuid.UUID) (*MenuItem, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	item, exists := m.items[id]
	if !exists {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (m *MockMenuItemRepo) List(ctx context.Context, filter ItemFilter) ([]MenuItem, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	result := make([]MenuItem, 0, len(m.items))
	for _, item := range m.items {
		if filter.Category != nil && item.Category != *filter.Category {
			continue
		}
		if filter.Available != nil && item.Available != *filter.Available {
			continue
		}
		result = append(result, *item)
	}
	return result, nil
}

func (m *MockMenuItemRepo) Save(ctx context.Context, item *MenuItem) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, item)
	}
	if _, exists := m.items[item.ID]; !exists {
		return ErrItemNotFound
	}
	m.items[item.ID] = item
	return nil
}

func (m *MockMenuItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	if _, exists := m.items[id]; !exists {
		return ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

// AddItem is a helper to seed the mock repository
func (m *MockMenuItemRepo) AddItem(item *MenuItem) {
	m.items[item.ID] = item
}
