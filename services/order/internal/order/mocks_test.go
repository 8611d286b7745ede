package order

import (
	"context"

	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockOrderRepository is a test mock for OrderRepository
type MockOrderRepository struct {
	orders       map[uuid.UUID]*Order
	CreateFunc   func(ctx context.Context, o *Order) error
	UpdateFunc   func(ctx context.Context, o *Order) error
	FindByIDFunc func(ctx context.Context, id OrderID) (*Order, error)
	ListFunc     func(ctx context.Context, filter OrderFilter) ([]Order, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[uuid.UUID]*Order),
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, o *Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	m.orders[o.ID] = o
	return nil
}

func (m *MockOrderRepository) Update(ctx context.Context, o *Order) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, o)
	}
	if _, exists := m.orders[o.ID]; !exists {
		return ErrOrderNotFound
	}
	m.orders[o.ID] = o
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id OrderID) (*Order, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	o, exists := m.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (m *MockOrderRepository) List(ctx context.Context, filter OrderFilter) ([]Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	result := make([]Order, 0, len(m.orders))
	for _, o := range m.orders {
		if filter.CustomerID != nil && o.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		result = append(result, *o)
	}
	return result, nil
}

// AddOrder is a helper to seed the mock repository
func (m *MockOrderRepository) AddOrder(o *Order) {
	m.orders[o.ID] = o
}

// MockMenuClient is a test mock for MenuClient
type MockMenuClient struct {
	products       map[string]*ProductInfo
	GetProductFunc func(ctx context.Context, productID string) (*ProductInfo, error)
}

func NewMockMenuClient() *MockMenuClient {
	return &MockMenuClient{
		products: make(map[string]*ProductInfo),
	}
}

func (m *MockMenuClient) GetProduct(ctx context.Context, productID string) (*ProductInfo, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, productID)
	}
	p, exists := m.products[productID]
	if !exists {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// AddProduct is a helper to seed the mock catalog
func (m *MockMenuClient) AddProduct(id, name string, price float64, available bool) {
	m.products[id] = &ProductInfo{
		ID:        id,
		Name:      name,
		Price:     decimal.NewFromFloat(price),
		Available: available,
	}
}

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// MockSubscriber is a test mock for events.Subscriber
type MockSubscriber struct {
	SubscribedTopic string
	Handler         events.HandlerFunc
	SubscribeFunc   func(ctx context.Context, topic string, handler events.HandlerFunc) error
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	m.SubscribedTopic = topic
	m.Handler = handler
	return nil
}

func (m *MockSubscriber) Close() error {
	return nil
}
