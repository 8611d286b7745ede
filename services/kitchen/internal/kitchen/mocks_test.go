package kitchen

import (
	"context"

	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"
)

// MockTicketRepository is a test mock for TicketRepository
type MockTicketRepository struct {
	tickets           map[uuid.UUID]*Ticket
	byOrderID         map[uuid.UUID]*Ticket
	CreateFunc        func(ctx context.Context, t *Ticket) error
	UpdateFunc        func(ctx context.Context, t *Ticket) error
	FindByIDFunc      func(ctx context.Context, id TicketID) (*Ticket, error)
	FindByOrderIDFunc func(ctx context.Context, id OrderID) (*Ticket, error)
	ListFunc          func(ctx context.Context, filter TicketFilter) ([]Ticket, error)
	CountByStatusFunc func(ctx context.Context, status string) (int64, error)
}

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{
		tickets:   make(map[uuid.UUID]*Ticket),
		byOrderID: make(map[uuid.UUID]*Ticket),
	}
}

func (m *MockTicketRepository) Create(ctx context.Context, t *Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	if _, exists := m.byOrderID[t.OrderID]; exists {
		return ErrDuplicateOrder
	}
	m.tickets[t.ID] = t
	m.byOrderID[t.OrderID] = t
	return nil
}

func (m *MockTicketRepository) Update(ctx context.Context, t *Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	if _, exists := m.tickets[t.ID]; !exists {
		return ErrTicketNotFound
	}
	m.tickets[t.ID] = t
	return nil
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id TicketID) (*Ticket, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	t, exists := m.tickets[id]
	if !exists {
		return nil, ErrTicketNotFound
	}
	return t, nil
}

func (m *MockTicketRepository) FindByOrderID(ctx context.Context, id OrderID) (*Ticket, error) {
	if m.FindByOrderIDFunc != nil {
		return m.FindByOrderIDFunc(ctx, id)
	}
	return m.byOrderID[id], nil
}

func (m *MockTicketRepository) List(ctx context.Context, filter TicketFilter) ([]Ticket, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	result := make([]Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
			continue
		}
		if filter.OrderID != nil && t.OrderID != *filter.OrderID {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (m *MockTicketRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, status)
	}
	var count int64
	for _, t := range m.tickets {
		if t.Status == status {
			count++
		}
	}
	return count, nil
}

// AddTicket is a helper to seed the mock repository
func (m *MockTicketRepository) AddTicket(t *Ticket) {
	m.tickets[t.ID] = t
	m.byOrderID[t.OrderID] = t
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
	return &MockPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

// MockStreamConsumer is a test mock for events.StreamConsumer
type MockStreamConsumer struct {
	messages            []events.StreamMessage
	FetchFunc           func(ctx context.Context, maxMessages int) ([]events.StreamMessage, error)
	SubscribeStreamFunc func(ctx context.Context, handler events.HandlerFunc) error
}

func NewMockStreamConsumer() *MockStreamConsumer {
	return &MockStreamConsumer{
		messages: make([]events.StreamMessage, 0),
	}
}

func (m *MockStreamConsumer) Fetch(ctx context.Context, maxMessages int) ([]events.StreamMessage, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, maxMessages)
	}
	return m.messages, nil
}

func (m *MockStreamConsumer) SubscribeStream(ctx context.Context, handler events.HandlerFunc) error {
	if m.SubscribeStreamFunc != nil {
		return m.SubscribeStreamFunc(ctx, handler)
	}
	return nil
}

func (m *MockStreamConsumer) AddMessage(data []byte) {
	m.messages = append(m.messages, events.StreamMessage{Data: data})
}
