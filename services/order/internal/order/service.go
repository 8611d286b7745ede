package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/dmndev/restaurant/pkg/enums/orderstatus"
	"github.com/dmndev/restaurant/pkg/event"
)

// ItemRequest is one requested order line. Product name and price come from
// the catalog, not from the caller.
type ItemRequest struct {
	ProductID           string `json:"product_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

// Service orchestrates the order lifecycle: creation with catalog pricing,
// status updates and cancellation. Every mutation persists the order first and
// then publishes events fire-and-forget; a publish failure is logged, never
// rolled back.
type Service struct {
	repo      OrderRepository
	menu      MenuClient
	publisher events.Publisher
	logger    apt.Logger
}

func NewService(repo OrderRepository, menu MenuClient, publisher events.Publisher, logger apt.Logger) *Service {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Service{
		repo:      repo,
		menu:      menu,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateOrder prices the requested items against the catalog, persists the
// order in CREATED status and publishes order.created. A missing or
// unavailable product aborts the whole order; nothing is persisted. Priority
// is a kitchen hint carried on the event; zero means unset.
func (s *Service) CreateOrder(ctx context.Context, customerID, customerName string, items []ItemRequest, notes string, priority int) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	lines := make([]OrderItem, 0, len(items))
	for _, req := range items {
		if req.ProductID == "" || req.Quantity <= 0 {
			return nil, ErrInvalidOrderData
		}

		product, err := s.menu.GetProduct(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Available {
			return nil, ErrProductUnavailable
		}

		lines = append(lines, NewOrderItem(product.ID, product.Name, req.Quantity, product.Price, req.SpecialInstructions))
	}

	o := NewOrder(customerID, customerName, lines, notes)
	if priority > 0 {
		o.Priority = priority
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Infof("Created order %s for customer %s, total %s", o.ID, customerID, o.Total)
	s.publishOrderEvent(ctx, event.EventOrderCreated, o)

	return o, nil
}

// UpdateOrderStatus applies a status transition and publishes order.updated.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID OrderID, newStatus string) (*Order, error) {
	target := orderstatus.ByName(newStatus)
	if target == nil {
		return nil, ErrUnknownStatus
	}

	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := o.Status
	if err := o.UpdateStatus(*target); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Infof("Order status updated: %s from %s to %s", orderID, previous, target.Name)
	s.publishOrderEvent(ctx, event.EventOrderUpdated, o)

	return o, nil
}

// CancelOrder moves an order to CANCELLED and publishes order.cancelled.
// Terminal orders are rejected by the state machine.
func (s *Service) CancelOrder(ctx context.Context, orderID OrderID) (*Order, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.UpdateStatus(orderstatus.Statuses.Cancelled); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Infof("Order cancelled: %s", orderID)
	s.publishOrderEvent(ctx, event.EventOrderCancelled, o)

	return o, nil
}

func (s *Service) GetOrderByID(ctx context.Context, orderID OrderID) (*Order, error) {
	return s.repo.FindByID(ctx, orderID)
}

func (s *Service) GetOrdersByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	return s.repo.List(ctx, OrderFilter{CustomerID: &customerID})
}

func (s *Service) GetOrdersByStatus(ctx context.Context, status string) ([]Order, error) {
	return s.repo.List(ctx, OrderFilter{Status: &status})
}

func (s *Service) GetAllOrders(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx, OrderFilter{})
}

func (s *Service) publishOrderEvent(ctx context.Context, eventType string, o *Order) {
	payload := event.OrderEvent{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		OccurredAt:   time.Now().UTC(),
		OrderID:      o.ID.String(),
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Items:        toOrderItemPayloads(o.Items),
		Subtotal:     o.Subtotal,
		Tax:          o.Tax,
		Total:        o.Total,
		Status:       o.Status,
		Notes:        o.Notes,
		Priority:     o.Priority,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Errorf("Failed to marshal %s event for order %s: %v", eventType, o.ID, err)
		return
	}

	subject := event.Subject(event.OrderEventsTopic, o.ID.String())
	if err := s.publisher.Publish(ctx, subject, data); err != nil {
		s.logger.Errorf("Failed to publish %s event to %s: %v", eventType, subject, err)
	}
}

func toOrderItemPayloads(items []OrderItem) []event.OrderItemPayload {
	payloads := make([]event.OrderItemPayload, len(items))
	for i, item := range items {
		payloads[i] = event.OrderItemPayload{
			ID:                  item.ID.String(),
			ProductID:           item.ProductID,
			ProductName:         item.ProductName,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			TotalPrice:          item.TotalPrice,
			SpecialInstructions: item.SpecialInstructions,
		}
	}
	return payloads
}
