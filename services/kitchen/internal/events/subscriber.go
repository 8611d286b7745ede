package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/dmndev/restaurant/pkg/event"
	"github.com/dmndev/restaurant/services/kitchen/internal/kitchen"
)

// OrderEventSubscriber consumes order lifecycle events and drives kitchen
// tickets from them: order.created opens a ticket, order.cancelled cancels it.
type OrderEventSubscriber struct {
	subscriber events.Subscriber
	service    *kitchen.Service
	cache      *kitchen.TicketStateCache
	logger     apt.Logger
}

func NewOrderEventSubscriber(
	subscriber events.Subscriber,
	service *kitchen.Service,
	cache *kitchen.TicketStateCache,
	logger apt.Logger,
) *OrderEventSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &OrderEventSubscriber{
		subscriber: subscriber,
		service:    service,
		cache:      cache,
		logger:     logger,
	}
}

func (s *OrderEventSubscriber) Start(ctx context.Context) error {
	subject := event.Wildcard(event.OrderEventsTopic)
	s.logger.Infof("Starting OrderEventSubscriber for subject: %s", subject)

	if err := s.subscriber.Subscribe(ctx, subject, s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	s.logger.Info("OrderEventSubscriber started successfully")
	return nil
}

func (s *OrderEventSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Errorf("Failed to unmarshal event: %v", err)
		return nil
	}

	switch evt.EventType {
	case event.EventOrderCreated:
		return s.handleCreated(ctx, &evt)
	case event.EventOrderCancelled:
		return s.handleCancelled(ctx, &evt)
	case event.EventOrderUpdated, event.EventOrderReady:
		// order.updated carries no kitchen-relevant change; order.ready
		// originates here.
		return nil
	default:
		s.logger.Infof("Unknown event type: %s", evt.EventType)
	}

	return nil
}

func (s *OrderEventSubscriber) handleCreated(ctx context.Context, evt *event.OrderEvent) error {
	orderID, err := uuid.Parse(evt.OrderID)
	if err != nil {
		s.logger.Errorf("Invalid order_id: %v", err)
		return nil
	}

	items := make([]kitchen.TicketItem, len(evt.Items))
	for i, it := range evt.Items {
		items[i] = kitchen.TicketItem{
			ProductID:           it.ProductID,
			ProductName:         it.ProductName,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		}
	}

	ticket, err := s.service.CreateTicket(ctx, orderID, evt.CustomerID, evt.CustomerName, items, evt.Notes, evt.Priority)
	if err != nil {
		if errors.Is(err, kitchen.ErrDuplicateOrder) {
			// Redelivery of an already processed event
			s.logger.Infof("Ticket already exists for order %s", evt.OrderID)
			return nil
		}
		s.logger.Errorf("Failed to create ticket for order %s: %v", evt.OrderID, err)
		return err
	}

	if s.cache != nil {
		s.cache.Set(ticket)
	}

	return nil
}

func (s *OrderEventSubscriber) handleCancelled(ctx context.Context, evt *event.OrderEvent) error {
	orderID, err := uuid.Parse(evt.OrderID)
	if err != nil {
		s.logger.Errorf("Invalid order_id: %v", err)
		return nil
	}

	ticket, err := s.service.GetTicketByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Errorf("Error looking up ticket for order %s: %v", evt.OrderID, err)
		return err
	}
	if ticket == nil {
		// Order was cancelled before the kitchen ever saw it
		s.logger.Infof("No kitchen ticket found for order %s", evt.OrderID)
		return nil
	}

	cancelled, err := s.service.CancelTicket(ctx, ticket.ID)
	if err != nil {
		if errors.Is(err, kitchen.ErrTicketDelivered) {
			s.logger.Infof("Ticket %s already delivered, ignoring cancellation for order %s", ticket.ID, evt.OrderID)
			return nil
		}
		s.logger.Errorf("Failed to cancel ticket %s: %v", ticket.ID, err)
		return err
	}

	if s.cache != nil {
		s.cache.Set(cancelled)
	}

	return nil
}
