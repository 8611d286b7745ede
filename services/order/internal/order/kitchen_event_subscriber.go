package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/dmndev/restaurant/pkg/enums/orderstatus"
	"github.com/dmndev/restaurant/pkg/event"
)

// KitchenEventSubscriber keeps orders in sync with kitchen ticket progress.
// Sync is eventual and best-effort: a kitchen status with no legal order
// transition is logged and skipped, never retried.
type KitchenEventSubscriber struct {
	subscriber events.Subscriber
	service    *Service
	logger     apt.Logger
}

func NewKitchenEventSubscriber(sub events.Subscriber, service *Service, logger apt.Logger) *KitchenEventSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &KitchenEventSubscriber{
		subscriber: sub,
		service:    service,
		logger:     logger,
	}
}

func (s *KitchenEventSubscriber) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return fmt.Errorf("kitchen event subscriber not configured")
	}
	topic := event.Wildcard(event.KitchenEventsTopic)
	s.log().Infof("Subscribing to %s", topic)
	return s.subscriber.Subscribe(ctx, topic, s.handleEvent)
}

func (s *KitchenEventSubscriber) Stop(ctx context.Context) error {
	return nil
}

func (s *KitchenEventSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var metadata event.KitchenTicketEventMetadata
	if err := json.Unmarshal(msg, &metadata); err != nil {
		s.log().Infof("Invalid kitchen event: %v", err)
		return nil
	}

	switch metadata.EventType {
	case event.EventKitchenTicketStatusChange:
		return s.handleStatusChange(ctx, msg)
	case event.EventKitchenTicketCreated:
		// Ticket creation was triggered by this service's own order.created.
		return nil
	case event.EventOrderReady:
		// Covered by the ticket status change to ready.
		return nil
	default:
		s.log().Infof("Ignoring kitchen event type %q", metadata.EventType)
		return nil
	}
}

func (s *KitchenEventSubscriber) handleStatusChange(ctx context.Context, msg []byte) error {
	var evt event.KitchenTicketStatusChangedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.log().Infof("Invalid kitchen status change event: %v", err)
		return nil
	}

	orderID, err := uuid.Parse(evt.OrderID)
	if err != nil {
		s.log().Infof("Invalid order id in kitchen event: %q", evt.OrderID)
		return nil
	}

	target := mapPrepStatusToOrderStatus(evt.NewStatus)
	if target == "" {
		return nil
	}

	if target == orderstatus.Statuses.Cancelled.Code() {
		_, err = s.service.CancelOrder(ctx, orderID)
	} else {
		_, err = s.service.UpdateOrderStatus(ctx, orderID, target)
	}
	if err != nil {
		var transitionErr *orderstatus.TransitionError
		if errors.As(err, &transitionErr) {
			// The order is not in a state this kitchen update can advance.
			// Accepted divergence; delivery ordering is per-order only.
			s.log().Infof("Skipping kitchen sync for order %s: %v", orderID, err)
			return nil
		}
		if errors.Is(err, ErrOrderNotFound) {
			s.log().Infof("No order %s for kitchen ticket %s", orderID, evt.TicketID)
			return nil
		}
		return err
	}

	s.log().Infof("Order %s synced to %s from kitchen ticket %s", orderID, target, evt.TicketID)
	return nil
}

// mapPrepStatusToOrderStatus maps kitchen preparation statuses to the order
// statuses they drive. Kitchen delivered means handed off the pass; the
// delivery flow owns the order's progression past ready_for_delivery.
func mapPrepStatusToOrderStatus(prep string) string {
	switch prep {
	case "in_progress":
		return orderstatus.Statuses.Preparing.Code()
	case "ready":
		return orderstatus.Statuses.ReadyForDelivery.Code()
	case "cancelled":
		return orderstatus.Statuses.Cancelled.Code()
	default:
		return ""
	}
}

func (s *KitchenEventSubscriber) log() apt.Logger {
	return s.logger.With("component", "KitchenEventSubscriber")
}
