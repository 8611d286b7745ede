package kitchen

import (
	"context"
	"encoding/json"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/dmndev/restaurant/pkg/enums/prepstatus"
	"github.com/dmndev/restaurant/pkg/event"
)

// Service orchestrates the kitchen ticket lifecycle: creation from inbound
// order events, preparation progress, completion and cancellation. Every
// mutation persists the ticket first and then publishes events fire-and-forget;
// a publish failure is logged, never rolled back.
type Service struct {
	repo      TicketRepository
	publisher events.Publisher
	logger    apt.Logger
}

func NewService(repo TicketRepository, publisher events.Publisher, logger apt.Logger) *Service {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateTicket builds and persists a ticket in RECEIVED status. Duplicate
// order ids are rejected; the repository's unique order_id index backstops the
// check against racing consumers.
func (s *Service) CreateTicket(ctx context.Context, orderID OrderID, customerID, customerName string, items []TicketItem, notes string, priority int) (*Ticket, error) {
	ticket := NewTicket(orderID, customerID, customerName, items, notes)
	if priority > 0 {
		ticket.Priority = priority
	}

	if err := ticket.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateOrder
	}

	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Infof("Created ticket %s for order %s", ticket.ID, orderID)
	s.publishTicketCreated(ctx, ticket)

	return ticket, nil
}

// StartPreparation assigns a chef and moves a RECEIVED ticket to IN_PROGRESS.
func (s *Service) StartPreparation(ctx context.Context, ticketID TicketID, chefID string) (*Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	previous := ticket.PrepStatus()
	if previous != prepstatus.Statuses.Received {
		return nil, &prepstatus.TransitionError{From: previous, To: prepstatus.Statuses.InProgress}
	}

	ticket.AssignTo(chefID)
	if err := ticket.UpdateStatus(prepstatus.Statuses.InProgress); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Infof("Preparation started: ticket=%s chef=%s", ticketID, chefID)
	s.publishStatusChanged(ctx, ticket, previous)

	return ticket, nil
}

// MarkItemPrepared marks one item prepared. When the last item becomes
// prepared the ticket auto-advances to READY and an order.ready notice goes
// out.
func (s *Service) MarkItemPrepared(ctx context.Context, ticketID TicketID, productID string) (*Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.MarkItemPrepared(productID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Infof("Item marked as prepared: ticket=%s product=%s progress=%d%%",
		ticketID, productID, ticket.PreparationProgress())

	if ticket.PrepStatus() == prepstatus.Statuses.Ready {
		s.publishOrderReady(ctx, ticket)
	}

	return ticket, nil
}

// CompletePreparation forces every item prepared and moves an IN_PROGRESS
// ticket to READY.
func (s *Service) CompletePreparation(ctx context.Context, ticketID TicketID) (*Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	previous := ticket.PrepStatus()
	if previous != prepstatus.Statuses.InProgress {
		return nil, &prepstatus.TransitionError{From: previous, To: prepstatus.Statuses.Ready}
	}

	if err := ticket.UpdateStatus(prepstatus.Statuses.Ready); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Infof("Preparation completed: ticket=%s", ticketID)
	s.publishStatusChanged(ctx, ticket, previous)
	s.publishOrderReady(ctx, ticket)

	return ticket, nil
}

// CancelTicket cancels a ticket and resets its items. Cancelling an already
// cancelled ticket is a no-op returning the unchanged ticket; a delivered
// ticket cannot be cancelled.
func (s *Service) CancelTicket(ctx context.Context, ticketID TicketID) (*Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	previous := ticket.PrepStatus()
	if previous == prepstatus.Statuses.Delivered {
		return nil, ErrTicketDelivered
	}
	if previous == prepstatus.Statuses.Cancelled {
		return ticket, nil
	}

	if err := ticket.UpdateStatus(prepstatus.Statuses.Cancelled); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Infof("Ticket cancelled: %s", ticketID)
	s.publishStatusChanged(ctx, ticket, previous)
	s.publishOrderCancelled(ctx, ticket)

	return ticket, nil
}

// UpdateTicketStatus is the generic transition path. The target status is
// validated against the transition table; entering IN_PROGRESS requires an
// assigned chef (chefID assigns one first when given), entering CANCELLED
// resets the items' prepared flags. Setting the current status again is a
// no-op returning the unchanged ticket.
func (s *Service) UpdateTicketStatus(ctx context.Context, ticketID TicketID, newStatus string, chefID string) (*Ticket, error) {
	target := prepstatus.ByName(newStatus)
	if target == nil {
		return nil, ErrUnknownStatus
	}

	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	previous := ticket.PrepStatus()
	if previous == *target {
		return ticket, nil
	}

	if chefID != "" && *target == prepstatus.Statuses.InProgress {
		ticket.AssignTo(chefID)
	}

	if err := ticket.UpdateStatus(*target); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Infof("Ticket status updated: %s from %s to %s", ticketID, previous.Name, target.Name)
	s.publishStatusChanged(ctx, ticket, previous)

	switch *target {
	case prepstatus.Statuses.Ready:
		s.publishOrderReady(ctx, ticket)
	case prepstatus.Statuses.Cancelled:
		s.publishOrderCancelled(ctx, ticket)
	}

	return ticket, nil
}

func (s *Service) GetTicketByID(ctx context.Context, ticketID TicketID) (*Ticket, error) {
	return s.repo.FindByID(ctx, ticketID)
}

func (s *Service) GetTicketByOrderID(ctx context.Context, orderID OrderID) (*Ticket, error) {
	return s.repo.FindByOrderID(ctx, orderID)
}

func (s *Service) GetTicketsByStatus(ctx context.Context, status string) ([]Ticket, error) {
	return s.repo.List(ctx, TicketFilter{Status: &status})
}

func (s *Service) GetTicketsByChef(ctx context.Context, chefID string) ([]Ticket, error) {
	return s.repo.List(ctx, TicketFilter{AssignedTo: &chefID})
}

func (s *Service) GetAllTickets(ctx context.Context) ([]Ticket, error) {
	return s.repo.List(ctx, TicketFilter{})
}

// StatusSummary holds per-status ticket counts for the kitchen dashboard.
type StatusSummary struct {
	Received   int64 `json:"received"`
	InProgress int64 `json:"in_progress"`
	Ready      int64 `json:"ready"`
	Delivered  int64 `json:"delivered"`
	Cancelled  int64 `json:"cancelled"`
	Total      int64 `json:"total"`
}

func (s *Service) GetStatusSummary(ctx context.Context) (*StatusSummary, error) {
	summary := &StatusSummary{}
	counts := []struct {
		status prepstatus.Status
		target *int64
	}{
		{prepstatus.Statuses.Received, &summary.Received},
		{prepstatus.Statuses.InProgress, &summary.InProgress},
		{prepstatus.Statuses.Ready, &summary.Ready},
		{prepstatus.Statuses.Delivered, &summary.Delivered},
		{prepstatus.Statuses.Cancelled, &summary.Cancelled},
	}
	for _, c := range counts {
		n, err := s.repo.CountByStatus(ctx, c.status.Code())
		if err != nil {
			return nil, err
		}
		*c.target = n
		summary.Total += n
	}
	return summary, nil
}

func (s *Service) publishTicketCreated(ctx context.Context, t *Ticket) {
	payload := event.KitchenTicketCreatedEvent{
		KitchenTicketEventMetadata: event.KitchenTicketEventMetadata{
			EventID:    uuid.NewString(),
			EventType:  event.EventKitchenTicketCreated,
			OccurredAt: time.Now().UTC(),
			TicketID:   t.ID.String(),
			OrderID:    t.OrderID.String(),
		},
		CustomerID:   t.CustomerID,
		CustomerName: t.CustomerName,
		Status:       t.Status,
		Priority:     t.Priority,
		Items:        toTicketItemPayloads(t.Items),
		Notes:        t.Notes,
	}
	s.publish(ctx, event.Subject(event.KitchenEventsTopic, t.OrderID.String()), payload)
}

func (s *Service) publishStatusChanged(ctx context.Context, t *Ticket, previous prepstatus.Status) {
	payload := event.KitchenTicketStatusChangedEvent{
		KitchenTicketEventMetadata: event.KitchenTicketEventMetadata{
			EventID:    uuid.NewString(),
			EventType:  event.EventKitchenTicketStatusChange,
			OccurredAt: time.Now().UTC(),
			TicketID:   t.ID.String(),
			OrderID:    t.OrderID.String(),
		},
		NewStatus:              t.Status,
		PreviousStatus:         previous.Code(),
		AssignedTo:             t.AssignedTo,
		Notes:                  t.Notes,
		PreparationStartedAt:   t.PreparationStartedAt,
		PreparationCompletedAt: t.PreparationCompletedAt,
	}
	s.publish(ctx, event.Subject(event.KitchenEventsTopic, t.OrderID.String()), payload)
}

func (s *Service) publishOrderReady(ctx context.Context, t *Ticket) {
	preparedAt := time.Now().UTC()
	if t.PreparationCompletedAt != nil {
		preparedAt = *t.PreparationCompletedAt
	}
	payload := event.OrderReadyEvent{
		EventID:         uuid.NewString(),
		EventType:       event.EventOrderReady,
		OccurredAt:      time.Now().UTC(),
		OrderID:         t.OrderID.String(),
		KitchenTicketID: t.ID.String(),
		CustomerID:      t.CustomerID,
		CustomerName:    t.CustomerName,
		PreparedBy:      t.AssignedTo,
		PreparedAt:      preparedAt,
		Notes:           t.Notes,
	}
	// Both topics: order-side consumers and delivery-side consumers each
	// listen on their own topic.
	s.publish(ctx, event.Subject(event.KitchenEventsTopic, t.OrderID.String()), payload)
	s.publish(ctx, event.Subject(event.OrderEventsTopic, t.OrderID.String()), payload)
}

func (s *Service) publishOrderCancelled(ctx context.Context, t *Ticket) {
	payload := event.OrderCancelledNotice{
		EventID:         uuid.NewString(),
		EventType:       event.EventOrderCancelled,
		OccurredAt:      time.Now().UTC(),
		OrderID:         t.OrderID.String(),
		KitchenTicketID: t.ID.String(),
		Reason:          "cancelled by kitchen",
	}
	s.publish(ctx, event.Subject(event.OrderEventsTopic, t.OrderID.String()), payload)
}

func (s *Service) publish(ctx context.Context, subject string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Errorf("Failed to marshal event for %s: %v", subject, err)
		return
	}
	if err := s.publisher.Publish(ctx, subject, data); err != nil {
		s.logger.Errorf("Failed to publish event to %s: %v", subject, err)
	}
}

func toTicketItemPayloads(items []TicketItem) []event.TicketItemPayload {
	payloads := make([]event.TicketItemPayload, len(items))
	for i, item := range items {
		payloads[i] = event.TicketItemPayload{
			ProductID:           item.ProductID,
			ProductName:         item.ProductName,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
			Prepared:            item.Prepared,
		}
	}
	return payloads
}
