package kitchen

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/dmndev/restaurant/pkg/enums/prepstatus"
	"github.com/dmndev/restaurant/pkg/event"
)

// TicketStateCache maintains an in-memory view of kitchen tickets, indexed by
// status and assigned chef for fast board queries. It is rebuilt on startup by
// replaying the kitchen-events stream, with a MongoDB fallback.
type TicketStateCache struct {
	mu sync.RWMutex
	// tickets indexed by ticket_id
	tickets map[uuid.UUID]*Ticket
	// index by status code -> ticket_id
	byStatus map[string][]uuid.UUID
	// index by assigned chef -> ticket_id
	byChef map[string][]uuid.UUID

	stream events.StreamConsumer // For event replay on startup
	repo   TicketRepository      // Fallback to MongoDB if stream unavailable
	logger apt.Logger
}

// NewTicketStateCache creates a new ticket cache.
func NewTicketStateCache(stream events.StreamConsumer, repo TicketRepository, logger apt.Logger) *TicketStateCache {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &TicketStateCache{
		tickets:  make(map[uuid.UUID]*Ticket),
		byStatus: make(map[string][]uuid.UUID),
		byChef:   make(map[string][]uuid.UUID),
		stream:   stream,
		repo:     repo,
		logger:   logger,
	}
}

// Warm loads tickets into the cache using event replay from the stream.
// Falls back to loading from MongoDB if the stream is unavailable.
func (c *TicketStateCache) Warm(ctx context.Context) error {
	if c.stream != nil {
		if err := c.warmFromStream(ctx); err != nil {
			c.logger.Info("stream replay failed, falling back to MongoDB", "error", err)
		} else {
			c.removeCompletedTickets()
			return nil
		}
	}

	if c.repo == nil {
		c.logger.Info("neither stream nor repo configured, cache remains empty")
		return nil
	}

	return c.warmFromRepo(ctx)
}

// warmFromStream replays events from the persistent stream to rebuild cache state.
func (c *TicketStateCache) warmFromStream(ctx context.Context) error {
	// Protect against panics from nil pointer dereferences in stream implementations
	defer func() {
		if r := recover(); r != nil {
			c.logger.Info("stream panic recovered, falling back to MongoDB", "panic", r)
		}
	}()

	c.logger.Info("warming cache from event stream")

	messages, err := c.stream.Fetch(ctx, 10000)
	if err != nil {
		return err
	}

	c.logger.Info("fetched events from stream", "count", len(messages))

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, msg := range messages {
		c.applyEventLocked(msg.Data)
	}

	c.logger.Info("cache warmed from stream", "tickets", len(c.tickets))
	return nil
}

// warmFromRepo loads tickets from the MongoDB repository (fallback).
func (c *TicketStateCache) warmFromRepo(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Info("MongoDB panic recovered, cache will remain empty", "panic", r)
			err = nil
		}
	}()

	c.logger.Info("warming cache from MongoDB")

	tickets, dbErr := c.repo.List(ctx, TicketFilter{})
	if dbErr != nil {
		c.logger.Info("failed to warm ticket cache from MongoDB, cache will remain empty", "error", dbErr)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range tickets {
		c.setLocked(&tickets[i])
	}

	c.logger.Info("cache warmed from MongoDB", "count", len(tickets))
	return nil
}

// applyEventLocked processes a single event and updates the cache.
// Must be called with c.mu locked.
func (c *TicketStateCache) applyEventLocked(data []byte) {
	var baseEvent struct {
		EventType string `json:"event_type"`
	}

	if err := json.Unmarshal(data, &baseEvent); err != nil {
		c.logger.Error("failed to unmarshal event type", "error", err)
		return
	}

	switch baseEvent.EventType {
	case event.EventKitchenTicketCreated:
		c.handleTicketCreatedLocked(data)
	case event.EventKitchenTicketStatusChange:
		c.handleTicketStatusChangedLocked(data)
	default:
		// Silently ignore unknown event types (forward compatibility)
		return
	}
}

func (c *TicketStateCache) handleTicketCreatedLocked(data []byte) {
	var evt event.KitchenTicketCreatedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		c.logger.Error("failed to unmarshal ticket.created event", "error", err)
		return
	}

	ticketID, _ := uuid.Parse(evt.TicketID)
	orderID, _ := uuid.Parse(evt.OrderID)

	items := make([]TicketItem, len(evt.Items))
	for i, it := range evt.Items {
		items[i] = TicketItem{
			ProductID:           it.ProductID,
			ProductName:         it.ProductName,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
			Prepared:            it.Prepared,
		}
	}

	ticket := &Ticket{
		ID:           ticketID,
		OrderID:      orderID,
		CustomerID:   evt.CustomerID,
		CustomerName: evt.CustomerName,
		Status:       evt.Status,
		Priority:     evt.Priority,
		Items:        items,
		Notes:        evt.Notes,
		CreatedAt:    evt.OccurredAt,
		UpdatedAt:    evt.OccurredAt,
	}

	c.setLocked(ticket)
}

func (c *TicketStateCache) handleTicketStatusChangedLocked(data []byte) {
	var evt event.KitchenTicketStatusChangedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		c.logger.Error("failed to unmarshal ticket.status_changed event", "error", err)
		return
	}

	ticketID, _ := uuid.Parse(evt.TicketID)
	ticket := c.tickets[ticketID]
	if ticket == nil {
		// Create minimal entry if the created event was outside the replay window
		orderID, _ := uuid.Parse(evt.OrderID)
		ticket = &Ticket{
			ID:      ticketID,
			OrderID: orderID,
		}
	}

	ticket.Status = evt.NewStatus
	ticket.AssignedTo = evt.AssignedTo
	ticket.Notes = evt.Notes
	ticket.UpdatedAt = evt.OccurredAt
	ticket.PreparationStartedAt = evt.PreparationStartedAt
	ticket.PreparationCompletedAt = evt.PreparationCompletedAt

	c.setLocked(ticket)
}

// removeCompletedTickets filters out delivered and cancelled tickets from the
// cache. Called after warming from stream so the board shows only live work.
func (c *TicketStateCache) removeCompletedTickets() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	for id, ticket := range c.tickets {
		if ticket.Status == prepstatus.Statuses.Delivered.Code() || ticket.Status == prepstatus.Statuses.Cancelled.Code() {
			c.removeFromIndex(c.byStatus, ticket.Status, id)
			c.removeFromIndex(c.byChef, ticket.AssignedTo, id)
			delete(c.tickets, id)
			removed++
		}
	}

	c.logger.Info("removed completed tickets from cache", "count", removed)
}

// Set updates or adds a ticket to the cache.
// This should be called when handling real-time events.
func (c *TicketStateCache) Set(ticket *Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(ticket)
}

func (c *TicketStateCache) setLocked(ticket *Ticket) {
	if ticket == nil {
		return
	}

	ticketID := ticket.ID

	if old, exists := c.tickets[ticketID]; exists {
		c.removeFromIndex(c.byStatus, old.Status, ticketID)
		c.removeFromIndex(c.byChef, old.AssignedTo, ticketID)
	}

	c.tickets[ticketID] = ticket

	c.addToIndex(c.byStatus, ticket.Status, ticketID)
	if ticket.AssignedTo != "" {
		c.addToIndex(c.byChef, ticket.AssignedTo, ticketID)
	}
}

// Get retrieves a ticket by ID.
func (c *TicketStateCache) Get(ticketID uuid.UUID) *Ticket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickets[ticketID]
}

// GetByStatusCode returns all tickets for a given status code.
func (c *TicketStateCache) GetByStatusCode(status string) []*Ticket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collect(c.byStatus[status])
}

// GetByChef returns all tickets assigned to a given chef.
func (c *TicketStateCache) GetByChef(chefID string) []*Ticket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collect(c.byChef[chefID])
}

// GetAll returns all cached tickets.
func (c *TicketStateCache) GetAll() []*Ticket {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*Ticket, 0, len(c.tickets))
	for _, ticket := range c.tickets {
		result = append(result, ticket)
	}
	return result
}

// Summary returns per-status counts of the cached tickets.
func (c *TicketStateCache) Summary() StatusSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var summary StatusSummary
	for _, ticket := range c.tickets {
		switch ticket.Status {
		case prepstatus.Statuses.Received.Code():
			summary.Received++
		case prepstatus.Statuses.InProgress.Code():
			summary.InProgress++
		case prepstatus.Statuses.Ready.Code():
			summary.Ready++
		case prepstatus.Statuses.Delivered.Code():
			summary.Delivered++
		case prepstatus.Statuses.Cancelled.Code():
			summary.Cancelled++
		}
		summary.Total++
	}
	return summary
}

// Remove deletes a ticket from the cache.
func (c *TicketStateCache) Remove(ticketID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ticket := c.tickets[ticketID]
	if ticket == nil {
		return
	}

	c.removeFromIndex(c.byStatus, ticket.Status, ticketID)
	c.removeFromIndex(c.byChef, ticket.AssignedTo, ticketID)
	delete(c.tickets, ticketID)
}

// Count returns the number of tickets in the cache
func (c *TicketStateCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tickets)
}

func (c *TicketStateCache) collect(ids []uuid.UUID) []*Ticket {
	result := make([]*Ticket, 0, len(ids))
	for _, id := range ids {
		if ticket := c.tickets[id]; ticket != nil {
			result = append(result, ticket)
		}
	}
	return result
}

func (c *TicketStateCache) addToIndex(index map[string][]uuid.UUID, key string, ticketID uuid.UUID) {
	index[key] = append(index[key], ticketID)
}

func (c *TicketStateCache) removeFromIndex(index map[string][]uuid.UUID, key string, ticketID uuid.UUID) {
	ids := index[key]
	for i, id := range ids {
		if id == ticketID {
			index[key] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}
