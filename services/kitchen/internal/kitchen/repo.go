package kitchen

import "context"

type TicketFilter struct {
	Status     *string
	AssignedTo *string
	OrderID    *OrderID
	Limit      int
	Offset     int
}

type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	Update(ctx context.Context, t *Ticket) error
	FindByID(ctx context.Context, id TicketID) (*Ticket, error)
	// FindByOrderID returns (nil, nil) when no ticket exists for the order.
	FindByOrderID(ctx context.Context, id OrderID) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]Ticket, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}
