package order

import "context"

type OrderFilter struct {
	CustomerID *string
	Status     *string
	Limit      int
	Offset     int
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id OrderID) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]Order, error)
}
