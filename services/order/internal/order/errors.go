package order

import "errors"

var (
	// ErrOrderNotFound is returned when no order matches the given id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyOrder is returned when an order is created without items.
	ErrEmptyOrder = errors.New("order must have at least one item")

	// ErrInvalidOrderData is returned when an order line is malformed.
	ErrInvalidOrderData = errors.New("invalid order data")

	// ErrItemNotFound is returned when a line operation names an id the order
	// does not carry.
	ErrItemNotFound = errors.New("order item not found")

	// ErrProductNotFound is returned when the catalog has no such product.
	ErrProductNotFound = errors.New("product not found in menu")

	// ErrProductUnavailable is returned when the catalog marks the product
	// unavailable.
	ErrProductUnavailable = errors.New("product is not available")

	// ErrUnknownStatus is returned when an inbound status code does not parse.
	ErrUnknownStatus = errors.New("unknown order status")
)
