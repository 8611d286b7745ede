package kitchen

import "errors"

var (
	// ErrTicketNotFound is returned when no ticket matches the given id.
	ErrTicketNotFound = errors.New("kitchen ticket not found")

	// ErrInvalidTicketData is returned when a ticket is created without an
	// order reference or with malformed items.
	ErrInvalidTicketData = errors.New("invalid kitchen ticket data")

	// ErrChefNotAssigned is returned when preparation is started on a ticket
	// that has no assigned chef.
	ErrChefNotAssigned = errors.New("ticket must be assigned to a chef before starting preparation")

	// ErrNotInProgress is returned when an item is marked prepared while the
	// ticket is not being worked on.
	ErrNotInProgress = errors.New("ticket must be in progress to mark items as prepared")

	// ErrItemNotPreparable is returned when no un-prepared item matches the
	// requested product.
	ErrItemNotPreparable = errors.New("product not found in ticket or already prepared")

	// ErrBlankProductID is returned when an item operation names no product.
	ErrBlankProductID = errors.New("product id cannot be empty")

	// ErrTicketDelivered is returned when a delivered ticket is cancelled.
	ErrTicketDelivered = errors.New("cannot cancel a delivered ticket")

	// ErrUnknownStatus is returned when an inbound status code does not parse.
	ErrUnknownStatus = errors.New("unknown preparation status")

	// ErrDuplicateOrder is returned when a second ticket is created for an
	// order that already has one.
	ErrDuplicateOrder = errors.New("ticket already exists for order")
)
