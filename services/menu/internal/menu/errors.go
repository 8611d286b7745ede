package menu

import "errors"

var (
	// ErrItemNotFound is returned when no item matches the given id.
	ErrItemNotFound = errors.New("menu item not found")

	// ErrInvalidItemData is returned when an item has no name or a
	// non-positive price.
	ErrInvalidItemData = errors.New("invalid menu item data")
)
