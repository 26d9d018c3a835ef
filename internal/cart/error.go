package cart

import (
	"errors"
	"fmt"
)

var (
	// -- Authentication/Authorization --
	ErrUserNotAuthenticated = errors.New("user not authenticated")

	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrInvalidCartID   = errors.New("invalid cart id")

	// -- Resource State --
	ErrLineNotFound = errors.New("cart item not found")

	// -- Database & Operation Failures --
	ErrFailedGetLine    = errors.New("failed to get cart item")
	ErrFailedGetLines   = errors.New("failed to get cart rows")
	ErrFailedUpdateCart = errors.New("failed to update cart item")
	ErrFailedRemoveCart = errors.New("failed to remove cart item")
	ErrFailedClearCart  = errors.New("failed to clear cart")
)

// StockExceededError is returned when a requested quantity is over the line's
// stock limit. The message exposes the exact limit to the shopper.
type StockExceededError struct {
	Limit int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("Only %d items available in stock", e.Limit)
}
