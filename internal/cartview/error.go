package cartview

import (
	"errors"
	"fmt"
)

var (
	ErrLineNotVisible  = errors.New("cart item is not in the current view")
	ErrInvalidQuantity = errors.New("please enter a valid quantity")
)

// StockLimitError is raised locally, before any request is sent, when a
// stepped quantity would pass the line's stock limit.
type StockLimitError struct {
	Limit int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("Only %d items available in stock", e.Limit)
}

// TransportError wraps a request that never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cart request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StoreError carries a success=false response from the cart store.
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
