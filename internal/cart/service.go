package cart

import (
	"context"
)

// Service defines the business logic for carts. Quantity writes are absolute
// values, so replayed updates are idempotent.
type Service interface {
	Update(ctx context.Context, params UpdateParams) (*MutationResult, error)
	Remove(ctx context.Context, params RemoveParams) (*MutationResult, error)
	Clear(ctx context.Context, customerID uint) error
	Lines(ctx context.Context, customerID uint) ([]Line, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Update sets the absolute quantity of one line. The quantity must satisfy
// 1 <= quantity <= stock limit; violations are rejected before any write.
func (s *service) Update(ctx context.Context, params UpdateParams) (*MutationResult, error) {
	if params.CustomerID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.CartID == "" {
		return nil, ErrInvalidCartID
	}
	if params.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	line, err := s.repo.GetLine(ctx, params.CustomerID, params.CartID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrLineNotFound
	}

	if params.Quantity > line.StockLimit {
		return nil, &StockExceededError{Limit: line.StockLimit}
	}

	if err := s.repo.UpdateQuantity(ctx, params); err != nil {
		return nil, err
	}

	count, err := s.repo.CountItems(ctx, params.CustomerID)
	if err != nil {
		return nil, err
	}

	line.Quantity = params.Quantity
	return &MutationResult{
		Subtotal:  line.Subtotal(),
		CartCount: count,
	}, nil
}

// Remove deletes one line and reports the remaining item count.
func (s *service) Remove(ctx context.Context, params RemoveParams) (*MutationResult, error) {
	if params.CustomerID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.CartID == "" {
		return nil, ErrInvalidCartID
	}

	if err := s.repo.Remove(ctx, params); err != nil {
		return nil, err
	}

	count, err := s.repo.CountItems(ctx, params.CustomerID)
	if err != nil {
		return nil, err
	}

	return &MutationResult{CartCount: count}, nil
}

// Clear removes every line for the customer.
func (s *service) Clear(ctx context.Context, customerID uint) error {
	if customerID == 0 {
		return ErrUserNotAuthenticated
	}

	return s.repo.Clear(ctx, customerID)
}

func (s *service) Lines(ctx context.Context, customerID uint) ([]Line, error) {
	if customerID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	return s.repo.GetLines(ctx, customerID)
}
