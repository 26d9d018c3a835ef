package market

import (
	"context"
	"mime/multipart"
	"strings"

	"byteshop-be/internal/image"
	"byteshop-be/internal/logger"

	"go.uber.org/zap"
)

// Service manages storefronts. An owner holds at most one market, and the
// market keeps its own image contribution lifecycle separate from products.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Market, error)
	Get(ctx context.Context, marketID uint) (*Market, error)
	GetByOwner(ctx context.Context, ownerID uint) (*Market, error)
	Update(ctx context.Context, input UpdateInput) (*Market, error)
}

type CreateInput struct {
	OwnerID     uint
	Name        string
	Description *string
	ImageFile   *multipart.FileHeader
	ImageURL    string
}

type UpdateInput struct {
	MarketID    uint
	OwnerID     uint
	Name        *string
	Description *string
	ImageFile   *multipart.FileHeader
	ImageURL    string
}

type service struct {
	repo   Repository
	images *image.Processor
}

func NewService(repo Repository, images *image.Processor) Service {
	return &service{repo: repo, images: images}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Market, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidName
	}

	existing, err := s.repo.GetByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyOwner
	}

	var contribution *image.Contribution
	if input.ImageFile != nil || strings.TrimSpace(input.ImageURL) != "" {
		c, err := s.images.Process(ctx, input.ImageFile, input.ImageURL)
		if err != nil {
			return nil, err
		}
		contribution = c
	}

	m, err := s.repo.Create(ctx, CreateParams{
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
		Image:       contribution,
	})
	if err != nil {
		if contribution != nil {
			s.images.Retire(contribution.Reference, contribution.Origin)
		}
		return nil, err
	}

	s.decorate(m)
	return m, nil
}

func (s *service) Get(ctx context.Context, marketID uint) (*Market, error) {
	m, err := s.repo.GetByID(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMarketNotFound
	}

	s.decorate(m)
	return m, nil
}

func (s *service) GetByOwner(ctx context.Context, ownerID uint) (*Market, error) {
	m, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMarketNotFound
	}

	s.decorate(m)
	return m, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*Market, error) {
	existing, err := s.repo.GetByID(ctx, input.MarketID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrMarketNotFound
	}
	if existing.OwnerID != input.OwnerID {
		return nil, ErrNotOwner
	}

	var contribution *image.Contribution
	if input.ImageFile != nil || strings.TrimSpace(input.ImageURL) != "" {
		c, err := s.images.Process(ctx, input.ImageFile, input.ImageURL)
		if err != nil {
			return nil, err
		}
		contribution = c
	}

	m, err := s.repo.Update(ctx, UpdateParams{
		MarketID:    input.MarketID,
		Name:        input.Name,
		Description: input.Description,
		Image:       contribution,
	})
	if err != nil {
		if contribution != nil {
			s.images.Retire(contribution.Reference, contribution.Origin)
		}
		return nil, err
	}

	if contribution != nil && existing.ImageRef != "" {
		retired := s.images.Retire(existing.ImageRef, existing.ImageOrigin)
		logger.FromCtx(ctx).Debug("previous market image retired",
			zap.Uint("market_id", existing.ID),
			zap.Bool("deleted", retired),
		)
	}

	s.decorate(m)
	return m, nil
}

func (s *service) decorate(m *Market) {
	m.ImageURL = s.images.Resolve(m.ImageRef, m.ImageOrigin)
}
