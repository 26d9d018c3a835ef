package product

import (
	"context"
	"mime/multipart"
	"strings"

	"byteshop-be/internal/image"
	"byteshop-be/internal/logger"
	"byteshop-be/internal/market"

	"go.uber.org/zap"
)

// Service owns product CRUD plus the image contribution lifecycle: a replaced
// or deleted product retires its stored upload, while URL references are left
// alone. Mutations act on behalf of an owner; the market they touch is always
// resolved from that owner's identity, never taken from the request.
type Service interface {
	Create(ctx context.Context, params CreateInput) (*Product, error)
	Get(ctx context.Context, productID uint) (*Product, error)
	ListByMarket(ctx context.Context, marketID uint) ([]Product, error)
	Update(ctx context.Context, params UpdateInput) (*Product, error)
	Delete(ctx context.Context, ownerID, productID uint) error
}

// Markets resolves which storefront an owner controls. Satisfied by
// market.Repository.
type Markets interface {
	GetByOwner(ctx context.Context, ownerID uint) (*market.Market, error)
}

// CreateInput carries the raw form fields; the service runs them through the
// image processor before anything is persisted.
type CreateInput struct {
	OwnerID     uint
	Name        string
	Description *string
	Price       float64
	Stock       int
	ImageFile   *multipart.FileHeader
	ImageURL    string
}

type UpdateInput struct {
	ProductID   uint
	OwnerID     uint
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	ImageFile   *multipart.FileHeader
	ImageURL    string
}

type service struct {
	repo    Repository
	markets Markets
	images  *image.Processor
}

func NewService(repo Repository, markets Markets, images *image.Processor) Service {
	return &service{repo: repo, markets: markets, images: images}
}

// ownedMarket returns the market the acting owner controls.
func (s *service) ownedMarket(ctx context.Context, ownerID uint) (*market.Market, error) {
	m, err := s.markets.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNoMarket
	}
	return m, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidName
	}
	if input.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.Stock < 0 {
		return nil, ErrInvalidStock
	}

	m, err := s.ownedMarket(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	var contribution *image.Contribution
	if input.ImageFile != nil || strings.TrimSpace(input.ImageURL) != "" {
		c, err := s.images.Process(ctx, input.ImageFile, input.ImageURL)
		if err != nil {
			return nil, err
		}
		contribution = c
	}

	p, err := s.repo.Create(ctx, CreateParams{
		MarketID:    m.ID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       contribution,
	})
	if err != nil {
		// The row never existed, so the stored upload is orphaned; clean it up.
		if contribution != nil {
			s.images.Retire(contribution.Reference, contribution.Origin)
		}
		return nil, err
	}

	s.decorate(p)
	return p, nil
}

func (s *service) Get(ctx context.Context, productID uint) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	s.decorate(p)
	return p, nil
}

func (s *service) ListByMarket(ctx context.Context, marketID uint) ([]Product, error) {
	products, err := s.repo.ListByMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	for i := range products {
		s.decorate(&products[i])
	}
	return products, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*Product, error) {
	existing, err := s.repo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrProductNotFound
	}

	m, err := s.ownedMarket(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if existing.MarketID != m.ID {
		return nil, ErrNotOwner
	}

	if input.Price != nil && *input.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, ErrInvalidStock
	}

	var contribution *image.Contribution
	if input.ImageFile != nil || strings.TrimSpace(input.ImageURL) != "" {
		c, err := s.images.Process(ctx, input.ImageFile, input.ImageURL)
		if err != nil {
			return nil, err
		}
		contribution = c
	}

	p, err := s.repo.Update(ctx, UpdateParams{
		ProductID:   input.ProductID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       contribution,
	})
	if err != nil {
		if contribution != nil {
			s.images.Retire(contribution.Reference, contribution.Origin)
		}
		return nil, err
	}

	// Only after the row points at the new image can the old one go.
	if contribution != nil && existing.ImageRef != "" {
		retired := s.images.Retire(existing.ImageRef, existing.ImageOrigin)
		logger.FromCtx(ctx).Debug("previous product image retired",
			zap.Uint("product_id", existing.ID),
			zap.Bool("deleted", retired),
		)
	}

	s.decorate(p)
	return p, nil
}

func (s *service) Delete(ctx context.Context, ownerID, productID uint) error {
	existing, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}

	m, err := s.ownedMarket(ctx, ownerID)
	if err != nil {
		return err
	}
	if existing.MarketID != m.ID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	if existing.ImageRef != "" {
		s.images.Retire(existing.ImageRef, existing.ImageOrigin)
	}
	return nil
}

func (s *service) decorate(p *Product) {
	p.ImageURL = s.images.Resolve(p.ImageRef, p.ImageOrigin)
}
