package market

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"byteshop-be/internal/image"
	"byteshop-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Market, error)
	GetByID(ctx context.Context, marketID uint) (*Market, error)
	GetByOwner(ctx context.Context, ownerID uint) (*Market, error)
	Update(ctx context.Context, params UpdateParams) (*Market, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const marketColumns = `
	id,
	owner_id,
	name,
	description,
	image_origin,
	image_ref,
	created_at,
	updated_at`

func (r *repository) Create(ctx context.Context, params CreateParams) (*Market, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.Uint("owner_id", params.OwnerID),
	)

	query := `
	INSERT INTO markets (owner_id, name, description, image_origin, image_ref)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING` + marketColumns

	var origin, ref string
	if params.Image != nil {
		origin = string(params.Image.Origin)
		ref = params.Image.Reference
	}

	m, err := scanMarket(r.db.QueryRowContext(
		ctx, query,
		params.OwnerID, params.Name, params.Description, origin, ref,
	))
	if err != nil {
		log.Error("failed to create market", zap.Error(err))
		return nil, err
	}

	log.Info("market created", zap.Uint("market_id", m.ID))
	return m, nil
}

func (r *repository) GetByID(ctx context.Context, marketID uint) (*Market, error) {
	query := `SELECT` + marketColumns + `
	FROM markets
	WHERE id = $1`

	m, err := scanMarket(r.db.QueryRowContext(ctx, query, marketID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) GetByOwner(ctx context.Context, ownerID uint) (*Market, error) {
	query := `SELECT` + marketColumns + `
	FROM markets
	WHERE owner_id = $1`

	m, err := scanMarket(r.db.QueryRowContext(ctx, query, ownerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) Update(ctx context.Context, params UpdateParams) (*Market, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{}

	add := func(col string, val any) {
		args = append(args, val)
		set = append(set, col+" = $"+strconv.Itoa(len(args)))
	}

	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Image != nil {
		add("image_origin", string(params.Image.Origin))
		add("image_ref", params.Image.Reference)
	}

	args = append(args, params.MarketID)
	query := `
	UPDATE markets
	SET ` + strings.Join(set, ", ") + `
	WHERE id = $` + strconv.Itoa(len(args)) + `
	RETURNING` + marketColumns

	m, err := scanMarket(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrMarketNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func scanMarket(row *sql.Row) (*Market, error) {
	var m Market
	var origin, ref sql.NullString
	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.Name,
		&m.Description,
		&origin,
		&ref,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if origin.Valid {
		m.ImageOrigin = image.Origin(origin.String)
	}
	if ref.Valid {
		m.ImageRef = ref.String
	}
	return &m, nil
}
