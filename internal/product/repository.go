package product

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
	Create(ctx context.Context, params CreateParams) (*Product, error)
	GetByID(ctx context.Context, productID uint) (*Product, error)
	ListByMarket(ctx context.Context, marketID uint) ([]Product, error)
	Update(ctx context.Context, params UpdateParams) (*Product, error)
	Delete(ctx context.Context, productID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id,
	market_id,
	name,
	description,
	price,
	stock,
	status,
	image_origin,
	image_ref,
	created_at,
	updated_at`

func (r *repository) Create(ctx context.Context, params CreateParams) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.Uint("market_id", params.MarketID),
	)

	query := `
	INSERT INTO products (
		market_id,
		name,
		description,
		price,
		stock,
		image_origin,
		image_ref
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING` + productColumns

	var origin, ref string
	if params.Image != nil {
		origin = string(params.Image.Origin)
		ref = params.Image.Reference
	}

	row := r.db.QueryRowContext(
		ctx,
		query,
		params.MarketID,
		params.Name,
		params.Description,
		params.Price,
		params.Stock,
		origin,
		ref,
	)

	p, err := scanProduct(row)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Uint("product_id", p.ID))
	return p, nil
}

func (r *repository) GetByID(ctx context.Context, productID uint) (*Product, error) {
	query := `SELECT` + productColumns + `
	FROM products
	WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, productID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) ListByMarket(ctx context.Context, marketID uint) ([]Product, error) {
	query := `SELECT` + productColumns + `
	FROM products
	WHERE market_id = $1
	ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repository) Update(ctx context.Context, params UpdateParams) (*Product, error) {
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
	if params.Price != nil {
		add("price", *params.Price)
	}
	if params.Stock != nil {
		add("stock", *params.Stock)
	}
	if params.Image != nil {
		add("image_origin", string(params.Image.Origin))
		add("image_ref", params.Image.Reference)
	}

	args = append(args, params.ProductID)
	query := `
	UPDATE products
	SET ` + strings.Join(set, ", ") + `
	WHERE id = $` + strconv.Itoa(len(args)) + `
	RETURNING` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, productID uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	var origin, ref sql.NullString
	err := row.Scan(
		&p.ID,
		&p.MarketID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.Status,
		&origin,
		&ref,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if origin.Valid {
		p.ImageOrigin = image.Origin(origin.String)
	}
	if ref.Valid {
		p.ImageRef = ref.String
	}
	return &p, nil
}
