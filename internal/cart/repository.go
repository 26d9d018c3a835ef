package cart

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"byteshop-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetLine(ctx context.Context, customerID uint, cartID string) (*Line, error)
	GetLines(ctx context.Context, customerID uint) ([]Line, error)
	UpdateQuantity(ctx context.Context, params UpdateParams) error
	Remove(ctx context.Context, params RemoveParams) error
	Clear(ctx context.Context, customerID uint) error
	CountItems(ctx context.Context, customerID uint) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetLine(ctx context.Context, customerID uint, cartID string) (*Line, error) {
	query := `
	SELECT
		c.id,
		c.customer_id,
		c.product_id,
		c.quantity,
		p.price,
		p.stock,
		c.created_at,
		c.updated_at
	FROM carts c
	JOIN products p ON c.product_id = p.id
	WHERE c.customer_id = $1 AND c.id = $2
	`

	var line Line
	row := r.db.QueryRowContext(ctx, query, customerID, cartID)
	err := row.Scan(
		&line.CartID,
		&line.CustomerID,
		&line.ProductID,
		&line.Quantity,
		&line.UnitPrice,
		&line.StockLimit,
		&line.CreatedAt,
		&line.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &line, nil
}

func (r *repository) GetLines(ctx context.Context, customerID uint) ([]Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetLines"),
		zap.Uint("customer_id", customerID),
	)

	start := time.Now()

	query := `
	SELECT
		c.id,
		c.customer_id,
		c.product_id,
		c.quantity,
		p.price,
		p.stock,
		c.created_at,
		c.updated_at
	FROM carts c
	JOIN products p ON c.product_id = p.id
	WHERE c.customer_id = $1
	ORDER BY c.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		log.Error("query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}
	defer rows.Close()

	var result []Line
	for rows.Next() {
		var line Line
		if err := rows.Scan(
			&line.CartID,
			&line.CustomerID,
			&line.ProductID,
			&line.Quantity,
			&line.UnitPrice,
			&line.StockLimit,
			&line.CreatedAt,
			&line.UpdatedAt,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, line)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Info("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, params UpdateParams) error {
	if params.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET quantity = $1, updated_at = NOW()
		WHERE customer_id = $2 AND id = $3
	`, params.Quantity, params.CustomerID, params.CartID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrLineNotFound
	}

	return nil
}

func (r *repository) Remove(ctx context.Context, params RemoveParams) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE customer_id = $1 AND id = $2
	`, params.CustomerID, params.CartID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrLineNotFound
	}

	return nil
}

// Clear is idempotent: deleting from an already-empty cart is a success.
func (r *repository) Clear(ctx context.Context, customerID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts
	 WHERE customer_id=$1`, customerID)
	return err
}

func (r *repository) CountItems(ctx context.Context, customerID uint) (int, error) {
	var count sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT SUM(quantity) FROM carts WHERE customer_id = $1
	`, customerID).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	// SUM over zero rows is NULL, not 0.
	if !count.Valid {
		return 0, nil
	}

	return int(count.Int64), nil
}
