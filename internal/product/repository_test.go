package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"byteshop-be/internal/image"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productTestColumns = []string{
	"id", "market_id", "name", "description", "price", "stock", "status",
	"image_origin", "image_ref", "created_at", "updated_at",
}

func productRow(id uint, name string, origin, ref any) *sqlmock.Rows {
	return sqlmock.NewRows(productTestColumns).
		AddRow(id, 7, name, "a mechanical keyboard", 199.00, 5, StatusActive,
			origin, ref, time.Now(), time.Now())
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success with uploaded image", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO products").
			WithArgs(uint(7), "Keyboard", nil, 199.00, 5, "upload", "abc.png").
			WillReturnRows(productRow(1, "Keyboard", "upload", "abc.png"))

		p, err := repo.Create(context.Background(), CreateParams{
			MarketID: 7,
			Name:     "Keyboard",
			Price:    199.00,
			Stock:    5,
			Image:    &image.Contribution{Origin: image.OriginUpload, Reference: "abc.png"},
		})
		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, uint(1), p.ID)
		assert.Equal(t, image.OriginUpload, p.ImageOrigin)
		assert.Equal(t, "abc.png", p.ImageRef)
	})

	t.Run("Success without image stores empty reference", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO products").
			WithArgs(uint(7), "Mouse", nil, 199.00, 5, "", "").
			WillReturnRows(productRow(2, "Mouse", nil, nil))

		p, err := repo.Create(context.Background(), CreateParams{
			MarketID: 7,
			Name:     "Mouse",
			Price:    199.00,
			Stock:    5,
		})
		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Empty(t, p.ImageRef)
		assert.Empty(t, string(p.ImageOrigin))
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO products").
			WillReturnError(errors.New("db error"))

		_, err := repo.Create(context.Background(), CreateParams{MarketID: 7, Name: "X"})
		assert.Error(t, err)
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs(uint(1)).
			WillReturnRows(productRow(1, "Keyboard", "url", "https://cdn.example.com/kb.png"))

		p, err := repo.GetByID(context.Background(), 1)
		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Keyboard", p.Name)
		assert.Equal(t, image.OriginURL, p.ImageOrigin)
		require.NotNil(t, p.Description)
		assert.Equal(t, "a mechanical keyboard", *p.Description)
	})

	t.Run("Not found returns nil, nil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs(uint(99)).
			WillReturnRows(sqlmock.NewRows(productTestColumns))

		p, err := repo.GetByID(context.Background(), 99)
		assert.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestRepository_ListByMarket(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(productTestColumns).
			AddRow(1, 7, "Keyboard", nil, 199.00, 5, StatusActive, "upload", "a.png", time.Now(), time.Now()).
			AddRow(2, 7, "Mouse", nil, 59.00, 9, StatusActive, nil, nil, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs(uint(7)).
			WillReturnRows(rows)

		products, err := repo.ListByMarket(context.Background(), 7)
		assert.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Keyboard", products[0].Name)
		assert.Nil(t, products[0].Description)
		assert.Empty(t, products[1].ImageRef)
	})

	t.Run("Empty market", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs(uint(8)).
			WillReturnRows(sqlmock.NewRows(productTestColumns))

		products, err := repo.ListByMarket(context.Background(), 8)
		assert.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Partial update only touches given columns", func(t *testing.T) {
		price := 249.00
		mock.ExpectQuery("SET updated_at = NOW\\(\\), price = \\$1").
			WithArgs(249.00, uint(1)).
			WillReturnRows(productRow(1, "Keyboard", "upload", "a.png"))

		p, err := repo.Update(context.Background(), UpdateParams{
			ProductID: 1,
			Price:     &price,
		})
		assert.NoError(t, err)
		require.NotNil(t, p)
	})

	t.Run("Image swap writes both origin and reference", func(t *testing.T) {
		mock.ExpectQuery("SET updated_at = NOW\\(\\), image_origin = \\$1, image_ref = \\$2").
			WithArgs("url", "https://cdn.example.com/new.png", uint(1)).
			WillReturnRows(productRow(1, "Keyboard", "url", "https://cdn.example.com/new.png"))

		p, err := repo.Update(context.Background(), UpdateParams{
			ProductID: 1,
			Image:     &image.Contribution{Origin: image.OriginURL, Reference: "https://cdn.example.com/new.png"},
		})
		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, image.OriginURL, p.ImageOrigin)
	})

	t.Run("Missing row", func(t *testing.T) {
		name := "Gone"
		mock.ExpectQuery("UPDATE products").
			WillReturnRows(sqlmock.NewRows(productTestColumns))

		_, err := repo.Update(context.Background(), UpdateParams{ProductID: 99, Name: &name})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM products").
			WithArgs(uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 1))
	})

	t.Run("Missing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM products").
			WithArgs(uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrProductNotFound)
	})
}
