package product

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidName  = errors.New("product name is required")
	ErrInvalidPrice = errors.New("product price must be positive")
	ErrInvalidStock = errors.New("product stock cannot be negative")

	// -- Resource State --
	ErrProductNotFound = errors.New("product not found")
	ErrNotOwner        = errors.New("product belongs to another market")
	ErrNoMarket        = errors.New("owner has no market")

	// -- Database & Operation Failures --
	ErrFailedGetProduct    = errors.New("failed to get product")
	ErrFailedCreateProduct = errors.New("failed to create product")
	ErrFailedUpdateProduct = errors.New("failed to update product")
	ErrFailedDeleteProduct = errors.New("failed to delete product")
)
