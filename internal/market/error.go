package market

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidName = errors.New("market name is required")

	// -- Resource State --
	ErrMarketNotFound = errors.New("market not found")
	ErrAlreadyOwner   = errors.New("owner already has a market")
	ErrNotOwner       = errors.New("market belongs to another owner")

	// -- Database & Operation Failures --
	ErrFailedGetMarket    = errors.New("failed to get market")
	ErrFailedCreateMarket = errors.New("failed to create market")
	ErrFailedUpdateMarket = errors.New("failed to update market")
)
