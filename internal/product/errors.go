package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product out of stock")
	ErrInvalidVariant  = errors.New("requested color or size is not available")

	ErrSKUExists      = errors.New("sku already exists")
	ErrInvalidPricing = errors.New("sale price cannot exceed original price")
)

// Postgres unique_violation
const PgUniqueViolation = "23505"
