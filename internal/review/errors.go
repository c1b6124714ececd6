package review

import "errors"

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrAlreadyReviewed = errors.New("product already reviewed by this user")
	ErrNotPurchased    = errors.New("only delivered purchases can be reviewed")

	// PgUniqueViolation is the Postgres error code for duplicate keys.
	PgUniqueViolation = "23505"
)
