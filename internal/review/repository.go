package review

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	ListBySKU(ctx context.Context, opts ListOptions) ([]*Review, error)

	// HasDeliveredOrderWithSKU reports whether the user has at least one
	// delivered order containing the product.
	HasDeliveredOrderWithSKU(ctx context.Context, userID int64, sku string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rv *Review) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (user_id, sku, rating, comment, verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, rv.UserID, rv.SKU, rv.Rating, rv.Comment, rv.Verified).
		Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == PgUniqueViolation {
		return ErrAlreadyReviewed
	}

	return err
}

func (r *repository) ListBySKU(ctx context.Context, opts ListOptions) ([]*Review, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, sku, rating, comment, verified, created_at, updated_at
		FROM reviews
		WHERE sku = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, opts.SKU, opts.Limit, (opts.Page-1)*opts.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var rv Review
		err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.SKU, &rv.Rating,
			&rv.Comment, &rv.Verified, &rv.CreatedAt, &rv.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, &rv)
	}

	return reviews, rows.Err()
}

func (r *repository) HasDeliveredOrderWithSKU(ctx context.Context, userID int64, sku string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = $1 AND o.status = 'delivered' AND oi.sku = $2
		)
	`, userID, sku).Scan(&exists)
	return exists, err
}
