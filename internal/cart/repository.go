package cart

import (
	"context"
	"database/sql"
)

type Repository interface {
	GetItems(ctx context.Context, userID int64) ([]*CartItem, error)
	GetItem(ctx context.Context, userID int64, sku string, color, size *string) (*CartItem, error)
	CreateItem(ctx context.Context, params AddToCartParams) (*CartItem, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) (*CartItem, error)
	Remove(ctx context.Context, params RemoveFromCartParams) error
	Clear(ctx context.Context, userID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectCartItem = `
	SELECT id, user_id, sku, quantity, color, size, created_at, updated_at
	FROM carts
`

func scanCartItem(scanner interface {
	Scan(dest ...interface{}) error
}) (*CartItem, error) {
	var ci CartItem
	err := scanner.Scan(
		&ci.ID, &ci.UserID, &ci.SKU, &ci.Quantity,
		&ci.Color, &ci.Size, &ci.CreatedAt, &ci.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ci, nil
}

func (r *repository) GetItems(ctx context.Context, userID int64) ([]*CartItem, error) {
	rows, err := r.db.QueryContext(ctx, selectCartItem+" WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*CartItem
	for rows.Next() {
		ci, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, ci)
	}

	return items, rows.Err()
}

func (r *repository) GetItem(ctx context.Context, userID int64, sku string, color, size *string) (*CartItem, error) {
	// IS NOT DISTINCT FROM matches NULL variants too.
	row := r.db.QueryRowContext(ctx, selectCartItem+`
		WHERE user_id = $1 AND sku = $2
		  AND color IS NOT DISTINCT FROM $3
		  AND size IS NOT DISTINCT FROM $4
	`, userID, sku, color, size)

	ci, err := scanCartItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ci, nil
}

func (r *repository) CreateItem(ctx context.Context, params AddToCartParams) (*CartItem, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (user_id, sku, quantity, color, size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, sku, quantity, color, size, created_at, updated_at
	`, params.UserID, params.SKU, params.Quantity, params.Color, params.Size)

	return scanCartItem(row)
}

func (r *repository) UpdateQuantity(ctx context.Context, id int64, quantity int) (*CartItem, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE carts SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, sku, quantity, color, size, created_at, updated_at
	`, quantity, id)

	ci, err := scanCartItem(row)
	if err == sql.ErrNoRows {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return ci, nil
}

func (r *repository) Remove(ctx context.Context, params RemoveFromCartParams) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1 AND sku = $2
		  AND color IS NOT DISTINCT FROM $3
		  AND size IS NOT DISTINCT FROM $4
	`, params.UserID, params.SKU, params.Color, params.Size)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}
