package order

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Repository interface {
	// Create persists the order, its items and the initial history entry in
	// one transaction. Totals are frozen at creation time.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, opts ListOptions) ([]*Order, error)

	// UpdateStatus commits the order's own status last: side effects on
	// products, coupons and users have already been applied by the service.
	UpdateStatus(ctx context.Context, orderID int64, status OrderStatus, entry StatusEntry, markSpent bool) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (short_id, user_id, subtotal, direct_discount, coupon_discount,
		                    shipping_fee, total_price, shipping_address, payment_method,
		                    payment_status, shipping_method, coupon_id, coupon_code,
		                    status, is_total_spent_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`,
		o.ShortID, o.UserID, o.Subtotal, o.DirectDiscount, o.CouponDiscount,
		o.ShippingFee, o.TotalPrice, o.ShippingAddress, o.PaymentMethod,
		o.PaymentStatus, o.ShippingMethod, o.CouponID, o.CouponCode,
		o.Status, o.IsTotalSpentUpdated,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, sku, name, quantity, price,
			                         original_price, sale_price, direct_discount, color, size)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id
		`,
			item.OrderID, item.ProductID, item.SKU, item.Name, item.Quantity, item.Price,
			item.OriginalPrice, item.SalePrice, item.DirectDiscount, item.Color, item.Size,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
	}

	for i := range o.StatusHistory {
		entry := &o.StatusHistory[i]
		entry.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_status_history (order_id, status, updated_at, updated_by, note)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, entry.OrderID, entry.Status, entry.UpdatedAt, entry.UpdatedBy, entry.Note).Scan(&entry.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

const selectOrder = `
	SELECT id, short_id, user_id, subtotal, direct_discount, coupon_discount,
	       shipping_fee, total_price, shipping_address, payment_method,
	       payment_status, shipping_method, coupon_id, coupon_code,
	       status, is_total_spent_updated, created_at, updated_at
	FROM orders
`

func scanOrder(scanner interface {
	Scan(dest ...interface{}) error
}) (*Order, error) {
	var o Order
	err := scanner.Scan(
		&o.ID, &o.ShortID, &o.UserID, &o.Subtotal, &o.DirectDiscount, &o.CouponDiscount,
		&o.ShippingFee, &o.TotalPrice, &o.ShippingAddress, &o.PaymentMethod,
		&o.PaymentStatus, &o.ShippingMethod, &o.CouponID, &o.CouponCode,
		&o.Status, &o.IsTotalSpentUpdated, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+" WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if o.Items, err = r.loadItems(ctx, id); err != nil {
		return nil, err
	}
	if o.StatusHistory, err = r.loadHistory(ctx, id); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) loadItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, sku, name, quantity, price,
		       original_price, sale_price, direct_discount, color, size
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.SKU, &it.Name, &it.Quantity, &it.Price,
			&it.OriginalPrice, &it.SalePrice, &it.DirectDiscount, &it.Color, &it.Size,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (r *repository) loadHistory(ctx context.Context, orderID int64) ([]StatusEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, status, updated_at, updated_by, note
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []StatusEntry
	for rows.Next() {
		var e StatusEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.UpdatedAt, &e.UpdatedBy, &e.Note); err != nil {
			return nil, err
		}
		history = append(history, e)
	}

	return history, rows.Err()
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Order, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}

	var (
		conds []string
		args  []interface{}
	)

	if opts.UserID != nil {
		args = append(args, *opts.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if opts.Status != nil {
		args = append(args, *opts.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := selectOrder
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if o.Items, err = r.loadItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID int64, status OrderStatus, entry StatusEntry, markSpent bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    is_total_spent_updated = is_total_spent_updated OR $2,
		    updated_at = NOW()
		WHERE id = $3
	`, status, markSpent, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, status, updated_at, updated_by, note)
		VALUES ($1, $2, $3, $4, $5)
	`, orderID, entry.Status, entry.UpdatedAt, entry.UpdatedBy, entry.Note)
	if err != nil {
		return err
	}

	return tx.Commit()
}
