package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type Repository interface {
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*Product, error)

	// ReserveStock decrements stock only when enough remains, in a single
	// conditional update, so concurrent orders cannot oversell.
	ReserveStock(ctx context.Context, sku string, quantity int) error
	RestoreStock(ctx context.Context, sku string, quantity int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectProduct = `
	SELECT id, sku, name, description, original_price, sale_price,
	       stock, colors, sizes, status, created_at, updated_at
	FROM products
`

func scanProduct(scanner interface {
	Scan(dest ...interface{}) error
}) (*Product, error) {
	var p Product
	err := scanner.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.OriginalPrice, &p.SalePrice,
		&p.Stock, pq.Array(&p.Colors), pq.Array(&p.Sizes), &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, selectProduct+" WHERE sku = $1", sku)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
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

	if !opts.IncludeDisabled {
		args = append(args, StatusActive)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	query := selectProduct
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	query := `
		INSERT INTO products (sku, name, description, original_price, sale_price, stock, colors, sizes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, sku, name, description, original_price, sale_price,
		          stock, colors, sizes, status, created_at, updated_at
	`

	row := r.db.QueryRowContext(ctx, query,
		input.SKU, input.Name, input.Description,
		input.OriginalPrice, input.SalePrice, input.Stock,
		pq.Array(input.Colors), pq.Array(input.Sizes), StatusActive,
	)

	p, err := scanProduct(row)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
		return nil, ErrSKUExists
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) Update(ctx context.Context, input UpdateProductInput) (*Product, error) {
	var (
		sets []string
		args []interface{}
	)

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if input.Name != nil {
		add("name", *input.Name)
	}
	if input.Description != nil {
		add("description", *input.Description)
	}
	if input.OriginalPrice != nil {
		add("original_price", *input.OriginalPrice)
	}
	if input.SalePrice != nil {
		add("sale_price", *input.SalePrice)
	}
	if input.Stock != nil {
		add("stock", *input.Stock)
	}
	if input.Colors != nil {
		add("colors", pq.Array(input.Colors))
	}
	if input.Sizes != nil {
		add("sizes", pq.Array(input.Sizes))
	}
	if input.Status != nil {
		add("status", *input.Status)
	}

	if len(sets) == 0 {
		return nil, errors.New("no fields to update")
	}

	sets = append(sets, "updated_at = NOW()")

	args = append(args, input.SKU)
	query := fmt.Sprintf(`
		UPDATE products SET %s
		WHERE sku = $%d
		RETURNING id, sku, name, description, original_price, sale_price,
		          stock, colors, sizes, status, created_at, updated_at
	`, strings.Join(sets, ", "), len(args))

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) ReserveStock(ctx context.Context, sku string, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE sku = $2 AND stock >= $1
	`, quantity, sku)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOutOfStock
	}

	return nil
}

func (r *repository) RestoreStock(ctx context.Context, sku string, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE sku = $2
	`, quantity, sku)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}
