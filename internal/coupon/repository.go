package coupon

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	Create(ctx context.Context, input NewCouponInput) (*Coupon, error)
	CountUsageByUser(ctx context.Context, couponID, userID int64) (int, error)

	// RecordUsage increments usage_count only while below usage_limit and
	// appends a usage record, as one transaction.
	RecordUsage(ctx context.Context, couponID, userID int64) error

	// RollbackUsage undoes one redemption: usage_count goes down, a usage
	// slot is restored on usage_limit, and the newest usage record of the
	// user is removed.
	RollbackUsage(ctx context.Context, couponID, userID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectCoupon = `
	SELECT id, code, discount_type, value, minimum_purchase_amount,
	       usage_limit, usage_count, user_limit, start_date, end_date,
	       status, created_at, updated_at
	FROM coupons
`

func (r *repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	err := r.db.QueryRowContext(ctx, selectCoupon+" WHERE code = $1", code).Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.Value, &c.MinimumPurchaseAmount,
		&c.UsageLimit, &c.UsageCount, &c.UserLimit, &c.StartDate, &c.EndDate,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, input NewCouponInput) (*Coupon, error) {
	query := `
		INSERT INTO coupons (code, discount_type, value, minimum_purchase_amount,
		                     usage_limit, user_limit, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, code, discount_type, value, minimum_purchase_amount,
		          usage_limit, usage_count, user_limit, start_date, end_date,
		          status, created_at, updated_at
	`

	var c Coupon
	err := r.db.QueryRowContext(ctx, query,
		input.Code, input.DiscountType, input.Value, input.MinimumPurchaseAmount,
		input.UsageLimit, input.UserLimit, input.StartDate, input.EndDate, StatusActive,
	).Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.Value, &c.MinimumPurchaseAmount,
		&c.UsageLimit, &c.UsageCount, &c.UserLimit, &c.StartDate, &c.EndDate,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
		return nil, ErrCodeExists
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) CountUsageByUser(ctx context.Context, couponID, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`,
		couponID, userID,
	).Scan(&count)
	return count, err
}

func (r *repository) RecordUsage(ctx context.Context, couponID, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE coupons
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1 AND usage_count < usage_limit
	`, couponID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponUsageLimitReached
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO coupon_usages (coupon_id, user_id, used_at) VALUES ($1, $2, NOW())`,
		couponID, userID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) RollbackUsage(ctx context.Context, couponID, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM coupon_usages
		WHERE id = (
			SELECT id FROM coupon_usages
			WHERE coupon_id = $1 AND user_id = $2
			ORDER BY used_at DESC
			LIMIT 1
		)
	`, couponID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoUsageRecord
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE coupons
		SET usage_count = usage_count - 1,
		    usage_limit = usage_limit + 1,
		    updated_at = NOW()
		WHERE id = $1
	`, couponID)
	if err != nil {
		return err
	}

	return tx.Commit()
}
