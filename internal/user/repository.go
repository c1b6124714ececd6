package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)

	// ApplyDeliveredOrder atomically adds the order amount to the user's
	// aggregates and recomputes the membership tier from the new total.
	ApplyDeliveredOrder(ctx context.Context, userID int64, amount int64) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, password_hash, full_name, role, membership_level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.FullName, u.Role, u.MembershipLevel,
	).Scan(&u.ID, &u.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
		return ErrEmailExists
	}

	return err
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+" WHERE email = $1", email))
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+" WHERE id = $1", id))
}

const selectUser = `
	SELECT id, email, password_hash, full_name, role,
	       total_spent, order_count, membership_level, created_at
	FROM users
`

func (r *repository) scanOne(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&u.TotalSpent, &u.OrderCount, &u.MembershipLevel, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ApplyDeliveredOrder(ctx context.Context, userID int64, amount int64) (*User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var u User
	err = tx.QueryRowContext(ctx, `
		UPDATE users
		SET total_spent = total_spent + $1,
		    order_count = order_count + 1,
		    updated_at = NOW()
		WHERE id = $2
		RETURNING id, email, total_spent, order_count
	`, amount, userID).Scan(&u.ID, &u.Email, &u.TotalSpent, &u.OrderCount)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	u.MembershipLevel = MembershipFor(u.TotalSpent)

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET membership_level = $1 WHERE id = $2`,
		u.MembershipLevel, u.ID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &u, nil
}
