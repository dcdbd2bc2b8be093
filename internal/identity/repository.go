package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound reports a missing user record.
	ErrNotFound = errors.New("user not found")
	// ErrAccountClaimed reports a lost conditional write: another request
	// assigned a payment account id to the user first.
	ErrAccountClaimed = errors.New("payment account already claimed")
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	// ClaimPaymentAccount assigns accountID to the user only if no id is
	// currently set. Returns ErrAccountClaimed when the column was already
	// populated and ErrNotFound when the user does not exist.
	ClaimPaymentAccount(ctx context.Context, userID, accountID string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users (id, email, name, payment_account_id, created_at)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
		user.ID, user.Email, user.Name, user.PaymentAccountID, user.CreatedAt.UTC())
	return err
}

// FindByID fetches a user by issuer subject id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, name, COALESCE(payment_account_id, ''), created_at
        FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail fetches a user by unique email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, name, COALESCE(payment_account_id, ''), created_at
        FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// ClaimPaymentAccount performs the NULL-only conditional assignment. The
// WHERE clause is the single serialization point for first-time onboarding.
func (r *PostgresRepository) ClaimPaymentAccount(ctx context.Context, userID, accountID string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET payment_account_id = $1
        WHERE id = $2 AND payment_account_id IS NULL`, accountID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, userID); err != nil {
			return err
		}
		return ErrAccountClaimed
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		user      User
		createdAt time.Time
	)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PaymentAccountID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
