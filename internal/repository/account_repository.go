package repository

import (
	"context"
	"errors"
	"fmt"

	"perde-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// accountRepository implements the AccountRepository interface using PostgreSQL.
type accountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAccountRepository creates a new PostgreSQL-backed account repository.
func NewAccountRepository(pool *pgxpool.Pool, logger zerolog.Logger) AccountRepository {
	return &accountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "account").Logger(),
	}
}

const accountColumns = `id, email, first_name, last_name, phone, created_at`

// GetByID retrieves an account, or nil when absent.
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves an account by email, or nil when absent.
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *accountRepository) getOne(ctx context.Context, query string, arg any) (*model.Account, error) {
	var acct model.Account
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&acct.ID, &acct.Email, &acct.FirstName, &acct.LastName,
		&acct.Phone, &acct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query account")
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &acct, nil
}

// Create inserts a new account.
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (id, email, first_name, last_name, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID, account.Email, account.FirstName, account.LastName,
		account.Phone, account.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("account_id", account.ID.String()).
			Msg("failed to create account")
		return fmt.Errorf("failed to create account: %w", err)
	}

	r.logger.Info().
		Str("account_id", account.ID.String()).
		Msg("account created")

	return nil
}
