package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/storefront/internal/account/domain"
)

const postgresqlAccountColumns = `id, identity, display_name, secret, role, created_at, updated_at`

// PostgreSQLAccountRepository handles account persistence for PostgreSQL.
//
// Uniqueness of identity is enforced by the accounts_identity_key constraint; a
// violation on insert is reported as domain.ErrAccountAlreadyExists.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQLAccountRepository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

// Create inserts a new account.
func (r *PostgreSQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()

	query := `INSERT INTO accounts (id, identity, display_name, secret, role, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Identity,
		account.DisplayName,
		account.Secret,
		string(account.Role),
		now,
		now,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrAccountAlreadyExists
		}
		return storeError(err, "failed to create account")
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

// GetByIdentity retrieves an account by its normalized identity.
func (r *PostgreSQLAccountRepository) GetByIdentity(
	ctx context.Context,
	identity string,
) (*domain.Account, error) {
	query := `SELECT ` + postgresqlAccountColumns + ` FROM accounts WHERE identity = $1`

	account, err := scanPostgreSQLAccount(r.db.QueryRowContext(ctx, query, identity))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storeError(err, "failed to get account by identity")
	}
	return account, nil
}

// UpdateRole sets the account role.
func (r *PostgreSQLAccountRepository) UpdateRole(
	ctx context.Context,
	identity string,
	role domain.Role,
) (*domain.Account, error) {
	query := `UPDATE accounts SET role = $1, updated_at = $2 WHERE identity = $3
			  RETURNING ` + postgresqlAccountColumns

	return r.update(ctx, "failed to update account role", query, string(role), time.Now().UTC(), identity)
}

// UpdateSecret replaces the account secret.
func (r *PostgreSQLAccountRepository) UpdateSecret(
	ctx context.Context,
	identity string,
	secret string,
) (*domain.Account, error) {
	query := `UPDATE accounts SET secret = $1, updated_at = $2 WHERE identity = $3
			  RETURNING ` + postgresqlAccountColumns

	return r.update(ctx, "failed to update account secret", query, secret, time.Now().UTC(), identity)
}

// Count returns the number of accounts, optionally restricted to one role.
func (r *PostgreSQLAccountRepository) Count(ctx context.Context, filter domain.CountFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM accounts`
	args := []any{}
	if filter.Role != nil {
		query += ` WHERE role = $1`
		args = append(args, string(*filter.Role))
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, storeError(err, "failed to count accounts")
	}
	return count, nil
}

func (r *PostgreSQLAccountRepository) update(
	ctx context.Context,
	action string,
	query string,
	args ...any,
) (*domain.Account, error) {
	account, err := scanPostgreSQLAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storeError(err, action)
	}
	return account, nil
}

func scanPostgreSQLAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	var role string

	err := row.Scan(
		&account.ID,
		&account.Identity,
		&account.DisplayName,
		&account.Secret,
		&role,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// unknown roles are carried through as-is; Authorize rejects them
	account.Role = domain.Role(role)
	return &account, nil
}
