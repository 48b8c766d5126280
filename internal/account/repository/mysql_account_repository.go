package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/storefront/internal/account/domain"
	apperrors "github.com/allisson/storefront/internal/errors"
)

// MySQLAccountRepository handles account persistence for MySQL.
//
// MySQL has no native UUID type, so ids are stored as BINARY(16) and converted with
// uuid.MarshalBinary/UnmarshalBinary. Timestamps use DATETIME(6).
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQLAccountRepository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

// Create inserts a new account.
func (r *MySQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}
	now := time.Now().UTC()

	query := `INSERT INTO accounts (id, identity, display_name, secret, role, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(
		ctx,
		query,
		id,
		account.Identity,
		account.DisplayName,
		account.Secret,
		string(account.Role),
		now,
		now,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return domain.ErrAccountAlreadyExists
		}
		return storeError(err, "failed to create account")
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

// GetByIdentity retrieves an account by its normalized identity.
func (r *MySQLAccountRepository) GetByIdentity(ctx context.Context, identity string) (*domain.Account, error) {
	query := `SELECT id, identity, display_name, secret, role, created_at, updated_at
			  FROM accounts WHERE identity = ?`

	var account domain.Account
	var id []byte
	var role string

	err := r.db.QueryRowContext(ctx, query, identity).Scan(
		&id,
		&account.Identity,
		&account.DisplayName,
		&account.Secret,
		&role,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storeError(err, "failed to get account by identity")
	}

	if err := account.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account id")
	}
	account.Role = domain.Role(role)

	return &account, nil
}

// UpdateRole sets the account role.
func (r *MySQLAccountRepository) UpdateRole(
	ctx context.Context,
	identity string,
	role domain.Role,
) (*domain.Account, error) {
	query := `UPDATE accounts SET role = ?, updated_at = ? WHERE identity = ?`
	return r.update(ctx, "failed to update account role", query, identity, string(role))
}

// UpdateSecret replaces the account secret.
func (r *MySQLAccountRepository) UpdateSecret(
	ctx context.Context,
	identity string,
	secret string,
) (*domain.Account, error) {
	query := `UPDATE accounts SET secret = ?, updated_at = ? WHERE identity = ?`
	return r.update(ctx, "failed to update account secret", query, identity, secret)
}

// Count returns the number of accounts, optionally restricted to one role.
func (r *MySQLAccountRepository) Count(ctx context.Context, filter domain.CountFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM accounts`
	args := []any{}
	if filter.Role != nil {
		query += ` WHERE role = ?`
		args = append(args, string(*filter.Role))
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, storeError(err, "failed to count accounts")
	}
	return count, nil
}

// update runs a single-column UPDATE and reads the row back. MySQL has no RETURNING
// and RowsAffected is zero when values are unchanged, so existence is decided by the
// follow-up read.
func (r *MySQLAccountRepository) update(
	ctx context.Context,
	action string,
	query string,
	identity string,
	value any,
) (*domain.Account, error) {
	if _, err := r.db.ExecContext(ctx, query, value, time.Now().UTC(), identity); err != nil {
		return nil, storeError(err, action)
	}
	return r.GetByIdentity(ctx, identity)
}
