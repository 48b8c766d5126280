package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/allisson/storefront/internal/account/domain"
	apperrors "github.com/allisson/storefront/internal/errors"
)

const (
	redisAccountKeyPrefix = "account:"
	redisAccountIndexKey  = "accounts"
	redisRoleIndexPrefix  = "accounts:role:"
)

// hash fields of an account record
const (
	fieldID          = "id"
	fieldIdentity    = "identity"
	fieldDisplayName = "display_name"
	fieldSecret      = "secret"
	fieldRole        = "role"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// RedisAccountRepository stores each account as a hash under "account:<identity>".
// The set "accounts" indexes every identity and "accounts:role:<role>" indexes
// identities per role so Count never scans the keyspace.
//
// Create uses WATCH/MULTI on the account key: if another client writes the key
// between the existence check and EXEC the transaction aborts and the identity is
// reported as taken.
type RedisAccountRepository struct {
	client redis.UniversalClient
}

// NewRedisAccountRepository creates a new RedisAccountRepository.
func NewRedisAccountRepository(client redis.UniversalClient) *RedisAccountRepository {
	return &RedisAccountRepository{client: client}
}

func accountKey(identity string) string {
	return redisAccountKeyPrefix + identity
}

func roleIndexKey(role domain.Role) string {
	return redisRoleIndexPrefix + string(role)
}

// Create inserts a new account.
func (r *RedisAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	key := accountKey(account.Identity)
	now := time.Now().UTC()

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return domain.ErrAccountAlreadyExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				fieldID, account.ID.String(),
				fieldIdentity, account.Identity,
				fieldDisplayName, account.DisplayName,
				fieldSecret, account.Secret,
				fieldRole, string(account.Role),
				fieldCreatedAt, now.Format(time.RFC3339Nano),
				fieldUpdatedAt, now.Format(time.RFC3339Nano),
			)
			pipe.SAdd(ctx, redisAccountIndexKey, account.Identity)
			pipe.SAdd(ctx, roleIndexKey(account.Role), account.Identity)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		account.CreatedAt = now
		account.UpdatedAt = now
		return nil
	case errors.Is(err, domain.ErrAccountAlreadyExists), errors.Is(err, redis.TxFailedErr):
		return domain.ErrAccountAlreadyExists
	default:
		return storeError(err, "failed to create account")
	}
}

// GetByIdentity retrieves an account by its normalized identity.
func (r *RedisAccountRepository) GetByIdentity(ctx context.Context, identity string) (*domain.Account, error) {
	fields, err := r.client.HGetAll(ctx, accountKey(identity)).Result()
	if err != nil {
		return nil, storeError(err, "failed to get account by identity")
	}
	if len(fields) == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return decodeRedisAccount(fields)
}

// UpdateRole sets the account role and moves the identity between role indexes.
func (r *RedisAccountRepository) UpdateRole(
	ctx context.Context,
	identity string,
	role domain.Role,
) (*domain.Account, error) {
	return r.update(ctx, identity, "failed to update account role", func(pipe redis.Pipeliner, key string) {
		pipe.HSet(ctx, key, fieldRole, string(role), fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano))
		for _, known := range allRoles {
			if known != role {
				pipe.SRem(ctx, roleIndexKey(known), identity)
			}
		}
		pipe.SAdd(ctx, roleIndexKey(role), identity)
	})
}

// UpdateSecret replaces the account secret.
func (r *RedisAccountRepository) UpdateSecret(
	ctx context.Context,
	identity string,
	secret string,
) (*domain.Account, error) {
	return r.update(ctx, identity, "failed to update account secret", func(pipe redis.Pipeliner, key string) {
		pipe.HSet(ctx, key, fieldSecret, secret, fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano))
	})
}

// Count returns the number of accounts, optionally restricted to one role.
func (r *RedisAccountRepository) Count(ctx context.Context, filter domain.CountFilter) (int64, error) {
	key := redisAccountIndexKey
	if filter.Role != nil {
		key = roleIndexKey(*filter.Role)
	}
	count, err := r.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, storeError(err, "failed to count accounts")
	}
	return count, nil
}

// update applies fn inside MULTI/EXEC after checking the account exists. Accounts
// are never deleted, so the existence check cannot go stale before EXEC.
func (r *RedisAccountRepository) update(
	ctx context.Context,
	identity string,
	action string,
	fn func(pipe redis.Pipeliner, key string),
) (*domain.Account, error) {
	key := accountKey(identity)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, storeError(err, action)
	}
	if exists == 0 {
		return nil, domain.ErrAccountNotFound
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fn(pipe, key)
		return nil
	})
	if err != nil {
		return nil, storeError(err, action)
	}

	return r.GetByIdentity(ctx, identity)
}

var allRoles = []domain.Role{domain.RoleStandard, domain.RoleAdministrator}

func decodeRedisAccount(fields map[string]string) (*domain.Account, error) {
	id, err := uuid.Parse(fields[fieldID])
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse account id")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse account created_at")
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt])
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse account updated_at")
	}

	return &domain.Account{
		ID:          id,
		Identity:    fields[fieldIdentity],
		DisplayName: fields[fieldDisplayName],
		Secret:      fields[fieldSecret],
		Role:        domain.Role(fields[fieldRole]),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
