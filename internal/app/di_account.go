package app

import (
	"context"
	"fmt"

	accountHTTP "github.com/allisson/storefront/internal/account/http"
	accountRepository "github.com/allisson/storefront/internal/account/repository"
	accountService "github.com/allisson/storefront/internal/account/service"
	accountUseCase "github.com/allisson/storefront/internal/account/usecase"
	"github.com/allisson/storefront/internal/config"
)

// dummyPassword only seeds the secret verified for unknown identities.
const dummyPassword = "storefront-unknown-identity"

type accountComponents struct {
	accountRepository lazy[accountUseCase.AccountRepository]
	passwordCodec     lazy[accountService.PasswordCodec]
	passwordHasher    lazy[accountService.PasswordHasher]
	tokenService      lazy[accountService.TokenService]
	accountUseCase    lazy[accountUseCase.AccountUseCase]
	adminProvisioner  lazy[accountUseCase.AdminProvisioner]
	accountHandler    lazy[*accountHTTP.AccountHandler]
	adminHandler      lazy[*accountHTTP.AdminHandler]
}

// AccountRepository returns the account store selected by DB_DRIVER.
func (c *Container) AccountRepository() (accountUseCase.AccountRepository, error) {
	return c.accountRepository.get(func() (accountUseCase.AccountRepository, error) {
		switch c.config.DBDriver {
		case config.DriverPostgres:
			db, err := c.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for account repository: %w", err)
			}
			return accountRepository.NewPostgreSQLAccountRepository(db), nil
		case config.DriverMySQL:
			db, err := c.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for account repository: %w", err)
			}
			return accountRepository.NewMySQLAccountRepository(db), nil
		case config.DriverRedis:
			client, err := c.RedisClient()
			if err != nil {
				return nil, fmt.Errorf("failed to get redis client for account repository: %w", err)
			}
			return accountRepository.NewRedisAccountRepository(client), nil
		case config.DriverMemory:
			c.Logger().Warn("using in-memory account store, accounts are lost on restart")
			return accountRepository.NewMemoryAccountRepository(), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
}

// PasswordCodec returns the codec configured by PASSWORD_HASH_ALGORITHM.
func (c *Container) PasswordCodec() (accountService.PasswordCodec, error) {
	return c.passwordCodec.get(func() (accountService.PasswordCodec, error) {
		opts := []accountService.CodecOption{accountService.WithScheme(c.config.PasswordHashAlgorithm)}
		if c.config.PasswordHashIterations > 0 {
			opts = append(opts, accountService.WithIterations(c.config.PasswordHashIterations))
		}
		codec, err := accountService.NewPasswordCodec(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create password codec: %w", err)
		}
		return codec, nil
	})
}

// PasswordHasher returns the codec bounded by KDF_MAX_CONCURRENCY.
func (c *Container) PasswordHasher() (accountService.PasswordHasher, error) {
	return c.passwordHasher.get(func() (accountService.PasswordHasher, error) {
		codec, err := c.PasswordCodec()
		if err != nil {
			return nil, err
		}
		return accountService.NewBoundedHasher(codec, c.config.KDFMaxConcurrency), nil
	})
}

// TokenService returns the session token signer.
func (c *Container) TokenService() (accountService.TokenService, error) {
	return c.tokenService.get(func() (accountService.TokenService, error) {
		tokenService, err := accountService.NewTokenService(
			[]byte(c.config.AuthTokenSecret),
			c.config.AuthTokenIssuer,
			c.config.AuthTokenExpiration,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create token service: %w", err)
		}
		return tokenService, nil
	})
}

func (c *Container) passwordPolicy() accountUseCase.PasswordPolicy {
	return accountUseCase.PasswordPolicy{MinLength: c.config.PasswordMinLength}
}

// AccountUseCase returns the account use case, wrapped with metrics.
func (c *Container) AccountUseCase() (accountUseCase.AccountUseCase, error) {
	return c.accountUseCase.get(func() (accountUseCase.AccountUseCase, error) {
		repo, err := c.AccountRepository()
		if err != nil {
			return nil, err
		}
		hasher, err := c.PasswordHasher()
		if err != nil {
			return nil, err
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for account use case: %w", err)
		}

		dummySecret, err := hasher.Derive(context.Background(), dummyPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to derive dummy secret: %w", err)
		}

		baseUseCase := accountUseCase.NewAccountUseCase(repo, hasher, c.passwordPolicy(), dummySecret)
		return accountUseCase.NewAccountUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	})
}

// AdminProvisioner returns the admin provisioner, wrapped with metrics.
func (c *Container) AdminProvisioner() (accountUseCase.AdminProvisioner, error) {
	return c.adminProvisioner.get(func() (accountUseCase.AdminProvisioner, error) {
		repo, err := c.AccountRepository()
		if err != nil {
			return nil, err
		}
		hasher, err := c.PasswordHasher()
		if err != nil {
			return nil, err
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for admin provisioner: %w", err)
		}

		baseProvisioner := accountUseCase.NewAdminProvisioner(repo, hasher, c.passwordPolicy())
		return accountUseCase.NewAdminProvisionerWithMetrics(baseProvisioner, businessMetrics), nil
	})
}

// AccountHandler returns the HTTP handler for account operations.
func (c *Container) AccountHandler() (*accountHTTP.AccountHandler, error) {
	return c.accountHandler.get(func() (*accountHTTP.AccountHandler, error) {
		useCase, err := c.AccountUseCase()
		if err != nil {
			return nil, err
		}
		tokenService, err := c.TokenService()
		if err != nil {
			return nil, err
		}
		return accountHTTP.NewAccountHandler(useCase, tokenService, c.Logger()), nil
	})
}

// AdminHandler returns the HTTP handler for admin operations.
func (c *Container) AdminHandler() (*accountHTTP.AdminHandler, error) {
	return c.adminHandler.get(func() (*accountHTTP.AdminHandler, error) {
		provisioner, err := c.AdminProvisioner()
		if err != nil {
			return nil, err
		}
		useCase, err := c.AccountUseCase()
		if err != nil {
			return nil, err
		}
		seed := accountHTTP.SeedConfig{
			Enabled:  c.config.AdminSeedEnabled,
			Identity: c.config.AdminSeedIdentity,
			Password: c.config.AdminSeedPassword,
		}
		return accountHTTP.NewAdminHandler(provisioner, useCase, seed, c.Logger()), nil
	})
}
