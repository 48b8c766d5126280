package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/storefront/internal/account/domain"
	"github.com/allisson/storefront/internal/account/usecase"
	"github.com/allisson/storefront/internal/account/usecase/mocks"
	apperrors "github.com/allisson/storefront/internal/errors"
)

func TestAccountUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NormalizesAndStoresStandardAccount", func(t *testing.T) {
		env := newTestEnv(t)

		account, err := env.accounts.Register(ctx, &domain.RegisterInput{
			Identity:    "  Jane@Example.COM ",
			Password:    "correct horse",
			DisplayName: " Jane ",
		})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", account.Identity)
		assert.Equal(t, "Jane", account.DisplayName)
		assert.Equal(t, domain.RoleStandard, account.Role)
		assert.Empty(t, account.Secret)
		assert.False(t, account.CreatedAt.IsZero())

		stored, err := env.repo.GetByIdentity(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse", stored.Secret)
		assert.True(t, env.codec.Verify("correct horse", stored.Secret))
	})

	t.Run("Error_DuplicateIdentityIgnoringCase", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.accounts.Register(ctx, &domain.RegisterInput{Identity: "jane@example.com", Password: "password1"})
		require.NoError(t, err)

		_, err = env.accounts.Register(ctx, &domain.RegisterInput{Identity: "JANE@example.com", Password: "password2"})
		assert.ErrorIs(t, err, domain.ErrIdentityTaken)
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})

	invalid := []struct {
		name  string
		input domain.RegisterInput
	}{
		{"EmptyIdentity", domain.RegisterInput{Identity: "", Password: "password1"}},
		{"BlankIdentity", domain.RegisterInput{Identity: "   ", Password: "password1"}},
		{"NotAnEmail", domain.RegisterInput{Identity: "jane", Password: "password1"}},
		{"IdentityTooLong", domain.RegisterInput{
			Identity: strings.Repeat("a", 250) + "@example.com",
			Password: "password1",
		}},
		{"EmptyPassword", domain.RegisterInput{Identity: "jane@example.com", Password: ""}},
		{"PasswordBelowPolicy", domain.RegisterInput{Identity: "jane@example.com", Password: "short"}},
		{"MultibytePasswordOverByteLimit", domain.RegisterInput{
			Identity: "jane@example.com",
			Password: strings.Repeat("ä", 513),
		}},
		{"DisplayNameTooLong", domain.RegisterInput{
			Identity:    "jane@example.com",
			Password:    "password1",
			DisplayName: strings.Repeat("n", 256),
		}},
	}
	for _, tt := range invalid {
		t.Run("Error_"+tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			input := tt.input

			account, err := env.accounts.Register(ctx, &input)
			assert.Nil(t, account)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput), "got %v", err)

			count, countErr := env.repo.Count(ctx, domain.CountFilter{})
			require.NoError(t, countErr)
			assert.Zero(t, count)
		})
	}

	t.Run("ConcurrentRegisterSingleWinner", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		env := newTestEnv(t)

		const attempts = 6
		errs := make([]error, attempts)
		var g errgroup.Group
		for i := 0; i < attempts; i++ {
			g.Go(func() error {
				_, errs[i] = env.accounts.Register(ctx, &domain.RegisterInput{
					Identity: "race@example.com",
					Password: "password1",
				})
				return nil
			})
		}
		require.NoError(t, g.Wait())

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrIdentityTaken)
		}
		assert.Equal(t, 1, successes)
	})

	t.Run("Error_StoreUnavailablePropagates", func(t *testing.T) {
		repo := &mocks.MockAccountRepository{}
		hasher := &mocks.MockPasswordHasher{}
		uc := usecase.NewAccountUseCase(repo, hasher, testPolicy, "dummy")

		hasher.On("Derive", ctx, "password1").Return("derived", nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Account) bool {
			return a.Secret == "derived" && a.Role == domain.RoleStandard
		})).Return(domain.ErrStoreUnavailable).Once()

		_, err := uc.Register(ctx, &domain.RegisterInput{Identity: "jane@example.com", Password: "password1"})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		repo.AssertExpectations(t)
		hasher.AssertExpectations(t)
	})

	t.Run("Error_DeriveFails", func(t *testing.T) {
		repo := &mocks.MockAccountRepository{}
		hasher := &mocks.MockPasswordHasher{}
		uc := usecase.NewAccountUseCase(repo, hasher, testPolicy, "dummy")

		hasher.On("Derive", ctx, "password1").Return("", context.Canceled).Once()

		_, err := uc.Register(ctx, &domain.RegisterInput{Identity: "jane@example.com", Password: "password1"})
		assert.ErrorIs(t, err, context.Canceled)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAccountUseCase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReturnsRedactedAccount", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.accounts.Register(ctx, &domain.RegisterInput{Identity: "jane@example.com", Password: "password1"})
		require.NoError(t, err)

		account, err := env.accounts.Login(ctx, " JANE@example.com", "password1")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", account.Identity)
		assert.Empty(t, account.Secret)
	})

	t.Run("WrongPasswordAndUnknownIdentityAreIndistinguishable", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.accounts.Register(ctx, &domain.RegisterInput{Identity: "jane@example.com", Password: "password1"})
		require.NoError(t, err)

		_, wrongPassword := env.accounts.Login(ctx, "jane@example.com", "password2")
		_, unknownIdentity := env.accounts.Login(ctx, "ghost@example.com", "password1")

		assert.Same(t, domain.ErrInvalidCredentials, wrongPassword)
		assert.Same(t, domain.ErrInvalidCredentials, unknownIdentity)
		assert.Equal(t, wrongPassword.Error(), unknownIdentity.Error())
	})

	t.Run("MalformedStoredSecretFailsClosed", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.repo.Create(ctx, &domain.Account{
			Identity: "broken@example.com",
			Secret:   "not:a:secret:at:all",
			Role:     domain.RoleStandard,
		}))

		_, err := env.accounts.Login(ctx, "broken@example.com", "anything")
		assert.Same(t, domain.ErrInvalidCredentials, err)
	})

	t.Run("MalformedArgon2idSecretFailsClosed", func(t *testing.T) {
		secrets := map[string]string{
			"empty-salt-and-hash":   "argon2id:$argon2id$v=19$m=1,t=1,p=1$$",
			"zero-passes-and-lanes": "argon2id:$argon2id$v=19$m=65536,t=0,p=0$c2FsdA$aGFzaA",
			"huge-memory": "argon2id:$argon2id$v=19$m=4294967295,t=3,p=4" +
				"$c2FsdHNhbHRzYWx0c2FsdA$aGhoaGhoaGhoaGhoaGhoaGhoaGhoaGhoaGhoaGhoaGg",
		}

		for name, secret := range secrets {
			t.Run(name, func(t *testing.T) {
				env := newTestEnv(t)
				require.NoError(t, env.repo.Create(ctx, &domain.Account{
					Identity: "user@example.com",
					Secret:   secret,
					Role:     domain.RoleStandard,
				}))

				var err error
				require.NotPanics(t, func() {
					_, err = env.accounts.Login(ctx, "user@example.com", "anything")
				})
				assert.Same(t, domain.ErrInvalidCredentials, err)
			})
		}
	})

	t.Run("UnknownIdentityStillRunsVerification", func(t *testing.T) {
		repo := &mocks.MockAccountRepository{}
		hasher := &mocks.MockPasswordHasher{}
		uc := usecase.NewAccountUseCase(repo, hasher, testPolicy, "dummy-secret")

		repo.On("GetByIdentity", ctx, "ghost@example.com").Return(nil, domain.ErrAccountNotFound).Once()
		hasher.On("Verify", ctx, "password1", "dummy-secret").Return(false, nil).Once()

		_, err := uc.Login(ctx, "ghost@example.com", "password1")
		assert.Same(t, domain.ErrInvalidCredentials, err)
		hasher.AssertExpectations(t)
	})

	t.Run("Error_StoreUnavailableIsNotCollapsed", func(t *testing.T) {
		repo := &mocks.MockAccountRepository{}
		hasher := &mocks.MockPasswordHasher{}
		uc := usecase.NewAccountUseCase(repo, hasher, testPolicy, "dummy-secret")

		repo.On("GetByIdentity", ctx, "jane@example.com").Return(nil, domain.ErrStoreUnavailable).Once()

		_, err := uc.Login(ctx, "jane@example.com", "password1")
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
		hasher.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_ContextCancelledWhileWaitingForKDF", func(t *testing.T) {
		repo := &mocks.MockAccountRepository{}
		hasher := &mocks.MockPasswordHasher{}
		uc := usecase.NewAccountUseCase(repo, hasher, testPolicy, "dummy-secret")

		account := &domain.Account{Identity: "jane@example.com", Secret: "s", Role: domain.RoleStandard}
		repo.On("GetByIdentity", ctx, "jane@example.com").Return(account, nil).Once()
		hasher.On("Verify", ctx, "password1", "s").Return(false, context.DeadlineExceeded).Once()

		_, err := uc.Login(ctx, "jane@example.com", "password1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestAccountUseCase_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.accounts.Register(ctx, &domain.RegisterInput{Identity: "jane@example.com", Password: "password1"})
		require.NoError(t, err)

		err = env.accounts.ChangePassword(ctx, &domain.ChangePasswordInput{
			Identity:        "jane@example.com",
			CurrentPassword: "password1",
			NewPassword:     "password2",
		})
		require.NoError(t, err)

		_, err = env.accounts.Login(ctx, "jane@example.com", "password1")
		assert.Same(t, domain.ErrInvalidCredentials, err)
		_, err = env.accounts.Login(ctx, "jane@example.com", "password2")
		assert.NoError(t, err)
	})

	t.Run("Error_WrongCurrentPassword", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.accounts.Register(ctx, &domain.RegisterInput{Identity: "jane@example.com", Password: "password1"})
		require.NoError(t, err)

		err = env.accounts.ChangePassword(ctx, &domain.ChangePasswordInput{
			Identity:        "jane@example.com",
			CurrentPassword: "nope-nope",
			NewPassword:     "password2",
		})
		assert.Same(t, domain.ErrInvalidCredentials, err)

		_, err = env.accounts.Login(ctx, "jane@example.com", "password1")
		assert.NoError(t, err)
	})

	t.Run("Error_NewPasswordViolatesPolicy", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.accounts.ChangePassword(ctx, &domain.ChangePasswordInput{
			Identity:        "jane@example.com",
			CurrentPassword: "password1",
			NewPassword:     "short",
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestAccountUseCase_GetAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.accounts.Register(ctx, &domain.RegisterInput{Identity: "jane@example.com", Password: "password1"})
	require.NoError(t, err)

	account, err := env.accounts.GetAccount(ctx, "Jane@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", account.Identity)
	assert.Empty(t, account.Secret)

	_, err = env.accounts.GetAccount(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountUseCase_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		for _, identity := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			_, err := env.accounts.Register(ctx, &domain.RegisterInput{Identity: identity, Password: "password1"})
			require.NoError(t, err)
		}
		_, err := env.provisioner.EnsureAdmin(ctx, &domain.EnsureAdminInput{
			Identity: "a@example.com",
			Password: "password1",
		})
		require.NoError(t, err)

		stats, err := env.accounts.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, &domain.AccountStats{Total: 3, Administrators: 1, Standard: 2}, stats)
	})

	t.Run("Error_CountFails", func(t *testing.T) {
		repo := &mocks.MockAccountRepository{}
		uc := usecase.NewAccountUseCase(repo, &mocks.MockPasswordHasher{}, testPolicy, "dummy")
		repo.On("Count", ctx, domain.CountFilter{}).Return(int64(0), errors.New("boom")).Once()

		stats, err := uc.Stats(ctx)
		assert.Nil(t, stats)
		assert.Error(t, err)
	})
}
