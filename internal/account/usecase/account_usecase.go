package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/storefront/internal/account/domain"
	"github.com/allisson/storefront/internal/account/service"
	apperrors "github.com/allisson/storefront/internal/errors"
	appValidation "github.com/allisson/storefront/internal/validation"
)

// accountUseCase implements AccountUseCase.
type accountUseCase struct {
	accountRepo AccountRepository
	hasher      service.PasswordHasher
	policy      PasswordPolicy

	// dummySecret is verified against when the identity does not exist so that
	// unknown identities take as long as wrong passwords.
	dummySecret string
}

// NewAccountUseCase creates a new AccountUseCase. dummySecret must be a secret produced
// by the same codec configuration as real accounts.
func NewAccountUseCase(
	accountRepo AccountRepository,
	hasher service.PasswordHasher,
	policy PasswordPolicy,
	dummySecret string,
) AccountUseCase {
	return &accountUseCase{
		accountRepo: accountRepo,
		hasher:      hasher,
		policy:      policy,
		dummySecret: dummySecret,
	}
}

func (uc *accountUseCase) validateRegisterInput(input *domain.RegisterInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Identity, identityRules()...),
		validation.Field(&input.Password, uc.policy.rules()...),
		validation.Field(&input.DisplayName,
			validation.RuneLength(0, maxDisplayNameLength).Error("name must be at most 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register implements AccountUseCase.
func (uc *accountUseCase) Register(ctx context.Context, input *domain.RegisterInput) (*domain.Account, error) {
	normalized := domain.RegisterInput{
		Identity:    domain.NormalizeIdentity(input.Identity),
		Password:    input.Password,
		DisplayName: strings.TrimSpace(input.DisplayName),
	}
	if err := uc.validateRegisterInput(&normalized); err != nil {
		return nil, err
	}

	secret, err := uc.hasher.Derive(ctx, normalized.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive secret")
	}

	account := &domain.Account{
		ID:          uuid.Must(uuid.NewV7()),
		Identity:    normalized.Identity,
		DisplayName: normalized.DisplayName,
		Secret:      secret,
		Role:        domain.RoleStandard,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		if apperrors.Is(err, domain.ErrAccountAlreadyExists) {
			return nil, domain.ErrIdentityTaken
		}
		return nil, err
	}

	return account.Redacted(), nil
}

// Login implements AccountUseCase.
func (uc *accountUseCase) Login(ctx context.Context, identity, password string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByIdentity(ctx, domain.NormalizeIdentity(identity))
	if err != nil {
		if !apperrors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		if _, err := uc.hasher.Verify(ctx, password, uc.dummySecret); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}

	if err := uc.checkPassword(ctx, account, password); err != nil {
		return nil, err
	}

	return account.Redacted(), nil
}

// ChangePassword implements AccountUseCase.
func (uc *accountUseCase) ChangePassword(ctx context.Context, input *domain.ChangePasswordInput) error {
	err := validation.Validate(input.NewPassword, uc.policy.rules()...)
	if err != nil {
		return appValidation.WrapValidationError(validation.Errors{"new_password": err})
	}

	identity := domain.NormalizeIdentity(input.Identity)
	account, err := uc.accountRepo.GetByIdentity(ctx, identity)
	if err != nil {
		if apperrors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	if err := uc.checkPassword(ctx, account, input.CurrentPassword); err != nil {
		return err
	}

	secret, err := uc.hasher.Derive(ctx, input.NewPassword)
	if err != nil {
		return apperrors.Wrap(err, "failed to derive secret")
	}

	_, err = uc.accountRepo.UpdateSecret(ctx, identity, secret)
	return err
}

// GetAccount implements AccountUseCase.
func (uc *accountUseCase) GetAccount(ctx context.Context, identity string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByIdentity(ctx, domain.NormalizeIdentity(identity))
	if err != nil {
		return nil, err
	}
	return account.Redacted(), nil
}

// Stats implements AccountUseCase.
func (uc *accountUseCase) Stats(ctx context.Context) (*domain.AccountStats, error) {
	total, err := uc.accountRepo.Count(ctx, domain.CountFilter{})
	if err != nil {
		return nil, err
	}

	administrator := domain.RoleAdministrator
	administrators, err := uc.accountRepo.Count(ctx, domain.CountFilter{Role: &administrator})
	if err != nil {
		return nil, err
	}

	standard := domain.RoleStandard
	standards, err := uc.accountRepo.Count(ctx, domain.CountFilter{Role: &standard})
	if err != nil {
		return nil, err
	}

	return &domain.AccountStats{
		Total:          total,
		Administrators: administrators,
		Standard:       standards,
	}, nil
}

// checkPassword returns ErrInvalidCredentials unless password matches the stored secret.
// A malformed secret fails verification like a wrong password.
func (uc *accountUseCase) checkPassword(ctx context.Context, account *domain.Account, password string) error {
	ok, err := uc.hasher.Verify(ctx, password, account.Secret)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}
	return nil
}
