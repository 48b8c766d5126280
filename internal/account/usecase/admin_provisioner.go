package usecase

import (
	"context"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/storefront/internal/account/domain"
	"github.com/allisson/storefront/internal/account/service"
	apperrors "github.com/allisson/storefront/internal/errors"
	appValidation "github.com/allisson/storefront/internal/validation"
)

// adminProvisioner implements AdminProvisioner.
type adminProvisioner struct {
	accountRepo AccountRepository
	hasher      service.PasswordHasher
	policy      PasswordPolicy
}

// NewAdminProvisioner creates a new AdminProvisioner.
func NewAdminProvisioner(
	accountRepo AccountRepository,
	hasher service.PasswordHasher,
	policy PasswordPolicy,
) AdminProvisioner {
	return &adminProvisioner{
		accountRepo: accountRepo,
		hasher:      hasher,
		policy:      policy,
	}
}

// EnsureAdmin implements AdminProvisioner.
//
// Concurrent calls for the same identity are resolved by the store: at most one insert
// wins, the others re-read and fall through to promotion, which is idempotent.
func (p *adminProvisioner) EnsureAdmin(
	ctx context.Context,
	input *domain.EnsureAdminInput,
) (domain.ProvisionResult, error) {
	normalized := domain.EnsureAdminInput{
		Identity: domain.NormalizeIdentity(input.Identity),
		Password: input.Password,
	}
	err := validation.ValidateStruct(&normalized,
		validation.Field(&normalized.Identity, identityRules()...),
		validation.Field(&normalized.Password, p.policy.rules()...),
	)
	if err != nil {
		return "", appValidation.WrapValidationError(err)
	}

	account, err := p.accountRepo.GetByIdentity(ctx, normalized.Identity)
	if err == nil {
		return p.promote(ctx, account)
	}
	if !apperrors.Is(err, domain.ErrAccountNotFound) {
		return "", err
	}

	secret, err := p.hasher.Derive(ctx, normalized.Password)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to derive secret")
	}

	err = p.accountRepo.Create(ctx, &domain.Account{
		ID:       uuid.Must(uuid.NewV7()),
		Identity: normalized.Identity,
		Secret:   secret,
		Role:     domain.RoleAdministrator,
	})
	if err == nil {
		return domain.ProvisionCreated, nil
	}
	if !apperrors.Is(err, domain.ErrAccountAlreadyExists) {
		return "", err
	}

	// lost the insert race; the winner's record decides the branch
	account, err = p.accountRepo.GetByIdentity(ctx, normalized.Identity)
	if err != nil {
		return "", err
	}
	return p.promote(ctx, account)
}

func (p *adminProvisioner) promote(ctx context.Context, account *domain.Account) (domain.ProvisionResult, error) {
	if account.IsAdministrator() {
		return domain.ProvisionAlreadyAdmin, nil
	}
	if _, err := p.accountRepo.UpdateRole(ctx, account.Identity, domain.RoleAdministrator); err != nil {
		return "", err
	}
	return domain.ProvisionPromoted, nil
}
