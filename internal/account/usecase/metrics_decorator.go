package usecase

import (
	"context"
	"time"

	"github.com/allisson/storefront/internal/account/domain"
	"github.com/allisson/storefront/internal/metrics"
)

const metricsDomain = "account"

// accountUseCaseWithMetrics decorates AccountUseCase with metrics instrumentation.
type accountUseCaseWithMetrics struct {
	next    AccountUseCase
	metrics metrics.BusinessMetrics
}

// NewAccountUseCaseWithMetrics wraps an AccountUseCase with metrics recording.
func NewAccountUseCaseWithMetrics(useCase AccountUseCase, m metrics.BusinessMetrics) AccountUseCase {
	return &accountUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func record(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := metrics.OperationStatus(err)
	m.RecordOperation(ctx, metricsDomain, operation, status)
	m.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Register records metrics for account registration.
func (a *accountUseCaseWithMetrics) Register(
	ctx context.Context,
	input *domain.RegisterInput,
) (*domain.Account, error) {
	start := time.Now()
	account, err := a.next.Register(ctx, input)
	record(ctx, a.metrics, "register", start, err)
	return account, err
}

// Login records metrics for login attempts.
func (a *accountUseCaseWithMetrics) Login(ctx context.Context, identity, password string) (*domain.Account, error) {
	start := time.Now()
	account, err := a.next.Login(ctx, identity, password)
	record(ctx, a.metrics, "login", start, err)
	return account, err
}

// ChangePassword records metrics for password changes.
func (a *accountUseCaseWithMetrics) ChangePassword(ctx context.Context, input *domain.ChangePasswordInput) error {
	start := time.Now()
	err := a.next.ChangePassword(ctx, input)
	record(ctx, a.metrics, "change_password", start, err)
	return err
}

// GetAccount records metrics for account lookups.
func (a *accountUseCaseWithMetrics) GetAccount(ctx context.Context, identity string) (*domain.Account, error) {
	start := time.Now()
	account, err := a.next.GetAccount(ctx, identity)
	record(ctx, a.metrics, "get", start, err)
	return account, err
}

// Stats records metrics for account statistics.
func (a *accountUseCaseWithMetrics) Stats(ctx context.Context) (*domain.AccountStats, error) {
	start := time.Now()
	stats, err := a.next.Stats(ctx)
	record(ctx, a.metrics, "stats", start, err)
	return stats, err
}

// adminProvisionerWithMetrics decorates AdminProvisioner with metrics instrumentation.
type adminProvisionerWithMetrics struct {
	next    AdminProvisioner
	metrics metrics.BusinessMetrics
}

// NewAdminProvisionerWithMetrics wraps an AdminProvisioner with metrics recording.
func NewAdminProvisionerWithMetrics(provisioner AdminProvisioner, m metrics.BusinessMetrics) AdminProvisioner {
	return &adminProvisionerWithMetrics{
		next:    provisioner,
		metrics: m,
	}
}

// EnsureAdmin records metrics for admin provisioning, labelled by the branch taken.
func (a *adminProvisionerWithMetrics) EnsureAdmin(
	ctx context.Context,
	input *domain.EnsureAdminInput,
) (domain.ProvisionResult, error) {
	start := time.Now()
	result, err := a.next.EnsureAdmin(ctx, input)

	operation := "ensure_admin"
	if err == nil {
		operation += "_" + string(result)
	}
	record(ctx, a.metrics, operation, start, err)

	return result, err
}
