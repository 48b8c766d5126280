package domain

import (
	apperrors "github.com/allisson/storefront/internal/errors"
)

// Role is the authorization level of an account.
type Role string

const (
	// RoleStandard is assigned to every registered account.
	RoleStandard Role = "standard"

	// RoleAdministrator is granted only by admin provisioning.
	RoleAdministrator Role = "administrator"
)

// rank orders roles so a higher role satisfies any lower requirement.
var rank = map[Role]int{
	RoleStandard:      1,
	RoleAdministrator: 2,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// Authorize is the single place where role checks happen. It returns nil when the
// account satisfies requiredRole, ErrUnauthorized when there is no account and
// ErrForbidden otherwise.
func Authorize(account *Account, requiredRole Role) error {
	if account == nil {
		return apperrors.ErrUnauthorized
	}
	have, ok := rank[account.Role]
	if !ok {
		return ErrInsufficientRole
	}
	need, ok := rank[requiredRole]
	if !ok || have < need {
		return ErrInsufficientRole
	}
	return nil
}
