package domain

import (
	"github.com/allisson/storefront/internal/errors"
)

// Account errors.
var (
	// ErrAccountNotFound indicates no account exists for the identity.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrAccountAlreadyExists is raised by stores when the identity is already taken.
	ErrAccountAlreadyExists = errors.Wrap(errors.ErrConflict, "account already exists")

	// ErrIdentityTaken is the registration-level view of ErrAccountAlreadyExists.
	ErrIdentityTaken = errors.Wrap(errors.ErrConflict, "identity already registered")

	// ErrInvalidCredentials is returned for every login failure. It must stay a single
	// value so unknown identities and wrong passwords are indistinguishable.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInsufficientRole is returned by Authorize when the role does not satisfy the requirement.
	ErrInsufficientRole = errors.Wrap(errors.ErrForbidden, "insufficient role")

	// ErrStoreUnavailable indicates the account store could not be reached.
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "account store unavailable")
)
