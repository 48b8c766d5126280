package domain

// ProvisionResult reports which branch EnsureAdmin took.
type ProvisionResult string

const (
	// ProvisionCreated means a new administrator account was inserted.
	ProvisionCreated ProvisionResult = "created"

	// ProvisionPromoted means an existing standard account was promoted.
	ProvisionPromoted ProvisionResult = "promoted"

	// ProvisionAlreadyAdmin means nothing changed.
	ProvisionAlreadyAdmin ProvisionResult = "already_admin"
)

// EnsureAdminInput identifies the account to provision.
type EnsureAdminInput struct {
	Identity string
	Password string //nolint:gosec // used only when the account has to be created
}
