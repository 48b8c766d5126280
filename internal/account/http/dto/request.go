// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/storefront/internal/validation"
)

// maxPasswordBytes bounds the encoded size of request passwords before they reach the KDF.
const maxPasswordBytes = 1024

// RegisterRequest contains the parameters for registering a new account.
// Identity format and password policy are enforced by the use case.
type RegisterRequest struct {
	Name     string `json:"name"`
	Identity string `json:"identity"`
	Password string `json:"password"` //nolint:gosec // request field
}

// Validate checks if the register request is valid.
func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Identity,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			customValidation.MaxBytes(maxPasswordBytes),
		),
		validation.Field(&r.Name, validation.Length(0, 255)),
	)
}

// LoginRequest contains the credentials for a login attempt.
type LoginRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"` //nolint:gosec // request field
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Identity, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Password, validation.Required, customValidation.MaxBytes(maxPasswordBytes)),
	)
}

// ChangePasswordRequest contains the parameters for rotating the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"` //nolint:gosec // request field
	NewPassword     string `json:"new_password"`     //nolint:gosec // request field
}

// Validate checks if the change password request is valid.
func (r *ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CurrentPassword, validation.Required, customValidation.MaxBytes(maxPasswordBytes)),
		validation.Field(&r.NewPassword, validation.Required, customValidation.MaxBytes(maxPasswordBytes)),
	)
}
