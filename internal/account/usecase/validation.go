package usecase

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/storefront/internal/validation"
)

const (
	maxIdentityLength    = 255
	maxDisplayNameLength = 255
	maxPasswordLength    = 1024
	maxPasswordBytes     = 1024
)

// PasswordPolicy is the set of rules applied to new passwords.
type PasswordPolicy struct {
	MinLength int
}

func (p PasswordPolicy) rules() []validation.Rule {
	minLength := p.MinLength
	if minLength < 1 {
		minLength = 1
	}
	return []validation.Rule{
		validation.Required.Error("password is required"),
		appValidation.PasswordStrength{MinLength: minLength, MaxLength: maxPasswordLength},
		appValidation.MaxBytes(maxPasswordBytes),
	}
}

func identityRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("identity is required"),
		appValidation.NotBlank,
		appValidation.Email,
		validation.RuneLength(1, maxIdentityLength).Error("identity must be at most 255 characters"),
	}
}
