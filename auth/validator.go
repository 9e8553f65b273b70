package auth

import (
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"

	"filedrop/errors"
)

var validate = validator.New()

type Credentials struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ValidateLogin only checks shape; existing accounts may predate the
// registration password policy.
func ValidateLogin(c Credentials) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidCredentials, err)
	}
	return nil
}

func ValidateRegister(c Credentials) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidCredentials, err)
	}
	if !hasLetterAndDigit(c.Password) {
		return fmt.Errorf("%w: password needs at least one letter and one digit", errors.ErrInvalidCredentials)
	}
	return nil
}

func hasLetterAndDigit(s string) bool {
	var hasLetter, hasDigit bool
	for _, char := range s {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
