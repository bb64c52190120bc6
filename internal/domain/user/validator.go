package user

import (
	"fmt"
	"strings"
)

const (
	minPasswordLen = 8
	maxEmailLen    = 254
)

type Validator struct{}

func NewValidator() Validator {
	return Validator{}
}

func (Validator) ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > maxEmailLen {
		return fmt.Errorf("email must be at most %d characters", maxEmailLen)
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("email must contain a user and a host part")
	}
	return nil
}

func (v Validator) ValidateRegister(email, password string) error {
	if err := v.ValidateEmail(email); err != nil {
		return err
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return nil
}
