// Package businessflow contains the core business logic and use cases for account and website workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Account-related errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidBusinessType = errors.New("invalid business type")
	ErrPasswordMismatch    = errors.New("password confirmation does not match")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Website setup errors
	ErrSetupNotFound      = errors.New("website setup not found")
	ErrSubdomainTaken     = errors.New("subdomain already taken")
	ErrSetupUpdateEmpty   = errors.New("at least one field must be provided for update")
	ErrTemplateOutOfRange = errors.New("template id is out of range")

	// Business info errors
	ErrBusinessInfoNotFound      = errors.New("business info not found")
	ErrBusinessInfoAlreadyExists = errors.New("business info already exists")
	ErrInvalidWorkingHours       = errors.New("invalid working hours")
	ErrInvalidCoordinates        = errors.New("invalid coordinates")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsAccountNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsInvalidBusinessType(err error) bool {
	return errors.Is(err, ErrInvalidBusinessType)
}

func IsPasswordMismatch(err error) bool {
	return errors.Is(err, ErrPasswordMismatch)
}

func IsInvalidRefreshToken(err error) bool {
	return errors.Is(err, ErrInvalidRefreshToken)
}

func IsSetupNotFound(err error) bool {
	return errors.Is(err, ErrSetupNotFound)
}

func IsSubdomainTaken(err error) bool {
	return errors.Is(err, ErrSubdomainTaken)
}

func IsSetupUpdateEmpty(err error) bool {
	return errors.Is(err, ErrSetupUpdateEmpty)
}

func IsTemplateOutOfRange(err error) bool {
	return errors.Is(err, ErrTemplateOutOfRange)
}

func IsBusinessInfoNotFound(err error) bool {
	return errors.Is(err, ErrBusinessInfoNotFound)
}

func IsBusinessInfoAlreadyExists(err error) bool {
	return errors.Is(err, ErrBusinessInfoAlreadyExists)
}

func IsInvalidWorkingHours(err error) bool {
	return errors.Is(err, ErrInvalidWorkingHours)
}

func IsInvalidCoordinates(err error) bool {
	return errors.Is(err, ErrInvalidCoordinates)
}
