/*
Package user defines customer lookup errors.
*/
package user

import (
	"errors"
	"strconv"

	"checkout/domain/shared"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidEmail = errors.New("invalid email format")
	ErrInvalidPhone = errors.New("invalid phone number")
)

func NewUserNotFoundError(userID int64) error {
	return &userDomainError{
		sentinel: ErrUserNotFound,
		kind:     shared.ErrNotFound,
		entity:   "user",
		message:  "user not found: " + strconv.FormatInt(userID, 10),
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidEmailError(email string) error {
	return &userDomainError{
		sentinel: ErrInvalidEmail,
		kind:     shared.ErrInvalidInput,
		entity:   "user",
		field:    "email",
		message:  "invalid email format: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidPhoneError(phone string) error {
	return &userDomainError{
		sentinel: ErrInvalidPhone,
		kind:     shared.ErrInvalidInput,
		entity:   "user",
		field:    "phone",
		message:  "invalid phone number: " + phone,
		stack:    shared.CaptureStack(3),
	}
}

type userDomainError struct {
	sentinel error
	kind     error
	entity   string
	field    string
	message  string
	stack    []uintptr
}

func (e *userDomainError) Error() string   { return e.message }
func (e *userDomainError) Unwrap() []error { return []error{e.sentinel, e.kind} }
func (e *userDomainError) Stack() []string { return shared.FormatStack(e.stack) }
