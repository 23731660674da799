package user

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// Email value object. The zero value means the customer gave no email.
type Email struct {
	value string
}

func NewEmail(email string) (Email, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegex.MatchString(email) {
		return Email{}, NewInvalidEmailError(email)
	}
	return Email{value: email}, nil
}

func (e Email) Value() string  { return e.value }
func (e Email) String() string { return e.value }
func (e Email) IsZero() bool   { return e.value == "" }

func (e Email) Equals(other interface{}) bool {
	o, ok := other.(Email)
	return ok && e.value == o.value
}

// Phone login phone number, digits with optional leading +
type Phone struct {
	value string
}

func NewPhone(phone string) (Phone, error) {
	phone = strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	if !phoneRegex.MatchString(phone) {
		return Phone{}, NewInvalidPhoneError(phone)
	}
	return Phone{value: phone}, nil
}

func (p Phone) Value() string  { return p.value }
func (p Phone) String() string { return p.value }

func (p Phone) Equals(other interface{}) bool {
	o, ok := other.(Phone)
	return ok && p.value == o.value
}
