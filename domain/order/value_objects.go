package order

import (
	"strings"

	"checkout/domain/shared"
)

// Contact is a name/address/phone snapshot copied onto the order at checkout.
// It does not reference the user's address book.
type Contact struct {
	name    string
	address string
	mobile  string
}

// NewContact validates and trims a contact snapshot. kind is "billing" or "shipping".
func NewContact(kind, name, address, mobile string) (Contact, error) {
	c := Contact{
		name:    strings.TrimSpace(name),
		address: strings.TrimSpace(address),
		mobile:  strings.TrimSpace(mobile),
	}
	if c.name == "" {
		return Contact{}, shared.NewValidationError("order", kind+"_name", kind+" name is required")
	}
	if c.address == "" {
		return Contact{}, shared.NewValidationError("order", kind+"_address", kind+" address is required")
	}
	if c.mobile == "" {
		return Contact{}, shared.NewValidationError("order", kind+"_mobile", kind+" mobile is required")
	}
	return c, nil
}

// RebuildContact is for the persistence layer; stored values are not revalidated.
func RebuildContact(name, address, mobile string) Contact {
	return Contact{name: name, address: address, mobile: mobile}
}

func (c Contact) Name() string    { return c.name }
func (c Contact) Address() string { return c.address }
func (c Contact) Mobile() string  { return c.mobile }

func (c Contact) Equals(other interface{}) bool {
	o, ok := other.(Contact)
	return ok && c == o
}

// DiscountType describes how the order discount was computed.
type DiscountType string

const (
	DiscountNone    DiscountType = ""
	DiscountFlat    DiscountType = "FLAT"
	DiscountPercent DiscountType = "PERCENT"
)
