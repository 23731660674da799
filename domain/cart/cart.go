/*
Package cart is the read side of the customer's cart as seen by checkout.

Cart lines are owned by the cart service; checkout only snapshots them,
clears them after payment and reassigns anonymous lines on login.
*/
package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"checkout/domain/shared"
)

var ErrDeviceIDRequired = errors.New("device id is required")

// Line is one cart row with the product price and per-unit discount at the
// time it is read.
type Line struct {
	ID           int64
	UserID       int64
	DeviceID     string
	ProductID    int64
	ProductName  string
	SizeID       int64
	SizeLabel    string
	Quantity     int
	UnitPrice    shared.Money
	UnitDiscount shared.Money
	AddedOn      time.Time
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() (shared.Money, error) {
	return l.UnitPrice.Multiply(l.Quantity)
}

// Total sums the subtotals of lines.
func Total(lines []Line, currency string) (shared.Money, error) {
	total := shared.Zero(currency)
	for _, l := range lines {
		sub, err := l.Subtotal()
		if err != nil {
			return shared.Money{}, err
		}
		if total, err = total.Add(sub); err != nil {
			return shared.Money{}, err
		}
	}
	return total, nil
}

// Repository cart rows consumed by checkout
type Repository interface {
	// ItemsByUser returns the user's current cart, oldest first.
	ItemsByUser(ctx context.Context, userID int64) ([]Line, error)

	// DeleteAllByUser clears the cart. Lines are removed, never decremented.
	DeleteAllByUser(ctx context.Context, userID int64) error

	// TransferFromDevice assigns every unowned row of deviceID to userID.
	// Rows already claimed by a user are left alone and nothing is merged.
	// It reports whether at least one row moved.
	TransferFromDevice(ctx context.Context, deviceID string, userID int64) (bool, error)
}

// NormalizeDeviceID trims the anonymous device identifier and rejects blanks.
func NormalizeDeviceID(deviceID string) (string, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return "", shared.NewValidationError("cart", "device_id", ErrDeviceIDRequired.Error())
	}
	return deviceID, nil
}
