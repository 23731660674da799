// Package cart is the checkout-facing side of the cart: the snapshot shown
// before checkout and the login-time transfer of an anonymous cart.
package cart

import (
	"context"

	"checkout/domain/cart"
	"checkout/domain/shared"
	"checkout/pkg/logger"

	"go.uber.org/zap"
)

type ApplicationService struct {
	cartRepo cart.Repository
	currency string
}

func NewApplicationService(cartRepo cart.Repository, currency string) *ApplicationService {
	if currency == "" {
		currency = shared.DefaultCurrency
	}
	return &ApplicationService{cartRepo: cartRepo, currency: currency}
}

// TransferCart claims the rows of an anonymous device cart for userID.
// Rows that already belong to a user are left alone and duplicates are not merged.
func (s *ApplicationService) TransferCart(ctx context.Context, userID int64, req TransferCartRequest) (*TransferCartResponse, error) {
	if userID <= 0 {
		return nil, shared.NewValidationError("cart", "user_id", "user is required")
	}
	deviceID, err := cart.NormalizeDeviceID(req.DeviceID)
	if err != nil {
		return nil, err
	}

	moved, err := s.cartRepo.TransferFromDevice(ctx, deviceID, userID)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Cart transferred",
		zap.Int64("user_id", userID),
		zap.String("device_id", deviceID),
		zap.Bool("moved", moved),
	)
	return &TransferCartResponse{Status: true, Transferred: moved}, nil
}

// GetCart returns the lines checkout would snapshot right now.
func (s *ApplicationService) GetCart(ctx context.Context, userID int64) (*CartResponse, error) {
	lines, err := s.cartRepo.ItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := cart.Total(lines, s.currency)
	if err != nil {
		return nil, err
	}

	items := make([]CartItemResponse, 0, len(lines))
	for _, l := range lines {
		subtotal, err := l.Subtotal()
		if err != nil {
			return nil, err
		}
		items = append(items, CartItemResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			SizeID:      l.SizeID,
			SizeLabel:   l.SizeLabel,
			Quantity:    l.Quantity,
			UnitPrice:   toMoneyResponse(l.UnitPrice),
			Subtotal:    toMoneyResponse(subtotal),
			AddedOn:     l.AddedOn,
		})
	}
	return &CartResponse{Items: items, Total: toMoneyResponse(total)}, nil
}

func toMoneyResponse(m shared.Money) MoneyResponse {
	return MoneyResponse{Amount: m.Amount(), Currency: m.Currency(), Major: m.Major()}
}
