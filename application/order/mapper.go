package order

import (
	"checkout/domain/cart"
	"checkout/domain/order"
	"checkout/domain/shared"
	"checkout/domain/user"
)

func toLineRequests(lines []cart.Line) []order.LineRequest {
	requests := make([]order.LineRequest, len(lines))
	for i, l := range lines {
		requests[i] = order.LineRequest{
			ProductID:    l.ProductID,
			SizeID:       l.SizeID,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			UnitDiscount: l.UnitDiscount,
		}
	}
	return requests
}

func toMoneyResponse(m shared.Money) MoneyResponse {
	return MoneyResponse{Amount: m.Amount(), Currency: m.Currency(), Major: m.Major()}
}

func toOrderResponse(o *order.Order) OrderResponse {
	items := o.Items()
	itemResponses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = OrderItemResponse{
			ProductID:    item.ProductID(),
			SizeID:       item.SizeID(),
			Quantity:     item.Quantity(),
			UnitPrice:    toMoneyResponse(item.UnitPrice()),
			UnitDiscount: toMoneyResponse(item.UnitDiscount()),
			Tax:          toMoneyResponse(item.Tax()),
		}
	}

	return OrderResponse{
		ID:                 o.ID(),
		OrderNo:            o.OrderNo(),
		UserID:             o.UserID(),
		OrderTotal:         toMoneyResponse(o.Total()),
		Discount:           toMoneyResponse(o.Discount()),
		DiscountType:       string(o.DiscountType()),
		BillingName:        o.Billing().Name(),
		BillingAddress:     o.Billing().Address(),
		BillingMobile:      o.Billing().Mobile(),
		ShippingName:       o.Shipping().Name(),
		ShippingAddress:    o.Shipping().Address(),
		ShippingMobile:     o.Shipping().Mobile(),
		AdditionalComments: o.AdditionalComments(),
		OrderStatus:        string(o.Status()),
		GatewayOrderID:     o.GatewayOrderID(),
		PaymentID:          o.PaymentID(),
		CreatedDate:        o.CreatedAt(),
		LastUpdate:         o.LastUpdate(),
		CompletedTime:      o.CompletedTime(),
		Items:              itemResponses,
	}
}

func toLineResponses(details []order.LineDetail) []OrderLineResponse {
	out := make([]OrderLineResponse, len(details))
	for i, d := range details {
		subtotal, err := d.UnitPrice.Multiply(d.Quantity)
		if err != nil {
			subtotal = shared.Zero(d.UnitPrice.Currency())
		}
		out[i] = OrderLineResponse{
			ProductID:    d.ProductID,
			ProductName:  d.ProductName,
			SizeID:       d.SizeID,
			SizeLabel:    d.SizeLabel,
			Quantity:     d.Quantity,
			Price:        toMoneyResponse(d.UnitPrice),
			Discount:     toMoneyResponse(d.UnitDiscount),
			Tax:          toMoneyResponse(d.Tax),
			LineSubtotal: toMoneyResponse(subtotal),
		}
	}
	return out
}

func toCustomerResponse(u *user.User) *CustomerResponse {
	if u == nil {
		return nil
	}
	return &CustomerResponse{
		ID:        u.ID(),
		Name:      u.Name(),
		Phone:     u.Phone().Value(),
		Email:     u.Email().Value(),
		LoginType: u.LoginType(),
	}
}

func toAddressResponse(a user.Address) AddressResponse {
	return AddressResponse{
		ShippingName:    a.Name(),
		ShippingAddress: a.FormatLine(),
		ShippingNumber:  a.Phone(),
	}
}
