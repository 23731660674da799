package cart

import "time"

type TransferCartRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
}

// TransferCartResponse Transferred is false when the device had no unclaimed rows.
type TransferCartResponse struct {
	Status      bool `json:"status"`
	Transferred bool `json:"transferred"`
}

type MoneyResponse struct {
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	Major    float64 `json:"major"`
}

type CartItemResponse struct {
	ID          int64         `json:"id"`
	ProductID   int64         `json:"productId"`
	ProductName string        `json:"productName"`
	SizeID      int64         `json:"sizeId"`
	SizeLabel   string        `json:"size"`
	Quantity    int           `json:"quantity"`
	UnitPrice   MoneyResponse `json:"unitPrice"`
	Subtotal    MoneyResponse `json:"subtotal"`
	AddedOn     time.Time     `json:"addedOn"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total MoneyResponse      `json:"total"`
}
