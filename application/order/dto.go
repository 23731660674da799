package order

import (
	"time"

	"checkout/domain/payment"
)

// CreateOrderRequest checkout form. Strings are trimmed and stripped of
// markup before they reach the domain.
type CreateOrderRequest struct {
	BillingName        string `json:"billing_name" binding:"required"`
	BillingAddress     string `json:"billing_address" binding:"required"`
	BillingMobile      string `json:"billing_mobile" binding:"required"`
	ShippingName       string `json:"shipping_name" binding:"required"`
	ShippingAddress    string `json:"shipping_address" binding:"required"`
	ShippingMobile     string `json:"shipping_mobile" binding:"required"`
	AdditionalComments string `json:"additional_comments"`
}

type CreateOrderResponse struct {
	ID              int64                 `json:"id"`
	OrderNo         string                `json:"orderNo"`
	GatewayResponse *payment.GatewayOrder `json:"gatewayResponse"`
	Status          bool                  `json:"status"`
}

// ConfirmPaymentRequest the signed payload returned by the gateway widget.
type ConfirmPaymentRequest struct {
	ID              int64  `json:"id" binding:"required,gt=0"`
	OrderCreationID string `json:"order_creation_id" binding:"required"`
	PaymentID       string `json:"payment_id" binding:"required"`
	GatewayOrderID  string `json:"gateway_order_id" binding:"required"`
	Signature       string `json:"signature" binding:"required"`
}

type ChangeOrderStatusRequest struct {
	ID     int64  `json:"id" binding:"required,gt=0"`
	Status string `json:"status" binding:"required"`
}

type StatusResponse struct {
	Status bool `json:"status"`
}

type MoneyResponse struct {
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	Major    float64 `json:"major"`
}

type OrderItemResponse struct {
	ProductID    int64         `json:"productId"`
	SizeID       int64         `json:"sizeId"`
	Quantity     int           `json:"quantity"`
	UnitPrice    MoneyResponse `json:"unitPrice"`
	UnitDiscount MoneyResponse `json:"unitDiscount"`
	Tax          MoneyResponse `json:"tax"`
}

type OrderResponse struct {
	ID                 int64               `json:"id"`
	OrderNo            string              `json:"orderNo"`
	UserID             int64               `json:"userId"`
	OrderTotal         MoneyResponse       `json:"orderTotal"`
	Discount           MoneyResponse       `json:"discount"`
	DiscountType       string              `json:"discountType"`
	BillingName        string              `json:"billingName"`
	BillingAddress     string              `json:"billingAddress"`
	BillingMobile      string              `json:"billingMobile"`
	ShippingName       string              `json:"shippingName"`
	ShippingAddress    string              `json:"shippingAddress"`
	ShippingMobile     string              `json:"shippingMobile"`
	AdditionalComments string              `json:"additionalComments"`
	OrderStatus        string              `json:"orderStatus"`
	GatewayOrderID     string              `json:"gatewayOrderId,omitempty"`
	PaymentID          string              `json:"paymentId,omitempty"`
	CreatedDate        time.Time           `json:"createdDate"`
	LastUpdate         time.Time           `json:"lastUpdate"`
	CompletedTime      *time.Time          `json:"completedTime"`
	Items              []OrderItemResponse `json:"items"`
}

// OrderLineResponse line item with catalogue names for the detail page
type OrderLineResponse struct {
	ProductID    int64         `json:"productId"`
	ProductName  string        `json:"productName"`
	SizeID       int64         `json:"sizeId"`
	SizeLabel    string        `json:"size"`
	Quantity     int           `json:"qty"`
	Price        MoneyResponse `json:"price"`
	Discount     MoneyResponse `json:"productDiscount"`
	Tax          MoneyResponse `json:"taxInfo"`
	LineSubtotal MoneyResponse `json:"subtotal"`
}

type CustomerResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	LoginType string `json:"loginType,omitempty"`
}

type OrderDetailResponse struct {
	Order    OrderResponse       `json:"order"`
	Products []OrderLineResponse `json:"products"`
	Customer *CustomerResponse   `json:"customer"`
}

// PageResponse paginated listing envelope
type PageResponse[T any] struct {
	TotalCount  int64 `json:"totalCount"`
	PerPage     int   `json:"perPage"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Data        []T   `json:"data"`
}

type AddressResponse struct {
	ShippingName    string `json:"shippingName"`
	ShippingAddress string `json:"shippingAddress"`
	ShippingNumber  string `json:"shippingNumber"`
}

type DailyCountResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	Month int64                `json:"month"`
	Week  int64                `json:"week"`
	Today int64                `json:"today"`
	Total int64                `json:"total"`
	Stats []DailyCountResponse `json:"stats"`
}
