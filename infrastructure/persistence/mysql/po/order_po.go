package po

import (
	"time"

	"checkout/domain/order"
	"checkout/domain/shared"
)

// OrderPO row of the orders table. No GORM associations are declared.
// order_no is indexed but not unique: the placeholder series of two orders
// created in the same minute collide until the id suffix is written.
type OrderPO struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement"`
	OrderNo            string     `gorm:"column:order_no;size:32;index;not null"`
	UserID             int64      `gorm:"column:user_id;index;not null"`
	OrderTotal         int64      `gorm:"column:order_total;not null"`
	Currency           string     `gorm:"size:3;not null;default:INR"`
	Discount           int64      `gorm:"not null;default:0"`
	DiscountType       string     `gorm:"column:discount_type;size:16"`
	BillingName        string     `gorm:"column:billing_name;size:128;not null"`
	BillingAddress     string     `gorm:"column:billing_address;type:text;not null"`
	BillingMobile      string     `gorm:"column:billing_mobile;size:20;not null"`
	ShippingName       string     `gorm:"column:shipping_name;size:128;not null"`
	ShippingAddress    string     `gorm:"column:shipping_address;type:text;not null"`
	ShippingMobile     string     `gorm:"column:shipping_mobile;size:20;not null"`
	AdditionalComments string     `gorm:"column:additional_comments;type:text"`
	OrderStatus        string     `gorm:"column:order_status;size:20;index;not null"`
	GatewayOrderID     string     `gorm:"column:gateway_order_id;size:64;index"`
	PaymentID          string     `gorm:"column:payment_id;size:64"`
	CreatedDate        time.Time  `gorm:"column:created_date;index;not null"`
	LastUpdate         time.Time  `gorm:"column:last_update;not null"`
	CompletedTime      *time.Time `gorm:"column:completed_time"`
	Version            int        `gorm:"not null;default:0"`
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderProductPO row of order_products, written once at checkout
type OrderProductPO struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	OrderID         int64 `gorm:"column:order_id;index;not null"`
	ProductID       int64 `gorm:"column:product_id;not null"`
	SizeID          int64 `gorm:"column:size_id"`
	Qty             int   `gorm:"column:qty;not null"`
	Price           int64 `gorm:"column:price;not null"`
	ProductDiscount int64 `gorm:"column:product_discount;not null;default:0"`
	TaxInfo         int64 `gorm:"column:tax_info;not null;default:0"`
}

func (OrderProductPO) TableName() string {
	return "order_products"
}

// FromOrderDomain converts the aggregate. Line items carry OrderID zero
// until the order row has an id.
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderProductPO) {
	row := &OrderPO{
		ID:                 o.ID(),
		OrderNo:            o.OrderNo(),
		UserID:             o.UserID(),
		OrderTotal:         o.Total().Amount(),
		Currency:           o.Total().Currency(),
		Discount:           o.Discount().Amount(),
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
		Version:            o.Version(),
	}

	items := o.Items()
	lines := make([]OrderProductPO, len(items))
	for i, item := range items {
		lines[i] = OrderProductPO{
			OrderID:         o.ID(),
			ProductID:       item.ProductID(),
			SizeID:          item.SizeID(),
			Qty:             item.Quantity(),
			Price:           item.UnitPrice().Amount(),
			ProductDiscount: item.UnitDiscount().Amount(),
			TaxInfo:         item.Tax().Amount(),
		}
	}
	return row, lines
}

// ToDomain rebuilds the aggregate from its rows
func (p *OrderPO) ToDomain(lines []OrderProductPO) *order.Order {
	items := make([]order.OrderProduct, len(lines))
	for i, l := range lines {
		items[i] = order.RebuildProductFromDTO(order.ProductReconstructionDTO{
			ProductID:    l.ProductID,
			SizeID:       l.SizeID,
			Quantity:     l.Qty,
			UnitPrice:    shared.NewMoney(l.Price, p.Currency),
			UnitDiscount: shared.NewMoney(l.ProductDiscount, p.Currency),
			Tax:          shared.NewMoney(l.TaxInfo, p.Currency),
		})
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:                 p.ID,
		OrderNo:            p.OrderNo,
		UserID:             p.UserID,
		Total:              shared.NewMoney(p.OrderTotal, p.Currency),
		Discount:           shared.NewMoney(p.Discount, p.Currency),
		DiscountType:       order.DiscountType(p.DiscountType),
		Billing:            order.RebuildContact(p.BillingName, p.BillingAddress, p.BillingMobile),
		Shipping:           order.RebuildContact(p.ShippingName, p.ShippingAddress, p.ShippingMobile),
		AdditionalComments: p.AdditionalComments,
		Status:             order.Status(p.OrderStatus),
		GatewayOrderID:     p.GatewayOrderID,
		PaymentID:          p.PaymentID,
		CreatedAt:          p.CreatedDate,
		LastUpdate:         p.LastUpdate,
		CompletedTime:      p.CompletedTime,
		Items:              items,
		Version:            p.Version,
	})
}
