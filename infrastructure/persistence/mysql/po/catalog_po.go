package po

import "time"

// CartPO row of the cart table. UserID is NULL for anonymous device carts.
type CartPO struct {
	ID        int64     `gorm:"column:ID;primaryKey;autoIncrement"`
	UserID    *int64    `gorm:"column:user_id;index"`
	DeviceID  string    `gorm:"column:device_id;size:128;index"`
	ProductID int64     `gorm:"column:product_id;not null"`
	SizeID    int64     `gorm:"column:size_id"`
	Quantity  int       `gorm:"column:quantity;not null"`
	AddedOn   time.Time `gorm:"column:added_on;autoCreateTime"`
}

func (CartPO) TableName() string {
	return "cart"
}

// ProductPO the catalogue columns checkout reads. Price and the per-unit
// discount are rupees.
type ProductPO struct {
	ID       int64   `gorm:"primaryKey;autoIncrement"`
	Name     string  `gorm:"size:255;not null"`
	Price    float64 `gorm:"type:decimal(10,2);not null"`
	Discount float64 `gorm:"not null;default:0"`
}

func (ProductPO) TableName() string {
	return "products"
}

// SizePO size option labels
type SizePO struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:64;not null"`
}

func (SizePO) TableName() string {
	return "sizes"
}

// CartLineRow is the result of the cart/product/size join.
// UnitPrice and UnitDiscount are already converted to paise by the query.
type CartLineRow struct {
	ID           int64
	UserID       *int64
	DeviceID     string
	ProductID    int64
	ProductName  string
	SizeID       int64
	SizeLabel    string
	Quantity     int
	UnitPrice    int64
	UnitDiscount int64
	AddedOn      time.Time
}

// OrderLineRow is the result of the order_products/product/size join.
type OrderLineRow struct {
	ProductID       int64
	ProductName     string
	SizeID          int64
	SizeLabel       string
	Qty             int
	Price           int64
	ProductDiscount int64
	TaxInfo         int64
}
