package order

import "checkout/domain/shared"

// OrderProduct is a line item: one (order, product, size) row.
// Prices are snapshots taken at checkout and never change afterwards.
type OrderProduct struct {
	productID    int64
	sizeID       int64
	quantity     int
	unitPrice    shared.Money
	unitDiscount shared.Money
	tax          shared.Money
}

// LineRequest is one cart line turned into an order line.
type LineRequest struct {
	ProductID    int64
	SizeID       int64
	Quantity     int
	UnitPrice    shared.Money
	UnitDiscount shared.Money
	Tax          shared.Money
}

func newOrderProduct(req LineRequest) (OrderProduct, error) {
	if req.Quantity <= 0 {
		return OrderProduct{}, NewInvalidQuantityError(req.ProductID, req.Quantity)
	}
	if req.ProductID <= 0 {
		return OrderProduct{}, shared.NewValidationError("order", "product_id", "product reference is required")
	}
	currency := req.UnitPrice.Currency()
	return OrderProduct{
		productID:    req.ProductID,
		sizeID:       req.SizeID,
		quantity:     req.Quantity,
		unitPrice:    req.UnitPrice,
		unitDiscount: orZero(req.UnitDiscount, currency),
		tax:          orZero(req.Tax, currency),
	}, nil
}

func orZero(m shared.Money, currency string) shared.Money {
	if m.Currency() == "" {
		return shared.Zero(currency)
	}
	return m
}

// LineTotal is unit price times quantity.
func (p OrderProduct) LineTotal() (shared.Money, error) {
	return p.unitPrice.Multiply(p.quantity)
}

func (p OrderProduct) ProductID() int64           { return p.productID }
func (p OrderProduct) SizeID() int64              { return p.sizeID }
func (p OrderProduct) Quantity() int              { return p.quantity }
func (p OrderProduct) UnitPrice() shared.Money    { return p.unitPrice }
func (p OrderProduct) UnitDiscount() shared.Money { return p.unitDiscount }
func (p OrderProduct) Tax() shared.Money          { return p.tax }

// ProductReconstructionDTO rebuilds a stored line item.
type ProductReconstructionDTO struct {
	ProductID    int64
	SizeID       int64
	Quantity     int
	UnitPrice    shared.Money
	UnitDiscount shared.Money
	Tax          shared.Money
}

// RebuildProductFromDTO is for the persistence layer only.
func RebuildProductFromDTO(dto ProductReconstructionDTO) OrderProduct {
	return OrderProduct{
		productID:    dto.ProductID,
		sizeID:       dto.SizeID,
		quantity:     dto.Quantity,
		unitPrice:    dto.UnitPrice,
		unitDiscount: dto.UnitDiscount,
		tax:          dto.Tax,
	}
}
