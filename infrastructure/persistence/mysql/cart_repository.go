package mysql

import (
	"context"

	"checkout/domain/cart"
	"checkout/domain/shared"
	"checkout/infrastructure/persistence"
	"checkout/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// CartRepository reads and clears cart rows joined with catalogue prices.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// ItemsByUser catalogue prices and discounts are rupees; they are converted
// to paise once here.
func (r *CartRepository) ItemsByUser(ctx context.Context, userID int64) ([]cart.Line, error) {
	var rows []po.CartLineRow
	err := r.getDB(ctx).
		Table("cart AS c").
		Select("c.ID AS id, c.user_id, c.device_id, c.product_id, p.name AS product_name, c.size_id, s.name AS size_label, c.quantity, CAST(ROUND(p.price * 100) AS SIGNED) AS unit_price, CAST(ROUND(p.discount * 100) AS SIGNED) AS unit_discount, c.added_on").
		Joins("JOIN products p ON p.id = c.product_id").
		Joins("LEFT JOIN sizes s ON s.id = c.size_id").
		Where("c.user_id = ?", userID).
		Order("c.added_on ASC").
		Order("c.ID ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lines := make([]cart.Line, len(rows))
	for i, row := range rows {
		var owner int64
		if row.UserID != nil {
			owner = *row.UserID
		}
		lines[i] = cart.Line{
			ID:           row.ID,
			UserID:       owner,
			DeviceID:     row.DeviceID,
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			SizeID:       row.SizeID,
			SizeLabel:    row.SizeLabel,
			Quantity:     row.Quantity,
			UnitPrice:    shared.NewMoney(row.UnitPrice, shared.DefaultCurrency),
			UnitDiscount: shared.NewMoney(row.UnitDiscount, shared.DefaultCurrency),
			AddedOn:      row.AddedOn,
		}
	}
	return lines, nil
}

func (r *CartRepository) DeleteAllByUser(ctx context.Context, userID int64) error {
	return r.getDB(ctx).Where("user_id = ?", userID).Delete(&po.CartPO{}).Error
}

// TransferFromDevice only claims rows whose user_id is still NULL.
func (r *CartRepository) TransferFromDevice(ctx context.Context, deviceID string, userID int64) (bool, error) {
	result := r.getDB(ctx).
		Model(&po.CartPO{}).
		Where("device_id = ? AND user_id IS NULL", deviceID).
		Update("user_id", userID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var _ cart.Repository = (*CartRepository)(nil)
