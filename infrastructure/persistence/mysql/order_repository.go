package mysql

import (
	"context"
	"errors"
	"strconv"

	"checkout/domain/order"
	"checkout/domain/shared"
	"checkout/infrastructure/persistence"
	"checkout/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OrderRepository MySQL/GORM implementation of order.Repository.
// GORM associations are not used; line items are written and read by hand
// so the aggregate boundary stays explicit.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save inserts or updates o. Inside UoW.Execute it joins the context
// transaction, otherwise it opens its own.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, o)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o)
	})
}

func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order) error {
	if o.IsNew() {
		return r.insert(tx, o)
	}
	return r.update(tx, o)
}

// insert writes the order with the bare series as its number, then rewrites
// order_no once the auto-increment id is known.
func (r *OrderRepository) insert(tx *gorm.DB, o *order.Order) error {
	orderPO, _ := po.FromOrderDomain(o)
	orderPO.ID = 0
	if err := tx.Create(orderPO).Error; err != nil {
		return err
	}

	if err := o.AssignIdentity(orderPO.ID); err != nil {
		return err
	}

	if err := tx.Model(&po.OrderPO{}).
		Where("id = ?", orderPO.ID).
		Update("order_no", o.OrderNo()).Error; err != nil {
		return err
	}

	_, lines := po.FromOrderDomain(o)
	if len(lines) > 0 {
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
	}

	o.MarkPersisted()
	return nil
}

// update persists the mutable status columns under optimistic locking.
// Totals and line items never change after checkout.
func (r *OrderRepository) update(tx *gorm.DB, o *order.Order) error {
	expectedVersion := o.Version()
	result := tx.Model(&po.OrderPO{}).
		Where("id = ? AND version = ?", o.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"order_status":     string(o.Status()),
			"gateway_order_id": o.GatewayOrderID(),
			"payment_id":       o.PaymentID(),
			"last_update":      o.LastUpdate(),
			"completed_time":   o.CompletedTime(),
			"version":          expectedVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return order.NewOrderNotFoundError(o.IDString())
		}
		return order.NewConcurrentModificationError(o.IDString())
	}

	o.IncrementVersionForSave()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	db := r.getDB(ctx)
	var orderPO po.OrderPO

	result := db.First(&orderPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(strconv.FormatInt(id, 10))
		}
		return nil, result.Error
	}

	var lines []po.OrderProductPO
	if err := db.Where("order_id = ?", id).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}

	return orderPO.ToDomain(lines), nil
}

func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	db := r.getDB(ctx)
	var orderPOs []po.OrderPO
	if err := orderScope(db.Model(&po.OrderPO{}), spec).
		Order("orders.created_date DESC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.withLines(db, orderPOs)
}

// withLines loads the line items of every order in one query.
func (r *OrderRepository) withLines(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]int64, len(orderPOs))
	for i, p := range orderPOs {
		ids[i] = p.ID
	}

	var lines []po.OrderProductPO
	if err := db.Where("order_id IN ?", ids).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]po.OrderProductPO, len(orderPOs))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(byOrder[orderPOs[i].ID])
	}
	return orders, nil
}

var _ order.Repository = (*OrderRepository)(nil)
