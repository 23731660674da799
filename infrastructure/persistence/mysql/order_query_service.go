package mysql

import (
	"context"
	"time"

	"checkout/domain/order"
	"checkout/domain/shared"
	"checkout/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OrderQueryService read side for listings, detail pages and stats
type OrderQueryService struct {
	repo *OrderRepository
}

func NewOrderQueryService(repo *OrderRepository) *OrderQueryService {
	return &OrderQueryService{repo: repo}
}

// Search customers see their own orders filtered by order number; an
// administrative search (UserID zero) also matches customer name and phone.
func (q *OrderQueryService) Search(ctx context.Context, c order.SearchCriteria) ([]*order.Order, int64, error) {
	db := q.repo.getDB(ctx)
	query := db.Model(&po.OrderPO{})

	if c.UserID > 0 {
		query = orderScope(query, order.NewByUserIDSpecification(c.UserID))
		if c.Query != "" {
			query = orderScope(query, order.NewOrderNoContainsSpecification(c.Query))
		}
	} else if c.Query != "" {
		like := "%" + c.Query + "%"
		query = query.Joins("LEFT JOIN users ON users.id = orders.user_id").
			Where("orders.order_no = ? OR orders.order_no LIKE ? OR users.name LIKE ? OR users.phone LIKE ?",
				c.Query, like, like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orderPOs []po.OrderPO
	if err := query.Select("orders.*").
		Order("orders.created_date DESC").
		Order("orders.id DESC").
		Offset(c.Offset()).
		Limit(c.PageSize).
		Find(&orderPOs).Error; err != nil {
		return nil, 0, err
	}

	orders, err := q.repo.withLines(db, orderPOs)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (q *OrderQueryService) LineDetails(ctx context.Context, orderID int64) ([]order.LineDetail, error) {
	var rows []po.OrderLineRow
	err := q.repo.getDB(ctx).
		Table("order_products AS op").
		Select("op.product_id, p.name AS product_name, op.size_id, s.name AS size_label, op.qty, op.price, op.product_discount, op.tax_info").
		Joins("LEFT JOIN products p ON p.id = op.product_id").
		Joins("LEFT JOIN sizes s ON s.id = op.size_id").
		Where("op.order_id = ?", orderID).
		Order("op.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	details := make([]order.LineDetail, len(rows))
	for i, r := range rows {
		details[i] = order.LineDetail{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			SizeID:       r.SizeID,
			SizeLabel:    r.SizeLabel,
			Quantity:     r.Qty,
			UnitPrice:    shared.NewMoney(r.Price, shared.DefaultCurrency),
			UnitDiscount: shared.NewMoney(r.ProductDiscount, shared.DefaultCurrency),
			Tax:          shared.NewMoney(r.TaxInfo, shared.DefaultCurrency),
		}
	}
	return details, nil
}

func (q *OrderQueryService) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	query := q.repo.getDB(ctx).Model(&po.OrderPO{})
	if !since.IsZero() {
		query = orderScope(query, order.NewCreatedBetweenSpecification(since, time.Time{}))
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (q *OrderQueryService) CountPerDay(ctx context.Context, start, end time.Time) ([]order.DailyCount, error) {
	type row struct {
		Day   string
		Count int64
	}
	var rows []row
	err := orderScope(q.repo.getDB(ctx).Model(&po.OrderPO{}), order.NewCreatedBetweenSpecification(start, end)).
		Select("DATE_FORMAT(orders.created_date, '%Y-%m-%d') AS day, COUNT(*) AS count").
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make([]order.DailyCount, len(rows))
	for i, r := range rows {
		counts[i] = order.DailyCount{Date: r.Day, Count: r.Count}
	}
	return counts, nil
}

var _ order.QueryService = (*OrderQueryService)(nil)
