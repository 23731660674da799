package mysql

import (
	"checkout/domain/order"
	"checkout/domain/shared"
	"checkout/domain/user"

	"gorm.io/gorm"
)

// orderScope turns an order specification into a WHERE clause on orders.
// Unknown specification types leave the query untouched.
func orderScope(db *gorm.DB, spec shared.Specification[*order.Order]) *gorm.DB {
	if spec == nil {
		return db
	}
	switch s := spec.(type) {
	case shared.AndSpecification[*order.Order]:
		return orderScope(orderScope(db, s.Left), s.Right)
	case shared.OrSpecification[*order.Order]:
		left := orderScope(db.Session(&gorm.Session{NewDB: true}), s.Left)
		right := orderScope(db.Session(&gorm.Session{NewDB: true}), s.Right)
		return db.Where(left.Or(right))
	case shared.NotSpecification[*order.Order]:
		return db.Not(orderScope(db.Session(&gorm.Session{NewDB: true}), s.Spec))
	case order.ByUserIDSpecification:
		return db.Where("orders.user_id = ?", s.UserID)
	case order.ByStatusSpecification:
		return db.Where("orders.order_status = ?", string(s.Status))
	case order.OrderNoContainsSpecification:
		return db.Where("orders.order_no LIKE ?", "%"+s.Fragment+"%")
	case order.CreatedBetweenSpecification:
		if !s.Start.IsZero() {
			db = db.Where("orders.created_date >= ?", s.Start)
		}
		if !s.End.IsZero() {
			db = db.Where("orders.created_date <= ?", s.End)
		}
		return db
	default:
		return db
	}
}

// userScope is the users table counterpart of orderScope.
func userScope(db *gorm.DB, spec shared.Specification[*user.User]) *gorm.DB {
	if spec == nil {
		return db
	}
	switch s := spec.(type) {
	case shared.AndSpecification[*user.User]:
		return userScope(userScope(db, s.Left), s.Right)
	case shared.OrSpecification[*user.User]:
		left := userScope(db.Session(&gorm.Session{NewDB: true}), s.Left)
		right := userScope(db.Session(&gorm.Session{NewDB: true}), s.Right)
		return db.Where(left.Or(right))
	case shared.NotSpecification[*user.User]:
		return db.Not(userScope(db.Session(&gorm.Session{NewDB: true}), s.Spec))
	case user.NameContainsSpecification:
		return db.Where("users.name LIKE ?", "%"+s.Fragment+"%")
	case user.PhoneContainsSpecification:
		return db.Where("users.phone LIKE ?", "%"+s.Fragment+"%")
	case user.ByStatusSpecification:
		return db.Where("users.is_active = ?", s.Active)
	default:
		return db
	}
}
