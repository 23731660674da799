package order

import (
	"context"
	"time"

	"checkout/domain/shared"
)

// Repository Order repository interface
type Repository interface {
	// Save inserts a new order with its line items, or updates status fields of
	// an existing one under optimistic locking. On insert the repository calls
	// AssignIdentity and persists the final order number in the same transaction.
	Save(ctx context.Context, order *Order) error

	// FindByID returns ErrOrderNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*Order, error)

	// FindBySpecification loads every order matching spec
	FindBySpecification(ctx context.Context, spec shared.Specification[*Order]) ([]*Order, error)
}

// QueryService is the read side used by listings, detail pages and stats.
type QueryService interface {
	// Search returns one page of orders plus the total match count.
	Search(ctx context.Context, criteria SearchCriteria) ([]*Order, int64, error)

	// LineDetails returns line items joined with product name and size label.
	LineDetails(ctx context.Context, orderID int64) ([]LineDetail, error)

	// CountCreatedSince counts orders created at or after since; zero since counts all.
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)

	// CountPerDay returns one entry per calendar day with at least one order in [start, end].
	CountPerDay(ctx context.Context, start, end time.Time) ([]DailyCount, error)
}

// SearchCriteria paging and filters for order listings.
// UserID zero means an administrative search over every customer.
type SearchCriteria struct {
	UserID   int64
	Query    string
	Page     int
	PageSize int
}

// Offset is the row offset of the 1-based page.
func (c SearchCriteria) Offset() int {
	if c.Page <= 1 {
		return 0
	}
	return (c.Page - 1) * c.PageSize
}

// LineDetail is a line item enriched for display.
type LineDetail struct {
	ProductID    int64
	ProductName  string
	SizeID       int64
	SizeLabel    string
	Quantity     int
	UnitPrice    shared.Money
	UnitDiscount shared.Money
	Tax          shared.Money
}

// DailyCount orders created on Date (formatted YYYY-MM-DD).
type DailyCount struct {
	Date  string
	Count int64
}
