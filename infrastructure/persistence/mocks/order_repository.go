package mocks

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"checkout/domain/order"
	"checkout/domain/shared"
	"checkout/domain/user"
)

// MockOrderRepository in-memory order.Repository and order.QueryService.
// Orders are stored as copies so an aggregate changed without Save does not
// leak into the store.
type MockOrderRepository struct {
	mu       sync.RWMutex
	orders   map[int64]*order.Order
	nextID   int64
	users    *MockUserRepository
	products map[int64]string
	sizes    map[int64]string
	saveErrs []error
}

func NewMockOrderRepository(users *MockUserRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[int64]*order.Order),
		users:    users,
		products: make(map[int64]string),
		sizes:    make(map[int64]string),
	}
}

// AddProduct registers catalogue names used by LineDetails.
func (r *MockOrderRepository) AddProduct(id int64, name string) {
	r.mu.Lock()
	r.products[id] = name
	r.mu.Unlock()
}

func (r *MockOrderRepository) AddSize(id int64, label string) {
	r.mu.Lock()
	r.sizes[id] = label
	r.mu.Unlock()
}

// FailNextSaves queues errors returned by the next Save calls, one per call.
func (r *MockOrderRepository) FailNextSaves(errs ...error) {
	r.mu.Lock()
	r.saveErrs = append(r.saveErrs, errs...)
	r.mu.Unlock()
}

func (r *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.saveErrs) > 0 {
		err := r.saveErrs[0]
		r.saveErrs = r.saveErrs[1:]
		if err != nil {
			return err
		}
	}

	if o.IsNew() {
		r.nextID++
		if err := o.AssignIdentity(r.nextID); err != nil {
			return err
		}
		o.MarkPersisted()
		r.orders[o.ID()] = clone(o)
		return nil
	}

	stored, ok := r.orders[o.ID()]
	if !ok {
		return order.NewOrderNotFoundError(o.IDString())
	}
	if stored.Version() != o.Version() {
		return order.NewConcurrentModificationError(o.IDString())
	}
	o.IncrementVersionForSave()
	r.orders[o.ID()] = clone(o)
	return nil
}

func (r *MockOrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.NewOrderNotFoundError(strconv.FormatInt(id, 10))
	}
	return clone(o), nil
}

func (r *MockOrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*order.Order
	for _, o := range r.orders {
		if spec == nil || spec.IsSatisfiedBy(ctx, o) {
			out = append(out, clone(o))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MockOrderRepository) Search(ctx context.Context, c order.SearchCriteria) ([]*order.Order, int64, error) {
	var spec shared.Specification[*order.Order]
	if c.UserID > 0 {
		spec = order.NewByUserIDSpecification(c.UserID)
		if c.Query != "" {
			spec = shared.And(spec, order.NewOrderNoContainsSpecification(c.Query))
		}
	} else if c.Query != "" {
		spec = order.NewOrderNoContainsSpecification(c.Query)
		if r.users != nil {
			customers, err := r.users.FindBySpecification(ctx, user.NewCustomerSearchSpecification(c.Query))
			if err != nil {
				return nil, 0, err
			}
			for _, u := range customers {
				spec = shared.Or(spec, order.NewByUserIDSpecification(u.ID()))
			}
		}
	}

	matched, err := r.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(matched))
	start := c.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if c.PageSize > 0 && start+c.PageSize < end {
		end = start + c.PageSize
	}
	return matched[start:end], total, nil
}

func (r *MockOrderRepository) LineDetails(ctx context.Context, orderID int64) ([]order.LineDetail, error) {
	o, err := r.FindByID(ctx, orderID)
	if errors.Is(err, order.ErrOrderNotFound) {
		return []order.LineDetail{}, nil
	}
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	items := o.Items()
	details := make([]order.LineDetail, len(items))
	for i, item := range items {
		details[i] = order.LineDetail{
			ProductID:    item.ProductID(),
			ProductName:  r.products[item.ProductID()],
			SizeID:       item.SizeID(),
			SizeLabel:    r.sizes[item.SizeID()],
			Quantity:     item.Quantity(),
			UnitPrice:    item.UnitPrice(),
			UnitDiscount: item.UnitDiscount(),
			Tax:          item.Tax(),
		}
	}
	return details, nil
}

func (r *MockOrderRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	matched, err := r.FindBySpecification(ctx, order.NewCreatedBetweenSpecification(since, time.Time{}))
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r *MockOrderRepository) CountPerDay(ctx context.Context, start, end time.Time) ([]order.DailyCount, error) {
	matched, err := r.FindBySpecification(ctx, order.NewCreatedBetweenSpecification(start, end))
	if err != nil {
		return nil, err
	}

	perDay := make(map[string]int64)
	for _, o := range matched {
		perDay[o.CreatedAt().Format("2006-01-02")]++
	}
	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)

	counts := make([]order.DailyCount, len(days))
	for i, d := range days {
		counts[i] = order.DailyCount{Date: d, Count: perDay[d]}
	}
	return counts, nil
}

func sortNewestFirst(orders []*order.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].CreatedAt().After(orders[j].CreatedAt())
		}
		return orders[i].ID() > orders[j].ID()
	})
}

func clone(o *order.Order) *order.Order {
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:                 o.ID(),
		OrderNo:            o.OrderNo(),
		UserID:             o.UserID(),
		Total:              o.Total(),
		Discount:           o.Discount(),
		DiscountType:       o.DiscountType(),
		Billing:            o.Billing(),
		Shipping:           o.Shipping(),
		AdditionalComments: o.AdditionalComments(),
		Status:             o.Status(),
		GatewayOrderID:     o.GatewayOrderID(),
		PaymentID:          o.PaymentID(),
		CreatedAt:          o.CreatedAt(),
		LastUpdate:         o.LastUpdate(),
		CompletedTime:      o.CompletedTime(),
		Items:              o.Items(),
		Version:            o.Version(),
	})
}

var (
	_ order.Repository   = (*MockOrderRepository)(nil)
	_ order.QueryService = (*MockOrderRepository)(nil)
)
