package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"checkout/domain/order"
	"checkout/domain/user"
)

// GetOrders lists orders newest first. userID zero is the admin listing.
func (s *ApplicationService) GetOrders(ctx context.Context, query string, page int, userID int64) (*PageResponse[OrderResponse], error) {
	if page < 1 {
		page = 1
	}
	orders, total, err := s.queries.Search(ctx, order.SearchCriteria{
		UserID:   userID,
		Query:    strings.TrimSpace(query),
		Page:     page,
		PageSize: s.perPage,
	})
	if err != nil {
		return nil, err
	}

	data := make([]OrderResponse, len(orders))
	for i, o := range orders {
		data[i] = toOrderResponse(o)
	}
	return &PageResponse[OrderResponse]{
		TotalCount:  total,
		PerPage:     s.perPage,
		TotalPages:  int((total + int64(s.perPage) - 1) / int64(s.perPage)),
		CurrentPage: page,
		Data:        data,
	}, nil
}

// GetOrder returns an order with its products and customer. A non-zero
// userID must own the order.
func (s *ApplicationService) GetOrder(ctx context.Context, orderID, userID int64) (*OrderDetailResponse, error) {
	var (
		o   *order.Order
		err error
	)
	if userID > 0 {
		o, err = s.domainService.OwnedOrder(ctx, orderID, userID)
	} else {
		o, err = s.orderRepo.FindByID(ctx, orderID)
	}
	if err != nil {
		return nil, err
	}

	details, err := s.queries.LineDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}

	customer, err := s.userRepo.FindByID(ctx, o.UserID())
	if err != nil && !isUserNotFound(err) {
		return nil, err
	}

	return &OrderDetailResponse{
		Order:    toOrderResponse(o),
		Products: toLineResponses(details),
		Customer: toCustomerResponse(customer),
	}, nil
}

func isUserNotFound(err error) bool {
	return errors.Is(err, user.ErrUserNotFound)
}

func (s *ApplicationService) GetPreviousAddress(ctx context.Context, userID int64) ([]AddressResponse, error) {
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]AddressResponse, len(addresses))
	for i, a := range addresses {
		out[i] = toAddressResponse(a)
	}
	return out, nil
}

// GetStats counts orders since the start of the month, since Monday 00:00,
// since today 00:00 and overall, plus per-day counts in [start, end].
func (s *ApplicationService) GetStats(ctx context.Context, start, end time.Time) (*StatsResponse, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))

	month, err := s.queries.CountCreatedSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	week, err := s.queries.CountCreatedSince(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	todayCount, err := s.queries.CountCreatedSince(ctx, today)
	if err != nil {
		return nil, err
	}
	total, err := s.queries.CountCreatedSince(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	perDay, err := s.queries.CountPerDay(ctx, start, end)
	if err != nil {
		return nil, err
	}

	stats := make([]DailyCountResponse, len(perDay))
	for i, d := range perDay {
		stats[i] = DailyCountResponse{Date: d.Date, Count: d.Count}
	}
	return &StatsResponse{Month: month, Week: week, Today: todayCount, Total: total, Stats: stats}, nil
}
