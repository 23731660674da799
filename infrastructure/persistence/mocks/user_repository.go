package mocks

import (
	"context"
	"sort"
	"sync"

	"checkout/domain/shared"
	"checkout/domain/user"
)

// MockUserRepository in-memory customers and their address book
type MockUserRepository struct {
	mu        sync.RWMutex
	users     map[int64]*user.User
	addresses map[int64][]user.Address
	err       error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:     make(map[int64]*user.User),
		addresses: make(map[int64][]user.Address),
	}
}

func (r *MockUserRepository) AddUser(dto user.ReconstructionDTO) *user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := user.RebuildFromDTO(dto)
	r.users[dto.ID] = u
	return u
}

func (r *MockUserRepository) AddAddress(dto user.AddressDTO) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses[dto.UserID] = append(r.addresses[dto.UserID], user.RebuildAddress(dto))
}

// FailWith makes every lookup return err until it is cleared with nil.
func (r *MockUserRepository) FailWith(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

func (r *MockUserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, user.NewUserNotFoundError(id)
	}
	return u, nil
}

func (r *MockUserRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[int64]*user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *MockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.users[id]
	return ok, nil
}

func (r *MockUserRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*user.User]) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*user.User
	for _, u := range r.users {
		if spec == nil || spec.IsSatisfiedBy(ctx, u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// ListByUser newest address first, like the MySQL repository.
func (r *MockUserRepository) ListByUser(ctx context.Context, userID int64) ([]user.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	list := r.addresses[userID]
	out := make([]user.Address, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

var (
	_ user.Repository        = (*MockUserRepository)(nil)
	_ user.AddressRepository = (*MockUserRepository)(nil)
)
