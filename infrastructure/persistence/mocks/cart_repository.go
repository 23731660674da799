package mocks

import (
	"context"
	"sync"
	"time"

	"checkout/domain/cart"
	"checkout/domain/settings"
	"checkout/domain/shared"
)

// MockCartRepository in-memory cart rows. Lines are stored with UserID zero
// for anonymous device carts.
type MockCartRepository struct {
	mu        sync.Mutex
	lines     []cart.Line
	nextID    int64
	deleteErr error
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{}
}

// Add inserts a cart line and returns its id.
func (r *MockCartRepository) Add(line cart.Line) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	line.ID = r.nextID
	if line.AddedOn.IsZero() {
		line.AddedOn = time.Now()
	}
	if line.UnitPrice.Currency() == "" {
		line.UnitPrice = shared.NewMoney(line.UnitPrice.Amount(), shared.DefaultCurrency)
	}
	r.lines = append(r.lines, line)
	return line.ID
}

// FailDeleteWith makes DeleteAllByUser return err.
func (r *MockCartRepository) FailDeleteWith(err error) {
	r.mu.Lock()
	r.deleteErr = err
	r.mu.Unlock()
}

func (r *MockCartRepository) ItemsByUser(ctx context.Context, userID int64) ([]cart.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []cart.Line
	for _, l := range r.lines {
		if l.UserID == userID && userID > 0 {
			out = append(out, l)
		}
	}
	return out, nil
}

// DeviceLines is a test helper returning the rows of a device.
func (r *MockCartRepository) DeviceLines(deviceID string) []cart.Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []cart.Line
	for _, l := range r.lines {
		if l.DeviceID == deviceID {
			out = append(out, l)
		}
	}
	return out
}

func (r *MockCartRepository) DeleteAllByUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	kept := r.lines[:0]
	for _, l := range r.lines {
		if l.UserID != userID {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	return nil
}

func (r *MockCartRepository) TransferFromDevice(ctx context.Context, deviceID string, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := false
	for i := range r.lines {
		if r.lines[i].DeviceID == deviceID && r.lines[i].UserID == 0 {
			r.lines[i].UserID = userID
			moved = true
		}
	}
	return moved, nil
}

var _ cart.Repository = (*MockCartRepository)(nil)

// MockSettingsRepository holds one settings value.
type MockSettingsRepository struct {
	mu       sync.Mutex
	settings settings.Settings
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{settings: settings.Default()}
}

func (r *MockSettingsRepository) SetAllowCheckout(allow bool) {
	r.mu.Lock()
	r.settings.AllowCheckout = allow
	r.settings.UpdatedAt = time.Now()
	r.mu.Unlock()
}

func (r *MockSettingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings, nil
}

var _ settings.Repository = (*MockSettingsRepository)(nil)
