// Package settings exposes operator controlled store switches.
package settings

import (
	"context"
	"time"
)

// Settings store wide switches
type Settings struct {
	AllowCheckout bool
	UpdatedAt     time.Time
}

// Default is used when no settings row exists; checkout stays open.
func Default() Settings {
	return Settings{AllowCheckout: true}
}

type Repository interface {
	Get(ctx context.Context) (Settings, error)
}
