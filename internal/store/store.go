// Package store provides the session storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/record-and-post/internal/model"
)

var (
	// ErrStorage wraps every failure reported by the underlying database.
	ErrStorage = errors.New("storage error")
	// ErrNotFound is returned when a session id does not exist.
	ErrNotFound = errors.New("session not found")
)

// Snapshot slot keys in the kv table.
const (
	SettingsKey = "app_settings"
	ModelsKey   = "local_models_state"
)

// ListParams holds parameters for listing sessions.
type ListParams struct {
	Limit     int  // 0 means all
	OmitAudio bool // skip loading audio payloads
}

// SearchParams holds parameters for searching sessions.
type SearchParams struct {
	Query     string
	Limit     int
	OmitAudio bool
}

// Store defines the session storage interface.
type Store interface {
	// Put inserts or fully replaces a session by id.
	Put(ctx context.Context, s *model.Session) error

	// Get retrieves a session by id.
	Get(ctx context.Context, id string) (*model.Session, error)

	// List returns sessions newest-first by first insertion.
	List(ctx context.Context, p ListParams) ([]model.Session, error)

	// Search returns sessions whose title, transcript or article contain the query.
	Search(ctx context.Context, p SearchParams) ([]model.Session, error)

	// Delete removes a session permanently.
	Delete(ctx context.Context, id string) error

	// GetSettings returns the saved settings, or defaults if none were saved.
	GetSettings(ctx context.Context) (model.Settings, error)

	// PutSettings replaces the saved settings.
	PutSettings(ctx context.Context, s model.Settings) error

	// GetModels returns the persisted model catalog snapshot, nil if never saved.
	GetModels(ctx context.Context) ([]model.LocalModel, error)

	// PutModels replaces the model catalog snapshot.
	PutModels(ctx context.Context, models []model.LocalModel) error

	// Close closes the store.
	Close() error
}
