package core

import (
	"context"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

// LiveStateStore holds the latest snapshot per call sign.
type LiveStateStore interface {
	// PartialUpdate merges fields into the record at key, creating it if
	// absent. Fields not named in the map keep their stored value.
	PartialUpdate(ctx context.Context, key string, fields map[string]any) error

	// Get returns the snapshot stored at key, or store.ErrNotFound.
	// The ingestion pipeline never reads; this serves operators and health checks.
	Get(ctx context.Context, key string) (*model.DeviceSnapshot, error)

	// Ping checks connectivity to the backend.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
