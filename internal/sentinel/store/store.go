package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/pkg/options"
)

// ErrNotFound is returned by Get when no snapshot exists for the key.
var ErrNotFound = errors.New("snapshot not found")

// Options groups the settings of every backend; only the selected one is used.
type Options struct {
	State    *options.StateOptions
	Redis    *options.RedisOptions
	DynamoDB *options.DynamoDBOptions
	S3       *options.S3Options
}

// New creates the live state store selected by opts.State.Backend.
func New(ctx context.Context, opts *Options) (core.LiveStateStore, error) {
	switch opts.State.Backend {
	case options.StateBackendRedis:
		return NewRedis(opts.Redis, opts.State.KeyPrefix)
	case options.StateBackendDynamoDB:
		return NewDynamoDB(ctx, opts.DynamoDB)
	case options.StateBackendS3:
		return NewS3(ctx, opts.S3, opts.State.KeyPrefix)
	case options.StateBackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", opts.State.Backend)
	}
}
