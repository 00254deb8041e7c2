package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/log"
	"github.com/autopeer-io/sentinel/pkg/options"
)

var _ core.LiveStateStore = (*Redis)(nil)

// Redis keeps each snapshot as a hash at {prefix}:{callSign}. HSET only
// touches the named fields, which gives partial-update semantics for free.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis returns a store on a new client for opts. Connections are opened lazily.
func NewRedis(opts *options.RedisOptions, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	log.Info("Using redis live state store", "addr", opts.Addr, "db", opts.DB)
	return NewRedisWithClient(client, prefix), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(callSign string) string {
	return r.prefix + ":" + callSign
}

func (r *Redis) PartialUpdate(ctx context.Context, key string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.client.HSet(ctx, r.key(key), fields).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", r.key(key), err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) (*model.DeviceSnapshot, error) {
	raw, err := r.client.HGetAll(ctx, r.key(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", r.key(key), err)
	}
	if len(raw) == 0 {
		return nil, ErrNotFound
	}

	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		fields[k] = v
	}
	return snapshotFromFields(key, fields), nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
