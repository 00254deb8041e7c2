package log

import (
	"context"
	"sort"
	"sync"
)

type contextKey struct{}

// ContextExtractor pulls a single log value out of a request context.
type ContextExtractor func(ctx context.Context) string

var (
	extractorsMu sync.RWMutex
	extractors   map[string]ContextExtractor
)

// SetContextExtractors registers extractors applied by FromContext when ctx
// carries no logger. Each non-empty value is attached under its map key.
func SetContextExtractors(m map[string]ContextExtractor) {
	extractorsMu.Lock()
	defer extractorsMu.Unlock()
	if len(m) == 0 {
		extractors = nil
		return
	}
	extractors = make(map[string]ContextExtractor, len(m))
	for k, fn := range m {
		if fn != nil {
			extractors[k] = fn
		}
	}
}

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx. Otherwise it returns the
// global logger enriched with the registered context extractors.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return Std()
	}
	if l, ok := ctx.Value(contextKey{}).(Logger); ok {
		return l
	}
	if kvs := extract(ctx); len(kvs) > 0 {
		return Std().WithValues(kvs...)
	}
	return Std()
}

func extract(ctx context.Context) []any {
	extractorsMu.RLock()
	defer extractorsMu.RUnlock()
	if len(extractors) == 0 {
		return nil
	}

	keys := make([]string, 0, len(extractors))
	for k := range extractors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var kvs []any
	for _, k := range keys {
		if v := extractors[k](ctx); v != "" {
			kvs = append(kvs, k, v)
		}
	}
	return kvs
}
