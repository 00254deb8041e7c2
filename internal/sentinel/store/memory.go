package store

import (
	"context"
	"maps"
	"sync"

	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

var _ core.LiveStateStore = (*Memory)(nil)

// Memory is a process-local store for development and tests.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]any)}
}

func (m *Memory) PartialUpdate(ctx context.Context, key string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[key]
	if !ok {
		doc = make(map[string]any, len(fields))
		m.docs[key] = doc
	}
	maps.Copy(doc, fields)
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (*model.DeviceSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshotFromFields(key, doc), nil
}

// Fields returns a copy of the raw document stored at key.
func (m *Memory) Fields(key string) map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.docs[key])
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
