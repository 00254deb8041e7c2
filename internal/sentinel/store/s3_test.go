package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

// fakeObjects is an in-memory bucket. readDelay widens the window between
// a read and the following write of a read-merge-write.
type fakeObjects struct {
	mu        sync.Mutex
	buckets   map[string]bool
	objects   map[string][]byte
	readDelay time.Duration
	getErr    error
	puts      int
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{buckets: map[string]bool{}, objects: map[string][]byte{}}
}

func (f *fakeObjects) BucketExists(_ context.Context, bucket string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buckets[bucket], nil
}

func (f *fakeObjects) MakeBucket(_ context.Context, bucket string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[bucket] = true
	return nil
}

func (f *fakeObjects) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	time.Sleep(f.readDelay)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	raw, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (f *fakeObjects) PutObject(_ context.Context, bucket, key string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+key] = append([]byte(nil), body...)
	f.puts++
	return nil
}

func (f *fakeObjects) doc(t *testing.T, key string) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.objects[key]
	require.True(t, ok, "object %s not written", key)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestS3PartialUpdateKeepsAbsentFields(t *testing.T) {
	objects := newFakeObjects()
	s := newS3WithObjects(objects, "live-telemetry", "live_telemetry")
	ctx := context.Background()

	require.NoError(t, s.PartialUpdate(ctx, "ALPHA", map[string]any{
		model.FieldLat:      48.5,
		model.FieldBattery:  80,
		model.FieldLastSeen: int64(100),
	}))
	require.NoError(t, s.PartialUpdate(ctx, "ALPHA", map[string]any{
		model.FieldLat:      49.5,
		model.FieldLastSeen: int64(200),
	}))

	snap, err := s.Get(ctx, "ALPHA")
	require.NoError(t, err)
	assert.Equal(t, "ALPHA", snap.CallSign)
	assert.Equal(t, 49.5, snap.Lat)
	assert.Equal(t, 80, snap.Battery)
	assert.Equal(t, int64(200), snap.LastSeenEpochMillis)

	assert.Contains(t, objects.objects, "live-telemetry/live_telemetry/ALPHA.json")
}

func TestS3GetMissingObject(t *testing.T) {
	s := newS3WithObjects(newFakeObjects(), "live-telemetry", "live_telemetry")

	_, err := s.Get(context.Background(), "GHOST")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3ReadFailureSkipsWrite(t *testing.T) {
	objects := newFakeObjects()
	objects.getErr = errors.New("connection reset")
	s := newS3WithObjects(objects, "live-telemetry", "live_telemetry")

	err := s.PartialUpdate(context.Background(), "ALPHA", map[string]any{model.FieldLat: 1.0})
	require.Error(t, err)
	assert.Zero(t, objects.puts)
}

func TestS3ConcurrentUpdatesToOneKey(t *testing.T) {
	objects := newFakeObjects()
	objects.readDelay = time.Millisecond
	s := newS3WithObjects(objects, "live-telemetry", "live_telemetry")

	const writers = 20
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.PartialUpdate(context.Background(), "ALPHA", map[string]any{
				fmt.Sprintf("f%d", i): i,
			}))
		}()
	}
	wg.Wait()

	doc := objects.doc(t, "live-telemetry/live_telemetry/ALPHA.json")
	assert.Len(t, doc, writers)
	for i := range writers {
		assert.Contains(t, doc, fmt.Sprintf("f%d", i))
	}
}

func TestS3EnsureBucketCreatesMissingBucket(t *testing.T) {
	objects := newFakeObjects()
	s := newS3WithObjects(objects, "live-telemetry", "live_telemetry")

	require.NoError(t, s.ensureBucket(context.Background()))
	assert.True(t, objects.buckets["live-telemetry"])
	require.NoError(t, s.Ping(context.Background()))
}

func TestMinioObjectsMapsNoSuchKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
			`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message>` +
			`<Key>live_telemetry/GHOST.json</Key><BucketName>live-telemetry</BucketName></Error>`))
	}))
	defer srv.Close()

	client, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)

	_, err = minioObjects{client: client}.GetObject(context.Background(), "live-telemetry", "live_telemetry/GHOST.json")
	assert.ErrorIs(t, err, ErrNotFound)
}
