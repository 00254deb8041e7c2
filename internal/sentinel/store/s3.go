package store

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"path"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/log"
	"github.com/autopeer-io/sentinel/pkg/options"
)

var _ core.LiveStateStore = (*S3)(nil)

// S3 keeps one JSON document per call sign at {prefix}/{callSign}.json.
// Object storage has no field-level writes, so PartialUpdate is a
// read-merge-write guarded by a per-key lock. The lock is process-local:
// run a single writer per bucket.
type S3 struct {
	objects objectAPI
	bucket  string
	prefix  string

	locks sync.Map // key -> *sync.Mutex
}

// NewS3 connects to the bucket named in opts, creating it when missing.
func NewS3(ctx context.Context, opts *options.S3Options, prefix string) (*S3, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure:    opts.UseSSL,
		Region:    opts.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := newS3WithObjects(minioObjects{client: client}, opts.BucketName, prefix)
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("Using s3 live state store", "endpoint", opts.Endpoint, "bucket", opts.BucketName)
	return s, nil
}

func newS3WithObjects(objects objectAPI, bucket, prefix string) *S3 {
	return &S3{objects: objects, bucket: bucket, prefix: prefix}
}

func (s *S3) ensureBucket(ctx context.Context) error {
	exists, err := s.objects.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		log.Info("Bucket does not exist, creating...", "bucket", s.bucket)
		if err := s.objects.MakeBucket(ctx, s.bucket); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

func (s *S3) objectKey(callSign string) string {
	return path.Join(s.prefix, callSign+".json")
}

func (s *S3) lock(key string) func() {
	v, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *S3) PartialUpdate(ctx context.Context, key string, fields map[string]any) error {
	unlock := s.lock(key)
	defer unlock()

	doc, err := s.load(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if doc == nil {
		doc = make(map[string]any, len(fields))
	}
	maps.Copy(doc, fields)

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode live state document: %w", err)
	}

	if err := s.objects.PutObject(ctx, s.bucket, s.objectKey(key), body); err != nil {
		return fmt.Errorf("failed to put live state document: %w", err)
	}
	return nil
}

func (s *S3) load(ctx context.Context, key string) (map[string]any, error) {
	raw, err := s.objects.GetObject(ctx, s.bucket, s.objectKey(key))
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode live state document: %w", err)
	}
	return doc, nil
}

func (s *S3) Get(ctx context.Context, key string) (*model.DeviceSnapshot, error) {
	doc, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	return snapshotFromFields(key, doc), nil
}

func (s *S3) Ping(ctx context.Context) error {
	_, err := s.objects.BucketExists(ctx, s.bucket)
	return err
}

func (s *S3) Close() error { return nil }

// objectAPI is the subset of object storage the S3 store needs.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string) error
	// GetObject returns ErrNotFound when the object does not exist.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, body []byte) error
}

type minioObjects struct {
	client *minio.Client
}

func (m minioObjects) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return m.client.BucketExists(ctx, bucket)
}

func (m minioObjects) MakeBucket(ctx context.Context, bucket string) error {
	return m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}

func (m minioObjects) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get live state document: %w", err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read live state document: %w", err)
	}
	return raw, nil
}

func (m minioObjects) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	_, err := m.client.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return err
}
