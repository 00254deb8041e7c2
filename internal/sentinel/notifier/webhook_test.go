package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

var alpha = &model.AlertEvent{CallSign: "ALPHA", ReportText: "enemy column spotted", Lat: 10, Lng: 20}

func TestWebhookSend(t *testing.T) {
	var (
		got     map[string]any
		headers http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, WithHeaders(map[string]string{"Authorization": "Bearer t"}))
	require.NoError(t, wh.Send(context.Background(), alpha))

	assert.Equal(t, map[string]any{
		"callSign":   "ALPHA",
		"reportText": "enemy column spotted",
		"lat":        10.0,
		"lng":        20.0,
	}, got)
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "Bearer t", headers.Get("Authorization"))
	assert.NotEmpty(t, headers.Get("X-Alert-ID"))
}

func TestWebhookFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).Send(context.Background(), alpha)
	assert.ErrorIs(t, err, ErrDispatchFailed)
	assert.ErrorContains(t, err, "HTTP 503")
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhookUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	err := NewWebhook(srv.URL, WithTimeout(time.Second)).Send(context.Background(), alpha)
	assert.ErrorIs(t, err, ErrDispatchFailed)
}
