package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/service"
	"github.com/autopeer-io/sentinel/internal/sentinel/notifier"
	"github.com/autopeer-io/sentinel/internal/sentinel/store"
	"github.com/autopeer-io/sentinel/pkg/options"
)

type stubClassifier struct{ answer model.Verdict }

func (s stubClassifier) Classify(context.Context, string) model.Verdict { return s.answer }

type slowSink struct {
	mu     sync.Mutex
	delay  time.Duration
	events []*model.AlertEvent
}

func (s *slowSink) Send(_ context.Context, ev *model.AlertEvent) error {
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *slowSink) sent() []*model.AlertEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.AlertEvent(nil), s.events...)
}

type fixture struct {
	srv   *httptest.Server
	state *store.Memory
	sink  *slowSink
	pool  *notifier.Pool
}

func newFixture(t *testing.T, verdict model.Verdict, sinkDelay time.Duration) *fixture {
	t.Helper()

	state := store.NewMemory()
	sink := &slowSink{delay: sinkDelay}
	pool := notifier.NewPool(sink, notifier.WithWorkers(1))
	svc := service.New(state, stubClassifier{answer: verdict}, pool)

	srv := httptest.NewServer(NewHandler(options.NewHttpOptions(), svc, state))
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, state: state, sink: sink, pool: pool}
}

func (f *fixture) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.pool.Close(ctx))
}

func (f *fixture) ping(t *testing.T, callSign, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(fmt.Sprintf("%s/api/drones/%s/ping", f.srv.URL, callSign), "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestIngestThreatScenario(t *testing.T) {
	f := newFixture(t, model.VerdictThreat, 0)

	resp := f.ping(t, "ALPHA", `{"lat":10,"lng":20,"battery":80,"report":"enemy column spotted"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)

	snap, err := f.state.Get(context.Background(), "ALPHA")
	require.NoError(t, err)
	assert.Equal(t, model.VerdictThreat, snap.ThreatLevel)
	assert.Equal(t, "enemy column spotted", snap.LastReport)
	assert.Equal(t, 80, snap.Battery)

	f.drain(t)
	assert.Equal(t, []*model.AlertEvent{{
		CallSign: "ALPHA", ReportText: "enemy column spotted", Lat: 10, Lng: 20,
	}}, f.sink.sent())
}

func TestIngestSafeScenario(t *testing.T) {
	f := newFixture(t, model.ParseVerdict("safe\n"), 0)

	resp := f.ping(t, "ALPHA", `{"lat":10,"lng":20,"battery":80,"report":"enemy column spotted"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	snap, err := f.state.Get(context.Background(), "ALPHA")
	require.NoError(t, err)
	assert.Equal(t, model.VerdictSafe, snap.ThreatLevel)

	f.drain(t)
	assert.Empty(t, f.sink.sent())
}

func TestIngestWithoutReport(t *testing.T) {
	f := newFixture(t, model.VerdictThreat, 0)

	resp := f.ping(t, "BRAVO", `{"lat":1.5,"lng":2.5,"battery":60}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	fields := f.state.Fields("BRAVO")
	assert.NotContains(t, fields, model.FieldThreatLevel)
	assert.NotContains(t, fields, model.FieldLastReport)
	assert.Contains(t, fields, model.FieldLastSeen)

	f.drain(t)
	assert.Empty(t, f.sink.sent())
}

func TestIngestSlowDispatcherDoesNotDelayResponse(t *testing.T) {
	f := newFixture(t, model.VerdictThreat, 500*time.Millisecond)

	start := time.Now()
	resp := f.ping(t, "CHARLIE", `{"report":"hostile drone"}`)
	elapsed := time.Since(start)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Less(t, elapsed, 250*time.Millisecond)

	f.drain(t)
	assert.Len(t, f.sink.sent(), 1)
}

func TestIngestRejectsBadPayloads(t *testing.T) {
	f := newFixture(t, model.VerdictSafe, 0)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"null body", `null`},
		{"not json", `lat=1`},
		{"wrong type", `{"lat":"north"}`},
		{"out of range", `{"lat":123}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.ping(t, "DELTA", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
	assert.Nil(t, f.state.Fields("DELTA"))
}

type failingIngestor struct{ err error }

func (f failingIngestor) ProcessPing(context.Context, string, *model.TelemetryPing) (*model.Outcome, error) {
	return nil, f.err
}

func TestIngestStateFailureIsServiceUnavailable(t *testing.T) {
	err := fmt.Errorf("%w: %w", service.ErrStateUpdateFailed, errors.New("redis down"))
	srv := httptest.NewServer(NewHandler(options.NewHttpOptions(), failingIngestor{err: err}, store.NewMemory()))
	defer srv.Close()

	resp, postErr := http.Post(srv.URL+"/api/drones/ECHO/ping", "application/json", strings.NewReader(`{"lat":1}`))
	require.NoError(t, postErr)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestIngestBodyTooLarge(t *testing.T) {
	opts := options.NewHttpOptions()
	opts.MaxBodyBytes = 16
	srv := httptest.NewServer(NewHandler(opts, failingIngestor{}, store.NewMemory()))
	defer srv.Close()

	body := `{"report":"` + strings.Repeat("x", 64) + `"}`
	resp, err := http.Post(srv.URL+"/api/drones/ECHO/ping", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStateEndpoint(t *testing.T) {
	f := newFixture(t, model.VerdictSafe, 0)
	f.ping(t, "FOXTROT", `{"lat":1,"lng":2,"alt":300,"battery":90}`)

	resp, err := http.Get(f.srv.URL + "/api/drones/FOXTROT/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap model.DeviceSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "FOXTROT", snap.CallSign)
	assert.Equal(t, 300.0, snap.Alt)
	assert.Equal(t, 90, snap.Battery)

	missing, err := http.Get(f.srv.URL + "/api/drones/NOBODY/state")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestProbesAndMetrics(t *testing.T) {
	f := newFixture(t, model.VerdictSafe, 0)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, err := http.Get(f.srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

type downStore struct{ *store.Memory }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestReadyzReportsStoreOutage(t *testing.T) {
	srv := httptest.NewServer(NewHandler(options.NewHttpOptions(), failingIngestor{}, downStore{store.NewMemory()}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
