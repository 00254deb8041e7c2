package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/autopeer-io/sentinel/internal/pkg/metrics"
	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/service"
	"github.com/autopeer-io/sentinel/internal/sentinel/store"
	"github.com/autopeer-io/sentinel/pkg/log"
)

const readinessTimeout = 2 * time.Second

type handler struct {
	svc     Ingestor
	state   core.LiveStateStore
	maxBody int64
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.state.Ping(ctx); err != nil {
		log.Warn("Readiness check failed", "error", err.Error())
		http.Error(w, "live state store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ingestPing acknowledges with an empty 200 once the telemetry write landed.
// Classification and alerting outcomes are never part of the response.
func (h *handler) ingestPing(w http.ResponseWriter, r *http.Request) {
	callSign := mux.Vars(r)["callSign"]
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	// A JSON null leaves ping nil and is rejected by ProcessPing.
	var ping *model.TelemetryPing
	if err := json.NewDecoder(r.Body).Decode(&ping); err != nil {
		metrics.PingsTotal.WithLabelValues("http", "invalid").Inc()
		msg := "invalid ping payload"
		if errors.Is(err, io.EOF) {
			msg = "missing ping payload"
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx := log.WithContext(r.Context(), log.FromContext(r.Context()).WithValues("transport", "http"))
	_, err := h.svc.ProcessPing(ctx, callSign, ping)
	switch {
	case err == nil:
		metrics.PingsTotal.WithLabelValues("http", "accepted").Inc()
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, service.ErrInvalidInput):
		metrics.PingsTotal.WithLabelValues("http", "invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		metrics.PingsTotal.WithLabelValues("http", "failed").Inc()
		writeError(w, http.StatusServiceUnavailable, "telemetry could not be recorded")
	}
}

func (h *handler) getState(w http.ResponseWriter, r *http.Request) {
	callSign := mux.Vars(r)["callSign"]

	snap, err := h.state.Get(r.Context(), callSign)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "no live state for "+callSign)
		return
	case err != nil:
		log.Error(err, "Failed to read live state", "callSign", callSign)
		writeError(w, http.StatusServiceUnavailable, "live state store unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
