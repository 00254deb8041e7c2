package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autopeer-io/sentinel/internal/pkg/metrics"
	"github.com/autopeer-io/sentinel/internal/pkg/otel"
	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/log"
	"github.com/autopeer-io/sentinel/pkg/options"
)

// Ingestor runs the ingestion pipeline for one ping.
type Ingestor interface {
	ProcessPing(ctx context.Context, callSign string, ping *model.TelemetryPing) (*model.Outcome, error)
}

type Server struct {
	server  *http.Server
	options *options.HttpOptions
}

func NewServer(opts *options.HttpOptions, svc Ingestor, state core.LiveStateStore) *Server {
	return &Server{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           NewHandler(opts, svc, state),
			ReadHeaderTimeout: opts.Timeout,
			ReadTimeout:       opts.Timeout,
			WriteTimeout:      opts.Timeout,
		},
		options: opts,
	}
}

// NewHandler builds the routed handler. Exposed for tests.
func NewHandler(opts *options.HttpOptions, svc Ingestor, state core.LiveStateStore) http.Handler {
	h := &handler{svc: svc, state: state, maxBody: opts.MaxBodyBytes}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.readyz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api/drones/{callSign}").Subrouter()
	api.Handle("/ping", otel.WrapHandler("ingest-ping", http.HandlerFunc(h.ingestPing))).Methods(http.MethodPost)
	api.HandleFunc("/state", h.getState).Methods(http.MethodGet)

	return r
}

func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen(s.options.Network, s.server.Addr)
	if err != nil {
		return err
	}
	log.Info("Starting HTTP Server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("Shutting down HTTP Server")
		return s.server.Shutdown(shutdownCtx)
	}
}
