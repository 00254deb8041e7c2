package service

import (
	"time"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/sentinel/internal/sentinel/core"
)

const (
	defaultStateTimeout    = 5 * time.Second
	defaultClassifyTimeout = 10 * time.Second
)

// Service implements the ingestion pipeline.
// It orchestrates calls between the model and the adapters (ports).
type Service struct {
	state      core.LiveStateStore
	classifier core.ThreatClassifier
	dispatcher core.AlertDispatcher

	stateTimeout    time.Duration
	classifyTimeout time.Duration
	clock           clock.PassiveClock
}

// Option configures a Service.
type Option func(*Service)

// WithStateTimeout bounds every live-state write.
func WithStateTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.stateTimeout = d
		}
	}
}

// WithClassifyTimeout bounds classification. On expiry the verdict is UNKNOWN.
func WithClassifyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.classifyTimeout = d
		}
	}
}

// WithClock overrides the time source used for last_seen and latency metrics.
func WithClock(c clock.PassiveClock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// New creates the ingestion service.
func New(
	state core.LiveStateStore,
	classifier core.ThreatClassifier,
	dispatcher core.AlertDispatcher,
	opts ...Option,
) *Service {
	s := &Service{
		state:           state,
		classifier:      classifier,
		dispatcher:      dispatcher,
		stateTimeout:    defaultStateTimeout,
		classifyTimeout: defaultClassifyTimeout,
		clock:           clock.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
