package sentinel

import (
	"context"
	"time"

	"github.com/autopeer-io/sentinel/internal/sentinel/server"
	"github.com/autopeer-io/sentinel/pkg/log"
)

// SentinelServer owns every long-lived component of the hub.
type SentinelServer struct {
	serverManager *server.Manager
	closers       *releaser
	drainTimeout  time.Duration
}

// Run serves until ctx is cancelled, then drains queued alerts and
// releases backends in reverse order of construction.
func (s *SentinelServer) Run(ctx context.Context) error {
	err := s.serverManager.Start(ctx)
	if err != nil {
		log.Error(err, "Server manager stopped with error")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()
	s.closers.release(drainCtx)

	log.Info("sentinel-hub stopped gracefully.")
	return err
}
