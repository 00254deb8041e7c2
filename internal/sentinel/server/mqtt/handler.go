package mqtt

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/autopeer-io/sentinel/internal/pkg/metrics"
	"github.com/autopeer-io/sentinel/internal/pkg/mqtt/paths"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/service"
	"github.com/autopeer-io/sentinel/pkg/log"
)

// handlePing ingests a ping received on {root}/ping/{callSign}. There is no
// reply channel, so rejected and failed pings are only logged.
func (s *Server) handlePing(ctx context.Context, t string, payload []byte) {
	logger := log.WithValues("transport", "mqtt", "topic", t)

	callSign, ok := s.topics.Parse(paths.Ping, t)
	if !ok {
		metrics.PingsTotal.WithLabelValues("mqtt", "invalid").Inc()
		logger.Warn("Ping on unexpected topic")
		return
	}

	var ping *model.TelemetryPing
	if err := json.Unmarshal(payload, &ping); err != nil {
		metrics.PingsTotal.WithLabelValues("mqtt", "invalid").Inc()
		logger.Error(err, "Malformed ping payload", "callSign", callSign)
		return
	}

	_, err := s.svc.ProcessPing(log.WithContext(ctx, logger), callSign, ping)
	switch {
	case err == nil:
		metrics.PingsTotal.WithLabelValues("mqtt", "accepted").Inc()
	case errors.Is(err, service.ErrInvalidInput):
		metrics.PingsTotal.WithLabelValues("mqtt", "invalid").Inc()
		logger.Warn("Rejected ping", "callSign", callSign, "reason", err.Error())
	default:
		metrics.PingsTotal.WithLabelValues("mqtt", "failed").Inc()
		logger.Error(err, "Failed to ingest ping", "callSign", callSign)
	}
}
