package notifier

import (
	"context"

	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/log"
)

var _ core.AlertSink = LogSink{}

// LogSink only records alerts in the log. Used when no sink is configured.
type LogSink struct{}

func (LogSink) Send(ctx context.Context, event *model.AlertEvent) error {
	log.FromContext(ctx).Warn("Threat alert (no sink configured)",
		"callSign", event.CallSign, "report", event.ReportText, "lat", event.Lat, "lng", event.Lng)
	return nil
}
