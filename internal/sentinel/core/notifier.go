package core

import (
	"context"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

// AlertSink performs one outbound delivery of an alert.
// Implemented by the webhook and MQTT adapters.
type AlertSink interface {
	Send(ctx context.Context, event *model.AlertEvent) error
}

// AlertDispatcher hands an alert to a detached unit of work and returns
// immediately. Delivery is best-effort and at-most-once; failures are
// logged by the dispatcher and never reported back.
type AlertDispatcher interface {
	Dispatch(event *model.AlertEvent)
}
