package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autopeer-io/sentinel/internal/pkg/mqtt/paths"
	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/mqtt/topic"
)

// Publisher is the subset of the MQTT client used for alerts.
type Publisher interface {
	Publish(ctx context.Context, topic string, qos int, retain bool, payload []byte) error
}

var _ core.AlertSink = (*MQTT)(nil)

// MQTT publishes alerts to {root}/alert/{callSign}.
type MQTT struct {
	client  Publisher
	builder *topic.Builder
	qos     int
}

func NewMQTT(client Publisher, topicRoot string, qos int) *MQTT {
	return &MQTT{
		client:  client,
		builder: topic.NewBuilder(topicRoot),
		qos:     qos,
	}
}

func (n *MQTT) Send(ctx context.Context, event *model.AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("mqtt alert: marshal: %w", err)
	}

	t := n.builder.Build(paths.Alert, event.CallSign)
	if err := n.client.Publish(ctx, t, n.qos, false, payload); err != nil {
		return fmt.Errorf("%w: mqtt publish %s: %w", ErrDispatchFailed, t, err)
	}
	return nil
}
