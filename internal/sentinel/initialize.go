package sentinel

import (
	"context"
	"fmt"
	"os"

	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/notifier"
	"github.com/autopeer-io/sentinel/pkg/log"
	"github.com/autopeer-io/sentinel/pkg/mqtt"
	"github.com/autopeer-io/sentinel/pkg/options"
)

// InitializeMQTTClient builds an unstarted client. role distinguishes the
// ingress and alert connections in the generated client ID.
func InitializeMQTTClient(opts *options.MqttOptions, role string) (mqtt.Client, error) {
	cfg := opts.ToClientConfig()

	if cfg.ClientID == "" {
		hostname, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("sentinel-hub-%s", hostname)
	}
	cfg.ClientID = cfg.ClientID + "-" + role

	client, err := mqtt.NewClient(cfg)
	if err != nil {
		log.Error(err, "failed to new mqtt client", "role", role)
		return nil, err
	}
	return client, nil
}

// initializeAlertSink returns the sink selected by opts together with the
// MQTT client it owns, if any. The caller disconnects that client.
func initializeAlertSink(ctx context.Context, opts *options.AlertOptions, mqttOpts *options.MqttOptions) (core.AlertSink, mqtt.Client, error) {
	switch opts.Sink {
	case options.AlertSinkWebhook:
		return notifier.NewWebhook(opts.WebhookURL,
			notifier.WithHeaders(opts.Headers),
			notifier.WithTimeout(opts.Timeout),
		), nil, nil

	case options.AlertSinkMQTT:
		// A dedicated egress connection keeps alert publishing independent
		// of the ingress subscription.
		client, err := InitializeMQTTClient(mqttOpts, "alerts")
		if err != nil {
			return nil, nil, err
		}
		if err := client.Start(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to start alert mqtt client: %w", err)
		}
		return notifier.NewMQTT(client, mqttOpts.TopicRoot, mqttOpts.QoS), client, nil

	case options.AlertSinkNone:
		log.Warn("No alert sink configured, threats will only be logged")
		return notifier.LogSink{}, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown alert sink %q", opts.Sink)
	}
}
