package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*AlertOptions)(nil)

// Alert sinks.
const (
	AlertSinkWebhook = "webhook"
	AlertSinkMQTT    = "mqtt"
	AlertSinkNone    = "none"
)

// AlertOptions configures the alert dispatcher and its detached worker pool.
type AlertOptions struct {
	// Sink is webhook, mqtt or none.
	Sink string `json:"sink" mapstructure:"sink"`

	// WebhookURL receives alert POSTs when Sink is webhook.
	WebhookURL string `json:"webhook-url" mapstructure:"webhook-url"`

	// Headers are sent with every webhook request (e.g. Authorization).
	Headers map[string]string `json:"headers" mapstructure:"headers"`

	// Timeout is the transport timeout of one dispatch attempt.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// Workers bounds the number of concurrent in-flight dispatches.
	Workers int `json:"workers" mapstructure:"workers"`

	// QueueSize bounds the number of alerts waiting for a worker.
	QueueSize int `json:"queue-size" mapstructure:"queue-size"`

	// DrainTimeout bounds how long shutdown waits for queued alerts.
	DrainTimeout time.Duration `json:"drain-timeout" mapstructure:"drain-timeout"`
}

func NewAlertOptions() *AlertOptions {
	return &AlertOptions{
		Sink:         AlertSinkWebhook,
		Headers:      map[string]string{},
		Timeout:      10 * time.Second,
		Workers:      4,
		QueueSize:    256,
		DrainTimeout: 5 * time.Second,
	}
}

func (o *AlertOptions) Validate() []error {
	errors := []error{}

	switch o.Sink {
	case AlertSinkWebhook:
		if u, err := url.Parse(o.WebhookURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Errorf("alert.webhook-url %q is not an absolute URL", o.WebhookURL))
		}
	case AlertSinkMQTT, AlertSinkNone:
	default:
		errors = append(errors, fmt.Errorf("alert.sink %q is not one of webhook, mqtt, none", o.Sink))
	}
	if o.Workers <= 0 {
		errors = append(errors, fmt.Errorf("alert.workers must be positive"))
	}
	if o.QueueSize < 0 {
		errors = append(errors, fmt.Errorf("alert.queue-size must not be negative"))
	}

	return errors
}

func (o *AlertOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Sink, "alert.sink", o.Sink, "Alert destination: webhook, mqtt or none.")
	fs.StringVar(&o.WebhookURL, "alert.webhook-url", o.WebhookURL, "Webhook endpoint receiving threat alerts.")
	fs.StringToStringVar(&o.Headers, "alert.headers", o.Headers, "Extra HTTP headers sent with webhook alerts (key=value,...).")
	fs.DurationVar(&o.Timeout, "alert.timeout", o.Timeout, "Transport timeout of one alert dispatch.")
	fs.IntVar(&o.Workers, "alert.workers", o.Workers, "Number of concurrent alert dispatch workers.")
	fs.IntVar(&o.QueueSize, "alert.queue-size", o.QueueSize, "Number of alerts that may wait for a worker before new ones are dropped.")
	fs.DurationVar(&o.DrainTimeout, "alert.drain-timeout", o.DrainTimeout, "How long shutdown waits for queued alerts.")
}
