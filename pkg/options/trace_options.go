package options

import (
	"github.com/spf13/pflag"
)

var _ IOptions = (*TraceOptions)(nil)

// TraceOptions configures OpenTelemetry trace export.
type TraceOptions struct {
	// Endpoint is the OTLP/HTTP collector host:port. Empty disables export.
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// Insecure sends spans over plain HTTP.
	Insecure bool `json:"insecure" mapstructure:"insecure"`

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `json:"service-name" mapstructure:"service-name"`
}

func NewTraceOptions() *TraceOptions {
	return &TraceOptions{
		Insecure:    true,
		ServiceName: "sentinel-hub",
	}
}

func (o *TraceOptions) Validate() []error {
	if o.Endpoint == "" {
		return nil
	}
	if err := ValidateAddress(o.Endpoint); err != nil {
		return []error{err}
	}
	return nil
}

func (o *TraceOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Endpoint, "trace.endpoint", o.Endpoint, "OTLP/HTTP collector address; empty disables tracing.")
	fs.BoolVar(&o.Insecure, "trace.insecure", o.Insecure, "Export spans without TLS.")
	fs.StringVar(&o.ServiceName, "trace.service-name", o.ServiceName, "Service name attached to exported spans.")
}
