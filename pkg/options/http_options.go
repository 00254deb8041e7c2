package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*HttpOptions)(nil)

// HttpOptions contains configuration items related to HTTP server startup.
type HttpOptions struct {
	// Network with server network.
	Network string `json:"network" mapstructure:"network"`

	// Address with server address.
	Addr string `json:"addr" mapstructure:"addr"`

	// Timeout bounds reading a request and writing its response.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxBodyBytes caps the size of an ingested ping body.
	MaxBodyBytes int64 `json:"max-body-bytes" mapstructure:"max-body-bytes"`
}

// NewHttpOptions creates a HttpOptions object with default parameters.
func NewHttpOptions() *HttpOptions {
	return &HttpOptions{
		Network:      "tcp",
		Addr:         "0.0.0.0:8080",
		Timeout:      30 * time.Second,
		MaxBodyBytes: 64 << 10,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *HttpOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, err)
	}
	if o.MaxBodyBytes <= 0 {
		errors = append(errors, fmt.Errorf("http.max-body-bytes must be positive"))
	}

	return errors
}

// AddFlags adds flags related to the HTTP ingress server to the specified FlagSet.
func (o *HttpOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Network, "http.network", o.Network, "Specify the network for the HTTP server.")
	fs.StringVar(&o.Addr, "http.addr", o.Addr, "Specify the HTTP server bind address and port.")
	fs.DurationVar(&o.Timeout, "http.timeout", o.Timeout, "Read/write timeout for HTTP connections.")
	fs.Int64Var(&o.MaxBodyBytes, "http.max-body-bytes", o.MaxBodyBytes, "Maximum accepted size of a telemetry ping body.")
}
