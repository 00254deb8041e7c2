package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*StateOptions)(nil)

// State store backends.
const (
	StateBackendRedis    = "redis"
	StateBackendDynamoDB = "dynamodb"
	StateBackendS3       = "s3"
	StateBackendMemory   = "memory"
)

// StateOptions selects and parameterises the live state store.
type StateOptions struct {
	// Backend is one of redis, dynamodb, s3 or memory.
	Backend string `json:"backend" mapstructure:"backend"`

	// KeyPrefix namespaces snapshot keys: {KeyPrefix}:{callSign} for redis,
	// {KeyPrefix}/{callSign}.json for s3.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`

	// WriteTimeout bounds each partial update issued by the ingestion pipeline.
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
}

func NewStateOptions() *StateOptions {
	return &StateOptions{
		Backend:      StateBackendRedis,
		KeyPrefix:    "live_telemetry",
		WriteTimeout: 5 * time.Second,
	}
}

func (o *StateOptions) Validate() []error {
	errors := []error{}

	switch o.Backend {
	case StateBackendRedis, StateBackendDynamoDB, StateBackendS3, StateBackendMemory:
	default:
		errors = append(errors, fmt.Errorf("state.backend %q is not one of redis, dynamodb, s3, memory", o.Backend))
	}
	if o.KeyPrefix == "" {
		errors = append(errors, fmt.Errorf("state.key-prefix must not be empty"))
	}
	if o.WriteTimeout <= 0 {
		errors = append(errors, fmt.Errorf("state.write-timeout must be positive"))
	}

	return errors
}

func (o *StateOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Backend, "state.backend", o.Backend, "Live state store backend: redis, dynamodb, s3 or memory.")
	fs.StringVar(&o.KeyPrefix, "state.key-prefix", o.KeyPrefix, "Namespace prefix for live state keys.")
	fs.DurationVar(&o.WriteTimeout, "state.write-timeout", o.WriteTimeout, "Timeout of each live state partial update.")
}
