package options

import (
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/sentinel/internal/sentinel"
	"github.com/autopeer-io/sentinel/pkg/app"
	"github.com/autopeer-io/sentinel/pkg/log"
	"github.com/autopeer-io/sentinel/pkg/options"
)

type ServerOptions struct {
	HttpOptions       *options.HttpOptions       `json:"http" mapstructure:"http"`
	GrpcOptions       *options.GrpcOptions       `json:"grpc" mapstructure:"grpc"`
	MqttOptions       *options.MqttOptions       `json:"mqtt" mapstructure:"mqtt"`
	StateOptions      *options.StateOptions      `json:"state" mapstructure:"state"`
	RedisOptions      *options.RedisOptions      `json:"redis" mapstructure:"redis"`
	DynamoDBOptions   *options.DynamoDBOptions   `json:"dynamodb" mapstructure:"dynamodb"`
	S3Options         *options.S3Options         `json:"s3" mapstructure:"s3"`
	ClassifierOptions *options.ClassifierOptions `json:"classifier" mapstructure:"classifier"`
	AlertOptions      *options.AlertOptions      `json:"alert" mapstructure:"alert"`
	TraceOptions      *options.TraceOptions      `json:"trace" mapstructure:"trace"`
	Log               *log.Options               `json:"log" mapstructure:"log"`
}

var (
	_ app.NamedFlagSetOptions = (*ServerOptions)(nil)
	_ app.LogOptionsGetter    = (*ServerOptions)(nil)
)

func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HttpOptions:       options.NewHttpOptions(),
		GrpcOptions:       options.NewGrpcOptions(),
		MqttOptions:       options.NewMqttOptions(),
		StateOptions:      options.NewStateOptions(),
		RedisOptions:      options.NewRedisOptions(),
		DynamoDBOptions:   options.NewDynamoDBOptions(),
		S3Options:         options.NewS3Options(),
		ClassifierOptions: options.NewClassifierOptions(),
		AlertOptions:      options.NewAlertOptions(),
		TraceOptions:      options.NewTraceOptions(),
		Log:               log.NewOptions(),
	}
}

func (o *ServerOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.GrpcOptions.AddFlags(fss.FlagSet("grpc"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.StateOptions.AddFlags(fss.FlagSet("state"))
	o.RedisOptions.AddFlags(fss.FlagSet("redis"))
	o.DynamoDBOptions.AddFlags(fss.FlagSet("dynamodb"))
	o.S3Options.AddFlags(fss.FlagSet("s3"))
	o.ClassifierOptions.AddFlags(fss.FlagSet("classifier"))
	o.AlertOptions.AddFlags(fss.FlagSet("alert"))
	o.TraceOptions.AddFlags(fss.FlagSet("trace"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *ServerOptions) LogOptions() *log.Options {
	return o.Log
}

func (o *ServerOptions) Complete() error {
	if o.TraceOptions.ServiceName == "" {
		o.TraceOptions.ServiceName = "sentinel-hub"
	}
	return nil
}

func (o *ServerOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.GrpcOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.StateOptions.Validate()...)
	errs = append(errs, o.ClassifierOptions.Validate()...)
	errs = append(errs, o.AlertOptions.Validate()...)
	errs = append(errs, o.TraceOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	// Backend options are only checked for the selected backend.
	switch o.StateOptions.Backend {
	case options.StateBackendRedis:
		errs = append(errs, o.RedisOptions.Validate()...)
	case options.StateBackendDynamoDB:
		errs = append(errs, o.DynamoDBOptions.Validate()...)
	case options.StateBackendS3:
		errs = append(errs, o.S3Options.Validate()...)
	}

	// The mqtt alert sink needs a broker even when ingestion over mqtt is off.
	if o.AlertOptions.Sink == options.AlertSinkMQTT && !o.MqttOptions.Enabled {
		if err := o.MqttOptions.ToClientConfig().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("alert.sink=mqtt: %w", err))
		}
	}

	return utilerrors.NewAggregate(errs)
}

func (o *ServerOptions) Config() (*sentinel.Config, error) {
	return &sentinel.Config{
		HttpOptions:       o.HttpOptions,
		GrpcOptions:       o.GrpcOptions,
		MqttOptions:       o.MqttOptions,
		StateOptions:      o.StateOptions,
		RedisOptions:      o.RedisOptions,
		DynamoDBOptions:   o.DynamoDBOptions,
		S3Options:         o.S3Options,
		ClassifierOptions: o.ClassifierOptions,
		AlertOptions:      o.AlertOptions,
		TraceOptions:      o.TraceOptions,
	}, nil
}
