package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/sentinel/pkg/options"
)

func validServerOptions() *ServerOptions {
	o := NewServerOptions()
	o.AlertOptions.WebhookURL = "http://alerts.local/hook"
	o.ClassifierOptions.APIKey = "key"
	return o
}

func TestServerOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *ServerOptions)
		wantErr string
	}{
		{"defaults with credentials", func(o *ServerOptions) {}, ""},
		{"missing webhook url", func(o *ServerOptions) { o.AlertOptions.WebhookURL = "" }, "alert.webhook-url"},
		{"missing gemini key", func(o *ServerOptions) { o.ClassifierOptions.APIKey = "" }, "classifier.api-key"},
		{"ollama needs no key", func(o *ServerOptions) {
			o.ClassifierOptions.Provider = options.ClassifierOllama
			o.ClassifierOptions.APIKey = ""
		}, ""},
		{"unknown backend", func(o *ServerOptions) { o.StateOptions.Backend = "etcd" }, "state.backend"},
		{"s3 backend checks s3 options", func(o *ServerOptions) {
			o.StateOptions.Backend = options.StateBackendS3
			o.S3Options.BucketName = ""
		}, "s3.bucket-name"},
		{"unused backend options are ignored", func(o *ServerOptions) { o.S3Options.BucketName = "" }, ""},
		{"mqtt sink needs a broker", func(o *ServerOptions) {
			o.AlertOptions.Sink = options.AlertSinkMQTT
			o.MqttOptions.Broker = ""
		}, "alert.sink=mqtt"},
		{"bad log level", func(o *ServerOptions) { o.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validServerOptions()
			tt.mutate(o)
			require.NoError(t, o.Complete())

			err := o.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerOptionsFlagsCoverEveryGroup(t *testing.T) {
	fss := NewServerOptions().Flags()
	for _, name := range []string{"http", "grpc", "mqtt", "state", "redis", "dynamodb", "s3", "classifier", "alert", "trace", "log"} {
		assert.Contains(t, fss.Order, name)
	}
	assert.NotNil(t, fss.FlagSet("alert").Lookup("alert.webhook-url"))
}

func TestServerOptionsConfig(t *testing.T) {
	o := validServerOptions()
	cfg, err := o.Config()
	require.NoError(t, err)

	assert.Same(t, o.StateOptions, cfg.StateOptions)
	assert.Same(t, o.AlertOptions, cfg.AlertOptions)
	assert.Same(t, o.TraceOptions, cfg.TraceOptions)
}
