package options

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	for _, addr := range []string{"0.0.0.0:8080", ":8080", "localhost:6379", "redis.internal:6379", "[::1]:9000"} {
		assert.NoError(t, ValidateAddress(addr), addr)
	}
	for _, addr := range []string{"", "8080", "localhost:http", "localhost:70000", "bad_host:80"} {
		assert.Error(t, ValidateAddress(addr), addr)
	}
}

func TestDefaultsAreValid(t *testing.T) {
	groups := map[string]IOptions{
		"http":     NewHttpOptions(),
		"grpc":     NewGrpcOptions(),
		"mqtt":     NewMqttOptions(),
		"state":    NewStateOptions(),
		"redis":    NewRedisOptions(),
		"dynamodb": NewDynamoDBOptions(),
		"s3":       NewS3Options(),
		"trace":    NewTraceOptions(),
	}
	for name, o := range groups {
		assert.Empty(t, o.Validate(), name)
	}
}

func TestAlertOptionsValidate(t *testing.T) {
	o := NewAlertOptions()
	assert.Len(t, o.Validate(), 1, "webhook sink needs a URL")

	o.WebhookURL = "https://ops.example/hook"
	assert.Empty(t, o.Validate())

	o.Sink = "pager"
	o.Workers = 0
	o.QueueSize = -1
	assert.Len(t, o.Validate(), 3)

	none := NewAlertOptions()
	none.Sink = AlertSinkNone
	assert.Empty(t, none.Validate())
}

func TestClassifierOptionsValidate(t *testing.T) {
	o := NewClassifierOptions()
	require.Len(t, o.Validate(), 1)
	assert.Contains(t, o.Validate()[0].Error(), "api-key")

	o.Provider = ClassifierOllama
	assert.Empty(t, o.Validate())

	o.Provider = "gpt"
	o.Timeout = 0
	assert.Len(t, o.Validate(), 2)
}

func TestStateOptionsValidate(t *testing.T) {
	o := NewStateOptions()
	o.Backend = "etcd"
	o.KeyPrefix = ""
	o.WriteTimeout = 0
	assert.Len(t, o.Validate(), 3)
}

func TestMqttOptionsValidate(t *testing.T) {
	o := NewMqttOptions()
	o.Broker = "gopher://nowhere"
	assert.Empty(t, o.Validate(), "disabled options are not checked")

	o.Enabled = true
	o.QoS = 3
	o.TopicRoot = ""
	assert.Len(t, o.Validate(), 3)
}

func TestMqttOptionsToClientConfig(t *testing.T) {
	o := NewMqttOptions()
	o.Username = "hub"
	cfg := o.ToClientConfig()

	assert.Equal(t, o.Broker, cfg.BrokerURL)
	assert.Equal(t, "hub", cfg.Username)
	assert.Equal(t, uint16(60), cfg.KeepAlive)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
}

func TestGrpcOptionsDisabledSkipsAddress(t *testing.T) {
	o := NewGrpcOptions()
	o.Addr = "nonsense"
	assert.NotEmpty(t, o.Validate())

	o.Enabled = false
	assert.Empty(t, o.Validate())
}

func TestTraceOptionsValidate(t *testing.T) {
	o := NewTraceOptions()
	o.Endpoint = "collector:4318"
	assert.Empty(t, o.Validate())

	o.Endpoint = "collector"
	assert.Len(t, o.Validate(), 1)
}

func TestAddFlagsParses(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	state := NewStateOptions()
	alert := NewAlertOptions()
	state.AddFlags(fs)
	alert.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"--state.backend=memory",
		"--alert.headers=Authorization=Bearer x",
		"--alert.queue-size=0",
	}))

	assert.Equal(t, StateBackendMemory, state.Backend)
	assert.Equal(t, map[string]string{"Authorization": "Bearer x"}, alert.Headers)
	assert.Equal(t, 0, alert.QueueSize)
}
