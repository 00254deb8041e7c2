package sentinel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/sentinel/pkg/options"
)

func testConfig() *Config {
	cfg := &Config{
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
	}
	cfg.HttpOptions.Addr = "127.0.0.1:0"
	cfg.GrpcOptions.Enabled = false
	cfg.StateOptions.Backend = options.StateBackendMemory
	cfg.ClassifierOptions.Provider = options.ClassifierOllama
	cfg.AlertOptions.Sink = options.AlertSinkNone
	return cfg
}

func TestSentinelServerRunsUntilCancelled(t *testing.T) {
	srv, err := testConfig().NewSentinelServer(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewSentinelServerRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.StateOptions.Backend = "etcd"

	_, err := cfg.NewSentinelServer(context.Background())
	assert.ErrorContains(t, err, "unknown state backend")
}

func TestInitializeMQTTClientAppendsRole(t *testing.T) {
	opts := options.NewMqttOptions()
	opts.ClientID = "hub-0"

	client, err := InitializeMQTTClient(opts, "alerts")
	require.NoError(t, err)
	assert.False(t, client.IsConnected())
}

func TestNewSentinelServerFailsOnBadIngressBroker(t *testing.T) {
	cfg := testConfig()
	cfg.MqttOptions.Enabled = true
	cfg.MqttOptions.Broker = "gopher://nowhere"

	srv, err := cfg.NewSentinelServer(context.Background())
	assert.ErrorContains(t, err, "failed to init mqtt client")
	assert.Nil(t, srv)
}

func TestReleaserRunsInReverseAndContinuesOnError(t *testing.T) {
	var order []string
	r := &releaser{}
	for _, name := range []string{"tracer", "store", "pool"} {
		r.push(name, func(context.Context) error {
			order = append(order, name)
			if name == "pool" {
				return errors.New("drain timed out")
			}
			return nil
		})
	}

	r.release(context.Background())
	assert.Equal(t, []string{"pool", "store", "tracer"}, order)

	r.release(context.Background())
	assert.Len(t, order, 3, "steps run once")
}
