package sentinel

import (
	"context"
	"fmt"

	"github.com/autopeer-io/sentinel/internal/pkg/otel"
	"github.com/autopeer-io/sentinel/internal/sentinel/classifier"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/service"
	"github.com/autopeer-io/sentinel/internal/sentinel/notifier"
	"github.com/autopeer-io/sentinel/internal/sentinel/server"
	"github.com/autopeer-io/sentinel/internal/sentinel/store"
	"github.com/autopeer-io/sentinel/pkg/options"
)

type Config struct {
	HttpOptions       *options.HttpOptions
	GrpcOptions       *options.GrpcOptions
	MqttOptions       *options.MqttOptions
	StateOptions      *options.StateOptions
	RedisOptions      *options.RedisOptions
	DynamoDBOptions   *options.DynamoDBOptions
	S3Options         *options.S3Options
	ClassifierOptions *options.ClassifierOptions
	AlertOptions      *options.AlertOptions
	TraceOptions      *options.TraceOptions
}

// NewSentinelServer builds every component of the hub. On failure the
// components built so far are released.
func (cfg *Config) NewSentinelServer(ctx context.Context) (_ *SentinelServer, err error) {
	closers := &releaser{}
	defer func() {
		if err != nil {
			releaseCtx, cancel := context.WithTimeout(context.Background(), cfg.AlertOptions.DrainTimeout)
			defer cancel()
			closers.release(releaseCtx)
		}
	}()

	traceShutdown, err := otel.Init(ctx, cfg.TraceOptions)
	if err != nil {
		return nil, err
	}
	closers.push("tracer", traceShutdown)

	// 1. Infrastructure: live state store (Secondary Adapter)
	state, err := store.New(ctx, &store.Options{
		State:    cfg.StateOptions,
		Redis:    cfg.RedisOptions,
		DynamoDB: cfg.DynamoDBOptions,
		S3:       cfg.S3Options,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init live state store: %w", err)
	}
	closers.push("live state store", func(context.Context) error { return state.Close() })

	// 2. Infrastructure: threat classifier (Secondary Adapter)
	cls, err := classifier.New(cfg.ClassifierOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to init classifier: %w", err)
	}

	// 3. Infrastructure: alert sink behind the detached worker pool
	sink, alertClient, err := initializeAlertSink(ctx, cfg.AlertOptions, cfg.MqttOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to init alert sink: %w", err)
	}
	if alertClient != nil {
		closers.push("alert mqtt client", func(ctx context.Context) error {
			alertClient.Disconnect(ctx)
			return nil
		})
	}
	pool := notifier.NewPool(sink,
		notifier.WithWorkers(cfg.AlertOptions.Workers),
		notifier.WithQueueSize(cfg.AlertOptions.QueueSize),
		notifier.WithDispatchTimeout(cfg.AlertOptions.Timeout),
	)
	closers.push("alert pool", pool.Close)

	// 4. Core domain service
	svc := service.New(state, cls, pool,
		service.WithStateTimeout(cfg.StateOptions.WriteTimeout),
		service.WithClassifyTimeout(cfg.ClassifierOptions.Timeout),
	)

	// 5. Ingress servers (Primary Adapters)
	serverConfig := &server.Config{
		HttpOptions: cfg.HttpOptions,
		GrpcOptions: cfg.GrpcOptions,
		MqttOptions: cfg.MqttOptions,
	}
	if cfg.MqttOptions.Enabled {
		client, err := InitializeMQTTClient(cfg.MqttOptions, "ingress")
		if err != nil {
			return nil, fmt.Errorf("failed to init mqtt client: %w", err)
		}
		serverConfig.MQTTClient = client
	}

	return &SentinelServer{
		serverManager: server.NewManager(serverConfig, svc, state),
		closers:       closers,
		drainTimeout:  cfg.AlertOptions.DrainTimeout,
	}, nil
}
