package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/service"
	"github.com/autopeer-io/sentinel/internal/sentinel/server/grpc"
	"github.com/autopeer-io/sentinel/internal/sentinel/server/http"
	"github.com/autopeer-io/sentinel/internal/sentinel/server/mqtt"
	"github.com/autopeer-io/sentinel/pkg/log"
	"github.com/autopeer-io/sentinel/pkg/mqtt/topic"
)

// Server defines the common interface for all sub-servers (http, mqtt, grpc).
type Server interface {
	Start(ctx context.Context) error
}

// Manager manages the lifecycle of all protocol servers.
type Manager struct {
	servers []Server
}

// NewManager creates a new server manager and initializes all sub-servers.
func NewManager(cfg *Config, svc *service.Service, state core.LiveStateStore) *Manager {
	servers := []Server{
		http.NewServer(cfg.HttpOptions, svc, state),
	}

	if cfg.MQTTClient != nil {
		builder := topic.NewBuilder(cfg.MqttOptions.TopicRoot)
		servers = append(servers, mqtt.NewServer(cfg.MQTTClient, builder, cfg.MqttOptions.QoS, svc))
	}

	if cfg.GrpcOptions.Enabled {
		servers = append(servers, grpc.NewServer(cfg.GrpcOptions, state.Ping))
	}

	return &Manager{servers: servers}
}

// Start launches all servers in parallel and waits for termination.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, srv := range m.servers {
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("All servers starting...", "count", len(m.servers))
	return g.Wait()
}
