package mqtt

import (
	"context"
	"fmt"
	"time"

	"github.com/autopeer-io/sentinel/internal/pkg/metrics"
	"github.com/autopeer-io/sentinel/internal/pkg/mqtt/paths"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/log"
	pkgmqtt "github.com/autopeer-io/sentinel/pkg/mqtt"
	"github.com/autopeer-io/sentinel/pkg/mqtt/topic"
)

const connectivityProbeInterval = 5 * time.Second

// Ingestor runs the ingestion pipeline for one ping.
type Ingestor interface {
	ProcessPing(ctx context.Context, callSign string, ping *model.TelemetryPing) (*model.Outcome, error)
}

// Server implements the MQTT ingress layer.
type Server struct {
	client pkgmqtt.Client
	topics *topic.Builder
	qos    int
	svc    Ingestor
}

// NewServer creates a new MQTT server (client).
func NewServer(client pkgmqtt.Client, builder *topic.Builder, qos int, svc Ingestor) *Server {
	return &Server{
		client: client,
		topics: builder,
		qos:    qos,
		svc:    svc,
	}
}

// Start connects to the broker and subscribes to ping topics.
func (s *Server) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.client.Disconnect(shutdownCtx)
		metrics.MQTTConnectivityStatus.Set(0)
	}()

	log.Info("Waiting for MQTT connection...")
	if err := s.client.AwaitConnection(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	log.Info("MQTT Connected")

	filter := s.topics.Shared(paths.GroupHub).BuildWildcard(paths.Ping)
	if err := s.client.Subscribe(ctx, filter, s.qos, s.handlePing); err != nil {
		return fmt.Errorf("failed to subscribe to topic: %s, err: %w", filter, err)
	}

	ticker := time.NewTicker(connectivityProbeInterval)
	defer ticker.Stop()
	for {
		s.recordConnectivity()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Server) recordConnectivity() {
	if s.client.IsConnected() {
		metrics.MQTTConnectivityStatus.Set(1)
		return
	}
	metrics.MQTTConnectivityStatus.Set(0)
}
