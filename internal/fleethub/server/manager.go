package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/broadcast"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/service"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/server/http"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/server/mqtt"
	"github.com/fleetrack-io/fleetrack/pkg/log"
	pkgmqtt "github.com/fleetrack-io/fleetrack/pkg/mqtt"
	"github.com/fleetrack-io/fleetrack/pkg/mqtt/topic"
)

// Server defines the common interface for all sub-servers (http, mqtt).
type Server interface {
	Start(ctx context.Context) error
}

// Manager manages the lifecycle of all protocol servers.
type Manager struct {
	servers []Server
}

// NewManager creates a new server manager and initializes all sub-servers.
// The MQTT ingress is only wired when a client is supplied.
func NewManager(cfg *Config, svc *service.Service, broadcaster *broadcast.Broadcaster, mqttClient pkgmqtt.Client) (*Manager, error) {
	var servers []Server

	// 1. HTTP Server (tracking API, WebSocket fan-out, probes, metrics)
	httpSrv := http.NewServer(cfg.HttpOptions, svc, broadcaster)
	servers = append(servers, httpSrv)

	// 2. MQTT Server (the tracker data plane), optional
	if mqttClient != nil {
		builder := topic.NewBuilder(cfg.MqttOptions.TopicRoot)
		servers = append(servers, mqtt.NewServer(mqttClient, builder, svc))
	}

	return &Manager{servers: servers}, nil
}

// Start launches all servers in parallel and waits for termination.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range m.servers {
		srv := s
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("all servers starting")
	return g.Wait()
}
