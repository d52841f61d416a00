package fleethub

import (
	"fmt"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/broadcast"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/service"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/notifier"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/server"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/sim"
	"github.com/fleetrack-io/fleetrack/pkg/log"
	"github.com/fleetrack-io/fleetrack/pkg/mqtt/topic"
	"github.com/fleetrack-io/fleetrack/pkg/options"
)

type Config struct {
	HttpOptions  *options.HttpOptions
	MqttOptions  *options.MqttOptions
	StoreOptions *options.StoreOptions
	SimOptions   *options.SimOptions
}

// NewHubServer assembles the hub from its adapters.
func (cfg *Config) NewHubServer() (*HubServer, error) {
	// 1. Infrastructure: record store (Secondary Adapter)
	repo, closer, err := InitializeStore(cfg.StoreOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	// 2. Fan-out: every subscriber joins with a snapshot from the store.
	broadcaster := broadcast.New(repo.Vehicle().GetAll, log.Std())

	// 3. Core Domain Service (The Business Logic)
	svc := service.New(repo, broadcaster, log.Std())

	// 4. Ingress Servers (Primary Adapters)
	var hub HubServer
	serverConfig := &server.Config{
		HttpOptions: cfg.HttpOptions,
		MqttOptions: cfg.MqttOptions,
	}
	if cfg.MqttOptions.Enabled {
		client, err := InitializeMQTTClient(cfg.MqttOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to init mqtt client: %w", err)
		}
		hub.mqttNotifier, err = notifier.NewMQTTNotifier(cfg.MqttOptions, topic.NewBuilder(cfg.MqttOptions.TopicRoot))
		if err != nil {
			return nil, fmt.Errorf("failed to init notifier: %w", err)
		}
		hub.serverManager, err = server.NewManager(serverConfig, svc, broadcaster, client)
		if err != nil {
			return nil, fmt.Errorf("failed to init server manager: %w", err)
		}
	} else {
		hub.serverManager, err = server.NewManager(serverConfig, svc, broadcaster, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to init server manager: %w", err)
		}
	}

	// 5. Simulation (optional)
	if cfg.SimOptions.Enabled {
		hub.simDriver = sim.New(repo.Vehicle(), broadcaster, sim.Options{
			TickPeriod:    cfg.SimOptions.TickPeriod,
			TripThreshold: cfg.SimOptions.TripThreshold,
			Cooldown:      cfg.SimOptions.Cooldown,
			LogWindow:     cfg.SimOptions.LogWindow,
		}, log.Std())
	}

	hub.repo = repo
	hub.closeStore = closer
	hub.broadcaster = broadcaster
	return &hub, nil
}
