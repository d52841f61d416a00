// Package notifier republishes fleet state changes onto the MQTT broker so
// that non-WebSocket consumers (dashboards, downstream services) can follow
// the fleet without talking to the hub directly.
package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/broadcast"
	"github.com/fleetrack-io/fleetrack/pkg/log"
	pkgmqtt "github.com/fleetrack-io/fleetrack/pkg/mqtt"
	"github.com/fleetrack-io/fleetrack/pkg/mqtt/topic"
	"github.com/fleetrack-io/fleetrack/pkg/options"
)

// MQTTNotifier bridges the broadcaster onto the fleet state topic.
type MQTTNotifier struct {
	client pkgmqtt.Client
	topics *topic.Builder
	logger log.Logger
}

// NewMQTTNotifier creates a notifier with its own egress connection.
// Separating ingress and egress connections keeps a slow publish from
// backing up telemetry consumption.
func NewMQTTNotifier(opts *options.MqttOptions, topics *topic.Builder) (*MQTTNotifier, error) {
	cfg := opts.ToClientConfig()
	cfg.ClientID = cfg.ClientID + "-notifier"

	client, err := pkgmqtt.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &MQTTNotifier{
		client: client,
		topics: topics,
		logger: log.WithName("notifier"),
	}, nil
}

// Run subscribes to the broadcaster and republishes every envelope on
// {root}/fleet/state until ctx is cancelled. Messages are retained so late
// joiners immediately see the last known fleet state.
func (n *MQTTNotifier) Run(ctx context.Context, b *broadcast.Broadcaster) error {
	if err := n.client.Start(ctx); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n.client.Disconnect(shutdownCtx)
	}()

	if err := n.client.AwaitConnection(ctx); err != nil {
		return err
	}

	sub, err := b.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer sub.Cancel()

	stateTopic := n.topics.FleetState()
	n.logger.Info("publishing fleet state", "topic", stateTopic)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub.C():
			if !ok {
				// Evicted for lagging. Rejoin with a fresh snapshot.
				sub, err = b.Subscribe(ctx)
				if err != nil {
					return err
				}
				continue
			}
			payload, err := json.Marshal(event)
			if err != nil {
				n.logger.Error(err, "failed to encode fleet state")
				continue
			}
			if err := n.client.Publish(ctx, stateTopic, 0, true, payload); err != nil {
				n.logger.Error(err, "failed to publish fleet state")
			}
		}
	}
}
