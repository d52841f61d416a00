package mqtt

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/service"
	"github.com/fleetrack-io/fleetrack/pkg/log"
	pkgmqtt "github.com/fleetrack-io/fleetrack/pkg/mqtt"
	"github.com/fleetrack-io/fleetrack/pkg/mqtt/topic"
)

// Server implements the MQTT ingress layer. Trackers publish position
// samples and registration announcements; both are folded into the fleet
// through the core service.
type Server struct {
	client pkgmqtt.Client
	topics *topic.Builder
	svc    *service.Service
	logger log.Logger
}

// NewServer creates a new MQTT server (client).
func NewServer(client pkgmqtt.Client, builder *topic.Builder, svc *service.Service) *Server {
	return &Server{
		client: client,
		topics: builder,
		svc:    svc,
		logger: log.WithName("mqtt"),
	}
}

// Start connects to the broker and subscribes to topics.
func (s *Server) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return err
	}

	// Ensure MQTT disconnects when Start exits (LIFO order)
	defer func() {
		s.logger.Info("disconnecting MQTT client")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.client.Disconnect(shutdownCtx)
	}()

	// Wait for the initial connection so we do not claim readiness while
	// still dialing the broker.
	s.logger.Info("waiting for MQTT connection")
	if err := s.client.AwaitConnection(ctx); err != nil {
		return err
	}
	s.logger.Info("MQTT connected")

	if err := s.initSubscriptions(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func (s *Server) initSubscriptions(ctx context.Context) error {
	const qos = 1

	subscriptions := map[string]pkgmqtt.MessageHandler{
		s.topics.TelemetryWildcard(): s.handleTelemetry,
		s.topics.RegisterWildcard():  s.handleRegister,
	}

	for filter, handler := range subscriptions {
		if err := s.client.Subscribe(ctx, filter, qos, handler); err != nil {
			return fmt.Errorf("failed to subscribe to topic %s: %w", filter, err)
		}
		s.logger.Info("subscribed", "topic", filter)
	}
	return nil
}
