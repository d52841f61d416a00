package fleethub

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/broadcast"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/notifier"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/server"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/sim"
	"github.com/fleetrack-io/fleetrack/pkg/log"
)

// HubServer owns the long-running pieces of the hub and their shutdown order.
type HubServer struct {
	serverManager *server.Manager
	simDriver     *sim.Driver
	mqttNotifier  *notifier.MQTTNotifier
	broadcaster   *broadcast.Broadcaster
	repo          core.Repository
	closeStore    func() error
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails, then tears the hub down.
func (s *HubServer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.serverManager.Start(ctx)
	})

	if s.simDriver != nil {
		g.Go(func() error {
			return s.simDriver.Run(ctx)
		})
	}

	if s.mqttNotifier != nil {
		g.Go(func() error {
			return s.mqttNotifier.Run(ctx, s.broadcaster)
		})
	}

	err := g.Wait()

	s.broadcaster.Close()
	if cerr := s.closeStore(); cerr != nil {
		log.Error(cerr, "failed to close store")
	}
	return err
}
