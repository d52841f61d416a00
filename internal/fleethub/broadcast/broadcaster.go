package broadcast

import (
	"context"
	"fmt"
	"sync"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
	"github.com/fleetrack-io/fleetrack/internal/pkg/metrics"
	"github.com/fleetrack-io/fleetrack/pkg/log"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this many events behind is evicted.
const subscriberBuffer = 8

// SnapshotFunc fetches the current fleet state for a joining subscriber.
type SnapshotFunc func(ctx context.Context) ([]model.Vehicle, error)

// Broadcaster fans fleet state changes out to an unbounded set of
// subscribers. Delivery is non-blocking: a subscriber whose buffer is full is
// dropped rather than allowed to stall the rest of the fleet.
type Broadcaster struct {
	mu       sync.Mutex
	subs     map[*Subscription]struct{}
	snapshot SnapshotFunc
	logger   log.Logger
	closed   bool
}

// Subscription is one subscriber's view of the change stream. The channel is
// closed when the subscription is cancelled, the subscriber is evicted, or
// the broadcaster shuts down.
type Subscription struct {
	ch    chan *model.ChangeEvent
	owner *Broadcaster
}

// C returns the event channel to receive on.
func (s *Subscription) C() <-chan *model.ChangeEvent { return s.ch }

// Cancel detaches the subscription and closes its channel. Safe to call more
// than once.
func (s *Subscription) Cancel() {
	s.owner.remove(s)
}

// New creates a Broadcaster. snapshot supplies the initial state delivered to
// each new subscriber before it sees live updates.
func New(snapshot SnapshotFunc, logger log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Std()
	}
	return &Broadcaster{
		subs:     make(map[*Subscription]struct{}),
		snapshot: snapshot,
		logger:   logger.WithName("broadcast"),
	}
}

// Subscribe registers a new subscriber. The current fleet snapshot is fetched
// first and queued as the subscriber's first event, so a viewer renders
// immediately instead of waiting for the next change.
func (b *Broadcaster) Subscribe(ctx context.Context) (*Subscription, error) {
	vehicles, err := b.snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fleet snapshot: %w", err)
	}

	sub := &Subscription{
		ch:    make(chan *model.ChangeEvent, subscriberBuffer),
		owner: b,
	}
	sub.ch <- model.NewChangeEvent(vehicles)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return nil, fmt.Errorf("broadcaster is closed")
	}
	b.subs[sub] = struct{}{}
	metrics.BroadcastSubscribers.Set(float64(len(b.subs)))
	return sub, nil
}

// Publish delivers the vehicle set to every subscriber without blocking.
// Subscribers whose buffers are full are evicted and their channels closed.
func (b *Broadcaster) Publish(vehicles []model.Vehicle) {
	event := model.NewChangeEvent(vehicles)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	for sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
			delete(b.subs, sub)
			close(sub.ch)
			metrics.BroadcastEvictedTotal.Inc()
			b.logger.Warn("evicted slow subscriber")
		}
	}
	metrics.BroadcastSubscribers.Set(float64(len(b.subs)))
}

// Len returns the number of live subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close evicts all subscribers and rejects further subscriptions.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.ch)
	}
	metrics.BroadcastSubscribers.Set(0)
}

func (b *Broadcaster) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.ch)
	metrics.BroadcastSubscribers.Set(float64(len(b.subs)))
}
