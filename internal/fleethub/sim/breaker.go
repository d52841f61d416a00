package sim

import (
	"context"
	"time"

	"github.com/looplab/fsm"

	"github.com/fleetrack-io/fleetrack/internal/pkg/metrics"
)

// Breaker states.
const (
	StateHealthy  = "healthy"
	StateDegraded = "degraded"
	StateTripped  = "tripped"
)

// Breaker events.
const (
	eventFailure  = "failure"
	eventTrip     = "trip"
	eventRecover  = "recover"
	eventCooldown = "cooldown_elapsed"
)

// Breaker is the simulation circuit breaker. Consecutive fetch failures move
// it from healthy through degraded to tripped; while tripped no simulation
// work runs until the cooldown elapses.
type Breaker struct {
	fsm       *fsm.FSM
	threshold int
	cooldown  time.Duration

	failures  int
	trippedAt time.Time
}

// NewBreaker creates a breaker that trips after threshold consecutive
// failures and stays open for cooldown.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	b := &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
	}
	b.fsm = fsm.NewFSM(
		StateHealthy,
		fsm.Events{
			{Name: eventFailure, Src: []string{StateHealthy, StateDegraded}, Dst: StateDegraded},
			{Name: eventTrip, Src: []string{StateDegraded}, Dst: StateTripped},
			{Name: eventRecover, Src: []string{StateHealthy, StateDegraded}, Dst: StateHealthy},
			{Name: eventCooldown, Src: []string{StateTripped}, Dst: StateHealthy},
		},
		fsm.Callbacks{
			"enter_" + StateTripped: func(ctx context.Context, e *fsm.Event) {
				metrics.SimCircuitOpen.Set(1)
			},
			"enter_" + StateHealthy: func(ctx context.Context, e *fsm.Event) {
				metrics.SimCircuitOpen.Set(0)
			},
		},
	)
	return b
}

// State returns the current breaker state.
func (b *Breaker) State() string { return b.fsm.Current() }

// Failures returns the consecutive failure count.
func (b *Breaker) Failures() int { return b.failures }

// Failure records one failed fetch, tripping the breaker when the threshold
// is reached. It returns true when this call tripped the breaker.
func (b *Breaker) Failure(now time.Time) bool {
	b.failures++
	_ = b.fsm.Event(context.Background(), eventFailure)
	if b.failures >= b.threshold && b.fsm.Is(StateDegraded) {
		b.trippedAt = now
		_ = b.fsm.Event(context.Background(), eventTrip)
		return true
	}
	return false
}

// Success records one successful fetch, clearing the failure count.
func (b *Breaker) Success() {
	b.failures = 0
	if !b.fsm.Is(StateHealthy) && !b.fsm.Is(StateTripped) {
		_ = b.fsm.Event(context.Background(), eventRecover)
	}
}

// Allow reports whether work may run at now. A tripped breaker whose cooldown
// has elapsed resets and allows the attempt.
func (b *Breaker) Allow(now time.Time) bool {
	if !b.fsm.Is(StateTripped) {
		return true
	}
	if now.Sub(b.trippedAt) < b.cooldown {
		return false
	}
	b.failures = 0
	_ = b.fsm.Event(context.Background(), eventCooldown)
	return true
}
