package sim

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
	"github.com/fleetrack-io/fleetrack/internal/pkg/metrics"
	"github.com/fleetrack-io/fleetrack/pkg/log"
)

// Perturbation bounds applied on every tick.
const (
	maxSpeedDeltaKmh   = 5.0
	speedCeilingKmh    = 120.0
	maxHeadingDeltaDeg = 15.0
	maxPositionDelta   = 0.001
)

// Options configures the simulation driver.
type Options struct {
	// TickPeriod is the interval between simulation ticks.
	TickPeriod time.Duration

	// TripThreshold is the number of consecutive fetch failures that trips
	// the circuit breaker.
	TripThreshold int

	// Cooldown is how long the breaker stays open once tripped.
	Cooldown time.Duration

	// LogWindow suppresses repeats of the same failure log within the
	// window, so a broken store does not flood the logs at tick rate.
	LogWindow time.Duration
}

// Driver perturbs every vehicle on a fixed tick to generate live-looking
// movement. A circuit breaker guards the store: repeated fetch failures
// pause simulation entirely until the cooldown elapses.
type Driver struct {
	repo      core.VehicleRepository
	publisher core.ChangePublisher
	breaker   *Breaker
	opts      Options
	logger    log.Logger
	rng       *rand.Rand

	lastLog map[string]time.Time
}

// New creates a simulation driver.
func New(repo core.VehicleRepository, publisher core.ChangePublisher, opts Options, logger log.Logger) *Driver {
	if logger == nil {
		logger = log.Std()
	}
	return &Driver{
		repo:      repo,
		publisher: publisher,
		breaker:   NewBreaker(opts.TripThreshold, opts.Cooldown),
		opts:      opts,
		logger:    logger.WithName("sim"),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		lastLog:   make(map[string]time.Time),
	}
}

// Run drives the tick loop until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	d.logger.Info("simulation driver started", "tick", d.opts.TickPeriod)

	ticker := time.NewTicker(d.opts.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("simulation driver stopped")
			return nil
		case now := <-ticker.C:
			d.tick(ctx, now)
		}
	}
}

// tick runs one simulation step.
func (d *Driver) tick(ctx context.Context, now time.Time) {
	if !d.breaker.Allow(now) {
		metrics.SimTicksTotal.WithLabelValues("skipped").Inc()
		return
	}

	vehicles, err := d.repo.GetAll(ctx)
	if err != nil {
		metrics.SimTicksTotal.WithLabelValues("fetch_failed").Inc()
		if d.breaker.Failure(now) {
			d.logger.Warn("circuit breaker tripped, pausing simulation",
				"failures", d.breaker.Failures(), "cooldown", d.opts.Cooldown)
		} else {
			d.logRateLimited("fetch", now, func() {
				d.logger.Error(err, "failed to fetch vehicles for simulation",
					"failures", d.breaker.Failures())
			})
		}
		return
	}
	d.breaker.Success()

	// Only vehicles already moving are animated. Write failures are counted
	// per tick only and never feed the breaker, which reacts to fetch
	// failures alone; one bad record must not stall the rest of the fleet.
	connFailures := 0
	for i := range vehicles {
		if vehicles[i].Status != model.StatusMoving {
			continue
		}
		d.perturb(&vehicles[i], now)
		if err := d.repo.Update(ctx, &vehicles[i]); err != nil {
			if core.IsUnavailable(err) {
				connFailures++
			} else {
				d.logRateLimited("write:"+vehicles[i].ID, now, func() {
					d.logger.Error(err, "simulation write failed", "vehicle", vehicles[i].ID)
				})
			}
		}
	}
	if connFailures > 0 {
		d.logRateLimited("write", now, func() {
			d.logger.Warn("store connectivity failures during simulation tick",
				"failed", connFailures, "total", len(vehicles))
		})
	}

	// One publish per tick, perturbed or not, so viewers see a heartbeat.
	if d.publisher != nil {
		d.publisher.Publish(vehicles)
	}
	metrics.SimTicksTotal.WithLabelValues("ok").Inc()
}

// perturb nudges a vehicle's kinematic state within the configured bounds.
func (d *Driver) perturb(v *model.Vehicle, now time.Time) {
	speed := v.CurrentSpeed + (d.rng.Float64()*2-1)*maxSpeedDeltaKmh
	speed = math.Max(0, math.Min(speedCeilingKmh, speed))

	heading := v.Heading + (d.rng.Float64()*2-1)*maxHeadingDeltaDeg
	heading = math.Mod(heading+360, 360)

	v.CurrentSpeed = speed
	v.Heading = heading
	v.Latitude += (d.rng.Float64()*2 - 1) * maxPositionDelta
	v.Longitude += (d.rng.Float64()*2 - 1) * maxPositionDelta
	v.Status = model.StatusForSpeed(speed)
	v.Ignition = model.IgnitionForSpeed(speed)
	v.LastUpdate = now
}

// logRateLimited invokes fn at most once per LogWindow for the given key.
func (d *Driver) logRateLimited(key string, now time.Time, fn func()) {
	if last, ok := d.lastLog[key]; ok && now.Sub(last) < d.opts.LogWindow {
		return
	}
	d.lastLog[key] = now
	fn()
}
