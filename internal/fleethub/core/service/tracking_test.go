package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/store/memory"
	"github.com/fleetrack-io/fleetrack/pkg/log"
)

// capturePublisher records every fan-out for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events [][]model.Vehicle
}

func (p *capturePublisher) Publish(vehicles []model.Vehicle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, vehicles)
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestService(t *testing.T) (*Service, *memory.Store, *capturePublisher) {
	t.Helper()
	store := memory.New()
	pub := &capturePublisher{}
	return New(store, pub, log.NewNopLogger()), store, pub
}

func seedVehicle(t *testing.T, store *memory.Store, v *model.Vehicle) {
	t.Helper()
	if err := store.Vehicle().Create(context.Background(), v); err != nil {
		t.Fatalf("failed to seed vehicle: %v", err)
	}
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	base := time.Now().Add(-10 * time.Second)

	t.Run("updates known vehicle", func(t *testing.T) {
		svc, store, pub := newTestService(t)
		seedVehicle(t, store, &model.Vehicle{
			ID:           "v1",
			Name:         "Truck 1",
			LicensePlate: "ABC1234",
			Status:       model.StatusStopped,
			Ignition:     model.IgnitionOff,
			Latitude:     -23.5005,
			Longitude:    -46.6005,
			LastUpdate:   base,
		})

		got, err := svc.Ingest(ctx, &model.PositionSample{
			LicensePlate: "ABC1234",
			Latitude:     -23.5000,
			Longitude:    -46.6000,
			Speed:        f64(50),
			Heading:      f64(45),
		})
		if err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
		if got.CurrentSpeed != 50 || got.Status != model.StatusMoving || got.Ignition != model.IgnitionOn {
			t.Errorf("derived state = (%v, %v, %v), want (50, moving, on)",
				got.CurrentSpeed, got.Status, got.Ignition)
		}

		stored, err := store.Vehicle().Get(ctx, "v1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if stored.Latitude != -23.5 || stored.Longitude != -46.6 {
			t.Errorf("stored position = (%v, %v), want (-23.5, -46.6)", stored.Latitude, stored.Longitude)
		}
		if pub.count() != 1 {
			t.Errorf("published %d events, want 1", pub.count())
		}
	})

	t.Run("unknown plate", func(t *testing.T) {
		svc, _, pub := newTestService(t)

		_, err := svc.Ingest(ctx, &model.PositionSample{
			LicensePlate: "NOPE999",
			Latitude:     1,
			Longitude:    1,
		})
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("Ingest() error = %v, want ErrNotFound", err)
		}
		if pub.count() != 0 {
			t.Errorf("published %d events on failure, want 0", pub.count())
		}
	})

	t.Run("rejects invalid samples", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		seedVehicle(t, store, &model.Vehicle{ID: "v1", LicensePlate: "ABC1234", LastUpdate: base})

		bad := []*model.PositionSample{
			{Latitude: 1, Longitude: 1},                                          // missing plate
			{LicensePlate: "ABC1234", Latitude: 91, Longitude: 1},                // latitude out of range
			{LicensePlate: "ABC1234", Latitude: 1, Longitude: -181},              // longitude out of range
			{LicensePlate: "ABC1234", Latitude: 1, Longitude: 1, Speed: f64(-3)}, // negative speed
		}
		for _, sample := range bad {
			if _, err := svc.Ingest(ctx, sample); err == nil {
				t.Errorf("Ingest(%+v) accepted an invalid sample", sample)
			}
		}
	})
}
