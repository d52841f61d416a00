package duckdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Options{
		Path:      filepath.Join(t.TempDir(), "fleet.db"),
		OpTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestVehicleRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Vehicle()

	battery := 87.5
	v := &model.Vehicle{
		ID:           "v1",
		Name:         "Truck 1",
		LicensePlate: "AAA1111",
		Model:        "Scania R450",
		Status:       model.StatusMoving,
		Ignition:     model.IgnitionOn,
		CurrentSpeed: 62.5,
		SpeedLimit:   80,
		Heading:      135,
		Latitude:     -23.5,
		Longitude:    -46.6,
		Accuracy:     3.5,
		BatteryLevel: &battery,
		LastUpdate:   time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.Create(ctx, v); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByPlate(ctx, "AAA1111")
	if err != nil {
		t.Fatalf("GetByPlate() error = %v", err)
	}
	if got.Model != v.Model || got.CurrentSpeed != v.CurrentSpeed || got.Status != v.Status {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if got.BatteryLevel == nil || *got.BatteryLevel != battery {
		t.Errorf("BatteryLevel = %v, want %v", got.BatteryLevel, battery)
	}
	if !got.LastUpdate.Equal(v.LastUpdate) {
		t.Errorf("LastUpdate = %v, want %v", got.LastUpdate, v.LastUpdate)
	}

	got.CurrentSpeed = 0
	got.Status = model.StatusStopped
	got.BatteryLevel = nil
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	again, err := repo.Get(ctx, "v1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Status != model.StatusStopped || again.BatteryLevel != nil {
		t.Errorf("update not persisted: %+v", again)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("GetAll() returned %d vehicles, want 1", len(all))
	}

	if err := repo.Delete(ctx, "v1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, "v1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
}

func TestVehicleNotFoundTaxonomy(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Vehicle()

	_, err := repo.GetByPlate(ctx, "NOPE")
	if core.KindOf(err) != core.KindNotFound {
		t.Errorf("KindOf = %v, want KindNotFound", core.KindOf(err))
	}
	if err := repo.Update(ctx, &model.Vehicle{ID: "missing"}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Update(missing) = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
	}
}

func TestGeofenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Geofence()

	dwell := 15
	fence := &model.Geofence{
		ID:          "g1",
		Name:        "Depot",
		Description: "main yard",
		Type:        model.GeofencePolygon,
		Active:      true,
		Points: []model.LatLng{
			{Latitude: -23.50, Longitude: -46.60},
			{Latitude: -23.51, Longitude: -46.60},
			{Latitude: -23.51, Longitude: -46.61},
		},
		Rules: []model.GeofenceRule{
			{Type: model.RuleEntry, Enabled: true},
			{Type: model.RuleDwell, Enabled: true, DwellTimeMinutes: &dwell},
		},
		VehicleIDs: []string{"v1", "v2"},
		Color:      "#ff0000",
	}
	if err := repo.Create(ctx, fence); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Points) != 3 || len(got.Rules) != 2 || len(got.VehicleIDs) != 2 {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.Rules[1].DwellTimeMinutes == nil || *got.Rules[1].DwellTimeMinutes != 15 {
		t.Errorf("dwell rule = %+v, want 15 minutes", got.Rules[1])
	}

	got.Active = false
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	got.LastTriggered = &now
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	again, _ := repo.Get(ctx, "g1")
	if again.Active || again.LastTriggered == nil {
		t.Errorf("update not persisted: %+v", again)
	}

	if err := repo.Delete(ctx, "g1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, "g1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
}
