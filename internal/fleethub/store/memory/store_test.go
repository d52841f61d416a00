package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
)

func TestVehicleRepository(t *testing.T) {
	ctx := context.Background()
	repo := New().Vehicle()

	v := &model.Vehicle{ID: "v1", Name: "Truck 1", LicensePlate: "AAA1111"}
	if err := repo.Create(ctx, v); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("lookup by id and plate", func(t *testing.T) {
		got, err := repo.Get(ctx, "v1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Name != "Truck 1" {
			t.Errorf("Name = %q, want %q", got.Name, "Truck 1")
		}

		got, err = repo.GetByPlate(ctx, "AAA1111")
		if err != nil {
			t.Fatalf("GetByPlate() error = %v", err)
		}
		if got.ID != "v1" {
			t.Errorf("ID = %q, want v1", got.ID)
		}
	})

	t.Run("returned values are copies", func(t *testing.T) {
		got, _ := repo.Get(ctx, "v1")
		got.Name = "mutated"
		again, _ := repo.Get(ctx, "v1")
		if again.Name != "Truck 1" {
			t.Error("store leaked internal state to a caller")
		}
	})

	t.Run("plate index follows updates", func(t *testing.T) {
		v.LicensePlate = "BBB2222"
		if err := repo.Update(ctx, v); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if _, err := repo.GetByPlate(ctx, "AAA1111"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("old plate still resolves: %v", err)
		}
		if _, err := repo.GetByPlate(ctx, "BBB2222"); err != nil {
			t.Errorf("new plate does not resolve: %v", err)
		}
	})

	t.Run("not found taxonomy", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing")
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Get(missing) = %v, want ErrNotFound", err)
		}
		if core.KindOf(err) != core.KindNotFound {
			t.Errorf("KindOf = %v, want KindNotFound", core.KindOf(err))
		}
		if err := repo.Update(ctx, &model.Vehicle{ID: "missing"}); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Update(missing) = %v, want ErrNotFound", err)
		}
		if err := repo.Delete(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete clears the plate index", func(t *testing.T) {
		if err := repo.Delete(ctx, "v1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.GetByPlate(ctx, "BBB2222"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("plate still resolves after delete: %v", err)
		}
		all, err := repo.GetAll(ctx)
		if err != nil || len(all) != 0 {
			t.Errorf("GetAll() = (%v, %v), want empty", all, err)
		}
	})
}

func TestGeofenceRepository(t *testing.T) {
	ctx := context.Background()
	repo := New().Geofence()

	radius := 250.0
	fence := &model.Geofence{
		ID:     "g1",
		Name:   "Depot",
		Type:   model.GeofenceCircle,
		Active: true,
		Center: &model.LatLng{Latitude: -23.5, Longitude: -46.6},
		Radius: &radius,
	}
	if err := repo.Create(ctx, fence); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Center == nil || got.Center.Latitude != -23.5 {
		t.Errorf("Center = %+v, want (-23.5, -46.6)", got.Center)
	}

	got.Active = false
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	again, _ := repo.Get(ctx, "g1")
	if again.Active {
		t.Error("update not persisted")
	}

	if err := repo.Delete(ctx, "g1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, "g1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
}
