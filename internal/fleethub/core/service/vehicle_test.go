package service

import (
	"context"
	"testing"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
)

func TestRegisterVehicle(t *testing.T) {
	ctx := context.Background()

	t.Run("first contact creates the vehicle", func(t *testing.T) {
		svc, store, pub := newTestService(t)

		v := &model.Vehicle{Name: "Van 7", LicensePlate: "XYZ7777"}
		if err := svc.RegisterVehicle(ctx, v); err != nil {
			t.Fatalf("RegisterVehicle() error = %v", err)
		}
		if v.ID == "" {
			t.Error("expected an assigned ID")
		}
		if v.Status != model.StatusOffline || v.Ignition != model.IgnitionOff {
			t.Errorf("initial state = (%v, %v), want (offline, off)", v.Status, v.Ignition)
		}
		if _, err := store.Vehicle().GetByPlate(ctx, "XYZ7777"); err != nil {
			t.Errorf("vehicle not stored: %v", err)
		}
		if pub.count() != 1 {
			t.Errorf("published %d events, want 1", pub.count())
		}
	})

	t.Run("reconnection keeps stored state", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		seedVehicle(t, store, &model.Vehicle{
			ID: "v1", Name: "Van 7", LicensePlate: "XYZ7777",
			Status: model.StatusMoving, CurrentSpeed: 42,
		})

		v := &model.Vehicle{Name: "renamed", LicensePlate: "XYZ7777"}
		if err := svc.RegisterVehicle(ctx, v); err != nil {
			t.Fatalf("RegisterVehicle() error = %v", err)
		}
		if v.ID != "v1" || v.Name != "Van 7" || v.CurrentSpeed != 42 {
			t.Errorf("reconnection overwrote stored state: %+v", v)
		}
	})

	t.Run("empty plate rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		if err := svc.RegisterVehicle(ctx, &model.Vehicle{Name: "no plate"}); err == nil {
			t.Error("expected an error for a missing plate")
		}
	})
}

func TestVehicleCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestService(t)

	v := &model.Vehicle{Name: "Truck 1", LicensePlate: "AAA1111", SpeedLimit: 80}
	if err := svc.CreateVehicle(ctx, v); err != nil {
		t.Fatalf("CreateVehicle() error = %v", err)
	}

	got, err := svc.GetVehicle(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVehicle() error = %v", err)
	}
	if got.SpeedLimit != 80 {
		t.Errorf("SpeedLimit = %v, want 80", got.SpeedLimit)
	}

	got.Name = "Truck 1B"
	if err := svc.UpdateVehicle(ctx, got); err != nil {
		t.Fatalf("UpdateVehicle() error = %v", err)
	}

	all, err := svc.ListVehicles(ctx)
	if err != nil {
		t.Fatalf("ListVehicles() error = %v", err)
	}
	if len(all) != 1 || all[0].Name != "Truck 1B" {
		t.Errorf("ListVehicles() = %+v, want one renamed vehicle", all)
	}

	if err := svc.DeleteVehicle(ctx, v.ID); err != nil {
		t.Fatalf("DeleteVehicle() error = %v", err)
	}
	if _, err := svc.GetVehicle(ctx, v.ID); core.KindOf(err) != core.KindNotFound {
		t.Errorf("GetVehicle() after delete = %v, want not found", err)
	}

	// create, update and delete each fan out.
	if pub.count() != 3 {
		t.Errorf("published %d events, want 3", pub.count())
	}
}
