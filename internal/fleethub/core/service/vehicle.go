package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
)

// RegisterVehicle handles the registration of a vehicle when it announces
// itself. Flow:
// 1. Check if a vehicle with this plate exists.
// 2. If not found, create it with sane initial state.
// 3. If found, treat it as a reconnection and leave the stored state alone.
func (s *Service) RegisterVehicle(ctx context.Context, v *model.Vehicle) error {
	if v.LicensePlate == "" {
		return fmt.Errorf("license plate is empty")
	}

	existing, err := s.vehicle.GetByPlate(ctx, v.LicensePlate)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			if v.ID == "" {
				v.ID = uuid.NewString()
			}
			if v.Status == "" {
				v.Status = model.StatusOffline
			}
			if v.Ignition == "" {
				v.Ignition = model.IgnitionOff
			}
			v.LastUpdate = time.Now()
			if err = s.vehicle.Create(ctx, v); err != nil {
				return fmt.Errorf("failed to create vehicle: %w", err)
			}
			s.logger.Info("registered vehicle", "plate", v.LicensePlate, "id", v.ID)
			s.notifyChange(ctx)
			return nil
		}
		return err
	}

	// Reconnection. Keep the stored record as the source of truth.
	*v = *existing
	return nil
}

// ListVehicles returns the full fleet.
func (s *Service) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	return s.vehicle.GetAll(ctx)
}

// GetVehicle returns a single vehicle by ID.
func (s *Service) GetVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	return s.vehicle.Get(ctx, id)
}

// CreateVehicle adds a vehicle to the fleet, assigning an ID when absent.
func (s *Service) CreateVehicle(ctx context.Context, v *model.Vehicle) error {
	if v.LicensePlate == "" {
		return fmt.Errorf("license plate is empty")
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = model.StatusOffline
	}
	if v.Ignition == "" {
		v.Ignition = model.IgnitionOff
	}
	v.LastUpdate = time.Now()

	if err := s.vehicle.Create(ctx, v); err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	s.notifyChange(ctx)
	return nil
}

// UpdateVehicle replaces the stored vehicle state.
func (s *Service) UpdateVehicle(ctx context.Context, v *model.Vehicle) error {
	if err := s.vehicle.Update(ctx, v); err != nil {
		return fmt.Errorf("failed to update vehicle %q: %w", v.ID, err)
	}
	s.notifyChange(ctx)
	return nil
}

// DeleteVehicle removes a vehicle from the fleet.
func (s *Service) DeleteVehicle(ctx context.Context, id string) error {
	if err := s.vehicle.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete vehicle %q: %w", id, err)
	}
	s.notifyChange(ctx)
	return nil
}
