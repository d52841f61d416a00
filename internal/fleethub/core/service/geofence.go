package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
)

// ListGeofences returns every stored geofence.
func (s *Service) ListGeofences(ctx context.Context) ([]model.Geofence, error) {
	return s.geofence.GetAll(ctx)
}

// GetGeofence returns a single geofence by ID.
func (s *Service) GetGeofence(ctx context.Context, id string) (*model.Geofence, error) {
	return s.geofence.Get(ctx, id)
}

// CreateGeofence stores a new geofence, assigning an ID when absent.
func (s *Service) CreateGeofence(ctx context.Context, fence *model.Geofence) error {
	if fence.Name == "" {
		return fmt.Errorf("geofence name is empty")
	}
	if err := validateGeometry(fence); err != nil {
		return err
	}
	if fence.ID == "" {
		fence.ID = uuid.NewString()
	}
	if err := s.geofence.Create(ctx, fence); err != nil {
		return fmt.Errorf("failed to create geofence: %w", err)
	}
	return nil
}

// UpdateGeofence replaces a stored geofence.
func (s *Service) UpdateGeofence(ctx context.Context, fence *model.Geofence) error {
	if err := validateGeometry(fence); err != nil {
		return err
	}
	if err := s.geofence.Update(ctx, fence); err != nil {
		return fmt.Errorf("failed to update geofence %q: %w", fence.ID, err)
	}
	return nil
}

// DeleteGeofence removes a geofence.
func (s *Service) DeleteGeofence(ctx context.Context, id string) error {
	if err := s.geofence.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete geofence %q: %w", id, err)
	}
	return nil
}

// validateGeometry checks that the fence geometry matches its declared type.
func validateGeometry(fence *model.Geofence) error {
	switch fence.Type {
	case model.GeofenceCircle:
		if fence.Center == nil || fence.Radius == nil || *fence.Radius <= 0 {
			return fmt.Errorf("circle geofence requires a center and a positive radius")
		}
	case model.GeofencePolygon:
		if len(fence.Points) < 3 {
			return fmt.Errorf("polygon geofence requires at least 3 points")
		}
	default:
		return fmt.Errorf("unknown geofence type %q", fence.Type)
	}
	return nil
}
