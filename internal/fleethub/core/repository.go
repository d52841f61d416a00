package core

import (
	"context"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
)

// VehicleRepository defines the interface for interacting with vehicle
// persistent data. In FleetTrack, this is implemented by the DuckDB adapter
// (or the in-memory adapter for tests and demos).
type VehicleRepository interface {
	// GetAll returns every vehicle in the fleet.
	GetAll(ctx context.Context) ([]model.Vehicle, error)

	// Get retrieves a vehicle by its ID.
	Get(ctx context.Context, id string) (*model.Vehicle, error)

	// GetByPlate retrieves a vehicle by its license plate.
	GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error)

	// Create registers a new vehicle in the system.
	Create(ctx context.Context, vehicle *model.Vehicle) error

	// Update replaces the stored vehicle state.
	Update(ctx context.Context, vehicle *model.Vehicle) error

	// Delete removes a vehicle.
	Delete(ctx context.Context, id string) error
}

// GeofenceRepository defines the interface for geofence persistent data.
type GeofenceRepository interface {
	GetAll(ctx context.Context) ([]model.Geofence, error)
	Get(ctx context.Context, id string) (*model.Geofence, error)
	Create(ctx context.Context, fence *model.Geofence) error
	Update(ctx context.Context, fence *model.Geofence) error
	Delete(ctx context.Context, id string) error
}

// Repository aggregates the persistence ports injected into the core service.
type Repository interface {
	Vehicle() VehicleRepository
	Geofence() GeofenceRepository
}
