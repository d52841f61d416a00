package service

import (
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/pkg/log"
)

// Service implements the core business logic (Use Cases) for FleetHub.
// It orchestrates calls between the Model entities and the Adapters (Ports).
type Service struct {
	vehicle   core.VehicleRepository
	geofence  core.GeofenceRepository
	publisher core.ChangePublisher
	logger    log.Logger
}

// New creates a new instance of the FleetHub core service.
// Dependency Injection happens here.
func New(
	repo core.Repository,
	publisher core.ChangePublisher,
	logger log.Logger,
) *Service {
	if logger == nil {
		logger = log.Std()
	}
	return &Service{
		vehicle:   repo.Vehicle(),
		geofence:  repo.Geofence(),
		publisher: publisher,
		logger:    logger.WithName("service"),
	}
}
