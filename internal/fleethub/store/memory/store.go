// Package memory provides an in-process implementation of the persistence
// ports. It backs tests and demo deployments where no database is wanted.
package memory

import (
	"context"
	"sync"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
)

// Store holds all state behind a single mutex. Values are copied in and out
// so callers never share memory with the store.
type Store struct {
	mu        sync.RWMutex
	vehicles  map[string]model.Vehicle
	byPlate   map[string]string
	geofences map[string]model.Geofence
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		vehicles:  make(map[string]model.Vehicle),
		byPlate:   make(map[string]string),
		geofences: make(map[string]model.Geofence),
	}
}

// Vehicle returns the vehicle repository port.
func (s *Store) Vehicle() core.VehicleRepository { return (*vehicleRepo)(s) }

// Geofence returns the geofence repository port.
func (s *Store) Geofence() core.GeofenceRepository { return (*geofenceRepo)(s) }

type vehicleRepo Store

func (r *vehicleRepo) GetAll(ctx context.Context) ([]model.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (r *vehicleRepo) Get(ctx context.Context, id string) (*model.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, core.NewStoreError(core.KindNotFound, "vehicle.get", nil)
	}
	return &v, nil
}

func (r *vehicleRepo) GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPlate[plate]
	if !ok {
		return nil, core.NewStoreError(core.KindNotFound, "vehicle.get_by_plate", nil)
	}
	v := r.vehicles[id]
	return &v, nil
}

func (r *vehicleRepo) Create(ctx context.Context, vehicle *model.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles[vehicle.ID] = *vehicle
	r.byPlate[vehicle.LicensePlate] = vehicle.ID
	return nil
}

func (r *vehicleRepo) Update(ctx context.Context, vehicle *model.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.vehicles[vehicle.ID]
	if !ok {
		return core.NewStoreError(core.KindNotFound, "vehicle.update", nil)
	}
	if old.LicensePlate != vehicle.LicensePlate {
		delete(r.byPlate, old.LicensePlate)
		r.byPlate[vehicle.LicensePlate] = vehicle.ID
	}
	r.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *vehicleRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return core.NewStoreError(core.KindNotFound, "vehicle.delete", nil)
	}
	delete(r.byPlate, v.LicensePlate)
	delete(r.vehicles, id)
	return nil
}

type geofenceRepo Store

func (r *geofenceRepo) GetAll(ctx context.Context) ([]model.Geofence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Geofence, 0, len(r.geofences))
	for _, f := range r.geofences {
		out = append(out, f)
	}
	return out, nil
}

func (r *geofenceRepo) Get(ctx context.Context, id string) (*model.Geofence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.geofences[id]
	if !ok {
		return nil, core.NewStoreError(core.KindNotFound, "geofence.get", nil)
	}
	return &f, nil
}

func (r *geofenceRepo) Create(ctx context.Context, fence *model.Geofence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.geofences[fence.ID] = *fence
	return nil
}

func (r *geofenceRepo) Update(ctx context.Context, fence *model.Geofence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.geofences[fence.ID]; !ok {
		return core.NewStoreError(core.KindNotFound, "geofence.update", nil)
	}
	r.geofences[fence.ID] = *fence
	return nil
}

func (r *geofenceRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.geofences[id]; !ok {
		return core.NewStoreError(core.KindNotFound, "geofence.delete", nil)
	}
	delete(r.geofences, id)
	return nil
}
