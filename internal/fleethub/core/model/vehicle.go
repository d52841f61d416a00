// Package model holds the core business entities of the fleet hub, decoupled
// from any transport or storage representation.
package model

import "time"

// Status is the derived motion status of a vehicle.
type Status string

const (
	StatusMoving  Status = "moving"
	StatusIdle    Status = "idle"
	StatusStopped Status = "stopped"

	// StatusOffline is never derived from telemetry; only an external
	// liveness process marks vehicles offline.
	StatusOffline Status = "offline"
)

// Ignition is the on/off ignition state inferred from speed.
type Ignition string

const (
	IgnitionOn  Ignition = "on"
	IgnitionOff Ignition = "off"
)

// Vehicle represents one tracked vehicle together with its latest kinematic
// snapshot. The durable copy is owned by the record store; instances held by
// the hub are transient views for a single ingestion or simulation tick.
type Vehicle struct {
	// ID is the unique opaque identifier of the vehicle.
	ID string `json:"id"`

	// Name is a human-readable display name.
	Name string `json:"name"`

	// LicensePlate is the unique external identifier used to resolve
	// incoming position reports.
	LicensePlate string `json:"licensePlate"`

	// Model is an optional free-form vehicle model description.
	Model string `json:"model,omitempty"`

	Status   Status   `json:"status"`
	Ignition Ignition `json:"ignition"`

	// CurrentSpeed is in km/h, never negative.
	CurrentSpeed float64 `json:"currentSpeed"`

	// SpeedLimit is the configured limit for this vehicle, in km/h.
	SpeedLimit float64 `json:"speedLimit"`

	// Heading is in degrees, [0, 360).
	Heading float64 `json:"heading"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Accuracy is the reported GPS accuracy radius in meters.
	Accuracy float64 `json:"accuracy"`

	// BatteryLevel is the optional tracker battery percentage.
	BatteryLevel *float64 `json:"batteryLevel,omitempty"`

	// LastUpdate is the time of the last accepted position, live or simulated.
	LastUpdate time.Time `json:"lastUpdate"`
}

// Summary returns the compact view handed back to tracking submitters.
func (v *Vehicle) Summary() *VehicleSummary {
	return &VehicleSummary{
		ID:           v.ID,
		Name:         v.Name,
		LicensePlate: v.LicensePlate,
		Latitude:     v.Latitude,
		Longitude:    v.Longitude,
		CurrentSpeed: v.CurrentSpeed,
		Status:       v.Status,
		LastUpdate:   v.LastUpdate,
	}
}

// VehicleSummary is the compact acknowledgement returned for an ingested
// position report.
type VehicleSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LicensePlate string    `json:"licensePlate"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	CurrentSpeed float64   `json:"currentSpeed"`
	Status       Status    `json:"status"`
	LastUpdate   time.Time `json:"lastUpdate"`
}

// StatusForSpeed maps a speed in km/h onto the motion status thresholds:
// 0 is stopped, below 5 is idle, 5 and above is moving.
func StatusForSpeed(speedKmh float64) Status {
	switch {
	case speedKmh == 0:
		return StatusStopped
	case speedKmh < 5:
		return StatusIdle
	default:
		return StatusMoving
	}
}

// IgnitionForSpeed reports ignition on for any nonzero speed.
func IgnitionForSpeed(speedKmh float64) Ignition {
	if speedKmh > 0 {
		return IgnitionOn
	}
	return IgnitionOff
}
