package model

import "time"

// PositionSample is one raw telemetry report for a vehicle, keyed by license
// plate. It is consumed once by the ingestion path and never stored.
//
// Validation tags are enforced once at the ingestion boundary, regardless of
// which transport (HTTP or MQTT) delivered the sample.
type PositionSample struct {
	LicensePlate string  `json:"licensePlate" validate:"required"`
	Latitude     float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64 `json:"longitude" validate:"gte=-180,lte=180"`

	// Speed is the reported speed in km/h. Zero or absent means the hub
	// falls back to a displacement-based estimate.
	Speed *float64 `json:"speed,omitempty" validate:"omitempty,gte=0"`

	// Heading in degrees; absent keeps the previous heading.
	Heading *float64 `json:"heading,omitempty" validate:"omitempty,gte=0,lte=360"`

	// Accuracy radius in meters; absent keeps the previous accuracy.
	Accuracy *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`

	// BatteryLevel percentage; absent keeps the previous level.
	BatteryLevel *float64 `json:"batteryLevel,omitempty" validate:"omitempty,gte=0,lte=100"`

	// Timestamp of the fix; absent means arrival time.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ReportedSpeed returns the sample's speed, treating an absent value as zero.
func (s *PositionSample) ReportedSpeed() float64 {
	if s.Speed == nil {
		return 0
	}
	return *s.Speed
}

// At returns the sample's effective timestamp, defaulting to now.
func (s *PositionSample) At(now time.Time) time.Time {
	if s.Timestamp == nil || s.Timestamp.IsZero() {
		return now
	}
	return *s.Timestamp
}
