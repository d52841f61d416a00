package service

import (
	"math"
	"time"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
	"github.com/fleetrack-io/fleetrack/pkg/geo"
)

// metersPerSecToKmh converts a m/s speed to km/h.
const metersPerSecToKmh = 3.6

// deriveSpeed resolves the effective speed for a sample.
// A non-zero reported speed always wins. When the device reports exactly zero
// the speed is estimated from displacement since the previous fix, because
// many trackers report 0 while moving. If no time has elapsed the previous
// speed is kept.
func deriveSpeed(prev *model.Vehicle, sample *model.PositionSample, at time.Time) float64 {
	reported := sample.ReportedSpeed()
	if reported != 0 {
		return reported
	}
	if prev == nil {
		return 0
	}

	elapsed := at.Sub(prev.LastUpdate).Seconds()
	if elapsed <= 0 {
		return prev.CurrentSpeed
	}

	distance := geo.DistanceMeters(prev.Latitude, prev.Longitude, sample.Latitude, sample.Longitude)
	return math.Round(distance / elapsed * metersPerSecToKmh)
}

// applySample folds a position sample into the vehicle, deriving speed,
// status and ignition. prev may be the same pointer as vehicle; the previous
// position and timestamp are read before any field is written.
func applySample(vehicle *model.Vehicle, sample *model.PositionSample, now time.Time) {
	at := sample.At(now)
	speed := deriveSpeed(vehicle, sample, at)

	vehicle.Latitude = sample.Latitude
	vehicle.Longitude = sample.Longitude
	vehicle.CurrentSpeed = speed
	vehicle.Status = model.StatusForSpeed(speed)
	vehicle.Ignition = model.IgnitionForSpeed(speed)
	vehicle.LastUpdate = at

	if sample.Heading != nil {
		vehicle.Heading = *sample.Heading
	}
	if sample.Accuracy != nil {
		vehicle.Accuracy = *sample.Accuracy
	}
	if sample.BatteryLevel != nil {
		vehicle.BatteryLevel = sample.BatteryLevel
	}
}
