package core

import (
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
)

// ChangePublisher defines the interface for fanning out fleet state changes
// to connected viewers. In FleetTrack, this is implemented by the Broadcaster.
type ChangePublisher interface {
	// Publish delivers the current vehicle set to every subscriber.
	// Publish never blocks on slow subscribers.
	Publish(vehicles []model.Vehicle)
}
