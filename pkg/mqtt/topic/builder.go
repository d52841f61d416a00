package topic

import (
	"fmt"
)

// Constants defining the standard topic segments. These act as the protocol
// contract between the hub and reporting devices; changing them breaks
// deployed trackers.
const (
	// SuffixTelemetry carries upstream position samples (Device -> Hub).
	// Structure: {root}/telemetry/{plate}
	SuffixTelemetry = "telemetry"

	// SuffixRegister carries upstream device registration (Device -> Hub).
	// Structure: {root}/register/{plate}
	SuffixRegister = "register"

	// SuffixFleetState carries the downstream full fleet snapshot
	// (Hub -> Viewers). Structure: {root}/fleet/state
	SuffixFleetState = "fleet/state"
)

// Builder encapsulates the logic for constructing MQTT topic strings, keeping
// the layout consistent across the ingress server and the notifier.
type Builder struct {
	// root is the base namespace for all topics (e.g., "fleet/v1").
	root string
}

// NewBuilder creates a new Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// Telemetry returns the topic a specific vehicle publishes position samples on.
// Direction: Device -> Hub
func (b *Builder) Telemetry(plate string) string {
	return b.build(SuffixTelemetry, plate)
}

// TelemetryWildcard returns the filter the hub subscribes to for all telemetry.
// Result: {root}/telemetry/+
func (b *Builder) TelemetryWildcard() string {
	return b.build(SuffixTelemetry, Wildcard)
}

// Register returns the topic a vehicle announces itself on.
// Direction: Device -> Hub
func (b *Builder) Register(plate string) string {
	return b.build(SuffixRegister, plate)
}

// RegisterWildcard returns the filter the hub subscribes to for all registrations.
// Result: {root}/register/+
func (b *Builder) RegisterWildcard() string {
	return b.build(SuffixRegister, Wildcard)
}

// FleetState returns the topic the hub republishes fleet snapshots on.
// Direction: Hub -> Viewers
func (b *Builder) FleetState() string {
	return fmt.Sprintf("%s/%s", b.root, SuffixFleetState)
}

// Identifier extracts the trailing identifier segment from a concrete topic,
// e.g. the plate from {root}/telemetry/{plate}. Returns "" when the topic has
// no trailing segment.
func (b *Builder) Identifier(topic string) string {
	for i := len(topic) - 1; i >= 0; i-- {
		if topic[i] == '/' {
			return topic[i+1:]
		}
	}
	return ""
}

// build constructs the final topic string.
// Pattern: {root}/{suffix}/{identifier}
func (b *Builder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}
