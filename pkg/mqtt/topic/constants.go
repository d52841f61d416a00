package topic

// Standard MQTT wildcard definitions.
const (
	// Wildcard is the single-level wildcard "+".
	// It matches exactly one topic level.
	// Example: "fleet/v1/telemetry/+" matches "fleet/v1/telemetry/ABC-1234".
	Wildcard = "+"

	// MultiWildcard is the multi-level wildcard "#".
	// It matches the current level and all subsequent levels and must be
	// the last character in the topic filter.
	MultiWildcard = "#"
)
