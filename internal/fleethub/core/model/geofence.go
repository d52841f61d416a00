package model

import "time"

// GeofenceType distinguishes circular from polygonal zones.
type GeofenceType string

const (
	GeofenceCircle  GeofenceType = "circle"
	GeofencePolygon GeofenceType = "polygon"
)

// GeofenceRuleType enumerates the rule kinds a zone can carry.
type GeofenceRuleType string

const (
	RuleEntry         GeofenceRuleType = "entry"
	RuleExit          GeofenceRuleType = "exit"
	RuleDwell         GeofenceRuleType = "dwell"
	RuleTimeViolation GeofenceRuleType = "time_violation"
)

// LatLng is a bare coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeofenceRule describes one rule attached to a geofence. Rules are carried
// as configuration data only; the hub does not evaluate containment.
type GeofenceRule struct {
	Type    GeofenceRuleType `json:"type"`
	Enabled bool             `json:"enabled"`

	DwellTimeMinutes *int    `json:"dwellTimeMinutes,omitempty"`
	StartTime        *string `json:"startTime,omitempty"`
	EndTime          *string `json:"endTime,omitempty"`
	ToleranceSeconds *int    `json:"toleranceSeconds,omitempty"`
}

// Geofence models a named zone bound to a set of vehicles.
type Geofence struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Type        GeofenceType `json:"type"`
	Active      bool         `json:"active"`

	// Center and Radius describe circle zones; Points describes polygons.
	Center *LatLng  `json:"center,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
	Points []LatLng `json:"points,omitempty"`

	Rules      []GeofenceRule `json:"rules"`
	VehicleIDs []string       `json:"vehicleIds"`

	LastTriggered *time.Time `json:"lastTriggered,omitempty"`
	Color         string     `json:"color,omitempty"`
}
