package model

// ChangeEventType is the envelope discriminator understood by viewers.
const ChangeEventType = "vehicles"

// ChangeEvent is the wire envelope pushed to every subscriber whenever fleet
// state changes. It carries the full current vehicle set and exists only on
// the wire between the broadcaster and its subscribers.
type ChangeEvent struct {
	Type string    `json:"type"`
	Data []Vehicle `json:"data"`
}

// NewChangeEvent wraps a vehicle set in the standard envelope.
func NewChangeEvent(vehicles []Vehicle) *ChangeEvent {
	return &ChangeEvent{
		Type: ChangeEventType,
		Data: vehicles,
	}
}
