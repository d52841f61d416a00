package mqtt

import (
	"context"
	"encoding/json"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/service"
)

// handleTelemetry processes one position sample published on
// {root}/telemetry/{plate}. The plate in the topic wins over any plate in
// the payload, so a tracker cannot report for another vehicle by accident.
func (s *Server) handleTelemetry(ctx context.Context, topicName string, payload []byte) {
	var sample model.PositionSample
	if err := json.Unmarshal(payload, &sample); err != nil {
		s.logger.Error(err, "malformed telemetry payload", "topic", topicName)
		return
	}

	if plate := s.topics.Identifier(topicName); plate != "" {
		sample.LicensePlate = plate
	}

	ctx = service.WithSource(ctx, "mqtt")
	if _, err := s.svc.Ingest(ctx, &sample); err != nil {
		s.logger.Error(err, "failed to ingest telemetry", "plate", sample.LicensePlate)
	}
}

// registration is the announcement payload on {root}/register/{plate}.
type registration struct {
	Name       string  `json:"name"`
	Model      string  `json:"model,omitempty"`
	SpeedLimit float64 `json:"speedLimit,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
}

// handleRegister creates the vehicle on first contact. Re-announcements from
// known vehicles are no-ops.
func (s *Server) handleRegister(ctx context.Context, topicName string, payload []byte) {
	plate := s.topics.Identifier(topicName)
	if plate == "" {
		s.logger.Warn("registration without a plate segment", "topic", topicName)
		return
	}

	var reg registration
	if err := json.Unmarshal(payload, &reg); err != nil {
		s.logger.Error(err, "malformed registration payload", "topic", topicName)
		return
	}

	name := reg.Name
	if name == "" {
		name = plate
	}
	vehicle := &model.Vehicle{
		Name:         name,
		LicensePlate: plate,
		Model:        reg.Model,
		SpeedLimit:   reg.SpeedLimit,
		Latitude:     reg.Latitude,
		Longitude:    reg.Longitude,
	}
	if err := s.svc.RegisterVehicle(ctx, vehicle); err != nil {
		s.logger.Error(err, "failed to register vehicle", "plate", plate)
	}
}
