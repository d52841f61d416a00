package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
	"github.com/fleetrack-io/fleetrack/internal/pkg/metrics"
)

// validate checks position samples at the ingestion boundary. Samples arrive
// from HTTP and MQTT alike, so validation lives here rather than in each
// transport adapter.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Ingest processes a single position sample for a known vehicle.
// Flow:
// 1. Validate the sample fields.
// 2. Look up the vehicle by license plate.
// 3. Derive speed, status and ignition from the sample and the previous fix.
// 4. Persist the updated vehicle and fan out the new fleet state.
func (s *Service) Ingest(ctx context.Context, sample *model.PositionSample) (*model.Vehicle, error) {
	if err := validate.Struct(sample); err != nil {
		metrics.IngestTotal.WithLabelValues("invalid", sourceOf(ctx)).Inc()
		return nil, fmt.Errorf("invalid position sample: %w", err)
	}

	vehicle, err := s.vehicle.GetByPlate(ctx, sample.LicensePlate)
	if err != nil {
		metrics.IngestTotal.WithLabelValues("unknown_vehicle", sourceOf(ctx)).Inc()
		return nil, fmt.Errorf("vehicle %q: %w", sample.LicensePlate, err)
	}

	applySample(vehicle, sample, time.Now())

	if err := s.vehicle.Update(ctx, vehicle); err != nil {
		metrics.IngestTotal.WithLabelValues("error", sourceOf(ctx)).Inc()
		return nil, fmt.Errorf("failed to update vehicle %q: %w", vehicle.ID, err)
	}

	metrics.IngestTotal.WithLabelValues("success", sourceOf(ctx)).Inc()
	s.notifyChange(ctx)

	return vehicle, nil
}

type sourceKey struct{}

// WithSource tags ctx with the ingestion source (http, mqtt, sim) for metrics.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func sourceOf(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok {
		return s
	}
	return "unknown"
}

// notifyChange pushes the current fleet state to subscribers. Fan-out is best
// effort; a fetch failure here is logged and does not fail the write that
// triggered it.
func (s *Service) notifyChange(ctx context.Context) {
	if s.publisher == nil {
		return
	}

	vehicles, err := s.vehicle.GetAll(ctx)
	if err != nil {
		s.logger.Error(err, "failed to fetch fleet state for broadcast")
		return
	}

	s.publisher.Publish(vehicles)
}
