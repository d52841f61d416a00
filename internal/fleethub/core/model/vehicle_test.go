package model

import (
	"testing"
	"time"
)

func TestStatusForSpeed(t *testing.T) {
	tests := []struct {
		speed float64
		want  Status
	}{
		{0, StatusStopped},
		{0.1, StatusIdle},
		{4.9, StatusIdle},
		{5, StatusMoving},
		{120, StatusMoving},
	}

	for _, tt := range tests {
		if got := StatusForSpeed(tt.speed); got != tt.want {
			t.Errorf("StatusForSpeed(%v) = %v, want %v", tt.speed, got, tt.want)
		}
	}
}

func TestIgnitionForSpeed(t *testing.T) {
	if IgnitionForSpeed(0) != IgnitionOff {
		t.Error("IgnitionForSpeed(0) = on, want off")
	}
	if IgnitionForSpeed(0.1) != IgnitionOn {
		t.Error("IgnitionForSpeed(0.1) = off, want on")
	}
}

func TestSampleDefaults(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("missing speed is zero", func(t *testing.T) {
		s := &PositionSample{}
		if s.ReportedSpeed() != 0 {
			t.Errorf("ReportedSpeed() = %v, want 0", s.ReportedSpeed())
		}
	})

	t.Run("missing timestamp falls back to now", func(t *testing.T) {
		s := &PositionSample{}
		if !s.At(now).Equal(now) {
			t.Errorf("At() = %v, want %v", s.At(now), now)
		}
	})

	t.Run("zero timestamp falls back to now", func(t *testing.T) {
		var zero time.Time
		s := &PositionSample{Timestamp: &zero}
		if !s.At(now).Equal(now) {
			t.Errorf("At() = %v, want %v", s.At(now), now)
		}
	})

	t.Run("explicit timestamp wins", func(t *testing.T) {
		ts := now.Add(-time.Minute)
		s := &PositionSample{Timestamp: &ts}
		if !s.At(now).Equal(ts) {
			t.Errorf("At() = %v, want %v", s.At(now), ts)
		}
	})
}

func TestSummary(t *testing.T) {
	v := &Vehicle{
		ID: "v1", Name: "Truck 1", LicensePlate: "AAA1111",
		Latitude: -23.5, Longitude: -46.6,
		CurrentSpeed: 55, Status: StatusMoving,
		LastUpdate: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
	s := v.Summary()
	if s.ID != v.ID || s.LicensePlate != v.LicensePlate || s.CurrentSpeed != 55 {
		t.Errorf("Summary() = %+v", s)
	}
}
