package geo

import (
	"math"
	"testing"
)

func TestDistanceMetersIdentity(t *testing.T) {
	coords := [][2]float64{
		{0, 0},
		{-23.5505, -46.6333},
		{89.9, 179.9},
		{-89.9, -179.9},
	}

	for _, c := range coords {
		if d := DistanceMeters(c[0], c[1], c[0], c[1]); d != 0 {
			t.Errorf("DistanceMeters(%v, %v, same) = %v, want 0", c[0], c[1], d)
		}
	}
}

func TestDistanceMetersSymmetry(t *testing.T) {
	a := [2]float64{-23.5005, -46.6005}
	b := [2]float64{-23.5505, -46.6333}

	ab := DistanceMeters(a[0], a[1], b[0], b[1])
	ba := DistanceMeters(b[0], b[1], a[0], a[1])
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("asymmetric distance: ab=%v ba=%v", ab, ba)
	}
}

func TestDistanceMetersKnown(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tol                    float64
	}{
		// One degree of latitude along a meridian is ~111.19 km for R=6371 km.
		{"one degree latitude", 0, 0, 1, 0, 111195, 10},
		// Short urban hop used throughout the tracking tests.
		{"sao paulo block", -23.5005, -46.6005, -23.5000, -46.6000, 75.5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("DistanceMeters() = %v, want %v ± %v", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDegToRad(t *testing.T) {
	if got := DegToRad(180); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("DegToRad(180) = %v, want pi", got)
	}
	if got := DegToRad(0); got != 0 {
		t.Errorf("DegToRad(0) = %v, want 0", got)
	}
}
