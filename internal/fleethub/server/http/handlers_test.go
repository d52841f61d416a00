package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/broadcast"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/service"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/store/memory"
	"github.com/fleetrack-io/fleetrack/pkg/log"
	"github.com/fleetrack-io/fleetrack/pkg/options"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	b := broadcast.New(store.Vehicle().GetAll, log.NewNopLogger())
	t.Cleanup(b.Close)
	svc := service.New(store, b, log.NewNopLogger())
	return NewServer(options.NewHttpOptions(), svc, b), store
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestTrackingEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	err := store.Vehicle().Create(ctx, &model.Vehicle{
		ID:           "v1",
		Name:         "Truck 1",
		LicensePlate: "ABC1234",
		LastUpdate:   time.Now().Add(-10 * time.Second),
	})
	if err != nil {
		t.Fatalf("failed to seed vehicle: %v", err)
	}

	t.Run("accepts a sample", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/tracking", map[string]any{
			"licensePlate": "ABC1234",
			"latitude":     -23.5,
			"longitude":    -46.6,
			"speed":        55.0,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var summary model.VehicleSummary
		if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if summary.Status != model.StatusMoving || summary.CurrentSpeed != 55 {
			t.Errorf("summary = %+v, want moving at 55", summary)
		}
	})

	t.Run("unknown plate is 404", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/tracking", map[string]any{
			"licensePlate": "NOPE999",
			"latitude":     -23.5,
			"longitude":    -46.6,
		})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("invalid sample is 400", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/tracking", map[string]any{
			"licensePlate": "ABC1234",
			"latitude":     95.0,
			"longitude":    -46.6,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed JSON is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tracking", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		s.server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestVehicleEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/vehicles", model.Vehicle{
		Name:         "Truck 1",
		LicensePlate: "AAA1111",
		SpeedLimit:   80,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created model.Vehicle
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created vehicle: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created vehicle has no ID")
	}

	rec = doJSON(t, s, http.MethodGet, "/api/vehicles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []model.Vehicle
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list length = %d, want 1", len(list))
	}

	created.Name = "Truck 1B"
	rec = doJSON(t, s, http.MethodPut, "/api/vehicles/"+created.ID, created)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/vehicles/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got model.Vehicle
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Name != "Truck 1B" {
		t.Errorf("Name = %q, want Truck 1B", got.Name)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/vehicles/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/vehicles/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestGeofenceEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("rejects bad geometry", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/geofences", map[string]any{
			"name": "broken",
			"type": "circle",
		})
		if rec.Code == http.StatusCreated {
			t.Errorf("circle without geometry was accepted (status %d)", rec.Code)
		}
	})

	t.Run("creates and lists", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/geofences", map[string]any{
			"name":   "Depot",
			"type":   "circle",
			"active": true,
			"center": map[string]float64{"latitude": -23.5, "longitude": -46.6},
			"radius": 250,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, s, http.MethodGet, "/api/geofences", nil)
		var list []model.Geofence
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("failed to decode list: %v", err)
		}
		if len(list) != 1 || list[0].Name != "Depot" {
			t.Errorf("list = %+v, want one Depot fence", list)
		}
	})
}

func TestProbes(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
