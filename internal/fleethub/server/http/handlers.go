package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/model"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/service"
)

// maxBodyBytes bounds request bodies on the JSON API.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(err, "failed to encode response")
	}
}

// writeError maps the store error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case isValidationError(err):
		status = http.StatusBadRequest
	default:
		switch core.KindOf(err) {
		case core.KindNotFound:
			status = http.StatusNotFound
		case core.KindUnavailable:
			status = http.StatusServiceUnavailable
		default:
			status = http.StatusInternalServerError
		}
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func isValidationError(err error) bool {
	var verr validator.ValidationErrors
	return errors.As(err, &verr)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	var sample model.PositionSample
	if !s.decode(w, r, &sample) {
		return
	}

	ctx := service.WithSource(r.Context(), "http")
	vehicle, err := s.svc.Ingest(ctx, &sample)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, vehicle.Summary())
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.svc.ListVehicles(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if vehicles == nil {
		vehicles = []model.Vehicle{}
	}
	s.writeJSON(w, http.StatusOK, vehicles)
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := s.svc.GetVehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, vehicle)
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle model.Vehicle
	if !s.decode(w, r, &vehicle) {
		return
	}
	if err := s.svc.CreateVehicle(r.Context(), &vehicle); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &vehicle)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle model.Vehicle
	if !s.decode(w, r, &vehicle) {
		return
	}
	vehicle.ID = mux.Vars(r)["id"]
	if err := s.svc.UpdateVehicle(r.Context(), &vehicle); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &vehicle)
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteVehicle(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGeofences(w http.ResponseWriter, r *http.Request) {
	fences, err := s.svc.ListGeofences(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if fences == nil {
		fences = []model.Geofence{}
	}
	s.writeJSON(w, http.StatusOK, fences)
}

func (s *Server) handleGetGeofence(w http.ResponseWriter, r *http.Request) {
	fence, err := s.svc.GetGeofence(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, fence)
}

func (s *Server) handleCreateGeofence(w http.ResponseWriter, r *http.Request) {
	var fence model.Geofence
	if !s.decode(w, r, &fence) {
		return
	}
	if err := s.svc.CreateGeofence(r.Context(), &fence); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &fence)
}

func (s *Server) handleUpdateGeofence(w http.ResponseWriter, r *http.Request) {
	var fence model.Geofence
	if !s.decode(w, r, &fence) {
		return
	}
	fence.ID = mux.Vars(r)["id"]
	if err := s.svc.UpdateGeofence(r.Context(), &fence); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &fence)
}

func (s *Server) handleDeleteGeofence(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteGeofence(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
