package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/broadcast"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/core/service"
	"github.com/fleetrack-io/fleetrack/pkg/log"
	"github.com/fleetrack-io/fleetrack/pkg/options"
)

// Server is the HTTP ingress layer: the tracking endpoint, the management
// REST API, the WebSocket fan-out and the operational probes.
type Server struct {
	server      *http.Server
	options     *options.HttpOptions
	svc         *service.Service
	broadcaster *broadcast.Broadcaster
	logger      log.Logger
}

// NewServer wires the router and returns a server ready to Start.
func NewServer(opts *options.HttpOptions, svc *service.Service, broadcaster *broadcast.Broadcaster) *Server {
	s := &Server{
		options:     opts,
		svc:         svc,
		broadcaster: broadcaster,
		logger:      log.WithName("http"),
	}

	r := mux.NewRouter()

	// Basic Liveness Probe
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// Readiness Probe: fails while the record store is unreachable.
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tracking", s.handleTracking).Methods(http.MethodPost)

	api.HandleFunc("/vehicles", s.handleListVehicles).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", s.handleCreateVehicle).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id}", s.handleGetVehicle).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", s.handleUpdateVehicle).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{id}", s.handleDeleteVehicle).Methods(http.MethodDelete)

	api.HandleFunc("/geofences", s.handleListGeofences).Methods(http.MethodGet)
	api.HandleFunc("/geofences", s.handleCreateGeofence).Methods(http.MethodPost)
	api.HandleFunc("/geofences/{id}", s.handleGetGeofence).Methods(http.MethodGet)
	api.HandleFunc("/geofences/{id}", s.handleUpdateGeofence).Methods(http.MethodPut)
	api.HandleFunc("/geofences/{id}", s.handleDeleteGeofence).Methods(http.MethodDelete)

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: 0, // WebSocket connections are long-lived
	}
	return s
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting HTTP server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.svc.ListVehicles(ctx); err != nil {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
