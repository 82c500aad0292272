// Package api exposes the read projections and the booking operations over
// a small JSON surface. It is a thin presentation collaborator: every
// decision stays in the service and the stores.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"mecarent/internal/catalog"
	"mecarent/internal/clock"
	"mecarent/internal/service"
	"mecarent/internal/stats"
	"mecarent/internal/store"
)

// HTTPServer bundles the handlers and their collaborators.
type HTTPServer struct {
	store   *store.Store
	rentals *service.RentalService
	stats   *stats.Service
	catalog *catalog.Cache
	clock   clock.Clock
	logger  zerolog.Logger
}

// NewHTTPServer creates the API server.
func NewHTTPServer(s *store.Store, rentals *service.RentalService, st *stats.Service, cat *catalog.Cache, clk clock.Clock, logger zerolog.Logger) *HTTPServer {
	return &HTTPServer{
		store:   s,
		rentals: rentals,
		stats:   st,
		catalog: cat,
		clock:   clk,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// Routes registers all handlers on a fresh mux.
func (s *HTTPServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("/api/v1/rentals", s.handleRentals)
	mux.HandleFunc("/api/v1/rentals/", s.handleRentalAction)
	mux.HandleFunc("/api/v1/machines", s.handleMachines)
	mux.HandleFunc("/api/v1/machines/", s.handleMachineToggle)
	mux.HandleFunc("/api/v1/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/v1/reports/holder", s.handleHolderReport)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
