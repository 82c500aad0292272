package api

import (
	"fmt"
	"net/http"

	"mecarent/internal/models"
	"mecarent/internal/report"
)

// handleCatalog lists available machines.
// GET /api/v1/catalog?type={type}&q={query}
func (s *HTTPServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	filter := models.MachineFilter{
		Type:  r.URL.Query().Get("type"),
		Query: r.URL.Query().Get("q"),
	}
	machines := s.catalog.ListAvailable(r.Context(), filter)
	writeJSON(w, http.StatusOK, map[string]any{"machines": machines})
}

type operatorDashboardResponse struct {
	Completed       int   `json:"completed"`
	Active          int   `json:"active"`
	TotalDurationMs int64 `json:"total_duration_ms"`
	TotalSpent      int64 `json:"total_spent"`
}

type holderDashboardResponse struct {
	Machines      int   `json:"machines"`
	ActiveRentals int   `json:"active_rentals"`
	Revenue       int64 `json:"revenue"`
}

// handleDashboard serves the per-user aggregates.
// GET /api/v1/dashboard?user={id}&role={operator|holder}
func (s *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	switch role := r.URL.Query().Get("role"); role {
	case "holder":
		view := s.stats.HolderDashboard(userID)
		writeJSON(w, http.StatusOK, holderDashboardResponse{
			Machines:      view.Machines,
			ActiveRentals: view.ActiveRentals,
			Revenue:       view.Revenue,
		})
	case "operator", "":
		view := s.stats.OperatorDashboard(userID)
		writeJSON(w, http.StatusOK, operatorDashboardResponse{
			Completed:       view.Completed,
			Active:          view.Active,
			TotalDurationMs: view.TotalDuration.Milliseconds(),
			TotalSpent:      view.TotalSpent,
		})
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown role %q", role))
	}
}

// handleHolderReport streams an xlsx summary of a holder's machines and
// their rental history.
// GET /api/v1/reports/holder?user={id}
func (s *HTTPServer) handleHolderReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	holder, err := s.store.GetUser(userID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if holder.Role != models.RoleHolder {
		writeError(w, http.StatusForbidden, "user is not a machine holder")
		return
	}

	machines := s.store.ListMachinesByHolder(userID)
	var rentals []models.Rental
	for _, m := range machines {
		rentals = append(rentals, s.store.ListRentalsByMachine(m.ID)...)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=rentals_%s.xlsx", userID))
	if err := report.WriteHolderReport(w, holder, machines, rentals); err != nil {
		s.logger.Error().Err(err).Str("holder_id", userID).Msg("failed to write report")
	}
}
