package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"mecarent/internal/models"
)

// RentalResponse represents a rental in API responses, with live elapsed
// and remaining timers for running rentals.
type RentalResponse struct {
	ID          string `json:"id"`
	MachineID   string `json:"machine_id"`
	RequesterID string `json:"requester_id"`
	Mode        string `json:"mode"`
	Unit        string `json:"unit"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	TotalPrice  int64  `json:"total_price"`
	Status      string `json:"status"`
	StartTime   string `json:"start_time"`
	DurationMs  int64  `json:"duration_ms"`
	ElapsedMs   int64  `json:"elapsed_ms,omitempty"`
	RemainingMs int64  `json:"remaining_ms,omitempty"`
}

func (s *HTTPServer) rentalResponse(r *models.Rental) RentalResponse {
	resp := RentalResponse{
		ID:          r.ID,
		MachineID:   r.MachineID,
		RequesterID: r.RequesterID,
		Mode:        string(r.Mode),
		Unit:        string(r.Unit),
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		TotalPrice:  r.TotalPrice,
		Status:      string(r.Status),
		StartTime:   r.StartTime.Format(time.RFC3339),
		DurationMs:  r.Duration.Milliseconds(),
	}
	if r.Status == models.StatusActive {
		now := s.clock.Now()
		resp.ElapsedMs = r.ElapsedAt(now).Milliseconds()
		resp.RemainingMs = r.RemainingAt(now).Milliseconds()
	}
	return resp
}

// CreateRentalRequest is the request body for booking a machine.
type CreateRentalRequest struct {
	MachineID   string `json:"machine_id"`
	RequesterID string `json:"requester_id"`
	Mode        string `json:"mode"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
}

// handleRentals lists rentals or creates one.
// GET  /api/v1/rentals?requester={id}
// POST /api/v1/rentals
func (s *HTTPServer) handleRentals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		requester := r.URL.Query().Get("requester")
		if requester == "" {
			writeError(w, http.StatusBadRequest, "requester is required")
			return
		}
		rentals := s.store.ListRentalsByRequester(requester)
		out := make([]RentalResponse, 0, len(rentals))
		for i := range rentals {
			out = append(out, s.rentalResponse(&rentals[i]))
		}
		writeJSON(w, http.StatusOK, map[string]any{"rentals": out})

	case http.MethodPost:
		var req CreateRentalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		rental, err := s.rentals.CreateRental(r.Context(), req.MachineID, req.RequesterID,
			models.AccessMode(req.Mode), req.Quantity, models.Unit(req.Unit))
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, s.rentalResponse(rental))

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// ActionRequest identifies the acting requester for rental actions.
type ActionRequest struct {
	RequesterID string `json:"requester_id"`
}

// handleRentalAction routes POST /api/v1/rentals/{id}/terminate and
// POST /api/v1/rentals/{id}/cancel.
func (s *HTTPServer) handleRentalAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/rentals/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	rentalID, action := parts[0], parts[1]

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var err error
	switch action {
	case "terminate":
		err = s.rentals.TerminateEarly(r.Context(), rentalID, req.RequesterID)
	case "cancel":
		err = s.rentals.CancelRental(r.Context(), rentalID, req.RequesterID)
	default:
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// statusFor maps business errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrMachineUnavailable),
		errors.Is(err, models.ErrInvalidState),
		errors.Is(err, models.ErrMachineBusy):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidAccessMode), errors.Is(err, models.ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
