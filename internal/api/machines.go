package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"mecarent/internal/models"
	"mecarent/internal/service"
)

// AddMachineRequest is the request body for listing a machine.
type AddMachineRequest struct {
	HolderID    string   `json:"holder_id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Location    string   `json:"location"`
	Capacity    string   `json:"capacity"`
	Consumption string   `json:"consumption"`
	Description string   `json:"description"`
	PriceHour   int64    `json:"price_hour"`
	PriceDay    int64    `json:"price_day"`
	Modes       []string `json:"modes"`
}

// handleMachines lists a holder's machines or adds one.
// GET  /api/v1/machines?holder={id}
// POST /api/v1/machines
func (s *HTTPServer) handleMachines(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		holderID := r.URL.Query().Get("holder")
		if holderID == "" {
			writeError(w, http.StatusBadRequest, "holder is required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"machines": s.store.ListMachinesByHolder(holderID),
		})

	case http.MethodPost:
		var req AddMachineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Name == "" || req.Type == "" {
			writeError(w, http.StatusBadRequest, "name and type are required")
			return
		}
		modes := make([]models.AccessMode, 0, len(req.Modes))
		for _, m := range req.Modes {
			modes = append(modes, models.AccessMode(m))
		}
		machine, err := s.rentals.AddMachine(r.Context(), req.HolderID, service.MachineParams{
			Name:        req.Name,
			Type:        req.Type,
			Location:    req.Location,
			Capacity:    req.Capacity,
			Consumption: req.Consumption,
			Description: req.Description,
			PriceHour:   req.PriceHour,
			PriceDay:    req.PriceDay,
			Modes:       modes,
		})
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, machine)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleMachineToggle flips a machine's availability on behalf of its holder.
// POST /api/v1/machines/{id}/toggle
func (s *HTTPServer) handleMachineToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/machines/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "toggle" {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}

	var req struct {
		HolderID string `json:"holder_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	machine, err := s.rentals.ToggleMachineAvailability(r.Context(), parts[0], req.HolderID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, machine)
}
