package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/store"
)

// ProfileHandler handles HTTP requests for calibration profile resources.
type ProfileHandler struct {
	store *store.Store
}

// NewProfileHandler creates a new ProfileHandler with the given store.
func NewProfileHandler(s *store.Store) *ProfileHandler {
	return &ProfileHandler{store: s}
}

// Request and response types

type profileRequest struct {
	Name              string   `json:"name"`
	OffsetX           float64  `json:"offset_x"`
	OffsetY           float64  `json:"offset_y"`
	OffsetZ           float64  `json:"offset_z"`
	Scale             *float64 `json:"scale"`
	PinchThreshold    *float64 `json:"pinch_threshold"`
	ExtendedThreshold *float64 `json:"extended_threshold"`
}

type profileResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	OffsetX           float64 `json:"offset_x"`
	OffsetY           float64 `json:"offset_y"`
	OffsetZ           float64 `json:"offset_z"`
	Scale             float64 `json:"scale"`
	PinchThreshold    float64 `json:"pinch_threshold"`
	ExtendedThreshold float64 `json:"extended_threshold"`
	Active            bool    `json:"active"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type listProfilesResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Profile to a profileResponse.
func toResponse(p *store.Profile) profileResponse {
	return profileResponse{
		ID:                p.ID,
		Name:              p.Name,
		OffsetX:           p.OffsetX,
		OffsetY:           p.OffsetY,
		OffsetZ:           p.OffsetZ,
		Scale:             p.Scale,
		PinchThreshold:    p.PinchThreshold,
		ExtendedThreshold: p.ExtendedThreshold,
		Active:            p.Active,
		CreatedAt:         p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:         p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/profiles and returns all profiles.
func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	response := listProfilesResponse{
		Profiles: make([]profileResponse, 0, len(profiles)),
	}

	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/profiles/{id} and returns a single profile.
func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.Profiles().GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}

// create handles POST /api/profiles and creates a new profile.
func (h *ProfileHandler) create(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	profile := &store.Profile{
		Name:              req.Name,
		OffsetX:           req.OffsetX,
		OffsetY:           req.OffsetY,
		OffsetZ:           req.OffsetZ,
		Scale:             1.0,
		PinchThreshold:    0.05,
		ExtendedThreshold: 0.6,
	}
	if req.Scale != nil {
		profile.Scale = *req.Scale
	}
	if req.PinchThreshold != nil {
		profile.PinchThreshold = *req.PinchThreshold
	}
	if req.ExtendedThreshold != nil {
		profile.ExtendedThreshold = *req.ExtendedThreshold
	}

	if err := h.store.Profiles().Create(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(profile))
}

// update handles PUT /api/profiles/{id} and updates an existing profile.
func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.Profiles().GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	profile.OffsetX = req.OffsetX
	profile.OffsetY = req.OffsetY
	profile.OffsetZ = req.OffsetZ
	if req.Scale != nil {
		profile.Scale = *req.Scale
	}
	if req.PinchThreshold != nil {
		profile.PinchThreshold = *req.PinchThreshold
	}
	if req.ExtendedThreshold != nil {
		profile.ExtendedThreshold = *req.ExtendedThreshold
	}

	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}

// delete handles DELETE /api/profiles/{id} and removes a profile.
func (h *ProfileHandler) delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.Profiles().Delete(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// activate handles POST /api/profiles/{id}/activate and marks the profile
// as the active calibration.
func (h *ProfileHandler) activate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Profiles().Activate(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to activate profile")
		return
	}

	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}
