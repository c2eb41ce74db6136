package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillshare/backend/internal/middleware"
	"github.com/skillshare/backend/internal/models"
	"github.com/skillshare/backend/internal/services"
)

type ProfileHandler struct {
	profiles services.ProfileService
}

func NewProfileHandler(profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMyProfile returns the caller's own profile, private fields included.
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	profile, err := h.profiles.GetByUID(r.Context(), uid)
	if err != nil {
		writeInternalError(w, r, "GetMyProfile", err)
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}

func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	email := middleware.GetUserEmail(r.Context())

	var req models.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	profile, err := h.profiles.Create(r.Context(), uid, email, &req)
	if err != nil {
		if errors.Is(err, services.ErrProfileExists) {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Profile already exists for this user"))
			return
		}
		writeInternalError(w, r, "CreateProfile", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewMessageResponse(profile, "Profile created successfully"))
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	profileID := chi.URLParam(r, "profileId")

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	profile, err := h.profiles.Update(r.Context(), uid, profileID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
		case errors.Is(err, services.ErrNotProfileOwner):
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to update this profile"))
		default:
			writeInternalError(w, r, "UpdateProfile", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewMessageResponse(profile, "Profile updated successfully"))
}

func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	profileID := chi.URLParam(r, "profileId")

	if err := h.profiles.Delete(r.Context(), uid, profileID); err != nil {
		switch {
		case errors.Is(err, services.ErrProfileNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
		case errors.Is(err, services.ErrNotProfileOwner):
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to delete this profile"))
		default:
			writeInternalError(w, r, "DeleteProfile", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewMessageResponse(nil, "Profile deleted successfully"))
}

// ListProfiles returns all profiles, newest first, private contact fields
// redacted.
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	page, limit, errs := parsePagination(r, 20)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	profiles, total, err := h.profiles.Search(r.Context(), models.SearchFilters{}, page, limit)
	if err != nil {
		writeInternalError(w, r, "ListProfiles", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewPaginatedResponse(profiles, page, limit, total))
}

// SearchProfiles filters the directory. All filtering happens at the
// store layer so pagination stays correct at any directory size.
func (h *ProfileHandler) SearchProfiles(w http.ResponseWriter, r *http.Request) {
	page, limit, errs := parsePagination(r, 20)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	q := r.URL.Query()
	filters := models.SearchFilters{
		Skills:       q["skills"],
		Availability: q["availability"],
		University:   q.Get("university"),
		Year:         q.Get("year"),
		SearchTerm:   q.Get("searchTerm"),
	}

	profiles, total, err := h.profiles.Search(r.Context(), filters, page, limit)
	if err != nil {
		writeInternalError(w, r, "SearchProfiles", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewPaginatedResponse(profiles, page, limit, total))
}

// GetProfile returns a single profile by id, redacted.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileId")

	profile, err := h.profiles.GetByID(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		writeInternalError(w, r, "GetProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}
