package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillshare/backend/internal/middleware"
	"github.com/skillshare/backend/internal/models"
	"github.com/skillshare/backend/internal/services"
)

type PhotoHandler struct {
	photoService *services.PhotoService
	maxSizeMB    int64
}

func NewPhotoHandler(photoService *services.PhotoService, maxSizeMB int64) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		maxSizeMB:    maxSizeMB,
	}
}

func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	// Limit request body size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxSizeMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("File too large or invalid form data"))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("No photo file provided"))
		return
	}
	defer file.Close()

	response, err := h.photoService.Upload(uid, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPhotoType) {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid photo type. Allowed: JPEG, PNG, GIF, WebP"))
			return
		}
		writeInternalError(w, r, "UploadPhoto", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(response))
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	photoID := chi.URLParam(r, "photoId")

	if err := h.photoService.Delete(uid, photoID); err != nil {
		switch {
		case errors.Is(err, services.ErrPhotoNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Photo not found"))
		case errors.Is(err, services.ErrNotPhotoOwner):
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to delete this photo"))
		default:
			writeInternalError(w, r, "DeletePhoto", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewMessageResponse(nil, "Photo deleted successfully"))
}
