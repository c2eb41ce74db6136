package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/skillshare/backend/internal/models"
	"github.com/skillshare/backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeInternalError logs the full failure server-side and hands the
// client a generic message plus the request id as a correlation code.
func writeInternalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	reqID := chimiddleware.GetReqID(r.Context())
	log.Printf("[%s] request_id=%s error=%v", op, reqID, err)

	message := "Internal server error"
	if errors.Is(err, services.ErrUnavailable) {
		message = "Service temporarily unavailable, please retry"
	}
	writeJSON(w, http.StatusInternalServerError, models.NewInternalErrorResponse(message, reqID))
}

// parsePagination reads page/limit query params. Out-of-range values are a
// validation failure, not silently clamped, so pagination stays
// deterministic for clients.
func parsePagination(r *http.Request, defaultLimit int) (page, limit int, errs map[string]string) {
	page, limit = 1, defaultLimit
	errs = make(map[string]string)

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errs["page"] = "page must be a positive integer"
		} else {
			page = n
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			errs["limit"] = "limit must be between 1 and 100"
		} else {
			limit = n
		}
	}
	return page, limit, errs
}
