package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/skillshare/backend/internal/models"
	"github.com/skillshare/backend/internal/services"
)

const (
	skillsCachePrefix     = "catalog:skills:"
	categoriesCachePrefix = "catalog:categories:"
)

// cachedCatalogPage is the payload stored in the catalog cache.
type cachedCatalogPage struct {
	Data  json.RawMessage `json:"data"`
	Total int64           `json:"total"`
}

// cacheKey joins key parts with each part escaped, so a filter value
// containing the separator cannot collide with a different combination.
func cacheKey(prefix string, parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(p)
	}
	return prefix + strings.Join(escaped, "|")
}

type CatalogHandler struct {
	catalog services.CatalogService
	cache   *services.CatalogCache
}

// NewCatalogHandler wires the catalog endpoints. cache may be nil, which
// disables caching.
func NewCatalogHandler(catalog services.CatalogService, cache *services.CatalogCache) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, cache: cache}
}

func (h *CatalogHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	page, limit, errs := parsePagination(r, 50)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	q := models.SkillListQuery{
		Category: r.URL.Query().Get("category"),
		Level:    r.URL.Query().Get("level"),
		Search:   r.URL.Query().Get("search"),
	}

	key := cacheKey(skillsCachePrefix, q.Category, q.Level, q.Search, strconv.Itoa(page), strconv.Itoa(limit))
	var cached cachedCatalogPage
	if h.cache.Get(r.Context(), key, &cached) {
		writeJSON(w, http.StatusOK, models.NewPaginatedResponse(cached.Data, page, limit, cached.Total))
		return
	}

	skills, total, err := h.catalog.ListSkills(r.Context(), q, page, limit)
	if err != nil {
		writeInternalError(w, r, "ListSkills", err)
		return
	}

	if raw, err := json.Marshal(skills); err == nil {
		h.cache.Set(r.Context(), key, cachedCatalogPage{Data: raw, Total: total})
	}
	writeJSON(w, http.StatusOK, models.NewPaginatedResponse(skills, page, limit, total))
}

func (h *CatalogHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	skill, err := h.catalog.CreateSkill(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrSkillExists) {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Skill already exists"))
			return
		}
		writeInternalError(w, r, "CreateSkill", err)
		return
	}

	h.cache.Invalidate(r.Context(), skillsCachePrefix)
	writeJSON(w, http.StatusCreated, models.NewMessageResponse(skill, "Skill created successfully"))
}

func (h *CatalogHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	skillID := chi.URLParam(r, "skillId")

	skill, err := h.catalog.GetSkill(r.Context(), skillID)
	if err != nil {
		if errors.Is(err, services.ErrSkillNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Skill not found"))
			return
		}
		writeInternalError(w, r, "GetSkill", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(skill))
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, limit, errs := parsePagination(r, 50)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}
	search := r.URL.Query().Get("search")

	key := cacheKey(categoriesCachePrefix, search, strconv.Itoa(page), strconv.Itoa(limit))
	var cached cachedCatalogPage
	if h.cache.Get(r.Context(), key, &cached) {
		writeJSON(w, http.StatusOK, models.NewPaginatedResponse(cached.Data, page, limit, cached.Total))
		return
	}

	categories, total, err := h.catalog.ListCategories(r.Context(), search, page, limit)
	if err != nil {
		writeInternalError(w, r, "ListCategories", err)
		return
	}

	if raw, err := json.Marshal(categories); err == nil {
		h.cache.Set(r.Context(), key, cachedCatalogPage{Data: raw, Total: total})
	}
	writeJSON(w, http.StatusOK, models.NewPaginatedResponse(categories, page, limit, total))
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSkillCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrCategoryExists) {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Skill category already exists"))
			return
		}
		writeInternalError(w, r, "CreateCategory", err)
		return
	}

	h.cache.Invalidate(r.Context(), categoriesCachePrefix)
	writeJSON(w, http.StatusCreated, models.NewMessageResponse(category, "Skill category created successfully"))
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")

	category, err := h.catalog.GetCategory(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Skill category not found"))
			return
		}
		writeInternalError(w, r, "GetCategory", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(category))
}

// InitializeDefaultData seeds the stock catalog into empty collections.
func (h *CatalogHandler) InitializeDefaultData(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.SeedDefaults(r.Context())
	if err != nil {
		writeInternalError(w, r, "InitializeDefaultData", err)
		return
	}
	if result.SkillsCreated > 0 || result.CategoriesCreated > 0 {
		h.cache.Invalidate(r.Context(), skillsCachePrefix)
		h.cache.Invalidate(r.Context(), categoriesCachePrefix)
	}
	writeJSON(w, http.StatusOK, models.NewMessageResponse(result, "Default data initialization completed"))
}
