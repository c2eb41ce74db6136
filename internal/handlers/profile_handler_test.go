package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmw "github.com/skillshare/backend/internal/middleware"
	"github.com/skillshare/backend/internal/models"
	"github.com/skillshare/backend/internal/services"
)

// stubProfileService implements services.ProfileService with overridable
// functions so each test controls exactly one behavior.
type stubProfileService struct {
	createFn   func(ctx context.Context, uid, email string, req *models.CreateProfileRequest) (*models.Profile, error)
	getByUIDFn func(ctx context.Context, uid string) (*models.Profile, error)
	getByIDFn  func(ctx context.Context, id string) (*models.Profile, error)
	updateFn   func(ctx context.Context, uid, id string, req *models.UpdateProfileRequest) (*models.Profile, error)
	deleteFn   func(ctx context.Context, uid, id string) error
	searchFn   func(ctx context.Context, filters models.SearchFilters, page, limit int) ([]models.Profile, int64, error)
}

func (s *stubProfileService) Create(ctx context.Context, uid, email string, req *models.CreateProfileRequest) (*models.Profile, error) {
	return s.createFn(ctx, uid, email, req)
}

func (s *stubProfileService) GetByUID(ctx context.Context, uid string) (*models.Profile, error) {
	return s.getByUIDFn(ctx, uid)
}

func (s *stubProfileService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubProfileService) Update(ctx context.Context, uid, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	return s.updateFn(ctx, uid, id, req)
}

func (s *stubProfileService) Delete(ctx context.Context, uid, id string) error {
	return s.deleteFn(ctx, uid, id)
}

func (s *stubProfileService) Search(ctx context.Context, filters models.SearchFilters, page, limit int) ([]models.Profile, int64, error) {
	return s.searchFn(ctx, filters, page, limit)
}

// withIdentity mimics what the Firebase middleware does after verifying a
// token.
func withIdentity(uid, email string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), appmw.UserIDKey, uid)
			if email != "" {
				ctx = context.WithValue(ctx, appmw.UserEmailKey, email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newProfileRouter(svc services.ProfileService, uid, email string) *chi.Mux {
	h := NewProfileHandler(svc)
	r := chi.NewRouter()
	r.Get("/api/profiles", h.ListProfiles)
	r.Get("/api/profiles/search", h.SearchProfiles)
	r.Get("/api/profiles/{profileId}", h.GetProfile)
	r.Group(func(r chi.Router) {
		if uid != "" {
			r.Use(withIdentity(uid, email))
		}
		r.Get("/api/profiles/me", h.GetMyProfile)
		r.Post("/api/profiles", h.CreateProfile)
		r.Put("/api/profiles/{profileId}", h.UpdateProfile)
		r.Delete("/api/profiles/{profileId}", h.DeleteProfile)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, target string, body interface{}) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr, resp
}

func TestCreateProfile(t *testing.T) {
	t.Run("identity comes from the token, not the body", func(t *testing.T) {
		var gotUID, gotEmail string
		svc := &stubProfileService{
			createFn: func(ctx context.Context, uid, email string, req *models.CreateProfileRequest) (*models.Profile, error) {
				gotUID, gotEmail = uid, email
				return &models.Profile{ID: "p1", UID: uid, Email: email, DisplayName: req.DisplayName}, nil
			},
		}
		router := newProfileRouter(svc, "firebase-uid", "real@example.com")

		body := map[string]interface{}{
			"uid":         "spoofed-uid",
			"email":       "spoofed@example.com",
			"displayName": "Ada",
			"skills":      []string{"Coding"},
		}
		rr, resp := doJSON(t, router, http.MethodPost, "/api/profiles", body)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, "firebase-uid", gotUID)
		assert.Equal(t, "real@example.com", gotEmail)
	})

	t.Run("validation errors list every bad field", func(t *testing.T) {
		svc := &stubProfileService{}
		router := newProfileRouter(svc, "uid-1", "")

		rr, resp := doJSON(t, router, http.MethodPost, "/api/profiles", map[string]interface{}{})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, resp.Success)
		fields, ok := resp.Errors.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, fields, "displayName")
		assert.Contains(t, fields, "skills")
	})

	t.Run("duplicate profile is a conflict", func(t *testing.T) {
		svc := &stubProfileService{
			createFn: func(ctx context.Context, uid, email string, req *models.CreateProfileRequest) (*models.Profile, error) {
				return nil, services.ErrProfileExists
			},
		}
		router := newProfileRouter(svc, "uid-1", "")

		body := map[string]interface{}{"displayName": "Ada", "skills": []string{"Coding"}}
		rr, resp := doJSON(t, router, http.MethodPost, "/api/profiles", body)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.False(t, resp.Success)
	})

	t.Run("unauthenticated create is rejected", func(t *testing.T) {
		svc := &stubProfileService{}
		router := newProfileRouter(svc, "", "")

		body := map[string]interface{}{"displayName": "Ada", "skills": []string{"Coding"}}
		rr, _ := doJSON(t, router, http.MethodPost, "/api/profiles", body)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetMyProfile(t *testing.T) {
	t.Run("missing profile is a 404", func(t *testing.T) {
		svc := &stubProfileService{
			getByUIDFn: func(ctx context.Context, uid string) (*models.Profile, error) {
				return nil, nil
			},
		}
		router := newProfileRouter(svc, "uid-1", "")

		rr, resp := doJSON(t, router, http.MethodGet, "/api/profiles/me", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.False(t, resp.Success)
	})

	t.Run("own profile is returned unredacted", func(t *testing.T) {
		svc := &stubProfileService{
			getByUIDFn: func(ctx context.Context, uid string) (*models.Profile, error) {
				return &models.Profile{
					ID:          "p1",
					UID:         uid,
					DisplayName: "Ada",
					ContactInfo: &models.ContactInfo{Email: "ada@example.com"},
				}, nil
			},
		}
		router := newProfileRouter(svc, "uid-1", "")

		rr, resp := doJSON(t, router, http.MethodGet, "/api/profiles/me", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		contact, ok := data["contactInfo"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "ada@example.com", contact["email"])
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("non-owner gets forbidden", func(t *testing.T) {
		svc := &stubProfileService{
			updateFn: func(ctx context.Context, uid, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
				return nil, services.ErrNotProfileOwner
			},
		}
		router := newProfileRouter(svc, "uid-2", "")

		body := map[string]interface{}{"bio": "new bio"}
		rr, _ := doJSON(t, router, http.MethodPut, "/api/profiles/p1", body)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("missing profile gets not found", func(t *testing.T) {
		svc := &stubProfileService{
			updateFn: func(ctx context.Context, uid, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
				return nil, services.ErrProfileNotFound
			},
		}
		router := newProfileRouter(svc, "uid-1", "")

		rr, _ := doJSON(t, router, http.MethodPut, "/api/profiles/gone", map[string]interface{}{"bio": "x"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("successful patch returns the updated profile", func(t *testing.T) {
		svc := &stubProfileService{
			updateFn: func(ctx context.Context, uid, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
				return &models.Profile{ID: id, UID: uid, Bio: *req.Bio}, nil
			},
		}
		router := newProfileRouter(svc, "uid-1", "")

		rr, resp := doJSON(t, router, http.MethodPut, "/api/profiles/p1", map[string]interface{}{"bio": "updated"})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, resp.Success)
	})
}

func TestDeleteProfile(t *testing.T) {
	t.Run("delete succeeds for the owner", func(t *testing.T) {
		svc := &stubProfileService{
			deleteFn: func(ctx context.Context, uid, id string) error { return nil },
		}
		router := newProfileRouter(svc, "uid-1", "")

		rr, resp := doJSON(t, router, http.MethodDelete, "/api/profiles/p1", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, resp.Success)
	})

	t.Run("repeat delete reports not found, not a crash", func(t *testing.T) {
		svc := &stubProfileService{
			deleteFn: func(ctx context.Context, uid, id string) error { return services.ErrProfileNotFound },
		}
		router := newProfileRouter(svc, "uid-1", "")

		rr, _ := doJSON(t, router, http.MethodDelete, "/api/profiles/p1", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("non-owner delete is forbidden", func(t *testing.T) {
		svc := &stubProfileService{
			deleteFn: func(ctx context.Context, uid, id string) error { return services.ErrNotProfileOwner },
		}
		router := newProfileRouter(svc, "uid-2", "")

		rr, _ := doJSON(t, router, http.MethodDelete, "/api/profiles/p1", nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestListProfiles(t *testing.T) {
	t.Run("pagination envelope is computed from the total", func(t *testing.T) {
		var gotPage, gotLimit int
		svc := &stubProfileService{
			searchFn: func(ctx context.Context, filters models.SearchFilters, page, limit int) ([]models.Profile, int64, error) {
				gotPage, gotLimit = page, limit
				out := make([]models.Profile, 10)
				return out, 25, nil
			},
		}
		router := newProfileRouter(svc, "", "")

		rr, resp := doJSON(t, router, http.MethodGet, "/api/profiles?page=2&limit=10", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 2, gotPage)
		assert.Equal(t, 10, gotLimit)
		require.NotNil(t, resp.Pagination)
		assert.Equal(t, int64(25), resp.Pagination.Total)
		assert.Equal(t, 3, resp.Pagination.TotalPages)
	})

	t.Run("out-of-range pagination is rejected, not clamped", func(t *testing.T) {
		svc := &stubProfileService{}
		router := newProfileRouter(svc, "", "")

		for _, target := range []string{
			"/api/profiles?page=0",
			"/api/profiles?limit=0",
			"/api/profiles?limit=101",
			"/api/profiles?page=abc",
		} {
			rr, resp := doJSON(t, router, http.MethodGet, target, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code, target)
			assert.False(t, resp.Success, target)
		}
	})
}

func TestSearchProfiles(t *testing.T) {
	t.Run("query params map onto search filters", func(t *testing.T) {
		var got models.SearchFilters
		svc := &stubProfileService{
			searchFn: func(ctx context.Context, filters models.SearchFilters, page, limit int) ([]models.Profile, int64, error) {
				got = filters
				return []models.Profile{}, 0, nil
			},
		}
		router := newProfileRouter(svc, "", "")

		target := "/api/profiles/search?skills=Coding&skills=Design&availability=projects&university=Stanford&year=3&searchTerm=robotics"
		rr, _ := doJSON(t, router, http.MethodGet, target, nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{"Coding", "Design"}, got.Skills)
		assert.Equal(t, []string{"projects"}, got.Availability)
		assert.Equal(t, "Stanford", got.University)
		assert.Equal(t, "3", got.Year)
		assert.Equal(t, "robotics", got.SearchTerm)
	})

	t.Run("storage failure returns a generic retryable error", func(t *testing.T) {
		svc := &stubProfileService{
			searchFn: func(ctx context.Context, filters models.SearchFilters, page, limit int) ([]models.Profile, int64, error) {
				return nil, 0, services.ErrUnavailable
			},
		}
		router := newProfileRouter(svc, "", "")

		rr, resp := doJSON(t, router, http.MethodGet, "/api/profiles/search", nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Service temporarily unavailable, please retry", resp.Error)
	})
}

func TestGetProfileByID(t *testing.T) {
	t.Run("missing profile is a 404", func(t *testing.T) {
		svc := &stubProfileService{
			getByIDFn: func(ctx context.Context, id string) (*models.Profile, error) {
				return nil, services.ErrProfileNotFound
			},
		}
		router := newProfileRouter(svc, "", "")

		rr, _ := doJSON(t, router, http.MethodGet, "/api/profiles/nope", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("profile is returned", func(t *testing.T) {
		svc := &stubProfileService{
			getByIDFn: func(ctx context.Context, id string) (*models.Profile, error) {
				return &models.Profile{ID: id, DisplayName: "Ada"}, nil
			},
		}
		router := newProfileRouter(svc, "", "")

		rr, resp := doJSON(t, router, http.MethodGet, "/api/profiles/p1", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, resp.Success)
	})
}
