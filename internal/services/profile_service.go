package services

import (
	"context"

	"github.com/skillshare/backend/internal/models"
)

// ProfileService is the profile lifecycle + query boundary handlers depend
// on. The Mongo implementation is the real one; tests substitute fakes.
type ProfileService interface {
	// Create persists a new profile for the verified identity. The stored
	// uid/email always come from the caller's credential, not the request.
	Create(ctx context.Context, uid, email string, req *models.CreateProfileRequest) (*models.Profile, error)

	// GetByUID returns the caller's own, unredacted profile.
	// A missing profile is a valid empty result: (nil, nil).
	GetByUID(ctx context.Context, uid string) (*models.Profile, error)

	// GetByID returns a public, redacted profile.
	GetByID(ctx context.Context, id string) (*models.Profile, error)

	// Update patches the profile after an ownership check.
	Update(ctx context.Context, uid, id string, req *models.UpdateProfileRequest) (*models.Profile, error)

	// Delete removes the profile permanently after an ownership check.
	Delete(ctx context.Context, uid, id string) error

	// Search returns the redacted page of profiles matching the filters
	// plus the total match count ignoring pagination.
	Search(ctx context.Context, filters models.SearchFilters, page, limit int) ([]models.Profile, int64, error)
}

// CatalogService manages the skill/category reference collections.
type CatalogService interface {
	ListSkills(ctx context.Context, q models.SkillListQuery, page, limit int) ([]models.Skill, int64, error)
	CreateSkill(ctx context.Context, req *models.CreateSkillRequest) (*models.Skill, error)
	GetSkill(ctx context.Context, id string) (*models.Skill, error)

	ListCategories(ctx context.Context, search string, page, limit int) ([]models.SkillCategory, int64, error)
	CreateCategory(ctx context.Context, req *models.CreateSkillCategoryRequest) (*models.SkillCategory, error)
	GetCategory(ctx context.Context, id string) (*models.SkillCategory, error)

	// SeedDefaults loads the stock catalog into empty collections.
	// Non-empty collections are left untouched.
	SeedDefaults(ctx context.Context) (*models.SeedResult, error)
}
