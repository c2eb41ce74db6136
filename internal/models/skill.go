package models

import (
	"strings"
	"time"
)

// Skill levels accepted by the catalog.
const (
	SkillLevelBeginner     = "beginner"
	SkillLevelIntermediate = "intermediate"
	SkillLevelAdvanced     = "advanced"
)

// Skill is a catalog entry. Profiles reference skills by name, so renaming
// a skill orphans historical references; that is accepted behavior.
type Skill struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Level       string    `json:"level"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SkillCategory groups catalog skills.
type SkillCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateSkillRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Category    string `json:"category" validate:"required,max=50"`
	Level       string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Description string `json:"description" validate:"max=200"`
}

func (r *CreateSkillRequest) Validate() map[string]string {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.Description = strings.TrimSpace(r.Description)
	if err := validate.Struct(r); err != nil {
		return validationErrors(err)
	}
	return nil
}

type CreateSkillCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=200"`
}

func (r *CreateSkillCategoryRequest) Validate() map[string]string {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	if err := validate.Struct(r); err != nil {
		return validationErrors(err)
	}
	return nil
}

// SkillListQuery narrows GET /api/skills.
type SkillListQuery struct {
	Category string
	Level    string
	Search   string
}

// SeedResult reports what default-data initialization did.
type SeedResult struct {
	SkillsCreated     int   `json:"skillsCreated"`
	CategoriesCreated int   `json:"categoriesCreated"`
	TotalSkills       int64 `json:"totalSkills"`
	TotalCategories   int64 `json:"totalCategories"`
}
