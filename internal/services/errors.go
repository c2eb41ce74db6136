package services

import "errors"

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrProfileExists    = errors.New("profile already exists for this user")
	ErrNotProfileOwner  = errors.New("not authorized to modify this profile")
	ErrSkillNotFound    = errors.New("skill not found")
	ErrSkillExists      = errors.New("skill already exists")
	ErrCategoryNotFound = errors.New("skill category not found")
	ErrCategoryExists   = errors.New("skill category already exists")
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrNotPhotoOwner    = errors.New("not authorized to delete this photo")
	ErrInvalidPhotoType = errors.New("unsupported photo content type")

	// ErrUnavailable marks storage timeouts and connectivity failures.
	// Callers may retry.
	ErrUnavailable = errors.New("storage temporarily unavailable")
)
