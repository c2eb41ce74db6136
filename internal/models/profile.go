package models

import (
	"strings"
	"time"
)

// Profile is a user's public directory entry, keyed by Firebase UID.
// Exactly zero or one profile exists per UID.
type Profile struct {
	ID           string       `json:"id"`
	UID          string       `json:"uid"`
	DisplayName  string       `json:"displayName"`
	Email        string       `json:"email,omitempty"`
	PhotoURL     string       `json:"photoURL,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Skills       []string     `json:"skills"`
	Interests    []string     `json:"interests,omitempty"`
	Availability []string     `json:"availability"`
	University   string       `json:"university,omitempty"`
	Year         string       `json:"year,omitempty"`
	ContactInfo  *ContactInfo `json:"contactInfo,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ContactInfo holds how a user wants to be reached. Email and Phone are
// private: they never appear in list/search/public fetch responses.
type ContactInfo struct {
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	SocialLinks []SocialLink `json:"socialLinks,omitempty"`
}

// SocialLink is one entry in the ordered contact-link list.
type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// legacySocialPlatforms fixes the merge order for the old fixed-key shape.
var legacySocialPlatforms = []string{"linkedin", "github", "twitter", "instagram", "whatsapp"}

// LegacySocialInput is the fixed-key contact shape that predates SocialLinks.
// It is still accepted on input and normalized into SocialLinks entries.
type LegacySocialInput struct {
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	GitHub    string `json:"github" validate:"omitempty,url"`
	Twitter   string `json:"twitter" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
	WhatsApp  string `json:"whatsapp" validate:"omitempty,url"`
}

func (l *LegacySocialInput) byPlatform(platform string) string {
	switch platform {
	case "linkedin":
		return l.LinkedIn
	case "github":
		return l.GitHub
	case "twitter":
		return l.Twitter
	case "instagram":
		return l.Instagram
	case "whatsapp":
		return l.WhatsApp
	}
	return ""
}

// SocialLinkInput is a free-form contact link supplied by the client.
type SocialLinkInput struct {
	ID       string `json:"id"`
	Platform string `json:"platform" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
}

// ContactInfoInput accepts both contact-link representations on the wire.
type ContactInfoInput struct {
	Email       string             `json:"email" validate:"omitempty,email"`
	Phone       string             `json:"phone"`
	Social      *LegacySocialInput `json:"social"`
	SocialLinks []SocialLinkInput  `json:"socialLinks" validate:"dive"`
}

// Normalize converts the input into the canonical representation:
// socialLinks only, with legacy fixed keys appended (in a stable order)
// when no equivalent free-form entry exists.
func (c *ContactInfoInput) Normalize() *ContactInfo {
	if c == nil {
		return nil
	}

	info := &ContactInfo{
		Email: strings.TrimSpace(strings.ToLower(c.Email)),
		Phone: strings.TrimSpace(c.Phone),
	}

	seen := make(map[string]bool)
	for _, link := range c.SocialLinks {
		id := strings.TrimSpace(link.ID)
		if id == "" {
			id = strings.ToLower(strings.TrimSpace(link.Platform))
		}
		info.SocialLinks = append(info.SocialLinks, SocialLink{
			ID:       id,
			Platform: strings.TrimSpace(link.Platform),
			URL:      strings.TrimSpace(link.URL),
		})
		seen[strings.ToLower(strings.TrimSpace(link.Platform))] = true
	}

	if c.Social != nil {
		for _, platform := range legacySocialPlatforms {
			url := strings.TrimSpace(c.Social.byPlatform(platform))
			if url == "" || seen[platform] {
				continue
			}
			info.SocialLinks = append(info.SocialLinks, SocialLink{
				ID:       platform,
				Platform: platform,
				URL:      url,
			})
		}
	}

	if info.Email == "" && info.Phone == "" && len(info.SocialLinks) == 0 {
		return nil
	}
	return info
}

// CreateProfileRequest is the body of POST /api/profiles. The profile's
// uid and email always come from the verified token, never from the body.
type CreateProfileRequest struct {
	DisplayName  string            `json:"displayName" validate:"required,max=100"`
	Bio          string            `json:"bio" validate:"max=500"`
	PhotoURL     string            `json:"photoURL" validate:"omitempty,url"`
	Skills       []string          `json:"skills" validate:"required,min=1,dive,required"`
	Interests    []string          `json:"interests" validate:"omitempty,dive,required"`
	Availability []string          `json:"availability" validate:"omitempty,dive,required"`
	University   string            `json:"university" validate:"max=100"`
	Year         string            `json:"year" validate:"max=20"`
	ContactInfo  *ContactInfoInput `json:"contactInfo"`
}

func (r *CreateProfileRequest) Validate() map[string]string {
	r.trim()
	if err := validate.Struct(r); err != nil {
		return validationErrors(err)
	}
	return nil
}

func (r *CreateProfileRequest) trim() {
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Bio = strings.TrimSpace(r.Bio)
	r.University = strings.TrimSpace(r.University)
	r.Year = strings.TrimSpace(r.Year)
	r.Skills = trimAll(r.Skills)
	r.Interests = trimAll(r.Interests)
	r.Availability = trimAll(r.Availability)
}

// UpdateProfileRequest is the body of PUT /api/profiles/{profileId}.
// Nil fields are left untouched; non-nil fields replace the stored value.
type UpdateProfileRequest struct {
	DisplayName  *string           `json:"displayName" validate:"omitempty,max=100"`
	Bio          *string           `json:"bio" validate:"omitempty,max=500"`
	PhotoURL     *string           `json:"photoURL"`
	Skills       *[]string         `json:"skills" validate:"omitempty,min=1,dive,required"`
	Interests    *[]string         `json:"interests"`
	Availability *[]string         `json:"availability"`
	University   *string           `json:"university" validate:"omitempty,max=100"`
	Year         *string           `json:"year" validate:"omitempty,max=20"`
	ContactInfo  *ContactInfoInput `json:"contactInfo"`
}

func (r *UpdateProfileRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.DisplayName != nil {
		trimmed := strings.TrimSpace(*r.DisplayName)
		r.DisplayName = &trimmed
		if trimmed == "" {
			errs["displayName"] = "displayName must not be empty"
		}
	}
	if r.Skills != nil {
		trimmed := trimAll(*r.Skills)
		r.Skills = &trimmed
	}
	if r.Interests != nil {
		trimmed := trimAll(*r.Interests)
		r.Interests = &trimmed
	}
	if r.Availability != nil {
		trimmed := trimAll(*r.Availability)
		r.Availability = &trimmed
	}
	if err := validate.Struct(r); err != nil {
		for field, msg := range validationErrors(err) {
			if _, dup := errs[field]; !dup {
				errs[field] = msg
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// SearchFilters is the structured form of GET /api/profiles/search
// query parameters. Empty sets impose no constraint on that dimension.
type SearchFilters struct {
	Skills       []string
	Availability []string
	University   string
	Year         string
	SearchTerm   string
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
