package handlers

import (
	"strings"
	"unicode/utf8"

	"vinicio/internal/models"
	"vinicio/internal/store"
)

const (
	minSlugLen = 3
	minTypeLen = 3
)

// validatePostCreate checks a create payload. Only the base fields carry
// hard requirements; everything type-specific is optional and persisted
// as sent.
func validatePostCreate(in *models.PostInput) []fieldError {
	var details []fieldError

	if in.Slug == nil || utf8.RuneCountInString(strings.TrimSpace(*in.Slug)) < minSlugLen {
		details = append(details, fieldError{Field: "slug", Message: "slug must be at least 3 characters"})
	}
	switch {
	case in.Type == nil || utf8.RuneCountInString(strings.TrimSpace(*in.Type)) < minTypeLen:
		details = append(details, fieldError{Field: "type", Message: "type must be at least 3 characters"})
	case !store.KnownType(*in.Type):
		details = append(details, fieldError{Field: "type", Message: "unknown post type"})
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		details = append(details, fieldError{Field: "title", Message: "title is required"})
	}
	if in.Status != nil && !models.ValidStatus(*in.Status) {
		details = append(details, fieldError{Field: "status", Message: "status must be draft, published, or archived"})
	}

	return details
}

// validatePostUpdate checks a patch payload. Absent fields stay untouched,
// so only present values are validated. The type of an existing post is
// immutable and ignored here.
func validatePostUpdate(in *models.PostInput) []fieldError {
	var details []fieldError

	if in.Slug != nil && utf8.RuneCountInString(strings.TrimSpace(*in.Slug)) < minSlugLen {
		details = append(details, fieldError{Field: "slug", Message: "slug must be at least 3 characters"})
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		details = append(details, fieldError{Field: "title", Message: "title must not be empty"})
	}
	if in.Status != nil && !models.ValidStatus(*in.Status) {
		details = append(details, fieldError{Field: "status", Message: "status must be draft, published, or archived"})
	}

	return details
}

// validateSocial checks an about-me social link payload.
func validateSocial(link *models.SocialLink) []fieldError {
	var details []fieldError
	if strings.TrimSpace(link.Icon) == "" {
		details = append(details, fieldError{Field: "icon", Message: "icon is required"})
	}
	if strings.TrimSpace(link.Href) == "" {
		details = append(details, fieldError{Field: "href", Message: "href is required"})
	}
	if strings.TrimSpace(link.Label) == "" {
		details = append(details, fieldError{Field: "label", Message: "label is required"})
	}
	return details
}
