// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugRegex  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// reservedSlugs can never be used for posts; they collide with API routes.
var reservedSlugs = map[string]struct{}{
	"api":     {},
	"posts":   {},
	"users":   {},
	"token":   {},
	"swagger": {},
	"metrics": {},
	"health":  {},
}

// ValidateSlug validates post slug format and reserved names.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required")
	}
	if len(slug) > 50 {
		return fmt.Errorf("slug must not exceed 50 characters")
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug may contain only letters, numbers, underscores, and hyphens")
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}
	if _, exists := reservedSlugs[strings.ToLower(slug)]; exists {
		return fmt.Errorf("slug is reserved")
	}
	return nil
}

// ValidateEmail checks basic email shape. Deliverability is not the
// concern here, only that the address can serve as a resource identifier.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email format is invalid")
	}
	return nil
}
