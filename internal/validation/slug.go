package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var categorySlugRegex = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Route segments a category slug must never shadow.
var reservedCategorySlugs = map[string]struct{}{
	"admin":      {},
	"api":        {},
	"auth":       {},
	"posts":      {},
	"comments":   {},
	"categories": {},
	"locations":  {},
	"users":      {},
	"metrics":    {},
	"login":      {},
	"signup":     {},
}

// ValidateCategorySlug validates category slug format and reserved names.
// Slugs are URL identifiers and should be treated as immutable once linked.
func ValidateCategorySlug(slug string) error {
	if !categorySlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 1-64 characters and contain only lowercase letters, numbers, hyphens, and underscores")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedCategorySlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}
