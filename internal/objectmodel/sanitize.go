package objectmodel

import "strings"

// SanitizeName trims whitespace and strips '/' and '"' from name, matching
// spec.md §4.2's "Name sanitization." The function is idempotent:
// SanitizeName(SanitizeName(x)) == SanitizeName(x) (spec.md §8 property 3).
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\"", "")
	return strings.TrimSpace(name)
}

// ValidateName sanitizes name and rejects an empty result with ErrEmptyName.
func ValidateName(name string) (string, error) {
	sanitized := SanitizeName(name)
	if sanitized == "" {
		return "", ErrEmptyName
	}
	return sanitized, nil
}
