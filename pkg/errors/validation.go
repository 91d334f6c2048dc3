package errors

import (
	"strings"
	"unicode"
)

// ValidateName validates an identifier handed to an external store, such as
// a redis key or a mongo database or collection name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No whitespace at either end
//   - Maximum length of 256 characters
//
// Backend-specific rules (e.g. mongo's "$" restriction) are checked by the
// feed constructors.
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidFeed, "%s cannot be empty", kind)
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidFeed, "%s too long (max 256 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFeed, "%s contains invalid control characters", kind)
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidFeed, "%s has leading or trailing whitespace", kind)
	}

	return nil
}

// ValidatePath validates a feed file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
