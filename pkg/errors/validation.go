package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds instance, catalog and storage key identifiers.
const maxIDLength = 256

// ValidateID validates an opaque identifier such as an instance ID or a catalog ID.
//
// The rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No whitespace
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "id contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "id cannot contain whitespace")
		}
	}
	return nil
}

// ValidateStorageKey validates a key used to address the persisted layout.
// Keys may be namespaced with ':' or '/', but cannot traverse paths since
// the file backend derives file names from them.
func ValidateStorageKey(key string) error {
	if err := ValidateID(key); err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid storage key")
	}
	for _, pattern := range []string{"..", "\\", "//"} {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidConfig, "storage key contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateParamKey validates a widget parameter name.
func ValidateParamKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return New(ErrCodeInvalidInput, "parameter name cannot be empty")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "parameter name contains invalid control characters")
		}
	}
	return nil
}
