package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxFilenameLength bounds export filenames supplied over the API.
const maxFilenameLength = 255

// ValidateExportFilename validates a user supplied export filename.
// It must be a simple basename ending in .pdf so the HTTP API can echo it in a
// Content-Disposition header and the CLI can write it without surprises.
//
// Validation rules:
//   - Cannot be empty
//   - Maximum length of 255 characters
//   - No control characters or quotes
//   - No path separators
//   - Must carry a .pdf extension
func ValidateExportFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "export filename cannot be empty")
	}

	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidPath, "export filename too long (max %d characters)", maxFilenameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || r == '"' {
			return New(ErrCodeInvalidPath, "export filename contains invalid characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "export filename cannot contain path separators")
	}

	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return New(ErrCodeInvalidPath, "export filename must end in .pdf: %q", name)
	}

	return nil
}

// ValidateSectionIndex checks that idx addresses one of count sections.
func ValidateSectionIndex(idx, count int) error {
	if idx < 0 || idx >= count {
		return New(ErrCodeSectionNotFound, "section %d out of range (document has %d sections)", idx, count)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
