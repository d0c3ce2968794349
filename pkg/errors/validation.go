package errors

import (
	"strings"
	"unicode"
)

// MaxSourceBytes bounds the size of a document accepted for detection over
// the API. Editors send whole buffers on every change, so anything past this
// is almost certainly not hand-written CSS or JavaScript.
const MaxSourceBytes = 2 << 20

// ValidatePosition validates a 1-based line and 0-based column.
func ValidatePosition(line, column int) error {
	if line < 1 {
		return New(ErrCodeInvalidPosition, "line must be >= 1, got %d", line)
	}
	if column < 0 {
		return New(ErrCodeInvalidPosition, "column must be >= 0, got %d", column)
	}
	return nil
}

// ValidateSource rejects documents larger than [MaxSourceBytes].
func ValidateSource(source string) error {
	if len(source) > MaxSourceBytes {
		return New(ErrCodeSourceTooLarge, "source is %d bytes (max %d)", len(source), MaxSourceBytes)
	}
	return nil
}

// ValidateLanguage accepts the editor language ids understood by the engine.
// An empty string is accepted and means "infer".
func ValidateLanguage(lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return nil
	}
	for _, r := range lang {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidLanguage, "language contains invalid characters")
		}
	}
	if len(lang) > 32 {
		return New(ErrCodeInvalidLanguage, "language name too long (max 32 characters)")
	}
	return nil
}

// ValidatePath validates a file path given on the command line.
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

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
