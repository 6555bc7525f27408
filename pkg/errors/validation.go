package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// MaxLineWidth bounds line widths accepted from users. Widths are measured
// in the same abstract units as box widths.
const MaxLineWidth = 1 << 30

// ValidateWidth checks a line width supplied by a user.
func ValidateWidth(width int) error {
	if width <= 0 {
		return New(ErrCodeInvalidInput, "line width must be positive, got %d", width)
	}
	if width > MaxLineWidth {
		return New(ErrCodeInvalidInput, "line width too large (max %d)", MaxLineWidth)
	}
	return nil
}

// ValidateWidths checks a per-line width list. An empty list is valid and
// means the default width applies.
func ValidateWidths(widths []int) error {
	for i, w := range widths {
		if err := ValidateWidth(w); err != nil {
			return Wrap(ErrCodeInvalidInput, err, "width %d", i+1)
		}
	}
	return nil
}

// ValidateFilename validates a sequence or output filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	return nil
}

// ValidatePath validates a relative file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// cacheSchemes lists the URL schemes a cache backend can be opened with.
var cacheSchemes = map[string]bool{
	"file":        true,
	"redis":       true,
	"rediss":      true,
	"mongodb":     true,
	"mongodb+srv": true,
}

// ValidateCacheURL validates a cache backend URL. An empty URL is valid and
// selects the null cache.
func ValidateCacheURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid cache URL")
	}
	if !cacheSchemes[u.Scheme] {
		return New(ErrCodeUnsupported, "unsupported cache scheme %q", u.Scheme)
	}
	return nil
}

// MaxTextLength bounds the size of text accepted for breaking.
const MaxTextLength = 1 << 20

// ValidateText rejects text that is too long or contains NUL bytes.
func ValidateText(text string) error {
	if len(text) > MaxTextLength {
		return New(ErrCodeInvalidInput, "text too long (max %d bytes)", MaxTextLength)
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidInput, "text contains null bytes")
	}
	return nil
}
