package sanitizer

import "regexp"

// Pre-compiled regular expressions for performance
var (
	// Email and general formatting
	dotRegex = regexp.MustCompile(`\.+`)

	// Phone and numeric extraction
	nonDigitRegex = regexp.MustCompile(`\D`)

	// Whitespace normalization
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// HTML stripping
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

	// Filename sanitization
	unsafeFilenameRegex = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)
