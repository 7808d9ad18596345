package sanitizer

import "strings"

// NormalizeEmail prevents common email input errors but preserves original for invalid formats.
// Consolidates consecutive dots which can cause delivery issues with some email providers.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := parts[0]
	domain := parts[1]

	// Consolidate consecutive dots to prevent delivery failures
	local = dotRegex.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")

	return local + "@" + domain
}

// MaskEmail preserves full domain for user recognition while hiding personal info.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := parts[0]
	domain := parts[1]

	if len(local) == 0 {
		return email
	}

	if len(local) == 1 {
		return "*@" + domain
	}

	masked := string(local[0]) + strings.Repeat("*", len(local)-1)
	return masked + "@" + domain
}

// NormalizePhone strips formatting to enable consistent database storage and comparison.
// A leading plus sign is preserved so E.164 numbers stay distinguishable.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	prefix := ""
	if strings.HasPrefix(phone, "+") {
		prefix = "+"
	}
	return prefix + nonDigitRegex.ReplaceAllString(phone, "")
}

// NormalizeWhitespace prevents layout issues from multiple spaces, tabs, and newlines.
func NormalizeWhitespace(s string) string {
	normalized := whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(normalized)
}

// SanitizeFilename prevents filesystem vulnerabilities and ensures cross-platform compatibility.
// Enforces 255-byte limit and provides fallback for completely invalid names.
func SanitizeFilename(filename string) string {
	// Replace filesystem-unsafe characters
	safe := unsafeFilenameRegex.ReplaceAllString(filename, "_")

	// Remove problematic leading/trailing characters
	safe = strings.Trim(safe, " .")

	// Enforce filesystem length limits
	if len(safe) > 255 {
		safe = safe[:255]
	}

	// Prevent empty filenames
	if safe == "" {
		safe = "file"
	}

	return safe
}
