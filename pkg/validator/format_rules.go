package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

// Phone number regex - international format with optional country code
var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidEmail validates that a string is a valid email address using RFC 5322.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}

			// Parse with Go's mail parser first
			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}

			// Additional validation for typical web use
			email := addr.Address
			parts := strings.Split(email, "@")
			if len(parts) != 2 {
				return false
			}

			localPart := parts[0]
			domain := parts[1]

			// Local part cannot be empty
			if localPart == "" {
				return false
			}

			// Domain must contain at least one dot and cannot start/end with dot
			if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}

			// Domain parts cannot be empty
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}

			return true
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid email address",
			TranslationKey: "validation.email",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidPhone validates that a string is a valid international phone number.
// Accepts formats like +1234567890, +123456789012345 (E.164 format).
func ValidPhone(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			// Remove spaces and dashes for validation
			cleaned := strings.ReplaceAll(strings.ReplaceAll(value, " ", ""), "-", "")

			// Must be at least 7 digits (minimum valid phone number)
			if len(cleaned) < 7 {
				return false
			}

			return phoneRegex.MatchString(cleaned)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid phone number in international format",
			TranslationKey: "validation.phone",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
