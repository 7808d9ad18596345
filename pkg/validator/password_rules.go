package validator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	specialCharRegex = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?~` + "`" + `]`)

	// Common weak passwords - curated list of frequently compromised passwords
	commonPasswords = map[string]bool{
		"password":      true,
		"123456":        true,
		"password123":   true,
		"admin":         true,
		"qwerty":        true,
		"abc123":        true,
		"letmein":       true,
		"welcome":       true,
		"monkey":        true,
		"1234567890":    true,
		"dragon":        true,
		"sunshine":      true,
		"iloveyou":      true,
		"princess":      true,
		"football":      true,
		"password1":     true,
		"qwerty123":     true,
		"12345678":      true,
		"123456789":     true,
		"1234":          true,
		"12345":         true,
		"123123":        true,
		"111111":        true,
		"000000":        true,
		"qwertyuiop":    true,
		"asdfghjkl":     true,
		"zxcvbnm":       true,
		"password12":    true,
		"password!":     true,
		"Password":      true,
		"Password1":     true,
		"Password123":   true,
		"admin123":      true,
		"administrator": true,
		"root":          true,
		"guest":         true,
		"test":          true,
		"testing":       true,
		"user":          true,
		"login":         true,
		"pass":          true,
		"master":        true,
		"secret":        true,
		"trustno1":      true,
		"1q2w3e4r":      true,
		"1qaz2wsx":      true,
		"qazwsx":        true,
		"654321":        true,
		"987654321":     true,
		"abcdef":        true,
		"abcd1234":      true,
		"123qwe":        true,
		"qwe123":        true,
	}
)

type PasswordStrengthConfig struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigits    bool
	RequireSpecial   bool
	MinCharClasses   int // Minimum number of different character classes required
}

// DefaultPasswordStrength returns the password policy applied at registration:
// 8-72 bytes (bcrypt's input limit) with at least 3 character classes.
func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{
		MinLength:        8,
		MaxLength:        72,
		RequireUppercase: false,
		RequireLowercase: true,
		RequireDigits:    true,
		RequireSpecial:   false,
		MinCharClasses:   3,
	}
}

func StrongPassword(field, value string, config PasswordStrengthConfig) Rule {
	return Rule{
		Check: func() bool {
			if len(value) < config.MinLength || len(value) > config.MaxLength {
				return false
			}

			charClasses := 0
			hasUpper := uppercaseRegex.MatchString(value)
			hasLower := lowercaseRegex.MatchString(value)
			hasDigit := digitRegex.MatchString(value)
			hasSpecial := specialCharRegex.MatchString(value)

			if hasUpper {
				charClasses++
			}
			if hasLower {
				charClasses++
			}
			if hasDigit {
				charClasses++
			}
			if hasSpecial {
				charClasses++
			}

			// Check specific requirements
			if config.RequireUppercase && !hasUpper {
				return false
			}
			if config.RequireLowercase && !hasLower {
				return false
			}
			if config.RequireDigits && !hasDigit {
				return false
			}
			if config.RequireSpecial && !hasSpecial {
				return false
			}

			return charClasses >= config.MinCharClasses
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("password must be %d-%d characters with required character types", config.MinLength, config.MaxLength),
			TranslationKey: "validation.password_strength",
			TranslationValues: map[string]any{
				"field":             field,
				"min_length":        config.MinLength,
				"max_length":        config.MaxLength,
				"require_uppercase": config.RequireUppercase,
				"require_lowercase": config.RequireLowercase,
				"require_digits":    config.RequireDigits,
				"require_special":   config.RequireSpecial,
				"min_char_classes":  config.MinCharClasses,
			},
		},
	}
}

func NotCommonPassword(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return !commonPasswords[strings.ToLower(value)]
		},
		Error: ValidationError{
			Field:          field,
			Message:        "password is too common",
			TranslationKey: "validation.password_common",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
