package validator

import "fmt"

// RequiredNum fails when the value equals the zero value of its type.
func RequiredNum[T Numeric](field string, value T) Rule {
	var zero T
	return Rule{
		Check: func() bool { return value != zero },
		Error: ValidationError{
			Field:          field,
			Message:        "field is required",
			TranslationKey: "validation.required",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// MinNum fails when the value is below min. The bound itself is allowed.
func MinNum[T Numeric](field string, value T, min T) Rule {
	return Rule{
		Check: func() bool { return value >= min },
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at least %v", min),
			TranslationKey: "validation.min",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min,
			},
		},
	}
}

// MaxNum fails when the value is above max. The bound itself is allowed.
func MaxNum[T Numeric](field string, value T, max T) Rule {
	return Rule{
		Check: func() bool { return value <= max },
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %v", max),
			TranslationKey: "validation.max",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}

// Min is shorthand for MinNum.
func Min[T Numeric](field string, value T, min T) Rule {
	return MinNum(field, value, min)
}

// Max is shorthand for MaxNum.
func Max[T Numeric](field string, value T, max T) Rule {
	return MaxNum(field, value, max)
}
