package validator

import "errors"

// ErrValidationFailed is the generic failure sentinel for callers that do not
// need the per-field detail carried by ValidationErrors.
var ErrValidationFailed = errors.New("validation failed")
