package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tutorlyhq/tutorly/pkg/validator"
)

// JSONResponse is the standard API response envelope.
type JSONResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// maxBodyBytes caps request bodies to keep malformed clients from exhausting memory.
const maxBodyBytes = 1 << 20

// WriteJSON renders an arbitrary payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Success renders a successful envelope with optional message and data.
func Success(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, JSONResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error renders an error envelope. Validation errors become 422 responses with
// per-field details; HTTPError values keep their status; anything else is a 500
// with a generic message so internals never leak to clients.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	var details map[string][]string

	if ve := validator.ExtractValidationErrors(err); ve != nil {
		status = http.StatusUnprocessableEntity
		message = "validation failed"
		details = make(map[string][]string, len(ve.Fields()))
		for _, field := range ve.Fields() {
			details[field] = ve.Get(field)
		}
	} else {
		var withMsg HTTPErrorWithMessage
		var httpErr HTTPError
		switch {
		case errors.As(err, &withMsg):
			status = withMsg.Code
			message = withMsg.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = http.StatusText(httpErr.Code)
		}
	}

	WriteJSON(w, status, JSONResponse{
		Success: false,
		Message: message,
		Errors:  details,
	})
}

// DecodeJSON parses a JSON request body into dst, rejecting unknown fields and
// oversized bodies. Returns ErrBadRequest variants suitable for Error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return ErrRequestEntityTooLarge.WithMessage("request body too large")
		}
		return ErrBadRequest.WithMessage("invalid request body")
	}

	// Reject trailing garbage after the JSON document.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrBadRequest.WithMessage("invalid request body")
	}

	return nil
}
