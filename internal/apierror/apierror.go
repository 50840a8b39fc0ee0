// Package apierror defines the JSON error envelopes every 4xx/5xx response
// uses. Handlers build responses exclusively through this package so clients
// can always parse `detail`, and so internal detail (driver errors, stack
// traces) never reaches the wire.
package apierror

// APIError carries a single human-readable message.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError adds a per-field breakdown for 422 responses.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}
