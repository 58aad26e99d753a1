package llm

import "errors"

var (
	// ErrSchemaViolation is returned when the model's response does not
	// parse into the expected JSON shape even after one retry.
	ErrSchemaViolation = errors.New("llm schema violation")
	// ErrUnavailable is returned when the provider call itself fails
	// (network error, non-2xx, timeout).
	ErrUnavailable = errors.New("llm unavailable")
)
