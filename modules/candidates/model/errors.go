package model

import "errors"

var (
	// ErrCandidateNotFound is returned when a candidate is not found.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrNameRequired is returned when a candidate name is empty.
	ErrNameRequired = errors.New("candidate name is required")
	// ErrEmailRequired is returned when a candidate email is empty.
	ErrEmailRequired = errors.New("candidate email is required")
	// ErrEmailConflict is returned when a candidate email already exists
	// (case-insensitive).
	ErrEmailConflict = errors.New("candidate email already exists")
	// ErrNameUnrecoverable is returned when neither the LLM-extracted name
	// nor the header-extraction fallback yields a valid name.
	ErrNameUnrecoverable = errors.New("candidate name could not be recovered")
)

// ErrorCode represents error codes exposed to callers.
type ErrorCode string

const (
	CodeCandidateNotFound ErrorCode = "CANDIDATE_NOT_FOUND"
	CodeNameRequired      ErrorCode = "NAME_REQUIRED"
	CodeEmailRequired     ErrorCode = "EMAIL_REQUIRED"
	CodeEmailConflict     ErrorCode = "EMAIL_CONFLICT"
	CodeNameUnrecoverable ErrorCode = "NAME_UNRECOVERABLE"
	CodeInternalError     ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrCandidateNotFound):
		return CodeCandidateNotFound
	case errors.Is(err, ErrNameRequired):
		return CodeNameRequired
	case errors.Is(err, ErrEmailRequired):
		return CodeEmailRequired
	case errors.Is(err, ErrEmailConflict):
		return CodeEmailConflict
	case errors.Is(err, ErrNameUnrecoverable):
		return CodeNameUnrecoverable
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrCandidateNotFound):
		return "Candidate not found"
	case errors.Is(err, ErrNameRequired):
		return "Candidate name is required"
	case errors.Is(err, ErrEmailRequired):
		return "Candidate email is required"
	case errors.Is(err, ErrEmailConflict):
		return "A candidate with this email already exists"
	case errors.Is(err, ErrNameUnrecoverable):
		return "Candidate name could not be determined"
	default:
		return "Internal server error"
	}
}
