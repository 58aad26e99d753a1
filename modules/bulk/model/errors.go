package model

import "errors"

var (
	// ErrBulkJobNotFound is returned when a job_id has no registry entry.
	ErrBulkJobNotFound = errors.New("bulk job not found")
	// ErrBulkJobConflict is returned when a job of the same operation type
	// is already running.
	ErrBulkJobConflict = errors.New("a bulk job of this type is already running")
)

// ErrorCode represents error codes exposed to callers.
type ErrorCode string

const (
	CodeBulkJobNotFound ErrorCode = "BULK_JOB_NOT_FOUND"
	CodeBulkJobConflict ErrorCode = "BULK_JOB_CONFLICT"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrBulkJobNotFound):
		return CodeBulkJobNotFound
	case errors.Is(err, ErrBulkJobConflict):
		return CodeBulkJobConflict
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrBulkJobNotFound):
		return "Bulk job not found"
	case errors.Is(err, ErrBulkJobConflict):
		return "A bulk job of this type is already running"
	default:
		return "Internal server error"
	}
}
