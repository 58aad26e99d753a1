package model

import "errors"

var (
	// ErrCvFileNotFound is returned when a CV file is not found.
	ErrCvFileNotFound = errors.New("cv file not found")
	// ErrEmptyFile is returned when an uploaded file has zero size (I2).
	ErrEmptyFile = errors.New("cv file is empty")
	// ErrInvalidStatusTransition names a status transition that skips the
	// ingestion pipeline's defined sequence. Status updates in this module
	// do not check transitions and do not return it.
	ErrInvalidStatusTransition = errors.New("invalid cv file status transition")
)

// ErrorCode represents error codes exposed to callers.
type ErrorCode string

const (
	CodeCvFileNotFound          ErrorCode = "CV_FILE_NOT_FOUND"
	CodeEmptyFile               ErrorCode = "CV_FILE_EMPTY"
	CodeInvalidStatusTransition ErrorCode = "CV_FILE_INVALID_STATUS_TRANSITION"
	CodeInternalError           ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrCvFileNotFound):
		return CodeCvFileNotFound
	case errors.Is(err, ErrEmptyFile):
		return CodeEmptyFile
	case errors.Is(err, ErrInvalidStatusTransition):
		return CodeInvalidStatusTransition
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrCvFileNotFound):
		return "CV file not found"
	case errors.Is(err, ErrEmptyFile):
		return "Uploaded CV file is empty"
	case errors.Is(err, ErrInvalidStatusTransition):
		return "CV file status transition is not allowed"
	default:
		return "Internal server error"
	}
}
