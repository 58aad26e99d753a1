package model

import "errors"

var (
	// ErrCandidateMatrixNotFound is returned when no matrix exists yet for
	// a candidate.
	ErrCandidateMatrixNotFound = errors.New("candidate matrix not found")
	// ErrJobMatrixNotFound is returned when no matrix exists yet for a job.
	ErrJobMatrixNotFound = errors.New("job matrix not found")
	// ErrInvalidWeights is returned when a job matrix's weights violate I4
	// (skills_weight must stay > 0).
	ErrInvalidWeights = errors.New("job matrix weights leave a non-positive skills weight")
	// ErrMatrixGenerationFailed is returned when matrix generation fails
	// after the retry budget is exhausted.
	ErrMatrixGenerationFailed = errors.New("matrix generation failed")
)

// ErrorCode represents error codes exposed to callers.
type ErrorCode string

const (
	CodeCandidateMatrixNotFound ErrorCode = "CANDIDATE_MATRIX_NOT_FOUND"
	CodeJobMatrixNotFound       ErrorCode = "JOB_MATRIX_NOT_FOUND"
	CodeInvalidWeights          ErrorCode = "INVALID_WEIGHTS"
	CodeMatrixGenerationFailed  ErrorCode = "MATRIX_GENERATION_FAILED"
	CodeInternalError           ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrCandidateMatrixNotFound):
		return CodeCandidateMatrixNotFound
	case errors.Is(err, ErrJobMatrixNotFound):
		return CodeJobMatrixNotFound
	case errors.Is(err, ErrInvalidWeights):
		return CodeInvalidWeights
	case errors.Is(err, ErrMatrixGenerationFailed):
		return CodeMatrixGenerationFailed
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrCandidateMatrixNotFound):
		return "Candidate matrix not found"
	case errors.Is(err, ErrJobMatrixNotFound):
		return "Job matrix not found"
	case errors.Is(err, ErrInvalidWeights):
		return "Job matrix weights leave a non-positive skills weight"
	case errors.Is(err, ErrMatrixGenerationFailed):
		return "Matrix generation failed"
	default:
		return "Internal server error"
	}
}
