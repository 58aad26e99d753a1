package model

import "errors"

var (
	// ErrJobNotFound is returned when a job is not found.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobTitleRequired is returned when job title is empty.
	ErrJobTitleRequired = errors.New("job title is required")
	// ErrDescriptionTooShort is returned when description is under 50 chars.
	ErrDescriptionTooShort = errors.New("job description must be at least 50 characters")
	// ErrInvalidLocationType is returned for an out-of-range location_type.
	ErrInvalidLocationType = errors.New("invalid location type")
	// ErrInvalidSeniorityLevel is returned for an out-of-range seniority_level.
	ErrInvalidSeniorityLevel = errors.New("invalid seniority level")
	// ErrInvalidMinYearsExperience is returned when min_years_experience is out of [0,20].
	ErrInvalidMinYearsExperience = errors.New("min_years_experience must be between 0 and 20")
	// ErrInvalidJobStatus is returned when an invalid job status is provided.
	ErrInvalidJobStatus = errors.New("invalid job status")
)

// ErrorCode represents error codes.
type ErrorCode string

const (
	CodeJobNotFound               ErrorCode = "JOB_NOT_FOUND"
	CodeJobTitleRequired          ErrorCode = "JOB_TITLE_REQUIRED"
	CodeDescriptionTooShort       ErrorCode = "DESCRIPTION_TOO_SHORT"
	CodeInvalidLocationType       ErrorCode = "INVALID_LOCATION_TYPE"
	CodeInvalidSeniorityLevel     ErrorCode = "INVALID_SENIORITY_LEVEL"
	CodeInvalidMinYearsExperience ErrorCode = "INVALID_MIN_YEARS_EXPERIENCE"
	CodeInvalidJobStatus          ErrorCode = "INVALID_JOB_STATUS"
	CodeInternalError             ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrJobNotFound):
		return CodeJobNotFound
	case errors.Is(err, ErrJobTitleRequired):
		return CodeJobTitleRequired
	case errors.Is(err, ErrDescriptionTooShort):
		return CodeDescriptionTooShort
	case errors.Is(err, ErrInvalidLocationType):
		return CodeInvalidLocationType
	case errors.Is(err, ErrInvalidSeniorityLevel):
		return CodeInvalidSeniorityLevel
	case errors.Is(err, ErrInvalidMinYearsExperience):
		return CodeInvalidMinYearsExperience
	case errors.Is(err, ErrInvalidJobStatus):
		return CodeInvalidJobStatus
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrJobNotFound):
		return "Job not found"
	case errors.Is(err, ErrJobTitleRequired):
		return "Job title is required"
	case errors.Is(err, ErrDescriptionTooShort):
		return "Job description must be at least 50 characters"
	case errors.Is(err, ErrInvalidLocationType):
		return "Invalid location type"
	case errors.Is(err, ErrInvalidSeniorityLevel):
		return "Invalid seniority level"
	case errors.Is(err, ErrInvalidMinYearsExperience):
		return "min_years_experience must be between 0 and 20"
	case errors.Is(err, ErrInvalidJobStatus):
		return "Invalid job status"
	default:
		return "Internal server error"
	}
}
