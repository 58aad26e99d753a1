package model

import (
	"errors"
	"time"
)

// Match statuses a persisted Match may carry. Status is operator-set and
// survives recomputation: rerunning the engine updates score/breakdown in
// place but never resets status back to pending.
const (
	StatusPending     = "pending"
	StatusShortlisted = "shortlisted"
	StatusRejected    = "rejected"
)

// Match is the persisted (candidate, job) scoring outcome. (candidate_id,
// job_id) is unique (I5); rerun updates the row in place.
type Match struct {
	ID           string
	CandidateID  string
	JobID        string
	Score        int
	Breakdown    Breakdown
	Explanation  string
	Gaps         []Gap
	Status       string
	CalculatedAt time.Time
}

var (
	// ErrMatchNotFound is returned when no match exists for a pair.
	ErrMatchNotFound = errors.New("match not found")
)

// ErrorCode represents error codes exposed to callers.
type ErrorCode string

const (
	CodeMatchNotFound ErrorCode = "MATCH_NOT_FOUND"
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return CodeMatchNotFound
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return "Match not found"
	default:
		return "Internal server error"
	}
}
