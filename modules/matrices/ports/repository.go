package ports

import (
	"context"

	"github.com/andreypavlenko/matchcore/modules/matrices/model"
)

// CandidateMatrixRepository persists the single authoritative
// CandidateMatrix per candidate (I3).
type CandidateMatrixRepository interface {
	Upsert(ctx context.Context, matrix *model.CandidateMatrix) error
	GetByCandidateID(ctx context.Context, candidateID string) (*model.CandidateMatrix, error)
	ListAllWithCandidateIDs(ctx context.Context) ([]*model.CandidateMatrix, error)
}

// JobMatrixRepository persists the 1:1 JobMatrix per Job.
type JobMatrixRepository interface {
	Upsert(ctx context.Context, matrix *model.JobMatrix) error
	GetByJobID(ctx context.Context, jobID string) (*model.JobMatrix, error)
	ListAllWithJobIDs(ctx context.Context) ([]*model.JobMatrix, error)
}
