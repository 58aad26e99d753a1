package ports

import (
	"context"

	"github.com/andreypavlenko/matchcore/modules/candidates/model"
)

// CandidateRepository defines the interface for candidate data access.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *model.Candidate) error
	GetByID(ctx context.Context, id string) (*model.Candidate, error)
	FindByEmail(ctx context.Context, email string) (*model.Candidate, error)
	List(ctx context.Context, limit, offset int) ([]*model.Candidate, int, error)
	ListIDsWithMatrix(ctx context.Context) ([]string, error)
	ListIDsWithoutMatrix(ctx context.Context) ([]string, error)
	ListAllIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, candidate *model.Candidate) error
	Delete(ctx context.Context, id string) error
}
