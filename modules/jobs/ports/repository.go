package ports

import (
	"context"

	"github.com/andreypavlenko/matchcore/modules/jobs/model"
)

// JobRepository defines the interface for job data access.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, jobID string) (*model.Job, error)
	List(ctx context.Context, limit, offset int, status string) ([]*model.JobDTO, int, error)
	ListPublishedIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, jobID string) error
}
