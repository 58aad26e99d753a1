package ports

import (
	"context"

	"github.com/andreypavlenko/matchcore/modules/cvfiles/model"
)

// CvFileRepository defines the interface for CV file data access.
type CvFileRepository interface {
	Create(ctx context.Context, file *model.CvFile) error
	GetByID(ctx context.Context, id string) (*model.CvFile, error)
	GetLatestForCandidate(ctx context.Context, candidateID string) (*model.CvFile, error)
	ListForCandidate(ctx context.Context, candidateID string) ([]*model.CvFile, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	UpdateStorageKey(ctx context.Context, id string, storageKey string) error
	Delete(ctx context.Context, id string) error
}
