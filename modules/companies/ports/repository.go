package ports

import (
	"context"

	"github.com/andreypavlenko/matchcore/modules/companies/model"
)

// ListOptions defines options for listing companies
type ListOptions struct {
	Limit   int
	Offset  int
	SortBy  string // "name", "last_activity", "jobs_count"
	SortDir string // "asc", "desc"
}

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	GetByID(ctx context.Context, userID, companyID string) (*model.Company, error)
	GetByIDEnriched(ctx context.Context, userID, companyID string) (*model.CompanyDTO, error)
	List(ctx context.Context, userID string, opts *ListOptions) ([]*model.CompanyDTO, int, error)
	Update(ctx context.Context, company *model.Company) error
	Delete(ctx context.Context, userID, companyID string) error
	GetRelatedJobsCount(ctx context.Context, userID, companyID string) (jobsCount int, err error)
}
