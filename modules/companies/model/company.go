package model

import "time"

// Company represents a company entity
type Company struct {
	ID        string
	UserID    string
	Name      string
	Location  *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompanyDTO represents company data transfer object with enriched fields
type CompanyDTO struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Location           *string    `json:"location,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	JobsCount          int        `json:"jobs_count"`
	PublishedJobsCount int        `json:"published_jobs_count"`
	DerivedStatus      string     `json:"derived_status"`
	LastActivityAt     *time.Time `json:"last_activity_at,omitempty"`
}

// CompanyStatus represents the derived status of a company
type CompanyStatus string

const (
	CompanyStatusIdle   CompanyStatus = "idle"   // No job postings
	CompanyStatusHiring CompanyStatus = "hiring" // Has at least one published job
	CompanyStatusClosed CompanyStatus = "closed" // Jobs exist but none are published
)

// ToDTO converts Company to CompanyDTO
func (c *Company) ToDTO() *CompanyDTO {
	return &CompanyDTO{
		ID:        c.ID,
		Name:      c.Name,
		Location:  c.Location,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
