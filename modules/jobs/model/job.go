package model

import "time"

// Location types a Job posting may carry.
const (
	LocationOnsite = "onsite"
	LocationHybrid = "hybrid"
	LocationRemote = "remote"
)

// Seniority levels a Job posting may target.
const (
	SeniorityJunior    = "junior"
	SeniorityMid       = "mid"
	SenioritySenior    = "senior"
	SeniorityLead      = "lead"
	SeniorityPrincipal = "principal"
)

// Lifecycle statuses a Job posting moves through.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusClosed    = "closed"
)

// Job represents a job posting, the target half of the matching pipeline.
type Job struct {
	ID                 string
	CompanyID          *string
	Title              string
	Department         string
	Company            *string
	LocationType       string
	Country            string
	City               string
	Description        string
	MustHaveSkills     []string
	NiceToHaveSkills   []string
	MinYearsExperience int
	SeniorityLevel     string
	Status             string
	Deadline           *time.Time
	CreatedAt          time.Time
}

// JobDTO is the wire representation of a Job.
type JobDTO struct {
	ID                 string     `json:"id"`
	CompanyID          *string    `json:"company_id,omitempty"`
	Title              string     `json:"title"`
	Department         string     `json:"department"`
	Company            *string    `json:"company,omitempty"`
	LocationType       string     `json:"location_type"`
	Country            string     `json:"country"`
	City               string     `json:"city"`
	Description        string     `json:"description"`
	MustHaveSkills     []string   `json:"must_have_skills"`
	NiceToHaveSkills   []string   `json:"nice_to_have_skills"`
	MinYearsExperience int        `json:"min_years_experience"`
	SeniorityLevel     string     `json:"seniority_level"`
	Status             string     `json:"status"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ToDTO converts Job to JobDTO.
func (j *Job) ToDTO() *JobDTO {
	return &JobDTO{
		ID:                 j.ID,
		CompanyID:          j.CompanyID,
		Title:              j.Title,
		Department:         j.Department,
		Company:            j.Company,
		LocationType:       j.LocationType,
		Country:            j.Country,
		City:               j.City,
		Description:        j.Description,
		MustHaveSkills:     j.MustHaveSkills,
		NiceToHaveSkills:   j.NiceToHaveSkills,
		MinYearsExperience: j.MinYearsExperience,
		SeniorityLevel:     j.SeniorityLevel,
		Status:             j.Status,
		Deadline:           j.Deadline,
		CreatedAt:          j.CreatedAt,
	}
}
