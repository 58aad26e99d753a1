package model

import "time"

// CreateJobRequest creates a job from explicit fields. If Status is
// "published", a JobMatrix is generated and the fan-out to candidates runs.
type CreateJobRequest struct {
	CompanyID          *string    `json:"company_id,omitempty"`
	Title              string     `json:"title" binding:"required,min=1,max=255"`
	Department         string     `json:"department"`
	Company            *string    `json:"company,omitempty"`
	LocationType       string     `json:"location_type" binding:"required"`
	Country            string     `json:"country" binding:"required"`
	City               string     `json:"city"`
	Description        string     `json:"description" binding:"required"`
	MustHaveSkills     []string   `json:"must_have_skills"`
	NiceToHaveSkills   []string   `json:"nice_to_have_skills"`
	MinYearsExperience int        `json:"min_years_experience"`
	SeniorityLevel     string     `json:"seniority_level" binding:"required"`
	Status             string     `json:"status"`
	Deadline           *time.Time `json:"deadline,omitempty"`
}

// UpdateJobRequest patches a subset of a Job's fields.
type UpdateJobRequest struct {
	CompanyID          *string    `json:"company_id,omitempty"`
	Title              *string    `json:"title,omitempty"`
	Department         *string    `json:"department,omitempty"`
	Company            *string    `json:"company,omitempty"`
	LocationType       *string    `json:"location_type,omitempty"`
	Country            *string    `json:"country,omitempty"`
	City               *string    `json:"city,omitempty"`
	Description        *string    `json:"description,omitempty"`
	MustHaveSkills     []string   `json:"must_have_skills,omitempty"`
	NiceToHaveSkills   []string   `json:"nice_to_have_skills,omitempty"`
	MinYearsExperience *int       `json:"min_years_experience,omitempty"`
	SeniorityLevel     *string    `json:"seniority_level,omitempty"`
	Status             *string    `json:"status,omitempty"`
	Deadline           *time.Time `json:"deadline,omitempty"`
}

// FromURLRequest ingests a remote job posting.
type FromURLRequest struct {
	URL    string `json:"url" binding:"required,url"`
	Status string `json:"status"`
}
