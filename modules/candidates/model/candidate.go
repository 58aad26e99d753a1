package model

import "time"

// Candidate is a person in the matching corpus, created by ingestion or
// registration. Mutable via profile edits; deletion cascades to cv_files,
// matrices, matches, and applications.
type Candidate struct {
	ID        string
	Name      string
	Email     string
	Phone     *string
	Country   *string
	Headline  *string
	Roles     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CandidateDTO is the wire representation of a Candidate.
type CandidateDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Country   *string   `json:"country,omitempty"`
	Headline  *string   `json:"headline,omitempty"`
	Roles     []string  `json:"roles,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToDTO converts a Candidate to its wire representation.
func (c *Candidate) ToDTO() *CandidateDTO {
	return &CandidateDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Country:   c.Country,
		Headline:  c.Headline,
		Roles:     c.Roles,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
