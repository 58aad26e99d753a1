package llm

// CandidateInfo is the output of ExtractCandidateInfo.
type CandidateInfo struct {
	Name        string  `json:"name"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Country     *string `json:"country,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
	Headline    *string `json:"headline,omitempty"`
}

// MatrixSkill is one skill entry inside a generated candidate matrix.
type MatrixSkill struct {
	Name              string  `json:"name"`
	Level             string  `json:"level"`
	YearsOfExperience float64 `json:"years_of_experience"`
}

// MatrixEducation is one education entry.
type MatrixEducation struct {
	Degree      string  `json:"degree"`
	Institution string  `json:"institution"`
	Field       *string `json:"field,omitempty"`
	Year        *int    `json:"year,omitempty"`
}

// MatrixEvidence is one evidence entry backing a matrix field.
type MatrixEvidence struct {
	Field      string `json:"field"`
	Snippet    string `json:"snippet"`
	SourcePage *int   `json:"source_page,omitempty"`
}

// MatrixLocationSignals captures a candidate's location preferences.
type MatrixLocationSignals struct {
	CurrentCountry     *string  `json:"current_country,omitempty"`
	WillingToRelocate  bool     `json:"willing_to_relocate"`
	PreferredLocations []string `json:"preferred_locations"`
}

// CandidateMatrixContent is the raw (no-IDs) output of GenerateCandidateMatrix.
type CandidateMatrixContent struct {
	Skills               []MatrixSkill         `json:"skills"`
	Roles                []string              `json:"roles"`
	TotalYearsExperience float64               `json:"total_years_experience"`
	Domains              []string              `json:"domains"`
	Education            []MatrixEducation     `json:"education"`
	Languages            []string              `json:"languages"`
	LocationSignals      MatrixLocationSignals `json:"location_signals"`
	Confidence           float64               `json:"confidence"`
	Evidence             []MatrixEvidence      `json:"evidence"`
}

// WeightedSkill is one required/preferred skill entry in a job matrix.
type WeightedSkill struct {
	Skill  string `json:"skill"`
	Weight int    `json:"weight"`
}

// JobMatrixContent is the raw output of GenerateJobMatrix.
type JobMatrixContent struct {
	RequiredSkills   []WeightedSkill `json:"required_skills"`
	PreferredSkills  []WeightedSkill `json:"preferred_skills"`
	ExperienceWeight int             `json:"experience_weight"`
	LocationWeight   int             `json:"location_weight"`
	DomainWeight     int             `json:"domain_weight"`
}

// JobPostingInfo is the output of ExtractJobInfoFromPosting.
type JobPostingInfo struct {
	Title              string   `json:"title"`
	Department         *string  `json:"department,omitempty"`
	Company            *string  `json:"company,omitempty"`
	LocationType       string   `json:"location_type"`
	CountryCode        string   `json:"country_code"`
	City               string   `json:"city"`
	Description        string   `json:"description"`
	MustHaveSkills     []string `json:"must_have_skills"`
	NiceToHaveSkills   []string `json:"nice_to_have_skills"`
	MinYearsExperience int      `json:"min_years_experience"`
	SeniorityLevel     string   `json:"seniority_level"`
}
