// Package model holds the pure matching-engine types and algorithm (C7).
// Nothing here performs IO, reads the clock, or calls into the LLM —
// ShouldConsider and CalculateMatchScore are total, deterministic functions
// of their inputs.
package model

// CandidateSkill is one entry of a candidate's matrix skill list.
type CandidateSkill struct {
	Name              string
	Level             string
	YearsOfExperience float64
}

// CandidateInput is the subset of a CandidateMatrix (plus Candidate fields)
// the matching engine needs.
type CandidateInput struct {
	Headline             string
	Roles                []string
	Domains              []string
	TotalYearsExperience float64
	Skills               []CandidateSkill
	CurrentCountry       string
	WillingToRelocate    bool
	PreferredLocations   []string
}

// WeightedSkill is one required/preferred job-matrix skill entry.
type WeightedSkill struct {
	Skill  string
	Weight int
}

// JobInput is the subset of a Job + JobMatrix the matching engine needs.
type JobInput struct {
	Title              string
	Department         string
	Description        string
	Country            string
	City               string
	LocationType       string // onsite | hybrid | remote
	MinYearsExperience float64
	SeniorityLevel     string // junior | mid | senior | lead | principal
	RequiredSkills     []WeightedSkill
	PreferredSkills    []WeightedSkill
	ExperienceWeight   int
	LocationWeight     int
	DomainWeight       int
}

// Breakdown holds the four sub-scores, each in [0,100].
type Breakdown struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Domain     int `json:"domain"`
	Location   int `json:"location"`
}

// GapSeverity enumerates gap severities.
type GapSeverity string

const (
	GapMinor    GapSeverity = "minor"
	GapModerate GapSeverity = "moderate"
	GapMajor    GapSeverity = "major"
	GapCritical GapSeverity = "critical"
)

// Gap is one explanation-list entry.
type Gap struct {
	Severity    GapSeverity `json:"severity"`
	Description string      `json:"description"`
}

// Result is the full output of CalculateMatchScore.
type Result struct {
	Score       int       `json:"score"`
	Breakdown   Breakdown `json:"breakdown"`
	Explanation string    `json:"explanation"`
	Gaps        []Gap     `json:"gaps"`
}

var internShapedTokens = []string{"intern", "internship", "trainee", "apprentice", "student"}
