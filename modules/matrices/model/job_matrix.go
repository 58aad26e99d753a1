package model

import "time"

// WeightedSkill is one required/preferred skill entry with a [0,100] weight.
type WeightedSkill struct {
	Skill  string `json:"skill"`
	Weight int    `json:"weight"`
}

// JobMatrix is a weighted job-requirements representation, 1:1 with Job.
// I4: SkillsWeight() must be > 0.
type JobMatrix struct {
	ID               string
	JobID            string
	RequiredSkills   []WeightedSkill
	PreferredSkills  []WeightedSkill
	ExperienceWeight int
	LocationWeight   int
	DomainWeight     int
	GeneratedAt      time.Time
	ModelVersion     string
}

// SkillsWeight derives the implicit skills weight per spec.md's
// `skills_weight = 100 − experience − location − domain`.
func (m *JobMatrix) SkillsWeight() int {
	return 100 - m.ExperienceWeight - m.LocationWeight - m.DomainWeight
}
