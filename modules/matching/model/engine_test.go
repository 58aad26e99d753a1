package model

import "testing"

func baseJob() JobInput {
	return JobInput{
		Title:              "Software Engineer",
		Country:            "US",
		LocationType:       "onsite",
		MinYearsExperience: 3,
		SeniorityLevel:     "mid",
		RequiredSkills:     []WeightedSkill{{Skill: "Python", Weight: 80}},
		ExperienceWeight:   20,
		LocationWeight:     10,
		DomainWeight:       10,
	}
}

func TestScoreBounded(t *testing.T) {
	c := CandidateInput{TotalYearsExperience: 4, Skills: []CandidateSkill{{Name: "Python"}}}
	res := CalculateMatchScore(c, baseJob())
	for _, v := range []int{res.Score, res.Breakdown.Skills, res.Breakdown.Experience, res.Breakdown.Domain, res.Breakdown.Location} {
		if v < 0 || v > 100 {
			t.Errorf("sub-score out of range: %d", v)
		}
	}
}

// S1 — soft skills do not score; pre-filter rejects.
func TestS1SoftSkillsDoNotScore(t *testing.T) {
	j := JobInput{
		MinYearsExperience: 2,
		SeniorityLevel:     "junior",
		RequiredSkills: []WeightedSkill{
			{Skill: "Communication", Weight: 80},
			{Skill: "React Native", Weight: 80},
		},
	}
	c := CandidateInput{
		TotalYearsExperience: 2,
		Skills:               []CandidateSkill{{Name: "Communication", YearsOfExperience: 5}},
	}
	if ShouldConsider(c, j) {
		t.Error("expected candidate to be excluded: no core skill match")
	}
}

// S2 — React vs React Native: excluded / scores 0 if scored anyway.
func TestS2ReactVsReactNative(t *testing.T) {
	j := JobInput{
		MinYearsExperience: 2,
		SeniorityLevel:     "junior",
		RequiredSkills:     []WeightedSkill{{Skill: "React Native", Weight: 90}},
	}
	c := CandidateInput{TotalYearsExperience: 3, Skills: []CandidateSkill{{Name: "React", YearsOfExperience: 3}}}
	if ShouldConsider(c, j) {
		t.Error("expected candidate to be excluded")
	}
	res := CalculateMatchScore(c, j)
	if res.Breakdown.Skills != 0 {
		t.Errorf("expected skills sub-score 0, got %d", res.Breakdown.Skills)
	}
}

// S3 — SQL family compatibility.
func TestS3SQLFamilyCompatibility(t *testing.T) {
	j := JobInput{
		MinYearsExperience: 2,
		SeniorityLevel:     "junior",
		RequiredSkills:     []WeightedSkill{{Skill: "SQL", Weight: 80}},
	}
	c := CandidateInput{TotalYearsExperience: 2, Skills: []CandidateSkill{{Name: "MySQL", YearsOfExperience: 4}}}
	if !ShouldConsider(c, j) {
		t.Fatal("expected candidate to pass pre-filter")
	}
	res := CalculateMatchScore(c, j)
	if res.Breakdown.Skills < 60 {
		t.Errorf("expected skills sub-score >= 60, got %d", res.Breakdown.Skills)
	}
}

// S4 — internship, intern candidate.
func TestS4InternshipInternCandidate(t *testing.T) {
	j := JobInput{
		MinYearsExperience: 0,
		SeniorityLevel:     "junior",
		RequiredSkills:     []WeightedSkill{{Skill: "Python", Weight: 70}},
		ExperienceWeight:   20,
		LocationWeight:     0,
		DomainWeight:       0,
	}
	c := CandidateInput{
		Headline:             "Software Engineering Intern",
		TotalYearsExperience: 1,
		Skills:               []CandidateSkill{{Name: "Python"}},
	}
	if !ShouldConsider(c, j) {
		t.Fatal("expected intern candidate to be included")
	}
	res := CalculateMatchScore(c, j)
	if res.Breakdown.Experience != 90 {
		t.Errorf("expected experience sub-score 90, got %d", res.Breakdown.Experience)
	}
	if res.Score < 70 {
		t.Errorf("expected final score >= 70, got %d", res.Score)
	}
}

// S5 — overqualified for junior.
func TestS5OverqualifiedJunior(t *testing.T) {
	j := JobInput{
		MinYearsExperience: 0,
		SeniorityLevel:     "junior",
		RequiredSkills:     []WeightedSkill{{Skill: "Python", Weight: 80}},
	}
	c := CandidateInput{TotalYearsExperience: 5, Skills: []CandidateSkill{{Name: "Python"}}}
	if ShouldConsider(c, j) {
		t.Error("expected pre-filter to exclude overqualified candidate")
	}
}

// P7 — internship acceptance with a matching core skill scores > 0.
func TestP7InternshipAcceptance(t *testing.T) {
	j := JobInput{
		MinYearsExperience: 0,
		SeniorityLevel:     "junior",
		RequiredSkills:     []WeightedSkill{{Skill: "Python", Weight: 80}},
		ExperienceWeight:   20,
	}
	c := CandidateInput{Headline: "Intern", TotalYearsExperience: 0, Skills: []CandidateSkill{{Name: "Python"}}}
	if !ShouldConsider(c, j) {
		t.Fatal("expected intern to be considered")
	}
	res := CalculateMatchScore(c, j)
	if res.Score <= 0 {
		t.Errorf("expected score > 0, got %d", res.Score)
	}
}

func TestNoSkillsExcluded(t *testing.T) {
	c := CandidateInput{TotalYearsExperience: 4}
	if ShouldConsider(c, baseJob()) {
		t.Error("expected candidate with no skills to be excluded")
	}
}

func TestRemoteAlwaysMaxLocation(t *testing.T) {
	j := baseJob()
	j.LocationType = "remote"
	if calculateLocationScore(CandidateInput{}, j) != 100 {
		t.Error("expected remote location score 100")
	}
}
