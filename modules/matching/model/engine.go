package model

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/andreypavlenko/matchcore/modules/normalize"
)

func isInternShaped(c CandidateInput) bool {
	haystacks := append([]string{c.Headline}, c.Roles...)
	for _, h := range haystacks {
		lower := strings.ToLower(h)
		for _, tok := range internShapedTokens {
			if strings.Contains(lower, tok) {
				return true
			}
		}
	}
	return false
}

func isInternshipJob(j JobInput) bool {
	return j.MinYearsExperience == 0
}

// candidateSkillIndex builds the normalized-token and original-lowercase
// lookup sets used throughout matching, excluding soft skills.
type candidateSkillIndex struct {
	normalized map[string]bool
	original   map[string]bool
	originals  []string // raw skill names, for SQL-family compatibility checks
	technical  int      // count of non-soft candidate skills
}

func buildSkillIndex(c CandidateInput) candidateSkillIndex {
	idx := candidateSkillIndex{
		normalized: map[string]bool{},
		original:   map[string]bool{},
	}
	for _, s := range c.Skills {
		if normalize.IsSoftSkill(s.Name) {
			continue
		}
		idx.technical++
		idx.normalized[normalize.Normalize(s.Name)] = true
		idx.original[strings.ToLower(strings.TrimSpace(s.Name))] = true
		idx.originals = append(idx.originals, s.Name)
	}
	return idx
}

func (idx candidateSkillIndex) matches(reqSkill string) bool {
	if idx.normalized[normalize.Normalize(reqSkill)] {
		return true
	}
	if idx.original[strings.ToLower(strings.TrimSpace(reqSkill))] {
		return true
	}
	for _, o := range idx.originals {
		if normalize.AreSQLCompatible(reqSkill, o) {
			return true
		}
	}
	return false
}

func isCoreCandidate(skill string) bool {
	return !normalize.IsSoftSkill(skill) && !normalize.IsGenericTechSkill(skill)
}

// ShouldConsider is the C7 pre-filter. It never panics and always returns a
// definite answer.
func ShouldConsider(c CandidateInput, j JobInput) bool {
	years := c.TotalYearsExperience
	internship := isInternshipJob(j)

	if internship {
		if isInternShaped(c) {
			if years > 2 {
				return false
			}
		} else if years != 0 {
			return false
		}
	} else {
		if j.MinYearsExperience > 0 && years < 0.8*j.MinYearsExperience {
			return false
		}
		switch strings.ToLower(j.SeniorityLevel) {
		case "junior":
			if years > 3 {
				return false
			}
		case "mid":
			if years > 8 {
				return false
			}
		case "senior":
			if years > 15 {
				return false
			}
		}
	}

	if len(c.Skills) == 0 {
		return false
	}

	idx := buildSkillIndex(c)

	var coreRequired []WeightedSkill
	for _, s := range j.RequiredSkills {
		if isCoreCandidate(s.Skill) {
			coreRequired = append(coreRequired, s)
		}
	}

	if len(coreRequired) > 0 {
		matchedAny := false
		for _, s := range coreRequired {
			if idx.matches(s.Skill) {
				matchedAny = true
				break
			}
		}
		if internship {
			if !matchedAny && idx.technical == 0 {
				return false
			}
		} else if !matchedAny {
			return false
		}
	}

	return true
}

func effectiveWeight(skill string, weight int) float64 {
	w := float64(weight)
	if normalize.IsGenericTechSkill(skill) {
		return w * 0.3
	}
	return w
}

// partition splits required skills into core (top-N by weight) and
// non-core, where N = max(3, ceil(0.3*total)).
func partitionCore(skills []WeightedSkill) (core, nonCore []WeightedSkill) {
	n := int(math.Ceil(0.3 * float64(len(skills))))
	if n < 3 {
		n = 3
	}
	if n > len(skills) {
		n = len(skills)
	}
	ordered := append([]WeightedSkill(nil), skills...)
	// stable selection of the top-N by weight, descending.
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].Weight > ordered[b].Weight
	})
	core = ordered[:n]
	nonCore = ordered[n:]
	return core, nonCore
}

type weightRatio struct {
	matchedWeight float64
	totalWeight   float64
	matchedCount  int
}

func computeRatio(idx candidateSkillIndex, skills []WeightedSkill) weightRatio {
	var r weightRatio
	for _, s := range skills {
		w := effectiveWeight(s.Skill, s.Weight)
		r.totalWeight += w
		if idx.matches(s.Skill) {
			r.matchedWeight += w
			r.matchedCount++
		}
	}
	return r
}

func ratioOf(matched, total float64) float64 {
	if total == 0 {
		return 0
	}
	return matched / total
}

func round(f float64) int {
	return int(math.Round(f))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// calculateSkillsScore implements spec.md §4.7.2's skills sub-score.
func calculateSkillsScore(c CandidateInput, j JobInput, internship bool) int {
	idx := buildSkillIndex(c)

	core, nonCore := partitionCore(j.RequiredSkills)
	coreRatioInfo := computeRatio(idx, core)
	nonCoreRatioInfo := computeRatio(idx, nonCore)

	coreRatio := ratioOf(coreRatioInfo.matchedWeight, coreRatioInfo.totalWeight)
	nonCoreRatio := ratioOf(nonCoreRatioInfo.matchedWeight, nonCoreRatioInfo.totalWeight)

	var coreMatchFraction float64
	if len(core) > 0 {
		coreMatchFraction = float64(coreRatioInfo.matchedCount) / float64(len(core))
	}

	combined := float64(round(coreRatio*70 + nonCoreRatio*30))

	requiredComponent := combined
	if !internship {
		if len(core) > 0 && coreMatchFraction == 0 {
			requiredComponent = 0
		} else if coreMatchFraction < 0.34 {
			cap := round(coreRatio * 40)
			if cap > 25 {
				cap = 25
			}
			requiredComponent = math.Min(requiredComponent, float64(cap))
		}
	} else {
		if coreMatchFraction == 0 && idx.technical == 0 {
			requiredComponent = 0
		}
	}

	totalMatchedWeight := coreRatioInfo.matchedWeight + nonCoreRatioInfo.matchedWeight
	totalWeight := coreRatioInfo.totalWeight + nonCoreRatioInfo.totalWeight
	overall := ratioOf(totalMatchedWeight, totalWeight)

	threshold := 0.3
	if internship {
		threshold = 0.2
	}
	if overall < threshold {
		if !internship {
			requiredComponent = 0
		} else if coreRatioInfo.matchedCount >= 1 {
			requiredComponent = combined * 0.5
		} else {
			requiredComponent = 0
		}
	}

	var preferredTechnical []WeightedSkill
	for _, s := range j.PreferredSkills {
		if !normalize.IsSoftSkill(s.Skill) {
			preferredTechnical = append(preferredTechnical, s)
		}
	}
	preferredRatioInfo := computeRatio(idx, preferredTechnical)
	preferredRatio := ratioOf(preferredRatioInfo.matchedWeight, preferredRatioInfo.totalWeight)
	preferredComponent := preferredRatio * 70

	// With no technical preferred skills the required component is the
	// whole skills score.
	final := requiredComponent
	if len(preferredTechnical) > 0 {
		final = requiredComponent*0.75 + preferredComponent*0.25
	}
	return clamp(round(final), 0, 100)
}

var experienceWindows = map[string][2]float64{
	"junior":    {0, 2},
	"mid":       {2, 5},
	"senior":    {5, 10},
	"lead":      {7, 15},
	"principal": {10, math.Inf(1)},
}

func calculateExperienceScore(c CandidateInput, j JobInput, internship bool) int {
	years := c.TotalYearsExperience
	seniority := strings.ToLower(j.SeniorityLevel)

	if internship {
		if isInternShaped(c) {
			switch years {
			case 0:
				return 100
			case 1:
				return 90
			case 2:
				return 75
			default:
				return 0
			}
		}
		switch years {
		case 0:
			return 100
		case 1:
			return 60
		default:
			return 0
		}
	}

	window, ok := experienceWindows[seniority]
	if !ok {
		switch {
		case years >= 5:
			return 100
		case years >= 3:
			return 80
		case years >= 1:
			return 60
		default:
			return 40
		}
	}
	min := math.Max(window[0], j.MinYearsExperience)
	max := window[1]

	if years < min {
		if min == 0 {
			return 100
		}
		ratio := years / min
		if ratio < 0.8 {
			return 0
		}
		return clamp(round(30+ratio*50), 0, 100)
	}
	if !math.IsInf(max, 1) && years > max {
		excess := years - max
		switch {
		case excess <= 1:
			return 80
		case excess <= 2:
			return 50
		default:
			return 0
		}
	}
	return 100
}

var domainKeywords = map[string]string{
	"ios": "mobile", "android": "mobile", "mobile": "mobile", "react native": "mobile",
	"flutter": "mobile", "swift": "mobile", "kotlin": "mobile",
	"frontend": "web", "front-end": "web", "web": "web", "ui": "web", "ux": "web",
	"backend": "backend", "back-end": "backend", "api": "backend", "server": "backend",
	"microservices": "backend",
	"devops":        "devops", "sre": "devops", "infrastructure": "devops", "platform": "devops",
	"ci/cd": "devops",
	"data":  "data", "analytics": "data", "etl": "data", "warehouse": "data",
	"ml": "ml", "machine learning": "ml", "ai": "ml", "artificial intelligence": "ml",
	"deep learning": "ml",
	"security":      "security", "infosec": "security", "cybersecurity": "security",
	"fintech": "fintech", "banking": "fintech", "payments": "fintech",
	"healthcare": "healthcare", "health": "healthcare", "medical": "healthcare",
	"ecommerce": "ecommerce", "e-commerce": "ecommerce", "retail": "ecommerce",
	"saas":   "saas",
	"gaming": "gaming", "game": "gaming",
	"embedded": "embedded", "firmware": "embedded", "iot": "embedded",
	"blockchain": "blockchain", "crypto": "blockchain", "web3": "blockchain",
}

func jobDomainKeywords(j JobInput) map[string]bool {
	desc := j.Description
	if len(desc) > 2000 {
		desc = desc[:2000]
	}
	haystack := strings.ToLower(j.Title + " " + j.Department + " " + desc)
	found := map[string]bool{}
	for kw, domain := range domainKeywords {
		if strings.Contains(haystack, kw) {
			found[domain] = true
		}
	}
	return found
}

func calculateDomainScore(c CandidateInput, j JobInput) int {
	jobDomains := jobDomainKeywords(j)
	if len(jobDomains) == 0 {
		return 50
	}

	candidateTokens := map[string]bool{}
	for _, d := range c.Domains {
		candidateTokens[strings.ToLower(d)] = true
	}
	for _, r := range c.Roles {
		candidateTokens[strings.ToLower(r)] = true
	}

	matched := 0
	for d := range jobDomains {
		if candidateTokens[d] {
			matched++
		}
	}

	ratio := float64(matched) / float64(len(jobDomains))
	switch {
	case ratio >= 0.5:
		return 100
	case ratio >= 0.25:
		return 75
	case matched > 0:
		return 60
	case len(candidateTokens) == 0:
		return 40
	default:
		return 30
	}
}

func calculateLocationScore(c CandidateInput, j JobInput) int {
	if strings.EqualFold(j.LocationType, "remote") {
		return 100
	}
	if c.CurrentCountry == "" || j.Country == "" {
		if c.WillingToRelocate {
			return 80
		}
		return 50
	}
	if strings.EqualFold(c.CurrentCountry, j.Country) {
		return 100
	}
	if c.WillingToRelocate {
		for _, p := range c.PreferredLocations {
			if strings.EqualFold(p, j.Country) {
				return 90
			}
		}
		return 70
	}
	if strings.EqualFold(j.LocationType, "hybrid") {
		return 40
	}
	return 20
}

// CalculateMatchScore is the C7 scoring stage. It is total: it always
// returns a Result with every sub-score in [0,100] and Score in [0,100].
func CalculateMatchScore(c CandidateInput, j JobInput) Result {
	internship := isInternshipJob(j)

	skills := calculateSkillsScore(c, j, internship)
	experience := calculateExperienceScore(c, j, internship)
	domain := calculateDomainScore(c, j)
	location := calculateLocationScore(c, j)

	skillsWeight := 100 - j.ExperienceWeight - j.LocationWeight - j.DomainWeight
	total := skillsWeight + j.ExperienceWeight + j.LocationWeight + j.DomainWeight
	score := 0
	if total > 0 {
		weighted := float64(skills*skillsWeight) + float64(experience*j.ExperienceWeight) +
			float64(domain*j.DomainWeight) + float64(location*j.LocationWeight)
		score = round(weighted / float64(total))
	}
	score = clamp(score, 0, 100)

	breakdown := Breakdown{Skills: skills, Experience: experience, Domain: domain, Location: location}
	gaps := buildGaps(c, j, breakdown)
	explanation := buildExplanation(breakdown)

	return Result{Score: score, Breakdown: breakdown, Explanation: explanation, Gaps: gaps}
}

func buildGaps(c CandidateInput, j JobInput, b Breakdown) []Gap {
	idx := buildSkillIndex(c)
	core, nonCore := partitionCore(j.RequiredSkills)

	var gaps []Gap
	for _, s := range core {
		if !idx.matches(s.Skill) {
			gaps = append(gaps, Gap{Severity: GapCritical, Description: fmt.Sprintf("missing core required skill: %s", s.Skill)})
		}
	}
	for _, s := range nonCore {
		if !idx.matches(s.Skill) {
			gaps = append(gaps, Gap{Severity: GapModerate, Description: fmt.Sprintf("missing required skill: %s", s.Skill)})
		}
	}
	if j.MinYearsExperience > 0 && c.TotalYearsExperience < j.MinYearsExperience {
		gaps = append(gaps, Gap{Severity: GapMajor, Description: fmt.Sprintf("candidate has %.1f years, job requires %.1f", c.TotalYearsExperience, j.MinYearsExperience)})
	}
	if strings.EqualFold(j.LocationType, "onsite") && c.CurrentCountry != "" && j.Country != "" && !strings.EqualFold(c.CurrentCountry, j.Country) {
		gaps = append(gaps, Gap{Severity: GapModerate, Description: fmt.Sprintf("candidate is in %s, onsite role is in %s", c.CurrentCountry, j.Country)})
	}
	return gaps
}

func buildExplanation(b Breakdown) string {
	return fmt.Sprintf(
		"Skills match %d/100, experience fit %d/100, domain alignment %d/100, location fit %d/100.",
		b.Skills, b.Experience, b.Domain, b.Location,
	)
}
