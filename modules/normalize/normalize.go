// Package normalize implements deterministic skill-string canonicalization
// and classification. No network or IO calls; every function is pure and
// table-driven so results are reproducible across the matching engine.
package normalize

import "strings"

// compoundRules are checked before anything else: spelling variants that
// would otherwise collide with a more generic token downstream. Order
// matters — the first matching rule wins.
var compoundRules = []struct {
	match string
	token string
}{
	{"react native", "react-native"},
	{"react-native", "react-native"},
	{"reactnative", "react-native"},
	{"next.js", "nextjs"},
	{"next js", "nextjs"},
	{"nextjs", "nextjs"},
	{"nuxt.js", "nuxtjs"},
	{"nuxt", "nuxtjs"},
}

var standaloneAbbrev = map[string]string{
	"js":         "javascript",
	"javascript": "javascript",
	"ecmascript": "javascript",
	"ts":         "typescript",
	"typescript": "typescript",
	"py":         "python",
	"python":     "python",
	"python3":    "python",
	"html":       "html",
	"html5":      "html",
	"css":        "css",
	"css3":       "css",
}

var frameworkFamilies = map[string]string{
	"vue":         "vue",
	"vue.js":      "vue",
	"vuejs":       "vue",
	"angularjs":   "angularjs",
	"angular.js":  "angularjs",
	"angular 1":   "angularjs",
	"angular1":    "angularjs",
	"angular":     "angular",
	"angular2":    "angular",
	"express":     "express",
	"express.js":  "express",
	"expressjs":   "express",
	"flutter":     "flutter",
	"dart":        "dart",
	"swift":       "swift",
	"swiftui":     "swiftui",
	"objective-c": "objective-c",
	"objectivec":  "objective-c",
	"objective c": "objective-c",
	"kotlin":      "kotlin",
	"java":        "java",
}

var databaseFamilies = map[string]string{
	"sql":        "sql",
	"mysql":      "mysql",
	"postgresql": "postgresql",
	"postgres":   "postgresql",
	"psql":       "postgresql",
	"mssql":      "mssql",
	"sql server": "mssql",
	"sqlserver":  "mssql",
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite",
	"mongodb":    "mongodb",
	"mongo":      "mongodb",
	"redis":      "redis",
	"dynamodb":   "dynamodb",
	"cassandra":  "cassandra",
	"firebase":   "firebase",
}

var cloudDevopsMl = map[string]string{
	"aws":                 "aws",
	"amazon web services": "aws",
	"azure":               "azure",
	"gcp":                 "gcp",
	"google cloud":        "gcp",
	"docker":              "docker",
	"kubernetes":          "kubernetes",
	"k8s":                 "kubernetes",
	"ci/cd":               "cicd",
	"cicd":                "cicd",
	"ci cd":               "cicd",
	"tensorflow":          "tensorflow",
	"pytorch":             "pytorch",
	"machine learning":    "machine-learning",
	"machine-learning":    "machine-learning",
	"deep learning":       "deep-learning",
	"deep-learning":       "deep-learning",
}

// softSkills is the fixed set of ~30 soft-skill tokens.
var softSkills = map[string]bool{
	"communication": true, "teamwork": true, "leadership": true,
	"project management": true, "time management": true, "problem solving": true,
	"problem-solving": true, "critical thinking": true, "adaptability": true,
	"creativity": true, "collaboration": true, "negotiation": true,
	"conflict resolution": true, "decision making": true, "decision-making": true,
	"emotional intelligence": true, "interpersonal skills": true,
	"public speaking": true, "presentation skills": true, "mentoring": true,
	"coaching": true, "organization": true, "organizational skills": true,
	"attention to detail": true, "work ethic": true, "flexibility": true,
	"stress management": true, "self-motivation": true, "customer service": true,
	"active listening": true, "empathy": true, "multitasking": true,
}

// genericTechSkills is the fixed set of generic (non-differentiating)
// technical skills.
var genericTechSkills = map[string]bool{
	"git": true, "github": true, "gitlab": true, "bitbucket": true,
	"microsoft office": true, "ms office": true, "office": true,
	"word": true, "excel": true, "powerpoint": true,
	"windows": true, "linux": true, "macos": true,
	"agile": true, "scrum": true, "kanban": true, "jira": true, "trello": true,
	"slack": true, "teams": true, "zoom": true,
}

// sqlFamily is the set used by AreSQLCompatible.
var sqlFamily = map[string]bool{
	"sql": true, "mysql": true, "postgresql": true, "mssql": true, "sqlite": true,
}

// Normalize maps a raw skill string to its canonical token following the
// precedence order required by the matching engine: compound/specific forms
// first, then standalone abbreviations, then the node.js family (guarded
// against react/next prefixes), then framework/database/cloud families, and
// finally a lowercase-strip fallback.
func Normalize(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return ""
	}

	for _, r := range compoundRules {
		if strings.Contains(lower, r.match) {
			return r.token
		}
	}

	if token, ok := standaloneAbbrev[lower]; ok {
		return token
	}

	if isNodeVariant(lower) && !strings.Contains(lower, "react") && !strings.Contains(lower, "next") {
		return "nodejs"
	}

	if token, ok := frameworkFamilies[lower]; ok {
		return token
	}
	if token, ok := databaseFamilies[lower]; ok {
		return token
	}
	if token, ok := cloudDevopsMl[lower]; ok {
		return token
	}

	return fallback(lower)
}

func isNodeVariant(lower string) bool {
	switch lower {
	case "node", "node.js", "nodejs":
		return true
	default:
		return false
	}
}

// fallback lowercases and strips the separator characters `._ -`, returning
// whatever remains.
func fallback(lower string) string {
	var b strings.Builder
	for _, r := range lower {
		switch r {
		case '.', '_', ' ', '-':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsSoftSkill reports whether s (case-insensitive, trimmed) is a recognized
// soft skill.
func IsSoftSkill(s string) bool {
	return softSkills[strings.ToLower(strings.TrimSpace(s))]
}

// IsGenericTechSkill reports whether s (case-insensitive, trimmed) is a
// recognized generic (non-differentiating) technical skill.
func IsGenericTechSkill(s string) bool {
	return genericTechSkills[strings.ToLower(strings.TrimSpace(s))]
}

// AreSQLCompatible reports whether a and b are both members of the SQL
// database family, so that e.g. a candidate's "mysql" satisfies a "sql"
// requirement.
func AreSQLCompatible(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return sqlFamily[na] && sqlFamily[nb]
}
