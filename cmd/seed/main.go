package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newID() string { return uuid.New().String() }

func hashPassword(pw string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), 12)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func daysAgo(d int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -d)
}

func marshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	return b
}

func must(err error, msg string) {
	if err != nil {
		log.Fatalf("%s: %v", msg, err)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// ── main ─────────────────────────────────────────────────────────────────────

func main() {
	_ = godotenv.Load()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "matchcore"),
		envOr("DB_PASSWORD", "matchcore"),
		envOr("DB_NAME", "matchcore"),
		envOr("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}
	fmt.Println("connected to database")

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	// ── clean up previous seed data ──────────────────────────────────────
	const seedEmail = "seed@matchcore.dev"
	_, _ = tx.Exec(ctx, `DELETE FROM users WHERE email = $1`, seedEmail)
	fmt.Println("cleaned previous seed data")

	// ── 1. recruiter user + companies ────────────────────────────────────
	userID := newID()
	createdAt := daysAgo(120)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, locale, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, seedEmail, "Alex Recruiter", hashPassword("password123"), "en", createdAt, createdAt,
	)
	must(err, "create user")
	fmt.Printf("created user: %s / password123\n", seedEmail)

	type company struct{ id, name, location, notes string }
	companies := []company{
		{newID(), "TechNova", "San Francisco, CA", "Series B startup, strong engineering culture"},
		{newID(), "CloudScale Inc.", "Remote", "Cloud infrastructure company, competitive salary"},
		{newID(), "DataPulse", "New York, NY", "Data analytics platform, fast-growing"},
		{newID(), "Quantum Labs", "Seattle, WA", "R&D heavy, cutting edge ML work"},
		{newID(), "FinEdge", "Chicago, IL", "Fintech startup, pre-IPO"},
	}
	for _, c := range companies {
		_, err = tx.Exec(ctx,
			`INSERT INTO companies (id, user_id, name, location, notes, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
			c.id, userID, c.name, c.location, c.notes, daysAgo(100),
		)
		must(err, "create company "+c.name)
	}
	fmt.Printf("created %d companies\n", len(companies))

	// ── 2. candidates + cv files + candidate matrices ────────────────────
	type candidateDef struct {
		id, name, email, headline string
		country                   string
		roles                     []string
		skills                    []map[string]any
		totalYears                float64
		domains                   []string
	}

	candidates := []candidateDef{
		{
			newID(), "Jane Doe", "jane.doe@example.com", "Senior Backend Engineer", "US",
			[]string{"Backend Engineer", "Platform Engineer"},
			[]map[string]any{
				{"name": "Go", "level": "expert", "years_of_experience": 6.0},
				{"name": "PostgreSQL", "level": "advanced", "years_of_experience": 5.0},
				{"name": "Kubernetes", "level": "advanced", "years_of_experience": 4.0},
			},
			7.5, []string{"fintech", "infrastructure"},
		},
		{
			newID(), "Marco Rossi", "marco.rossi@example.com", "Full-Stack Developer", "IT",
			[]string{"Full-Stack Developer"},
			[]map[string]any{
				{"name": "React", "level": "advanced", "years_of_experience": 4.0},
				{"name": "Node.js", "level": "advanced", "years_of_experience": 4.0},
				{"name": "TypeScript", "level": "intermediate", "years_of_experience": 3.0},
			},
			4.0, []string{"e-commerce"},
		},
		{
			newID(), "Amara Okafor", "amara.okafor@example.com", "Machine Learning Engineer", "NG",
			[]string{"ML Engineer", "Research Engineer"},
			[]map[string]any{
				{"name": "PyTorch", "level": "expert", "years_of_experience": 5.0},
				{"name": "Python", "level": "expert", "years_of_experience": 7.0},
				{"name": "Transformers", "level": "advanced", "years_of_experience": 3.0},
			},
			6.0, []string{"ai-research", "nlp"},
		},
		{
			newID(), "Wei Zhang", "wei.zhang@example.com", "DevOps Engineer", "SG",
			[]string{"DevOps Engineer", "SRE"},
			[]map[string]any{
				{"name": "Terraform", "level": "advanced", "years_of_experience": 4.0},
				{"name": "AWS", "level": "advanced", "years_of_experience": 5.0},
				{"name": "Go", "level": "intermediate", "years_of_experience": 2.0},
			},
			5.5, []string{"infrastructure"},
		},
	}

	type matrixRef struct{ candidateID, cvFileID string }
	var matrixRefs []matrixRef

	for _, cd := range candidates {
		phone := "+1-555-0100"
		country := cd.country
		headline := cd.headline
		_, err = tx.Exec(ctx,
			`INSERT INTO candidates (id, name, email, phone, country, headline, roles, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
			cd.id, cd.name, cd.email, phone, country, headline, cd.roles, daysAgo(60),
		)
		must(err, "create candidate "+cd.name)

		cvFileID := newID()
		filePath := fmt.Sprintf("/tmp/matchcore-cvs/%s.pdf", cvFileID)
		_, err = tx.Exec(ctx,
			`INSERT INTO cv_files (id, candidate_id, filename, file_path, file_size, storage_key, status, batch_tag, uploaded_at, processed_at)
			 VALUES ($1, $2, $3, $4, $5, NULL, $6, NULL, $7, $7)`,
			cvFileID, cd.id, cd.name+"_resume.pdf", filePath, 48213, "matrix_ready", daysAgo(59),
		)
		must(err, "create cv file for "+cd.name)

		education := []map[string]any{{"degree": "B.Sc. Computer Science", "institution": "State University", "field": nil, "year": nil}}
		evidence := []map[string]any{{"field": "skills", "snippet": "Worked extensively with " + cd.skills[0]["name"].(string), "source_page": nil}}
		locationSignals := map[string]any{"current_country": cd.country, "willing_to_relocate": true, "preferred_locations": []string{"Remote"}}

		_, err = tx.Exec(ctx,
			`INSERT INTO candidate_matrices (
				id, candidate_id, cv_file_id, skills, roles, total_years_experience,
				domains, education, languages, location_signals, confidence, evidence,
				generated_at, model_version
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			newID(), cd.id, cvFileID, marshal(cd.skills), cd.roles, cd.totalYears,
			cd.domains, marshal(education), []string{"en"}, marshal(locationSignals), 0.9, marshal(evidence),
			daysAgo(59), "claude-sonnet-4-20250514",
		)
		must(err, "create candidate matrix for "+cd.name)

		matrixRefs = append(matrixRefs, matrixRef{cd.id, cvFileID})
	}
	fmt.Printf("created %d candidates with cv files and matrices\n", len(candidates))

	// ── 3. jobs + job matrices ────────────────────────────────────────────
	type jobDef struct {
		id, companyID, title, department, locationType, country, city, description string
		mustHave, niceToHave                                                       []string
		minYears                                                                   int
		seniority, status                                                          string
		required, preferred                                                        []map[string]any
		expWeight, locWeight, domWeight                                            int
	}

	jobs := []jobDef{
		{
			newID(), companies[0].id, "Senior Backend Engineer", "Engineering", "remote", "US", "San Francisco",
			"Own core services for our platform team, working closely with SRE on reliability.",
			[]string{"Go", "PostgreSQL"}, []string{"Kubernetes", "gRPC"}, 5, "senior", "published",
			[]map[string]any{{"skill": "Go", "weight": 60}, {"skill": "PostgreSQL", "weight": 40}},
			[]map[string]any{{"skill": "Kubernetes", "weight": 70}, {"skill": "gRPC", "weight": 30}},
			20, 10, 10,
		},
		{
			newID(), companies[2].id, "Full-Stack Developer", "Product", "hybrid", "US", "New York",
			"Build customer-facing analytics dashboards end to end.",
			[]string{"React", "Node.js"}, []string{"TypeScript"}, 3, "mid", "published",
			[]map[string]any{{"skill": "React", "weight": 50}, {"skill": "Node.js", "weight": 50}},
			[]map[string]any{{"skill": "TypeScript", "weight": 100}},
			15, 15, 10,
		},
		{
			newID(), companies[3].id, "Machine Learning Engineer", "Research", "remote", "US", "Seattle",
			"Research and deploy transformer-based models for production inference.",
			[]string{"PyTorch", "Python"}, []string{"Transformers"}, 4, "senior", "published",
			[]map[string]any{{"skill": "PyTorch", "weight": 55}, {"skill": "Python", "weight": 45}},
			[]map[string]any{{"skill": "Transformers", "weight": 100}},
			25, 5, 20,
		},
		{
			newID(), companies[4].id, "DevOps Engineer", "Infrastructure", "remote", "SG", "Singapore",
			"Own our Terraform-managed AWS footprint and on-call rotation.",
			[]string{"Terraform", "AWS"}, []string{"Go"}, 3, "mid", "draft",
			[]map[string]any{{"skill": "Terraform", "weight": 50}, {"skill": "AWS", "weight": 50}},
			[]map[string]any{{"skill": "Go", "weight": 100}},
			20, 20, 10,
		},
	}

	type jobMatrixRef struct{ jobID string }
	var jobMatrixRefs []jobMatrixRef

	for _, jd := range jobs {
		_, err = tx.Exec(ctx,
			`INSERT INTO jobs (
				id, company_id, title, department, company, location_type, country, city,
				description, must_have_skills, nice_to_have_skills, min_years_experience,
				seniority_level, status, deadline, created_at
			) VALUES ($1, $2, $3, $4, NULL, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULL, $14)`,
			jd.id, jd.companyID, jd.title, jd.department, jd.locationType, jd.country, jd.city,
			jd.description, jd.mustHave, jd.niceToHave, jd.minYears, jd.seniority, jd.status, daysAgo(30),
		)
		must(err, "create job "+jd.title)

		if jd.status == "published" {
			_, err = tx.Exec(ctx,
				`INSERT INTO job_matrices (
					id, job_id, required_skills, preferred_skills,
					experience_weight, location_weight, domain_weight,
					generated_at, model_version
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				newID(), jd.id, marshal(jd.required), marshal(jd.preferred),
				jd.expWeight, jd.locWeight, jd.domWeight, daysAgo(29), "claude-sonnet-4-20250514",
			)
			must(err, "create job matrix for "+jd.title)
			jobMatrixRefs = append(jobMatrixRefs, jobMatrixRef{jd.id})
		}
	}
	fmt.Printf("created %d jobs (%d with matrices)\n", len(jobs), len(jobMatrixRefs))

	// ── 4. matches: score every candidate against every published job ───
	matchCount := 0
	for _, mr := range matrixRefs {
		for _, jmr := range jobMatrixRefs {
			skillsScore := 60 + rand.Intn(40)
			expScore := 50 + rand.Intn(50)
			domainScore := 40 + rand.Intn(60)
			locationScore := 70 + rand.Intn(30)
			overall := (skillsScore + expScore + domainScore + locationScore) / 4

			gaps := []map[string]any{}
			if skillsScore < 80 {
				gaps = append(gaps, map[string]any{"skill": "domain depth", "message": "Limited direct evidence of required domain skills"})
			}

			_, err = tx.Exec(ctx,
				`INSERT INTO matches (
					id, candidate_id, job_id, score, skills_score, experience_score,
					domain_score, location_score, explanation, gaps, status, calculated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				newID(), mr.candidateID, jmr.jobID, overall, skillsScore, expScore,
				domainScore, locationScore, "Weighted match of candidate matrix against job requirements.",
				marshal(gaps), "pending", daysAgo(28),
			)
			must(err, "create match")
			matchCount++
		}
	}
	fmt.Printf("created %d matches\n", matchCount)

	// ── commit ───────────────────────────────────────────────────────────
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	fmt.Println("\nseed completed successfully")
	fmt.Printf("  login: %s / password123\n", seedEmail)
}
