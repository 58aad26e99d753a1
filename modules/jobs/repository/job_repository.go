package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/andreypavlenko/matchcore/modules/jobs/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JobRepository implements ports.JobRepository.
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository.
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// Create creates a new job.
func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (
			id, company_id, title, department, company, location_type, country, city,
			description, must_have_skills, nice_to_have_skills, min_years_experience,
			seniority_level, status, deadline, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	job.ID = uuid.New().String()
	job.CreatedAt = time.Now().UTC()
	if job.Status == "" {
		job.Status = model.StatusDraft
	}

	_, err := r.pool.Exec(ctx, query,
		job.ID, job.CompanyID, job.Title, job.Department, job.Company, job.LocationType,
		job.Country, job.City, job.Description, job.MustHaveSkills, job.NiceToHaveSkills,
		job.MinYearsExperience, job.SeniorityLevel, job.Status, job.Deadline, job.CreatedAt,
	)
	return err
}

// GetByID retrieves a job by ID.
func (r *JobRepository) GetByID(ctx context.Context, jobID string) (*model.Job, error) {
	query := `
		SELECT id, company_id, title, department, company, location_type, country, city,
			description, must_have_skills, nice_to_have_skills, min_years_experience,
			seniority_level, status, deadline, created_at
		FROM jobs WHERE id = $1
	`

	job := &model.Job{}
	err := r.pool.QueryRow(ctx, query, jobID).Scan(
		&job.ID, &job.CompanyID, &job.Title, &job.Department, &job.Company, &job.LocationType,
		&job.Country, &job.City, &job.Description, &job.MustHaveSkills, &job.NiceToHaveSkills,
		&job.MinYearsExperience, &job.SeniorityLevel, &job.Status, &job.Deadline, &job.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// List retrieves jobs with pagination and an optional status filter.
func (r *JobRepository) List(ctx context.Context, limit, offset int, status string) ([]*model.JobDTO, int, error) {
	whereClause := "1=1"
	args := []interface{}{}
	argIdx := 1
	if status != "" && status != "all" {
		whereClause = "status = $1"
		args = append(args, status)
		argIdx++
	}

	countQuery := `SELECT COUNT(*) FROM jobs WHERE ` + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitPos := argIdx
	offsetPos := argIdx + 1
	query := `
		SELECT id, company_id, title, department, company, location_type, country, city,
			description, must_have_skills, nice_to_have_skills, min_years_experience,
			seniority_level, status, deadline, created_at
		FROM jobs
		WHERE ` + whereClause + `
		ORDER BY created_at DESC
		LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(offsetPos)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []*model.JobDTO
	for rows.Next() {
		job := &model.Job{}
		if err := rows.Scan(
			&job.ID, &job.CompanyID, &job.Title, &job.Department, &job.Company, &job.LocationType,
			&job.Country, &job.City, &job.Description, &job.MustHaveSkills, &job.NiceToHaveSkills,
			&job.MinYearsExperience, &job.SeniorityLevel, &job.Status, &job.Deadline, &job.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job.ToDTO())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// ListPublishedIDs returns IDs of every published job, used by the
// candidate-matrix-ready fan-out trigger.
func (r *JobRepository) ListPublishedIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM jobs WHERE status = $1`, model.StatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update updates a job.
func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	query := `
		UPDATE jobs SET
			company_id = $2, title = $3, department = $4, company = $5, location_type = $6,
			country = $7, city = $8, description = $9, must_have_skills = $10,
			nice_to_have_skills = $11, min_years_experience = $12, seniority_level = $13,
			status = $14, deadline = $15
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		job.ID, job.CompanyID, job.Title, job.Department, job.Company, job.LocationType,
		job.Country, job.City, job.Description, job.MustHaveSkills, job.NiceToHaveSkills,
		job.MinYearsExperience, job.SeniorityLevel, job.Status, job.Deadline,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobNotFound
	}
	return nil
}

// Delete deletes a job.
func (r *JobRepository) Delete(ctx context.Context, jobID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobNotFound
	}
	return nil
}
