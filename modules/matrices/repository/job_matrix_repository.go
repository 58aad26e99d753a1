package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/andreypavlenko/matchcore/modules/matrices/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JobMatrixRepository implements ports.JobMatrixRepository.
type JobMatrixRepository struct {
	pool *pgxpool.Pool
}

// NewJobMatrixRepository creates a new repository.
func NewJobMatrixRepository(pool *pgxpool.Pool) *JobMatrixRepository {
	return &JobMatrixRepository{pool: pool}
}

// Upsert inserts or replaces the 1:1 job matrix for a job.
func (r *JobMatrixRepository) Upsert(ctx context.Context, m *model.JobMatrix) error {
	required, err := json.Marshal(m.RequiredSkills)
	if err != nil {
		return err
	}
	preferred, err := json.Marshal(m.PreferredSkills)
	if err != nil {
		return err
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.GeneratedAt = time.Now().UTC()

	query := `
		INSERT INTO job_matrices (
			id, job_id, required_skills, preferred_skills,
			experience_weight, location_weight, domain_weight,
			generated_at, model_version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (job_id) DO UPDATE SET
			required_skills = EXCLUDED.required_skills,
			preferred_skills = EXCLUDED.preferred_skills,
			experience_weight = EXCLUDED.experience_weight,
			location_weight = EXCLUDED.location_weight,
			domain_weight = EXCLUDED.domain_weight,
			generated_at = EXCLUDED.generated_at,
			model_version = EXCLUDED.model_version
	`
	_, err = r.pool.Exec(ctx, query,
		m.ID, m.JobID, required, preferred,
		m.ExperienceWeight, m.LocationWeight, m.DomainWeight,
		m.GeneratedAt, m.ModelVersion,
	)
	return err
}

// GetByJobID retrieves the matrix for a job.
func (r *JobMatrixRepository) GetByJobID(ctx context.Context, jobID string) (*model.JobMatrix, error) {
	query := `
		SELECT id, job_id, required_skills, preferred_skills,
			experience_weight, location_weight, domain_weight,
			generated_at, model_version
		FROM job_matrices WHERE job_id = $1
	`
	row := r.pool.QueryRow(ctx, query, jobID)
	m, err := scanJobMatrix(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrJobMatrixNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListAllWithJobIDs returns every job matrix, used for bulk/fan-out sweeps.
func (r *JobMatrixRepository) ListAllWithJobIDs(ctx context.Context) ([]*model.JobMatrix, error) {
	query := `
		SELECT id, job_id, required_skills, preferred_skills,
			experience_weight, location_weight, domain_weight,
			generated_at, model_version
		FROM job_matrices
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matrices []*model.JobMatrix
	for rows.Next() {
		m, err := scanJobMatrix(rows)
		if err != nil {
			return nil, err
		}
		matrices = append(matrices, m)
	}
	return matrices, rows.Err()
}

func scanJobMatrix(row rowScanner) (*model.JobMatrix, error) {
	m := &model.JobMatrix{}
	var required, preferred []byte

	err := row.Scan(
		&m.ID, &m.JobID, &required, &preferred,
		&m.ExperienceWeight, &m.LocationWeight, &m.DomainWeight,
		&m.GeneratedAt, &m.ModelVersion,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(required, &m.RequiredSkills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(preferred, &m.PreferredSkills); err != nil {
		return nil, err
	}

	return m, nil
}
