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

// CandidateMatrixRepository implements ports.CandidateMatrixRepository.
type CandidateMatrixRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateMatrixRepository creates a new repository.
func NewCandidateMatrixRepository(pool *pgxpool.Pool) *CandidateMatrixRepository {
	return &CandidateMatrixRepository{pool: pool}
}

// Upsert inserts the first matrix for a candidate or updates the existing
// one in place (I3: exactly one current matrix is authoritative).
func (r *CandidateMatrixRepository) Upsert(ctx context.Context, m *model.CandidateMatrix) error {
	skills, err := json.Marshal(m.Skills)
	if err != nil {
		return err
	}
	education, err := json.Marshal(m.Education)
	if err != nil {
		return err
	}
	evidence, err := json.Marshal(m.Evidence)
	if err != nil {
		return err
	}
	locationSignals, err := json.Marshal(m.LocationSignals)
	if err != nil {
		return err
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.GeneratedAt = time.Now().UTC()

	query := `
		INSERT INTO candidate_matrices (
			id, candidate_id, cv_file_id, skills, roles, total_years_experience,
			domains, education, languages, location_signals, confidence, evidence,
			generated_at, model_version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (candidate_id) DO UPDATE SET
			cv_file_id = EXCLUDED.cv_file_id,
			skills = EXCLUDED.skills,
			roles = EXCLUDED.roles,
			total_years_experience = EXCLUDED.total_years_experience,
			domains = EXCLUDED.domains,
			education = EXCLUDED.education,
			languages = EXCLUDED.languages,
			location_signals = EXCLUDED.location_signals,
			confidence = EXCLUDED.confidence,
			evidence = EXCLUDED.evidence,
			generated_at = EXCLUDED.generated_at,
			model_version = EXCLUDED.model_version
	`
	_, err = r.pool.Exec(ctx, query,
		m.ID, m.CandidateID, m.CvFileID, skills, m.Roles, m.TotalYearsExperience,
		m.Domains, education, m.Languages, locationSignals, m.Confidence, evidence,
		m.GeneratedAt, m.ModelVersion,
	)
	return err
}

// GetByCandidateID retrieves the authoritative matrix for a candidate.
func (r *CandidateMatrixRepository) GetByCandidateID(ctx context.Context, candidateID string) (*model.CandidateMatrix, error) {
	query := `
		SELECT id, candidate_id, cv_file_id, skills, roles, total_years_experience,
			domains, education, languages, location_signals, confidence, evidence,
			generated_at, model_version
		FROM candidate_matrices WHERE candidate_id = $1
	`
	row := r.pool.QueryRow(ctx, query, candidateID)
	m, err := scanCandidateMatrix(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCandidateMatrixNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListAllWithCandidateIDs returns every candidate matrix in the corpus, used
// for bulk/fan-out sweeps.
func (r *CandidateMatrixRepository) ListAllWithCandidateIDs(ctx context.Context) ([]*model.CandidateMatrix, error) {
	query := `
		SELECT id, candidate_id, cv_file_id, skills, roles, total_years_experience,
			domains, education, languages, location_signals, confidence, evidence,
			generated_at, model_version
		FROM candidate_matrices
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matrices []*model.CandidateMatrix
	for rows.Next() {
		m, err := scanCandidateMatrix(rows)
		if err != nil {
			return nil, err
		}
		matrices = append(matrices, m)
	}
	return matrices, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidateMatrix(row rowScanner) (*model.CandidateMatrix, error) {
	m := &model.CandidateMatrix{}
	var skills, education, evidence, locationSignals []byte

	err := row.Scan(
		&m.ID, &m.CandidateID, &m.CvFileID, &skills, &m.Roles, &m.TotalYearsExperience,
		&m.Domains, &education, &m.Languages, &locationSignals, &m.Confidence, &evidence,
		&m.GeneratedAt, &m.ModelVersion,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(skills, &m.Skills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(education, &m.Education); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(evidence, &m.Evidence); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(locationSignals, &m.LocationSignals); err != nil {
		return nil, err
	}

	return m, nil
}
