package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/andreypavlenko/matchcore/modules/matching/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchRepository implements ports.MatchRepository.
type MatchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository creates a new repository.
func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

// Upsert inserts a new match or recomputes an existing one in place,
// preserving its operator-set status (I5).
func (r *MatchRepository) Upsert(ctx context.Context, m *model.Match) error {
	gaps, err := json.Marshal(m.Gaps)
	if err != nil {
		return err
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CalculatedAt = time.Now().UTC()
	if m.Status == "" {
		m.Status = model.StatusPending
	}

	query := `
		INSERT INTO matches (
			id, candidate_id, job_id, score, skills_score, experience_score,
			domain_score, location_score, explanation, gaps, status, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (candidate_id, job_id) DO UPDATE SET
			score = EXCLUDED.score,
			skills_score = EXCLUDED.skills_score,
			experience_score = EXCLUDED.experience_score,
			domain_score = EXCLUDED.domain_score,
			location_score = EXCLUDED.location_score,
			explanation = EXCLUDED.explanation,
			gaps = EXCLUDED.gaps,
			calculated_at = EXCLUDED.calculated_at
	`
	_, err = r.pool.Exec(ctx, query,
		m.ID, m.CandidateID, m.JobID, m.Score, m.Breakdown.Skills, m.Breakdown.Experience,
		m.Breakdown.Domain, m.Breakdown.Location, m.Explanation, gaps, m.Status, m.CalculatedAt,
	)
	return err
}

// GetByID retrieves a match by ID.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*model.Match, error) {
	query := `
		SELECT id, candidate_id, job_id, score, skills_score, experience_score,
			domain_score, location_score, explanation, gaps, status, calculated_at
		FROM matches WHERE id = $1
	`
	return scanMatch(r.pool.QueryRow(ctx, query, id))
}

// GetByPair retrieves the match for a (candidate, job) pair.
func (r *MatchRepository) GetByPair(ctx context.Context, candidateID, jobID string) (*model.Match, error) {
	query := `
		SELECT id, candidate_id, job_id, score, skills_score, experience_score,
			domain_score, location_score, explanation, gaps, status, calculated_at
		FROM matches WHERE candidate_id = $1 AND job_id = $2
	`
	return scanMatch(r.pool.QueryRow(ctx, query, candidateID, jobID))
}

// List retrieves matches with pagination, optionally filtered by candidate
// or job.
func (r *MatchRepository) List(ctx context.Context, limit, offset int, candidateID, jobID string) ([]*model.Match, int, error) {
	whereClause := "1=1"
	args := []interface{}{}
	if candidateID != "" {
		args = append(args, candidateID)
		whereClause += " AND candidate_id = $" + strconv.Itoa(len(args))
	}
	if jobID != "" {
		args = append(args, jobID)
		whereClause += " AND job_id = $" + strconv.Itoa(len(args))
	}

	countQuery := `SELECT COUNT(*) FROM matches WHERE ` + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	limitPos := len(args) - 1
	offsetPos := len(args)
	query := `
		SELECT id, candidate_id, job_id, score, skills_score, experience_score,
			domain_score, location_score, explanation, gaps, status, calculated_at
		FROM matches WHERE ` + whereClause + `
		ORDER BY score DESC
		LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(offsetPos)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var matches []*model.Match
	for rows.Next() {
		m, err := scanMatchRow(rows)
		if err != nil {
			return nil, 0, err
		}
		matches = append(matches, m)
	}
	return matches, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*model.Match, error) {
	m, err := scanMatchRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func scanMatchRow(row rowScanner) (*model.Match, error) {
	m := &model.Match{}
	var gaps []byte

	err := row.Scan(
		&m.ID, &m.CandidateID, &m.JobID, &m.Score, &m.Breakdown.Skills, &m.Breakdown.Experience,
		&m.Breakdown.Domain, &m.Breakdown.Location, &m.Explanation, &gaps, &m.Status, &m.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(gaps, &m.Gaps); err != nil {
		return nil, err
	}
	return m, nil
}
