package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/andreypavlenko/matchcore/modules/candidates/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// CandidateRepository implements ports.CandidateRepository over Postgres.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new candidate repository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// Create inserts a new candidate. A case-insensitive email collision is
// reported as model.ErrEmailConflict (race-safe against concurrent writers).
func (r *CandidateRepository) Create(ctx context.Context, candidate *model.Candidate) error {
	query := `
		INSERT INTO candidates (id, name, email, phone, country, headline, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	candidate.ID = uuid.New().String()
	candidate.Email = strings.ToLower(strings.TrimSpace(candidate.Email))
	now := time.Now().UTC()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		candidate.ID, candidate.Name, candidate.Email, candidate.Phone,
		candidate.Country, candidate.Headline, candidate.Roles,
		candidate.CreatedAt, candidate.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.ErrEmailConflict
		}
		return err
	}
	return nil
}

// GetByID retrieves a candidate by ID.
func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*model.Candidate, error) {
	query := `
		SELECT id, name, email, phone, country, headline, roles, created_at, updated_at
		FROM candidates WHERE id = $1
	`
	c := &model.Candidate{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Country, &c.Headline, &c.Roles,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCandidateNotFound
		}
		return nil, err
	}
	return c, nil
}

// FindByEmail looks up a candidate by case-insensitive email. Returns
// model.ErrCandidateNotFound if absent.
func (r *CandidateRepository) FindByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	query := `
		SELECT id, name, email, phone, country, headline, roles, created_at, updated_at
		FROM candidates WHERE LOWER(email) = LOWER($1)
	`
	c := &model.Candidate{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Country, &c.Headline, &c.Roles,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCandidateNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns a page of candidates ordered by creation time, newest first.
func (r *CandidateRepository) List(ctx context.Context, limit, offset int) ([]*model.Candidate, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, email, phone, country, headline, roles, created_at, updated_at
		FROM candidates ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var candidates []*model.Candidate
	for rows.Next() {
		c := &model.Candidate{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Country, &c.Headline, &c.Roles,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return candidates, total, nil
}

// ListIDsWithMatrix returns every candidate ID that has at least one
// candidate_matrices row. Used by the bulk orchestrator's rerun-matching op.
func (r *CandidateRepository) ListIDsWithMatrix(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT c.id FROM candidates c
		JOIN candidate_matrices m ON m.candidate_id = c.id
	`
	rows, err := r.pool.Query(ctx, query)
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

// ListIDsWithoutMatrix returns every candidate ID with no candidate_matrices
// row. Used by the bulk orchestrator's regenerate-matrices op when
// only_missing is set.
func (r *CandidateRepository) ListIDsWithoutMatrix(ctx context.Context) ([]string, error) {
	query := `
		SELECT c.id FROM candidates c
		LEFT JOIN candidate_matrices m ON m.candidate_id = c.id
		WHERE m.candidate_id IS NULL
	`
	rows, err := r.pool.Query(ctx, query)
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

// ListAllIDs returns every candidate ID, used by the bulk orchestrator's
// regenerate-matrices op when only_missing is not set.
func (r *CandidateRepository) ListAllIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM candidates`)
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

// Update updates the mutable fields of a candidate.
func (r *CandidateRepository) Update(ctx context.Context, candidate *model.Candidate) error {
	query := `
		UPDATE candidates
		SET name = $2, phone = $3, country = $4, headline = $5, roles = $6, updated_at = $7
		WHERE id = $1
	`
	candidate.UpdatedAt = time.Now().UTC()

	result, err := r.pool.Exec(ctx, query,
		candidate.ID, candidate.Name, candidate.Phone, candidate.Country,
		candidate.Headline, candidate.Roles, candidate.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCandidateNotFound
	}
	return nil
}

// Delete removes a candidate; cascading deletes remove cv_files,
// candidate_matrices, matches and applications via foreign keys.
func (r *CandidateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCandidateNotFound
	}
	return nil
}
