package repository

import (
	"context"
	"errors"
	"time"

	"github.com/andreypavlenko/matchcore/modules/cvfiles/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CvFileRepository implements ports.CvFileRepository over Postgres.
type CvFileRepository struct {
	pool *pgxpool.Pool
}

// NewCvFileRepository creates a new CV file repository.
func NewCvFileRepository(pool *pgxpool.Pool) *CvFileRepository {
	return &CvFileRepository{pool: pool}
}

// Create inserts a new CV file row, owned by its candidate (I2: file_size > 0
// is enforced by the ingestion service before this is called).
func (r *CvFileRepository) Create(ctx context.Context, file *model.CvFile) error {
	query := `
		INSERT INTO cv_files (id, candidate_id, filename, file_path, file_size, storage_key, status, batch_tag, uploaded_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	file.ID = uuid.New().String()
	file.UploadedAt = time.Now().UTC()
	if file.Status == "" {
		file.Status = model.StatusUploaded
	}

	_, err := r.pool.Exec(ctx, query,
		file.ID, file.CandidateID, file.Filename, file.FilePath, file.FileSize,
		file.StorageKey, file.Status, file.BatchTag, file.UploadedAt, file.ProcessedAt,
	)
	return err
}

// GetByID retrieves a CV file by ID.
func (r *CvFileRepository) GetByID(ctx context.Context, id string) (*model.CvFile, error) {
	query := `
		SELECT id, candidate_id, filename, file_path, file_size, storage_key, status, batch_tag, uploaded_at, processed_at
		FROM cv_files WHERE id = $1
	`
	return scanCvFile(r.pool.QueryRow(ctx, query, id))
}

// GetLatestForCandidate returns the most recently uploaded CV file for a
// candidate (I3's "latest wins for display" rule).
func (r *CvFileRepository) GetLatestForCandidate(ctx context.Context, candidateID string) (*model.CvFile, error) {
	query := `
		SELECT id, candidate_id, filename, file_path, file_size, storage_key, status, batch_tag, uploaded_at, processed_at
		FROM cv_files WHERE candidate_id = $1 ORDER BY uploaded_at DESC LIMIT 1
	`
	return scanCvFile(r.pool.QueryRow(ctx, query, candidateID))
}

// ListForCandidate returns every CV file ever uploaded for a candidate,
// newest first.
func (r *CvFileRepository) ListForCandidate(ctx context.Context, candidateID string) ([]*model.CvFile, error) {
	query := `
		SELECT id, candidate_id, filename, file_path, file_size, storage_key, status, batch_tag, uploaded_at, processed_at
		FROM cv_files WHERE candidate_id = $1 ORDER BY uploaded_at DESC
	`
	rows, err := r.pool.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*model.CvFile
	for rows.Next() {
		f, err := scanCvFileRow(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// UpdateStatus transitions a CV file's status. Stamps processed_at when
// entering a terminal state (matrix_ready, needs_review, failed).
func (r *CvFileRepository) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	var processedAt *time.Time
	switch status {
	case model.StatusMatrixReady, model.StatusNeedsReview, model.StatusFailed:
		now := time.Now().UTC()
		processedAt = &now
	}

	query := `UPDATE cv_files SET status = $2, processed_at = $3 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, status, processedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCvFileNotFound
	}
	return nil
}

// UpdateStorageKey records the S3 key a CV file's bytes were uploaded
// under, once archival completes.
func (r *CvFileRepository) UpdateStorageKey(ctx context.Context, id string, storageKey string) error {
	result, err := r.pool.Exec(ctx, `UPDATE cv_files SET storage_key = $2 WHERE id = $1`, id, storageKey)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCvFileNotFound
	}
	return nil
}

// Delete removes a CV file row.
func (r *CvFileRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM cv_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCvFileNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCvFile(row rowScanner) (*model.CvFile, error) {
	f, err := scanCvFileRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCvFileNotFound
		}
		return nil, err
	}
	return f, nil
}

func scanCvFileRow(row rowScanner) (*model.CvFile, error) {
	f := &model.CvFile{}
	err := row.Scan(
		&f.ID, &f.CandidateID, &f.Filename, &f.FilePath, &f.FileSize, &f.StorageKey,
		&f.Status, &f.BatchTag, &f.UploadedAt, &f.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}
