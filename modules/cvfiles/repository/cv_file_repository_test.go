package repository

import (
	"context"
	"testing"
	"time"

	"github.com/andreypavlenko/matchcore/modules/cvfiles/model"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCvFileRepo mirrors CvFileRepository's query logic against a pgxmock
// pool, since pgxmock.PgxPoolIface cannot be assigned into the
// *pgxpool.Pool field the real repository holds.
type testCvFileRepo struct {
	mock pgxmock.PgxPoolIface
}

func (r *testCvFileRepo) Create(ctx context.Context, file *model.CvFile) error {
	query := `
		INSERT INTO cv_files (id, candidate_id, filename, file_path, file_size, storage_key, status, batch_tag, uploaded_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	file.ID = "test-cv-file-id"
	file.UploadedAt = time.Now().UTC()
	if file.Status == "" {
		file.Status = model.StatusUploaded
	}
	_, err := r.mock.Exec(ctx, query,
		file.ID, file.CandidateID, file.Filename, file.FilePath, file.FileSize,
		file.StorageKey, file.Status, file.BatchTag, file.UploadedAt, file.ProcessedAt,
	)
	return err
}

func (r *testCvFileRepo) GetByID(ctx context.Context, id string) (*model.CvFile, error) {
	query := `
		SELECT id, candidate_id, filename, file_path, file_size, storage_key, status, batch_tag, uploaded_at, processed_at
		FROM cv_files WHERE id = $1
	`
	return scanCvFile(r.mock.QueryRow(ctx, query, id))
}

func (r *testCvFileRepo) GetLatestForCandidate(ctx context.Context, candidateID string) (*model.CvFile, error) {
	query := `
		SELECT id, candidate_id, filename, file_path, file_size, storage_key, status, batch_tag, uploaded_at, processed_at
		FROM cv_files WHERE candidate_id = $1 ORDER BY uploaded_at DESC LIMIT 1
	`
	return scanCvFile(r.mock.QueryRow(ctx, query, candidateID))
}

func (r *testCvFileRepo) ListForCandidate(ctx context.Context, candidateID string) ([]*model.CvFile, error) {
	query := `
		SELECT id, candidate_id, filename, file_path, file_size, storage_key, status, batch_tag, uploaded_at, processed_at
		FROM cv_files WHERE candidate_id = $1 ORDER BY uploaded_at DESC
	`
	rows, err := r.mock.Query(ctx, query, candidateID)
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

func (r *testCvFileRepo) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	query := `UPDATE cv_files SET status = $2, processed_at = $3 WHERE id = $1`
	result, err := r.mock.Exec(ctx, query, id, status, pgxmock.AnyArg())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCvFileNotFound
	}
	return nil
}

func (r *testCvFileRepo) UpdateStorageKey(ctx context.Context, id string, storageKey string) error {
	result, err := r.mock.Exec(ctx, `UPDATE cv_files SET storage_key = $2 WHERE id = $1`, id, storageKey)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCvFileNotFound
	}
	return nil
}

func (r *testCvFileRepo) Delete(ctx context.Context, id string) error {
	result, err := r.mock.Exec(ctx, `DELETE FROM cv_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrCvFileNotFound
	}
	return nil
}

func newMockCvFileRepo(t *testing.T) (*testCvFileRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &testCvFileRepo{mock: mock}, mock
}

func cvFileColumns() []string {
	return []string{
		"id", "candidate_id", "filename", "file_path", "file_size", "storage_key",
		"status", "batch_tag", "uploaded_at", "processed_at",
	}
}

func TestCvFileRepository_Create(t *testing.T) {
	repo, mock := newMockCvFileRepo(t)

	file := &model.CvFile{
		CandidateID: "cand-1",
		Filename:    "resume.pdf",
		FilePath:    "/tmp/resume.pdf",
		FileSize:    1024,
	}

	mock.ExpectExec("INSERT INTO cv_files").
		WithArgs(pgxmock.AnyArg(), file.CandidateID, file.Filename, file.FilePath, file.FileSize,
			file.StorageKey, model.StatusUploaded, file.BatchTag, pgxmock.AnyArg(), file.ProcessedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), file)

	require.NoError(t, err)
	assert.NotEmpty(t, file.ID)
	assert.Equal(t, model.StatusUploaded, file.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCvFileRepository_GetByID(t *testing.T) {
	t.Run("returns cv file successfully", func(t *testing.T) {
		repo, mock := newMockCvFileRepo(t)

		rows := pgxmock.NewRows(cvFileColumns()).AddRow(
			"cv-1", "cand-1", "resume.pdf", "/tmp/resume.pdf", int64(1024), nil,
			model.StatusUploaded, nil, time.Now(), nil,
		)
		mock.ExpectQuery("SELECT id, candidate_id, filename").
			WithArgs("cv-1").
			WillReturnRows(rows)

		f, err := repo.GetByID(context.Background(), "cv-1")

		require.NoError(t, err)
		assert.Equal(t, "cv-1", f.ID)
		assert.Equal(t, model.StatusUploaded, f.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error when not found", func(t *testing.T) {
		repo, mock := newMockCvFileRepo(t)

		mock.ExpectQuery("SELECT id, candidate_id, filename").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		f, err := repo.GetByID(context.Background(), "missing")

		assert.Nil(t, f)
		assert.ErrorIs(t, err, model.ErrCvFileNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCvFileRepository_GetLatestForCandidate(t *testing.T) {
	repo, mock := newMockCvFileRepo(t)

	rows := pgxmock.NewRows(cvFileColumns()).AddRow(
		"cv-2", "cand-1", "resume-v2.pdf", "/tmp/resume-v2.pdf", int64(2048), nil,
		model.StatusMatrixReady, nil, time.Now(), nil,
	)
	mock.ExpectQuery("SELECT id, candidate_id, filename").
		WithArgs("cand-1").
		WillReturnRows(rows)

	f, err := repo.GetLatestForCandidate(context.Background(), "cand-1")

	require.NoError(t, err)
	assert.Equal(t, "cv-2", f.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCvFileRepository_ListForCandidate(t *testing.T) {
	repo, mock := newMockCvFileRepo(t)

	rows := pgxmock.NewRows(cvFileColumns()).
		AddRow("cv-2", "cand-1", "resume-v2.pdf", "/tmp/resume-v2.pdf", int64(2048), nil, model.StatusMatrixReady, nil, time.Now(), nil).
		AddRow("cv-1", "cand-1", "resume.pdf", "/tmp/resume.pdf", int64(1024), nil, model.StatusFailed, nil, time.Now(), nil)

	mock.ExpectQuery("SELECT id, candidate_id, filename").
		WithArgs("cand-1").
		WillReturnRows(rows)

	files, err := repo.ListForCandidate(context.Background(), "cand-1")

	require.NoError(t, err)
	assert.Len(t, files, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCvFileRepository_UpdateStatus(t *testing.T) {
	t.Run("updates status successfully", func(t *testing.T) {
		repo, mock := newMockCvFileRepo(t)

		mock.ExpectExec("UPDATE cv_files").
			WithArgs("cv-1", model.StatusMatrixReady, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateStatus(context.Background(), "cv-1", model.StatusMatrixReady)

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error when not found", func(t *testing.T) {
		repo, mock := newMockCvFileRepo(t)

		mock.ExpectExec("UPDATE cv_files").
			WithArgs("missing", model.StatusFailed, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(context.Background(), "missing", model.StatusFailed)

		assert.ErrorIs(t, err, model.ErrCvFileNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCvFileRepository_UpdateStorageKey(t *testing.T) {
	t.Run("records the storage key", func(t *testing.T) {
		repo, mock := newMockCvFileRepo(t)

		mock.ExpectExec("UPDATE cv_files").
			WithArgs("cv-1", "cv/cand-1/cv-1.pdf").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateStorageKey(context.Background(), "cv-1", "cv/cand-1/cv-1.pdf")

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error when not found", func(t *testing.T) {
		repo, mock := newMockCvFileRepo(t)

		mock.ExpectExec("UPDATE cv_files").
			WithArgs("missing", "cv/cand-1/cv-1.pdf").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStorageKey(context.Background(), "missing", "cv/cand-1/cv-1.pdf")

		assert.ErrorIs(t, err, model.ErrCvFileNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCvFileRepository_Delete(t *testing.T) {
	t.Run("deletes successfully", func(t *testing.T) {
		repo, mock := newMockCvFileRepo(t)

		mock.ExpectExec("DELETE FROM cv_files").
			WithArgs("cv-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(context.Background(), "cv-1")

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error when not found", func(t *testing.T) {
		repo, mock := newMockCvFileRepo(t)

		mock.ExpectExec("DELETE FROM cv_files").
			WithArgs("missing").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(context.Background(), "missing")

		assert.ErrorIs(t, err, model.ErrCvFileNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
