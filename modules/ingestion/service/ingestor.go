// Package service implements the C6 Ingestion Pipeline: a bounded-concurrency
// batch runner that turns uploaded CV bytes into persisted Candidate and
// CvFile rows, then schedules matrix generation in the background.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/andreypavlenko/matchcore/internal/platform/llm"
	"github.com/andreypavlenko/matchcore/internal/platform/logger"
	"github.com/andreypavlenko/matchcore/internal/platform/storage"
	"github.com/andreypavlenko/matchcore/internal/platform/textextract"
	candidatesmodel "github.com/andreypavlenko/matchcore/modules/candidates/model"
	cvfilesmodel "github.com/andreypavlenko/matchcore/modules/cvfiles/model"
	"github.com/andreypavlenko/matchcore/modules/ingestion/model"
	matricesmodel "github.com/andreypavlenko/matchcore/modules/matrices/model"
)

const defaultConcurrency = 10

// candidateInfoExtractor is the subset of the LLM adapter needed to turn CV
// text into structured candidate fields (extract_candidate_info).
type candidateInfoExtractor interface {
	ExtractCandidateInfo(ctx context.Context, cvText string) (llm.CandidateInfo, error)
}

// candidateStore is the subset of candidate persistence this pipeline needs.
type candidateStore interface {
	FindByEmail(ctx context.Context, email string) (*candidatesmodel.Candidate, error)
	Create(ctx context.Context, candidate *candidatesmodel.Candidate) error
}

// cvFileStore is the subset of CV file persistence this pipeline needs.
type cvFileStore interface {
	Create(ctx context.Context, file *cvfilesmodel.CvFile) error
	UpdateStatus(ctx context.Context, id string, status cvfilesmodel.Status) error
	UpdateStorageKey(ctx context.Context, id string, storageKey string) error
}

// ingestionMatrixBuilder is the subset of the C4 builder invoked once a
// candidate and CV file are persisted.
type ingestionMatrixBuilder interface {
	Build(ctx context.Context, candidateID, cvFileID, cvPath string) (*matricesmodel.CandidateMatrix, error)
}

// ingestionFanOut is the subset of C8 fan-out triggered once a candidate
// matrix is ready.
type ingestionFanOut interface {
	OnCandidateMatrixReady(ctx context.Context, candidateID string) error
}

// UploadFile is one item of an ingestion batch: raw bytes plus an optional
// batch tag used to group uploads from the same drop.
type UploadFile struct {
	Filename string
	Bytes    []byte
	BatchTag *string
}

// Ingestor implements the C6 pipeline.
type Ingestor struct {
	candidates  candidateStore
	cvFiles     cvFileStore
	llmClient   candidateInfoExtractor
	matrixSvc   ingestionMatrixBuilder
	fanout      ingestionFanOut
	logger      *logger.Logger
	uploadDir   string
	concurrency int

	// s3Client archives staged CVs once persisted; nil when S3 is not
	// configured, in which case archival is skipped and StorageKey stays
	// unset (CvFile.FilePath remains the source of truth for extraction).
	s3Client *storage.S3Client

	// pdfExtract is overridable in tests; production wiring defaults to
	// textextract.ExtractFromPdf.
	pdfExtract func(path string) (string, error)
}

// NewIngestor constructs a pipeline. concurrency <= 0 falls back to the
// spec default of 10. s3Client may be nil, in which case CV archival is
// skipped and CvFile.StorageKey is never populated.
func NewIngestor(
	candidates candidateStore,
	cvFiles cvFileStore,
	llmClient candidateInfoExtractor,
	matrixSvc ingestionMatrixBuilder,
	fanout ingestionFanOut,
	log *logger.Logger,
	uploadDir string,
	concurrency int,
	s3Client *storage.S3Client,
) *Ingestor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Ingestor{
		candidates:  candidates,
		cvFiles:     cvFiles,
		llmClient:   llmClient,
		matrixSvc:   matrixSvc,
		fanout:      fanout,
		logger:      log,
		uploadDir:   uploadDir,
		concurrency: concurrency,
		s3Client:    s3Client,
		pdfExtract:  textextract.ExtractFromPdf,
	}
}

// IngestBatch runs the full per-file state machine over files with bounded
// concurrency K. Each file's failure is isolated: one file's error never
// aborts another's processing.
func (ing *Ingestor) IngestBatch(ctx context.Context, files []UploadFile) *model.BatchResult {
	results := make([]model.FileResult, len(files))
	sem := semaphore.NewWeighted(int64(ing.concurrency))
	done := make(chan struct{}, len(files))

	for i, f := range files {
		i, f := i, f
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = model.FileResult{Filename: f.Filename, Outcome: model.OutcomeFailed, FailureStep: model.StepDiskWrite, Error: err.Error()}
			done <- struct{}{}
			continue
		}
		go func() {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			results[i] = ing.ingestOne(ctx, f)
		}()
	}

	for range files {
		<-done
	}

	return model.NewBatchResult(results)
}

// ingestOne runs the state machine for a single file: received -> disk_ok
// -> pdf_ok -> llm_extract_ok -> name_ok -> dedup_ok -> candidate_persisted
// -> cvfile_persisted -> scheduled_background -> done.
func (ing *Ingestor) ingestOne(ctx context.Context, f UploadFile) model.FileResult {
	result := model.FileResult{Filename: f.Filename}

	path, size, err := ing.stageToDisk(f)
	if err != nil {
		return failAt(result, model.StepDiskWrite, err)
	}
	// The staged file survives ingestOne's return so the background matrix
	// build (scheduled below on success) can read it; every early-return
	// path below must clean it up itself.
	if size == 0 {
		os.Remove(path)
		return failAt(result, model.StepDiskWrite, fmt.Errorf("empty upload"))
	}

	cvText, err := ing.pdfExtract(path)
	if err != nil {
		os.Remove(path)
		return failAt(result, model.StepPdfExtract, err)
	}

	info, err := ing.llmClient.ExtractCandidateInfo(ctx, cvText)
	if err != nil {
		os.Remove(path)
		return failAt(result, model.StepLlmExtract, err)
	}

	name := info.Name
	if !candidatesmodel.NameValid(name) {
		name = candidatesmodel.ExtractNameFromHeader(cvText)
		if !candidatesmodel.NameValid(name) {
			os.Remove(path)
			return failAt(result, model.StepNameValid, candidatesmodel.ErrNameUnrecoverable)
		}
	}

	email, synthesized := ing.resolveEmail(info.Email, name)
	if !synthesized {
		existing, err := ing.candidates.FindByEmail(ctx, email)
		if err != nil && err != candidatesmodel.ErrCandidateNotFound {
			os.Remove(path)
			return failAt(result, model.StepDedupe, err)
		}
		if existing != nil {
			os.Remove(path)
			result.Outcome = model.OutcomeDuplicate
			result.CandidateID = existing.ID
			return result
		}
	}

	candidate := &candidatesmodel.Candidate{
		Name:     name,
		Email:    email,
		Country:  info.Country,
		Headline: info.Headline,
	}
	if info.Phone != nil {
		candidate.Phone = info.Phone
	}

	if err := ing.candidates.Create(ctx, candidate); err != nil {
		os.Remove(path)
		if err == candidatesmodel.ErrEmailConflict {
			result.Outcome = model.OutcomeDuplicate
			return result
		}
		return failAt(result, model.StepPersist, err)
	}

	cvFile := &cvfilesmodel.CvFile{
		CandidateID: candidate.ID,
		Filename:    f.Filename,
		FilePath:    path,
		FileSize:    size,
		BatchTag:    f.BatchTag,
		Status:      cvfilesmodel.StatusUploaded,
	}
	if err := ing.cvFiles.Create(ctx, cvFile); err != nil {
		os.Remove(path)
		return failAt(result, model.StepCvFilePerst, err)
	}

	ing.archiveToS3(ctx, candidate.ID, cvFile.ID, f.Bytes)
	ing.scheduleMatrixBuild(candidate.ID, cvFile.ID, path)

	result.Outcome = model.OutcomeSuccess
	result.CandidateID = candidate.ID
	result.CvFileID = cvFile.ID
	return result
}

// scheduleMatrixBuild runs C4 and, on success, C8 fan-out as a detached
// background task. Its failure updates only CvFile.status and never
// propagates back to the ingestion HTTP response.
func (ing *Ingestor) scheduleMatrixBuild(candidateID, cvFileID, cvPath string) {
	go func() {
		ctx := context.Background()
		if _, err := ing.matrixSvc.Build(ctx, candidateID, cvFileID, cvPath); err != nil {
			ing.logger.WithError("CANDIDATE_MATRIX_BUILD_FAILED").Warn("background matrix build failed after ingestion")
			_ = ing.cvFiles.UpdateStatus(ctx, cvFileID, cvfilesmodel.StatusFailed)
			return
		}
		if err := ing.fanout.OnCandidateMatrixReady(ctx, candidateID); err != nil {
			ing.logger.WithError("CANDIDATE_FANOUT_FAILED").Warn("background fan-out failed after ingestion")
			_ = ing.cvFiles.UpdateStatus(ctx, cvFileID, cvfilesmodel.StatusNeedsReview)
			return
		}
		_ = ing.cvFiles.UpdateStatus(ctx, cvFileID, cvfilesmodel.StatusMatrixReady)
	}()
}

// archiveToS3 uploads a staged CV's bytes to S3 and records the resulting
// key on the CvFile row. A failure here is logged and otherwise swallowed:
// archival is best-effort and must never fail an ingestion that already
// succeeded locally.
func (ing *Ingestor) archiveToS3(ctx context.Context, candidateID, cvFileID string, body []byte) {
	if ing.s3Client == nil {
		return
	}
	key := fmt.Sprintf("cv/%s/%s.pdf", candidateID, cvFileID)
	if err := ing.s3Client.UploadObject(ctx, key, body, "application/pdf"); err != nil {
		ing.logger.WithError("CV_S3_UPLOAD_FAILED").Warn("failed to archive CV to S3")
		return
	}
	if err := ing.cvFiles.UpdateStorageKey(ctx, cvFileID, key); err != nil {
		ing.logger.WithError("CV_STORAGE_KEY_UPDATE_FAILED").Warn("failed to record CV storage key")
	}
}

func (ing *Ingestor) stageToDisk(f UploadFile) (string, int64, error) {
	path := filepath.Join(ing.uploadDir, uuid.New().String()+".pdf")
	if err := os.WriteFile(path, f.Bytes, 0o600); err != nil {
		return "", 0, err
	}
	return path, int64(len(f.Bytes)), nil
}

// resolveEmail returns info.Email trimmed and lowercased if present, or a
// synthesized <slug(name)>@example.com address otherwise. Synthesized
// emails never participate in dedupe (I1 only binds real addresses).
func (ing *Ingestor) resolveEmail(email *string, name string) (string, bool) {
	if email != nil && strings.TrimSpace(*email) != "" {
		return strings.ToLower(strings.TrimSpace(*email)), false
	}
	return slugify(name) + "@example.com", true
}

func failAt(result model.FileResult, step string, err error) model.FileResult {
	result.Outcome = model.OutcomeFailed
	result.FailureStep = step
	result.Error = err.Error()
	return result
}

func slugify(name string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case !prevDash:
			b.WriteByte('.')
			prevDash = true
		}
	}
	return strings.Trim(b.String(), ".")
}
