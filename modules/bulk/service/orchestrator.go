// Package service implements the C9 Bulk Orchestrator: an in-process
// registry of cancellable background sweeps over the candidate corpus,
// each running regenerate-matrices, rerun-matching, or both in sequence.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/andreypavlenko/matchcore/internal/platform/logger"
	"github.com/andreypavlenko/matchcore/modules/bulk/model"
	candidatesmodel "github.com/andreypavlenko/matchcore/modules/candidates/model"
	cvfilesmodel "github.com/andreypavlenko/matchcore/modules/cvfiles/model"
	matricesmodel "github.com/andreypavlenko/matchcore/modules/matrices/model"
)

const (
	// defaultMatrixBuildConcurrency bounds regenerate-matrices' LLM-heavy worker group.
	defaultMatrixBuildConcurrency = 1
	// defaultMatchOnlyConcurrency bounds rerun-matching's matrix-only worker group.
	defaultMatchOnlyConcurrency = 4
	// defaultRetention is how long a terminal job stays queryable before
	// the sweep evicts it from the registry.
	defaultRetention = time.Hour
)

type candidateLister interface {
	GetByID(ctx context.Context, id string) (*candidatesmodel.Candidate, error)
	ListIDsWithMatrix(ctx context.Context) ([]string, error)
	ListIDsWithoutMatrix(ctx context.Context) ([]string, error)
	ListAllIDs(ctx context.Context) ([]string, error)
}

type cvFileLister interface {
	GetLatestForCandidate(ctx context.Context, candidateID string) (*cvfilesmodel.CvFile, error)
}

type bulkMatrixBuilder interface {
	Build(ctx context.Context, candidateID, cvFileID, cvPath string) (*matricesmodel.CandidateMatrix, error)
}

type bulkFanOut interface {
	OnCandidateMatrixReady(ctx context.Context, candidateID string) error
}

// Orchestrator implements C9: a single process-wide registry of BulkJobs,
// each owning its own worker group and cancellation.
type Orchestrator struct {
	candidates candidateLister
	cvFiles    cvFileLister
	matrixSvc  bulkMatrixBuilder
	fanout     bulkFanOut
	logger     *logger.Logger

	matrixConcurrency int
	matchConcurrency  int
	retention         time.Duration

	mu   sync.Mutex
	jobs map[string]*model.BulkJob
}

// NewOrchestrator constructs the bulk orchestrator. A zero value for
// matrixConcurrency, matchConcurrency, or retention falls back to the
// package defaults.
func NewOrchestrator(candidates candidateLister, cvFiles cvFileLister, matrixSvc bulkMatrixBuilder, fanout bulkFanOut, log *logger.Logger, matrixConcurrency, matchConcurrency int, retention time.Duration) *Orchestrator {
	if matrixConcurrency <= 0 {
		matrixConcurrency = defaultMatrixBuildConcurrency
	}
	if matchConcurrency <= 0 {
		matchConcurrency = defaultMatchOnlyConcurrency
	}
	if retention <= 0 {
		retention = defaultRetention
	}
	o := &Orchestrator{
		candidates:        candidates,
		cvFiles:           cvFiles,
		matrixSvc:         matrixSvc,
		fanout:            fanout,
		logger:            log,
		matrixConcurrency: matrixConcurrency,
		matchConcurrency:  matchConcurrency,
		retention:         retention,
		jobs:              make(map[string]*model.BulkJob),
	}
	go o.sweepLoop()
	return o
}

// sweepLoop evicts terminal jobs past retention on a fixed interval for the
// lifetime of the process; there is no dependency on an external cron.
func (o *Orchestrator) sweepLoop() {
	ticker := time.NewTicker(o.retention / 4)
	defer ticker.Stop()
	for range ticker.C {
		o.Sweep(time.Now())
	}
}

// Start begins a new bulk sweep. Only one running job per operation type
// is permitted; starting a second returns ErrBulkJobConflict.
func (o *Orchestrator) Start(ctx context.Context, op model.Operation, onlyMissing bool) (*model.BulkJobDTO, error) {
	o.mu.Lock()
	for _, j := range o.jobs {
		if j.Operation == op && j.ToDTO().Status == model.StatusRunning {
			o.mu.Unlock()
			return nil, model.ErrBulkJobConflict
		}
	}
	o.mu.Unlock()

	ids, err := o.targetIDs(ctx, op, onlyMissing)
	if err != nil {
		return nil, err
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	jobID := newJobID()
	job := model.NewBulkJob(jobID, op, onlyMissing, len(ids), cancel)

	o.mu.Lock()
	o.jobs[jobID] = job
	o.mu.Unlock()

	go o.run(jobCtx, job, ids)

	return job.ToDTO(), nil
}

// targetIDs resolves the candidate set a given operation sweeps over.
func (o *Orchestrator) targetIDs(ctx context.Context, op model.Operation, onlyMissing bool) ([]string, error) {
	switch op {
	case model.OperationRerunMatching:
		return o.candidates.ListIDsWithMatrix(ctx)
	case model.OperationRegenerateMatrices, model.OperationRegenerateAndMatch:
		if onlyMissing {
			return o.candidates.ListIDsWithoutMatrix(ctx)
		}
		return o.candidates.ListAllIDs(ctx)
	default:
		return o.candidates.ListAllIDs(ctx)
	}
}

// Get returns a snapshot of one job.
func (o *Orchestrator) Get(jobID string) (*model.BulkJobDTO, error) {
	o.mu.Lock()
	job, ok := o.jobs[jobID]
	o.mu.Unlock()
	if !ok {
		return nil, model.ErrBulkJobNotFound
	}
	return job.ToDTO(), nil
}

// Cancel requests cancellation of a running job. The in-flight task
// completes and counts toward processed; no subsequent task starts.
func (o *Orchestrator) Cancel(jobID string) (*model.BulkJobDTO, error) {
	o.mu.Lock()
	job, ok := o.jobs[jobID]
	o.mu.Unlock()
	if !ok {
		return nil, model.ErrBulkJobNotFound
	}
	job.Cancel()
	return job.ToDTO(), nil
}

// run drives one job's worker group to completion. regenerate-and-match is
// two independent passes: the regenerate pass honors whatever ids
// only_missing restricted it to, but the fan-out pass always re-lists every
// candidate with a matrix, since a rerun-matching step must see candidates
// the regenerate pass left untouched too.
func (o *Orchestrator) run(ctx context.Context, job *model.BulkJob, ids []string) {
	if job.Operation == model.OperationRegenerateAndMatch {
		o.runWorkerPool(ctx, job, ids, o.matrixConcurrency, func(id string) {
			o.runRegenerateStep(ctx, job, id)
		})

		if !job.IsCancelled() {
			fanoutIDs, err := o.candidates.ListIDsWithMatrix(ctx)
			if err != nil {
				o.logger.WithError("BULK_FANOUT_LIST_FAILED").Warn("failed to list candidates for regenerate-and-match fan-out")
			} else {
				job.AddToTotal(len(fanoutIDs))
				o.runWorkerPool(ctx, job, fanoutIDs, o.matchConcurrency, func(id string) {
					o.runFanoutStep(ctx, job, id)
				})
			}
		}

		job.Finish()
		return
	}

	concurrency := o.matchConcurrency
	if job.Operation == model.OperationRegenerateMatrices {
		concurrency = o.matrixConcurrency
	}
	o.runWorkerPool(ctx, job, ids, concurrency, func(id string) {
		o.runOne(ctx, job, id)
	})
	job.Finish()
}

// runWorkerPool dispatches work over ids with bounded concurrency,
// respecting job cancellation between dispatches, and blocks until every
// dispatched task completes.
func (o *Orchestrator) runWorkerPool(ctx context.Context, job *model.BulkJob, ids []string, concurrency int, work func(id string)) {
	sem := semaphore.NewWeighted(int64(concurrency))
	done := make(chan struct{}, len(ids))

	dispatched := 0
	for _, id := range ids {
		id := id
		if job.IsCancelled() {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		dispatched++
		go func() {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			if job.IsCancelled() {
				return
			}
			work(id)
		}()
	}

	for i := 0; i < dispatched; i++ {
		<-done
	}
}

// runOne executes one candidate's sweep for the single-step operations
// (regenerate-matrices, rerun-matching). regenerate-and-match is driven
// directly by run, since its two steps run over independent id sets.
func (o *Orchestrator) runOne(ctx context.Context, job *model.BulkJob, candidateID string) {
	switch job.Operation {
	case model.OperationRegenerateMatrices:
		o.runRegenerateStep(ctx, job, candidateID)
	case model.OperationRerunMatching:
		o.runFanoutStep(ctx, job, candidateID)
	}
}

func (o *Orchestrator) runRegenerateStep(ctx context.Context, job *model.BulkJob, candidateID string) {
	name := o.candidateName(ctx, candidateID)
	if err := o.regenerateMatrix(ctx, candidateID); err != nil {
		job.RecordFailure(candidateID, name, err.Error())
		return
	}
	job.RecordSuccess(candidateID)
}

func (o *Orchestrator) runFanoutStep(ctx context.Context, job *model.BulkJob, candidateID string) {
	name := o.candidateName(ctx, candidateID)
	if err := o.fanout.OnCandidateMatrixReady(ctx, candidateID); err != nil {
		job.RecordFailure(candidateID, name, err.Error())
		return
	}
	job.RecordSuccess(candidateID)
}

func (o *Orchestrator) candidateName(ctx context.Context, candidateID string) string {
	if c, err := o.candidates.GetByID(ctx, candidateID); err == nil {
		return c.Name
	}
	return candidateID
}

func (o *Orchestrator) regenerateMatrix(ctx context.Context, candidateID string) error {
	cvFile, err := o.cvFiles.GetLatestForCandidate(ctx, candidateID)
	if err != nil {
		return err
	}
	_, err = o.matrixSvc.Build(ctx, candidateID, cvFile.ID, cvFile.FilePath)
	return err
}

func newJobID() string {
	return uuid.New().String()
}

// Sweep evicts terminal jobs past the retention timeout. Exported so tests
// can drive it deterministically; production wiring also runs it from an
// internal ticker (see sweepLoop).
func (o *Orchestrator) Sweep(now time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, job := range o.jobs {
		dto := job.ToDTO()
		if dto.CompletedAt != nil && now.Sub(*dto.CompletedAt) > o.retention {
			delete(o.jobs, id)
		}
	}
}
