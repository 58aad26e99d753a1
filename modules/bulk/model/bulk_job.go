package model

import (
	"sync"
	"time"
)

// Operation is one of the three sweeps a bulk job can run.
type Operation string

const (
	OperationRegenerateMatrices Operation = "regenerate-matrices"
	OperationRerunMatching      Operation = "rerun-matching"
	OperationRegenerateAndMatch Operation = "regenerate-and-match"
)

// Status is a BulkJob's lifecycle state.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// TargetError records one failed item inside a bulk sweep, identified by
// the candidate/job ID and its name for operator-visible surfaces.
type TargetError struct {
	TargetID string `json:"target_id"`
	Name     string `json:"name"`
	Error    string `json:"error"`
}

// BulkJob tracks one cancellable background sweep. Counters and the error
// list are mutated only by the owning orchestrator's worker goroutines,
// under mu, so a snapshot (ToDTO) is always internally consistent.
type BulkJob struct {
	mu sync.Mutex

	ID            string
	Operation     Operation
	OnlyMissing   bool
	Status        Status
	Total         int
	Processed     int
	Succeeded     int
	Failed        int
	CurrentTarget string
	Errors        []TargetError
	StartedAt     time.Time
	CompletedAt   *time.Time

	cancel func()
}

// NewBulkJob creates a running job with the given total item count.
func NewBulkJob(id string, op Operation, onlyMissing bool, total int, cancel func()) *BulkJob {
	return &BulkJob{
		ID:          id,
		Operation:   op,
		OnlyMissing: onlyMissing,
		Status:      StatusRunning,
		Total:       total,
		StartedAt:   time.Now(),
		cancel:      cancel,
	}
}

// IsCancelled reports whether cancellation has been requested. Workers
// check this between tasks and at each suspension point.
func (j *BulkJob) IsCancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.Status == StatusCancelled
}

// Cancel marks the job cancelled. In-flight tasks finish and count toward
// processed; no new task may start afterward. A no-op on a terminal job.
func (j *BulkJob) Cancel() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != StatusRunning {
		return false
	}
	j.Status = StatusCancelled
	now := time.Now()
	j.CompletedAt = &now
	if j.cancel != nil {
		j.cancel()
	}
	return true
}

// AddToTotal increases the job's total item count. Used by multi-step
// operations whose later phase discovers more work than the initial
// estimate (e.g. regenerate-and-match's fan-out step, which always covers
// every candidate with a matrix regardless of what the regenerate step was
// restricted to).
func (j *BulkJob) AddToTotal(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Total += n
}

// RecordSuccess advances the progress counters for one completed item.
func (j *BulkJob) RecordSuccess(targetID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Processed++
	j.Succeeded++
	j.CurrentTarget = targetID
}

// RecordFailure advances the progress counters and appends an error entry.
func (j *BulkJob) RecordFailure(targetID, name, errMsg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Processed++
	j.Failed++
	j.CurrentTarget = targetID
	j.Errors = append(j.Errors, TargetError{TargetID: targetID, Name: name, Error: errMsg})
}

// Finish stamps the job terminal (completed, unless already cancelled).
func (j *BulkJob) Finish() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != StatusRunning {
		return
	}
	j.Status = StatusCompleted
	now := time.Now()
	j.CompletedAt = &now
}

// BulkJobDTO is the wire snapshot of a BulkJob.
type BulkJobDTO struct {
	ID            string        `json:"id"`
	Operation     Operation     `json:"operation"`
	OnlyMissing   bool          `json:"only_missing"`
	Status        Status        `json:"status"`
	Total         int           `json:"total"`
	Processed     int           `json:"processed"`
	Succeeded     int           `json:"succeeded"`
	Failed        int           `json:"failed"`
	CurrentTarget string        `json:"current_target,omitempty"`
	Errors        []TargetError `json:"errors,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// ToDTO takes a consistent snapshot of the job under its own lock.
func (j *BulkJob) ToDTO() *BulkJobDTO {
	j.mu.Lock()
	defer j.mu.Unlock()
	return &BulkJobDTO{
		ID:            j.ID,
		Operation:     j.Operation,
		OnlyMissing:   j.OnlyMissing,
		Status:        j.Status,
		Total:         j.Total,
		Processed:     j.Processed,
		Succeeded:     j.Succeeded,
		Failed:        j.Failed,
		CurrentTarget: j.CurrentTarget,
		Errors:        j.Errors,
		StartedAt:     j.StartedAt,
		CompletedAt:   j.CompletedAt,
	}
}
