package model

import "time"

// Status is the lifecycle state of an uploaded CV file as it moves through
// ingestion and matrix extraction.
type Status string

const (
	StatusUploaded    Status = "uploaded"
	StatusParsing     Status = "parsing"
	StatusMatrixReady Status = "matrix_ready"
	StatusNeedsReview Status = "needs_review"
	StatusFailed      Status = "failed"
)

// CvFile is an uploaded resume document owned by a Candidate. FilePath is
// the local staging path used during extraction; StorageKey is populated
// once the bytes have been persisted to S3. Deletion cascades from
// Candidate.
type CvFile struct {
	ID          string
	CandidateID string
	Filename    string
	FilePath    string
	FileSize    int64
	StorageKey  *string
	Status      Status
	BatchTag    *string
	UploadedAt  time.Time
	ProcessedAt *time.Time
}

// CvFileDTO is the wire representation of a CvFile.
type CvFileDTO struct {
	ID          string     `json:"id"`
	CandidateID string     `json:"candidate_id"`
	Filename    string     `json:"filename"`
	FileSize    int64      `json:"file_size"`
	Status      Status     `json:"status"`
	BatchTag    *string    `json:"batch_tag,omitempty"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// ToDTO converts a CvFile to its wire representation.
func (f *CvFile) ToDTO() *CvFileDTO {
	return &CvFileDTO{
		ID:          f.ID,
		CandidateID: f.CandidateID,
		Filename:    f.Filename,
		FileSize:    f.FileSize,
		Status:      f.Status,
		BatchTag:    f.BatchTag,
		UploadedAt:  f.UploadedAt,
		ProcessedAt: f.ProcessedAt,
	}
}
