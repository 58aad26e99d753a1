package service

import (
	"context"

	"github.com/andreypavlenko/matchcore/modules/cvfiles/model"
	"github.com/andreypavlenko/matchcore/modules/cvfiles/ports"
)

// CvFileService manages CV file records created by ingestion and read back
// by candidate profile views and the bulk orchestrator.
type CvFileService struct {
	repo ports.CvFileRepository
}

// NewCvFileService creates a new CV file service.
func NewCvFileService(repo ports.CvFileRepository) *CvFileService {
	return &CvFileService{repo: repo}
}

// Create persists a new CV file row. FileSize must already have been
// validated as > 0 (I2) by the caller; ingestion performs that check before
// the bytes ever reach this service.
func (s *CvFileService) Create(ctx context.Context, file *model.CvFile) (*model.CvFileDTO, error) {
	if file.FileSize <= 0 {
		return nil, model.ErrEmptyFile
	}
	if err := s.repo.Create(ctx, file); err != nil {
		return nil, err
	}
	return file.ToDTO(), nil
}

// GetByID retrieves a CV file by ID.
func (s *CvFileService) GetByID(ctx context.Context, id string) (*model.CvFileDTO, error) {
	file, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return file.ToDTO(), nil
}

// GetLatestForCandidate returns the authoritative CV file for a candidate's
// profile display (I3).
func (s *CvFileService) GetLatestForCandidate(ctx context.Context, candidateID string) (*model.CvFileDTO, error) {
	file, err := s.repo.GetLatestForCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return file.ToDTO(), nil
}

// ListForCandidate returns a candidate's full upload history.
func (s *CvFileService) ListForCandidate(ctx context.Context, candidateID string) ([]*model.CvFileDTO, error) {
	files, err := s.repo.ListForCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*model.CvFileDTO, len(files))
	for i, f := range files {
		dtos[i] = f.ToDTO()
	}
	return dtos, nil
}

// MarkStatus sets a CV file's pipeline status. It does not check the
// transition against the previous status.
func (s *CvFileService) MarkStatus(ctx context.Context, id string, status model.Status) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes a CV file row (e.g. when superseded by a re-upload that a
// retention policy decides to prune).
func (s *CvFileService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
