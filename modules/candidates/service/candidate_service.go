// Package service implements the Candidate aggregate's business logic.
package service

import (
	"context"
	"strings"

	"github.com/andreypavlenko/matchcore/modules/candidates/model"
	"github.com/andreypavlenko/matchcore/modules/candidates/ports"
)

// CandidateService implements candidate CRUD and lookup.
type CandidateService struct {
	repo ports.CandidateRepository
}

// NewCandidateService creates a new CandidateService.
func NewCandidateService(repo ports.CandidateRepository) *CandidateService {
	return &CandidateService{repo: repo}
}

// Create validates and persists a new candidate.
func (s *CandidateService) Create(ctx context.Context, candidate *model.Candidate) error {
	if strings.TrimSpace(candidate.Name) == "" {
		return model.ErrNameRequired
	}
	if strings.TrimSpace(candidate.Email) == "" {
		return model.ErrEmailRequired
	}
	return s.repo.Create(ctx, candidate)
}

// GetByID retrieves a candidate by ID.
func (s *CandidateService) GetByID(ctx context.Context, id string) (*model.Candidate, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByEmail looks up a candidate by case-insensitive email, returning
// (nil, nil) if no candidate exists with that email.
func (s *CandidateService) FindByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	c, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == model.ErrCandidateNotFound {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// List returns a page of candidates.
func (s *CandidateService) List(ctx context.Context, limit, offset int) ([]*model.Candidate, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListIDsWithMatrix returns every candidate ID that has a current matrix.
func (s *CandidateService) ListIDsWithMatrix(ctx context.Context) ([]string, error) {
	return s.repo.ListIDsWithMatrix(ctx)
}

// Update updates a candidate's mutable profile fields.
func (s *CandidateService) Update(ctx context.Context, candidate *model.Candidate) error {
	if strings.TrimSpace(candidate.Name) == "" {
		return model.ErrNameRequired
	}
	return s.repo.Update(ctx, candidate)
}

// Delete removes a candidate and cascades to dependent rows.
func (s *CandidateService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
