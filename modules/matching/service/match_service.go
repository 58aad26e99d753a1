// Package service implements C7's persistence wiring and C8 Match Fan-Out:
// the pure model.ShouldConsider/model.CalculateMatchScore functions are
// orchestrated here against real candidate/job/matrix data and upserted.
package service

import (
	"context"

	"github.com/andreypavlenko/matchcore/modules/matching/model"
	"github.com/andreypavlenko/matchcore/modules/matching/ports"
)

// MatchService computes and persists (candidate, job) match outcomes.
type MatchService struct {
	repo ports.MatchRepository
}

// NewMatchService constructs a MatchService.
func NewMatchService(repo ports.MatchRepository) *MatchService {
	return &MatchService{repo: repo}
}

// ComputeAndUpsert runs the pre-filter then scoring engine for one pair and
// persists the outcome, preserving any existing operator-set status. It
// returns (nil, nil) when the pair is filtered out by should_consider.
func (s *MatchService) ComputeAndUpsert(ctx context.Context, candidateID, jobID string, candidate model.CandidateInput, job model.JobInput) (*model.Match, error) {
	if !model.ShouldConsider(candidate, job) {
		return nil, nil
	}

	result := model.CalculateMatchScore(candidate, job)

	existing, err := s.repo.GetByPair(ctx, candidateID, jobID)
	status := ""
	if err == nil && existing != nil {
		status = existing.Status
	}

	match := &model.Match{
		CandidateID: candidateID,
		JobID:       jobID,
		Score:       result.Score,
		Breakdown:   result.Breakdown,
		Explanation: result.Explanation,
		Gaps:        result.Gaps,
		Status:      status,
	}

	if err := s.repo.Upsert(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

// GetByID retrieves a match by ID.
func (s *MatchService) GetByID(ctx context.Context, id string) (*model.Match, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves matches with pagination.
func (s *MatchService) List(ctx context.Context, limit, offset int, candidateID, jobID string) ([]*model.Match, int, error) {
	return s.repo.List(ctx, limit, offset, candidateID, jobID)
}
