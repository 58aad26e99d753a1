package ports

import (
	"context"

	"github.com/andreypavlenko/matchcore/modules/matching/model"
)

// MatchRepository persists Match rows. Upsert never touches Status: a
// recompute refreshes score/breakdown/explanation/gaps/calculated_at only
// (I5, §9 Open Question: status is operator state, not engine state).
type MatchRepository interface {
	Upsert(ctx context.Context, match *model.Match) error
	GetByID(ctx context.Context, id string) (*model.Match, error)
	GetByPair(ctx context.Context, candidateID, jobID string) (*model.Match, error)
	List(ctx context.Context, limit, offset int, candidateID, jobID string) ([]*model.Match, int, error)
}
