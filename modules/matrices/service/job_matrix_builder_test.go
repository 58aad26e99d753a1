package service

import (
	"context"
	"errors"
	"testing"

	"github.com/andreypavlenko/matchcore/internal/platform/llm"
	"github.com/andreypavlenko/matchcore/modules/matrices/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockJobMatrixRepository implements ports.JobMatrixRepository.
type mockJobMatrixRepository struct {
	UpsertFunc func(ctx context.Context, m *model.JobMatrix) error
}

func (m *mockJobMatrixRepository) Upsert(ctx context.Context, matrix *model.JobMatrix) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, matrix)
	}
	return nil
}

func (m *mockJobMatrixRepository) GetByJobID(ctx context.Context, jobID string) (*model.JobMatrix, error) {
	return nil, model.ErrJobMatrixNotFound
}

func (m *mockJobMatrixRepository) ListAllWithJobIDs(ctx context.Context) ([]*model.JobMatrix, error) {
	return nil, nil
}

// mockJobMatrixLLM implements llmJobMatrixGenerator.
type mockJobMatrixLLM struct {
	calls   int
	fail    bool
	content llm.JobMatrixContent
}

func (m *mockJobMatrixLLM) GenerateJobMatrix(ctx context.Context, title, description string, must, nice []string) (llm.JobMatrixContent, error) {
	m.calls++
	if m.fail && m.calls == 1 {
		return llm.JobMatrixContent{}, errors.New("model unavailable")
	}
	return m.content, nil
}

func (m *mockJobMatrixLLM) ModelVersion() string {
	return "test-model"
}

func validJobMatrixContent() llm.JobMatrixContent {
	return llm.JobMatrixContent{
		RequiredSkills:   []llm.WeightedSkill{{Skill: "Go", Weight: 80}, {Skill: "PostgreSQL", Weight: 20}},
		PreferredSkills:  []llm.WeightedSkill{{Skill: "Kubernetes", Weight: 100}},
		ExperienceWeight: 20,
		LocationWeight:   10,
		DomainWeight:     10,
	}
}

func TestJobMatrixBuilder_Build(t *testing.T) {
	t.Run("builds and persists successfully", func(t *testing.T) {
		var persisted *model.JobMatrix
		repo := &mockJobMatrixRepository{
			UpsertFunc: func(ctx context.Context, m *model.JobMatrix) error {
				persisted = m
				return nil
			},
		}
		mockLLM := &mockJobMatrixLLM{content: validJobMatrixContent()}
		b := NewJobMatrixBuilder(repo, mockLLM, testLogger(t))

		matrix, err := b.Build(context.Background(), "job-1", "Backend Engineer", "description", []string{"Go"}, []string{"Kubernetes"})
		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.Equal(t, "job-1", matrix.JobID)
		assert.Equal(t, 60, matrix.SkillsWeight())
	})

	t.Run("rejects weights that leave skills weight non-positive", func(t *testing.T) {
		content := validJobMatrixContent()
		content.ExperienceWeight = 40
		content.LocationWeight = 30
		content.DomainWeight = 30
		mockLLM := &mockJobMatrixLLM{content: content}
		b := NewJobMatrixBuilder(&mockJobMatrixRepository{}, mockLLM, testLogger(t))

		_, err := b.Build(context.Background(), "job-1", "Backend Engineer", "description", []string{"Go"}, nil)
		assert.ErrorIs(t, err, model.ErrInvalidWeights)
	})

	t.Run("retries once on generation failure then succeeds", func(t *testing.T) {
		mockLLM := &mockJobMatrixLLM{fail: true, content: validJobMatrixContent()}
		b := NewJobMatrixBuilder(&mockJobMatrixRepository{}, mockLLM, testLogger(t))

		_, err := b.Build(context.Background(), "job-1", "Backend Engineer", "description", []string{"Go"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, mockLLM.calls)
	})
}
