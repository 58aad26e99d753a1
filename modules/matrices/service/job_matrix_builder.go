package service

import (
	"context"
	"fmt"

	"github.com/andreypavlenko/matchcore/internal/platform/llm"
	"github.com/andreypavlenko/matchcore/internal/platform/logger"
	"github.com/andreypavlenko/matchcore/modules/matrices/model"
	"github.com/andreypavlenko/matchcore/modules/matrices/ports"
)

// llmJobMatrixGenerator is the subset of the LLM adapter this builder
// depends on.
type llmJobMatrixGenerator interface {
	GenerateJobMatrix(ctx context.Context, title, description string, must, nice []string) (llm.JobMatrixContent, error)
	ModelVersion() string
}

// JobMatrixBuilder implements C5: generate a weighted requirements matrix
// for a job and persist it, enforcing I4 (skills weight stays positive).
type JobMatrixBuilder struct {
	repo   ports.JobMatrixRepository
	llm    llmJobMatrixGenerator
	logger *logger.Logger
}

// NewJobMatrixBuilder constructs a builder.
func NewJobMatrixBuilder(repo ports.JobMatrixRepository, llmClient llmJobMatrixGenerator, log *logger.Logger) *JobMatrixBuilder {
	return &JobMatrixBuilder{repo: repo, llm: llmClient, logger: log}
}

// Build generates and persists the job matrix, replacing any prior matrix
// for the job.
func (b *JobMatrixBuilder) Build(ctx context.Context, jobID, title, description string, mustHave, niceToHave []string) (*model.JobMatrix, error) {
	content, err := b.generateWithRetry(ctx, title, description, mustHave, niceToHave)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMatrixGenerationFailed, err)
	}

	matrix := toJobMatrix(jobID, content, b.llm.ModelVersion())
	if matrix.SkillsWeight() <= 0 {
		return nil, model.ErrInvalidWeights
	}

	if err := b.repo.Upsert(ctx, matrix); err != nil {
		return nil, err
	}
	return matrix, nil
}

func (b *JobMatrixBuilder) generateWithRetry(ctx context.Context, title, description string, must, nice []string) (llm.JobMatrixContent, error) {
	content, err := b.llm.GenerateJobMatrix(ctx, title, description, must, nice)
	if err == nil {
		return content, nil
	}

	b.logger.WithError("JOB_MATRIX_GENERATION_RETRY").Warn("job matrix generation failed, retrying once")
	return b.llm.GenerateJobMatrix(ctx, title, description, must, nice)
}

func toJobMatrix(jobID string, content llm.JobMatrixContent, modelVersion string) *model.JobMatrix {
	required := make([]model.WeightedSkill, 0, len(content.RequiredSkills))
	for _, s := range content.RequiredSkills {
		required = append(required, model.WeightedSkill{Skill: s.Skill, Weight: s.Weight})
	}

	preferred := make([]model.WeightedSkill, 0, len(content.PreferredSkills))
	for _, s := range content.PreferredSkills {
		preferred = append(preferred, model.WeightedSkill{Skill: s.Skill, Weight: s.Weight})
	}

	return &model.JobMatrix{
		JobID:            jobID,
		RequiredSkills:   required,
		PreferredSkills:  preferred,
		ExperienceWeight: content.ExperienceWeight,
		LocationWeight:   content.LocationWeight,
		DomainWeight:     content.DomainWeight,
		ModelVersion:     modelVersion,
	}
}
