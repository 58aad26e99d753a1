// Package service implements the C4 Candidate Matrix Builder and C5 Job
// Matrix Builder: orchestration over text extraction and the LLM adapter,
// with a single retry on generation failure before surfacing an error.
package service

import (
	"context"
	"fmt"

	"github.com/andreypavlenko/matchcore/internal/platform/llm"
	"github.com/andreypavlenko/matchcore/internal/platform/logger"
	"github.com/andreypavlenko/matchcore/internal/platform/textextract"
	"github.com/andreypavlenko/matchcore/modules/matrices/model"
	"github.com/andreypavlenko/matchcore/modules/matrices/ports"
)

// llmCandidateMatrixGenerator is the subset of the LLM adapter this builder
// depends on.
type llmCandidateMatrixGenerator interface {
	GenerateCandidateMatrix(ctx context.Context, cvText string) (llm.CandidateMatrixContent, error)
	ModelVersion() string
}

// CandidateMatrixBuilder implements C4: extract CV text, call the LLM once,
// retry once on failure, and upsert the result in place (I3).
type CandidateMatrixBuilder struct {
	repo   ports.CandidateMatrixRepository
	llm    llmCandidateMatrixGenerator
	logger *logger.Logger
}

// NewCandidateMatrixBuilder constructs a builder.
func NewCandidateMatrixBuilder(repo ports.CandidateMatrixRepository, llmClient llmCandidateMatrixGenerator, log *logger.Logger) *CandidateMatrixBuilder {
	return &CandidateMatrixBuilder{repo: repo, llm: llmClient, logger: log}
}

// Build generates the candidate matrix from a CV file already on disk and
// persists it, replacing any prior matrix for the candidate.
func (b *CandidateMatrixBuilder) Build(ctx context.Context, candidateID, cvFileID, cvPath string) (*model.CandidateMatrix, error) {
	cvText, err := textextract.ExtractFromPdf(cvPath)
	if err != nil {
		return nil, fmt.Errorf("extracting cv text: %w", err)
	}

	content, err := b.generateWithRetry(ctx, cvText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMatrixGenerationFailed, err)
	}

	matrix := toCandidateMatrix(candidateID, cvFileID, content, b.llm.ModelVersion())
	if err := b.repo.Upsert(ctx, matrix); err != nil {
		return nil, err
	}
	return matrix, nil
}

func (b *CandidateMatrixBuilder) generateWithRetry(ctx context.Context, cvText string) (llm.CandidateMatrixContent, error) {
	content, err := b.llm.GenerateCandidateMatrix(ctx, cvText)
	if err == nil {
		return content, nil
	}

	b.logger.WithError("CANDIDATE_MATRIX_GENERATION_RETRY").Warn("candidate matrix generation failed, retrying once")
	return b.llm.GenerateCandidateMatrix(ctx, cvText)
}

func toCandidateMatrix(candidateID, cvFileID string, content llm.CandidateMatrixContent, modelVersion string) *model.CandidateMatrix {
	skills := make([]model.CandidateSkill, 0, len(content.Skills))
	for _, s := range content.Skills {
		skills = append(skills, model.CandidateSkill{
			Name:              s.Name,
			Level:             s.Level,
			YearsOfExperience: s.YearsOfExperience,
		})
	}

	education := make([]model.Education, 0, len(content.Education))
	for _, e := range content.Education {
		education = append(education, model.Education{
			Degree:      e.Degree,
			Institution: e.Institution,
			Field:       e.Field,
			Year:        e.Year,
		})
	}

	evidence := make([]model.Evidence, 0, len(content.Evidence))
	for _, e := range content.Evidence {
		evidence = append(evidence, model.Evidence{
			Field:      e.Field,
			Snippet:    e.Snippet,
			SourcePage: e.SourcePage,
		})
	}

	return &model.CandidateMatrix{
		CandidateID:          candidateID,
		CvFileID:             cvFileID,
		Skills:               skills,
		Roles:                content.Roles,
		TotalYearsExperience: content.TotalYearsExperience,
		Domains:              content.Domains,
		Education:            education,
		Languages:            content.Languages,
		LocationSignals: model.LocationSignals{
			CurrentCountry:     content.LocationSignals.CurrentCountry,
			WillingToRelocate:  content.LocationSignals.WillingToRelocate,
			PreferredLocations: content.LocationSignals.PreferredLocations,
		},
		Confidence:   content.Confidence,
		Evidence:     evidence,
		ModelVersion: modelVersion,
	}
}
