package service

import (
	"context"

	"golang.org/x/sync/semaphore"

	candidatesmodel "github.com/andreypavlenko/matchcore/modules/candidates/model"
	candidatesports "github.com/andreypavlenko/matchcore/modules/candidates/ports"
	jobsmodel "github.com/andreypavlenko/matchcore/modules/jobs/model"
	jobsports "github.com/andreypavlenko/matchcore/modules/jobs/ports"
	matchingmodel "github.com/andreypavlenko/matchcore/modules/matching/model"
	matricesmodel "github.com/andreypavlenko/matchcore/modules/matrices/model"
	matricesports "github.com/andreypavlenko/matchcore/modules/matrices/ports"

	"github.com/andreypavlenko/matchcore/internal/platform/logger"
)

const defaultFanoutConcurrency = 4

// FanOut implements C8: when a candidate matrix becomes ready, score it
// against every published job with a matrix; when a job matrix becomes
// ready, score it against every candidate with a matrix. Each pair is
// computed and upserted independently — one pair's failure never aborts
// the sweep.
type FanOut struct {
	matchSvc        *MatchService
	candidateRepo   candidatesports.CandidateRepository
	jobRepo         jobsports.JobRepository
	candidateMatrix matricesports.CandidateMatrixRepository
	jobMatrix       matricesports.JobMatrixRepository
	sem             *semaphore.Weighted
	logger          *logger.Logger
}

// NewFanOut constructs a FanOut with the given bounded concurrency. A
// concurrency of 0 falls back to the spec default of 4.
func NewFanOut(
	matchSvc *MatchService,
	candidateRepo candidatesports.CandidateRepository,
	jobRepo jobsports.JobRepository,
	candidateMatrix matricesports.CandidateMatrixRepository,
	jobMatrix matricesports.JobMatrixRepository,
	concurrency int,
	log *logger.Logger,
) *FanOut {
	if concurrency <= 0 {
		concurrency = defaultFanoutConcurrency
	}
	return &FanOut{
		matchSvc:        matchSvc,
		candidateRepo:   candidateRepo,
		jobRepo:         jobRepo,
		candidateMatrix: candidateMatrix,
		jobMatrix:       jobMatrix,
		sem:             semaphore.NewWeighted(int64(concurrency)),
		logger:          log,
	}
}

// OnCandidateMatrixReady scores candidateID against every published job
// that has a job matrix.
func (f *FanOut) OnCandidateMatrixReady(ctx context.Context, candidateID string) error {
	candidate, err := f.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return err
	}
	matrix, err := f.candidateMatrix.GetByCandidateID(ctx, candidateID)
	if err != nil {
		return err
	}
	candidateInput := toCandidateInput(candidate, matrix)

	jobIDs, err := f.jobRepo.ListPublishedIDs(ctx)
	if err != nil {
		return err
	}

	done := make(chan struct{}, len(jobIDs))
	for _, jobID := range jobIDs {
		jobID := jobID
		go func() {
			defer func() { done <- struct{}{} }()
			if err := f.sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer f.sem.Release(1)
			f.scorePair(ctx, candidateID, jobID, candidateInput, nil)
		}()
	}
	for range jobIDs {
		<-done
	}
	return nil
}

// OnJobMatrixReady scores jobID against every candidate that has a
// candidate matrix.
func (f *FanOut) OnJobMatrixReady(ctx context.Context, jobID string) error {
	job, err := f.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	jobMatrixRow, err := f.jobMatrix.GetByJobID(ctx, jobID)
	if err != nil {
		return err
	}
	jobInput := toJobInput(job, jobMatrixRow)

	matrices, err := f.candidateMatrix.ListAllWithCandidateIDs(ctx)
	if err != nil {
		return err
	}

	done := make(chan struct{}, len(matrices))
	for _, matrix := range matrices {
		matrix := matrix
		go func() {
			defer func() { done <- struct{}{} }()
			if err := f.sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer f.sem.Release(1)
			f.scorePairByCandidateMatrix(ctx, jobID, matrix, jobInput)
		}()
	}
	for range matrices {
		<-done
	}
	return nil
}

func (f *FanOut) scorePair(ctx context.Context, candidateID, jobID string, candidateInput *matchingmodel.CandidateInput, jobInput *matchingmodel.JobInput) {
	if jobInput == nil {
		job, err := f.jobRepo.GetByID(ctx, jobID)
		if err != nil {
			f.logger.WithError("FANOUT_JOB_LOOKUP").Warn("fan-out could not load job")
			return
		}
		jobMatrixRow, err := f.jobMatrix.GetByJobID(ctx, jobID)
		if err != nil {
			// No matrix yet for this job; not yet eligible for matching.
			return
		}
		input := toJobInput(job, jobMatrixRow)
		jobInput = &input
	}

	if _, err := f.matchSvc.ComputeAndUpsert(ctx, candidateID, jobID, *candidateInput, *jobInput); err != nil {
		f.logger.WithError("FANOUT_COMPUTE_FAILED").Warn("fan-out pair compute failed")
	}
}

func (f *FanOut) scorePairByCandidateMatrix(ctx context.Context, jobID string, matrix *matricesmodel.CandidateMatrix, jobInput matchingmodel.JobInput) {
	candidate, err := f.candidateRepo.GetByID(ctx, matrix.CandidateID)
	if err != nil {
		f.logger.WithError("FANOUT_CANDIDATE_LOOKUP").Warn("fan-out could not load candidate")
		return
	}
	candidateInput := toCandidateInput(candidate, matrix)

	if _, err := f.matchSvc.ComputeAndUpsert(ctx, matrix.CandidateID, jobID, *candidateInput, jobInput); err != nil {
		f.logger.WithError("FANOUT_COMPUTE_FAILED").Warn("fan-out pair compute failed")
	}
}

func toCandidateInput(candidate *candidatesmodel.Candidate, matrix *matricesmodel.CandidateMatrix) *matchingmodel.CandidateInput {
	headline := ""
	if candidate.Headline != nil {
		headline = *candidate.Headline
	}
	country := ""
	if candidate.Country != nil {
		country = *candidate.Country
	}

	skills := make([]matchingmodel.CandidateSkill, 0, len(matrix.Skills))
	for _, s := range matrix.Skills {
		skills = append(skills, matchingmodel.CandidateSkill{
			Name:              s.Name,
			Level:             s.Level,
			YearsOfExperience: s.YearsOfExperience,
		})
	}

	return &matchingmodel.CandidateInput{
		Headline:             headline,
		Roles:                candidate.Roles,
		Domains:              matrix.Domains,
		TotalYearsExperience: matrix.TotalYearsExperience,
		Skills:               skills,
		CurrentCountry:       country,
		WillingToRelocate:    matrix.LocationSignals.WillingToRelocate,
		PreferredLocations:   matrix.LocationSignals.PreferredLocations,
	}
}

func toJobInput(job *jobsmodel.Job, matrix *matricesmodel.JobMatrix) matchingmodel.JobInput {
	required := make([]matchingmodel.WeightedSkill, 0, len(matrix.RequiredSkills))
	for _, s := range matrix.RequiredSkills {
		required = append(required, matchingmodel.WeightedSkill{Skill: s.Skill, Weight: s.Weight})
	}
	preferred := make([]matchingmodel.WeightedSkill, 0, len(matrix.PreferredSkills))
	for _, s := range matrix.PreferredSkills {
		preferred = append(preferred, matchingmodel.WeightedSkill{Skill: s.Skill, Weight: s.Weight})
	}

	return matchingmodel.JobInput{
		Title:              job.Title,
		Department:         job.Department,
		Description:        job.Description,
		Country:            job.Country,
		City:               job.City,
		LocationType:       job.LocationType,
		MinYearsExperience: float64(job.MinYearsExperience),
		SeniorityLevel:     job.SeniorityLevel,
		RequiredSkills:     required,
		PreferredSkills:    preferred,
		ExperienceWeight:   matrix.ExperienceWeight,
		LocationWeight:     matrix.LocationWeight,
		DomainWeight:       matrix.DomainWeight,
	}
}
