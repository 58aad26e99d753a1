package service

import (
	"context"
	"sync"
	"testing"

	"github.com/andreypavlenko/matchcore/internal/platform/logger"
	candidatesmodel "github.com/andreypavlenko/matchcore/modules/candidates/model"
	jobsmodel "github.com/andreypavlenko/matchcore/modules/jobs/model"
	matchingmodel "github.com/andreypavlenko/matchcore/modules/matching/model"
	matricesmodel "github.com/andreypavlenko/matchcore/modules/matrices/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCandidateRepository struct {
	GetByIDFunc func(ctx context.Context, id string) (*candidatesmodel.Candidate, error)
}

func (m *mockCandidateRepository) Create(ctx context.Context, c *candidatesmodel.Candidate) error {
	return nil
}
func (m *mockCandidateRepository) GetByID(ctx context.Context, id string) (*candidatesmodel.Candidate, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, candidatesmodel.ErrCandidateNotFound
}
func (m *mockCandidateRepository) FindByEmail(ctx context.Context, email string) (*candidatesmodel.Candidate, error) {
	return nil, candidatesmodel.ErrCandidateNotFound
}
func (m *mockCandidateRepository) List(ctx context.Context, limit, offset int) ([]*candidatesmodel.Candidate, int, error) {
	return nil, 0, nil
}
func (m *mockCandidateRepository) ListIDsWithMatrix(ctx context.Context) ([]string, error) {
	return nil, nil
}
func (m *mockCandidateRepository) Update(ctx context.Context, c *candidatesmodel.Candidate) error {
	return nil
}
func (m *mockCandidateRepository) Delete(ctx context.Context, id string) error { return nil }

type mockFanoutJobRepository struct {
	GetByIDFunc          func(ctx context.Context, id string) (*jobsmodel.Job, error)
	ListPublishedIDsFunc func(ctx context.Context) ([]string, error)
}

func (m *mockFanoutJobRepository) Create(ctx context.Context, j *jobsmodel.Job) error { return nil }
func (m *mockFanoutJobRepository) GetByID(ctx context.Context, id string) (*jobsmodel.Job, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, jobsmodel.ErrJobNotFound
}
func (m *mockFanoutJobRepository) List(ctx context.Context, limit, offset int, status string) ([]*jobsmodel.JobDTO, int, error) {
	return nil, 0, nil
}
func (m *mockFanoutJobRepository) ListPublishedIDs(ctx context.Context) ([]string, error) {
	if m.ListPublishedIDsFunc != nil {
		return m.ListPublishedIDsFunc(ctx)
	}
	return nil, nil
}
func (m *mockFanoutJobRepository) Update(ctx context.Context, j *jobsmodel.Job) error { return nil }
func (m *mockFanoutJobRepository) Delete(ctx context.Context, id string) error        { return nil }

type mockCandidateMatrixRepository struct {
	GetByCandidateIDFunc        func(ctx context.Context, candidateID string) (*matricesmodel.CandidateMatrix, error)
	ListAllWithCandidateIDsFunc func(ctx context.Context) ([]*matricesmodel.CandidateMatrix, error)
}

func (m *mockCandidateMatrixRepository) Upsert(ctx context.Context, matrix *matricesmodel.CandidateMatrix) error {
	return nil
}
func (m *mockCandidateMatrixRepository) GetByCandidateID(ctx context.Context, candidateID string) (*matricesmodel.CandidateMatrix, error) {
	if m.GetByCandidateIDFunc != nil {
		return m.GetByCandidateIDFunc(ctx, candidateID)
	}
	return nil, matricesmodel.ErrCandidateMatrixNotFound
}
func (m *mockCandidateMatrixRepository) ListAllWithCandidateIDs(ctx context.Context) ([]*matricesmodel.CandidateMatrix, error) {
	if m.ListAllWithCandidateIDsFunc != nil {
		return m.ListAllWithCandidateIDsFunc(ctx)
	}
	return nil, nil
}

type mockJobMatrixRepository struct {
	GetByJobIDFunc func(ctx context.Context, jobID string) (*matricesmodel.JobMatrix, error)
}

func (m *mockJobMatrixRepository) Upsert(ctx context.Context, matrix *matricesmodel.JobMatrix) error {
	return nil
}
func (m *mockJobMatrixRepository) GetByJobID(ctx context.Context, jobID string) (*matricesmodel.JobMatrix, error) {
	if m.GetByJobIDFunc != nil {
		return m.GetByJobIDFunc(ctx, jobID)
	}
	return nil, matricesmodel.ErrJobMatrixNotFound
}
func (m *mockJobMatrixRepository) ListAllWithJobIDs(ctx context.Context) ([]*matricesmodel.JobMatrix, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func testFanoutLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func TestFanOut_OnCandidateMatrixReady(t *testing.T) {
	candidate := &candidatesmodel.Candidate{ID: "cand-1", Headline: strPtr("Engineer"), Country: strPtr("US")}
	matrix := &matricesmodel.CandidateMatrix{
		CandidateID:          "cand-1",
		TotalYearsExperience: 5,
		Skills:               []matricesmodel.CandidateSkill{{Name: "go", Level: "expert", YearsOfExperience: 5}},
	}
	job := &jobsmodel.Job{ID: "job-1", Title: "Backend Engineer", Country: "US", LocationType: "remote", MinYearsExperience: 3, SeniorityLevel: "mid"}
	jobMatrix := &matricesmodel.JobMatrix{JobID: "job-1", RequiredSkills: []matricesmodel.WeightedSkill{{Skill: "go", Weight: 60}}}

	var mu sync.Mutex
	var upsertedPairs []string
	matchSvc := NewMatchService(&mockMatchRepository{
		UpsertFunc: func(ctx context.Context, m *matchingmodel.Match) error {
			mu.Lock()
			defer mu.Unlock()
			upsertedPairs = append(upsertedPairs, m.CandidateID+"/"+m.JobID)
			return nil
		},
	})

	candidateRepo := &mockCandidateRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*candidatesmodel.Candidate, error) { return candidate, nil },
	}
	jobRepo := &mockFanoutJobRepository{
		GetByIDFunc:          func(ctx context.Context, id string) (*jobsmodel.Job, error) { return job, nil },
		ListPublishedIDsFunc: func(ctx context.Context) ([]string, error) { return []string{"job-1"}, nil },
	}
	candidateMatrixRepo := &mockCandidateMatrixRepository{
		GetByCandidateIDFunc: func(ctx context.Context, candidateID string) (*matricesmodel.CandidateMatrix, error) {
			return matrix, nil
		},
	}
	jobMatrixRepo := &mockJobMatrixRepository{
		GetByJobIDFunc: func(ctx context.Context, jobID string) (*matricesmodel.JobMatrix, error) { return jobMatrix, nil },
	}

	fanout := NewFanOut(matchSvc, candidateRepo, jobRepo, candidateMatrixRepo, jobMatrixRepo, 2, testFanoutLogger(t))

	err := fanout.OnCandidateMatrixReady(context.Background(), "cand-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"cand-1/job-1"}, upsertedPairs)
}

func TestFanOut_OnJobMatrixReady(t *testing.T) {
	candidate := &candidatesmodel.Candidate{ID: "cand-1", Headline: strPtr("Engineer"), Country: strPtr("US")}
	matrix := &matricesmodel.CandidateMatrix{
		CandidateID:          "cand-1",
		TotalYearsExperience: 5,
		Skills:               []matricesmodel.CandidateSkill{{Name: "go", Level: "expert", YearsOfExperience: 5}},
	}
	job := &jobsmodel.Job{ID: "job-1", Title: "Backend Engineer", Country: "US", LocationType: "remote", MinYearsExperience: 3, SeniorityLevel: "mid"}
	jobMatrix := &matricesmodel.JobMatrix{JobID: "job-1", RequiredSkills: []matricesmodel.WeightedSkill{{Skill: "go", Weight: 60}}}

	var mu sync.Mutex
	var upsertedPairs []string
	matchSvc := NewMatchService(&mockMatchRepository{
		UpsertFunc: func(ctx context.Context, m *matchingmodel.Match) error {
			mu.Lock()
			defer mu.Unlock()
			upsertedPairs = append(upsertedPairs, m.CandidateID+"/"+m.JobID)
			return nil
		},
	})

	candidateRepo := &mockCandidateRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*candidatesmodel.Candidate, error) { return candidate, nil },
	}
	jobRepo := &mockFanoutJobRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*jobsmodel.Job, error) { return job, nil },
	}
	candidateMatrixRepo := &mockCandidateMatrixRepository{
		ListAllWithCandidateIDsFunc: func(ctx context.Context) ([]*matricesmodel.CandidateMatrix, error) {
			return []*matricesmodel.CandidateMatrix{matrix}, nil
		},
	}
	jobMatrixRepo := &mockJobMatrixRepository{
		GetByJobIDFunc: func(ctx context.Context, jobID string) (*matricesmodel.JobMatrix, error) { return jobMatrix, nil },
	}

	fanout := NewFanOut(matchSvc, candidateRepo, jobRepo, candidateMatrixRepo, jobMatrixRepo, 2, testFanoutLogger(t))

	err := fanout.OnJobMatrixReady(context.Background(), "job-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"cand-1/job-1"}, upsertedPairs)
}

func TestFanOut_OnJobMatrixReady_IsolatesPerPairFailures(t *testing.T) {
	job := &jobsmodel.Job{ID: "job-1", Title: "Backend Engineer", Country: "US", LocationType: "remote", SeniorityLevel: "mid"}
	jobMatrix := &matricesmodel.JobMatrix{JobID: "job-1", RequiredSkills: []matricesmodel.WeightedSkill{{Skill: "go", Weight: 60}}}
	matrixOK := &matricesmodel.CandidateMatrix{
		CandidateID: "cand-ok", TotalYearsExperience: 5,
		Skills: []matricesmodel.CandidateSkill{{Name: "go", Level: "expert", YearsOfExperience: 5}},
	}
	matrixBroken := &matricesmodel.CandidateMatrix{CandidateID: "cand-broken"}

	matchSvc := NewMatchService(&mockMatchRepository{
		UpsertFunc: func(ctx context.Context, m *matchingmodel.Match) error { return nil },
	})

	candidateRepo := &mockCandidateRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*candidatesmodel.Candidate, error) {
			if id == "cand-broken" {
				return nil, candidatesmodel.ErrCandidateNotFound
			}
			return &candidatesmodel.Candidate{ID: id}, nil
		},
	}
	jobRepo := &mockFanoutJobRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*jobsmodel.Job, error) { return job, nil },
	}
	candidateMatrixRepo := &mockCandidateMatrixRepository{
		ListAllWithCandidateIDsFunc: func(ctx context.Context) ([]*matricesmodel.CandidateMatrix, error) {
			return []*matricesmodel.CandidateMatrix{matrixBroken, matrixOK}, nil
		},
	}
	jobMatrixRepo := &mockJobMatrixRepository{
		GetByJobIDFunc: func(ctx context.Context, jobID string) (*matricesmodel.JobMatrix, error) { return jobMatrix, nil },
	}

	fanout := NewFanOut(matchSvc, candidateRepo, jobRepo, candidateMatrixRepo, jobMatrixRepo, 2, testFanoutLogger(t))

	err := fanout.OnJobMatrixReady(context.Background(), "job-1")

	require.NoError(t, err)
}
