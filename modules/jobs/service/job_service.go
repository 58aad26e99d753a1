package service

import (
	"context"
	"strings"

	"github.com/andreypavlenko/matchcore/internal/platform/llm"
	"github.com/andreypavlenko/matchcore/internal/platform/logger"
	"github.com/andreypavlenko/matchcore/internal/platform/textextract"
	"github.com/andreypavlenko/matchcore/modules/jobs/model"
	"github.com/andreypavlenko/matchcore/modules/jobs/ports"
	matricesmodel "github.com/andreypavlenko/matchcore/modules/matrices/model"
)

// jobPostingExtractor is the subset of the LLM adapter needed to turn free
// text into structured job posting fields (extract_job_info_from_posting).
type jobPostingExtractor interface {
	ExtractJobInfoFromPosting(ctx context.Context, text string) (llm.JobPostingInfo, error)
}

// jobMatrixBuilder is the subset of the C5 builder this service depends on.
type jobMatrixBuilder interface {
	Build(ctx context.Context, jobID, title, description string, mustHave, niceToHave []string) (*matricesmodel.JobMatrix, error)
}

// jobFanOut is the subset of C8 fan-out triggered when a job is published.
type jobFanOut interface {
	OnJobMatrixReady(ctx context.Context, jobID string) error
}

// JobService handles job business logic: CRUD plus the publish-time
// matrix-build-then-fan-out sequence.
type JobService struct {
	repo      ports.JobRepository
	extractor jobPostingExtractor
	matrixSvc jobMatrixBuilder
	fanout    jobFanOut
	logger    *logger.Logger
}

// NewJobService constructs a JobService.
func NewJobService(repo ports.JobRepository, extractor jobPostingExtractor, matrixSvc jobMatrixBuilder, fanout jobFanOut, log *logger.Logger) *JobService {
	return &JobService{repo: repo, extractor: extractor, matrixSvc: matrixSvc, fanout: fanout, logger: log}
}

// Create creates a new job from explicit fields. If req.Status is
// "published" the job matrix is generated and the fan-out runs.
func (s *JobService) Create(ctx context.Context, req *model.CreateJobRequest) (*model.JobDTO, error) {
	job, err := newJobFromCreateRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	if job.Status == model.StatusPublished {
		s.publishAsync(job.ID, job.Title, job.Description, job.MustHaveSkills, job.NiceToHaveSkills)
	}

	return job.ToDTO(), nil
}

// CreateFromPostingText ingests a job posting already reduced to plain
// text (via URL fetch or PDF extraction upstream) and creates the job.
func (s *JobService) CreateFromPostingText(ctx context.Context, text, status string) (*model.JobDTO, error) {
	info, err := s.extractor.ExtractJobInfoFromPosting(ctx, text)
	if err != nil {
		return nil, err
	}

	req := &model.CreateJobRequest{
		Title:              info.Title,
		Department:         derefOr(info.Department, ""),
		Company:            info.Company,
		LocationType:       info.LocationType,
		Country:            info.CountryCode,
		City:               info.City,
		Description:        info.Description,
		MustHaveSkills:     info.MustHaveSkills,
		NiceToHaveSkills:   info.NiceToHaveSkills,
		MinYearsExperience: info.MinYearsExperience,
		SeniorityLevel:     info.SeniorityLevel,
		Status:             status,
	}

	return s.Create(ctx, req)
}

// CreateFromURL fetches and extracts a remote posting then creates the job.
func (s *JobService) CreateFromURL(ctx context.Context, url, status string) (*model.JobDTO, error) {
	text, err := textextract.FetchAndExtractHTML(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.CreateFromPostingText(ctx, text, status)
}

// CreateFromPdf extracts a posting from an uploaded PDF then creates the job.
func (s *JobService) CreateFromPdf(ctx context.Context, pdfPath, status string) (*model.JobDTO, error) {
	text, err := textextract.ExtractFromPdf(pdfPath)
	if err != nil {
		return nil, err
	}
	return s.CreateFromPostingText(ctx, text, status)
}

// GetByID retrieves a job by ID.
func (s *JobService) GetByID(ctx context.Context, jobID string) (*model.JobDTO, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return job.ToDTO(), nil
}

// List retrieves jobs with pagination and an optional status filter.
func (s *JobService) List(ctx context.Context, limit, offset int, status string) ([]*model.JobDTO, int, error) {
	return s.repo.List(ctx, limit, offset, status)
}

// Update updates a job. Publishing a previously-unpublished job triggers
// matrix build + fan-out.
func (s *JobService) Update(ctx context.Context, jobID string, req *model.UpdateJobRequest) (*model.JobDTO, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	wasPublished := job.Status == model.StatusPublished
	applyUpdateRequest(job, req)

	if err := validateJob(job); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	if !wasPublished && job.Status == model.StatusPublished {
		s.publishAsync(job.ID, job.Title, job.Description, job.MustHaveSkills, job.NiceToHaveSkills)
	}

	return job.ToDTO(), nil
}

// Delete deletes a job.
func (s *JobService) Delete(ctx context.Context, jobID string) error {
	return s.repo.Delete(ctx, jobID)
}

// publishAsync runs matrix build + fan-out in the background: failures
// update nothing on the synchronous path, matching the ingestion pipeline's
// detached-background-task policy for matrix generation.
func (s *JobService) publishAsync(jobID, title, description string, mustHave, niceToHave []string) {
	go func() {
		ctx := context.Background()
		if _, err := s.matrixSvc.Build(ctx, jobID, title, description, mustHave, niceToHave); err != nil {
			s.logger.WithError("JOB_MATRIX_BUILD_FAILED").Warn("job matrix build failed after publish")
			return
		}
		if err := s.fanout.OnJobMatrixReady(ctx, jobID); err != nil {
			s.logger.WithError("JOB_FANOUT_FAILED").Warn("job fan-out failed after publish")
		}
	}()
}

func newJobFromCreateRequest(req *model.CreateJobRequest) (*model.Job, error) {
	job := &model.Job{
		CompanyID:          req.CompanyID,
		Title:              strings.TrimSpace(req.Title),
		Department:         req.Department,
		Company:            req.Company,
		LocationType:       req.LocationType,
		Country:            req.Country,
		City:               req.City,
		Description:        req.Description,
		MustHaveSkills:     req.MustHaveSkills,
		NiceToHaveSkills:   req.NiceToHaveSkills,
		MinYearsExperience: req.MinYearsExperience,
		SeniorityLevel:     req.SeniorityLevel,
		Status:             req.Status,
		Deadline:           req.Deadline,
	}
	if job.Status == "" {
		job.Status = model.StatusDraft
	}

	if err := validateJob(job); err != nil {
		return nil, err
	}
	return job, nil
}

func applyUpdateRequest(job *model.Job, req *model.UpdateJobRequest) {
	if req.CompanyID != nil {
		job.CompanyID = req.CompanyID
	}
	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Department != nil {
		job.Department = *req.Department
	}
	if req.Company != nil {
		job.Company = req.Company
	}
	if req.LocationType != nil {
		job.LocationType = *req.LocationType
	}
	if req.Country != nil {
		job.Country = *req.Country
	}
	if req.City != nil {
		job.City = *req.City
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.MustHaveSkills != nil {
		job.MustHaveSkills = req.MustHaveSkills
	}
	if req.NiceToHaveSkills != nil {
		job.NiceToHaveSkills = req.NiceToHaveSkills
	}
	if req.MinYearsExperience != nil {
		job.MinYearsExperience = *req.MinYearsExperience
	}
	if req.SeniorityLevel != nil {
		job.SeniorityLevel = *req.SeniorityLevel
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	if req.Deadline != nil {
		job.Deadline = req.Deadline
	}
}

func validateJob(job *model.Job) error {
	if job.Title == "" {
		return model.ErrJobTitleRequired
	}
	if len(job.Description) < 50 {
		return model.ErrDescriptionTooShort
	}
	switch job.LocationType {
	case model.LocationOnsite, model.LocationHybrid, model.LocationRemote:
	default:
		return model.ErrInvalidLocationType
	}
	switch job.SeniorityLevel {
	case model.SeniorityJunior, model.SeniorityMid, model.SenioritySenior, model.SeniorityLead, model.SeniorityPrincipal:
	default:
		return model.ErrInvalidSeniorityLevel
	}
	if job.MinYearsExperience < 0 || job.MinYearsExperience > 20 {
		return model.ErrInvalidMinYearsExperience
	}
	switch job.Status {
	case model.StatusDraft, model.StatusPublished, model.StatusClosed:
	default:
		return model.ErrInvalidJobStatus
	}
	return nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
