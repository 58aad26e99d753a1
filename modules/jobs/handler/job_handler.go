package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	httpPlatform "github.com/andreypavlenko/matchcore/internal/platform/http"
	"github.com/andreypavlenko/matchcore/modules/jobs/model"
	"github.com/andreypavlenko/matchcore/modules/jobs/service"
	matricesmodel "github.com/andreypavlenko/matchcore/modules/matrices/model"
	matricesports "github.com/andreypavlenko/matchcore/modules/matrices/ports"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// jobMatrixRegenerator is the subset of the C5 builder needed to regenerate
// a job's matrix on demand.
type jobMatrixRegenerator interface {
	Build(ctx context.Context, jobID, title, description string, mustHave, niceToHave []string) (*matricesmodel.JobMatrix, error)
}

// JobHandler handles job HTTP requests.
type JobHandler struct {
	service     *service.JobService
	uploadDir   string
	matrixRepo  matricesports.JobMatrixRepository
	matrixBuild jobMatrixRegenerator
}

// NewJobHandler creates a new job handler. uploadDir is where from-pdf
// uploads are staged before text extraction. matrixRepo/matrixBuild back
// the /jobs/{id}/matrix inspect, edit, and regenerate endpoints.
func NewJobHandler(svc *service.JobService, uploadDir string, matrixRepo matricesports.JobMatrixRepository, matrixBuild jobMatrixRegenerator) *JobHandler {
	return &JobHandler{service: svc, uploadDir: uploadDir, matrixRepo: matrixRepo, matrixBuild: matrixBuild}
}

// Create godoc
// @Summary Create a new job
// @Description Create a job posting from explicit fields; publishing triggers matrix build and fan-out
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body model.CreateJobRequest true "Job details"
// @Success 201 {object} model.JobDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 500 {object} httpPlatform.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req model.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	job, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, job)
}

// FromURL godoc
// @Summary Ingest a job posting from a URL
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body model.FromURLRequest true "Posting URL"
// @Success 201 {object} model.JobDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 502 {object} httpPlatform.ErrorResponse
// @Router /jobs/from-url [post]
func (h *JobHandler) FromURL(c *gin.Context) {
	var req model.FromURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	job, err := h.service.CreateFromURL(c.Request.Context(), req.URL, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, job)
}

// FromPdf godoc
// @Summary Ingest a job posting from an uploaded PDF
// @Tags jobs
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Job posting PDF"
// @Param status formData string false "Initial status"
// @Success 201 {object} model.JobDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 502 {object} httpPlatform.ErrorResponse
// @Router /jobs/from-pdf [post]
func (h *JobHandler) FromPdf(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing file field")
		return
	}

	path, err := h.stageUpload(fileHeader)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not stage upload")
		return
	}
	defer os.Remove(path)

	status := c.PostForm("status")
	job, err := h.service.CreateFromPdf(c.Request.Context(), path, status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, job)
}

func (h *JobHandler) stageUpload(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(h.uploadDir, uuid.New().String()+".pdf")
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Get godoc
// @Summary Get a job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} model.JobDTO
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, job)
}

// List godoc
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Param limit query int false "Number of items per page"
// @Param offset query int false "Number of items to skip"
// @Param status query string false "Filter by status: draft, published, closed, all"
// @Success 200 {object} httpPlatform.PaginatedResponse{items=[]model.JobDTO}
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	pagination, err := httpPlatform.ParsePaginationParams(c)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "INVALID_PAGINATION_PARAMS", "Invalid pagination parameters")
		return
	}

	status := c.Query("status")
	jobs, total, err := h.service.List(c.Request.Context(), pagination.Limit, pagination.Offset, status)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list jobs")
		return
	}

	httpPlatform.RespondWithPagination(c, http.StatusOK, jobs, pagination.Limit, pagination.Offset, total)
}

// Update godoc
// @Summary Update a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body model.UpdateJobRequest true "Updated fields"
// @Success 200 {object} model.JobDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /jobs/{id} [patch]
func (h *JobHandler) Update(c *gin.Context) {
	var req model.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	job, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, job)
}

// Delete godoc
// @Summary Delete a job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

// GetMatrix godoc
// @Summary Inspect a job's requirements matrix
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} matricesmodel.JobMatrix
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /jobs/{id}/matrix [get]
func (h *JobHandler) GetMatrix(c *gin.Context) {
	matrix, err := h.matrixRepo.GetByJobID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondMatrixError(c, err)
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, matrix)
}

type putMatrixRequest struct {
	RequiredSkills   []matricesmodel.WeightedSkill `json:"required_skills"`
	PreferredSkills  []matricesmodel.WeightedSkill `json:"preferred_skills"`
	ExperienceWeight int                           `json:"experience_weight"`
	LocationWeight   int                           `json:"location_weight"`
	DomainWeight     int                           `json:"domain_weight"`
}

// PutMatrix godoc
// @Summary Manually edit a job's requirements matrix
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body putMatrixRequest true "Matrix fields"
// @Success 200 {object} matricesmodel.JobMatrix
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /jobs/{id}/matrix [put]
func (h *JobHandler) PutMatrix(c *gin.Context) {
	jobID := c.Param("id")
	existing, err := h.matrixRepo.GetByJobID(c.Request.Context(), jobID)
	if err != nil {
		h.respondMatrixError(c, err)
		return
	}

	var req putMatrixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	existing.RequiredSkills = req.RequiredSkills
	existing.PreferredSkills = req.PreferredSkills
	existing.ExperienceWeight = req.ExperienceWeight
	existing.LocationWeight = req.LocationWeight
	existing.DomainWeight = req.DomainWeight

	if existing.SkillsWeight() <= 0 {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, string(matricesmodel.CodeInvalidWeights), matricesmodel.GetErrorMessage(matricesmodel.ErrInvalidWeights))
		return
	}

	if err := h.matrixRepo.Upsert(c.Request.Context(), existing); err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save job matrix")
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, existing)
}

// RegenMatrix godoc
// @Summary Regenerate a job's requirements matrix via the LLM
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} matricesmodel.JobMatrix
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Failure 502 {object} httpPlatform.ErrorResponse
// @Router /jobs/{id}/matrix [post]
func (h *JobHandler) RegenMatrix(c *gin.Context) {
	job, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	matrix, err := h.matrixBuild.Build(c.Request.Context(), job.ID, job.Title, job.Description, job.MustHaveSkills, job.NiceToHaveSkills)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadGateway, string(matricesmodel.CodeMatrixGenerationFailed), matricesmodel.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, matrix)
}

func (h *JobHandler) respondMatrixError(c *gin.Context, err error) {
	code := matricesmodel.GetErrorCode(err)
	status := http.StatusInternalServerError
	if code == matricesmodel.CodeJobMatrixNotFound {
		status = http.StatusNotFound
	}
	httpPlatform.RespondWithError(c, status, string(code), matricesmodel.GetErrorMessage(err))
}

func (h *JobHandler) respondError(c *gin.Context, err error) {
	errorCode := model.GetErrorCode(err)
	errorMessage := model.GetErrorMessage(err)

	statusCode := http.StatusInternalServerError
	switch errorCode {
	case model.CodeJobNotFound:
		statusCode = http.StatusNotFound
	case model.CodeJobTitleRequired, model.CodeDescriptionTooShort, model.CodeInvalidLocationType,
		model.CodeInvalidSeniorityLevel, model.CodeInvalidMinYearsExperience, model.CodeInvalidJobStatus:
		statusCode = http.StatusBadRequest
	}

	httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
}

// RegisterRoutes registers job routes.
func (h *JobHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	jobs := router.Group("/jobs")
	jobs.Use(authMiddleware)
	{
		jobs.POST("", h.Create)
		jobs.POST("/from-url", h.FromURL)
		jobs.POST("/from-pdf", h.FromPdf)
		jobs.GET("", h.List)
		jobs.GET("/:id", h.Get)
		jobs.PATCH("/:id", h.Update)
		jobs.DELETE("/:id", h.Delete)
		jobs.GET("/:id/matrix", h.GetMatrix)
		jobs.PUT("/:id/matrix", h.PutMatrix)
		jobs.POST("/:id/matrix", h.RegenMatrix)
	}
}
