// Package handler exposes the Candidate aggregate over HTTP.
package handler

import (
	"context"
	"net/http"

	httpPlatform "github.com/andreypavlenko/matchcore/internal/platform/http"
	"github.com/andreypavlenko/matchcore/modules/candidates/model"
	"github.com/andreypavlenko/matchcore/modules/candidates/service"
	cvfilesmodel "github.com/andreypavlenko/matchcore/modules/cvfiles/model"
	matricesmodel "github.com/andreypavlenko/matchcore/modules/matrices/model"
	"github.com/gin-gonic/gin"
)

// cvFileLatestGetter is the subset of CV file persistence needed to find
// the newest upload for a candidate ahead of a matrix regen. It reads the
// raw record (not the DTO) since FilePath is required by the matrix
// builder and never exposed over the wire.
type cvFileLatestGetter interface {
	GetLatestForCandidate(ctx context.Context, candidateID string) (*cvfilesmodel.CvFile, error)
}

// candidateMatrixRegenerator is the subset of the C4 builder this handler
// depends on.
type candidateMatrixRegenerator interface {
	Build(ctx context.Context, candidateID, cvFileID, cvPath string) (*matricesmodel.CandidateMatrix, error)
}

// candidateFanOut is the subset of C8 fan-out triggered by rerun-matching.
type candidateFanOut interface {
	OnCandidateMatrixReady(ctx context.Context, candidateID string) error
}

// CandidateHandler handles candidate HTTP requests.
type CandidateHandler struct {
	service  *service.CandidateService
	cvFiles  cvFileLatestGetter
	matrixes candidateMatrixRegenerator
	fanout   candidateFanOut
}

// NewCandidateHandler creates a new candidate handler.
func NewCandidateHandler(svc *service.CandidateService, cvFiles cvFileLatestGetter, matrixBuild candidateMatrixRegenerator, fanout candidateFanOut) *CandidateHandler {
	return &CandidateHandler{service: svc, cvFiles: cvFiles, matrixes: matrixBuild, fanout: fanout}
}

// Get godoc
// @Summary Get a candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} model.CandidateDTO
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /candidates/{id} [get]
func (h *CandidateHandler) Get(c *gin.Context) {
	candidate, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if candidate == nil {
		h.respondError(c, model.ErrCandidateNotFound)
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, candidate.ToDTO())
}

// List godoc
// @Summary List candidates
// @Tags candidates
// @Produce json
// @Param limit query int false "Number of items per page"
// @Param offset query int false "Number of items to skip"
// @Success 200 {object} httpPlatform.PaginatedResponse{items=[]model.CandidateDTO}
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Router /candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	pagination, err := httpPlatform.ParsePaginationParams(c)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "INVALID_PAGINATION_PARAMS", "Invalid pagination parameters")
		return
	}

	candidates, total, err := h.service.List(c.Request.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list candidates")
		return
	}

	dtos := make([]*model.CandidateDTO, len(candidates))
	for i, cand := range candidates {
		dtos[i] = cand.ToDTO()
	}
	httpPlatform.RespondWithPagination(c, http.StatusOK, dtos, pagination.Limit, pagination.Offset, total)
}

// Delete godoc
// @Summary Delete a candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{"message": "Candidate deleted successfully"})
}

type rerunMatchingRequest struct {
	RegenerateMatrix bool `json:"regenerate_matrix"`
}

// RerunMatching godoc
// @Summary Schedule matrix regen (optional) and fan-out for one candidate
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param request body rerunMatchingRequest false "Whether to rebuild the matrix first"
// @Success 202 {object} map[string]string
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /candidates/{id}/rerun-matching [post]
func (h *CandidateHandler) RerunMatching(c *gin.Context) {
	candidateID := c.Param("id")

	var req rerunMatchingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
			return
		}
	}

	candidate, err := h.service.GetByID(c.Request.Context(), candidateID)
	if err != nil || candidate == nil {
		h.respondError(c, model.ErrCandidateNotFound)
		return
	}

	go h.runInBackground(candidateID, req.RegenerateMatrix)

	httpPlatform.RespondWithData(c, http.StatusAccepted, gin.H{"message": "Rerun scheduled"})
}

func (h *CandidateHandler) runInBackground(candidateID string, regenerate bool) {
	ctx := context.Background()

	if regenerate {
		cvFile, err := h.cvFiles.GetLatestForCandidate(ctx, candidateID)
		if err != nil {
			return
		}
		if _, err := h.matrixes.Build(ctx, candidateID, cvFile.ID, cvFile.FilePath); err != nil {
			return
		}
	}

	_ = h.fanout.OnCandidateMatrixReady(ctx, candidateID)
}

func (h *CandidateHandler) respondError(c *gin.Context, err error) {
	errorCode := model.GetErrorCode(err)
	errorMessage := model.GetErrorMessage(err)

	statusCode := http.StatusInternalServerError
	switch errorCode {
	case model.CodeCandidateNotFound:
		statusCode = http.StatusNotFound
	case model.CodeNameRequired, model.CodeEmailRequired:
		statusCode = http.StatusBadRequest
	case model.CodeEmailConflict:
		statusCode = http.StatusConflict
	}

	httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
}

// RegisterRoutes registers candidate routes.
func (h *CandidateHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	candidates := router.Group("/candidates")
	candidates.Use(authMiddleware)
	{
		candidates.GET("", h.List)
		candidates.GET("/:id", h.Get)
		candidates.DELETE("/:id", h.Delete)
		candidates.POST("/:id/rerun-matching", h.RerunMatching)
	}
}
