package handler

import (
	"net/http"

	httpPlatform "github.com/andreypavlenko/matchcore/internal/platform/http"
	"github.com/andreypavlenko/matchcore/modules/bulk/model"
	"github.com/andreypavlenko/matchcore/modules/bulk/service"
	"github.com/gin-gonic/gin"
)

// BulkHandler exposes the C9 bulk orchestrator over HTTP.
type BulkHandler struct {
	orchestrator *service.Orchestrator
}

// NewBulkHandler creates a new bulk operations handler.
func NewBulkHandler(orchestrator *service.Orchestrator) *BulkHandler {
	return &BulkHandler{orchestrator: orchestrator}
}

type startRequest struct {
	OnlyMissing bool `json:"only_missing"`
}

// RegenerateMatrices godoc
// @Summary Start a regenerate-matrices bulk job
// @Tags bulk-operations
// @Accept json
// @Produce json
// @Param request body startRequest false "Restrict to candidates lacking a matrix"
// @Success 202 {object} model.BulkJobDTO
// @Failure 409 {object} httpPlatform.ErrorResponse
// @Router /bulk-operations/regenerate-matrices [post]
func (h *BulkHandler) RegenerateMatrices(c *gin.Context) {
	h.start(c, model.OperationRegenerateMatrices)
}

// RerunMatching godoc
// @Summary Start a rerun-matching bulk job
// @Tags bulk-operations
// @Produce json
// @Success 202 {object} model.BulkJobDTO
// @Failure 409 {object} httpPlatform.ErrorResponse
// @Router /bulk-operations/rerun-matching [post]
func (h *BulkHandler) RerunMatching(c *gin.Context) {
	h.start(c, model.OperationRerunMatching)
}

// RegenerateAndMatch godoc
// @Summary Start a regenerate-and-match bulk job
// @Tags bulk-operations
// @Accept json
// @Produce json
// @Param request body startRequest false "Restrict step 1 to candidates lacking a matrix"
// @Success 202 {object} model.BulkJobDTO
// @Failure 409 {object} httpPlatform.ErrorResponse
// @Router /bulk-operations/regenerate-and-match [post]
func (h *BulkHandler) RegenerateAndMatch(c *gin.Context) {
	h.start(c, model.OperationRegenerateAndMatch)
}

func (h *BulkHandler) start(c *gin.Context, op model.Operation) {
	var req startRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
			return
		}
	}

	job, err := h.orchestrator.Start(c.Request.Context(), op, req.OnlyMissing)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpPlatform.RespondWithData(c, http.StatusAccepted, job)
}

// Status godoc
// @Summary Poll a bulk job's progress snapshot
// @Tags bulk-operations
// @Produce json
// @Param job_id path string true "Bulk job ID"
// @Success 200 {object} model.BulkJobDTO
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /bulk-operations/{job_id} [get]
func (h *BulkHandler) Status(c *gin.Context) {
	job, err := h.orchestrator.Get(c.Param("job_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, job)
}

// Cancel godoc
// @Summary Cancel a running bulk job
// @Tags bulk-operations
// @Produce json
// @Param job_id path string true "Bulk job ID"
// @Success 200 {object} model.BulkJobDTO
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /bulk-operations/{job_id}/cancel [post]
func (h *BulkHandler) Cancel(c *gin.Context) {
	job, err := h.orchestrator.Cancel(c.Param("job_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, job)
}

func (h *BulkHandler) respondError(c *gin.Context, err error) {
	errorCode := model.GetErrorCode(err)
	errorMessage := model.GetErrorMessage(err)

	statusCode := http.StatusInternalServerError
	switch errorCode {
	case model.CodeBulkJobNotFound:
		statusCode = http.StatusNotFound
	case model.CodeBulkJobConflict:
		statusCode = http.StatusConflict
	}

	httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
}

// RegisterRoutes registers bulk operation routes.
func (h *BulkHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	bulk := router.Group("/bulk-operations")
	bulk.Use(authMiddleware)
	{
		bulk.POST("/regenerate-matrices", h.RegenerateMatrices)
		bulk.POST("/rerun-matching", h.RerunMatching)
		bulk.POST("/regenerate-and-match", h.RegenerateAndMatch)
		bulk.GET("/:job_id", h.Status)
		bulk.POST("/:job_id/cancel", h.Cancel)
	}
}
