package handler

import (
	"io"
	"net/http"

	httpPlatform "github.com/andreypavlenko/matchcore/internal/platform/http"
	"github.com/andreypavlenko/matchcore/modules/ingestion/service"
	"github.com/gin-gonic/gin"
)

// IngestionHandler exposes the C6 ingestion pipeline over HTTP.
type IngestionHandler struct {
	ingestor *service.Ingestor
}

// NewIngestionHandler creates a new ingestion handler.
func NewIngestionHandler(ingestor *service.Ingestor) *IngestionHandler {
	return &IngestionHandler{ingestor: ingestor}
}

// Upload godoc
// @Summary Upload a batch of CVs
// @Description Ingest one or more PDF CVs: extract, dedupe, persist candidate + cv file, and schedule matrix generation in the background
// @Tags cvs
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "CV PDF files" collectionFormat(multi)
// @Param batch_tag formData string false "Optional tag applied to every file in this batch"
// @Success 200 {object} model.BatchResult
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Router /cvs/upload [post]
func (h *IngestionHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Expected multipart/form-data")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No files provided")
		return
	}

	var batchTag *string
	if tag := c.PostForm("batch_tag"); tag != "" {
		batchTag = &tag
	}

	files := make([]service.UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		src, err := fh.Open()
		if err != nil {
			httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Could not open uploaded file "+fh.Filename)
			return
		}
		bytes, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Could not read uploaded file "+fh.Filename)
			return
		}
		files = append(files, service.UploadFile{Filename: fh.Filename, Bytes: bytes, BatchTag: batchTag})
	}

	result := h.ingestor.IngestBatch(c.Request.Context(), files)
	httpPlatform.RespondWithData(c, http.StatusOK, result)
}

// RegisterRoutes registers ingestion routes under the given router group.
func (h *IngestionHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	cvs := router.Group("/cvs")
	cvs.Use(authMiddleware)
	{
		cvs.POST("/upload", h.Upload)
	}
}
