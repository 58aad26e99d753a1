package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andreypavlenko/matchcore/internal/platform/llm"
	"github.com/andreypavlenko/matchcore/internal/platform/logger"
	"github.com/andreypavlenko/matchcore/modules/jobs/model"
	"github.com/andreypavlenko/matchcore/modules/jobs/service"
	matricesmodel "github.com/andreypavlenko/matchcore/modules/matrices/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockJobRepository implements ports.JobRepository.
type mockJobRepository struct {
	CreateFunc           func(ctx context.Context, job *model.Job) error
	GetByIDFunc          func(ctx context.Context, jobID string) (*model.Job, error)
	ListFunc             func(ctx context.Context, limit, offset int, status string) ([]*model.JobDTO, int, error)
	ListPublishedIDsFunc func(ctx context.Context) ([]string, error)
	UpdateFunc           func(ctx context.Context, job *model.Job) error
	DeleteFunc           func(ctx context.Context, jobID string) error
}

func (m *mockJobRepository) Create(ctx context.Context, job *model.Job) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, job)
	}
	return nil
}

func (m *mockJobRepository) GetByID(ctx context.Context, jobID string) (*model.Job, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, jobID)
	}
	return nil, model.ErrJobNotFound
}

func (m *mockJobRepository) List(ctx context.Context, limit, offset int, status string) ([]*model.JobDTO, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset, status)
	}
	return nil, 0, nil
}

func (m *mockJobRepository) ListPublishedIDs(ctx context.Context) ([]string, error) {
	if m.ListPublishedIDsFunc != nil {
		return m.ListPublishedIDsFunc(ctx)
	}
	return nil, nil
}

func (m *mockJobRepository) Update(ctx context.Context, job *model.Job) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, job)
	}
	return nil
}

func (m *mockJobRepository) Delete(ctx context.Context, jobID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, jobID)
	}
	return nil
}

type noopExtractor struct{}

func (noopExtractor) ExtractJobInfoFromPosting(ctx context.Context, text string) (llm.JobPostingInfo, error) {
	return llm.JobPostingInfo{}, nil
}

type noopMatrixBuilder struct{}

func (noopMatrixBuilder) Build(ctx context.Context, jobID, title, description string, mustHave, niceToHave []string) (*matricesmodel.JobMatrix, error) {
	return &matricesmodel.JobMatrix{JobID: jobID}, nil
}

type noopFanOut struct{}

func (noopFanOut) OnJobMatrixReady(ctx context.Context, jobID string) error { return nil }

type noopJobMatrixRepo struct{}

func (noopJobMatrixRepo) Upsert(ctx context.Context, matrix *matricesmodel.JobMatrix) error {
	return nil
}
func (noopJobMatrixRepo) GetByJobID(ctx context.Context, jobID string) (*matricesmodel.JobMatrix, error) {
	return &matricesmodel.JobMatrix{JobID: jobID}, nil
}
func (noopJobMatrixRepo) ListAllWithJobIDs(ctx context.Context) ([]*matricesmodel.JobMatrix, error) {
	return nil, nil
}

func newTestService(repo *mockJobRepository) *service.JobService {
	log, _ := logger.New("error", "console")
	return service.NewJobService(repo, noopExtractor{}, noopMatrixBuilder{}, noopFanOut{}, log)
}

func newTestHandler(svc *service.JobService, uploadDir string) *JobHandler {
	return NewJobHandler(svc, uploadDir, noopJobMatrixRepo{}, noopMatrixBuilder{})
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func noopAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}

func validJobBody() string {
	return `{"title":"Backend Engineer","location_type":"remote","country":"US","description":"` +
		strings.Repeat("a", 60) + `","seniority_level":"mid"}`
}

func TestJobHandler_Create(t *testing.T) {
	t.Run("creates job successfully", func(t *testing.T) {
		repo := &mockJobRepository{
			CreateFunc: func(ctx context.Context, job *model.Job) error {
				job.ID = "job-1"
				return nil
			},
		}
		handler := newTestHandler(newTestService(repo), t.TempDir())

		router := setupTestRouter()
		router.POST("/jobs", noopAuthMiddleware(), handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/jobs", bytes.NewBufferString(validJobBody()))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response model.JobDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Backend Engineer", response.Title)
	})

	t.Run("returns 400 for invalid json", func(t *testing.T) {
		handler := newTestHandler(newTestService(&mockJobRepository{}), t.TempDir())

		router := setupTestRouter()
		router.POST("/jobs", noopAuthMiddleware(), handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/jobs", bytes.NewBufferString(`invalid json`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 400 for empty title", func(t *testing.T) {
		handler := newTestHandler(newTestService(&mockJobRepository{}), t.TempDir())

		router := setupTestRouter()
		router.POST("/jobs", noopAuthMiddleware(), handler.Create)

		body := `{"title":"   ","location_type":"remote","country":"US","description":"` +
			strings.Repeat("a", 60) + `","seniority_level":"mid"}`
		req, _ := http.NewRequest(http.MethodPost, "/jobs", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestJobHandler_Get(t *testing.T) {
	t.Run("returns job successfully", func(t *testing.T) {
		repo := &mockJobRepository{
			GetByIDFunc: func(ctx context.Context, jobID string) (*model.Job, error) {
				return &model.Job{ID: jobID, Title: "Backend Engineer", Status: model.StatusDraft}, nil
			},
		}
		handler := newTestHandler(newTestService(repo), t.TempDir())

		router := setupTestRouter()
		router.GET("/jobs/:id", noopAuthMiddleware(), handler.Get)

		req, _ := http.NewRequest(http.MethodGet, "/jobs/job-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response model.JobDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Backend Engineer", response.Title)
	})

	t.Run("returns 404 when job not found", func(t *testing.T) {
		repo := &mockJobRepository{
			GetByIDFunc: func(ctx context.Context, jobID string) (*model.Job, error) {
				return nil, model.ErrJobNotFound
			},
		}
		handler := newTestHandler(newTestService(repo), t.TempDir())

		router := setupTestRouter()
		router.GET("/jobs/:id", noopAuthMiddleware(), handler.Get)

		req, _ := http.NewRequest(http.MethodGet, "/jobs/nonexistent", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestJobHandler_List(t *testing.T) {
	repo := &mockJobRepository{
		ListFunc: func(ctx context.Context, limit, offset int, status string) ([]*model.JobDTO, int, error) {
			return []*model.JobDTO{{ID: "job-1"}, {ID: "job-2"}}, 2, nil
		},
	}
	handler := newTestHandler(newTestService(repo), t.TempDir())

	router := setupTestRouter()
	router.GET("/jobs", noopAuthMiddleware(), handler.List)

	req, _ := http.NewRequest(http.MethodGet, "/jobs?limit=20&offset=0&status=published", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJobHandler_Update(t *testing.T) {
	t.Run("updates job successfully", func(t *testing.T) {
		existing := &model.Job{
			ID: "job-1", Title: "Old Title", LocationType: model.LocationRemote,
			Country: "US", Description: strings.Repeat("a", 60),
			SeniorityLevel: model.SeniorityMid, Status: model.StatusDraft,
		}
		repo := &mockJobRepository{
			GetByIDFunc: func(ctx context.Context, jobID string) (*model.Job, error) { return existing, nil },
			UpdateFunc:  func(ctx context.Context, job *model.Job) error { return nil },
		}
		handler := newTestHandler(newTestService(repo), t.TempDir())

		router := setupTestRouter()
		router.PATCH("/jobs/:id", noopAuthMiddleware(), handler.Update)

		req, _ := http.NewRequest(http.MethodPatch, "/jobs/job-1", bytes.NewBufferString(`{"title":"New Title"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("returns 404 when job not found", func(t *testing.T) {
		repo := &mockJobRepository{
			GetByIDFunc: func(ctx context.Context, jobID string) (*model.Job, error) {
				return nil, model.ErrJobNotFound
			},
		}
		handler := newTestHandler(newTestService(repo), t.TempDir())

		router := setupTestRouter()
		router.PATCH("/jobs/:id", noopAuthMiddleware(), handler.Update)

		req, _ := http.NewRequest(http.MethodPatch, "/jobs/nonexistent", bytes.NewBufferString(`{"title":"New Title"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 for invalid status", func(t *testing.T) {
		existing := &model.Job{
			ID: "job-1", Title: "Title", LocationType: model.LocationRemote,
			Country: "US", Description: strings.Repeat("a", 60),
			SeniorityLevel: model.SeniorityMid, Status: model.StatusDraft,
		}
		repo := &mockJobRepository{
			GetByIDFunc: func(ctx context.Context, jobID string) (*model.Job, error) { return existing, nil },
		}
		handler := newTestHandler(newTestService(repo), t.TempDir())

		router := setupTestRouter()
		router.PATCH("/jobs/:id", noopAuthMiddleware(), handler.Update)

		req, _ := http.NewRequest(http.MethodPatch, "/jobs/job-1", bytes.NewBufferString(`{"status":"invalid"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestJobHandler_Delete(t *testing.T) {
	t.Run("deletes job successfully", func(t *testing.T) {
		repo := &mockJobRepository{
			DeleteFunc: func(ctx context.Context, jobID string) error { return nil },
		}
		handler := newTestHandler(newTestService(repo), t.TempDir())

		router := setupTestRouter()
		router.DELETE("/jobs/:id", noopAuthMiddleware(), handler.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/jobs/job-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("returns 404 when job not found", func(t *testing.T) {
		repo := &mockJobRepository{
			DeleteFunc: func(ctx context.Context, jobID string) error { return model.ErrJobNotFound },
		}
		handler := newTestHandler(newTestService(repo), t.TempDir())

		router := setupTestRouter()
		router.DELETE("/jobs/:id", noopAuthMiddleware(), handler.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/jobs/nonexistent", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestJobHandler_RegisterRoutes(t *testing.T) {
	repo := &mockJobRepository{
		CreateFunc: func(ctx context.Context, job *model.Job) error {
			job.ID = "job-1"
			return nil
		},
		GetByIDFunc: func(ctx context.Context, jobID string) (*model.Job, error) {
			return &model.Job{ID: jobID, Title: "Test", Status: model.StatusDraft}, nil
		},
		ListFunc: func(ctx context.Context, limit, offset int, status string) ([]*model.JobDTO, int, error) {
			return []*model.JobDTO{}, 0, nil
		},
		UpdateFunc: func(ctx context.Context, job *model.Job) error { return nil },
		DeleteFunc: func(ctx context.Context, jobID string) error { return nil },
	}
	handler := newTestHandler(newTestService(repo), t.TempDir())

	router := setupTestRouter()
	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1, noopAuthMiddleware())

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/v1/jobs", validJobBody()},
		{http.MethodGet, "/api/v1/jobs", ""},
		{http.MethodGet, "/api/v1/jobs/test-id", ""},
		{http.MethodPatch, "/api/v1/jobs/test-id", `{"title":"Test"}`},
		{http.MethodDelete, "/api/v1/jobs/test-id", ""},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			var body *bytes.Buffer
			if route.body != "" {
				body = bytes.NewBufferString(route.body)
			} else {
				body = bytes.NewBuffer(nil)
			}
			req, _ := http.NewRequest(route.method, route.path, body)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.NotEqual(t, http.StatusNotFound, w.Code, "Route %s %s should be registered", route.method, route.path)
		})
	}
}
