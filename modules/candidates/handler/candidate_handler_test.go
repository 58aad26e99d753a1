package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andreypavlenko/matchcore/modules/candidates/model"
	"github.com/andreypavlenko/matchcore/modules/candidates/service"
	cvfilesmodel "github.com/andreypavlenko/matchcore/modules/cvfiles/model"
	matricesmodel "github.com/andreypavlenko/matchcore/modules/matrices/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCandidateRepo struct {
	GetByIDFunc func(ctx context.Context, id string) (*model.Candidate, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (s *stubCandidateRepo) Create(ctx context.Context, c *model.Candidate) error { return nil }
func (s *stubCandidateRepo) GetByID(ctx context.Context, id string) (*model.Candidate, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return &model.Candidate{ID: id, Name: "Jane Doe"}, nil
}
func (s *stubCandidateRepo) FindByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	return nil, model.ErrCandidateNotFound
}
func (s *stubCandidateRepo) List(ctx context.Context, limit, offset int) ([]*model.Candidate, int, error) {
	return []*model.Candidate{{ID: "c1", Name: "Jane Doe"}}, 1, nil
}
func (s *stubCandidateRepo) ListIDsWithMatrix(ctx context.Context) ([]string, error) { return nil, nil }
func (s *stubCandidateRepo) ListIDsWithoutMatrix(ctx context.Context) ([]string, error) {
	return nil, nil
}
func (s *stubCandidateRepo) ListAllIDs(ctx context.Context) ([]string, error)     { return nil, nil }
func (s *stubCandidateRepo) Update(ctx context.Context, c *model.Candidate) error { return nil }
func (s *stubCandidateRepo) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

type stubCvFiles struct{}

func (stubCvFiles) GetLatestForCandidate(ctx context.Context, candidateID string) (*cvfilesmodel.CvFile, error) {
	return &cvfilesmodel.CvFile{ID: "cv-1", FilePath: "/tmp/cv.pdf"}, nil
}

type stubMatrixBuilder struct{}

func (stubMatrixBuilder) Build(ctx context.Context, candidateID, cvFileID, cvPath string) (*matricesmodel.CandidateMatrix, error) {
	return &matricesmodel.CandidateMatrix{CandidateID: candidateID}, nil
}

type stubFanOut struct {
	calls chan string
}

func (s *stubFanOut) OnCandidateMatrixReady(ctx context.Context, candidateID string) error {
	if s.calls != nil {
		s.calls <- candidateID
	}
	return nil
}

func newTestHandler(repo *stubCandidateRepo, fanout *stubFanOut) *CandidateHandler {
	svc := service.NewCandidateService(repo)
	return NewCandidateHandler(svc, stubCvFiles{}, stubMatrixBuilder{}, fanout)
}

func TestCandidateHandler_Get(t *testing.T) {
	h := newTestHandler(&stubCandidateRepo{}, &stubFanOut{})
	router := gin.New()
	router.GET("/candidates/:id", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/candidates/c1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Doe")
}

func TestCandidateHandler_Get_NotFound(t *testing.T) {
	repo := &stubCandidateRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*model.Candidate, error) {
			return nil, model.ErrCandidateNotFound
		},
	}
	h := newTestHandler(repo, &stubFanOut{})
	router := gin.New()
	router.GET("/candidates/:id", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/candidates/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCandidateHandler_List(t *testing.T) {
	h := newTestHandler(&stubCandidateRepo{}, &stubFanOut{})
	router := gin.New()
	router.GET("/candidates", h.List)

	req := httptest.NewRequest(http.MethodGet, "/candidates?limit=10&offset=0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCandidateHandler_Delete(t *testing.T) {
	var deletedID string
	repo := &stubCandidateRepo{
		DeleteFunc: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	h := newTestHandler(repo, &stubFanOut{})
	router := gin.New()
	router.DELETE("/candidates/:id", h.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/candidates/c1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c1", deletedID)
}

func TestCandidateHandler_RerunMatching_FanOutOnly(t *testing.T) {
	fanout := &stubFanOut{calls: make(chan string, 1)}
	h := newTestHandler(&stubCandidateRepo{}, fanout)
	router := gin.New()
	router.POST("/candidates/:id/rerun-matching", h.RerunMatching)

	req := httptest.NewRequest(http.MethodPost, "/candidates/c1/rerun-matching", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	select {
	case id := <-fanout.calls:
		assert.Equal(t, "c1", id)
	case <-time.After(time.Second):
		t.Fatal("fan-out was not invoked")
	}
}

func TestCandidateHandler_RerunMatching_UnknownCandidate(t *testing.T) {
	repo := &stubCandidateRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*model.Candidate, error) {
			return nil, model.ErrCandidateNotFound
		},
	}
	h := newTestHandler(repo, &stubFanOut{})
	router := gin.New()
	router.POST("/candidates/:id/rerun-matching", h.RerunMatching)

	req := httptest.NewRequest(http.MethodPost, "/candidates/missing/rerun-matching", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCandidateHandler_RegisterRoutes(t *testing.T) {
	h := newTestHandler(&stubCandidateRepo{}, &stubFanOut{})
	router := gin.New()
	group := router.Group("/api")
	h.RegisterRoutes(group, func(c *gin.Context) { c.Next() })

	req := httptest.NewRequest(http.MethodGet, "/api/candidates/c1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
