package term_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-rotc/internal/term"
	termerrors "go-rotc/internal/term/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTermService struct {
	CreateFn  func(ctx context.Context, req term.CreateTermRequest) (term.TermResponse, error)
	GetAllFn  func(ctx context.Context) ([]term.TermResponse, error)
	GetByIDFn func(ctx context.Context, id string) (term.TermResponse, error)
}

func (f *fakeTermService) Create(ctx context.Context, req term.CreateTermRequest) (term.TermResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeTermService) GetAll(ctx context.Context) ([]term.TermResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakeTermService) GetByID(ctx context.Context, id string) (term.TermResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeTermService) Find(ctx context.Context, id string) (*term.Term, error) {
	return nil, termerrors.ErrTermNotFound
}
func (f *fakeTermService) FindCovering(ctx context.Context, at time.Time, loc *time.Location) (*term.Term, error) {
	return nil, termerrors.ErrTermNotFound
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func TestTermHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		var got term.CreateTermRequest
		svc := &fakeTermService{CreateFn: func(ctx context.Context, req term.CreateTermRequest) (term.TermResponse, error) {
			got = req
			return term.TermResponse{ID: "t1", Name: req.Name, StartDate: req.StartDate, EndDate: req.EndDate}, nil
		}}
		h := term.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/terms", strings.NewReader(
			`{"name":"First Semester","academic_year":"2026-2027","start_date":"2026-08-10","end_date":"2026-12-18"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "2026-2027", got.AcademicYear)
		assert.Contains(t, w.Body.String(), "First Semester")
	})

	t.Run("validation error", func(t *testing.T) {
		h := term.NewHandler(&fakeTermService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/terms", strings.NewReader(`{"name":"First Semester"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		var env apiEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("inverted range", func(t *testing.T) {
		svc := &fakeTermService{CreateFn: func(ctx context.Context, req term.CreateTermRequest) (term.TermResponse, error) {
			return term.TermResponse{}, termerrors.ErrInvalidDateRange
		}}
		h := term.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/terms", strings.NewReader(
			`{"name":"First Semester","academic_year":"2026-2027","start_date":"2026-12-18","end_date":"2026-08-10"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		var env apiEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, termerrors.ErrInvalidDateRange.Code, env.Error.Code)
	})
}

func TestTermHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		svc := &fakeTermService{GetByIDFn: func(ctx context.Context, id string) (term.TermResponse, error) {
			return term.TermResponse{}, termerrors.ErrTermNotFound
		}}
		h := term.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/terms/x", nil)
		c.Params = gin.Params{{Key: "id", Value: "x"}}

		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("found", func(t *testing.T) {
		var gotID string
		svc := &fakeTermService{GetByIDFn: func(ctx context.Context, id string) (term.TermResponse, error) {
			gotID = id
			return term.TermResponse{ID: id, Name: "First Semester"}, nil
		}}
		h := term.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/terms/t1", nil)
		c.Params = gin.Params{{Key: "id", Value: "t1"}}

		h.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "t1", gotID)
	})
}

func TestTermHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeTermService{GetAllFn: func(ctx context.Context) ([]term.TermResponse, error) {
		return []term.TermResponse{{ID: "t1"}, {ID: "t2"}}, nil
	}}
	h := term.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/terms", nil)

	h.GetAll(c)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Ok)
	assert.Contains(t, string(env.Data), "t2")
}
