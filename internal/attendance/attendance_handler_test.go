package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-rotc/internal/attendance"
	attendanceerrors "go-rotc/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	aggregateFn     func(ctx context.Context, cadetID, termID string) (int, error)
	listBySessionFn func(ctx context.Context, sessionID string) ([]attendance.RecordResponse, error)
}

func (f *fakeService) ListBySession(ctx context.Context, sessionID string) ([]attendance.RecordResponse, error) {
	return f.listBySessionFn(ctx, sessionID)
}
func (f *fakeService) ListByCadetAndTerm(ctx context.Context, cadetID, termID string) ([]attendance.RecordResponse, error) {
	return nil, nil
}
func (f *fakeService) Aggregate(ctx context.Context, cadetID, termID string) (int, error) {
	return f.aggregateFn(ctx, cadetID, termID)
}
func (f *fakeService) InvalidateAggregate(ctx context.Context, cadetID string) error { return nil }
func (f *fakeService) RecordAbsences(ctx context.Context, sessionID string, cadetIDs []string, at time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeService) CountsLate() bool { return true }

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func newRouter(h *attendance.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	attendance.RegisterRoutes(r.Group("/api/v1"), h)
	return r
}

func TestAttendanceHandler_Aggregate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeService{aggregateFn: func(ctx context.Context, cadetID, termID string) (int, error) {
			assert.Equal(t, "c1", cadetID)
			assert.Equal(t, "t1", termID)
			return 14, nil
		}}
		r := newRouter(attendance.NewHandler(svc))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cadets/c1/attendance?term_id=t1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var env apiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		var agg attendance.AggregateResponse
		assert.NoError(t, json.Unmarshal(env.Data, &agg))
		assert.Equal(t, 14, agg.DaysPresent)
		assert.True(t, agg.CountsLate)
	})

	t.Run("missing term", func(t *testing.T) {
		svc := &fakeService{aggregateFn: func(ctx context.Context, cadetID, termID string) (int, error) {
			return 0, attendanceerrors.ErrTermRequired
		}}
		r := newRouter(attendance.NewHandler(svc))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cadets/c1/attendance", nil))

		var env apiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_PARAMETER", env.Error.Code)
	})
}

func TestAttendanceHandler_ListBySession(t *testing.T) {
	svc := &fakeService{listBySessionFn: func(ctx context.Context, sessionID string) ([]attendance.RecordResponse, error) {
		assert.Equal(t, "s1", sessionID)
		return []attendance.RecordResponse{{ID: "r1", Status: attendance.StatusLate}}, nil
	}}
	r := newRouter(attendance.NewHandler(svc))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/records", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"LATE"`)
}
