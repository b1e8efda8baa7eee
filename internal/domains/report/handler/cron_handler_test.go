package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-erp/internal/domains/report/model"
	"agency-erp/internal/shared/middleware"
)

type stubService struct {
	job model.JobName
	ref *time.Time
	err error
}

func (s *stubService) Run(_ context.Context, job model.JobName, ref *time.Time) (*model.ReportResult, error) {
	s.job, s.ref = job, ref
	if s.err != nil {
		return nil, s.err
	}
	return &model.ReportResult{Job: job, Text: "ok", Delivered: true}, nil
}

func (s *stubService) DailyAlerts(ctx context.Context, ref *time.Time) (*model.ReportResult, error) {
	return s.Run(ctx, model.JobDailyAlerts, ref)
}

func (s *stubService) WeeklyReport(ctx context.Context, ref *time.Time) (*model.ReportResult, error) {
	return s.Run(ctx, model.JobWeeklyReport, ref)
}

func (s *stubService) MonthlyReport(ctx context.Context, ref *time.Time) (*model.ReportResult, error) {
	return s.Run(ctx, model.JobMonthlyReport, ref)
}

var kst = time.FixedZone("KST", 9*3600)

func newRouter(svc *stubService, production bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cron := r.Group("/api/cron", middleware.CronAuth("s3cret", production))
	NewCronHandler(svc, kst).RegisterRoutes(cron)
	return r
}

func call(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCron_RoutesToJob(t *testing.T) {
	tests := []struct {
		path string
		job  model.JobName
	}{
		{"/api/cron/daily-alerts", model.JobDailyAlerts},
		{"/api/cron/weekly-report", model.JobWeeklyReport},
		{"/api/cron/monthly-report", model.JobMonthlyReport},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			for _, method := range []string{http.MethodGet, http.MethodPost} {
				svc := &stubService{}
				w := call(newRouter(svc, false), method, tt.path, "")
				require.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, tt.job, svc.job)
				assert.Nil(t, svc.ref)
			}
		})
	}
}

func TestCron_DateParam(t *testing.T) {
	svc := &stubService{}
	w := call(newRouter(svc, false), http.MethodPost, "/api/cron/monthly-report?date=2026-09-15", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.ref)
	assert.True(t, time.Date(2026, 9, 15, 0, 0, 0, 0, kst).Equal(*svc.ref))

	w = call(newRouter(svc, false), http.MethodPost, "/api/cron/monthly-report?date=15/09/2026", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCron_ResultBody(t *testing.T) {
	w := call(newRouter(&stubService{}, false), http.MethodPost, "/api/cron/weekly-report", "")
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Success bool               `json:"success"`
		Data    model.ReportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, model.JobWeeklyReport, env.Data.Job)
	assert.True(t, env.Data.Delivered)
}

func TestCron_AuthInProduction(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc, true)

	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/cron/daily-alerts", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/cron/daily-alerts", "Bearer nope").Code)
	assert.Empty(t, svc.job)

	assert.Equal(t, http.StatusOK, call(r, http.MethodPost, "/api/cron/daily-alerts", "Bearer s3cret").Code)
	assert.Equal(t, model.JobDailyAlerts, svc.job)
}

func TestCron_ServiceError(t *testing.T) {
	svc := &stubService{err: errors.New("db down")}
	w := call(newRouter(svc, false), http.MethodPost, "/api/cron/daily-alerts", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
