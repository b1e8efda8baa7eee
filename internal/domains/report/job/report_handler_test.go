package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-erp/internal/domains/report/model"
	"agency-erp/internal/shared"
)

type stubReports struct {
	gotJob model.JobName
	gotRef *time.Time
	err    error
}

func (s *stubReports) Run(_ context.Context, job model.JobName, ref *time.Time) (*model.ReportResult, error) {
	s.gotJob, s.gotRef = job, ref
	if s.err != nil {
		return nil, s.err
	}
	return &model.ReportResult{Job: job, Delivered: false}, nil
}

func (s *stubReports) DailyAlerts(ctx context.Context, ref *time.Time) (*model.ReportResult, error) {
	return s.Run(ctx, model.JobDailyAlerts, ref)
}

func (s *stubReports) WeeklyReport(ctx context.Context, ref *time.Time) (*model.ReportResult, error) {
	return s.Run(ctx, model.JobWeeklyReport, ref)
}

func (s *stubReports) MonthlyReport(ctx context.Context, ref *time.Time) (*model.ReportResult, error) {
	return s.Run(ctx, model.JobMonthlyReport, ref)
}

func TestTaskType(t *testing.T) {
	assert.Equal(t, shared.TypeReportDailyAlerts, TaskType(model.JobDailyAlerts))
	assert.Equal(t, shared.TypeReportWeeklyReport, TaskType(model.JobWeeklyReport))
	assert.Equal(t, shared.TypeReportMonthlyReport, TaskType(model.JobMonthlyReport))
}

func TestProcessTask_EmptyPayloadUsesDefault(t *testing.T) {
	stub := &stubReports{}
	h := NewReportHandler(model.JobWeeklyReport, stub)

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeReportWeeklyReport, nil))
	require.NoError(t, err)
	assert.Equal(t, model.JobWeeklyReport, stub.gotJob)
	assert.Nil(t, stub.gotRef)
}

func TestProcessTask_ExplicitDate(t *testing.T) {
	stub := &stubReports{}
	h := NewReportHandler(model.JobMonthlyReport, stub)
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	payload, _ := json.Marshal(ReportPayload{Date: date})

	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeReportMonthlyReport, payload)))
	require.NotNil(t, stub.gotRef)
	assert.True(t, date.Equal(*stub.gotRef))
}

func TestProcessTask_Errors(t *testing.T) {
	h := NewReportHandler(model.JobDailyAlerts, &stubReports{})
	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeReportDailyAlerts, []byte("{bad")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	h = NewReportHandler(model.JobDailyAlerts, &stubReports{err: errors.New("db down")})
	err = h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeReportDailyAlerts, nil))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
