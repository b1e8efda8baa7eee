package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"agency-erp/internal/domains/report/model"
	"agency-erp/internal/domains/report/service"
	"agency-erp/internal/shared"
	"agency-erp/internal/shared/utils"
	"agency-erp/pkg/logger"
)

// ReportPayload: Date rỗng = dùng mốc mặc định của job
type ReportPayload struct {
	Date time.Time `json:"date,omitempty"`
}

// TaskType maps a report job onto its asynq task type
func TaskType(job model.JobName) string {
	switch job {
	case model.JobDailyAlerts:
		return shared.TypeReportDailyAlerts
	case model.JobWeeklyReport:
		return shared.TypeReportWeeklyReport
	case model.JobMonthlyReport:
		return shared.TypeReportMonthlyReport
	}
	return "report:" + string(job)
}

type ReportHandler struct {
	job     model.JobName
	service service.ServiceInterface
}

func NewReportHandler(job model.JobName, svc service.ServiceInterface) *ReportHandler {
	return &ReportHandler{job: job, service: svc}
}

func (h *ReportHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload ReportPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		logger.Error("Unmarshal report payload failed", err)
		// payload hỏng thì retry cũng vô ích
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	var ref *time.Time
	if !payload.Date.IsZero() {
		ref = &payload.Date
	}

	log.Info().Str("job", string(h.job)).Msg("Starting report job")

	result, err := h.service.Run(ctx, h.job, ref)
	if err != nil {
		logger.ErrorWithFields("Report job failed", err, map[string]interface{}{"job": string(h.job)})
		return err
	}

	log.Info().
		Str("job", string(h.job)).
		Str("period_start", result.Period.Start.Format("2006-01-02")).
		Bool("delivered", result.Delivered).
		Bool("skipped", result.Skipped).
		Msg("Report job completed")
	return nil
}
