package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"agency-erp/internal/config"
	reportJob "agency-erp/internal/domains/report/job"
	reportModel "agency-erp/internal/domains/report/model"
	"agency-erp/internal/shared"
	"agency-erp/pkg/logger"
)

// registration là một dòng cron đã đăng ký, dùng cho log startup và test
type registration struct {
	Job     string
	Spec    string
	EntryID string
}

// registrar là phần của asynq.Scheduler mà Scheduler cần
type registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
	Run() error
	Shutdown()
}

type Scheduler struct {
	scheduler registrar
	cron      config.CronConfig
	entries   []registration
}

// NewScheduler: mọi cron spec được hiểu theo múi giờ report (mặc định Asia/Seoul)
func NewScheduler(redisAddress string, cronConfig config.CronConfig, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: loc,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		cron:      cronConfig,
	}
}

// RegisterReportJobs registers the three report jobs
func (s *Scheduler) RegisterReportJobs() error {
	jobs := []struct {
		job     reportModel.JobName
		spec    string
		retry   int
		timeout time.Duration
	}{
		// ================================================
		// JOB 1: Daily settlement alerts (mặc định 09:00 mỗi ngày)
		// ================================================
		{reportModel.JobDailyAlerts, s.cron.DailyAlerts, 2, 2 * time.Minute},
		// ================================================
		// JOB 2: Weekly report (thứ Hai 09:00, báo cáo tuần vừa kết thúc)
		// ================================================
		{reportModel.JobWeeklyReport, s.cron.WeeklyReport, 2, 5 * time.Minute},
		// ================================================
		// JOB 3: Monthly report (ngày 1 09:00, báo cáo tháng trước)
		// ================================================
		{reportModel.JobMonthlyReport, s.cron.MonthlyReport, 2, 5 * time.Minute},
	}

	for _, j := range jobs {
		if err := s.register(j.job, j.spec, j.retry, j.timeout); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) register(job reportModel.JobName, spec string, retry int, timeout time.Duration) error {
	// Payload rỗng: job tự lấy now - 1 ngày làm mốc
	payload, err := json.Marshal(reportJob.ReportPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(reportJob.TaskType(job), payload)

	entryID, err := s.scheduler.Register(
		spec,
		task,
		asynq.Queue(shared.QueueReport),
		asynq.MaxRetry(retry),
		asynq.Timeout(timeout),
	)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to register %s job", job), err)
		return fmt.Errorf("register %s: %w", job, err)
	}

	s.entries = append(s.entries, registration{Job: string(job), Spec: spec, EntryID: entryID})
	logger.Info(fmt.Sprintf("✓ Registered %s: %s", job, spec), map[string]interface{}{
		"entry_id": entryID,
	})
	return nil
}

// RegisterCalendarSync đăng ký job rebuild + sync Google Calendar (mặc định mỗi giờ)
func (s *Scheduler) RegisterCalendarSync() error {
	task := asynq.NewTask(shared.TypeCalendarSync, nil)

	entryID, err := s.scheduler.Register(
		s.cron.CalendarSync,
		task,
		asynq.Queue(shared.QueueCalendar),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
		// job chạy lâu hơn chu kỳ thì không xếp chồng
		asynq.Unique(30*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register calendar sync job", err)
		return fmt.Errorf("register calendar sync: %w", err)
	}

	s.entries = append(s.entries, registration{Job: shared.TypeCalendarSync, Spec: s.cron.CalendarSync, EntryID: entryID})
	logger.Info(fmt.Sprintf("✓ Registered %s: %s", shared.TypeCalendarSync, s.cron.CalendarSync), map[string]interface{}{
		"entry_id": entryID,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
