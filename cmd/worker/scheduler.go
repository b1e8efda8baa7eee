package main

import (
	"log"

	"agency-erp/internal/infrastructure/queue"
	"agency-erp/pkg/container"
)

// asynqScheduler wraps queue.Scheduler with additional functionality
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler đăng ký report jobs và (nếu có Google) calendar sync
func setupScheduler(c *container.Container, cfg *Config) *asynqScheduler {
	app := c.Config
	scheduler := queue.NewScheduler(cfg.RedisAddr, app.Cron, app.Report.Location())

	if err := scheduler.RegisterReportJobs(); err != nil {
		log.Fatalf("[Scheduler] Failed to register: %v", err)
	}

	if c.Calendar != nil {
		if err := scheduler.RegisterCalendarSync(); err != nil {
			log.Fatalf("[Scheduler] Failed to register calendar sync: %v", err)
		}
	} else {
		log.Println("[Scheduler] Google Calendar not configured, calendar sync not scheduled")
	}

	go func() {
		log.Println("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("[Scheduler] Failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] ✓ Stopped")
}
