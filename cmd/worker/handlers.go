package main

import (
	"github.com/hibiken/asynq"

	calendarJob "agency-erp/internal/domains/calendar/job"
	reportJob "agency-erp/internal/domains/report/job"
	reportModel "agency-erp/internal/domains/report/model"
	"agency-erp/internal/shared"
	"agency-erp/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Report handlers
	dailyAlerts   *reportJob.ReportHandler
	weeklyReport  *reportJob.ReportHandler
	monthlyReport *reportJob.ReportHandler

	// Calendar
	calendarSync *calendarJob.SyncHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		dailyAlerts:   reportJob.NewReportHandler(reportModel.JobDailyAlerts, c.ReportService),
		weeklyReport:  reportJob.NewReportHandler(reportModel.JobWeeklyReport, c.ReportService),
		monthlyReport: reportJob.NewReportHandler(reportModel.JobMonthlyReport, c.ReportService),

		calendarSync: calendarJob.NewSyncHandler(c.CalendarService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Report tasks
	mux.HandleFunc(shared.TypeReportDailyAlerts, h.dailyAlerts.ProcessTask)
	mux.HandleFunc(shared.TypeReportWeeklyReport, h.weeklyReport.ProcessTask)
	mux.HandleFunc(shared.TypeReportMonthlyReport, h.monthlyReport.ProcessTask)

	// Calendar tasks
	mux.HandleFunc(shared.TypeCalendarSync, h.calendarSync.ProcessTask)
}
