package shared

// Asynq task types
const (
	TypeReportDailyAlerts   = "report:daily_alerts"
	TypeReportWeeklyReport  = "report:weekly_report"
	TypeReportMonthlyReport = "report:monthly_report"
	TypeCalendarSync        = "calendar:sync_google"
)

// Asynq queues
const (
	QueueReport   = "report"
	QueueCalendar = "calendar"
	QueueDefault  = "default"
)
