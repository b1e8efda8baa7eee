package model

import (
	"time"

	"github.com/google/uuid"

	txmodel "agency-erp/internal/domains/transaction/model"
)

// JobName định danh 3 job báo cáo; dùng làm asynq task type suffix,
// path của cron endpoint và label metrics.
type JobName string

const (
	JobDailyAlerts   JobName = "daily_alerts"
	JobWeeklyReport  JobName = "weekly_report"
	JobMonthlyReport JobName = "monthly_report"
)

func (j JobName) Valid() bool {
	switch j {
	case JobDailyAlerts, JobWeeklyReport, JobMonthlyReport:
		return true
	}
	return false
}

// Window là khoảng nửa mở [Start, End)
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LastDay ngày cuối cùng nằm trong window
func (w Window) LastDay() time.Time {
	return w.End.AddDate(0, 0, -1)
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

type CategoryAmount struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// SettlementStatus một dòng tổng hợp settlement theo trạng thái
type SettlementStatus struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
	Count  int    `json:"count"`
}

// PeriodSummary kết quả tính toán của weekly/monthly report
type PeriodSummary struct {
	Current  Window         `json:"current"`
	Previous Window         `json:"previous"`
	Totals   txmodel.Totals `json:"totals"`
	Prior    txmodel.Totals `json:"prior"`

	RevenueChange string `json:"revenueChange"`
	ExpenseChange string `json:"expenseChange"`
	ProfitChange  string `json:"profitChange"`

	RevenueByCategory []CategoryAmount   `json:"revenueByCategory"`
	ExpenseByCategory []CategoryAmount   `json:"expenseByCategory"`
	Settlements       []SettlementStatus `json:"settlements"`
}

type AlertBucket string

const (
	BucketOverdue AlertBucket = "overdue"
	BucketDDay    AlertBucket = "D-day"
	BucketD3      AlertBucket = "D-3"
	BucketD7      AlertBucket = "D-7"
)

type AlertItem struct {
	SettlementID   uuid.UUID `json:"settlementId"`
	ProjectName    string    `json:"projectName"`
	InfluencerName string    `json:"influencerName"`
	Fee            int64     `json:"fee"`
	DueDate        string    `json:"dueDate"`
	DaysLeft       int       `json:"daysLeft"`
}

// AlertGroups: chỉ 4 mốc được cảnh báo
type AlertGroups struct {
	Overdue []AlertItem `json:"overdue"`
	DDay    []AlertItem `json:"dDay"`
	D3      []AlertItem `json:"d3"`
	D7      []AlertItem `json:"d7"`
}

func (g *AlertGroups) Total() int {
	return len(g.Overdue) + len(g.DDay) + len(g.D3) + len(g.D7)
}

// ReportResult trả về cho cron endpoint / CLI. Delivered=false khi sink lỗi,
// phần đã tính toán vẫn được trả về đầy đủ.
type ReportResult struct {
	Job           JobName        `json:"job"`
	Period        Window         `json:"period"`
	Text          string         `json:"text"`
	Delivered     bool           `json:"delivered"`
	Skipped       bool           `json:"skipped,omitempty"`
	DeliveryError string         `json:"deliveryError,omitempty"`
	Summary       *PeriodSummary `json:"summary,omitempty"`
	Alerts        *AlertGroups   `json:"alerts,omitempty"`
}
