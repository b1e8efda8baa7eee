package model

import "strings"

// PaymentStatus là 3 trạng thái chuẩn của một settlement.
// Dữ liệu cũ có thể chứa "REQUESTED", "PENDING", chữ thường... nên mọi giá trị
// đi vào từ DB, API hoặc Slack đều phải qua NormalizeStatus.
type PaymentStatus string

const (
	StatusPending    PaymentStatus = "pending"
	StatusInProgress PaymentStatus = "in_progress"
	StatusCompleted  PaymentStatus = "completed"
)

// AllStatuses theo thứ tự hiển thị
var AllStatuses = []PaymentStatus{StatusPending, StatusInProgress, StatusCompleted}

// NormalizeStatus maps a raw status string onto one of the canonical values.
// Case-insensitive; unknown or empty input falls back to pending.
func NormalizeStatus(raw string) PaymentStatus {
	switch strings.ToLower(raw) {
	case "completed":
		return StatusCompleted
	case "in_progress", "requested":
		return StatusInProgress
	default:
		return StatusPending
	}
}

// NormalizeStatusPtr treats a missing status as pending
func NormalizeStatusPtr(raw *string) PaymentStatus {
	if raw == nil {
		return StatusPending
	}
	return NormalizeStatus(*raw)
}

func (s PaymentStatus) IsCompleted() bool {
	return s == StatusCompleted
}

// Label tiếng Hàn dùng trong report / Slack
func (s PaymentStatus) Label() string {
	switch s {
	case StatusCompleted:
		return "정산완료"
	case StatusInProgress:
		return "정산요청"
	default:
		return "미정산"
	}
}
