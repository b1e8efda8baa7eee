package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hibiken/asynq"
)

// StringPtr / Int64Ptr helpers cho optional fields trong DTO
func StringPtr(s string) *string { return &s }

func Int64Ptr(v int64) *int64 { return &v }

func TimePtr(t time.Time) *time.Time { return &t }

func DerefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SplitTags tách chuỗi "youtube, instagram,tiktok" thành slice đã trim,
// bỏ phần tử rỗng. Legacy data lưu platform dạng comma-joined.
func SplitTags(joined string) []string {
	parts := strings.Split(joined, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// FormatCurrency formats integer currency units as "₩1,500,000"
func FormatCurrency(amount int64) string {
	if amount < 0 {
		return "-₩" + humanize.Comma(-amount)
	}
	return "₩" + humanize.Comma(amount)
}

// FormatDate formats a time as YYYY-MM-DD in its own location
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDuration renders seconds as H:MM:SS (or M:SS under one hour)
func FormatDuration(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// UnmarshalTask decode payload JSON của asynq task
func UnmarshalTask(t *asynq.Task, dest interface{}) error {
	if len(t.Payload()) == 0 {
		return nil
	}
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("unmarshal task %s payload: %w", t.Type(), err)
	}
	return nil
}
