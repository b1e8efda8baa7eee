package service

import (
	"time"

	"agency-erp/internal/domains/report/model"
)

// StartOfDay cắt giờ, giữ nguyên location của t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayWindow: ngày chứa ref (theo loc) và ngày trước đó
func DayWindow(ref time.Time, loc *time.Location) (current, previous model.Window) {
	start := StartOfDay(ref.In(loc))
	current = model.Window{Start: start, End: start.AddDate(0, 0, 1)}
	previous = model.Window{Start: start.AddDate(0, 0, -1), End: start}
	return current, previous
}

// WeekWindow: tuần (thứ Hai -> Chủ nhật) chứa ref và tuần liền trước
func WeekWindow(ref time.Time, loc *time.Location) (current, previous model.Window) {
	day := StartOfDay(ref.In(loc))
	sinceMonday := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -sinceMonday)

	current = model.Window{Start: start, End: start.AddDate(0, 0, 7)}
	previous = model.Window{Start: start.AddDate(0, 0, -7), End: start}
	return current, previous
}

// MonthWindow: tháng chứa ref và tháng trước.
// Ngày cuối tháng lấy bằng "ngày 0 của tháng sau" nên không cần bảng số ngày.
func MonthWindow(ref time.Time, loc *time.Location) (current, previous model.Window) {
	local := ref.In(loc)
	y, m, _ := local.Date()

	start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	lastDay := time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
	current = model.Window{Start: start, End: lastDay.AddDate(0, 0, 1)}

	prevStart := time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
	previous = model.Window{Start: prevStart, End: start}
	return current, previous
}

// DaysUntil số ngày lịch từ today tới due.
// due là cột DATE (không có timezone) nên chỉ lấy Y/M/D của nó;
// today phải đã ở location của báo cáo.
func DaysUntil(today, due time.Time) int {
	ty, tm, td := today.Date()
	dy, dm, dd := due.Date()
	a := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	b := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
