package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Skip("tzdata not available")
	}
	return loc
}

func TestWeekWindow_MondayStart(t *testing.T) {
	loc := seoul(t)

	tests := []struct {
		name string
		ref  time.Time
		want string
	}{
		{"monday", time.Date(2026, 10, 19, 10, 0, 0, 0, loc), "2026-10-19"},
		{"sunday belongs to previous week", time.Date(2026, 10, 18, 23, 59, 0, 0, loc), "2026-10-12"},
		{"wednesday", time.Date(2026, 10, 21, 0, 0, 0, 0, loc), "2026-10-19"},
		// 2026-10-18 16:00 UTC is already Monday 01:00 in Seoul
		{"utc input converted", time.Date(2026, 10, 18, 16, 0, 0, 0, time.UTC), "2026-10-19"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, prev := WeekWindow(tt.ref, loc)
			assert.Equal(t, tt.want, cur.Start.Format("2006-01-02"))
			assert.Equal(t, time.Monday, cur.Start.Weekday())
			assert.Equal(t, cur.Start.AddDate(0, 0, 7), cur.End)
			assert.Equal(t, time.Sunday, cur.LastDay().Weekday())
			assert.Equal(t, cur.Start, prev.End)
			assert.Equal(t, cur.Start.AddDate(0, 0, -7), prev.Start)
		})
	}
}

func TestMonthWindow_LastDay(t *testing.T) {
	loc := seoul(t)

	tests := []struct {
		ref       time.Time
		start     string
		lastDay   string
		prevStart string
	}{
		{time.Date(2026, 2, 14, 12, 0, 0, 0, loc), "2026-02-01", "2026-02-28", "2026-01-01"},
		{time.Date(2028, 2, 29, 12, 0, 0, 0, loc), "2028-02-01", "2028-02-29", "2028-01-01"},
		{time.Date(2026, 1, 31, 12, 0, 0, 0, loc), "2026-01-01", "2026-01-31", "2025-12-01"},
		{time.Date(2026, 12, 1, 0, 0, 0, 0, loc), "2026-12-01", "2026-12-31", "2026-11-01"},
	}

	for _, tt := range tests {
		cur, prev := MonthWindow(tt.ref, loc)
		assert.Equal(t, tt.start, cur.Start.Format("2006-01-02"))
		assert.Equal(t, tt.lastDay, cur.LastDay().Format("2006-01-02"))
		assert.Equal(t, tt.prevStart, prev.Start.Format("2006-01-02"))
		assert.Equal(t, cur.Start, prev.End)
	}
}

func TestDayWindow(t *testing.T) {
	loc := seoul(t)
	cur, prev := DayWindow(time.Date(2026, 3, 1, 8, 30, 0, 0, loc), loc)
	assert.Equal(t, "2026-03-01", cur.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-03-02", cur.End.Format("2006-01-02"))
	assert.Equal(t, "2026-02-28", prev.Start.Format("2006-01-02"))
	assert.True(t, cur.Contains(time.Date(2026, 3, 1, 23, 59, 59, 0, loc)))
	assert.False(t, cur.Contains(cur.End))
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2026, 10, 19, 9, 0, 0, 0, time.FixedZone("KST", 9*3600))

	assert.Equal(t, 0, DaysUntil(today, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, DaysUntil(today, time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysUntil(today, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 13, DaysUntil(today, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)))
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		cur, prev int64
		want      string
	}{
		{0, 0, "0%"},
		{100, 0, "+∞%"},
		{-100, 0, "-∞%"},
		{150, 100, "+50.0%"},
		{100, 100, "+0.0%"},
		{50, 100, "-50.0%"},
		{0, 100, "-100.0%"},
		{1, 3, "-66.7%"},
		{100, -100, "+200.0%"},
		{-300, -100, "-200.0%"},
		{9999, 10000, "-0.0%"},
		{10001, 10000, "+0.0%"},
		{-10001, -10000, "-0.0%"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ChangePercent(tt.cur, tt.prev), "ChangePercent(%d, %d)", tt.cur, tt.prev)
	}
}
