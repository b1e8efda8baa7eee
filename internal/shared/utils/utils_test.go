package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₩0", FormatCurrency(0))
	assert.Equal(t, "₩500,000", FormatCurrency(500000))
	assert.Equal(t, "₩1,234,567,890", FormatCurrency(1234567890))
	assert.Equal(t, "-₩12,000", FormatCurrency(-12000))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "3:07", FormatDuration(187))
	assert.Equal(t, "1:02:03", FormatDuration(3723))
	assert.Equal(t, "0:00", FormatDuration(-5))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-09", FormatDate(d))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"youtube", "instagram", "tiktok"}, SplitTags("youtube, instagram,,tiktok "))
	assert.Empty(t, SplitTags(""))
}

func TestWhereBuilder(t *testing.T) {
	wb := NewWhereBuilder()
	assert.Equal(t, "", wb.SQL())

	wb.Add("type = ?", "REVENUE")
	wb.Add("date >= ? AND date < ?", "a", "b")
	limit := wb.Next(20)

	assert.Equal(t, " WHERE type = $1 AND date >= $2 AND date < $3", wb.SQL())
	assert.Equal(t, "$4", limit)
	assert.Equal(t, []any{"REVENUE", "a", "b", 20}, wb.Args())
}
