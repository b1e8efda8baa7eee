package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want PaymentStatus
	}{
		{"completed", StatusCompleted},
		{"COMPLETED", StatusCompleted},
		{"Completed", StatusCompleted},
		{"in_progress", StatusInProgress},
		{"IN_PROGRESS", StatusInProgress},
		{"REQUESTED", StatusInProgress},
		{"requested", StatusInProgress},
		{"PENDING", StatusPending},
		{"pending", StatusPending},
		{"", StatusPending},
		{"paid", StatusPending},
		{" completed", StatusPending},
		{"완료", StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.raw))
		})
	}
}

func TestNormalizeStatusPtr(t *testing.T) {
	assert.Equal(t, StatusPending, NormalizeStatusPtr(nil))

	raw := "Requested"
	assert.Equal(t, StatusInProgress, NormalizeStatusPtr(&raw))
}

func TestNormalizeStatus_TotalAndIdempotent(t *testing.T) {
	inputs := []string{
		"", "pending", "PENDING", "requested", "REQUESTED", "in_progress",
		"In_Progress", "completed", "COMPLETED", "cancelled", "in progress",
		"\t", "정산완료", "completed\n", "null", "undefined",
	}

	canonical := map[PaymentStatus]bool{
		StatusPending:    true,
		StatusInProgress: true,
		StatusCompleted:  true,
	}

	for _, s := range inputs {
		once := NormalizeStatus(s)
		assert.True(t, canonical[once], "unexpected bucket %q for %q", once, s)
		assert.Equal(t, once, NormalizeStatus(string(once)), "not idempotent for %q", s)
	}
}
