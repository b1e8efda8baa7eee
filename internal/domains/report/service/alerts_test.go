package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stlmodel "agency-erp/internal/domains/settlement/model"
)

func dueIn(today time.Time, days int, status stlmodel.PaymentStatus) *stlmodel.SettlementDetail {
	y, m, d := today.AddDate(0, 0, days).Date()
	due := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &stlmodel.SettlementDetail{
		Settlement: stlmodel.Settlement{
			ID:             uuid.New(),
			Fee:            100000,
			PaymentStatus:  status,
			PaymentDueDate: &due,
		},
		Influencer: stlmodel.InfluencerRef{Name: "inf"},
		Project:    stlmodel.ProjectRef{Name: "proj"},
	}
}

func TestBucketAlerts_D3Only(t *testing.T) {
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	d3 := dueIn(today, 3, stlmodel.StatusPending)
	d5 := dueIn(today, 5, stlmodel.StatusPending)

	g := BucketAlerts(today, []*stlmodel.SettlementDetail{d3, d5})

	require.Len(t, g.D3, 1)
	assert.Equal(t, d3.ID, g.D3[0].SettlementID)
	assert.Empty(t, g.D7)
	assert.Empty(t, g.DDay)
	assert.Empty(t, g.Overdue)
	assert.Equal(t, 1, g.Total())
}

func TestBucketAlerts_AllCheckpoints(t *testing.T) {
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	rows := []*stlmodel.SettlementDetail{
		dueIn(today, 7, stlmodel.StatusPending),
		dueIn(today, 6, stlmodel.StatusPending),
		dueIn(today, 3, stlmodel.StatusInProgress),
		dueIn(today, 1, stlmodel.StatusPending),
		dueIn(today, 0, stlmodel.StatusPending),
		dueIn(today, -1, stlmodel.StatusPending),
		dueIn(today, -30, stlmodel.StatusInProgress),
		dueIn(today, 0, stlmodel.StatusCompleted), // paid, ignored
		{Settlement: stlmodel.Settlement{ID: uuid.New()}}, // no due date
		nil,
	}

	g := BucketAlerts(today, rows)
	assert.Len(t, g.D7, 1)
	assert.Len(t, g.D3, 1)
	assert.Len(t, g.DDay, 1)
	require.Len(t, g.Overdue, 2)
	assert.Equal(t, -1, g.Overdue[0].DaysLeft)
	assert.Equal(t, -30, g.Overdue[1].DaysLeft)
}
