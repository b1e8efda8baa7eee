package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-erp/internal/domains/settlement/model"
)

func TestSummarize_SeededProject(t *testing.T) {
	project := uuid.New()
	x, y := uuid.New(), uuid.New()

	dir := model.NewDirectory()
	dir.Projects[project] = model.ProjectRef{ID: project, Name: "Spring Campaign"}
	dir.Influencers[x] = model.InfluencerRef{ID: x, Name: "X"}
	dir.Influencers[y] = model.InfluencerRef{ID: y, Name: "Y"}

	rows := []*model.Settlement{
		{ProjectID: project, InfluencerID: x, Fee: 500000, PaymentStatus: "PENDING"},
		{ProjectID: project, InfluencerID: y, Fee: 400000, PaymentStatus: "REQUESTED"},
	}

	got := Summarize(rows, dir)

	assert.Equal(t, model.StatusTotal{Amount: 500000, Count: 1}, got.StatusTotals.Pending)
	assert.Equal(t, model.StatusTotal{Amount: 400000, Count: 1}, got.StatusTotals.InProgress)
	assert.Equal(t, model.StatusTotal{Amount: 0, Count: 0}, got.StatusTotals.Completed)

	require.Len(t, got.ProjectTotals, 1)
	assert.Equal(t, int64(900000), got.ProjectTotals[0].Amount)
	assert.Equal(t, 2, got.ProjectTotals[0].InfluencerCount)
}

func TestSummarize_StatusTotalsCoverEveryRow(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	i1, i2, ghost := uuid.New(), uuid.New(), uuid.New()

	dir := model.NewDirectory()
	dir.Projects[p1] = model.ProjectRef{ID: p1, Name: "P1"}
	dir.Influencers[i1] = model.InfluencerRef{ID: i1, Name: "I1"}
	dir.Influencers[i2] = model.InfluencerRef{ID: i2, Name: "I2"}

	rows := []*model.Settlement{
		{ProjectID: p1, InfluencerID: i1, Fee: 100, PaymentStatus: "completed"},
		{ProjectID: p1, InfluencerID: i2, Fee: 250, PaymentStatus: "garbage"},
		{ProjectID: p2, InfluencerID: i1, Fee: 70, PaymentStatus: "In_Progress"}, // p2 missing from dir
		{ProjectID: p1, InfluencerID: ghost, Fee: 30, PaymentStatus: ""},        // influencer missing
		{ProjectID: p2, InfluencerID: i2, Fee: 0, PaymentStatus: "REQUESTED"},
	}

	var sumFee int64
	for _, r := range rows {
		sumFee += r.Fee
	}

	got := Summarize(rows, dir)
	assert.Equal(t, sumFee, got.StatusTotals.TotalAmount())
	assert.Equal(t, len(rows), got.StatusTotals.TotalCount())

	// missing lookups are skipped only in their own view
	for _, it := range got.InfluencerTotals {
		assert.NotEqual(t, ghost, it.InfluencerID)
	}
	for _, pt := range got.ProjectTotals {
		assert.NotEqual(t, p2, pt.ProjectID)
	}
	require.Len(t, got.ProjectTotals, 1)
	assert.Equal(t, int64(380), got.ProjectTotals[0].Amount)
	assert.Equal(t, 3, got.ProjectTotals[0].InfluencerCount)

	require.Len(t, got.InfluencerTotals, 2)
	assert.Equal(t, i2, got.InfluencerTotals[0].InfluencerID)
	assert.Equal(t, int64(250), got.InfluencerTotals[0].Amount)
	assert.Equal(t, 2, got.InfluencerTotals[0].ProjectCount)
	assert.Equal(t, int64(170), got.InfluencerTotals[1].Amount)
	assert.Equal(t, 2, got.InfluencerTotals[1].ProjectCount)
}

func TestSummarize_StableOnTies(t *testing.T) {
	project := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	dir := model.NewDirectory()
	dir.Projects[project] = model.ProjectRef{ID: project, Name: "P"}
	for _, id := range []uuid.UUID{a, b, c} {
		dir.Influencers[id] = model.InfluencerRef{ID: id, Name: id.String()}
	}

	rows := []*model.Settlement{
		{ProjectID: project, InfluencerID: b, Fee: 100},
		{ProjectID: project, InfluencerID: a, Fee: 300},
		{ProjectID: project, InfluencerID: c, Fee: 100},
	}

	got := Summarize(rows, dir)
	require.Len(t, got.InfluencerTotals, 3)
	assert.Equal(t, a, got.InfluencerTotals[0].InfluencerID)
	assert.Equal(t, b, got.InfluencerTotals[1].InfluencerID)
	assert.Equal(t, c, got.InfluencerTotals[2].InfluencerID)
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil, model.NewDirectory())
	assert.Zero(t, got.StatusTotals.TotalCount())
	assert.NotNil(t, got.InfluencerTotals)
	assert.Empty(t, got.InfluencerTotals)
	assert.Empty(t, got.ProjectTotals)
}
