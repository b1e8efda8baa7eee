package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-erp/internal/domains/settlement/model"
	"agency-erp/internal/shared/types"
)

type syncFixture struct {
	repo       *memRepo
	svc        *settlementService
	project    uuid.UUID
	a, b, c, d uuid.UUID
}

// newSyncFixture seeds a project with influencers A, B, C assigned
func newSyncFixture() *syncFixture {
	f := &syncFixture{
		repo:    newMemRepo(),
		project: uuid.New(),
		a:       uuid.New(),
		b:       uuid.New(),
		c:       uuid.New(),
		d:       uuid.New(),
	}
	f.repo.addProject(f.project, "Launch")
	for name, id := range map[string]uuid.UUID{"A": f.a, "B": f.b, "C": f.c, "D": f.d} {
		f.repo.addInfluencer(id, name)
	}
	for _, id := range []uuid.UUID{f.a, f.b, f.c} {
		f.repo.seed(&model.Settlement{
			ProjectID:     f.project,
			InfluencerID:  id,
			Fee:           100000,
			PaymentStatus: model.StatusPending,
		})
	}
	f.svc = NewSettlementService(f.repo, nil).(*settlementService)
	return f
}

func strPtr(s string) *string { return &s }

func (f *syncFixture) desiredBD() model.SyncCollaboratorsRequest {
	return model.SyncCollaboratorsRequest{Collaborators: []model.CollaboratorInput{
		{InfluencerID: f.b, Fee: 350000, PaymentStatus: strPtr("REQUESTED")},
		{InfluencerID: f.d, Fee: 200000},
	}}
}

func TestSyncCollaborators_ReplacesSet(t *testing.T) {
	f := newSyncFixture()

	out, err := f.svc.SyncCollaborators(context.Background(), f.project, f.desiredBD())
	require.NoError(t, err)

	persisted := f.repo.influencersOf(f.project)
	assert.ElementsMatch(t, []string{f.b.String(), f.d.String()}, sortedIDs(persisted))

	assert.Equal(t, int64(350000), persisted[f.b].Fee)
	assert.Equal(t, model.StatusInProgress, persisted[f.b].PaymentStatus)
	assert.Equal(t, model.StatusPending, persisted[f.d].PaymentStatus)

	require.Len(t, out, 2)
	for _, d := range out {
		assert.NotEmpty(t, d.Influencer.Name)
		assert.Contains(t, model.AllStatuses, d.PaymentStatus)
	}
}

func TestSyncCollaborators_KeepsRowIdentityOnUpdate(t *testing.T) {
	f := newSyncFixture()
	before := f.repo.influencersOf(f.project)[f.b].ID

	_, err := f.svc.SyncCollaborators(context.Background(), f.project, f.desiredBD())
	require.NoError(t, err)

	assert.Equal(t, before, f.repo.influencersOf(f.project)[f.b].ID)
}

func TestSyncCollaborators_FailureLeavesOriginalSet(t *testing.T) {
	f := newSyncFixture()
	// B is upserted first, then D fails: nothing may stick
	f.repo.failUpsertOn = f.d

	_, err := f.svc.SyncCollaborators(context.Background(), f.project, f.desiredBD())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSyncFailed)
	assert.ErrorIs(t, err, errInjected)

	persisted := f.repo.influencersOf(f.project)
	assert.ElementsMatch(t, []string{f.a.String(), f.b.String(), f.c.String()}, sortedIDs(persisted))
	assert.Equal(t, int64(100000), persisted[f.b].Fee)
	assert.Equal(t, model.StatusPending, persisted[f.b].PaymentStatus)
}

func TestSyncCollaborators_UnknownInfluencerRollsBack(t *testing.T) {
	f := newSyncFixture()
	req := model.SyncCollaboratorsRequest{Collaborators: []model.CollaboratorInput{
		{InfluencerID: f.a, Fee: 1},
		{InfluencerID: uuid.New(), Fee: 2},
	}}

	_, err := f.svc.SyncCollaborators(context.Background(), f.project, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInfluencerNotFound)

	var se *model.SettlementError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, model.ErrCodeInfluencerNotFound, se.Code)
	assert.Len(t, f.repo.influencersOf(f.project), 3)
}

func TestSyncCollaborators_Idempotent(t *testing.T) {
	f := newSyncFixture()
	req := f.desiredBD()
	due := types.NewDate(time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC))
	req.Collaborators[1].PaymentDueDate = &due

	_, err := f.svc.SyncCollaborators(context.Background(), f.project, req)
	require.NoError(t, err)
	first := f.repo.influencersOf(f.project)

	_, err = f.svc.SyncCollaborators(context.Background(), f.project, req)
	require.NoError(t, err)
	second := f.repo.influencersOf(f.project)

	assert.Equal(t, sortedIDs(first), sortedIDs(second))
	for id, row := range first {
		assert.Equal(t, row.ID, second[id].ID)
		assert.Equal(t, row.Fee, second[id].Fee)
		assert.Equal(t, row.PaymentStatus, second[id].PaymentStatus)
	}

	// one row per (project, influencer)
	all, err := f.repo.ListRaw(context.Background(), model.ListFilter{ProjectID: &f.project})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	require.NotNil(t, second[f.d].PaymentDueDate)
	assert.Equal(t, "2026-11-30", second[f.d].PaymentDueDate.Format("2006-01-02"))
}

func TestSyncCollaborators_DuplicateInputRejectedBeforeWrite(t *testing.T) {
	f := newSyncFixture()
	req := model.SyncCollaboratorsRequest{Collaborators: []model.CollaboratorInput{
		{InfluencerID: f.d, Fee: 1},
		{InfluencerID: f.d, Fee: 2},
	}}

	_, err := f.svc.SyncCollaborators(context.Background(), f.project, req)
	require.Error(t, err)
	assert.Len(t, f.repo.influencersOf(f.project), 3)
}

func TestSyncCollaborators_ProjectNotFound(t *testing.T) {
	f := newSyncFixture()

	_, err := f.svc.SyncCollaborators(context.Background(), uuid.New(), f.desiredBD())
	assert.ErrorIs(t, err, model.ErrProjectNotFound)
}

func TestSyncCollaborators_EmptyListRemovesAll(t *testing.T) {
	f := newSyncFixture()

	out, err := f.svc.SyncCollaborators(context.Background(), f.project,
		model.SyncCollaboratorsRequest{Collaborators: []model.CollaboratorInput{}})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, f.repo.influencersOf(f.project))
}

func TestUpdateStatus_AnyTransitionStampsPaymentDate(t *testing.T) {
	f := newSyncFixture()
	fixed := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }
	id := f.repo.influencersOf(f.project)[f.a].ID

	got, err := f.svc.UpdateStatus(context.Background(), id, model.UpdateStatusRequest{PaymentStatus: "COMPLETED"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.PaymentStatus)
	require.NotNil(t, got.PaymentDate)
	assert.True(t, fixed.Equal(*got.PaymentDate))

	// completed -> pending is allowed
	got, err = f.svc.UpdateStatus(context.Background(), id, model.UpdateStatusRequest{PaymentStatus: "pending"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.PaymentStatus)
	assert.Nil(t, got.PaymentDate)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newSyncFixture()
	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), model.UpdateStatusRequest{PaymentStatus: "completed"})
	assert.ErrorIs(t, err, model.ErrSettlementNotFound)
}

func TestGetSummary_FromRepository(t *testing.T) {
	f := newSyncFixture()

	got, err := f.svc.GetSummary(context.Background(), model.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, model.StatusTotal{Amount: 300000, Count: 3}, got.StatusTotals.Pending)
	require.Len(t, got.ProjectTotals, 1)
	assert.Equal(t, "Launch", got.ProjectTotals[0].Name)
}
