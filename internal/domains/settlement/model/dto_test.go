package model

import (
	"encoding/json"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCollaboratorsRequest_Validate(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	t.Run("valid", func(t *testing.T) {
		req := SyncCollaboratorsRequest{Collaborators: []CollaboratorInput{
			{InfluencerID: a, Fee: 500000},
			{InfluencerID: b, Fee: 0},
		}}
		assert.NoError(t, req.Validate())
	})

	t.Run("empty list is allowed", func(t *testing.T) {
		req := SyncCollaboratorsRequest{Collaborators: []CollaboratorInput{}}
		assert.NoError(t, req.Validate())
	})

	t.Run("missing list", func(t *testing.T) {
		err := SyncCollaboratorsRequest{}.Validate()
		require.Error(t, err)
		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs, "collaborators")
	})

	t.Run("negative fee names the field", func(t *testing.T) {
		req := SyncCollaboratorsRequest{Collaborators: []CollaboratorInput{
			{InfluencerID: a, Fee: -1},
		}}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fee")
	})

	t.Run("nil influencer", func(t *testing.T) {
		req := SyncCollaboratorsRequest{Collaborators: []CollaboratorInput{{Fee: 10}}}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "influencerId")
	})

	t.Run("duplicate influencer", func(t *testing.T) {
		req := SyncCollaboratorsRequest{Collaborators: []CollaboratorInput{
			{InfluencerID: a, Fee: 1},
			{InfluencerID: a, Fee: 2},
		}}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than once")
	})
}

func TestCollaboratorInput_ToSettlement(t *testing.T) {
	projectID := uuid.New()
	var in CollaboratorInput
	body := `{"influencerId":"` + uuid.NewString() + `","fee":400000,"paymentStatus":"REQUESTED","paymentDueDate":"2026-11-01","paymentDate":null}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	s := in.ToSettlement(projectID)
	assert.Equal(t, projectID, s.ProjectID)
	assert.Equal(t, int64(400000), s.Fee)
	assert.Equal(t, StatusInProgress, s.PaymentStatus)
	require.NotNil(t, s.PaymentDueDate)
	assert.Equal(t, "2026-11-01", s.PaymentDueDate.Format("2006-01-02"))
	assert.Nil(t, s.PaymentDate)
}
