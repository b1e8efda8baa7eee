package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Due  *Date `json:"due"`
		Paid *Date `json:"paid"`
		Shot *Date `json:"shot"`
	}
	err := json.Unmarshal([]byte(`{"due":"2026-10-22","paid":"2026-10-01T15:04:05Z","shot":null}`), &payload)
	require.NoError(t, err)

	require.NotNil(t, payload.Due)
	assert.Equal(t, time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC), payload.Due.Time)
	require.NotNil(t, payload.Paid)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), payload.Paid.Time)
	assert.Nil(t, payload.Shot)
	assert.Nil(t, payload.Shot.TimePtr())
}

func TestDate_RejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20261022`), &d))
}

func TestDate_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(time.Date(2026, 1, 5, 13, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-05"`, string(b))
}
