package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"agency-erp/internal/shared/types"
)

func mustDate(t *testing.T, s string) types.Date {
	t.Helper()
	d, err := types.ParseDate(s)
	require.NoError(t, err)
	return d
}
