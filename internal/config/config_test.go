package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("REPORT_TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.Equal(t, "0 9 * * 1", cfg.Cron.WeeklyReport)
	assert.Equal(t, "0 * * * *", cfg.Cron.CalendarSync)
	assert.Equal(t, 15*time.Second, cfg.YouTube.RequestTimeout)
	assert.Equal(t, 10*time.Minute, cfg.YouTube.CacheTTL)
	assert.Equal(t, "Asia/Seoul", cfg.Report.Location().String())
}

func TestValidate_RejectsBadCronSpec(t *testing.T) {
	t.Setenv("CRON_DAILY_ALERTS", "every morning")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRON_DAILY_ALERTS")
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", EnvProduction)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("CRON_SECRET", "")
	t.Setenv("SLACK_SIGNING_SECRET", "signing")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRON_SECRET")

	t.Setenv("CRON_SECRET", "cron")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsProduction())
}

func TestReportConfig_LocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, ReportConfig{Timezone: "Mars/Olympus"}.Location())
}

func TestGoogleConfig_Enabled(t *testing.T) {
	assert.False(t, GoogleConfig{ClientID: "id"}.Enabled())
	assert.True(t, GoogleConfig{ClientID: "id", RefreshToken: "rt"}.Enabled())
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_MAX_CONNECTIONS", "4")
	t.Setenv("DB_MIN_CONNECTIONS", "8")

	_, err := LoadDatabaseConfig()
	require.Error(t, err)

	t.Setenv("DB_MIN_CONNECTIONS", "1")
	db, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, int32(4), db.MaxConns)
	assert.Equal(t, int32(1), db.MinConns)
}
