package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // REPORT_TIMEZONE phải load được cả trên image không có zoneinfo

	"github.com/robfig/cron/v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultJWTSecret = "your-secret-key-change-in-production"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Slack    SlackConfig
	Cron     CronConfig
	Report   ReportConfig
	MinIO    MinIOConfig
	Google   GoogleConfig
	YouTube  YouTubeConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == EnvProduction
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // hours
}

// SlackConfig: bot token dùng cho chat.postMessage, signing secret để verify webhook
type SlackConfig struct {
	BotToken       string
	SigningSecret  string
	ReportChannel  string // channel nhận daily/weekly/monthly report
	RequestTimeout time.Duration
	DedupTTL       time.Duration
}

// CronConfig: secret cho /api/cron/* và cron spec cho asynq scheduler
type CronConfig struct {
	Secret        string
	DailyAlerts   string
	WeeklyReport  string
	MonthlyReport string
	CalendarSync  string // rebuild marker + sync Google Calendar
}

type ReportConfig struct {
	Timezone string // IANA name, ví dụ Asia/Seoul
}

// Location resolves the report timezone, falling back to UTC on bad input
func (r ReportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GoogleConfig: OAuth2 client + refresh token của tài khoản calendar công ty
type GoogleConfig struct {
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	CalendarID     string
	RequestTimeout time.Duration
}

func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.RefreshToken != ""
}

type YouTubeConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	RatePerSecond  int
	Burst          int
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Agency ERP API"),
			Environment: getEnv("APP_ENV", EnvDevelopment),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "agency"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY_HOURS", 24),
		},
		Slack: SlackConfig{
			BotToken:       getEnv("SLACK_BOT_TOKEN", ""),
			SigningSecret:  getEnv("SLACK_SIGNING_SECRET", ""),
			ReportChannel:  getEnv("SLACK_REPORT_CHANNEL", ""),
			RequestTimeout: getEnvDuration("SLACK_TIMEOUT", 10*time.Second),
			DedupTTL:       getEnvDuration("SLACK_DEDUP_TTL", 60*time.Second),
		},
		Cron: CronConfig{
			Secret:        getEnv("CRON_SECRET", ""),
			DailyAlerts:   getEnv("CRON_DAILY_ALERTS", "0 9 * * *"),
			WeeklyReport:  getEnv("CRON_WEEKLY_REPORT", "0 9 * * 1"),
			MonthlyReport: getEnv("CRON_MONTHLY_REPORT", "0 9 1 * *"),
			CalendarSync:  getEnv("CRON_CALENDAR_SYNC", "0 * * * *"),
		},
		Report: ReportConfig{
			Timezone: getEnv("REPORT_TIMEZONE", "Asia/Seoul"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "agency-documents"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Google: GoogleConfig{
			ClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
			RefreshToken:   getEnv("GOOGLE_REFRESH_TOKEN", ""),
			CalendarID:     getEnv("GOOGLE_CALENDAR_ID", "primary"),
			RequestTimeout: getEnvDuration("GOOGLE_TIMEOUT", 10*time.Second),
		},
		YouTube: YouTubeConfig{
			APIKey:         getEnv("YOUTUBE_API_KEY", ""),
			BaseURL:        getEnv("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3"),
			RequestTimeout: getEnvDuration("YOUTUBE_TIMEOUT", 15*time.Second),
			CacheTTL:       getEnvDuration("YOUTUBE_CACHE_TTL", 10*time.Minute),
			RatePerSecond:  getEnvInt("YOUTUBE_RATE_PER_SECOND", 5),
			Burst:          getEnvInt("YOUTUBE_BURST", 10),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	// Cron spec sai thì scheduler sẽ fail lúc register - bắt sớm ở đây
	specs := map[string]string{
		"CRON_DAILY_ALERTS":   c.Cron.DailyAlerts,
		"CRON_WEEKLY_REPORT":  c.Cron.WeeklyReport,
		"CRON_MONTHLY_REPORT": c.Cron.MonthlyReport,
		"CRON_CALENDAR_SYNC":  c.Cron.CalendarSync,
	}
	for name, spec := range specs {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%s is not a valid cron spec %q: %w", name, spec, err)
		}
	}

	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("REPORT_TIMEZONE %q: %w", c.Report.Timezone, err)
	}

	// Production environment phải có đầy đủ secrets
	if c.App.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Cron.Secret == "" {
			return fmt.Errorf("CRON_SECRET must be set in production")
		}
		if c.Slack.SigningSecret == "" {
			return fmt.Errorf("SLACK_SIGNING_SECRET must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
