package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Log      LogConfig
	CORS     CORSConfig
	Queue    QueueConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
	Auth     AuthConfig
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMProviderConfig holds settings for a single LLM provider.
type LLMProviderConfig struct {
	Provider       string `mapstructure:"provider"`
	APIKey         string `mapstructure:"api_key"`
	DefaultModel   string `mapstructure:"default_model"`
	MaxRetries     int    `mapstructure:"max_retries"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
	RequestsPerMin int    `mapstructure:"requests_per_min"`
}

// LLMConfig holds the extraction and audit model settings. The audit provider
// must differ from the extraction provider so Pass 4 stays independent.
type LLMConfig struct {
	Extraction LLMProviderConfig `mapstructure:"extraction"`
	Fallback   LLMProviderConfig `mapstructure:"fallback"`
	Audit      LLMProviderConfig `mapstructure:"audit"`
}

// FallbackConfig returns the fallback provider config, or nil if not configured.
func (l *LLMConfig) FallbackConfig() *LLMProviderConfig {
	if l.Fallback.Provider != "" {
		return &l.Fallback
	}
	return nil
}

// PipelineConfig holds extraction pipeline tunables.
type PipelineConfig struct {
	RenderDPI            int     `mapstructure:"render_dpi"`
	MaxPages             int     `mapstructure:"max_pages"`
	MinImageQuality      float64 `mapstructure:"min_image_quality"`
	FewShotMaxShots      int     `mapstructure:"few_shot_max_shots"`
	FewShotMinRecurrence int     `mapstructure:"few_shot_min_recurrence"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the GRIDBILL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GRIDBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gridbill")
	v.SetDefault("db.password", "gridbill_secret")
	v.SetDefault("db.name", "gridbill_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "gridbill-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.concurrency", 3)

	// Auth defaults
	v.SetDefault("auth.api_key", "")

	// LLM defaults: claude extracts, openai audits. The audit provider must
	// stay distinct from extraction for the cross-model check to mean anything.
	v.SetDefault("llm.extraction.provider", "claude")
	v.SetDefault("llm.extraction.api_key", "")
	v.SetDefault("llm.extraction.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("llm.extraction.max_retries", 3)
	v.SetDefault("llm.extraction.timeout_secs", 120)
	v.SetDefault("llm.extraction.requests_per_min", 60)
	v.SetDefault("llm.fallback.provider", "")
	v.SetDefault("llm.fallback.api_key", "")
	v.SetDefault("llm.fallback.default_model", "")
	v.SetDefault("llm.fallback.max_retries", 3)
	v.SetDefault("llm.fallback.timeout_secs", 120)
	v.SetDefault("llm.fallback.requests_per_min", 60)
	v.SetDefault("llm.audit.provider", "openai")
	v.SetDefault("llm.audit.api_key", "")
	v.SetDefault("llm.audit.default_model", "gpt-4o")
	v.SetDefault("llm.audit.max_retries", 3)
	v.SetDefault("llm.audit.timeout_secs", 120)
	v.SetDefault("llm.audit.requests_per_min", 60)

	// Pipeline defaults
	v.SetDefault("pipeline.render_dpi", 200)
	v.SetDefault("pipeline.max_pages", 25)
	v.SetDefault("pipeline.min_image_quality", 0.6)
	v.SetDefault("pipeline.few_shot_max_shots", 5)
	v.SetDefault("pipeline.few_shot_min_recurrence", 2)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "GRIDBILL_SERVER_PORT",
		"server.read_timeout":              "GRIDBILL_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "GRIDBILL_SERVER_WRITE_TIMEOUT",
		"server.environment":               "GRIDBILL_SERVER_ENVIRONMENT",
		"db.host":                          "GRIDBILL_DB_HOST",
		"db.port":                          "GRIDBILL_DB_PORT",
		"db.user":                          "GRIDBILL_DB_USER",
		"db.password":                      "GRIDBILL_DB_PASSWORD",
		"db.name":                          "GRIDBILL_DB_NAME",
		"db.sslmode":                       "GRIDBILL_DB_SSLMODE",
		"db.max_open":                      "GRIDBILL_DB_MAX_OPEN",
		"db.max_idle":                      "GRIDBILL_DB_MAX_IDLE",
		"s3.region":                        "GRIDBILL_S3_REGION",
		"s3.bucket":                        "GRIDBILL_S3_BUCKET",
		"s3.endpoint":                      "GRIDBILL_S3_ENDPOINT",
		"s3.access_key":                    "GRIDBILL_S3_ACCESS_KEY",
		"s3.secret_key":                    "GRIDBILL_S3_SECRET_KEY",
		"s3.max_file_size_mb":              "GRIDBILL_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                "GRIDBILL_S3_PRESIGN_EXPIRY",
		"log.level":                        "GRIDBILL_LOG_LEVEL",
		"log.format":                       "GRIDBILL_LOG_FORMAT",
		"cors.allowed_origins":             "GRIDBILL_CORS_ALLOWED_ORIGINS",
		"auth.api_key":                     "GRIDBILL_AUTH_API_KEY",
		"queue.poll_interval_secs":         "GRIDBILL_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":                "GRIDBILL_QUEUE_CONCURRENCY",
		"llm.extraction.provider":          "GRIDBILL_LLM_EXTRACTION_PROVIDER",
		"llm.extraction.api_key":           "GRIDBILL_LLM_EXTRACTION_API_KEY",
		"llm.extraction.default_model":     "GRIDBILL_LLM_EXTRACTION_DEFAULT_MODEL",
		"llm.extraction.max_retries":       "GRIDBILL_LLM_EXTRACTION_MAX_RETRIES",
		"llm.extraction.timeout_secs":      "GRIDBILL_LLM_EXTRACTION_TIMEOUT_SECS",
		"llm.extraction.requests_per_min":  "GRIDBILL_LLM_EXTRACTION_REQUESTS_PER_MIN",
		"llm.fallback.provider":            "GRIDBILL_LLM_FALLBACK_PROVIDER",
		"llm.fallback.api_key":             "GRIDBILL_LLM_FALLBACK_API_KEY",
		"llm.fallback.default_model":       "GRIDBILL_LLM_FALLBACK_DEFAULT_MODEL",
		"llm.fallback.max_retries":         "GRIDBILL_LLM_FALLBACK_MAX_RETRIES",
		"llm.fallback.timeout_secs":        "GRIDBILL_LLM_FALLBACK_TIMEOUT_SECS",
		"llm.fallback.requests_per_min":    "GRIDBILL_LLM_FALLBACK_REQUESTS_PER_MIN",
		"llm.audit.provider":               "GRIDBILL_LLM_AUDIT_PROVIDER",
		"llm.audit.api_key":                "GRIDBILL_LLM_AUDIT_API_KEY",
		"llm.audit.default_model":          "GRIDBILL_LLM_AUDIT_DEFAULT_MODEL",
		"llm.audit.max_retries":            "GRIDBILL_LLM_AUDIT_MAX_RETRIES",
		"llm.audit.timeout_secs":           "GRIDBILL_LLM_AUDIT_TIMEOUT_SECS",
		"llm.audit.requests_per_min":       "GRIDBILL_LLM_AUDIT_REQUESTS_PER_MIN",
		"pipeline.render_dpi":              "GRIDBILL_PIPELINE_RENDER_DPI",
		"pipeline.max_pages":               "GRIDBILL_PIPELINE_MAX_PAGES",
		"pipeline.min_image_quality":       "GRIDBILL_PIPELINE_MIN_IMAGE_QUALITY",
		"pipeline.few_shot_max_shots":      "GRIDBILL_PIPELINE_FEW_SHOT_MAX_SHOTS",
		"pipeline.few_shot_min_recurrence": "GRIDBILL_PIPELINE_FEW_SHOT_MIN_RECURRENCE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GRIDBILL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GRIDBILL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Auth = AuthConfig{
		APIKey: v.GetString("auth.api_key"),
	}

	cfg.LLM = LLMConfig{
		Extraction: loadProvider(v, "llm.extraction"),
		Fallback:   loadProvider(v, "llm.fallback"),
		Audit:      loadProvider(v, "llm.audit"),
	}

	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	cfg.Pipeline = PipelineConfig{
		RenderDPI:            v.GetInt("pipeline.render_dpi"),
		MaxPages:             v.GetInt("pipeline.max_pages"),
		MinImageQuality:      v.GetFloat64("pipeline.min_image_quality"),
		FewShotMaxShots:      v.GetInt("pipeline.few_shot_max_shots"),
		FewShotMinRecurrence: v.GetInt("pipeline.few_shot_min_recurrence"),
	}

	if cfg.LLM.Audit.Provider != "" && cfg.LLM.Audit.Provider == cfg.LLM.Extraction.Provider {
		return nil, fmt.Errorf("llm.audit.provider must differ from llm.extraction.provider (both %q)", cfg.LLM.Audit.Provider)
	}

	return cfg, nil
}

func loadProvider(v *viper.Viper, prefix string) LLMProviderConfig {
	return LLMProviderConfig{
		Provider:       v.GetString(prefix + ".provider"),
		APIKey:         v.GetString(prefix + ".api_key"),
		DefaultModel:   v.GetString(prefix + ".default_model"),
		MaxRetries:     v.GetInt(prefix + ".max_retries"),
		TimeoutSecs:    v.GetInt(prefix + ".timeout_secs"),
		RequestsPerMin: v.GetInt(prefix + ".requests_per_min"),
	}
}
