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
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	S3        S3Config
	Extractor ExtractorConfig
	Intake    IntakeConfig
	Worker    WorkerConfig
	CORS      CORSConfig
	Email     EmailConfig
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
	// ConnMaxLifetime recycles pooled connections so long-lived intake
	// sessions do not pin connections past the load balancer's idle cutoff.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis settings for the per-session lock.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
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

// ExtractorConfig holds LLM classification/extraction settings.
type ExtractorConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// IntakeConfig holds intake pipeline settings.
type IntakeConfig struct {
	// SessionLockTTL bounds how long one in-flight message may hold a
	// session.
	SessionLockTTL time.Duration `mapstructure:"session_lock_ttl"`
	// RequirementsCacheTTL bounds staleness of the coverage requirements
	// table.
	RequirementsCacheTTL time.Duration `mapstructure:"requirements_cache_ttl"`
}

// WorkerConfig holds document processing worker settings.
type WorkerConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	NotifyAddr  string `mapstructure:"notify_addr"`
	NotifyName  string `mapstructure:"notify_name"`
}

// Load reads configuration from environment variables with the CLAIMOS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CLAIMOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "claimos")
	v.SetDefault("db.password", "claimos_secret")
	v.SetDefault("db.name", "claimos_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "claimos-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Extractor defaults
	v.SetDefault("extractor.provider", "claude")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.model", "claude-sonnet-4-20250514")
	v.SetDefault("extractor.timeout_secs", 120)

	// Intake defaults
	v.SetDefault("intake.session_lock_ttl", "2m")
	v.SetDefault("intake.requirements_cache_ttl", "5m")

	// Worker defaults
	v.SetDefault("worker.poll_interval_secs", 10)
	v.SetDefault("worker.max_retries", 5)
	v.SetDefault("worker.concurrency", 5)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "claims@claimos.local")
	v.SetDefault("email.from_name", "ClaimOS")
	v.SetDefault("email.notify_addr", "")
	v.SetDefault("email.notify_name", "Claims Desk")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "CLAIMOS_SERVER_PORT",
		"server.read_timeout":            "CLAIMOS_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "CLAIMOS_SERVER_WRITE_TIMEOUT",
		"server.environment":             "CLAIMOS_SERVER_ENVIRONMENT",
		"db.host":                        "CLAIMOS_DB_HOST",
		"db.port":                        "CLAIMOS_DB_PORT",
		"db.user":                        "CLAIMOS_DB_USER",
		"db.password":                    "CLAIMOS_DB_PASSWORD",
		"db.name":                        "CLAIMOS_DB_NAME",
		"db.sslmode":                     "CLAIMOS_DB_SSLMODE",
		"db.max_open":                    "CLAIMOS_DB_MAX_OPEN",
		"db.max_idle":                    "CLAIMOS_DB_MAX_IDLE",
		"db.conn_max_lifetime":           "CLAIMOS_DB_CONN_MAX_LIFETIME",
		"db.conn_max_idle_time":          "CLAIMOS_DB_CONN_MAX_IDLE_TIME",
		"redis.addr":                     "CLAIMOS_REDIS_ADDR",
		"redis.password":                 "CLAIMOS_REDIS_PASSWORD",
		"redis.db":                       "CLAIMOS_REDIS_DB",
		"s3.region":                      "CLAIMOS_S3_REGION",
		"s3.bucket":                      "CLAIMOS_S3_BUCKET",
		"s3.endpoint":                    "CLAIMOS_S3_ENDPOINT",
		"s3.access_key":                  "CLAIMOS_S3_ACCESS_KEY",
		"s3.secret_key":                  "CLAIMOS_S3_SECRET_KEY",
		"s3.max_file_size_mb":            "CLAIMOS_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":              "CLAIMOS_S3_PRESIGN_EXPIRY",
		"extractor.provider":             "CLAIMOS_EXTRACTOR_PROVIDER",
		"extractor.api_key":              "CLAIMOS_EXTRACTOR_API_KEY",
		"extractor.model":                "CLAIMOS_EXTRACTOR_MODEL",
		"extractor.timeout_secs":         "CLAIMOS_EXTRACTOR_TIMEOUT_SECS",
		"intake.session_lock_ttl":        "CLAIMOS_INTAKE_SESSION_LOCK_TTL",
		"intake.requirements_cache_ttl":  "CLAIMOS_INTAKE_REQUIREMENTS_CACHE_TTL",
		"worker.poll_interval_secs":      "CLAIMOS_WORKER_POLL_INTERVAL_SECS",
		"worker.max_retries":             "CLAIMOS_WORKER_MAX_RETRIES",
		"worker.concurrency":             "CLAIMOS_WORKER_CONCURRENCY",
		"cors.allowed_origins":           "CLAIMOS_CORS_ALLOWED_ORIGINS",
		"email.provider":                 "CLAIMOS_EMAIL_PROVIDER",
		"email.region":                   "CLAIMOS_EMAIL_REGION",
		"email.from_address":             "CLAIMOS_EMAIL_FROM_ADDRESS",
		"email.from_name":                "CLAIMOS_EMAIL_FROM_NAME",
		"email.notify_addr":              "CLAIMOS_EMAIL_NOTIFY_ADDR",
		"email.notify_name":              "CLAIMOS_EMAIL_NOTIFY_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CLAIMOS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CLAIMOS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:            v.GetString("db.host"),
		Port:            v.GetInt("db.port"),
		User:            v.GetString("db.user"),
		Password:        v.GetString("db.password"),
		Name:            v.GetString("db.name"),
		SSLMode:         v.GetString("db.sslmode"),
		MaxOpen:         v.GetInt("db.max_open"),
		MaxIdle:         v.GetInt("db.max_idle"),
		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		ConnMaxIdleTime: v.GetDuration("db.conn_max_idle_time"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
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
	cfg.Extractor = ExtractorConfig{
		Provider:    v.GetString("extractor.provider"),
		APIKey:      v.GetString("extractor.api_key"),
		Model:       v.GetString("extractor.model"),
		TimeoutSecs: v.GetInt("extractor.timeout_secs"),
	}
	cfg.Intake = IntakeConfig{
		SessionLockTTL:       v.GetDuration("intake.session_lock_ttl"),
		RequirementsCacheTTL: v.GetDuration("intake.requirements_cache_ttl"),
	}
	cfg.Worker = WorkerConfig{
		PollIntervalSecs: v.GetInt("worker.poll_interval_secs"),
		MaxRetries:       v.GetInt("worker.max_retries"),
		Concurrency:      v.GetInt("worker.concurrency"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitAndTrim(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		NotifyAddr:  v.GetString("email.notify_addr"),
		NotifyName:  v.GetString("email.notify_name"),
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
