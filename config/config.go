package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type CheckerConfig struct {
	// Cmd is the external change-detection tool (e.g. "urlwatch").
	Cmd     string
	Args    []string
	WorkDir string
	Timeout time.Duration

	// CacheDB is the checker's own SQLite cache (optional; enables
	// `stats` and detailed reports when set and present).
	CacheDB string
}

type RetentionConfig struct {
	// MaxAgeDays 0 disables sweeping entirely.
	MaxAgeDays int
}

type ScheduleConfig struct {
	Interval time.Duration
}

type RabbitMQConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

type Config struct {
	AppName string
	AppEnv  string
	AppPort int

	LogLevel string

	// DataDir holds the run store and change history; LogDir holds
	// per-run output artifacts.
	DataDir   string
	LogDir    string
	SitesFile string

	Checker   CheckerConfig
	Retention RetentionConfig
	Schedule  ScheduleConfig

	// Postgres archive (optional; enabled only when DBHost + DBName are set).
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     int
	DBName     string

	// Redis status cache (optional; enabled only when RedisHost is set).
	RedisUser     string
	RedisPassword string
	RedisHost     string
	RedisPort     int
	RedisScheme   string

	RabbitMQ RabbitMQConfig
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "sitewatch-orchestrator")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("SITES_FILE", "urls2watch.yaml")

	v.SetDefault("CHECKER_CMD", "urlwatch")
	v.SetDefault("CHECKER_ARGS", "")
	v.SetDefault("CHECKER_TIMEOUT_SECONDS", 300)

	v.SetDefault("RETENTION_MAX_AGE_DAYS", 30)
	v.SetDefault("SCHEDULE_INTERVAL_MINUTES", 60)

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_SCHEME", "redis")

	v.SetDefault("RABBITMQ_EXCHANGE", "sitewatch")
	v.SetDefault("RABBITMQ_ROUTING_KEY", "run.completed")

	return v
}

func NewConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppName: v.GetString("APP_NAME"),
		AppEnv:  v.GetString("APP_ENV"),
		AppPort: v.GetInt("APP_PORT"),

		LogLevel: v.GetString("LOG_LEVEL"),

		DataDir:   v.GetString("DATA_DIR"),
		LogDir:    v.GetString("LOG_DIR"),
		SitesFile: v.GetString("SITES_FILE"),

		Checker: CheckerConfig{
			Cmd:     v.GetString("CHECKER_CMD"),
			Args:    splitArgs(v.GetString("CHECKER_ARGS")),
			WorkDir: v.GetString("CHECKER_WORKDIR"),
			Timeout: time.Duration(v.GetInt("CHECKER_TIMEOUT_SECONDS")) * time.Second,
			CacheDB: v.GetString("CHECKER_CACHE_DB"),
		},
		Retention: RetentionConfig{
			MaxAgeDays: v.GetInt("RETENTION_MAX_AGE_DAYS"),
		},
		Schedule: ScheduleConfig{
			Interval: time.Duration(v.GetInt("SCHEDULE_INTERVAL_MINUTES")) * time.Minute,
		},

		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetInt("DB_PORT"),
		DBName:     v.GetString("DB_NAME"),

		RedisUser:     v.GetString("REDIS_USER"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetInt("REDIS_PORT"),
		RedisScheme:   v.GetString("REDIS_SCHEME"),

		RabbitMQ: RabbitMQConfig{
			URL:        v.GetString("RABBITMQ_URL"),
			Exchange:   v.GetString("RABBITMQ_EXCHANGE"),
			RoutingKey: v.GetString("RABBITMQ_ROUTING_KEY"),
		},
	}

	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return Config{}, fmt.Errorf("invalid APP_PORT %d", cfg.AppPort)
	}
	if cfg.DBPort <= 0 || cfg.DBPort > 65535 {
		return Config{}, fmt.Errorf("invalid DB_PORT %d", cfg.DBPort)
	}
	if cfg.RedisPort <= 0 || cfg.RedisPort > 65535 {
		return Config{}, fmt.Errorf("invalid REDIS_PORT %d", cfg.RedisPort)
	}
	if strings.TrimSpace(cfg.Checker.Cmd) == "" {
		return Config{}, fmt.Errorf("missing CHECKER_CMD")
	}
	if cfg.Checker.Timeout <= 0 {
		return Config{}, fmt.Errorf("invalid CHECKER_TIMEOUT_SECONDS %d", int(cfg.Checker.Timeout/time.Second))
	}
	if cfg.Retention.MaxAgeDays < 0 {
		return Config{}, fmt.Errorf("invalid RETENTION_MAX_AGE_DAYS %d", cfg.Retention.MaxAgeDays)
	}
	if cfg.Schedule.Interval <= 0 {
		return Config{}, fmt.Errorf("invalid SCHEDULE_INTERVAL_MINUTES %d", int(cfg.Schedule.Interval/time.Minute))
	}

	return cfg, nil
}

// StorePath is the append-only run record file.
func (c Config) StorePath() string {
	return filepath.Join(c.DataDir, "runs.jsonl")
}

// LockPath is the mutual-exclusion marker preventing overlapping runs.
func (c Config) LockPath() string {
	return filepath.Join(c.DataDir, "run.lock")
}

// ChangesPath is the per-site change history file.
func (c Config) ChangesPath() string {
	return filepath.Join(c.DataDir, "changes_history.json")
}

func splitArgs(raw string) []string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
