package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-rotc/internal/shared/connection"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv string
	Port   string

	Database connection.PostgresConfig
	DBRetry  int

	RedisAddr   string
	KafkaBroker string

	Timezone           string
	GraceFraction      float64
	CountLate          bool
	AggregateCacheTTL  time.Duration
	SessionSweepPeriod time.Duration
	OutboxPollPeriod   time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "rotc")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_CONNECT_RETRIES", 5)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("TIMEZONE", "Asia/Manila")
	v.SetDefault("ATTENDANCE_GRACE_FRACTION", 0.5)
	v.SetDefault("ATTENDANCE_COUNT_LATE", true)
	v.SetDefault("ATTENDANCE_CACHE_TTL", 10*time.Minute)
	v.SetDefault("SESSION_SWEEP_INTERVAL", time.Minute)
	v.SetDefault("OUTBOX_POLL_INTERVAL", 3*time.Second)
	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("HTTP_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("HTTP_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func loadDotEnv() error {
	path := os.Getenv("DOTENV_PATH")
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("config.Getwd: %w", err)
		}
		path = filepath.Join(wd, ".env")
	}

	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config.godotenv(%s): %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("config.Stat(%s): %w", path, err)
	}
	return nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv: strings.ToLower(v.GetString("APP_ENV")),
		Port:   v.GetString("PORT"),
		Database: connection.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Port:     v.GetString("DB_PORT"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		DBRetry:            v.GetInt("DB_CONNECT_RETRIES"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		KafkaBroker:        v.GetString("KAFKA_BROKER"),
		Timezone:           v.GetString("TIMEZONE"),
		GraceFraction:      v.GetFloat64("ATTENDANCE_GRACE_FRACTION"),
		CountLate:          v.GetBool("ATTENDANCE_COUNT_LATE"),
		AggregateCacheTTL:  v.GetDuration("ATTENDANCE_CACHE_TTL"),
		SessionSweepPeriod: v.GetDuration("SESSION_SWEEP_INTERVAL"),
		OutboxPollPeriod:   v.GetDuration("OUTBOX_POLL_INTERVAL"),
		RateLimitRPS:       v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		ReadTimeout:        v.GetDuration("HTTP_READ_TIMEOUT"),
		WriteTimeout:       v.GetDuration("HTTP_WRITE_TIMEOUT"),
		IdleTimeout:        v.GetDuration("HTTP_IDLE_TIMEOUT"),
		ShutdownTimeout:    v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.GraceFraction <= 0 || c.GraceFraction > 1 {
		return fmt.Errorf("ATTENDANCE_GRACE_FRACTION must be within (0,1], got %v", c.GraceFraction)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	return nil
}

// Location resolves Timezone; Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
