package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr    string   `yaml:"http_addr"`
	CORSOrigins string   `yaml:"cors_origins"`
	DBDriver    string   `yaml:"db_driver"`
	DatabaseDSN string   `yaml:"database_dsn"`
	JWTSecret   string   `yaml:"jwt_secret"`
	JWTTTL      Duration `yaml:"jwt_ttl"`

	// Timezone defines where a calendar day starts and ends. Empty means server local time.
	Timezone   string `yaml:"timezone"`
	LateCutoff string `yaml:"late_cutoff"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisChannel  string `yaml:"redis_channel"`

	SMTPHost     string   `yaml:"smtp_host"`
	SMTPPort     int      `yaml:"smtp_port"`
	SMTPUser     string   `yaml:"smtp_user"`
	SMTPPassword string   `yaml:"smtp_password"`
	MailFrom     string   `yaml:"mail_from"`
	MailTo       []string `yaml:"mail_to"`

	SeedOwnerEmail    string `yaml:"seed_owner_email"`
	SeedOwnerPassword string `yaml:"seed_owner_password"`
}

// Duration lets YAML files use strings like "24h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func Default() Config {
	return Config{
		HTTPAddr:          ":3000",
		CORSOrigins:       "*",
		DBDriver:          "mysql",
		DatabaseDSN:       "root:@tcp(127.0.0.1:3306)/officehub?charset=utf8mb4&parseTime=True&loc=Local",
		JWTSecret:         "dev-secret",
		JWTTTL:            Duration(24 * time.Hour),
		LateCutoff:        "09:00",
		LogLevel:          "info",
		LogFormat:         "text",
		RedisChannel:      "officehub.events",
		SMTPPort:          587,
		SeedOwnerEmail:    "owner@officehub.local",
		SeedOwnerPassword: "owner123",
	}
}

// Load layers defaults, the optional YAML file at path, then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.HTTPAddr = GetEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.CORSOrigins = GetEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.DBDriver = GetEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseDSN = GetEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.JWTSecret = GetEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTTTL = Duration(GetEnvAsDuration("JWT_TTL", time.Duration(cfg.JWTTTL)))
	cfg.Timezone = GetEnv("TIMEZONE", cfg.Timezone)
	cfg.LateCutoff = GetEnv("LATE_CUTOFF", cfg.LateCutoff)
	cfg.LogLevel = GetEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = GetEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.RedisAddr = GetEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = GetEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisChannel = GetEnv("REDIS_CHANNEL", cfg.RedisChannel)
	cfg.SMTPHost = GetEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = GetEnvAsInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUser = GetEnv("SMTP_USER", cfg.SMTPUser)
	cfg.SMTPPassword = GetEnv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.MailFrom = GetEnv("MAIL_FROM", cfg.MailFrom)
	if to := GetEnv("MAIL_TO", ""); to != "" {
		cfg.MailTo = splitList(to)
	}
	cfg.SeedOwnerEmail = GetEnv("SEED_OWNER_EMAIL", cfg.SeedOwnerEmail)
	cfg.SeedOwnerPassword = GetEnv("SEED_OWNER_PASSWORD", cfg.SeedOwnerPassword)

	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	if _, _, err := cfg.Cutoff(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Cutoff returns the hour and minute of LateCutoff ("HH:MM").
func (c Config) Cutoff() (int, int, error) {
	t, err := time.Parse("15:04", c.LateCutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid LATE_CUTOFF %q: %w", c.LateCutoff, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
