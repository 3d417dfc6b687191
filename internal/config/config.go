package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration. Values come from environment
// variables with sensible local-first defaults; an optional YAML file
// (MEDICAL_CONTROL_CONFIG) can override the environment.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"ssl_mode"`
	} `yaml:"database"`

	Auth struct {
		AppKey        string        `yaml:"app_key"`
		SessionSecret string        `yaml:"session_secret"`
		SessionTTL    time.Duration `yaml:"session_ttl"`
	} `yaml:"auth"`

	RabbitMQURL    string `yaml:"rabbitmq_url"`
	AllowedOrigins string `yaml:"allowed_origins"`
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from the environment, then applies overrides
// from the YAML file named by MEDICAL_CONTROL_CONFIG if one is set.
func Load() (Config, error) {
	var cfg Config

	cfg.ListenAddr = getenv("LISTEN_ADDR", "127.0.0.1:8080")

	cfg.Database.Host = getenv("DB_HOST", "localhost")
	cfg.Database.Port = getenv("DB_PORT", "5432")
	cfg.Database.User = getenv("DB_USER", "medicalcontrol")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = getenv("DB_NAME", "medicalcontrol")
	cfg.Database.SSLMode = getenv("DB_SSLMODE", "disable")

	cfg.Auth.AppKey = getenv("APP_KEY", "dev-app-key")
	cfg.Auth.SessionSecret = getenv("SESSION_SECRET", "dev-session-secret")
	cfg.Auth.SessionTTL = 12 * time.Hour
	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		if ttl, err := time.ParseDuration(ttlStr); err == nil {
			cfg.Auth.SessionTTL = ttl
		}
	}

	cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")
	cfg.AllowedOrigins = getenv("ALLOWED_ORIGINS", "http://localhost:3000")

	if path := os.Getenv("MEDICAL_CONTROL_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		log.Printf("Loaded configuration overrides from %s", path)
	}

	return cfg, nil
}

// DSN builds the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode,
	)
}
