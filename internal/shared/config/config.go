package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	EventStore EventStoreConfig
	Auth       AuthConfig
	Lab        LabConfig
	Scorer     ScorerConfig
	Adherence  AdherenceConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// EventStoreConfig holds configuration for EventStoreDB.
type EventStoreConfig struct {
	// Host is the EventStoreDB server hostname
	Host string
	// Port is the gRPC port (default 2113)
	Port int
	// Insecure disables TLS (for development)
	Insecure bool
	// Username for authentication (optional)
	Username string
	// Password for authentication (optional)
	Password string
}

type AuthConfig struct {
	JWTSecret string
}

// LabConfig holds configuration for the hospital LIS adapter.
type LabConfig struct {
	// Enabled controls whether lab result polling is active
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	// PollInterval between LIS queries for new lipid panels
	PollInterval time.Duration
}

// ScorerConfig holds configuration for the external ML risk scorer.
type ScorerConfig struct {
	URL     string
	Enabled bool
}

// AdherenceConfig holds tunables for adherence scoring and escalation.
type AdherenceConfig struct {
	// WindowDays is the default trailing window for score computation
	WindowDays int
	// LowAdherenceThreshold is the 7-day overall score below which
	// low_adherence is flagged
	LowAdherenceThreshold float64
	// DecliningTrendDelta is the week-over-week drop (percentage points)
	// that flags declining_trend
	DecliningTrendDelta float64
	// MissedMedicationThreshold is the 7-day medication score below which
	// missed_medication is flagged for HIGH/URGENT patients
	MissedMedicationThreshold float64
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "cardiowell"),
			Password: getEnv("DB_PASSWORD", "cardiowell"),
			Database: getEnv("DB_NAME", "cardiowell"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		EventStore: EventStoreConfig{
			Host:     getEnv("EVENTSTORE_HOST", "localhost"),
			Port:     getEnvInt("EVENTSTORE_PORT", 2113),
			Insecure: getEnvBool("EVENTSTORE_INSECURE", true),
			Username: getEnv("EVENTSTORE_USERNAME", ""),
			Password: getEnv("EVENTSTORE_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
		},
		Lab: LabConfig{
			Enabled:      getEnvBool("LAB_ENABLED", false),
			Host:         getEnv("LAB_DB_HOST", "localhost"),
			Port:         getEnvInt("LAB_DB_PORT", 1433),
			User:         getEnv("LAB_DB_USER", "sa"),
			Password:     getEnv("LAB_DB_PASSWORD", ""),
			Database:     getEnv("LAB_DB_NAME", "LIS"),
			SSLMode:      getEnv("LAB_DB_SSLMODE", "disable"),
			PollInterval: getEnvDuration("LAB_POLL_INTERVAL", 5*time.Minute),
		},
		Scorer: ScorerConfig{
			URL:     getEnv("SCORER_URL", "http://localhost:5000"),
			Enabled: getEnvBool("SCORER_ENABLED", false),
		},
		Adherence: AdherenceConfig{
			WindowDays:                getEnvInt("ADHERENCE_WINDOW_DAYS", 30),
			LowAdherenceThreshold:     getEnvFloat("ADHERENCE_LOW_THRESHOLD", 50),
			DecliningTrendDelta:       getEnvFloat("ADHERENCE_TREND_DELTA", 20),
			MissedMedicationThreshold: getEnvFloat("ADHERENCE_MEDICATION_THRESHOLD", 60),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
