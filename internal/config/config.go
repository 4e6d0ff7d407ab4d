package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Analyzer AnalyzerConfig
	Scorer   ScorerConfig
	Batch    BatchConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	AuditCollection string
	RankCollection  string
	Timeout         time.Duration
}

// AnalyzerConfig holds page scraper configuration
type AnalyzerConfig struct {
	RequestTimeout time.Duration
	UserAgent      string
	MaxBodyBytes   int64
}

// ScorerConfig holds scoring configuration
type ScorerConfig struct {
	Language         string
	RequirementsFile string
}

// BatchConfig holds limits for auditing several URLs in one call
type BatchConfig struct {
	MaxConcurrent int64
	Delay         time.Duration
	MaxMemoryMB   int64
	MaxURLs       int
}

// New creates a new Config with values from environment variables
func New() (*Config, error) {
	readTimeout, err := strconv.Atoi(getEnv("READ_TIMEOUT", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := strconv.Atoi(getEnv("WRITE_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := strconv.Atoi(getEnv("SHUTDOWN_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	requestTimeout, err := strconv.Atoi(getEnv("REQUEST_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	maxBodyMB, err := strconv.ParseInt(getEnv("MAX_BODY_MB", "10"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_BODY_MB: %w", err)
	}

	mongoTimeout, err := strconv.Atoi(getEnv("MONGO_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONGO_TIMEOUT: %w", err)
	}

	maxConcurrent, err := strconv.ParseInt(getEnv("BATCH_MAX_CONCURRENT", "5"), 10, 64)
	if err != nil || maxConcurrent < 1 {
		return nil, fmt.Errorf("invalid BATCH_MAX_CONCURRENT: %w", errOrPositive(err))
	}

	delayMS, err := strconv.Atoi(getEnv("BATCH_DELAY_MS", "500"))
	if err != nil || delayMS < 0 {
		return nil, fmt.Errorf("invalid BATCH_DELAY_MS: %w", errOrPositive(err))
	}

	maxMemoryMB, err := strconv.ParseInt(getEnv("BATCH_MAX_MEMORY_MB", "512"), 10, 64)
	if err != nil || maxMemoryMB < 1 {
		return nil, fmt.Errorf("invalid BATCH_MAX_MEMORY_MB: %w", errOrPositive(err))
	}

	maxURLs, err := strconv.Atoi(getEnv("BATCH_MAX_URLS", "50"))
	if err != nil || maxURLs < 1 {
		return nil, fmt.Errorf("invalid BATCH_MAX_URLS: %w", errOrPositive(err))
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "9090"),
			ReadTimeout:     time.Duration(readTimeout) * time.Second,
			WriteTimeout:    time.Duration(writeTimeout) * time.Second,
			ShutdownTimeout: time.Duration(shutdownTimeout) * time.Second,
			AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		MongoDB: MongoDBConfig{
			URI:             getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
			Database:        getEnv("MONGO_DB", "page_quality"),
			AuditCollection: getEnv("MONGO_AUDIT_COLLECTION", "audits"),
			RankCollection:  getEnv("MONGO_RANK_COLLECTION", "rank_checks"),
			Timeout:         time.Duration(mongoTimeout) * time.Second,
		},
		Analyzer: AnalyzerConfig{
			RequestTimeout: time.Duration(requestTimeout) * time.Second,
			UserAgent:      getEnv("USER_AGENT", "PageQualityBot/1.0"),
			MaxBodyBytes:   maxBodyMB * 1024 * 1024,
		},
		Scorer: ScorerConfig{
			Language:         getEnv("SCORER_LANGUAGE", "en"),
			RequirementsFile: getEnv("REQUIREMENTS_FILE", ""),
		},
		Batch: BatchConfig{
			MaxConcurrent: maxConcurrent,
			Delay:         time.Duration(delayMS) * time.Millisecond,
			MaxMemoryMB:   maxMemoryMB,
			MaxURLs:       maxURLs,
		},
	}, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

var errNotPositive = errors.New("value out of range")

func errOrPositive(err error) error {
	if err != nil {
		return err
	}
	return errNotPositive
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
