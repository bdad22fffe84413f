/**
 * Configuration for the bill analysis service
 *
 * Loads configuration from environment variables once at startup. Nothing in
 * the pipeline reads the environment at call time; components receive the
 * values they need through their constructors.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds service configuration
type Config struct {
	// HTTP server
	Port          int
	MaxUploadSize int64

	// Generation service (Gemini)
	GeminiAPIKey        string
	GeminiModel         string
	GenerationTimeoutMs int
	MaxOutputTokens     int
	Temperature         float64

	// Tesseract configuration; empty means platform discovery
	TessdataPrefix string

	// Scorer weights; empty means built-in defaults
	ScorerWeightsPath string

	// Temporary directory for uploaded documents
	TempDir string

	// Logging
	LogLevel  string
	LogPretty bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnvAsIntOrDefault("PORT", 8080),
		MaxUploadSize:       getEnvAsInt64OrDefault("MAX_UPLOAD_SIZE", 20971520), // 20MB
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GenerationTimeoutMs: getEnvAsIntOrDefault("GENERATION_TIMEOUT_MS", 60000),
		MaxOutputTokens:     getEnvAsIntOrDefault("MAX_OUTPUT_TOKENS", 5000),
		Temperature:         getEnvAsFloatOrDefault("TEMPERATURE", 0.3),
		TessdataPrefix:      getEnvOrDefault("TESSDATA_PREFIX", ""),
		ScorerWeightsPath:   getEnvOrDefault("SCORER_WEIGHTS_PATH", ""),
		TempDir:             getEnvOrDefault("TEMP_DIR", os.TempDir()),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogPretty:           getEnvAsBoolOrDefault("LOG_PRETTY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}

	if c.GenerationTimeoutMs < 1000 {
		return fmt.Errorf("GENERATION_TIMEOUT_MS must be at least 1000, got %d", c.GenerationTimeoutMs)
	}

	if c.MaxOutputTokens < 256 {
		return fmt.Errorf("MAX_OUTPUT_TOKENS must be at least 256, got %d", c.MaxOutputTokens)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("TEMPERATURE must be between 0 and 2, got %v", c.Temperature)
	}

	if c.MaxUploadSize < 1024 || c.MaxUploadSize > 1073741824 { // 1KB to 1GB
		return fmt.Errorf("MAX_UPLOAD_SIZE must be between 1KB and 1GB, got %d", c.MaxUploadSize)
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
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

// getEnvAsInt64OrDefault gets environment variable as int64 or returns default
func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBoolOrDefault gets environment variable as bool or returns default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
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

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
