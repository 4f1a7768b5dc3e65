package common

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Upload UploadConfig
	OCR    OCRConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string
	CORSOrigins string
	LogLevel    string
}

// UploadConfig holds upload handling configuration
type UploadConfig struct {
	Dir      string
	MaxBytes int
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Language string
	DPI      int
	MaxPages int // 0 = no limit
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("ADDR", ":5000"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "./uploads"),
			MaxBytes: getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20),
		},
		OCR: OCRConfig{
			Language: getEnv("OCR_LANG", "eng"),
			DPI:      getEnvAsInt("OCR_DPI", 300),
			MaxPages: getEnvAsInt("OCR_MAX_PAGES", 0),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
