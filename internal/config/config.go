package config

import (
	"os"
	"path/filepath"
	"strconv"

	"mvcalc/internal/scoring"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	// Thresholds are the default scoring thresholds; command-line flags
	// override them per run.
	Thresholds scoring.Thresholds
	DataPath   string
	LogDir     string
	OutDir     string
	ListenAddr string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := os.Getenv("MV_DATA_PATH")
	if dataPath == "" {
		dataPath = "."
	}

	logDir := filepath.Join(dataPath, "logs")
	outDir := filepath.Join(dataPath, "out")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", outDir).Msg("Failed to create output directory")
	}

	cfg := &AppConfig{
		Thresholds: scoring.Thresholds{
			Sustain:   getEnvFloat("MV_SUSTAIN", 20.0),
			Peak:      getEnvFloat("MV_PEAK", 25.0),
			Tolerance: getEnvFloat("MV_TOLERANCE", 1.0),
		},
		DataPath:   dataPath,
		LogDir:     logDir,
		OutDir:     outDir,
		ListenAddr: getEnv("MV_LISTEN_ADDR", "127.0.0.1:8787"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
