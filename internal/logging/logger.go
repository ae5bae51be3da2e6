package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

var (
	// Logger is the shared structured logger for background components
	Logger *zap.Logger
	// Sugar is the sugared variant for printf-style call sites
	Sugar *zap.SugaredLogger
)

// Config holds logging configuration
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "console"
}

// Initialize sets up the global logger from LOG_LEVEL / LOG_FORMAT
func Initialize() error {
	return InitializeWithConfig(Config{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "console"),
	})
}

// InitializeWithConfig sets up the global logger with the given configuration
func InitializeWithConfig(config Config) error {
	var zapConfig zap.Config

	switch strings.ToLower(config.Format) {
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(strings.ToLower(config.Level))
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	logger, err := zapConfig.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return err
	}

	Logger = logger
	Sugar = logger.Sugar()
	return nil
}

// Sync flushes buffered log entries
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func init() {
	// Fall back to a no-op logger until Initialize is called
	Logger = zap.NewNop()
	Sugar = Logger.Sugar()
}
