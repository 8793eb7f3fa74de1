package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	log = zerolog.Nop()

	logFile *os.File
)

// InitLogging sets up file-backed logging. The debug flag lowers the level
// so that per-line pipeline events are recorded.
func InitLogging(debugMode bool, logPath string) error {
	if logPath == "" {
		return nil
	}

	logDir := filepath.Dir(logPath)
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	level := zerolog.InfoLevel
	if debugMode {
		level = zerolog.DebugLevel
	}

	logFile = f
	log = zerolog.New(f).Level(level).With().Timestamp().Logger()

	return nil
}

// Close closes the log file if open.
func Close() {
	if logFile != nil {
		logFile.Close()
	}
}

func Infof(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

// Errorf logs an error message to the file.
func Errorf(format string, v ...any) {
	log.Error().Msgf(format, v...)
}

func Debugf(format string, v ...any) {
	log.Debug().Msgf(format, v...)
}

func Warnf(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}
