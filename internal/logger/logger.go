// Package logger configures zerolog for the command line tools and bridges
// it to the comparison engine's printf-style logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // trace, debug, info, warn, error
	Format     string // json, console
	TimeFormat string
	Output     string    // stdout, stderr, or file path
	Writer     io.Writer // overrides Output when set
}

// DefaultConfig logs info and above to stderr so stdout stays clean for reports.
func DefaultConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     "stderr",
	}
}

// Setup initializes the global logger.
func Setup(config LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	output := config.Writer
	if output == nil {
		switch config.Output {
		case "", "stderr":
			output = os.Stderr
		case "stdout":
			output = os.Stdout
		default:
			file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			output = file
		}
	}

	switch strings.ToLower(config.Format) {
	case "json":
	case "", "console":
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: config.TimeFormat, NoColor: config.Writer != nil}
	default:
		return fmt.Errorf("invalid log format %q", config.Format)
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return nil
}

// WithComponent returns a logger with a component field
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// EngineAdapter exposes a zerolog logger through the Debugf/Infof/Warnf/Errorf contract.
type EngineAdapter struct {
	Logger zerolog.Logger
}

// NewEngineAdapter wraps the global logger tagged with component.
func NewEngineAdapter(component string) *EngineAdapter {
	return &EngineAdapter{Logger: WithComponent(component)}
}

func (a *EngineAdapter) Debugf(format string, args ...any) { a.Logger.Debug().Msgf(format, args...) }
func (a *EngineAdapter) Infof(format string, args ...any)  { a.Logger.Info().Msgf(format, args...) }
func (a *EngineAdapter) Warnf(format string, args ...any)  { a.Logger.Warn().Msgf(format, args...) }
func (a *EngineAdapter) Errorf(format string, args ...any) { a.Logger.Error().Msgf(format, args...) }
