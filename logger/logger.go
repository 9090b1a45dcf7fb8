package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const (
	FormatPretty = "pretty"
	BooleanTrue  = "true"
)

// Logger wraps zerolog.Logger with additional context.
type Logger struct {
	logger  zerolog.Logger
	service string
}

// Init initializes the global logger from config.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	globalLogger = New(&cfg, cfg.ServiceName)
}

// New creates a new logger instance with configuration.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger that writes to w instead of the configured output.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if isConsole(cfg.Format) {
		zl = newConsoleLogger(cfg, serviceName, w)
	} else {
		zl = zerolog.New(w)
	}
	zl = zl.Level(level)

	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}
	if serviceName != "" && !isConsole(cfg.Format) {
		zl = zl.With().Str("service", serviceName).Logger()
	}

	return &Logger{
		logger:  zl,
		service: serviceName,
	}
}

// NewDefault creates a logger with default configuration.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{
		Level:     "info",
		Format:    "console",
		Output:    "stderr",
		Timestamp: true,
	}
	return New(cfg, serviceName)
}

// NewFromEnv creates a logger configured from environment variables.
func NewFromEnv(serviceName string) *Logger {
	cfg := &Config{
		Level:     getEnvOrDefault("LOG_LEVEL", "info"),
		Format:    getEnvOrDefault("LOG_FORMAT", "console"),
		Output:    getEnvOrDefault("LOG_OUTPUT", "stderr"),
		NoColor:   getEnvOrDefault("LOG_NO_COLOR", "false") == BooleanTrue,
		Timestamp: getEnvOrDefault("LOG_TIMESTAMP", "true") == BooleanTrue,
	}
	return New(cfg, serviceName)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// WithContext returns a logger enriched with the trace id of the active span, if any.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return l
	}
	return &Logger{
		logger:  l.logger.With().Str(FieldTraceID, sc.TraceID().String()).Logger(),
		service: l.service,
	}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		logger:  l.logger.With().Str(FieldComponent, name).Logger(),
		service: l.service,
	}
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.logger.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return &Logger{logger: zc.Logger(), service: l.service}
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		logger:  l.logger.With().Err(err).Logger(),
		service: l.service,
	}
}

// GetLogger returns the underlying zerolog.Logger.
func (l *Logger) GetLogger() zerolog.Logger {
	return l.logger
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	event := l.logger.Debug()
	addFields(event, fields...)
	event.Msg(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	event := l.logger.Info()
	addFields(event, fields...)
	event.Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	event := l.logger.Warn()
	addFields(event, fields...)
	event.Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	event := l.logger.Error()
	addFields(event, fields...)
	event.Msg(msg)
}

// --- Global logger ---

var globalLogger *Logger

// SetGlobalLogger sets the global logger instance.
func SetGlobalLogger(l *Logger) { globalLogger = l }

// GetGlobalLogger returns the global logger, creating a default one if needed.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewDefault("")
	}
	return globalLogger
}

// Package-level convenience functions delegate to the global logger.

func Debug(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Error(msg, fields...)
}

// WithComponent returns a component-tagged logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

// --- internal helpers ---

func addFields(event *zerolog.Event, fields ...map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
}

func isConsole(format string) bool {
	f := strings.ToLower(format)
	return f == "" || f == "console" || f == FormatPretty
}

func outputWriter(output string) *os.File {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout
	default:
		return os.Stderr
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func newConsoleLogger(cfg *Config, serviceName string, w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i interface{}) string {
			lvl := levelTag(strings.ToUpper(fmt.Sprintf("%s", i)), cfg.NoColor)
			if len(serviceName) >= 3 {
				tag := strings.ToUpper(serviceName[:3])
				if !cfg.NoColor {
					return fmt.Sprintf("\033[34m[%s]\033[0m%s", tag, lvl)
				}
				return fmt.Sprintf("[%s]%s", tag, lvl)
			}
			return lvl
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
	})
}

var levelColors = map[string]string{
	"DEBUG": "\033[36m",
	"INFO":  "\033[32m",
	"WARN":  "\033[33m",
	"ERROR": "\033[31m",
	"FATAL": "\033[35m",
}

var levelShort = map[string]string{
	"TRACE": "TRC",
	"DEBUG": "DBG",
	"INFO":  "INF",
	"WARN":  "WRN",
	"ERROR": "ERR",
	"FATAL": "FTL",
}

func levelTag(lvl string, noColor bool) string {
	short, ok := levelShort[lvl]
	if !ok {
		short = lvl
	}
	color, ok := levelColors[lvl]
	if noColor || !ok {
		return "[" + short + "]"
	}
	return color + "[" + short + "]\033[0m"
}
