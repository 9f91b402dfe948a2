// Package logger provides the logging interface shared by the plugin, its
// host bridge and the CLI. The concrete backend is zerolog, writing either to
// a rotating log file (plugin mode, where stdout belongs to nobody) or to a
// console writer (CLI commands).
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines the interface for logging across all plugin components.
type Logger interface {
	// Info logs an informational message (e.g., "authenticated as 12345").
	Info(format string, args ...interface{})

	// Warning logs a warning message (e.g., "stored session rejected").
	Warning(format string, args ...interface{})

	// Error logs an error message (e.g., "host connection closed: EOF").
	Error(format string, args ...interface{})

	// Debug logs a diagnostic message that is dropped unless debug output is enabled.
	Debug(format string, args ...interface{})

	// Close releases resources held by the logger (e.g., the log file handle).
	// Safe to call multiple times. Returns nil for loggers without resources.
	Close() error
}

// ZeroLogger backs Logger with a zerolog.Logger.
type ZeroLogger struct {
	log    zerolog.Logger
	closer io.Closer
}

// NewConsoleLogger writes human readable lines to w. Used by CLI commands.
func NewConsoleLogger(w io.Writer, debug bool) *ZeroLogger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}
	return &ZeroLogger{log: zerolog.New(out).Level(level(debug)).With().Timestamp().Logger()}
}

// FileOptions configures NewFileLogger.
type FileOptions struct {
	// Path is the log file location. Parent directories are created.
	Path string
	// Debug enables debug level output.
	Debug bool
	// MaxSizeMB is the size at which the file is rotated. Defaults to 5.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept. Defaults to 3.
	MaxBackups int
}

// NewFileLogger writes JSON lines to a size-rotated file. Used in plugin
// mode, where the host owns the process and nothing reads stdout.
func NewFileLogger(opts FileOptions) (*ZeroLogger, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("logger: empty log file path")
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 5
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 3
	}
	lj := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}
	// lumberjack opens lazily; write a line now so an unwritable path fails here.
	if _, err := fmt.Fprintf(lj, "{\"level\":\"info\",\"pid\":%d,\"message\":\"log opened\"}\n", os.Getpid()); err != nil {
		return nil, fmt.Errorf("logger: open %s: %w", opts.Path, err)
	}
	zl := zerolog.New(lj).Level(level(opts.Debug)).With().Timestamp().Logger()
	return &ZeroLogger{log: zl, closer: lj}, nil
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// With returns a child logger that tags every line with component=name.
func (z *ZeroLogger) With(component string) *ZeroLogger {
	return &ZeroLogger{log: z.log.With().Str("component", component).Logger()}
}

func (z *ZeroLogger) Info(format string, args ...interface{}) {
	z.log.Info().Msgf(format, args...)
}

func (z *ZeroLogger) Warning(format string, args ...interface{}) {
	z.log.Warn().Msgf(format, args...)
}

func (z *ZeroLogger) Error(format string, args ...interface{}) {
	z.log.Error().Msgf(format, args...)
}

func (z *ZeroLogger) Debug(format string, args ...interface{}) {
	z.log.Debug().Msgf(format, args...)
}

// Close closes the underlying file, if any. Child loggers created with With
// never own the file.
func (z *ZeroLogger) Close() error {
	if z.closer == nil {
		return nil
	}
	c := z.closer
	z.closer = nil
	return c.Close()
}

// NopLogger is a logger that discards all messages.
// Useful for testing or when logging should be disabled.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Debug(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// Ensure implementations satisfy the Logger interface.
var (
	_ Logger = (*ZeroLogger)(nil)
	_ Logger = (*NopLogger)(nil)
)

// MockLogger implements Logger for testing purposes.
// It records all log calls for verification in tests.
type MockLogger struct {
	mu           sync.Mutex
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	DebugCalls   []string
	CloseCalled  bool
}

// NewMockLogger creates a new MockLogger for testing.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DebugCalls = append(m.DebugCalls, fmt.Sprintf(format, args...))
}

// Close records that Close was called.
func (m *MockLogger) Close() error {
	m.CloseCalled = true
	return nil
}

var _ Logger = (*MockLogger)(nil)
