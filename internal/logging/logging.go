// Package logging implements the activity log: one append-only text file per
// calendar day in a configurable directory, with errors echoed to the console.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultDirectory is used until the settings document names another one.
	DefaultDirectory = "logs"

	fileDateFormat  = "20060102"
	timestampLayout = "2006-01-02 15:04:05.000"
	fieldSeparator  = " - "
)

var lineBreaks = strings.NewReplacer("\r\n", " | ", "\n", " | ", "\r", " | ")

// Option configures a Logger.
type Option func(*Logger)

// WithConsole sets where error entries are echoed. Defaults to stderr.
func WithConsole(w io.Writer) Option {
	return func(l *Logger) {
		l.console = zapcore.Lock(zapcore.AddSync(w))
	}
}

// WithClock replaces the time source used for timestamps and file names.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// Logger writes leveled, timestamped lines to <dir>/<YYYYMMDD>.log.
// Logging calls never fail the caller.
type Logger struct {
	mu      sync.Mutex
	dir     string
	day     string
	file    *os.File
	zl      *zap.Logger
	console zapcore.WriteSyncer
	now     func() time.Time
}

// New creates a Logger targeting dir. If the directory cannot be prepared the
// Logger still works, writing errors to the console only.
func New(dir string, opts ...Option) *Logger {
	l := &Logger{
		console: zapcore.Lock(os.Stderr),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.zl = l.build(nil)

	if err := l.SetDirectory(dir); err != nil {
		fmt.Fprintf(l.console, "activity log unavailable: %v\n", err)
	}
	return l
}

// Directory returns the directory currently receiving log files.
func (l *Logger) Directory() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dir
}

// SetDirectory creates dir if needed and reopens today's log file inside it.
// On failure the previous target stays active.
func (l *Logger) SetDirectory(dir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reopen(dir)
}

// Error logs msg at ERROR level, followed by details when present, and echoes
// the entry to the console.
func (l *Logger) Error(msg string, details ...string) {
	if d := strings.TrimSpace(strings.Join(details, " ")); d != "" {
		msg = msg + ": Details: " + d
	}
	l.write(zapcore.ErrorLevel, msg)
}

// Info logs msg at INFO level.
func (l *Logger) Info(msg string) {
	l.write(zapcore.InfoLevel, msg)
}

// Debug logs msg at DEBUG level.
func (l *Logger) Debug(msg string) {
	l.write(zapcore.DebugLevel, msg)
}

// Close flushes and closes the current log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.zl.Sync()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.zl = l.build(nil)
	return err
}

func (l *Logger) write(level zapcore.Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(l.console, "activity log: dropped entry: %v\n", r)
		}
	}()

	if l.dir != "" && l.now().Format(fileDateFormat) != l.day {
		if err := l.reopen(l.dir); err != nil {
			fmt.Fprintf(l.console, "activity log: %v\n", err)
		}
	}

	if ce := l.zl.Check(level, lineBreaks.Replace(msg)); ce != nil {
		ce.Write()
	}
}

// reopen must be called with l.mu held.
func (l *Logger) reopen(dir string) error {
	if dir == "" {
		return fmt.Errorf("log directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}

	day := l.now().Format(fileDateFormat)
	path := filepath.Join(dir, day+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", path, err)
	}

	if l.file != nil {
		_ = l.zl.Sync()
		_ = l.file.Close()
	}
	l.file = file
	l.dir = dir
	l.day = day
	l.zl = l.build(file)
	return nil
}

// build tees a DEBUG-and-up file core with an ERROR-only console core.
func (l *Logger) build(file *os.File) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(timestampLayout),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: fieldSeparator,
	})

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, l.console, zapcore.ErrorLevel),
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), zapcore.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...), zap.WithClock(clock{now: l.now}))
}

type clock struct {
	now func() time.Time
}

func (c clock) Now() time.Time { return c.now() }

func (c clock) NewTicker(d time.Duration) *time.Ticker { return time.NewTicker(d) }
