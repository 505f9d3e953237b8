package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return DEBUG
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// Logger provides printf-style, component-scoped logging.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type logger struct {
	sink      *sink
	component string
}

type sink struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
	file  *os.File
}

var (
	defaultSink *sink
	sinkOnce    sync.Once
)

func getSink() *sink {
	sinkOnce.Do(func() {
		defaultSink = &sink{level: INFO, out: os.Stderr}
	})
	return defaultSink
}

// SetLevel sets the minimum level emitted by component loggers.
func SetLevel(level Level) {
	s := getSink()
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
}

// EnableFile additionally mirrors log output to the given file, appending.
func EnableFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	s := getSink()
	s.mu.Lock()
	if s.file != nil {
		_ = s.file.Close()
	}
	s.file = file
	s.mu.Unlock()
	return nil
}

// NewComponentLogger returns the process logger scoped to a component name.
func NewComponentLogger(component string) Logger {
	return &logger{sink: getSink(), component: component}
}

func (l *logger) log(level Level, format string, args ...any) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if level < s.level {
		return
	}
	line := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05.000"),
		level, l.component, fmt.Sprintf(format, args...))
	if _, err := io.WriteString(s.out, line); err != nil {
		log.Printf("logging: write failed: %v", err)
	}
	if s.file != nil {
		_, _ = io.WriteString(s.file, line)
	}
}

func (l *logger) Debug(format string, args ...any) { l.log(DEBUG, format, args...) }
func (l *logger) Info(format string, args ...any)  { l.log(INFO, format, args...) }
func (l *logger) Warn(format string, args ...any)  { l.log(WARN, format, args...) }
func (l *logger) Error(format string, args ...any) { l.log(ERROR, format, args...) }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}
