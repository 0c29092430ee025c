package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ncobase/staffing/config"
	"github.com/sirupsen/logrus"
)

// Key constants
const (
	VersionKey = "version"
	badKey     = "!BADKEY"
)

// Logger is a context-aware structured logger.
type Logger struct {
	*logrus.Logger
	version      string
	desensitizer *Desensitizer

	mu      sync.Mutex
	logFile *os.File
	logPath string
	stop    chan struct{}
	closed  sync.Once
}

// New creates a logger from configuration. The returned cleanup closes
// any file output and stops rotation.
func New(c *config.Logger) (*Logger, func(), error) {
	l := &Logger{Logger: logrus.New(), stop: make(chan struct{})}
	if c == nil {
		c = config.Default().Logger
	}

	l.SetLevel(logrus.Level(c.Level))

	switch c.Format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}

	switch c.Output {
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		l.logPath = c.OutputFile
		if l.logPath == "" {
			return nil, nil, fmt.Errorf("logger output file is required for file output")
		}
		if err := l.setupLogFile(); err != nil {
			return nil, nil, err
		}
		go l.periodicLogRotation()
	default:
		l.SetOutput(os.Stdout)
	}

	if c.Desensitize {
		l.desensitizer = NewDesensitizer(nil)
	}

	if c.Elasticsearch != nil && len(c.Elasticsearch.Addresses) > 0 {
		hook, err := NewElasticSearchHook(c.Elasticsearch, c.IndexName)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing Elasticsearch hook: %w", err)
		}
		l.AddHook(hook)
	}

	cleanup := func() {
		l.closed.Do(func() {
			close(l.stop)
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.logFile != nil {
				_ = l.logFile.Close()
			}
		})
	}
	return l, cleanup, nil
}

// NewWithWriter creates a JSON logger writing to w, used by tests and tools.
func NewWithWriter(w io.Writer, level logrus.Level) *Logger {
	l := &Logger{Logger: logrus.New(), stop: make(chan struct{}), desensitizer: NewDesensitizer(nil)}
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

// NewNop creates a logger that discards everything.
func NewNop() *Logger {
	return NewWithWriter(io.Discard, logrus.PanicLevel)
}

// SetVersion sets the version for logging
func (l *Logger) SetVersion(v string) {
	l.version = v
}

func (l *Logger) setupLogFile() error {
	if err := os.MkdirAll(filepath.Dir(l.logPath), 0o755); err != nil {
		return err
	}
	return l.rotateLog()
}

func (l *Logger) rotateLog() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		if err := l.logFile.Close(); err != nil {
			return err
		}
	}

	logFilePath := fmt.Sprintf("%s.%s.log", strings.TrimSuffix(l.logPath, ".log"), time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}

	l.logFile = f
	l.SetOutput(l.logFile)
	return nil
}

func (l *Logger) periodicLogRotation() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			if err := l.rotateLog(); err != nil {
				l.Logger.Errorf("Error rotating log: %v", err)
			}
		}
	}
}

// entryFromContext creates a new log entry with fields from context
func (l *Logger) entryFromContext(ctx context.Context, kv []any) *logrus.Entry {
	fields := logrus.Fields{}

	if traceID := getTraceID(ctx); traceID != "" {
		fields[traceKey] = traceID
	}
	if l.version != "" {
		fields[VersionKey] = l.version
	}

	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok || i+1 >= len(kv) {
			fields[badKey] = kv[i]
			continue
		}
		if err, isErr := kv[i+1].(error); isErr {
			fields[key] = err.Error()
			continue
		}
		fields[key] = kv[i+1]
	}

	if l.desensitizer != nil {
		fields = l.desensitizer.DesensitizeFields(fields)
	}
	return l.WithFields(fields)
}

func (l *Logger) log(ctx context.Context, level logrus.Level, msg string, kv ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.IsLevelEnabled(level) {
		return
	}
	l.entryFromContext(ctx, kv).Log(level, msg)
}

// Debug logs msg with key/value pairs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.DebugLevel, msg, kv...)
}

// Info logs msg with key/value pairs at info level.
func (l *Logger) Info(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.InfoLevel, msg, kv...)
}

// Warn logs msg with key/value pairs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.WarnLevel, msg, kv...)
}

// Error logs msg with key/value pairs at error level.
func (l *Logger) Error(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.ErrorLevel, msg, kv...)
}

// ApplyLevel changes the level at runtime, used on configuration reload.
func (l *Logger) ApplyLevel(level int) {
	l.SetLevel(logrus.Level(level))
}
