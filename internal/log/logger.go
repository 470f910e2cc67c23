package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/footprint-tools/cmdr/internal/domain"
)

// Level representa el nivel de severidad del log
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level.
// Valid values: "debug", "info", "warn", "error" (case insensitive).
// Returns LevelWarn if the string is not recognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// sink es el destino compartido entre un logger y sus derivados (With)
type sink struct {
	mu      sync.Mutex
	out     io.Writer
	closer  io.Closer
	enabled bool
}

// Logger escribe líneas con nivel, de forma thread-safe.
// Los loggers derivados con With comparten el mismo destino.
type Logger struct {
	sink     *sink
	minLevel Level
	prefix   string
	now      func() time.Time
}

var (
	defaultLogger   *Logger
	defaultLoggerMu sync.RWMutex
	once            sync.Once
)

// Init inicializa el logger global con el archivo especificado
func Init(logPath string, minLevel Level) error {
	var err error
	once.Do(func() {
		var l *Logger
		l, err = New(logPath, minLevel)
		if err == nil {
			SetDefault(l)
		}
	})
	return err
}

// SetDefault reemplaza el logger global (nil lo desactiva)
func SetDefault(l *Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = l
}

// New crea un nuevo logger que escribe al archivo especificado
func New(logPath string, minLevel Level) (*Logger, error) {
	// Crear directorio si no existe con permisos restrictivos
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	if info, err := os.Stat(logPath); err == nil {
		if info.Mode().Perm() != 0600 {
			if err := os.Chmod(logPath, 0600); err != nil {
				return nil, fmt.Errorf("chmod existing log file: %w", err)
			}
		}
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := NewTo(file, minLevel)
	l.sink.closer = file
	return l, nil
}

// NewTo crea un logger sobre cualquier io.Writer (stderr, buffers de test)
func NewTo(w io.Writer, minLevel Level) *Logger {
	return &Logger{
		sink:     &sink{out: w, enabled: true},
		minLevel: minLevel,
		now:      time.Now,
	}
}

// With devuelve un logger derivado que antepone key=value a cada mensaje
func (l *Logger) With(key string, value any) *Logger {
	if l == nil {
		return nil
	}
	child := *l
	child.prefix = l.prefix + fmt.Sprintf("%s=%v ", key, value)
	return &child
}

// Close cierra el logger
func (l *Logger) Close() error {
	if l == nil || l.sink == nil || l.sink.closer == nil {
		return nil
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	err := l.sink.closer.Close()
	l.sink.closer = nil
	l.sink.enabled = false
	return err
}

// SetEnabled habilita o deshabilita el logging
func (l *Logger) SetEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.enabled = enabled
}

// log escribe un mensaje con el nivel especificado
func (l *Logger) log(level Level, format string, args ...any) {
	if l == nil || level < l.minLevel {
		return
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if !l.sink.enabled {
		return
	}

	timestamp := l.now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("[%s] %s: %s%s\n", timestamp, level.String(), l.prefix, message)

	if _, err := io.WriteString(l.sink.out, logLine); err != nil {
		if level >= LevelError {
			fmt.Fprintf(os.Stderr, "logger: write failed: %v (message: %s)\n", err, message)
		}
	}
}

// Debug escribe un mensaje de debug
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info escribe un mensaje informativo
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn escribe un warning
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error escribe un error
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Funciones de conveniencia para el logger global

func current() *Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// Debug escribe un mensaje de debug al logger global
func Debug(format string, args ...any) {
	current().Debug(format, args...)
}

// Info escribe un mensaje informativo al logger global
func Info(format string, args ...any) {
	current().Info(format, args...)
}

// Warn escribe un warning al logger global
func Warn(format string, args ...any) {
	current().Warn(format, args...)
}

// Error escribe un error al logger global
func Error(format string, args ...any) {
	current().Error(format, args...)
}

// Close cierra el logger global
func Close() error {
	return current().Close()
}

// Default retorna el logger global como domain.Logger (NopLogger si no se inicializó)
func Default() domain.Logger {
	if l := current(); l != nil {
		return l
	}
	return NopLogger{}
}

// NopLogger is a logger that discards all messages.
// Useful for testing or when logging is disabled.
type NopLogger struct{}

func (NopLogger) Debug(_ string, _ ...any) {}
func (NopLogger) Info(_ string, _ ...any)  {}
func (NopLogger) Warn(_ string, _ ...any)  {}
func (NopLogger) Error(_ string, _ ...any) {}
func (NopLogger) Close() error             { return nil }

// Verify Logger implements domain.Logger
var _ domain.Logger = (*Logger)(nil)
var _ domain.Logger = NopLogger{}
