package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pion/logging"
)

var (
	mu      sync.RWMutex
	factory = newFactory(logging.LogLevelInfo)
	global  = factory.NewLogger("server")
)

func newFactory(level logging.LogLevel) *logging.DefaultLoggerFactory {
	f := logging.NewDefaultLoggerFactory()
	f.Writer = os.Stdout
	f.DefaultLogLevel = level
	return f
}

// ParseLevel maps a LOG_LEVEL value onto a pion log level.
func ParseLevel(s string) (logging.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return logging.LogLevelInfo, nil
	case "error":
		return logging.LogLevelError, nil
	case "warn", "warning":
		return logging.LogLevelWarn, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "trace":
		return logging.LogLevelTrace, nil
	case "disabled", "off":
		return logging.LogLevelDisabled, nil
	default:
		return logging.LogLevelDisabled, fmt.Errorf("unknown log level %q", s)
	}
}

// SetLevel replaces the process-wide factory. Loggers obtained earlier keep
// their old level, so call it before constructing components.
func SetLevel(level logging.LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	factory = newFactory(level)
	global = factory.NewLogger("server")
}

// Scope returns a leveled logger tagged with the component name.
func Scope(name string) logging.LeveledLogger {
	mu.RLock()
	defer mu.RUnlock()
	return factory.NewLogger(name)
}

func Infof(format string, v ...interface{}) {
	mu.RLock()
	l := global
	mu.RUnlock()
	l.Infof(format, v...)
}

func Errorf(format string, v ...interface{}) {
	mu.RLock()
	l := global
	mu.RUnlock()
	l.Errorf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	Errorf(format, v...)
	os.Exit(1)
}
