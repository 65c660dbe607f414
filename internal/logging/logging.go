// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// FormatEnv selects JSON output when set to "json".
const FormatEnv = "GRAVSIM_LOG_FORMAT"

var (
	mu  sync.RWMutex
	std = newLogger(logrus.WarnLevel)
)

func newLogger(level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	if strings.EqualFold(os.Getenv(FormatEnv), "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return l
}

// Init replaces the global logger. Diagnostics go to stderr so command
// output on stdout stays clean. Unknown levels fall back to warn.
func Init(level string) {
	l := newLogger(parseLevel(level))
	mu.Lock()
	std = l
	mu.Unlock()
}

func parseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}

// Get returns the global logger. It is usable before Init at warn level.
func Get() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// SetOutput redirects the global logger.
func SetOutput(w io.Writer) {
	Get().SetOutput(w)
}

// WithComponent returns an entry tagged with a component name.
func WithComponent(name string) *logrus.Entry {
	return Get().WithField("component", name)
}
