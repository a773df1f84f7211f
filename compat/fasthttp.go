package compat

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/sinklog"
)

// FastHTTPAdapter wraps sinklog.Logger to implement fasthttp Logger interface
type FastHTTPAdapter struct {
	logger        *sinklog.Logger
	namespace     sinklog.Namespace
	defaultLevel  sinklog.Level
	levelDetector func(string) sinklog.Level // Function to detect log level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *sinklog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		namespace:     sinklog.NamespaceHTTP,
		defaultLevel:  sinklog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when detection finds nothing
func WithDefaultLevel(level sinklog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content.
// Returning 0 falls back to the default level.
func WithLevelDetector(detector func(string) sinklog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// WithHTTPNamespace tags fasthttp records with ns instead of HTTP
func WithHTTPNamespace(ns sinklog.Namespace) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.namespace = ns
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected.Valid() {
			level = detected
		}
	}

	a.logger.Log(level, a.namespace, msg)
}

// DetectLogLevel attempts to detect log level from message content
func DetectLogLevel(msg string) sinklog.Level {
	msgLower := strings.ToLower(msg)

	if strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return sinklog.LevelFatal
	}

	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") {
		return sinklog.LevelError
	}

	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return sinklog.LevelWarn
	}

	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return sinklog.LevelDebug
	}

	return sinklog.LevelInfo
}
