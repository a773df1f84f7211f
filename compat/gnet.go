package compat

import (
	"fmt"
	"os"

	"github.com/lixenwraith/sinklog"
)

// GnetAdapter wraps sinklog.Logger to implement gnet logging.Logger interface
type GnetAdapter struct {
	logger       *sinklog.Logger
	namespace    sinklog.Namespace
	hostName     string
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *sinklog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger:    logger,
		namespace: sinklog.NamespaceNet,
		fatalHandler: func(msg string) {
			// Buffered sinks must reach disk before the process ends
			_ = logger.Close()
			os.Exit(1)
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetNamespace tags gnet records with ns instead of NET
func WithGnetNamespace(ns sinklog.Namespace) GnetOption {
	return func(a *GnetAdapter) {
		a.namespace = ns
	}
}

// WithGnetHost attaches a host name to every gnet record
func WithGnetHost(host string) GnetOption {
	return func(a *GnetAdapter) {
		a.hostName = host
	}
}

func (a *GnetAdapter) log(level sinklog.Level, format string, args []any) string {
	msg := fmt.Sprintf(format, args...)
	if a.hostName != "" {
		a.logger.Log(level, a.namespace, msg, sinklog.WithHostName(a.hostName))
	} else {
		a.logger.Log(level, a.namespace, msg)
	}
	return msg
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.log(sinklog.LevelDebug, format, args)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.log(sinklog.LevelInfo, format, args)
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.log(sinklog.LevelWarn, format, args)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.log(sinklog.LevelError, format, args)
}

// Fatalf logs at fatal level and triggers fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := a.log(sinklog.LevelFatal, format, args)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
