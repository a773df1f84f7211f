package sinklog

import (
	"strings"
)

// Level is the severity of a record. Higher priority means more severe.
type Level uint8

// Log level constants
const (
	LevelDebug Level = iota + 1
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// Levels lists every level in ascending priority
var Levels = []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal}

// Priority returns the numeric priority used for filtering
func (l Level) Priority() int {
	return int(l)
}

// Valid reports whether l is one of the declared levels
func (l Level) Valid() bool {
	return l >= LevelDebug && l <= LevelFatal
}

// String returns the upper-case level name
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
	case LevelFatal:
		return "FATAL"
	default:
		return "LEVEL(" + itoa(int(l)) + ")"
	}
}

// ParseLevel converts a level name to a Level, ignoring case and surrounding space
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warn, error, fatal)", s)
	}
}

// Namespace tags the part of the application a record comes from
type Namespace uint8

// Namespace constants
const (
	NamespaceAuth Namespace = iota + 1
	NamespaceCache
	NamespaceDB
	NamespaceSystem
	NamespaceHTTP
	NamespaceNet
)

// Valid reports whether n is one of the declared namespaces
func (n Namespace) Valid() bool {
	return n >= NamespaceAuth && n <= NamespaceNet
}

// String returns the upper-case namespace tag
func (n Namespace) String() string {
	switch n {
	case NamespaceAuth:
		return "AUTH"
	case NamespaceCache:
		return "CACHE"
	case NamespaceDB:
		return "DB"
	case NamespaceSystem:
		return "SYSTEM"
	case NamespaceHTTP:
		return "HTTP"
	case NamespaceNet:
		return "NET"
	default:
		return "NAMESPACE(" + itoa(int(n)) + ")"
	}
}

// ParseNamespace converts a tag to a Namespace, ignoring case and surrounding space
func ParseNamespace(s string) (Namespace, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AUTH":
		return NamespaceAuth, nil
	case "CACHE":
		return NamespaceCache, nil
	case "DB":
		return NamespaceDB, nil
	case "SYSTEM":
		return NamespaceSystem, nil
	case "HTTP":
		return NamespaceHTTP, nil
	case "NET":
		return NamespaceNet, nil
	default:
		return 0, fmtErrorf("invalid namespace: '%s' (use auth, cache, db, system, http, net)", s)
	}
}
