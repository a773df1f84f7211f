package sinklog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Diagnostic receives internal failures that are never returned to logging call sites
type Diagnostic func(format string, args ...any)

// stderrDiagnostic writes a "sinklog: " prefixed line to stderr
func stderrDiagnostic(format string, args ...any) {
	if !strings.HasPrefix(format, "sinklog: ") {
		format = "sinklog: " + format
	}
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// discardDiagnostic drops diagnostics
func discardDiagnostic(string, ...any) {}

// diagnosticOrDefault substitutes stderr output for a nil Diagnostic
func diagnosticOrDefault(d Diagnostic) Diagnostic {
	if d == nil {
		return stderrDiagnostic
	}
	return d
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "sinklog: ") {
		format = "sinklog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%w; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
