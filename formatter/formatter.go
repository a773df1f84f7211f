// Package formatter renders log records as single text lines and parses them back.
//
// Line layout:
//
//	<timestamp> [<LEVEL>] [<NAMESPACE>] <message>[ (tid=<trackingId>)][ (host=<hostName>)]
package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/sinklog/sanitizer"
)

// DefaultPattern is the timestamp pattern used when none is configured
const DefaultPattern = "yyyy-MM-dd_HH-mm-ss"

const (
	trackingPrefix = " (tid="
	hostPrefix     = " (host="
)

// ErrMalformedLine is returned by Parse for lines not produced by Line
var ErrMalformedLine = errors.New("formatter: malformed log line")

// Formatter builds log lines into a reusable buffer.
// It is not safe for concurrent use; sinks call it under their own lock.
type Formatter struct {
	sanitizer *sanitizer.Sanitizer
	layout    string
	buf       []byte
}

// New creates a formatter for the given timestamp pattern.
// Without an explicit sanitizer, line breaks inside fields are hex-encoded.
func New(pattern string, s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New().Policy(sanitizer.PolicyLine)
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Formatter{
		sanitizer: san,
		layout:    Layout(pattern),
		buf:       make([]byte, 0, 512),
	}
}

// Layout returns the Go time layout used for timestamps
func (f *Formatter) Layout() string {
	return f.layout
}

// Timestamp formats ts with the configured layout
func (f *Formatter) Timestamp(ts time.Time) string {
	return ts.Format(f.layout)
}

// Line renders one record including the trailing newline.
// The returned slice is valid until the next call on f.
func (f *Formatter) Line(ts time.Time, level, namespace, content, trackingID, hostName string) []byte {
	f.buf = f.buf[:0]
	f.buf = ts.AppendFormat(f.buf, f.layout)
	f.buf = append(f.buf, " ["...)
	f.buf = append(f.buf, level...)
	f.buf = append(f.buf, "] ["...)
	f.buf = append(f.buf, namespace...)
	f.buf = append(f.buf, "] "...)
	f.buf = f.sanitizer.AppendSanitized(f.buf, content)
	if trackingID != "" {
		f.buf = append(f.buf, trackingPrefix...)
		f.buf = f.sanitizer.AppendSanitized(f.buf, trackingID)
		f.buf = append(f.buf, ')')
	}
	if hostName != "" {
		f.buf = append(f.buf, hostPrefix...)
		f.buf = f.sanitizer.AppendSanitized(f.buf, hostName)
		f.buf = append(f.buf, ')')
	}
	f.buf = append(f.buf, '\n')
	return f.buf
}

// Entry renders the compact "[LEVEL] [timestamp] - content" form without a newline
func (f *Formatter) Entry(ts time.Time, level, content string) string {
	f.buf = f.buf[:0]
	f.buf = append(f.buf, '[')
	f.buf = append(f.buf, level...)
	f.buf = append(f.buf, "] ["...)
	f.buf = ts.AppendFormat(f.buf, f.layout)
	f.buf = append(f.buf, "] - "...)
	f.buf = f.sanitizer.AppendSanitized(f.buf, content)
	return string(f.buf)
}

// Fields holds the parts recovered from a formatted line
type Fields struct {
	Timestamp  string
	Level      string
	Namespace  string
	Message    string
	TrackingID string
	HostName   string
}

var linePattern = regexp.MustCompile(`^(.*?) \[([A-Z]+)\] \[([A-Z]+)\] (.*)$`)

// Parse splits a line produced by Line back into its fields.
// A message that itself ends in a "(tid=...)" or "(host=...)" suffix is ambiguous.
func Parse(line string) (Fields, error) {
	line = strings.TrimRight(line, "\r\n")
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	fields := Fields{
		Timestamp: m[1],
		Level:     m[2],
		Namespace: m[3],
	}
	msg := m[4]
	if v, rest, ok := cutSuffixField(msg, hostPrefix); ok {
		fields.HostName, msg = v, rest
	}
	if v, rest, ok := cutSuffixField(msg, trackingPrefix); ok {
		fields.TrackingID, msg = v, rest
	}
	fields.Message = msg
	return fields, nil
}

// cutSuffixField extracts a trailing " (key=value)" group
func cutSuffixField(s, prefix string) (value, rest string, ok bool) {
	if !strings.HasSuffix(s, ")") {
		return "", s, false
	}
	idx := strings.LastIndex(s, prefix)
	if idx < 0 {
		return "", s, false
	}
	return s[idx+len(prefix) : len(s)-1], s[:idx], true
}

// AppendArgs appends args as space-separated text.
// Scalars use their natural form; structs, maps and slices are dumped with spew.
func AppendArgs(dst []byte, args ...any) []byte {
	for i, arg := range args {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = appendValue(dst, arg)
	}
	return dst
}

func appendValue(dst []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(dst, val...)
	case int:
		return strconv.AppendInt(dst, int64(val), 10)
	case int64:
		return strconv.AppendInt(dst, val, 10)
	case int32:
		return strconv.AppendInt(dst, int64(val), 10)
	case uint:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(dst, val, 10)
	case float32:
		return strconv.AppendFloat(dst, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(dst, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(dst, val)
	case nil:
		return append(dst, "nil"...)
	case time.Time:
		return val.AppendFormat(dst, time.RFC3339Nano)
	case time.Duration:
		return append(dst, val.String()...)
	case error:
		return append(dst, val.Error()...)
	case fmt.Stringer:
		return append(dst, val.String()...)
	case []byte:
		return append(dst, val...)
	default:
		var b bytes.Buffer
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(&b, val)
		return append(dst, bytes.TrimSpace(b.Bytes())...)
	}
}
