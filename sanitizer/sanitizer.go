// Package sanitizer rewrites untrusted text before it is embedded in a log line.
// Rules pair a filter mask (which runes match) with a transform (what replaces them),
// so a message can never split one record across several lines.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes not printable per strconv.IsPrint
	FilterControl                         // unicode.IsControl
	FilterLineBreak                       // '\n', '\r', U+0085, U+2028, U+2029
)

// Transform flags
const (
	TransformStrip     uint64 = 1 << iota // Drop the rune
	TransformHexEncode                    // Replace with "<xx..>" of the UTF-8 bytes
	TransformSpace                        // Replace with a single space
)

// PolicyPreset names a pre-configured rule set
type PolicyPreset string

const (
	PolicyRaw  PolicyPreset = "raw"  // Passthrough
	PolicyTxt  PolicyPreset = "txt"  // Hex-encode everything non-printable
	PolicyLine PolicyPreset = "line" // Hex-encode line breaks only
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:  {},
	PolicyTxt:  {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyLine: {{filter: FilterLineBreak, transform: TransformHexEncode}},
}

var filterCheckers = map[uint64]func(rune) bool{
	FilterNonPrintable: func(r rune) bool { return !strconv.IsPrint(r) },
	FilterControl:      unicode.IsControl,
	FilterLineBreak: func(r rune) bool {
		switch r {
		case '\n', '\r', '\u0085', '\u2028', '\u2029':
			return true
		}
		return false
	},
}

// Sanitizer applies rules in insertion order; the first matching rule wins.
// A Sanitizer reuses an internal buffer and is not safe for concurrent use.
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a passthrough Sanitizer
func New() *Sanitizer {
	return &Sanitizer{
		rules: []rule{},
		buf:   make([]byte, 0, 256),
	}
}

// Rule appends a custom rule
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy appends the rules of a preset. Unknown presets are ignored.
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize returns data with all rules applied
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 || s.clean(data) {
		return data
	}
	s.buf = s.AppendSanitized(s.buf[:0], data)
	return string(s.buf)
}

// AppendSanitized appends the sanitized form of data to dst
func (s *Sanitizer) AppendSanitized(dst []byte, data string) []byte {
	if len(s.rules) == 0 {
		return append(dst, data...)
	}
	for _, r := range data {
		matched := false
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				dst = applyTransform(dst, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			dst = utf8.AppendRune(dst, r)
		}
	}
	return dst
}

// clean reports whether no rule matches any rune of data
func (s *Sanitizer) clean(data string) bool {
	for _, r := range data {
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				return false
			}
		}
	}
	return true
}

func matchesFilter(r rune, filterMask uint64) bool {
	for flag, checker := range filterCheckers {
		if (filterMask&flag) != 0 && checker(r) {
			return true
		}
	}
	return false
}

func applyTransform(buf []byte, r rune, transformMask uint64) []byte {
	switch {
	case (transformMask & TransformStrip) != 0:
		return buf

	case (transformMask & TransformHexEncode) != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		buf = append(buf, '<')
		buf = hex.AppendEncode(buf, runeBytes[:n])
		return append(buf, '>')

	case (transformMask & TransformSpace) != 0:
		return append(buf, ' ')
	}
	return utf8.AppendRune(buf, r)
}
