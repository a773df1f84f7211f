package formatter

import "strings"

// patternTokens maps date pattern letter runs to Go reference layout fragments.
// Runs not listed fall back to the closest shorter entry for the same letter.
var patternTokens = map[string]string{
	"yyyy": "2006",
	"yy":   "06",
	"MMMM": "January",
	"MMM":  "Jan",
	"MM":   "01",
	"M":    "1",
	"dd":   "02",
	"d":    "2",
	"HH":   "15",
	"hh":   "03",
	"h":    "3",
	"mm":   "04",
	"m":    "4",
	"ss":   "05",
	"s":    "5",
	"EEEE": "Monday",
	"EEE":  "Mon",
	"a":    "PM",
	"z":    "MST",
	"Z":    "-0700",
	"XXX":  "Z07:00",
}

// Layout converts a date pattern such as "yyyy-MM-dd HH:mm:ss.SSS" into a Go time
// layout. Patterns that already contain the Go reference year are returned unchanged.
// Text between single quotes is copied literally; '' yields a single quote.
func Layout(pattern string) string {
	if strings.Contains(pattern, "2006") {
		return pattern
	}

	var sb strings.Builder
	sb.Grow(len(pattern) + 8)

	for i := 0; i < len(pattern); {
		c := pattern[i]

		if c == '\'' {
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				sb.WriteByte('\'')
				i += 2
				continue
			}
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				sb.WriteString(pattern[i+1:])
				break
			}
			sb.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}

		if !isPatternLetter(c) {
			sb.WriteByte(c)
			i++
			continue
		}

		j := i
		for j < len(pattern) && pattern[j] == c {
			j++
		}
		run := pattern[i:j]
		i = j

		// Fractional seconds: one zero per S
		if c == 'S' {
			sb.WriteString(strings.Repeat("0", len(run)))
			continue
		}

		sb.WriteString(tokenFor(run))
	}

	return sb.String()
}

func tokenFor(run string) string {
	for n := len(run); n > 0; n-- {
		if tok, ok := patternTokens[run[:n]]; ok {
			return tok
		}
	}
	return run
}

func isPatternLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
