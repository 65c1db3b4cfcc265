package entry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// combinedTimePattern matches combined time duration in XhYm format (e.g., "1h30m", "2h15m")
var combinedTimePattern = regexp.MustCompile(`^(\d+)h(\d+)m$`)

// timePattern matches time duration in Yh (hours), Ym (minutes) or Ys (seconds) format
var timePattern = regexp.MustCompile(`^(\d+)(h|m|s)$`)

// clockPattern matches H:MM:SS, M:SS or plain seconds
var clockPattern = regexp.MustCompile(`^\d+(:\d+){0,2}$`)

// MaxDurationSeconds is the maximum allowed duration for a manually added entry (24 hours)
const MaxDurationSeconds = 24 * 60 * 60

// ParseDuration parses a manually entered duration and returns seconds.
// Valid inputs: "2h" (7200), "30m" (1800), "1h30m" (5400), "1:02:03" (3723), "5:00" (300)
// Invalid inputs: "invalid", "0h", "0:00", values exceeding 24h
func ParseDuration(input string) (seconds float64, err error) {
	input = strings.TrimSpace(strings.ToLower(input))

	var total int
	switch {
	case combinedTimePattern.MatchString(input):
		m := combinedTimePattern.FindStringSubmatch(input)
		hours, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		total = (hours*60 + mins) * 60
	case timePattern.MatchString(input):
		m := timePattern.FindStringSubmatch(input)
		value, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "h":
			total = value * 3600
		case "m":
			total = value * 60
		default:
			total = value
		}
	case clockPattern.MatchString(input):
		parts := strings.Split(input, ":")
		for _, p := range parts {
			n, _ := strconv.Atoi(p)
			total = total*60 + n
		}
	default:
		return 0, fmt.Errorf("invalid time format: expected Xh, Xm, XhYm or H:MM:SS, got %s", input)
	}

	if total == 0 {
		return 0, fmt.Errorf("invalid duration: duration cannot be zero")
	}
	if total > MaxDurationSeconds {
		return 0, fmt.Errorf("invalid duration: exceeds maximum of 24 hours")
	}
	return float64(total), nil
}

// ContainsSeparator reports whether s would corrupt a persisted line.
func ContainsSeparator(s string) bool {
	return strings.Contains(s, FieldSeparator)
}
