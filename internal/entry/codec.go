package entry

import (
	"math"
	"strconv"
	"strings"

	"github.com/ptt-dev/ptt/internal/record"
)

// FieldSeparator is the token between fields of a persisted entry line.
const FieldSeparator = record.FieldSeparator

// entryFieldCount is the number of fields a line needs to be accepted.
const entryFieldCount = 4

// ParseResult contains the entries parsed from a text blob together with
// warnings about every line that was skipped or repaired.
type ParseResult struct {
	Entries  []TimeEntry
	Warnings []record.ParseWarning
}

// Parse decodes "project --- category --- duration --- startTime" lines.
// Lines with fewer than four fields are skipped. A duration that is not a
// finite number is treated as zero and reported.
func Parse(content string) ParseResult {
	result := ParseResult{
		Entries:  []TimeEntry{},
		Warnings: []record.ParseWarning{},
	}

	for _, line := range record.Lines(content) {
		fields := record.Fields(line.Text)
		if len(fields) < entryFieldCount {
			result.Warnings = append(result.Warnings, record.ParseWarning{
				LineNumber: line.Number,
				Content:    line.Text,
				Reason:     "expected 4 fields, got " + strconv.Itoa(len(fields)),
				Skipped:    true,
			})
			continue
		}

		duration, err := strconv.ParseFloat(fields[2], 64)
		if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) {
			result.Warnings = append(result.Warnings, record.ParseWarning{
				LineNumber: line.Number,
				Content:    line.Text,
				Reason:     "invalid duration " + strconv.Quote(fields[2]) + ", counted as 0",
			})
			duration = 0
		}

		result.Entries = append(result.Entries, TimeEntry{
			Project:   fields[0],
			Category:  fields[1],
			Duration:  duration,
			StartTime: fields[3],
		})
	}

	return result
}

// Format encodes entries one per line in store order, without a trailing
// newline.
func Format(entries []TimeEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = record.Join(e.Project, e.Category, FormatSeconds(e.Duration), e.StartTime)
	}
	return strings.Join(lines, "\n")
}

// FormatSeconds renders a duration as the shortest decimal that parses back
// to the same value ("600", "12.5").
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
