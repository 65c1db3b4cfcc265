// Package record implements the line-oriented text layout shared by the
// entry and pool stores: one record per line, fields joined by a fixed
// separator token.
package record

import "strings"

// FieldSeparator delimits fields on a line. It is not escaped; a literal
// occurrence inside a field corrupts that line.
const FieldSeparator = " --- "

// ParseWarning describes a line that was dropped or repaired while parsing.
type ParseWarning struct {
	LineNumber int    // 1-indexed line within the parsed content
	Content    string // Raw line
	Reason     string // Why the line was dropped or repaired
	Skipped    bool   // true if the line produced no record
}

// Line is a non-blank input line with its position.
type Line struct {
	Number int
	Text   string
}

// Lines splits content into non-blank lines. Surrounding whitespace of the
// whole blob is trimmed first; line numbers refer to the trimmed blob.
func Lines(content string) []Line {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	raw := strings.Split(content, "\n")
	lines := make([]Line, 0, len(raw))
	for i, text := range raw {
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Text: text})
	}
	return lines
}

// Fields splits a line on FieldSeparator and trims every field.
func Fields(line string) []string {
	fields := strings.Split(line, FieldSeparator)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// Join renders fields as one line.
func Join(fields ...string) string {
	return strings.Join(fields, FieldSeparator)
}
