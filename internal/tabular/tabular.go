// Package tabular parses comma-delimited text into raw field rows.
package tabular

import "strings"

// Parse splits raw delimited text into rows of trimmed fields. A double
// quote toggles the in-quotes state, so a comma inside a quoted span stays
// part of its field. There is no escape handling: an embedded literal quote
// simply toggles the state again. Blank lines produce no row, so a blank
// document yields zero rows.
func Parse(text string) [][]string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return [][]string{}
	}

	lines := strings.Split(trimmed, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitLine(line))
	}

	return rows
}

func splitLine(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))

	return fields
}
