package domain

import "strings"

// SplitLine splits one line of comma-delimited text into trimmed fields.
// Double quotes toggle quoting and are dropped; commas inside quotes are kept.
// The last field is always emitted, so an empty line yields [""].
func SplitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}
