// Package csvline splits and joins single lines of comma-separated values
// using doubled-quote escaping. Quoted fields cannot span lines.
package csvline

import "strings"

const (
	quote     = '"'
	separator = ','
)

// Split breaks line into fields. It never fails: an unterminated quote
// simply runs to the end of the line. The result has at least one field.
func Split(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == quote:
			if inQuotes && i+1 < len(line) && line[i+1] == quote {
				field.WriteByte(quote)
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == separator && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}

	return append(fields, field.String())
}

// Quote wraps v in double quotes, doubling any quote inside it.
func Quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// Join quotes every value and joins them with commas.
func Join(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Quote(v)
	}
	return strings.Join(quoted, string(separator))
}
