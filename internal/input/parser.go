package input

import "strings"

const (
	// Comma is the default field delimiter.
	Comma = ','

	// Tab is selected when the first line contains a tab character.
	Tab = '\t'
)

// Table is the result of parsing a delimited export.
type Table struct {
	// Header holds the fields of the first non-blank line.
	Header []string

	// Rows holds the fields of every following non-blank line. Rows are not
	// padded or truncated to the header length.
	Rows [][]string

	// Delimiter is the delimiter sniffed from the first line.
	Delimiter rune
}

// Field returns the value of column idx in row, or "" when the row is too
// short or idx is negative. A missing trailing field is treated as absent.
func Field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Parse splits decoded text into a header and data rows.
//
// Line endings are normalized, blank lines are dropped, and the delimiter is
// sniffed from the first line only: tab if present, comma otherwise. Text
// without any non-blank line yields an empty Table, not an error.
func Parse(text string) Table {
	lines := splitLines(text)
	if len(lines) == 0 {
		return Table{Header: []string{}, Rows: [][]string{}, Delimiter: Comma}
	}

	delim := rune(Comma)
	if strings.ContainsRune(lines[0], Tab) {
		delim = Tab
	}

	table := Table{
		Header:    SplitLine(lines[0], delim),
		Rows:      make([][]string, 0, len(lines)-1),
		Delimiter: delim,
	}
	for _, line := range lines[1:] {
		table.Rows = append(table.Rows, SplitLine(line, delim))
	}
	return table
}

// splitLines normalizes CRLF and bare CR to LF and drops blank lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// SplitLine splits one line on delim while honoring double quotes.
//
// A double quote toggles the quoted state. Inside quotes, a doubled quote is
// one literal quote and the delimiter is literal. Every field is trimmed of
// surrounding whitespace.
func SplitLine(line string, delim rune) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			field.WriteRune('"')
			i++
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))

	return fields
}
