package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/event-roster-api/internal/models"
)

// ErrInvalidFormat is returned when the input has no header row or no data
// rows. It is the only error the pipeline propagates as an error value;
// every other failure mode is reported per row downstream.
var ErrInvalidFormat = errors.New("file must contain a header row and at least one data row")

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	keyCharRe    = regexp.MustCompile(`[^a-z0-9_]`)
)

// Parse turns raw CSV text into an ordered sequence of raw records, one
// per data row. The first non-blank line is the header; blank lines are
// discarded. Malformed rows are repaired rather than rejected: rows
// shorter than the header are padded with empty fields, longer rows are
// truncated. Empty values are omitted from the record entirely, so
// absence and emptiness are indistinguishable downstream.
func Parse(csvText string) ([]models.RawRecord, error) {
	lines := nonBlankLines(csvText)
	if len(lines) < 2 {
		return nil, ErrInvalidFormat
	}

	headers := SplitLine(lines[0])
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = NormalizeKey(h)
	}

	records := make([]models.RawRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		records = append(records, buildRecord(keys, SplitLine(line)))
	}
	return records, nil
}

// SplitLine splits one CSV line on commas, honoring double quotes.
// A quote toggles quoting state unless doubled inside quotes, in which
// case a literal quote is emitted. Fields are trimmed of surrounding
// whitespace.
func SplitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}

// NormalizeKey converts a header label to its field key: lower-cased,
// runs of whitespace collapsed to a single underscore, anything outside
// [a-z0-9_] removed. "Phone Number" and "phone_number" resolve to the
// same key.
func NormalizeKey(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = whitespaceRe.ReplaceAllString(key, "_")
	return keyCharRe.ReplaceAllString(key, "")
}

// buildRecord applies row-shape repair and stores non-empty trimmed
// values under their normalized header keys, preserving column order.
func buildRecord(keys, values []string) models.RawRecord {
	if len(values) < len(keys) {
		padded := make([]string, len(keys))
		copy(padded, values)
		values = padded
	} else if len(values) > len(keys) {
		values = values[:len(keys)]
	}

	rec := models.NewRawRecord()
	for i, key := range keys {
		v := strings.TrimSpace(values[i])
		if v == "" {
			continue
		}
		rec.Set(key, v)
	}
	return rec
}

// nonBlankLines splits input on newlines and drops blank lines, keeping
// the remaining lines in input order.
func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
