package ingest

import "errors"

// ErrUnterminatedQuote is returned when a quoted field never closes on its line
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// SplitLine splits one CSV line into fields. A double quote toggles quoted
// mode anywhere in a field; inside quotes commas are literal and a doubled
// quote ("") decodes to a single quote character. Lines are split before
// fields, so quoted newlines are not supported.
func SplitLine(line string) ([]string, error) {
	fields := make([]string, 0, len(columns))
	var cur []byte
	inQuote := false

	for i := 0; i < len(line); i++ {
		ch := line[i]

		if inQuote {
			if ch == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					cur = append(cur, '"')
					i++
				} else {
					inQuote = false
				}
				continue
			}
			cur = append(cur, ch)
			continue
		}

		switch ch {
		case '"':
			inQuote = true
		case ',':
			fields = append(fields, string(cur))
			cur = cur[:0]
		default:
			cur = append(cur, ch)
		}
	}

	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	return append(fields, string(cur)), nil
}
