package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/emojitopng/emojitopng-backend/internal/domain"
)

// Encode serializes records back into catalog CSV with the canonical header.
// List fields are written as JSON array literals. The format is line based,
// so newlines inside a scalar are carried by writing it as an array.
func Encode(records []domain.EmojiRecord) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i := range records {
		r := &records[i]
		trivia, err := encodeTrivia(r.Trivia)
		if err != nil {
			return "", fmt.Errorf("record %s: %w", r.Slug, err)
		}
		uses, err := encodeList(r.CommonUses.Values())
		if err != nil {
			return "", fmt.Errorf("record %s: %w", r.Slug, err)
		}
		related, err := encodeList(r.RelatedEmojis.Values())
		if err != nil {
			return "", fmt.Errorf("record %s: %w", r.Slug, err)
		}

		row := []string{
			oneLine(r.Slug), oneLine(r.Emoji), oneLine(r.Name), oneLine(r.Info),
			trivia, uses, related,
			oneLine(r.UpdatedAt), oneLine(r.Category), oneLine(r.Group),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("record %s: %w", r.Slug, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encodeTrivia(l domain.TextList) (string, error) {
	if l.IsScalar() && !strings.ContainsAny(l.Raw(), "\r\n") && !strings.HasPrefix(strings.TrimSpace(l.Raw()), "[") {
		return l.Raw(), nil
	}
	if l.IsScalar() {
		return encodeList(l.Items())
	}
	return encodeList(l.Values())
}

func encodeList(items []string) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\r\n", "\n")), " ")
}
