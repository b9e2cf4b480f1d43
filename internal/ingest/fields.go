package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/emojitopng/emojitopng-backend/internal/domain"
)

// decodeArrayText strips one layer of surrounding quotes, unescapes doubled
// quotes and decodes a JSON array. ok is false when the value does not look
// like an array or fails to decode.
func decodeArrayText(raw string) (items []string, ok bool) {
	cleaned := strings.TrimSpace(raw)
	if len(cleaned) >= 2 && strings.HasPrefix(cleaned, `"`) && strings.HasSuffix(cleaned, `"`) {
		cleaned = strings.TrimSpace(cleaned[1 : len(cleaned)-1])
	}

	// try the value as-is first so legitimate "" elements survive
	for _, candidate := range []string{cleaned, strings.ReplaceAll(cleaned, `""`, `"`)} {
		if !strings.HasPrefix(candidate, "[") {
			continue
		}
		var values []interface{}
		if err := json.Unmarshal([]byte(candidate), &values); err != nil {
			continue
		}
		return stringify(values), true
	}
	return nil, false
}

func stringify(values []interface{}) []string {
	items := make([]string, 0, len(values))
	for _, v := range values {
		switch tv := v.(type) {
		case nil:
			continue
		case string:
			items = append(items, tv)
		default:
			items = append(items, fmt.Sprint(tv))
		}
	}
	return items
}

// decodeTrivia keeps prose as a scalar unless the cell holds a JSON array
func decodeTrivia(raw string) domain.TextList {
	if items, ok := decodeArrayText(raw); ok {
		return domain.Sequence(items...)
	}
	return domain.Scalar(raw)
}

// decodeCommonUses falls back to the raw field as a single item
func decodeCommonUses(raw string) domain.TextList {
	if strings.TrimSpace(raw) == "" {
		return domain.Sequence()
	}
	if items, ok := decodeArrayText(raw); ok {
		return domain.Sequence(items...)
	}
	return domain.Sequence(raw)
}

// decodeRelatedEmojis falls back to comma-split trimmed tokens
func decodeRelatedEmojis(raw string) domain.TextList {
	if strings.TrimSpace(raw) == "" {
		return domain.Sequence()
	}
	if items, ok := decodeArrayText(raw); ok {
		return domain.Sequence(items...)
	}
	return domain.Sequence(splitTokens(raw)...)
}

func splitTokens(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
