package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TextList holds a field that is either a single scalar string or an
// ordered sequence of strings. Use Items at the presentation boundary.
type TextList struct {
	scalar   string
	items    []string
	isScalar bool
}

// Scalar creates a TextList from one newline-delimited string
func Scalar(s string) TextList {
	return TextList{scalar: s, isScalar: true}
}

// Sequence creates a TextList from individual items
func Sequence(items ...string) TextList {
	cp := make([]string, len(items))
	copy(cp, items)
	return TextList{items: cp}
}

// IsScalar reports whether the list was stored as a single string
func (l TextList) IsScalar() bool {
	return l.isScalar
}

// Raw returns the scalar value, or the items joined by newlines
func (l TextList) Raw() string {
	if l.isScalar {
		return l.scalar
	}
	return strings.Join(l.items, "\n")
}

// Values returns the stored sequence without normalization.
// A scalar yields a single element, or nothing when empty.
func (l TextList) Values() []string {
	if l.isScalar {
		if l.scalar == "" {
			return nil
		}
		return []string{l.scalar}
	}
	cp := make([]string, len(l.items))
	copy(cp, l.items)
	return cp
}

// Items expands the list into display items: scalars split on newlines,
// every item trimmed, a leading "- " bullet removed, empties dropped.
func (l TextList) Items() []string {
	var raw []string
	if l.isScalar {
		raw = strings.Split(strings.ReplaceAll(l.scalar, "\r\n", "\n"), "\n")
	} else {
		raw = l.items
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		item = strings.TrimSpace(strings.TrimPrefix(item, "- "))
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// MarshalJSON encodes a scalar as a string and a sequence as an array
func (l TextList) MarshalJSON() ([]byte, error) {
	if l.isScalar {
		return json.Marshal(l.scalar)
	}
	if l.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.items)
}

// UnmarshalJSON accepts a string, an array of strings or null
func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = TextList{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Scalar(s)
		return nil
	case len(data) > 0 && data[0] == '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = Sequence(items...)
		return nil
	default:
		return fmt.Errorf("text list: unsupported JSON value %s", string(data))
	}
}
