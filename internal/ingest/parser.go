// Package ingest turns raw catalog CSV text into validated emoji records.
package ingest

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Column positions of the catalog CSV
const (
	colSlug = iota
	colEmoji
	colName
	colDescription
	colTrivia
	colCommonUses
	colRelatedEmojis
	colUpdatedAt
	colCategory
	colGroup
)

// columns is the canonical header, in positional order
var columns = []string{
	"slug", "emoji", "name", "description", "trivia",
	"common_uses", "related_emojis", "updated_at", "category", "group",
}

// minColumns rows with fewer resolved columns are dropped
const minColumns = 3

// Skip reasons reported in RowIssue
const (
	ReasonTooFewColumns   = "too few columns"
	ReasonDuplicateHeader = "duplicate header row"
	ReasonInvalidUTF8     = "invalid UTF-8"
)

// Header returns the canonical header line
func Header() string {
	return strings.Join(columns, ",")
}

// RowIssue describes one dropped row. Line is the 0-based line index.
type RowIssue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is the outcome of one parse: surviving records sorted by name
// plus every row that was dropped along the way.
type Result struct {
	Records []domain.EmojiRecord
	Skipped []RowIssue
}

// Empty reports whether no record survived
func (r *Result) Empty() bool {
	return r == nil || len(r.Records) == 0
}

// Parse converts raw CSV text into records. Row 0 is always the header.
// Row-level defects never abort the parse; they are collected in Skipped.
func Parse(text string) *Result {
	lines := splitLines(text)
	res := &Result{Records: make([]domain.EmojiRecord, 0, len(lines))}

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		rec, err := parseRow(i, line)
		if err != nil {
			res.Skipped = append(res.Skipped, RowIssue{Line: i, Reason: err.Error()})
			continue
		}
		res.Records = append(res.Records, rec)
	}

	SortByName(res.Records)
	return res
}

// SortByName orders records by name with locale-aware collation.
// Records with equal names keep their relative order.
func SortByName(records []domain.EmojiRecord) {
	col := collate.New(language.English)
	sort.SliceStable(records, func(a, b int) bool {
		return col.CompareString(records[a].Name, records[b].Name) < 0
	})
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

type rowError string

func (e rowError) Error() string { return string(e) }

func parseRow(row int, line string) (domain.EmojiRecord, error) {
	if !utf8.ValidString(line) {
		return domain.EmojiRecord{}, rowError(ReasonInvalidUTF8)
	}

	cols, err := SplitLine(line)
	if err != nil {
		return domain.EmojiRecord{}, err
	}
	if len(cols) < minColumns {
		return domain.EmojiRecord{}, rowError(ReasonTooFewColumns)
	}
	// padding inside quotes is trimmed too
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	if cols[colSlug] == "slug" && cols[colEmoji] == "emoji" {
		return domain.EmojiRecord{}, rowError(ReasonDuplicateHeader)
	}

	col := func(i int) string {
		if i < len(cols) {
			return cols[i]
		}
		return ""
	}

	rec := domain.EmojiRecord{
		ID:            row,
		Slug:          col(colSlug),
		Emoji:         col(colEmoji),
		Name:          col(colName),
		Info:          col(colDescription),
		Trivia:        decodeTrivia(col(colTrivia)),
		CommonUses:    decodeCommonUses(col(colCommonUses)),
		RelatedEmojis: decodeRelatedEmojis(col(colRelatedEmojis)),
		UpdatedAt:     col(colUpdatedAt),
		Category:      col(colCategory),
		Group:         col(colGroup),
	}
	if rec.Slug == "" {
		rec.Slug = domain.PlaceholderSlug(row)
	}
	if rec.Emoji == "" {
		rec.Emoji = domain.PlaceholderEmoji
	}
	if rec.Name == "" {
		rec.Name = domain.PlaceholderName
	}
	return rec, nil
}
