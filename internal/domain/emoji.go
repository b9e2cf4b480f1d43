package domain

import (
	"fmt"
	"strings"
	"time"
)

// Placeholders substituted for missing required columns
const (
	PlaceholderEmoji = "❓"
	PlaceholderName  = "Unknown"
)

// PlaceholderSlug returns the generated slug for a row without one
func PlaceholderSlug(row int) string {
	return fmt.Sprintf("emoji-%d", row)
}

// EmojiRecord one row of the emoji catalog
type EmojiRecord struct {
	ID            int      `json:"id"` // source row index, stable for one load only
	Slug          string   `json:"slug"`
	Emoji         string   `json:"emoji"`
	Name          string   `json:"name"`
	Info          string   `json:"info,omitempty"`
	Trivia        TextList `json:"trivia"`
	CommonUses    TextList `json:"common_uses"`
	RelatedEmojis TextList `json:"related_emojis"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
	Category      string   `json:"category,omitempty"`
	Group         string   `json:"group,omitempty"`
}

// HasCategory reports whether the record is categorized
func (r *EmojiRecord) HasCategory() bool {
	return strings.TrimSpace(r.Category) != ""
}

// CodePoints returns the glyph's code points as U+XXXX strings
func (r *EmojiRecord) CodePoints() []string {
	points := make([]string, 0, len(r.Emoji))
	for _, cp := range r.Emoji {
		points = append(points, fmt.Sprintf("U+%04X", cp))
	}
	return points
}

// Unicode returns the hex of the first code point, empty for an empty glyph
func (r *EmojiRecord) Unicode() string {
	for _, cp := range r.Emoji {
		return fmt.Sprintf("%X", cp)
	}
	return ""
}

// DatasetSource identifies where the active dataset came from
type DatasetSource string

const (
	SourceOverride DatasetSource = "override"
	SourceBundle   DatasetSource = "bundle"
	SourceNone     DatasetSource = "none"
)

// CategoryCount 카테고리 탭 항목
type CategoryCount struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// EmojiSummary 목록 응답 항목
type EmojiSummary struct {
	ID       int    `json:"id"`
	Slug     string `json:"slug"`
	Emoji    string `json:"emoji"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Info     string `json:"info,omitempty"`
}

// EmojiDetail 상세 응답 (목록 필드는 모두 정규화됨)
type EmojiDetail struct {
	ID            int      `json:"id"`
	Slug          string   `json:"slug"`
	Emoji         string   `json:"emoji"`
	Name          string   `json:"name"`
	Info          string   `json:"info"`
	Trivia        []string `json:"trivia"`
	CommonUses    []string `json:"common_uses"`
	RelatedEmojis []string `json:"related_emojis"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
	Category      string   `json:"category"`
	Group         string   `json:"group,omitempty"`
	Unicode       string   `json:"unicode"`
	CodePoints    []string `json:"code_points"`
	ImageURL      string   `json:"image_url"`
}

// UncategorizedLabel is shown for records without a category
const UncategorizedLabel = "Uncategorized"

// ToSummary converts a record to its list representation
func (r *EmojiRecord) ToSummary() EmojiSummary {
	category := r.Category
	if !r.HasCategory() {
		category = UncategorizedLabel
	}
	return EmojiSummary{
		ID:       r.ID,
		Slug:     r.Slug,
		Emoji:    r.Emoji,
		Name:     r.Name,
		Category: category,
		Info:     r.Info,
	}
}

// ToDetail converts a record to its detail representation
func (r *EmojiRecord) ToDetail(imageURL string) EmojiDetail {
	category := r.Category
	if !r.HasCategory() {
		category = UncategorizedLabel
	}
	return EmojiDetail{
		ID:            r.ID,
		Slug:          r.Slug,
		Emoji:         r.Emoji,
		Name:          r.Name,
		Info:          r.Info,
		Trivia:        r.Trivia.Items(),
		CommonUses:    r.CommonUses.Items(),
		RelatedEmojis: r.RelatedEmojis.Items(),
		UpdatedAt:     r.UpdatedAt,
		Category:      category,
		Group:         r.Group,
		Unicode:       r.Unicode(),
		CodePoints:    r.CodePoints(),
		ImageURL:      imageURL,
	}
}

// DatasetStatus 현재 로드된 데이터셋 상태
type DatasetStatus struct {
	Source   DatasetSource `json:"source"`
	Records  int           `json:"records"`
	Skipped  int           `json:"skipped"`
	LoadedAt time.Time     `json:"loaded_at"`
}
