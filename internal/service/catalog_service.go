package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"github.com/emojitopng/emojitopng-backend/internal/ingest"
)

// 페이지네이션 기본값
const (
	DefaultPerPage = 50
	MaxPerPage     = 500
)

// Snapshot is one immutable load of the catalog. It is never mutated after
// publication; a reload builds and swaps in a new one.
type Snapshot struct {
	Records    []domain.EmojiRecord
	Categories []domain.CategoryCount
	Source     domain.DatasetSource
	Skipped    []ingest.RowIssue
	LoadedAt   time.Time

	bySlug       map[string]int
	categories   map[string]string // category slug -> tab name
	categorySlug map[string]string // category name -> slug
}

func newSnapshot(res *LoadResult) *Snapshot {
	snap := &Snapshot{
		Records:      res.Records,
		Source:       res.Source,
		Skipped:      res.Skipped,
		LoadedAt:     res.LoadedAt,
		bySlug:       make(map[string]int, len(res.Records)),
		categories:   make(map[string]string),
		categorySlug: make(map[string]string),
	}

	counts := make(map[string]int)
	for i := range res.Records {
		rec := &res.Records[i]
		// 중복 slug는 정렬 순서상 첫 번째가 우선
		if _, dup := snap.bySlug[rec.Slug]; !dup {
			snap.bySlug[rec.Slug] = i
		}
		if rec.HasCategory() {
			counts[rec.Category]++
		}
	}

	perName := make([]domain.CategoryCount, 0, len(counts))
	for name, count := range counts {
		perName = append(perName, domain.CategoryCount{Name: name, Slug: ToSlug(name), Count: count})
	}
	sortCategories(perName)

	// 이름이 달라도 slug가 같으면 한 탭: 정렬상 첫 이름을 쓰고 개수는 합산
	tabs := make(map[string]int, len(perName))
	for _, c := range perName {
		snap.categorySlug[c.Name] = c.Slug
		if i, dup := tabs[c.Slug]; dup {
			snap.Categories[i].Count += c.Count
			continue
		}
		tabs[c.Slug] = len(snap.Categories)
		snap.categories[c.Slug] = c.Name
		snap.Categories = append(snap.Categories, c)
	}
	sortCategories(snap.Categories)
	return snap
}

// sortCategories count desc, then name
func sortCategories(cats []domain.CategoryCount) {
	sort.Slice(cats, func(a, b int) bool {
		if cats[a].Count != cats[b].Count {
			return cats[a].Count > cats[b].Count
		}
		return cats[a].Name < cats[b].Name
	})
}

// Status 스냅샷 요약
func (s *Snapshot) Status() domain.DatasetStatus {
	return domain.DatasetStatus{
		Source:   s.Source,
		Records:  len(s.Records),
		Skipped:  len(s.Skipped),
		LoadedAt: s.LoadedAt,
	}
}

// ListQuery 목록 조회 조건
type ListQuery struct {
	Query    string // matches name, emoji or info
	Category string // category slug, "" or "all" for every category
	Page     int
	PerPage  int
}

// Normalize clamps paging to valid bounds
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
}

// CatalogService holds the active snapshot. Reads are lock-free; reloads
// and the writes that trigger them are serialized.
type CatalogService struct {
	dataset  *DatasetService
	current  atomic.Pointer[Snapshot]
	mu       sync.Mutex
	onReload []func(*Snapshot)
}

// NewCatalogService creates a catalog with an empty snapshot; call Reload to fill it
func NewCatalogService(dataset *DatasetService) *CatalogService {
	s := &CatalogService{dataset: dataset}
	s.current.Store(newSnapshot(&LoadResult{Records: []domain.EmojiRecord{}, Source: domain.SourceNone}))
	return s
}

// OnReload registers a callback run after every snapshot swap
func (s *CatalogService) OnReload(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}

// Reload loads the dataset and publishes it as the new snapshot
func (s *CatalogService) Reload(ctx context.Context) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *CatalogService) reloadLocked(ctx context.Context) *Snapshot {
	snap := newSnapshot(s.dataset.Load(ctx))
	s.current.Store(snap)
	catalogRecords.Set(float64(len(snap.Records)))

	for _, fn := range s.onReload {
		fn(snap)
	}
	return snap
}

// Save stores a validated import and reloads. A rejected import changes nothing.
func (s *CatalogService) Save(ctx context.Context, raw string) (*ingest.Result, *Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.dataset.Save(ctx, raw)
	if err != nil {
		return res, s.current.Load(), err
	}
	return res, s.reloadLocked(ctx), nil
}

// Clear drops the override and reloads
func (s *CatalogService) Clear(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.dataset.Clear(ctx); err != nil {
		return s.current.Load(), err
	}
	return s.reloadLocked(ctx), nil
}

// Snapshot returns the current snapshot
func (s *CatalogService) Snapshot() *Snapshot {
	return s.current.Load()
}

// List filters and paginates the catalog. It returns the page and the total match count.
func (s *CatalogService) List(q ListQuery) ([]domain.EmojiRecord, int) {
	q.Normalize()
	snap := s.current.Load()

	category := ""
	if q.Category != "" && q.Category != "all" {
		if _, ok := snap.categories[q.Category]; !ok {
			return []domain.EmojiRecord{}, 0
		}
		category = q.Category
	}

	needle := strings.ToLower(strings.TrimSpace(q.Query))
	matched := make([]domain.EmojiRecord, 0, len(snap.Records))
	for i := range snap.Records {
		rec := &snap.Records[i]
		if category != "" && snap.categorySlug[rec.Category] != category {
			continue
		}
		if needle != "" && !matches(rec, needle) {
			continue
		}
		matched = append(matched, *rec)
	}

	total := len(matched)
	start := (q.Page - 1) * q.PerPage
	if start >= total {
		return []domain.EmojiRecord{}, total
	}
	end := start + q.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func matches(rec *domain.EmojiRecord, needle string) bool {
	return strings.Contains(strings.ToLower(rec.Name), needle) ||
		strings.Contains(rec.Emoji, needle) ||
		strings.Contains(strings.ToLower(rec.Info), needle)
}

// Categories returns the category tabs, most populated first
func (s *CatalogService) Categories() []domain.CategoryCount {
	return s.current.Load().Categories
}

// FindBySlug 슬러그로 이모지 조회
func (s *CatalogService) FindBySlug(slug string) (*domain.EmojiRecord, error) {
	snap := s.current.Load()
	idx, ok := snap.bySlug[slug]
	if !ok {
		return nil, common.ErrEmojiNotFound
	}
	rec := snap.Records[idx]
	return &rec, nil
}

// CategoryBySlug resolves a category tab slug to its display name
func (s *CatalogService) CategoryBySlug(slug string) (string, error) {
	name, ok := s.current.Load().categories[slug]
	if !ok {
		return "", common.ErrCategoryNotFound
	}
	return name, nil
}

// ToSlug lowercases s and collapses every run of non letters/digits into "-"
func ToSlug(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
