package service

import (
	"bytes"
	"encoding/xml"
	"strings"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/domain"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// SitemapService builds the public sitemap from the active catalog
type SitemapService struct {
	catalog *CatalogService
}

// NewSitemapService creates a new SitemapService
func NewSitemapService(catalog *CatalogService) *SitemapService {
	return &SitemapService{catalog: catalog}
}

// Build renders the sitemap for the current snapshot
func (s *SitemapService) Build(baseURL string, now time.Time) ([]byte, error) {
	return BuildSitemap(baseURL, s.catalog.Snapshot().Records, now)
}

// BuildSitemap lists the home page plus one detail URL per record.
// Detail pages use hash routing: <base>/#/emoji/<slug>.
func BuildSitemap(baseURL string, records []domain.EmojiRecord, now time.Time) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	lastMod := now.UTC().Format("2006-01-02")

	set := sitemapURLSet{
		XMLNS: sitemapNS,
		URLs:  make([]sitemapURL, 0, len(records)+1),
	}
	set.URLs = append(set.URLs, sitemapURL{Loc: base + "/", LastMod: lastMod, ChangeFreq: "daily", Priority: "1.0"})

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.Slug] {
			continue
		}
		seen[rec.Slug] = true
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + "/#/emoji/" + rec.Slug,
			LastMod:    lastMod,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
