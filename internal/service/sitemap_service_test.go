package service

import (
	"strings"
	"testing"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSitemap(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	records := []domain.EmojiRecord{{Slug: "grinning-face"}, {Slug: "pizza"}, {Slug: "pizza"}}

	out, err := BuildSitemap("https://www.emojitopng.com/", records, now)
	require.NoError(t, err)
	xml := string(out)

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, xml, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, xml, "<loc>https://www.emojitopng.com/</loc>")
	assert.Contains(t, xml, "<changefreq>daily</changefreq>")
	assert.Contains(t, xml, "<priority>1.0</priority>")
	assert.Contains(t, xml, "<loc>https://www.emojitopng.com/#/emoji/grinning-face</loc>")
	assert.Contains(t, xml, "<priority>0.8</priority>")
	assert.Contains(t, xml, "<lastmod>2026-03-14</lastmod>")
	// 중복 slug는 한 번만
	assert.Equal(t, 1, strings.Count(xml, "#/emoji/pizza<"))
	assert.Equal(t, 3, strings.Count(xml, "<url>"))
}

func TestSitemapService_Build(t *testing.T) {
	svc := NewSitemapService(newTestCatalog(t, catalogCSV))

	out, err := svc.Build("https://example.com", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(string(out), "<url>"))
}
