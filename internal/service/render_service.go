package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/emojitopng/emojitopng-backend/pkg/cache"
	pkglogger "github.com/emojitopng/emojitopng-backend/pkg/logger"
	"github.com/emojitopng/emojitopng-backend/pkg/render"
	"github.com/emojitopng/emojitopng-backend/pkg/storage"
)

// Publisher uploads rendered images to object storage
type Publisher interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error)
}

// RenderOptions 렌더링 옵션
type RenderOptions struct {
	Regenerate bool // skip the cache and rasterize again
	Publish    bool // upload the PNG to storage
}

// RenderResult 렌더링 결과
type RenderResult struct {
	Slug       string
	Emoji      string
	PNG        []byte
	Cached     bool
	PublishURL string
}

// RenderService rasterizes catalog glyphs. Failures never touch the catalog.
type RenderService struct {
	catalog    *CatalogService
	rasterizer render.Rasterizer
	cache      cache.Service
	publisher  Publisher
	size       int
}

// NewRenderService creates a new RenderService. rasterizer, cache and
// publisher may each be nil.
func NewRenderService(catalog *CatalogService, rasterizer render.Rasterizer, c cache.Service, publisher Publisher, size int) *RenderService {
	if size <= 0 {
		size = render.DefaultCanvasSize
	}
	s := &RenderService{
		catalog:    catalog,
		rasterizer: rasterizer,
		cache:      c,
		publisher:  publisher,
		size:       size,
	}

	if c != nil && c.IsAvailable() {
		// 데이터셋이 바뀌면 같은 slug의 글리프도 바뀔 수 있음
		catalog.OnReload(func(*Snapshot) {
			if err := c.InvalidateRenders(context.Background()); err != nil {
				pkglogger.WithComponent("render").Warn().Err(err).Msg("failed to invalidate render cache")
			}
		})
	}
	return s
}

// Available reports whether a rasterizer is configured
func (s *RenderService) Available() bool {
	return s.rasterizer != nil
}

// Render returns the PNG for slug
func (s *RenderService) Render(ctx context.Context, slug string, opts RenderOptions) (*RenderResult, error) {
	rec, err := s.catalog.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if s.rasterizer == nil {
		return nil, common.ErrRendererUnavailable
	}

	log := pkglogger.WithComponent("render")
	result := &RenderResult{Slug: rec.Slug, Emoji: rec.Emoji}
	entry := cache.RenderEntry{Slug: rec.Slug, Glyph: rec.Emoji, Size: s.size}

	if !opts.Regenerate && s.cache != nil {
		data, err := s.cache.GetRender(ctx, entry)
		switch {
		case err == nil:
			renderRequestsTotal.WithLabelValues("cache_hit").Inc()
			result.PNG = data
			result.Cached = true
			return s.publish(ctx, result, opts)
		case !errors.Is(err, cache.ErrMiss):
			log.Warn().Err(err).Str("slug", rec.Slug).Msg("render cache read failed")
		}
	}

	data, err := s.rasterize(ctx, rec.Emoji)
	if err != nil {
		renderRequestsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("slug", rec.Slug).Str("emoji", rec.Emoji).Msg("render failed")
		return nil, fmt.Errorf("%w: %w", common.ErrRenderFailed, err)
	}
	renderRequestsTotal.WithLabelValues("rendered").Inc()
	result.PNG = data

	if s.cache != nil {
		if err := s.cache.SetRender(ctx, entry, data); err != nil {
			log.Warn().Err(err).Str("slug", rec.Slug).Msg("render cache write failed")
		}
	}
	return s.publish(ctx, result, opts)
}

// rasterize runs the rasterizer in its own goroutine so a cancelled request
// returns immediately.
func (s *RenderService) rasterize(ctx context.Context, glyph string) ([]byte, error) {
	type outcome struct {
		data []byte
		err  error
	}

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		data, err := s.rasterizer.Rasterize(ctx, glyph)
		done <- outcome{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		renderDuration.Observe(time.Since(start).Seconds())
		return out.data, out.err
	}
}

func (s *RenderService) publish(ctx context.Context, result *RenderResult, opts RenderOptions) (*RenderResult, error) {
	if !opts.Publish || s.publisher == nil {
		return result, nil
	}

	key := storage.RenderKey(result.Slug, s.size)
	up, err := s.publisher.Upload(ctx, key, bytes.NewReader(result.PNG), "image/png", int64(len(result.PNG)))
	if err != nil {
		// 업로드 실패는 렌더 결과에 영향 없음
		pkglogger.WithComponent("render").Warn().Err(err).Str("key", key).Msg("publish failed")
		return result, nil
	}

	result.PublishURL = up.URL
	if up.CDNURL != "" {
		result.PublishURL = up.CDNURL
	}
	return result, nil
}
