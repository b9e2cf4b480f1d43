package service

import (
	"context"
	"io"
	"sync"

	"github.com/emojitopng/emojitopng-backend/pkg/cache"
	"github.com/emojitopng/emojitopng-backend/pkg/storage"
	"github.com/stretchr/testify/mock"
)

// --- Mock OverrideRepository ---

type mockOverrideRepo struct {
	mock.Mock
}

func (m *mockOverrideRepo) Get(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockOverrideRepo) Put(ctx context.Context, raw string) error {
	return m.Called(ctx, raw).Error(0)
}

func (m *mockOverrideRepo) Delete(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// memOverrideRepo 메모리 슬롯
type memOverrideRepo struct {
	mu  sync.Mutex
	raw *string
}

func (m *memOverrideRepo) Get(_ context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raw == nil {
		return "", false, nil
	}
	return *m.raw, true, nil
}

func (m *memOverrideRepo) Put(_ context.Context, raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = &raw
	return nil
}

func (m *memOverrideRepo) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = nil
	return nil
}

// --- Mock BundleSource ---

type mockBundle struct {
	mock.Mock
}

func (m *mockBundle) Fetch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// staticBundle always returns the same text
type staticBundle string

func (b staticBundle) Fetch(_ context.Context) (string, error) {
	return string(b), nil
}

// --- Mock Rasterizer ---

type mockRasterizer struct {
	mock.Mock
}

func (m *mockRasterizer) Rasterize(ctx context.Context, glyph string) ([]byte, error) {
	args := m.Called(ctx, glyph)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- Mock cache.Service ---

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetRender(ctx context.Context, e cache.RenderEntry) ([]byte, error) {
	args := m.Called(ctx, e.Slug, e.Size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockCache) SetRender(ctx context.Context, e cache.RenderEntry, png []byte) error {
	return m.Called(ctx, e.Slug, e.Size, png).Error(0)
}

func (m *mockCache) InvalidateRenders(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) IsAvailable() bool {
	return m.Called().Bool(0)
}

// memCache in-memory render cache with the same generation semantics as
// the Redis implementation: both reads and writes look up the generation.
type memCache struct {
	mu   sync.Mutex
	gen  int64
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) GetRender(_ context.Context, e cache.RenderEntry) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	png, ok := m.data[e.Key(m.gen)]
	if !ok {
		return nil, cache.ErrMiss
	}
	return png, nil
}

func (m *memCache) SetRender(_ context.Context, e cache.RenderEntry, png []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[e.Key(m.gen)] = png
	return nil
}

func (m *memCache) InvalidateRenders(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	return nil
}

func (m *memCache) IsAvailable() bool { return true }

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}
