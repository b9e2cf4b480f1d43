// Package cache keeps rendered PNGs in Redis.
//
// Keys carry a generation number and the glyph's code points. Invalidating
// every render after a dataset change is a single INCR of the generation;
// stale entries age out via TTL. Because the glyph is part of the key, a PNG
// drawn from an older dataset can never be served for a slug whose glyph
// has since changed, even if it is stored after the generation moved.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// TTLRender 렌더링된 PNG 보관 기간
	TTLRender = 24 * time.Hour

	// PrefixRender 렌더 캐시 키 접두사
	PrefixRender = "render:"

	generationKey = PrefixRender + "generation"
)

// ErrMiss 캐시에 값이 없음
var ErrMiss = errors.New("cache miss")

// RenderEntry identifies one rendered image
type RenderEntry struct {
	Slug  string
	Glyph string
	Size  int
}

// Key 세대별 렌더 캐시 키: render:<gen>:<size>:<slug>:<code points>
func (e RenderEntry) Key(generation int64) string {
	cps := make([]string, 0, len(e.Glyph))
	for _, r := range e.Glyph {
		cps = append(cps, fmt.Sprintf("%x", r))
	}
	return fmt.Sprintf("%s%d:%d:%s:%s", PrefixRender, generation, e.Size, e.Slug, strings.Join(cps, "-"))
}

// Service 렌더 캐시. nil Redis 클라이언트면 항상 miss, 쓰기는 무시.
type Service interface {
	GetRender(ctx context.Context, e RenderEntry) ([]byte, error)
	SetRender(ctx context.Context, e RenderEntry, png []byte) error
	InvalidateRenders(ctx context.Context) error
	IsAvailable() bool
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService 새로운 캐시 서비스 생성
func NewService(client *redis.Client) Service {
	return &redisCache{client: client, ttl: TTLRender}
}

// IsAvailable Redis 연결 여부
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// generation 현재 세대 (키가 없으면 0)
func (c *redisCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetRender PNG 바이트 조회
func (c *redisCache) GetRender(ctx context.Context, e RenderEntry) ([]byte, error) {
	if c.client == nil {
		return nil, ErrMiss
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, err
	}
	data, err := c.client.Get(ctx, e.Key(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return data, err
}

// SetRender PNG 바이트 저장 (JSON 인코딩 없이 그대로)
func (c *redisCache) SetRender(ctx context.Context, e RenderEntry, png []byte) error {
	if c.client == nil {
		return nil
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, e.Key(gen), png, c.ttl).Err()
}

// InvalidateRenders 세대를 올려 기존 렌더를 모두 무효화
func (c *redisCache) InvalidateRenders(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, generationKey).Err()
}
