// Package render rasterizes a single emoji glyph into a transparent PNG.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// 기본 캔버스 설정
const (
	DefaultCanvasSize = 1024
	DefaultGlyphSize  = 800
)

var (
	// ErrEmptyGlyph 빈 문자열
	ErrEmptyGlyph = errors.New("render: empty glyph")
	// ErrGlyphUnsupported no loaded font covers the glyph
	ErrGlyphUnsupported = errors.New("render: glyph not supported by any font")
	// ErrBlankRaster the glyph drew no visible pixels
	ErrBlankRaster = errors.New("render: glyph produced a blank image")
	// ErrNoFont 사용 가능한 폰트 없음
	ErrNoFont = errors.New("render: no usable font")
)

// Rasterizer turns a glyph string into PNG bytes
type Rasterizer interface {
	Rasterize(ctx context.Context, glyph string) ([]byte, error)
}

// Options 캔버스 옵션
type Options struct {
	CanvasSize int
	GlyphSize  float64
	Color      color.Color // outline glyph colour, color fonts ignore it
}

func (o Options) withDefaults() Options {
	if o.CanvasSize <= 0 {
		o.CanvasSize = DefaultCanvasSize
	}
	if o.GlyphSize <= 0 {
		o.GlyphSize = DefaultGlyphSize
	}
	if o.Color == nil {
		o.Color = color.Black
	}
	return o
}

// GGRasterizer draws glyphs with gogpu/gg onto a square transparent canvas.
// Fonts are tried in order; the first one covering every rune is used.
type GGRasterizer struct {
	mu    sync.Mutex
	faces []text.Face
	opts  Options
}

// NewRasterizer creates a rasterizer over the given font sources
func NewRasterizer(opts Options, sources ...*text.FontSource) (*GGRasterizer, error) {
	opts = opts.withDefaults()

	faces := make([]text.Face, 0, len(sources))
	for _, src := range sources {
		if src == nil {
			continue
		}
		faces = append(faces, src.Face(opts.GlyphSize))
	}
	if len(faces) == 0 {
		return nil, ErrNoFont
	}

	return &GGRasterizer{faces: faces, opts: opts}, nil
}

// NewRasterizerFromPaths loads every readable font in paths, skipping the rest
func NewRasterizerFromPaths(opts Options, paths []string) (*GGRasterizer, error) {
	var sources []*text.FontSource
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		src, err := text.NewFontSourceFromFile(path)
		if err != nil {
			continue
		}
		sources = append(sources, src)
	}
	return NewRasterizer(opts, sources...)
}

// Rasterize renders glyph centred on the canvas and encodes it as PNG
func (r *GGRasterizer) Rasterize(ctx context.Context, glyph string) ([]byte, error) {
	if glyph == "" {
		return nil, ErrEmptyGlyph
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	face := r.faceFor(glyph)
	if face == nil {
		return nil, ErrGlyphUnsupported
	}

	size := r.opts.CanvasSize
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	r.mu.Lock()
	width, _ := text.Measure(glyph, face)
	metrics := face.Metrics()
	x := (float64(size) - width) / 2
	// baseline sits so the ascent/descent box is vertically centred
	y := (float64(size) + metrics.Ascent - metrics.Descent) / 2
	text.DrawWithEmoji(img, glyph, face, x, y, r.opts.Color)
	r.mu.Unlock()

	if isBlank(img) {
		return nil, ErrBlankRaster
	}

	var buf bytes.Buffer
	if err := gg.NewContextForImage(img).EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// faceFor picks the first face that has every visible rune of glyph
func (r *GGRasterizer) faceFor(glyph string) text.Face {
	for _, face := range r.faces {
		if covers(face, glyph) {
			return face
		}
	}
	return nil
}

func covers(face text.Face, glyph string) bool {
	visible := 0
	for _, ch := range glyph {
		if isModifier(ch) {
			continue
		}
		visible++
		if !face.HasGlyph(ch) {
			return false
		}
	}
	return visible > 0
}

// isModifier reports runes that combine with a base glyph and may be absent
// from fonts that still render the base correctly.
func isModifier(ch rune) bool {
	switch {
	case ch == 0x200D: // zero width joiner
		return true
	case ch == 0xFE0E || ch == 0xFE0F: // variation selectors
		return true
	case ch >= 0x1F3FB && ch <= 0x1F3FF: // skin tones
		return true
	case ch >= 0xE0020 && ch <= 0xE007F: // tag sequences
		return true
	}
	return false
}

func isBlank(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}
