package handler

import (
	"net/http"
	"net/url"

	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"github.com/emojitopng/emojitopng-backend/internal/service"
	"github.com/emojitopng/emojitopng-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// EmojiHandler 이모지 카탈로그 조회 API
type EmojiHandler struct {
	catalog *service.CatalogService
}

// NewEmojiHandler creates a new EmojiHandler
func NewEmojiHandler(catalog *service.CatalogService) *EmojiHandler {
	return &EmojiHandler{catalog: catalog}
}

// ImageURL 렌더 이미지 경로
func ImageURL(slug string) string {
	return "/api/v1/emojis/" + url.PathEscape(slug) + "/image.png"
}

// ListEmojis handles GET /api/v1/emojis
func (h *EmojiHandler) ListEmojis(c *gin.Context) {
	q := service.ListQuery{
		Query:    ginutil.QueryTrimmed(c, "q"),
		Category: ginutil.QueryTrimmed(c, "category"),
		Page:     ginutil.QueryInt(c, "page", 1),
		PerPage:  ginutil.QueryInt(c, "per_page", service.DefaultPerPage),
	}

	q.Normalize()

	records, total := h.catalog.List(q)
	items := make([]domain.EmojiSummary, len(records))
	for i := range records {
		items[i] = records[i].ToSummary()
	}
	common.V2SuccessWithMeta(c, items, common.NewV2Meta(q.Page, q.PerPage, int64(total)))
}

// GetEmoji handles GET /api/v1/emojis/:slug
func (h *EmojiHandler) GetEmoji(c *gin.Context) {
	rec, err := h.catalog.FindBySlug(c.Param("slug"))
	if err != nil {
		common.V2ErrorResponse(c, common.StatusFor(err), "이모지를 찾을 수 없습니다", err)
		return
	}
	common.V2Success(c, rec.ToDetail(ImageURL(rec.Slug)))
}

// ListCategories handles GET /api/v1/categories
func (h *EmojiHandler) ListCategories(c *gin.Context) {
	cats := h.catalog.Categories()
	if cats == nil {
		cats = []domain.CategoryCount{}
	}
	common.V2Success(c, cats)
}

// Health handles GET /health
func (h *EmojiHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"dataset": h.catalog.Snapshot().Status(),
	})
}
