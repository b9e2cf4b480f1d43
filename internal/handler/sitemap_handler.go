package handler

import (
	"net/http"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/emojitopng/emojitopng-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// SitemapHandler serves /sitemap.xml
type SitemapHandler struct {
	sitemap *service.SitemapService
	baseURL string
}

// NewSitemapHandler creates a new SitemapHandler
func NewSitemapHandler(sitemap *service.SitemapService, baseURL string) *SitemapHandler {
	return &SitemapHandler{sitemap: sitemap, baseURL: baseURL}
}

// Sitemap handles GET /sitemap.xml
func (h *SitemapHandler) Sitemap(c *gin.Context) {
	out, err := h.sitemap.Build(h.baseURL, time.Now())
	if err != nil {
		common.V2ErrorResponse(c, http.StatusInternalServerError, "sitemap 생성 실패", err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", out)
}
