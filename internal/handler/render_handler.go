package handler

import (
	"mime"
	"net/http"

	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/emojitopng/emojitopng-backend/internal/service"
	"github.com/emojitopng/emojitopng-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// RenderHandler 이모지 PNG 렌더링 API
type RenderHandler struct {
	render  *service.RenderService
	publish bool
}

// NewRenderHandler creates a new RenderHandler. publish uploads every fresh
// render to object storage.
func NewRenderHandler(render *service.RenderService, publish bool) *RenderHandler {
	return &RenderHandler{render: render, publish: publish}
}

// Image handles GET /api/v1/emojis/:slug/image.png
// ?regenerate=true skips the cache, ?download=true sets an attachment filename.
func (h *RenderHandler) Image(c *gin.Context) {
	opts := service.RenderOptions{
		Regenerate: ginutil.QueryBool(c, "regenerate"),
		Publish:    h.publish,
	}

	res, err := h.render.Render(c.Request.Context(), c.Param("slug"), opts)
	if err != nil {
		common.V2ErrorResponse(c, common.StatusFor(err), "이미지 생성 실패", err)
		return
	}

	if res.Cached {
		c.Header("X-Render-Cache", "HIT")
	} else {
		c.Header("X-Render-Cache", "MISS")
	}
	if res.PublishURL != "" {
		c.Header("X-Publish-URL", res.PublishURL)
	}
	if ginutil.QueryBool(c, "download") {
		c.Header("Content-Disposition", attachmentDisposition(res.Slug+".png"))
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", res.PNG)
}

// attachmentDisposition quotes or RFC 2231-encodes filename as needed
func attachmentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
