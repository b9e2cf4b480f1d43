package routes

import (
	"github.com/emojitopng/emojitopng-backend/internal/handler"
	"github.com/emojitopng/emojitopng-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Emoji   *handler.EmojiHandler
	Render  *handler.RenderHandler
	Dataset *handler.DatasetHandler
	Sitemap *handler.SitemapHandler
}

// Options 라우트 설정
type Options struct {
	AdminKeyHash    string
	RedisClient     *redis.Client // nil disables render rate limiting
	RenderRateLimit int           // requests per minute per IP
}

// Setup configures all API routes
func Setup(router *gin.Engine, h Handlers, opts Options) {
	router.GET("/health", h.Emoji.Health)
	router.GET("/sitemap.xml", h.Sitemap.Sitemap)

	api := router.Group("/api/v1")

	// 공개 카탈로그
	api.GET("/categories", h.Emoji.ListCategories)
	emojis := api.Group("/emojis")
	emojis.GET("", h.Emoji.ListEmojis)
	emojis.GET("/:slug", h.Emoji.GetEmoji)

	rl := middleware.DefaultRateLimitConfig()
	if opts.RenderRateLimit > 0 {
		rl.Limit = opts.RenderRateLimit
	}
	emojis.GET("/:slug/image.png", middleware.RateLimit(opts.RedisClient, rl), h.Render.Image)

	// 관리자 데이터셋 관리
	admin := api.Group("/admin", middleware.AdminKey(opts.AdminKeyHash))
	admin.GET("/dataset", h.Dataset.Export)
	admin.PUT("/dataset", h.Dataset.Import)
	admin.DELETE("/dataset", h.Dataset.Clear)
	admin.POST("/dataset/validate", h.Dataset.Validate)
	admin.POST("/dataset/reload", h.Dataset.Reload)
}
