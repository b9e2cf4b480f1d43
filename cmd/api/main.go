package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/app"
	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/emojitopng/emojitopng-backend/internal/config"
	"github.com/emojitopng/emojitopng-backend/internal/handler"
	"github.com/emojitopng/emojitopng-backend/internal/middleware"
	"github.com/emojitopng/emojitopng-backend/internal/routes"
	"github.com/emojitopng/emojitopng-backend/internal/service"
	pkglogger "github.com/emojitopng/emojitopng-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	// 로거 초기화
	pkglogger.Init()
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	// 카탈로그 최초 로드 (실패해도 빈 카탈로그로 시작)
	snap := a.Catalog.Reload(context.Background())
	pkglogger.Info("Catalog ready: %d records from %s (%d rows skipped)", len(snap.Records), snap.Source, len(snap.Skipped))

	// Gin 라우터 생성
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS 설정
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  splitAndTrim(allowOrigins, ","),
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.AdminKeyHeader, "X-Request-ID"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining", "X-Render-Cache", "X-Dataset-Source", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	// Middleware
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.Setup(router, routes.Handlers{
		Emoji:   handler.NewEmojiHandler(a.Catalog),
		Render:  handler.NewRenderHandler(a.Render, cfg.Render.Publish),
		Dataset: handler.NewDatasetHandler(a.Catalog, a.Dataset),
		Sitemap: handler.NewSitemapHandler(a.Sitemap, cfg.Site.BaseURL),
	}, routes.Options{
		AdminKeyHash:    cfg.Admin.KeyHash,
		RedisClient:     a.Redis,
		RenderRateLimit: cfg.Render.RateLimit,
	})

	router.NoRoute(func(c *gin.Context) {
		common.V2ErrorResponse(c, common.StatusFor(common.ErrNotFound), "요청한 경로를 찾을 수 없습니다", nil)
	})

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	if a.DB != nil {
		go reportDBStats(bgCtx, a)
	}

	if expr := cfg.Dataset.ReloadSchedule; expr != "" {
		sched, err := service.NewReloadScheduler(a.Catalog, expr)
		if err != nil {
			log.Fatalf("Failed to schedule reloads: %v", err)
		}
		go sched.Run(bgCtx)
	}

	// 서버 시작
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	pkglogger.Info("Shutting down server...")
	stopBackground()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("Server forced to shutdown: %v", err)
	}
}

// reportDBStats DB 연결 수를 주기적으로 메트릭에 반영
func reportDBStats(ctx context.Context, a *app.App) {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			middleware.SetDBConnectionsOpen(sqlDB.Stats().OpenConnections)
		}
	}
}

// splitAndTrim splits a string by delimiter and trims spaces
func splitAndTrim(s string, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
