// Package app builds the shared dependency graph used by the API server and
// the catalog CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/config"
	"github.com/emojitopng/emojitopng-backend/internal/repository"
	"github.com/emojitopng/emojitopng-backend/internal/service"
	pkgcache "github.com/emojitopng/emojitopng-backend/pkg/cache"
	pkglogger "github.com/emojitopng/emojitopng-backend/pkg/logger"
	pkgredis "github.com/emojitopng/emojitopng-backend/pkg/redis"
	"github.com/emojitopng/emojitopng-backend/pkg/render"
	pkgstorage "github.com/emojitopng/emojitopng-backend/pkg/storage"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// App 공유 의존성
type App struct {
	Config  *config.Config
	DB      *gorm.DB      // nil unless override.driver is database
	Redis   *redis.Client // nil when disabled or unreachable
	Storage *pkgstorage.S3Client
	Cache   pkgcache.Service

	Dataset *service.DatasetService
	Catalog *service.CatalogService
	Render  *service.RenderService
	Sitemap *service.SitemapService
}

// New connects optional backends and builds the services. Optional backends
// that fail to connect are logged and skipped; only a missing backend the
// configured override driver needs is fatal.
func New(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.Override.Driver == "database" {
		db, err := InitDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("override driver database: %w", err)
		}
		a.DB = db
		pkglogger.Info("Connected to MySQL")
	}

	if cfg.Redis.Enabled || cfg.Override.Driver == "redis" {
		client, err := pkgredis.NewClient(context.Background(), pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		switch {
		case err != nil && cfg.Override.Driver == "redis":
			return nil, fmt.Errorf("override driver redis: %w", err)
		case err != nil:
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
		default:
			a.Redis = client
			a.Cache = pkgcache.NewService(client)
			pkglogger.Info("Connected to Redis")
		}
	}

	if cfg.Storage.Enabled {
		s3, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			return nil, err
		}
		a.Storage = s3
	}

	overrides, err := NewOverrideRepository(cfg, a.DB, a.Redis)
	if err != nil {
		return nil, err
	}
	bundle, err := NewBundleSource(cfg, a.Storage)
	if err != nil {
		return nil, err
	}

	a.Dataset = service.NewDatasetService(overrides, bundle)
	a.Catalog = service.NewCatalogService(a.Dataset)
	a.Sitemap = service.NewSitemapService(a.Catalog)

	var rasterizer render.Rasterizer
	if cfg.Render.Enabled {
		r, err := render.NewRasterizerFromPaths(render.Options{
			CanvasSize: cfg.Render.CanvasSize,
			GlyphSize:  cfg.Render.GlyphSize,
		}, cfg.Render.Fonts)
		if err != nil {
			pkglogger.Warn("Renderer disabled: %v", err)
		} else {
			rasterizer = r
		}
	}

	var publisher service.Publisher
	if a.Storage != nil {
		publisher = a.Storage
	}
	a.Render = service.NewRenderService(a.Catalog, rasterizer, a.Cache, publisher, cfg.Render.CanvasSize)

	return a, nil
}

// Close releases backend connections
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// NewOverrideRepository picks the override slot backend for override.driver
func NewOverrideRepository(cfg *config.Config, db *gorm.DB, client *redis.Client) (repository.OverrideRepository, error) {
	switch cfg.Override.Driver {
	case "", "file":
		return repository.NewFileOverrideRepository(cfg.Override.Path), nil
	case "database":
		if db == nil {
			return nil, fmt.Errorf("override driver database: no database connection")
		}
		repo := repository.NewDBOverrideRepository(db, cfg.Override.Slot)
		if err := repo.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("migrate dataset_overrides: %w", err)
		}
		return repo, nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("override driver redis: no redis connection")
		}
		return repository.NewRedisOverrideRepository(client, cfg.Override.Slot), nil
	default:
		return nil, fmt.Errorf("unknown override driver %q", cfg.Override.Driver)
	}
}

// NewBundleSource picks the bundled dataset source for dataset.bundle.source
func NewBundleSource(cfg *config.Config, s3 *pkgstorage.S3Client) (repository.BundleSource, error) {
	b := cfg.Dataset.Bundle
	switch b.Source {
	case "", "embedded":
		return repository.NewEmbeddedBundle(), nil
	case "file":
		return repository.NewFileBundle(b.Path), nil
	case "http":
		return repository.NewHTTPBundle(b.URL, time.Duration(b.Timeout)*time.Second), nil
	case "s3":
		if s3 == nil {
			return nil, fmt.Errorf("bundle source s3: storage is not enabled")
		}
		return repository.NewObjectBundle(s3, b.ObjectKey), nil
	default:
		return nil, fmt.Errorf("unknown bundle source %q", b.Source)
	}
}

// InitDB MySQL 연결 초기화
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("DSN 파싱 실패: %w", err)
	}

	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
