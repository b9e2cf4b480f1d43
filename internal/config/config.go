package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	pkglogger "github.com/emojitopng/emojitopng-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config 애플리케이션 전체 설정
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Override OverrideConfig `yaml:"override"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Render   RenderConfig   `yaml:"render"`
	Admin    AdminConfig    `yaml:"admin"`
	CORS     CORSConfig     `yaml:"cors"`
	Site     SiteConfig     `yaml:"site"`
}

// AppConfig 앱 기본 정보
type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment" validate:"required,oneof=local dev development staging production test"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port         int `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout  int `yaml:"read_timeout"`  // seconds
	WriteTimeout int `yaml:"write_timeout"` // seconds
}

// DatasetConfig 기본 번들 데이터셋 설정
type DatasetConfig struct {
	Bundle         BundleConfig `yaml:"bundle"`
	ReloadSchedule string       `yaml:"reload_schedule"` // 5-field cron, empty = never
}

// BundleConfig where the bundled default CSV comes from
type BundleConfig struct {
	Source    string `yaml:"source" validate:"oneof=embedded file http s3"`
	Path      string `yaml:"path" validate:"required_if=Source file"`
	URL       string `yaml:"url" validate:"required_if=Source http"`
	ObjectKey string `yaml:"object_key" validate:"required_if=Source s3"`
	Timeout   int    `yaml:"timeout"` // seconds, http only
}

// OverrideConfig 사용자 데이터셋 슬롯 저장소
type OverrideConfig struct {
	Driver string `yaml:"driver" validate:"oneof=file database redis"`
	Path   string `yaml:"path" validate:"required_if=Driver file"`
	Slot   string `yaml:"slot" validate:"required"`
}

// DatabaseConfig MySQL 설정
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// GetDSN MySQL DSN 생성
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// RedisConfig Redis 설정
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// StorageConfig S3 호환 스토리지 설정
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket" validate:"required_if=Enabled true"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

// RenderConfig 이미지 렌더링 설정
type RenderConfig struct {
	Enabled    bool     `yaml:"enabled"`
	CanvasSize int      `yaml:"canvas_size" validate:"min=0,max=4096"`
	GlyphSize  float64  `yaml:"glyph_size" validate:"min=0"`
	Fonts      []string `yaml:"fonts"`
	Publish    bool     `yaml:"publish"` // upload rendered PNGs to storage
	RateLimit  int      `yaml:"rate_limit"`
}

// AdminConfig 관리자 키 (bcrypt 해시)
type AdminConfig struct {
	KeyHash string `yaml:"key_hash"`
}

// CORSConfig CORS 설정
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// SiteConfig 공개 사이트 설정 (sitemap 등)
type SiteConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
}

// IsDevelopment 개발 환경 여부
func (c *Config) IsDevelopment() bool {
	switch c.App.Environment {
	case "local", "dev", "development":
		return true
	}
	return false
}

// defaults 기본값
func defaults() *Config {
	return &Config{
		App:    AppConfig{Name: "emojitopng", Environment: "local"},
		Server: ServerConfig{Port: 8081, ReadTimeout: 15, WriteTimeout: 30},
		Dataset: DatasetConfig{Bundle: BundleConfig{
			Source:  "embedded",
			Timeout: 10,
		}},
		Override: OverrideConfig{Driver: "file", Path: "data/emoji_db_csv.csv", Slot: "emoji_db_csv"},
		Database: DatabaseConfig{
			Host: "localhost", Port: 3306, MaxIdleConns: 5, MaxOpenConns: 20, ConnMaxLifetime: 300,
		},
		Redis:  RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		Render: RenderConfig{Enabled: true, CanvasSize: 1024, GlyphSize: 800, RateLimit: 60},
		CORS:   CORSConfig{AllowOrigins: "http://localhost:3000"},
		Site:   SiteConfig{BaseURL: "https://emojitopng.com"},
	}
}

var configValidator = validator.New()

// Load 설정 파일 로드 (없으면 기본값) 후 환경변수 적용
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		pkglogger.Warn("config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := configValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv 환경변수 우선 적용
func applyEnv(cfg *Config) {
	setString(&cfg.App.Environment, "APP_ENV")
	setInt(&cfg.Server.Port, "PORT")

	setString(&cfg.Dataset.Bundle.Source, "DATASET_BUNDLE_SOURCE")
	setString(&cfg.Dataset.Bundle.Path, "DATASET_BUNDLE_PATH")
	setString(&cfg.Dataset.Bundle.URL, "DATASET_BUNDLE_URL")
	setString(&cfg.Dataset.Bundle.ObjectKey, "DATASET_BUNDLE_OBJECT_KEY")
	setString(&cfg.Dataset.ReloadSchedule, "DATASET_RELOAD_SCHEDULE")

	setString(&cfg.Override.Driver, "OVERRIDE_DRIVER")
	setString(&cfg.Override.Path, "OVERRIDE_PATH")

	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")

	setBool(&cfg.Redis.Enabled, "REDIS_ENABLED")
	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setBool(&cfg.Storage.Enabled, "STORAGE_ENABLED")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKeyID, "STORAGE_ACCESS_KEY_ID")
	setString(&cfg.Storage.SecretAccessKey, "STORAGE_SECRET_ACCESS_KEY")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.CDNURL, "STORAGE_CDN_URL")

	if fonts := os.Getenv("RENDER_FONTS"); fonts != "" {
		cfg.Render.Fonts = splitList(fonts)
	}

	setString(&cfg.Admin.KeyHash, "ADMIN_KEY_HASH")
	setString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
	setString(&cfg.Site.BaseURL, "SITE_BASE_URL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LogResolved 최종 설정 출력 (비밀값 마스킹)
func LogResolved(cfg *Config) {
	log := pkglogger.GetLogger()
	log.Info().
		Str("env", cfg.App.Environment).
		Int("port", cfg.Server.Port).
		Str("bundle_source", cfg.Dataset.Bundle.Source).
		Str("reload_schedule", cfg.Dataset.ReloadSchedule).
		Str("override_driver", cfg.Override.Driver).
		Str("override_slot", cfg.Override.Slot).
		Str("db", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)).
		Str("db_password", mask(cfg.Database.Password)).
		Bool("redis", cfg.Redis.Enabled).
		Str("redis_addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)).
		Bool("storage", cfg.Storage.Enabled).
		Str("storage_bucket", cfg.Storage.Bucket).
		Str("storage_secret", mask(cfg.Storage.SecretAccessKey)).
		Bool("render", cfg.Render.Enabled).
		Strs("render_fonts", cfg.Render.Fonts).
		Bool("admin_key", cfg.Admin.KeyHash != "").
		Str("site", cfg.Site.BaseURL).
		Msg("resolved config")
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}
