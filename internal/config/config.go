package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	UpstreamBaseURL string
	FeedURL         string
	UserAgent       string
	HTTPTimeout     time.Duration

	// CacheBackend memory / file / redis / postgres / tiered
	CacheBackend string
	CacheDir     string
	RedisAddr    string
	RedisTTL     time.Duration
	PostgresDSN  string

	AssetDir string
	LogoPath string

	CategoryMaxPages  int
	CategoryEnrich    bool
	EnrichConcurrency int

	// WarmCronSpec 为空时不启动预热任务
	WarmCronSpec   string
	WarmCategories []string
}

// Load 读取环境变量；当前目录有 .env 时先加载（不覆盖已设置的变量）
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warn: load .env: %v", err)
	}

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "9000"),
		UpstreamBaseURL:   getEnv("UPSTREAM_BASE_URL", "https://www.cubanet.org"),
		FeedURL:           getEnv("FEED_URL", "https://www.cubanet.org/feed/"),
		UserAgent:         getEnv("USER_AGENT", "NewsRelayBot/1.0"),
		HTTPTimeout:       getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		CacheBackend:      getEnv("CACHE_BACKEND", "memory"),
		CacheDir:          getEnv("CACHE_DIR", "data/cache"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisTTL:          getEnvDuration("REDIS_TTL", 48*time.Hour),
		PostgresDSN:       getEnv("POSTGRES_DSN", "host=localhost user=newsrelay password=newsrelay dbname=newsrelay port=5432 sslmode=disable TimeZone=UTC"),
		AssetDir:          getEnv("ASSET_DIR", "data/assets"),
		LogoPath:          getEnv("LOGO_PATH", "assets/cubanet-logo.png"),
		CategoryMaxPages:  getEnvInt("CATEGORY_MAX_PAGES", 3),
		CategoryEnrich:    getEnvBool("CATEGORY_ENRICH", true),
		EnrichConcurrency: getEnvInt("ENRICH_CONCURRENCY", 4),
		WarmCronSpec:      getEnv("WARM_CRON_SPEC", "5 * * * *"),
		WarmCategories:    splitList(getEnv("WARM_CATEGORIES", "")),
	}

	log.Printf("config loaded: port=%s cache=%s warm=%q categories=%d",
		cfg.AppPort, cfg.CacheBackend, cfg.WarmCronSpec, len(cfg.WarmCategories))
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warn: invalid %s=%q, use %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("warn: invalid %s=%q, use %t", key, v, def)
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("warn: invalid %s=%q, use %s", key, v, def)
		return def
	}
	return d
}

// splitList 逗号分隔，去掉空项
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Now returns current time, 方便后续做可测试封装
func Now() time.Time {
	return time.Now()
}
