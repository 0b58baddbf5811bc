package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Data   DataConfig
	Scan   ScanConfig
	CORS   CORSConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Log    LogConfig
	Metric MetricConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
	// StrictStatus - отдавать 404/422/5xx вместо 200 для доменных ошибок
	StrictStatus bool
}

type DataConfig struct {
	Dir                string
	BuildingsFile      string
	HexagonsFile       string
	CategoryAttribute  string
	HexagonIDAttribute string
	CacheMode          string
	WatchDebounce      time.Duration
	SpatialIndex       bool
}

type ScanConfig struct {
	Timeout        time.Duration
	MaxConcurrency int
}

type CORSConfig struct {
	AllowOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ResultTTL time.Duration
}

type LogConfig struct {
	Level string
}

type MetricConfig struct {
	Enabled bool
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"https://dominica-damage-assessment.netlify.app",
	"https://your-app-name.netlify.app",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8000)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_STRICT_STATUS", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("BUILDINGS_FILE", "buildings.geojson")
	v.SetDefault("HEXAGONS_FILE", "hexagons.geojson")
	v.SetDefault("CATEGORY_ATTRIBUTE", "Category_i")
	v.SetDefault("HEXAGON_ID_ATTRIBUTE", "id")
	v.SetDefault("DATA_CACHE_MODE", "watch")
	v.SetDefault("DATA_WATCH_DEBOUNCE_MS", 500)
	v.SetDefault("SPATIAL_INDEX_ENABLED", true)
	v.SetDefault("SCAN_TIMEOUT", 30)
	v.SetDefault("SCAN_MAX_CONCURRENCY", 0)
	v.SetDefault("CORS_ALLOW_ORIGINS", strings.Join(defaultOrigins, ","))
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RESULT_CACHE_TTL", 3600)
	v.SetDefault("METRICS_ENABLED", true)
}

// Load читает .env (если он есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom читает конфигурацию из указанного env-файла; отсутствие файла не ошибка
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			StrictStatus: v.GetBool("API_STRICT_STATUS"),
		},
		Data: DataConfig{
			Dir:                v.GetString("DATA_DIR"),
			BuildingsFile:      v.GetString("BUILDINGS_FILE"),
			HexagonsFile:       v.GetString("HEXAGONS_FILE"),
			CategoryAttribute:  v.GetString("CATEGORY_ATTRIBUTE"),
			HexagonIDAttribute: v.GetString("HEXAGON_ID_ATTRIBUTE"),
			CacheMode:          strings.ToLower(v.GetString("DATA_CACHE_MODE")),
			WatchDebounce:      time.Duration(v.GetInt("DATA_WATCH_DEBOUNCE_MS")) * time.Millisecond,
			SpatialIndex:       v.GetBool("SPATIAL_INDEX_ENABLED"),
		},
		Scan: ScanConfig{
			Timeout:        time.Duration(v.GetInt("SCAN_TIMEOUT")) * time.Second,
			MaxConcurrency: v.GetInt("SCAN_MAX_CONCURRENCY"),
		},
		CORS: CORSConfig{
			AllowOrigins: parseList(v.GetString("CORS_ALLOW_ORIGINS")),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ResultTTL: time.Duration(v.GetInt("RESULT_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Metric: MetricConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	if cfg.Scan.MaxConcurrency <= 0 {
		cfg.Scan.MaxConcurrency = runtime.GOMAXPROCS(0)
	}
	if len(cfg.CORS.AllowOrigins) == 0 {
		cfg.CORS.AllowOrigins = append([]string(nil), defaultOrigins...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя исправить дефолтами
func (c *Config) Validate() error {
	switch c.Data.CacheMode {
	case "watch", "reload":
	default:
		return fmt.Errorf("invalid DATA_CACHE_MODE %q: want watch or reload", c.Data.CacheMode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid API_PORT %d", c.Server.Port)
	}
	if c.Data.CategoryAttribute == "" || c.Data.HexagonIDAttribute == "" {
		return fmt.Errorf("CATEGORY_ATTRIBUTE and HEXAGON_ID_ATTRIBUTE must not be empty")
	}
	if c.Scan.Timeout < 0 {
		return fmt.Errorf("invalid SCAN_TIMEOUT %s", c.Scan.Timeout)
	}
	return nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) BuildingsPath() string {
	return filepath.Join(c.Data.Dir, c.Data.BuildingsFile)
}

func (c *Config) HexagonsPath() string {
	return filepath.Join(c.Data.Dir, c.Data.HexagonsFile)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
