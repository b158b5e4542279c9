package config

import (
	"fmt"
	"strings"

	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"

	"github.com/spf13/viper"
)

// Config is the application configuration tree.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Queue      QueueConfig      `mapstructure:"queue"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Security   SecurityConfig   `mapstructure:"security"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
	Discovery  DiscoveryConfig  `mapstructure:"discovery"`
	Export     ExportConfig     `mapstructure:"export"`
	Shopify    ShopifyConfig    `mapstructure:"shopify"`
	Rainforest RainforestConfig `mapstructure:"rainforest"`
	Keepa      KeepaConfig      `mapstructure:"keepa"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig configures the rotating log sink.
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions converts the log section into logger options.
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig configures the connection pool.
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig selects the datastore backend.
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig configures the cache backend.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig configures the asynq task queue.
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig configures cross-origin access.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig holds request throttling rules.
type SecurityConfig struct {
	DiscoveryRateLimit RateLimitConfig `mapstructure:"discovery_rate_limit"`
}

// RateLimitConfig is a fixed-window rate limit rule.
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// PricingConfig overrides the built-in pricing rule scalars. Zero
// values fall back to the engine defaults.
type PricingConfig struct {
	MarkupPercent float64 `mapstructure:"markup_percent"`
	MinimumProfit float64 `mapstructure:"minimum_profit"`
	PriceMin      float64 `mapstructure:"price_min"`
	PriceMax      float64 `mapstructure:"price_max"`
	MinimumMarkup float64 `mapstructure:"minimum_markup"`
}

// DiscoveryConfig overrides the built-in discovery filters.
type DiscoveryConfig struct {
	PriceMin           float64  `mapstructure:"price_min"`
	PriceMax           float64  `mapstructure:"price_max"`
	MinRating          float64  `mapstructure:"min_rating"`
	MinReviews         int      `mapstructure:"min_reviews"`
	RequirePrime       *bool    `mapstructure:"require_prime"`
	ExcludedBrands     []string `mapstructure:"excluded_brands"`
	ExcludedCategories []string `mapstructure:"excluded_categories"`
}

// ExportConfig configures the Shopify/master export output.
type ExportConfig struct {
	Vendor            string `mapstructure:"vendor"`
	SEODescriptionMax int    `mapstructure:"seo_description_max"`
	DefaultPublished  bool   `mapstructure:"default_published"`
	IncludeMetafields bool   `mapstructure:"include_metafields"`
}

// ShopifyConfig configures the Shopify Admin REST client.
type ShopifyConfig struct {
	StoreDomain string `mapstructure:"store_domain"`
	AccessToken string `mapstructure:"access_token"`
	APIVersion  string `mapstructure:"api_version"`
	TimeoutMS   int    `mapstructure:"timeout_ms"`
}

// RainforestConfig configures the product discovery provider.
type RainforestConfig struct {
	BaseURL         string  `mapstructure:"base_url"`
	APIKey          string  `mapstructure:"api_key"`
	TokensPerMinute int     `mapstructure:"tokens_per_minute"`
	CostPerToken    float64 `mapstructure:"cost_per_token"`
	TimeoutMS       int     `mapstructure:"timeout_ms"`
}

// KeepaConfig configures the BSR/price history provider.
type KeepaConfig struct {
	BaseURL         string  `mapstructure:"base_url"`
	APIKey          string  `mapstructure:"api_key"`
	Domain          int     `mapstructure:"domain"` // 1 = amazon.com
	TokensPerMinute int     `mapstructure:"tokens_per_minute"`
	CostPerToken    float64 `mapstructure:"cost_per_token"`
	TimeoutMS       int     `mapstructure:"timeout_ms"`
}

// Load reads config.yml plus environment overrides.
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "app.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/catalog.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "ds")
	viper.SetDefault("queue.enabled", true)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 10)
	viper.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)
	viper.SetDefault("security.discovery_rate_limit.window_seconds", 60)
	viper.SetDefault("security.discovery_rate_limit.max_requests", 10)
	viper.SetDefault("pricing.markup_percent", 0)
	viper.SetDefault("pricing.minimum_profit", 0)
	viper.SetDefault("pricing.price_min", 0)
	viper.SetDefault("pricing.price_max", 0)
	viper.SetDefault("pricing.minimum_markup", 0)
	viper.SetDefault("discovery.price_min", 0)
	viper.SetDefault("discovery.price_max", 0)
	viper.SetDefault("discovery.min_rating", 0)
	viper.SetDefault("discovery.min_reviews", 0)
	viper.SetDefault("discovery.excluded_brands", []string{})
	viper.SetDefault("discovery.excluded_categories", []string{})
	viper.SetDefault("export.vendor", "Operations Catalog")
	viper.SetDefault("export.seo_description_max", 320)
	viper.SetDefault("export.default_published", false)
	viper.SetDefault("export.include_metafields", true)
	viper.SetDefault("shopify.store_domain", "")
	viper.SetDefault("shopify.access_token", "")
	viper.SetDefault("shopify.api_version", "2024-07")
	viper.SetDefault("shopify.timeout_ms", 15000)
	viper.SetDefault("rainforest.base_url", "https://api.rainforestapi.com")
	viper.SetDefault("rainforest.api_key", "")
	viper.SetDefault("rainforest.tokens_per_minute", 60)
	viper.SetDefault("rainforest.cost_per_token", 0.01)
	viper.SetDefault("rainforest.timeout_ms", 20000)
	viper.SetDefault("keepa.base_url", "https://api.keepa.com")
	viper.SetDefault("keepa.api_key", "")
	viper.SetDefault("keepa.domain", 1)
	viper.SetDefault("keepa.tokens_per_minute", 20)
	viper.SetDefault("keepa.cost_per_token", 0.02)
	viper.SetDefault("keepa.timeout_ms", 20000)

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("config parse failed: %w", err))
	}

	return &cfg
}
