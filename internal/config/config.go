package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	HTTPAddr       string `mapstructure:"http_addr"`
	SiteHost       string `mapstructure:"site_host"`
	ImageHost      string `mapstructure:"image_host"`
	DefaultLang    string `mapstructure:"default_lang"`
	DefaultCountry string `mapstructure:"default_country"`
	Languages      string `mapstructure:"languages"`
	Timezone       string `mapstructure:"timezone"`
	CORSOrigins    string `mapstructure:"cors_origins"`

	APIBaseURL        string        `mapstructure:"api_base_url"`
	APIKey            string        `mapstructure:"api_key"`
	APIMaxAttempts    int           `mapstructure:"api_max_attempts"`
	APITimeoutSeconds int64         `mapstructure:"api_timeout_seconds"`
	APITimeout        time.Duration `mapstructure:"-"`
	LatestEventsLimit int           `mapstructure:"latest_events_limit"`
	LatestQuotesLimit int           `mapstructure:"latest_quotes_limit"`
	RelatedNewsLimit  int           `mapstructure:"related_news_limit"`

	RecencyWindowHours int64         `mapstructure:"recency_window_hours"`
	RecencyWindow      time.Duration `mapstructure:"-"`
	LuminanceThreshold float64       `mapstructure:"luminance_threshold"`
	TopicDenylistFile  string        `mapstructure:"topic_denylist_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	RedisURL               string        `mapstructure:"redis_url"`
	SnapshotTTLSeconds     int64         `mapstructure:"snapshot_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	SnapshotTTL            time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	PublishersFile       string        `mapstructure:"publishers_file"`
	WatchIntervalSeconds int64         `mapstructure:"watch_interval"`
	WatchInterval        time.Duration `mapstructure:"-"`
	WatchLocales         string        `mapstructure:"watch_locales"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "samvad-news-portal")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("site_host", "news.example.com")
	v.SetDefault("image_host", "https://img.example.com")
	v.SetDefault("default_lang", "en")
	v.SetDefault("default_country", "in")
	v.SetDefault("languages", "en")
	v.SetDefault("timezone", "Asia/Kolkata")
	v.SetDefault("cors_origins", "")

	v.SetDefault("api_base_url", "http://localhost:9000")
	v.SetDefault("api_key", "")
	v.SetDefault("api_max_attempts", 2)
	v.SetDefault("api_timeout_seconds", 10)
	v.SetDefault("latest_events_limit", 40)
	v.SetDefault("latest_quotes_limit", 6)
	v.SetDefault("related_news_limit", 2)

	v.SetDefault("recency_window_hours", 12)
	v.SetDefault("luminance_threshold", 0.30)
	v.SetDefault("topic_denylist_file", "./configs/topic_denylist.yaml")

	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/portal.db")
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("snapshot_ttl_seconds", 300)
	v.SetDefault("storage_cleanup_interval_seconds", int64(time.Hour/time.Second))

	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("watch_interval", 300) // seconds
	v.SetDefault("watch_locales", "en-in")
}

func (c *Config) normalize() error {
	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("invalid api_timeout_seconds (must be positive seconds)")
	}
	c.APITimeout = time.Duration(c.APITimeoutSeconds) * time.Second
	if c.APIMaxAttempts <= 0 {
		return fmt.Errorf("invalid api_max_attempts (must be positive)")
	}

	if c.RecencyWindowHours <= 0 {
		return fmt.Errorf("invalid recency_window_hours (must be positive hours)")
	}
	c.RecencyWindow = time.Duration(c.RecencyWindowHours) * time.Hour

	if c.LuminanceThreshold < 0 || c.LuminanceThreshold > 1 {
		return fmt.Errorf("invalid luminance_threshold %v (must be within [0,1])", c.LuminanceThreshold)
	}

	if c.LatestEventsLimit <= 0 {
		return fmt.Errorf("invalid latest_events_limit (must be positive)")
	}
	if c.LatestQuotesLimit < 0 || c.RelatedNewsLimit < 0 {
		return fmt.Errorf("invalid quotes/related limits (must not be negative)")
	}

	c.StorageType = strings.ToLower(strings.TrimSpace(c.StorageType))
	switch c.StorageType {
	case "", "none", "disabled", "bbolt", "redis":
	default:
		return fmt.Errorf("unsupported storage_type %q", c.StorageType)
	}
	if c.SnapshotTTLSeconds <= 0 {
		return fmt.Errorf("invalid snapshot_ttl_seconds (must be positive seconds)")
	}
	if c.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	c.SnapshotTTL = time.Duration(c.SnapshotTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second

	if c.WatchIntervalSeconds <= 0 {
		return fmt.Errorf("invalid watch_interval (must be positive seconds)")
	}
	c.WatchInterval = time.Duration(c.WatchIntervalSeconds) * time.Second

	c.DefaultLang = strings.ToLower(strings.TrimSpace(c.DefaultLang))
	c.DefaultCountry = strings.ToLower(strings.TrimSpace(c.DefaultCountry))
	if c.DefaultLang == "" || c.DefaultCountry == "" {
		return fmt.Errorf("default_lang and default_country are required")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured display time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SplitList splits a comma separated config value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Redacted returns a copy safe for logging.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "***"
	}
	return c
}
