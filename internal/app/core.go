package app

import (
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-news-portal/internal/config"
	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/frontpage"
	"github.com/samvad-hq/samvad-news-portal/internal/logger"
	"github.com/samvad-hq/samvad-news-portal/internal/metrics"
	"github.com/samvad-hq/samvad-news-portal/internal/storage"
	"github.com/samvad-hq/samvad-news-portal/pkg/httpclient"
	"github.com/samvad-hq/samvad-news-portal/pkg/links"
	"github.com/samvad-hq/samvad-news-portal/pkg/newsapi"
	"github.com/samvad-hq/samvad-news-portal/pkg/topicrules"
)

// core holds the components shared by the portal server and the lead watcher.
type core struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Metrics
	snaps   *storage.Snapshots
	links   *links.Builder
	engine  *frontpage.Engine
	source  *Source
}

func newCore(cfg *config.Config, log logger.Logger) (*core, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	denylist, err := loadDenylist(cfg.TopicDenylistFile, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, storageDSN(cfg), storage.Options{
		DefaultTTL:      cfg.SnapshotTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"snapshot_ttl_seconds":     int(cfg.SnapshotTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	api, err := newsapi.New(httpclient.NewRestyClient(cfg.APITimeout), newsapi.Options{
		BaseURL:     cfg.APIBaseURL,
		APIKey:      cfg.APIKey,
		MaxAttempts: cfg.APIMaxAttempts,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init news api client: %w", err)
	}

	m := metrics.New()
	linkBuilder := links.New(links.Config{
		Host:        cfg.SiteHost,
		ImageHost:   cfg.ImageHost,
		DefaultLang: cfg.DefaultLang,
	})
	threshold := cfg.LuminanceThreshold
	engine := frontpage.NewEngine(frontpage.Options{
		RecencyWindow:      cfg.RecencyWindow,
		LuminanceThreshold: &threshold,
		Denylist:           denylist,
		Location:           cfg.Location(),
		Links:              linkBuilder,
	}, log, m)

	snaps := storage.NewSnapshots(store)
	source := NewSource(api, snaps, Limits{
		Events:  cfg.LatestEventsLimit,
		Quotes:  cfg.LatestQuotesLimit,
		Related: cfg.RelatedNewsLimit,
	}, log, m)

	return &core{
		cfg:     cfg,
		log:     log,
		metrics: m,
		snaps:   snaps,
		links:   linkBuilder,
		engine:  engine,
		source:  source,
	}, nil
}

// defaultLocale is the locale served when a request names none.
func (c *core) defaultLocale() domain.Locale {
	return domain.Locale{Lang: c.cfg.DefaultLang, Country: c.cfg.DefaultCountry}
}

// close releases the snapshot store, logging any error.
func (c *core) close() {
	if c == nil || c.snaps == nil {
		return
	}
	if err := c.snaps.Close(); err != nil {
		c.log.ErrorObj("storage close failed", "error", err.Error())
	}
}

// loadDenylist reads the topic denylist file. An empty path disables filtering.
func loadDenylist(path string, log logger.Logger) (*frontpage.Denylist, error) {
	if strings.TrimSpace(path) == "" {
		log.WarnObj("no topic denylist configured; every topic is relevant", "topic_denylist_file", path)
		return frontpage.NewDenylist(nil), nil
	}
	rules, err := topicrules.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load topic denylist: %w", err)
	}
	denylist := frontpage.NewDenylist(rules.Index())
	log.InfoObj("topic denylist loaded", "topic_denylist_meta", map[string]any{
		"path":    path,
		"locales": len(rules.Locales),
		"entries": denylist.Len(),
	})
	return denylist, nil
}

func storageDSN(cfg *config.Config) string {
	if cfg.StorageType == "redis" {
		return cfg.RedisURL
	}
	return cfg.BBoltPath
}
