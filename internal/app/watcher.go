package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/config"
	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/frontpage"
	"github.com/samvad-hq/samvad-news-portal/internal/logger"
	"github.com/samvad-hq/samvad-news-portal/internal/storage"
	"github.com/samvad-hq/samvad-news-portal/pkg/links"
	"github.com/samvad-hq/samvad-news-portal/pkg/publishers"
)

// leadPublisher delivers lead changes downstream.
type leadPublisher interface {
	Publish(ctx context.Context, evt publishers.LeadChange) (int, error)
	Size() int
	Close() error
}

// leadRecorder counts detected lead changes.
type leadRecorder interface {
	LeadChanged(locale string)
}

// Watcher polls the front page of each configured locale and announces
// lead changes through the publishers.
type Watcher struct {
	core     *core
	source   *Source
	engine   *frontpage.Engine
	snaps    *storage.Snapshots
	links    *links.Builder
	fanout   leadPublisher
	recorder leadRecorder
	locales  []domain.Locale
	interval time.Duration
	log      logger.Logger

	// last holds the lead seen per locale during this process lifetime.
	last map[string]string
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	locales, err := parseLocales(config.SplitList(cfg.WatchLocales))
	if err != nil {
		return nil, err
	}

	c, err := newCore(cfg, log)
	if err != nil {
		return nil, err
	}

	publisherFile, err := publishers.Load(cfg.PublishersFile)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("load publishers file: %w", err)
	}
	enabled := publisherFile.Enabled()
	if len(enabled) == 0 {
		c.close()
		return nil, fmt.Errorf("no publishers configured")
	}
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, c.log)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	c.log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	w := newWatcher(c.source, c.engine, c.snaps, c.links, publishers.NewFanout(pubs), c.metrics, locales, cfg.WatchInterval, c.log)
	w.core = c
	return w, nil
}

func newWatcher(source *Source, engine *frontpage.Engine, snaps *storage.Snapshots, lb *links.Builder,
	fanout leadPublisher, rec leadRecorder, locales []domain.Locale, interval time.Duration, log logger.Logger) *Watcher {
	return &Watcher{
		source:   source,
		engine:   engine,
		snaps:    snaps,
		links:    lb,
		fanout:   fanout,
		recorder: rec,
		locales:  locales,
		interval: interval,
		log:      logger.Ensure(log),
		last:     make(map[string]string),
	}
}

// Run starts the watch loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.source == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.shutdown()

	if len(w.locales) == 0 {
		w.log.WarnObj("no locales configured; watcher idle", "watch_locales", "")
		<-ctx.Done()
		return nil
	}

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"locales":          localeKeys(w.locales),
		"publishers_count": w.fanout.Size(),
		"watch_interval":   w.interval.String(),
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial watch failed", "error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled watch failed", "error", err.Error())
			}
		}
	}
}

// runOnce checks every locale, continuing past failures.
func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()
	var errs []error
	changed := 0
	for _, locale := range w.locales {
		ok, err := w.checkLocale(ctx, locale)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", locale.Key(), err))
			continue
		}
		if ok {
			changed++
		}
	}
	w.log.InfoObj("watch completed", "watch_meta", map[string]any{
		"locales_count": len(w.locales),
		"changed":       changed,
		"failed":        len(errs),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return errors.Join(errs...)
}

// checkLocale reports whether a lead change was announced for locale. The
// first lead ever observed for a locale is recorded without announcing.
func (w *Watcher) checkLocale(ctx context.Context, locale domain.Locale) (bool, error) {
	bundle, err := w.source.Bundle(ctx, locale)
	if err != nil {
		return false, err
	}
	layout, _, ok := w.engine.Layout(bundle)
	if !ok {
		w.log.DebugObj("empty event pool; nothing to watch", "locale", locale.Key())
		return false, nil
	}
	lead := layout.Lead.Event

	previous, known, err := w.previousLead(ctx, locale)
	if err != nil {
		return false, err
	}
	if known && previous == lead.ID {
		return false, nil
	}
	if !known {
		w.log.InfoObj("first lead observed", "lead_meta", map[string]any{
			"locale":   locale.Key(),
			"event_id": lead.ID,
		})
		return false, w.remember(ctx, locale, lead.ID)
	}

	url := w.links.Absolute(w.links.Story(lead.Slug, lead.ID, locale.Lang))
	change := publishers.NewLeadChange(locale, lead, previous, url, bundle.Now)
	delivered, err := w.fanout.Publish(ctx, change)
	if err != nil {
		w.log.ErrorObj("lead change delivery failed", "lead_delivery_error", map[string]any{
			"locale":    locale.Key(),
			"event_id":  lead.ID,
			"delivered": delivered,
			"error":     err.Error(),
		})
		if delivered == 0 {
			// Keep the old lead so the next tick retries.
			return false, err
		}
	}

	w.recorder.LeadChanged(locale.Key())
	w.log.InfoObj("lead changed", "lead_meta", map[string]any{
		"locale":      locale.Key(),
		"event_id":    lead.ID,
		"previous_id": previous,
		"count_news":  lead.CountNews,
		"delivered":   delivered,
	})
	return true, w.remember(ctx, locale, lead.ID)
}

func (w *Watcher) previousLead(ctx context.Context, locale domain.Locale) (string, bool, error) {
	if id, ok := w.last[locale.Key()]; ok {
		return id, true, nil
	}
	id, ok, err := w.snaps.LastLead(ctx, locale)
	if err != nil {
		return "", false, fmt.Errorf("read last lead: %w", err)
	}
	if ok {
		w.last[locale.Key()] = id
	}
	return id, ok, nil
}

func (w *Watcher) remember(ctx context.Context, locale domain.Locale, id string) error {
	w.last[locale.Key()] = id
	if err := w.snaps.SaveLead(ctx, locale, id); err != nil {
		return fmt.Errorf("save last lead: %w", err)
	}
	return nil
}

func (w *Watcher) shutdown() {
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publisher close failed", "error", err.Error())
	}
	w.core.close()
}

func parseLocales(raw []string) ([]domain.Locale, error) {
	out := make([]domain.Locale, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		l, err := domain.ParseLocale(r)
		if err != nil {
			return nil, fmt.Errorf("watch_locales: %w", err)
		}
		if seen[l.Key()] {
			continue
		}
		seen[l.Key()] = true
		out = append(out, l)
	}
	return out, nil
}

func localeKeys(locales []domain.Locale) []string {
	keys := make([]string, 0, len(locales))
	for _, l := range locales {
		keys = append(keys, l.Key())
	}
	return keys
}
