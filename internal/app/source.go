package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/frontpage"
	"github.com/samvad-hq/samvad-news-portal/internal/logger"
	"github.com/samvad-hq/samvad-news-portal/internal/storage"
)

// Upstream is the news API surface the portal reads from.
type Upstream interface {
	LatestEvents(ctx context.Context, locale domain.Locale, limit int) ([]domain.NewsEvent, error)
	LatestQuotes(ctx context.Context, locale domain.Locale, limit int) ([]domain.Quote, error)
	Story(ctx context.Context, locale domain.Locale, id string) (domain.Story, error)
	LatestStories(ctx context.Context, locale domain.Locale, limit int) ([]domain.Story, error)
}

// UpstreamRecorder counts failed upstream calls.
type UpstreamRecorder interface {
	UpstreamError(op string)
}

// Limits bounds how much is requested upstream per render.
type Limits struct {
	Events  int
	Quotes  int
	Related int
}

// Source assembles render bundles. Event pools and quotes are served from the
// snapshot cache when fresh; stories are always fetched live.
type Source struct {
	upstream Upstream
	snaps    *storage.Snapshots
	limits   Limits
	log      logger.Logger
	rec      UpstreamRecorder
	now      func() time.Time
}

// NewSource builds a Source. snaps and rec may be nil.
func NewSource(up Upstream, snaps *storage.Snapshots, limits Limits, log logger.Logger, rec UpstreamRecorder) *Source {
	if snaps == nil {
		snaps = storage.NewSnapshots(nil)
	}
	if rec == nil {
		rec = nopUpstreamRecorder{}
	}
	return &Source{
		upstream: up,
		snaps:    snaps,
		limits:   limits,
		log:      logger.Ensure(log),
		rec:      rec,
		now:      time.Now,
	}
}

// Bundle fetches everything an index render of locale needs. Missing quotes
// do not fail the bundle; a missing event pool does.
func (s *Source) Bundle(ctx context.Context, locale domain.Locale) (frontpage.Bundle, error) {
	events, err := s.events(ctx, locale)
	if err != nil {
		return frontpage.Bundle{}, err
	}

	var quotes []domain.Quote
	if s.limits.Quotes > 0 {
		quotes = s.quotes(ctx, locale)
	}

	return frontpage.Bundle{
		Events: events,
		Quotes: quotes,
		Now:    s.now(),
		Locale: locale,
	}, nil
}

// Story fetches a story and the most recent stories of locale.
func (s *Source) Story(ctx context.Context, locale domain.Locale, id string) (domain.Story, []domain.Story, error) {
	story, err := s.upstream.Story(ctx, locale, id)
	if err != nil {
		s.rec.UpstreamError("story")
		return domain.Story{}, nil, err
	}

	var related []domain.Story
	if s.limits.Related > 0 {
		// Ask for one extra so the current story can be skipped.
		related, err = s.upstream.LatestStories(ctx, locale, s.limits.Related+1)
		if err != nil {
			s.rec.UpstreamError("latest_stories")
			s.log.WarnObj("related stories unavailable", "related_error", map[string]any{
				"locale":   locale.Key(),
				"story_id": id,
				"error":    err.Error(),
			})
			related = nil
		}
	}
	return story, related, nil
}

// Now returns the source clock reading.
func (s *Source) Now() time.Time { return s.now() }

func (s *Source) events(ctx context.Context, locale domain.Locale) ([]domain.NewsEvent, error) {
	cached, ok, err := s.snaps.Events(ctx, locale)
	if err != nil {
		s.log.WarnObj("snapshot read failed; falling back to upstream", "snapshot_error", map[string]any{
			"locale": locale.Key(),
			"error":  err.Error(),
		})
	}
	if ok {
		return cached, nil
	}

	events, err := s.upstream.LatestEvents(ctx, locale, s.limits.Events)
	if err != nil {
		s.rec.UpstreamError("latest_events")
		return nil, fmt.Errorf("fetch events for %s: %w", locale.Key(), err)
	}
	if err := s.snaps.SaveEvents(ctx, locale, events); err != nil {
		s.log.WarnObj("snapshot write failed", "snapshot_error", map[string]any{
			"locale": locale.Key(),
			"error":  err.Error(),
		})
	}
	return events, nil
}

// quotes never fails: a failed fetch renders the page without quotes and
// leaves the cache untouched.
func (s *Source) quotes(ctx context.Context, locale domain.Locale) []domain.Quote {
	cached, ok, err := s.snaps.Quotes(ctx, locale)
	if err != nil {
		s.log.WarnObj("snapshot read failed; falling back to upstream", "snapshot_error", map[string]any{
			"locale": locale.Key(),
			"error":  err.Error(),
		})
	}
	if ok {
		return cached
	}

	quotes, err := s.upstream.LatestQuotes(ctx, locale, s.limits.Quotes)
	if err != nil {
		s.rec.UpstreamError("latest_quotes")
		s.log.WarnObj("quotes unavailable; rendering without them", "quotes_error", map[string]any{
			"locale": locale.Key(),
			"error":  err.Error(),
		})
		return nil
	}
	if err := s.snaps.SaveQuotes(ctx, locale, quotes); err != nil {
		s.log.WarnObj("snapshot write failed", "snapshot_error", map[string]any{
			"locale": locale.Key(),
			"error":  err.Error(),
		})
	}
	return quotes
}

type nopUpstreamRecorder struct{}

func (nopUpstreamRecorder) UpstreamError(string) {}
