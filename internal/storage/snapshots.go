package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
)

// leadTTL keeps the last announced lead long enough to survive restarts.
const leadTTL = 7 * 24 * time.Hour

// Snapshots stores typed upstream snapshots and watcher state on top of a Store.
type Snapshots struct {
	store Store
}

// NewSnapshots wraps store. A nil store disables caching.
func NewSnapshots(store Store) *Snapshots {
	if store == nil {
		store = noopStore{}
	}
	return &Snapshots{store: store}
}

// Events returns the cached event pool of locale.
func (s *Snapshots) Events(ctx context.Context, locale domain.Locale) ([]domain.NewsEvent, bool, error) {
	var events []domain.NewsEvent
	ok, err := s.getJSON(ctx, eventsKey(locale), &events)
	return events, ok, err
}

// SaveEvents caches the event pool of locale with the default ttl.
func (s *Snapshots) SaveEvents(ctx context.Context, locale domain.Locale, events []domain.NewsEvent) error {
	return s.putJSON(ctx, eventsKey(locale), events, 0)
}

// Quotes returns the cached quotes of locale.
func (s *Snapshots) Quotes(ctx context.Context, locale domain.Locale) ([]domain.Quote, bool, error) {
	var quotes []domain.Quote
	ok, err := s.getJSON(ctx, quotesKey(locale), &quotes)
	return quotes, ok, err
}

// SaveQuotes caches the quotes of locale with the default ttl.
func (s *Snapshots) SaveQuotes(ctx context.Context, locale domain.Locale, quotes []domain.Quote) error {
	return s.putJSON(ctx, quotesKey(locale), quotes, 0)
}

// LastLead returns the id of the last lead announced for locale.
func (s *Snapshots) LastLead(ctx context.Context, locale domain.Locale) (string, bool, error) {
	raw, ok, err := s.store.Get(ctx, leadKey(locale))
	if err != nil || !ok {
		return "", false, err
	}
	return string(raw), true, nil
}

// SaveLead records id as the announced lead of locale.
func (s *Snapshots) SaveLead(ctx context.Context, locale domain.Locale, id string) error {
	return s.store.Put(ctx, leadKey(locale), []byte(id), leadTTL)
}

// Close releases the underlying store.
func (s *Snapshots) Close() error {
	return s.store.Close()
}

func (s *Snapshots) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return true, nil
}

func (s *Snapshots) putJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	return s.store.Put(ctx, key, raw, ttl)
}

func eventsKey(l domain.Locale) string { return "events:" + l.Key() }
func quotesKey(l domain.Locale) string { return "quotes:" + l.Key() }
func leadKey(l domain.Locale) string   { return "lead:" + l.Key() }
