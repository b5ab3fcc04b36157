package frontpage

import (
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
)

// DefaultRecencyWindow is the editorial window used to prefer fresh events for the lead.
const DefaultRecencyWindow = 12 * time.Hour

// SelectRecent returns the events created strictly after now-window, keeping
// input order. When nothing falls inside the window the input is returned
// unchanged: recency is a preference, not a filter.
func SelectRecent(events []domain.NewsEvent, now time.Time, window time.Duration) []domain.NewsEvent {
	recent, _ := selectRecent(events, now, window)
	return recent
}

// selectRecent also reports whether the fallback to the full pool was taken.
func selectRecent(events []domain.NewsEvent, now time.Time, window time.Duration) ([]domain.NewsEvent, bool) {
	cutoff := now.Add(-window)

	var recent []domain.NewsEvent
	for _, evt := range events {
		if evt.CreatedAt.After(cutoff) {
			recent = append(recent, evt)
		}
	}
	if len(recent) == 0 {
		return events, len(events) > 0
	}
	return recent, false
}
