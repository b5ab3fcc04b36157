package frontpage

import (
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
)

var baseNow = time.Date(2025, time.November, 17, 12, 0, 0, 0, time.UTC)

func event(id string, count int, age time.Duration) domain.NewsEvent {
	return domain.NewsEvent{
		ID:        id,
		Title:     "Event " + id,
		Slug:      "event-" + id,
		ImageID:   "img" + id,
		CreatedAt: baseNow.Add(-age),
		CountNews: count,
		Topics:    []domain.Topic{{ID: "t-" + id, Slug: "topic-" + id, Name: "Topic " + id}},
	}
}

func ids(events []domain.NewsEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func slotIDs(slots []DisplaySlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Event.ID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
