package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/storage"
)

func newCachingSnapshots(t *testing.T) *storage.Snapshots {
	t.Helper()
	store, err := storage.NewStore("bbolt", t.TempDir()+"/snap.db", storage.Options{DefaultTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	snaps := storage.NewSnapshots(store)
	t.Cleanup(func() { snaps.Close() })
	return snaps
}

func TestSourceBundleCachesEventsAndQuotes(t *testing.T) {
	up := &fakeUpstream{
		events: []domain.NewsEvent{newsEvent("a", 3, time.Hour)},
		quotes: []domain.Quote{{ID: "q1", Text: "Hello"}},
	}
	src := fixedClock(NewSource(up, newCachingSnapshots(t), Limits{Events: 40, Quotes: 6}, nil, nil))

	for i := 0; i < 2; i++ {
		b, err := src.Bundle(context.Background(), enIN)
		if err != nil {
			t.Fatalf("Bundle: %v", err)
		}
		if len(b.Events) != 1 || b.Events[0].ID != "a" || len(b.Quotes) != 1 {
			t.Fatalf("bundle = %+v", b)
		}
		if !b.Now.Equal(testNow) || b.Locale != enIN {
			t.Fatalf("bundle now=%v locale=%v", b.Now, b.Locale)
		}
	}
	if up.calls["latest_events"] != 1 {
		t.Fatalf("events fetched %d times, want 1", up.calls["latest_events"])
	}
	if up.calls["latest_quotes"] != 1 {
		t.Fatalf("quotes fetched %d times, want 1", up.calls["latest_quotes"])
	}
}

func TestSourceBundleRetriesQuotesAfterFailure(t *testing.T) {
	up := &fakeUpstream{
		events:    []domain.NewsEvent{newsEvent("a", 1, 0)},
		quotesErr: errUpstream,
	}
	src := NewSource(up, newCachingSnapshots(t), Limits{Events: 10, Quotes: 3}, nil, nil)

	if b, err := src.Bundle(context.Background(), enIN); err != nil || b.Quotes != nil {
		t.Fatalf("first Bundle quotes=%v err=%v", b.Quotes, err)
	}

	up.quotesErr = nil
	up.quotes = []domain.Quote{{ID: "q1", Text: "Hello"}}
	b, err := src.Bundle(context.Background(), enIN)
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if len(b.Quotes) != 1 || b.Quotes[0].ID != "q1" {
		t.Fatalf("quotes = %+v", b.Quotes)
	}
	if up.calls["latest_quotes"] != 2 {
		t.Fatalf("quotes fetched %d times, want 2", up.calls["latest_quotes"])
	}
}

func TestSourceBundleToleratesQuoteFailure(t *testing.T) {
	rec := newFakeMetrics()
	up := &fakeUpstream{events: []domain.NewsEvent{newsEvent("a", 1, 0)}, quotesErr: errUpstream}
	src := NewSource(up, nil, Limits{Events: 10, Quotes: 3}, nil, rec)

	b, err := src.Bundle(context.Background(), enIN)
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if b.Quotes != nil || len(b.Events) != 1 {
		t.Fatalf("bundle = %+v", b)
	}
	if rec.upstream["latest_quotes"] != 1 {
		t.Fatalf("quote failure not recorded: %v", rec.upstream)
	}
}

func TestSourceBundleFailsWithoutEvents(t *testing.T) {
	rec := newFakeMetrics()
	up := &fakeUpstream{eventsErr: errUpstream}
	src := NewSource(up, nil, Limits{Events: 10}, nil, rec)

	if _, err := src.Bundle(context.Background(), enIN); !errors.Is(err, errUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if rec.upstream["latest_events"] != 1 {
		t.Fatalf("events failure not recorded: %v", rec.upstream)
	}
	if up.calls["latest_quotes"] != 0 {
		t.Fatalf("quotes should not be fetched after an events failure")
	}
}

func TestSourceStoryAsksForOneExtraRelated(t *testing.T) {
	up := &fakeUpstream{
		story:   domain.Story{ID: "s1", Title: "One"},
		stories: []domain.Story{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}},
	}
	src := NewSource(up, nil, Limits{Related: 2}, nil, nil)

	story, related, err := src.Story(context.Background(), enIN, "s1")
	if err != nil {
		t.Fatalf("Story: %v", err)
	}
	if story.ID != "s1" || len(related) != 3 {
		t.Fatalf("story=%+v related=%d", story, len(related))
	}
}
