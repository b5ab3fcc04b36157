package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/storage"
)

func newTestWatcher(t *testing.T, up *fakeUpstream, fanout *fakeFanout, rec *fakeMetrics, snaps *storage.Snapshots) *Watcher {
	t.Helper()
	src := fixedClock(NewSource(up, nil, Limits{Events: 40}, nil, nil))
	return newWatcher(src, testEngine(), snaps, testLinks(), fanout, rec, []domain.Locale{enIN}, time.Minute, nil)
}

func TestWatcherRecordsFirstLeadWithoutPublishing(t *testing.T) {
	up := &fakeUpstream{events: []domain.NewsEvent{newsEvent("a", 3, time.Hour)}}
	fanout := &fakeFanout{delivered: 1}
	snaps := newCachingSnapshots(t)
	w := newTestWatcher(t, up, fanout, newFakeMetrics(), snaps)

	changed, err := w.checkLocale(context.Background(), enIN)
	if err != nil || changed {
		t.Fatalf("checkLocale changed=%v err=%v", changed, err)
	}
	if len(fanout.published) != 0 {
		t.Fatalf("first lead should not be published")
	}
	if id, ok, _ := snaps.LastLead(context.Background(), enIN); !ok || id != "a" {
		t.Fatalf("stored lead = %q ok=%v", id, ok)
	}
}

func TestWatcherPublishesLeadChange(t *testing.T) {
	up := &fakeUpstream{events: []domain.NewsEvent{newsEvent("a", 3, time.Hour)}}
	fanout := &fakeFanout{delivered: 1}
	rec := newFakeMetrics()
	snaps := newCachingSnapshots(t)
	if err := snaps.SaveLead(context.Background(), enIN, "old"); err != nil {
		t.Fatalf("SaveLead: %v", err)
	}
	w := newTestWatcher(t, up, fanout, rec, snaps)

	changed, err := w.checkLocale(context.Background(), enIN)
	if err != nil || !changed {
		t.Fatalf("checkLocale changed=%v err=%v", changed, err)
	}
	if len(fanout.published) != 1 {
		t.Fatalf("published %d changes", len(fanout.published))
	}
	got := fanout.published[0]
	if got.EventID != "a" || got.PreviousEventID != "old" || got.Locale != "en-in" {
		t.Fatalf("change = %+v", got)
	}
	if got.URL != "http://news.example.com/news/event-a-a" {
		t.Fatalf("url = %s", got.URL)
	}
	if !got.DetectedAt.Equal(testNow) {
		t.Fatalf("detected at = %v", got.DetectedAt)
	}
	if rec.leads["en-in"] != 1 {
		t.Fatalf("lead change not recorded")
	}

	// Same lead again: nothing new.
	changed, err = w.checkLocale(context.Background(), enIN)
	if err != nil || changed || len(fanout.published) != 1 {
		t.Fatalf("unchanged lead re-announced: changed=%v err=%v", changed, err)
	}
}

func TestWatcherRetriesWhenNothingDelivered(t *testing.T) {
	up := &fakeUpstream{events: []domain.NewsEvent{newsEvent("a", 3, time.Hour)}}
	fanout := &fakeFanout{err: errors.New("queue down")}
	snaps := newCachingSnapshots(t)
	if err := snaps.SaveLead(context.Background(), enIN, "old"); err != nil {
		t.Fatalf("SaveLead: %v", err)
	}
	w := newTestWatcher(t, up, fanout, newFakeMetrics(), snaps)

	if _, err := w.checkLocale(context.Background(), enIN); err == nil {
		t.Fatalf("expected delivery error")
	}
	if id, _, _ := snaps.LastLead(context.Background(), enIN); id != "old" {
		t.Fatalf("lead should stay %q until delivered, got %q", "old", id)
	}

	fanout.err = nil
	fanout.delivered = 1
	changed, err := w.checkLocale(context.Background(), enIN)
	if err != nil || !changed || len(fanout.published) != 2 {
		t.Fatalf("retry changed=%v err=%v published=%d", changed, err, len(fanout.published))
	}
}

func TestWatcherRunOnceSkipsEmptyPoolsAndJoinsErrors(t *testing.T) {
	fanout := &fakeFanout{delivered: 1}
	w := newTestWatcher(t, &fakeUpstream{}, fanout, newFakeMetrics(), storage.NewSnapshots(nil))
	if err := w.runOnce(context.Background()); err != nil {
		t.Fatalf("empty pool should not fail: %v", err)
	}

	w = newTestWatcher(t, &fakeUpstream{eventsErr: errUpstream}, fanout, newFakeMetrics(), storage.NewSnapshots(nil))
	if err := w.runOnce(context.Background()); !errors.Is(err, errUpstream) {
		t.Fatalf("expected joined upstream error, got %v", err)
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	fanout := &fakeFanout{delivered: 1}
	w := newTestWatcher(t, &fakeUpstream{}, fanout, newFakeMetrics(), storage.NewSnapshots(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !fanout.closed {
		t.Fatalf("publishers should be closed on exit")
	}
}

func TestParseLocalesDeduplicates(t *testing.T) {
	got, err := parseLocales([]string{"en-in", "EN_IN", "hi-in"})
	if err != nil {
		t.Fatalf("parseLocales: %v", err)
	}
	if keys := localeKeys(got); len(keys) != 2 || keys[0] != "en-in" || keys[1] != "hi-in" {
		t.Fatalf("locales = %v", keys)
	}
	if _, err := parseLocales([]string{"english"}); err == nil {
		t.Fatalf("expected error for malformed locale")
	}
}
