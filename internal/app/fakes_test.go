package app

import (
	"context"
	"errors"
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/frontpage"
	"github.com/samvad-hq/samvad-news-portal/pkg/links"
	"github.com/samvad-hq/samvad-news-portal/pkg/publishers"
)

var (
	testNow = time.Date(2025, time.November, 17, 12, 0, 0, 0, time.UTC)
	enIN    = domain.Locale{Lang: "en", Country: "in"}
)

func newsEvent(id string, count int, age time.Duration) domain.NewsEvent {
	return domain.NewsEvent{
		ID:        id,
		Title:     "Event " + id,
		Slug:      "event-" + id,
		CreatedAt: testNow.Add(-age),
		CountNews: count,
		Topics:    []domain.Topic{{ID: "t-" + id, Slug: "topic-" + id, Name: "Topic " + id}},
	}
}

// fakeUpstream serves canned data and counts calls per operation.
type fakeUpstream struct {
	events    []domain.NewsEvent
	quotes    []domain.Quote
	story     domain.Story
	stories   []domain.Story
	eventsErr error
	quotesErr error
	storyErr  error
	calls     map[string]int
}

func (f *fakeUpstream) count(op string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
}

func (f *fakeUpstream) LatestEvents(context.Context, domain.Locale, int) ([]domain.NewsEvent, error) {
	f.count("latest_events")
	return f.events, f.eventsErr
}

func (f *fakeUpstream) LatestQuotes(context.Context, domain.Locale, int) ([]domain.Quote, error) {
	f.count("latest_quotes")
	return f.quotes, f.quotesErr
}

func (f *fakeUpstream) Story(_ context.Context, _ domain.Locale, id string) (domain.Story, error) {
	f.count("story")
	if f.storyErr != nil {
		return domain.Story{}, f.storyErr
	}
	if f.story.ID != id {
		return domain.Story{}, domain.ErrNotFound
	}
	return f.story, nil
}

func (f *fakeUpstream) LatestStories(context.Context, domain.Locale, int) ([]domain.Story, error) {
	f.count("latest_stories")
	return f.stories, nil
}

type fakeMetrics struct {
	upstream map[string]int
	renders  map[string]int
	leads    map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{upstream: map[string]int{}, renders: map[string]int{}, leads: map[string]int{}}
}

func (f *fakeMetrics) UpstreamError(op string) { f.upstream[op]++ }
func (f *fakeMetrics) LeadChanged(locale string) {
	f.leads[locale]++
}
func (f *fakeMetrics) ObserveRender(page, status string, _ time.Duration) {
	f.renders[page+":"+status]++
}

type fakeFanout struct {
	published []publishers.LeadChange
	err       error
	delivered int
	closed    bool
}

func (f *fakeFanout) Publish(_ context.Context, evt publishers.LeadChange) (int, error) {
	f.published = append(f.published, evt)
	return f.delivered, f.err
}

func (f *fakeFanout) Size() int { return 1 }

func (f *fakeFanout) Close() error {
	f.closed = true
	return nil
}

var errUpstream = errors.New("upstream down")

func testLinks() *links.Builder {
	return links.New(links.Config{Host: "news.example.com", DefaultLang: "en"})
}

func testEngine() *frontpage.Engine {
	return frontpage.NewEngine(frontpage.Options{Links: testLinks()}, nil, nil)
}

func fixedClock(s *Source) *Source {
	s.now = func() time.Time { return testNow }
	return s
}
