package frontpage

import (
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/pkg/links"
)

type fakeRecorder struct {
	fallbacks int
	degraded  int
}

func (f *fakeRecorder) RecencyFallback(string)         { f.fallbacks++ }
func (f *fakeRecorder) DegradedEvents(_ string, n int) { f.degraded += n }

func newTestEngine(rec Recorder) *Engine {
	return NewEngine(Options{
		Denylist: NewDenylist(map[string][]string{"en-in": {"t-B"}}),
		Links: links.New(links.Config{
			Host:        "news.example.com",
			ImageHost:   "https://img.example.com",
			DefaultLang: "en",
		}),
	}, nil, rec)
}

func TestEngineBuildEmptyBundle(t *testing.T) {
	rec := &fakeRecorder{}
	page := newTestEngine(rec).Build(Bundle{Now: baseNow, Locale: localeIN})

	if page.Lead != nil {
		t.Fatalf("expected no lead for empty pool")
	}
	if len(page.EventIDs()) != 0 {
		t.Fatalf("expected no events, got %v", page.EventIDs())
	}
	if page.RecencyFallback || rec.fallbacks != 0 {
		t.Fatalf("empty pool must not count as recency fallback")
	}
	if page.Links.RSSStories != "/rss/stories" {
		t.Fatalf("rss link = %s", page.Links.RSSStories)
	}
}

func TestEngineBuildLayout(t *testing.T) {
	events := []domain.NewsEvent{
		event("A", 10, time.Hour),
		event("B", 25, 20*time.Hour),
		event("C", 3, 2*time.Hour),
		event("D", 4, 3*time.Hour),
		event("E", 1, 4*time.Hour),
		event("F", 1, 5*time.Hour),
		event("G", 1, 6*time.Hour),
	}
	rec := &fakeRecorder{}
	page := newTestEngine(rec).Build(Bundle{Events: events, Now: baseNow, Locale: localeIN})

	if page.Lead == nil || page.Lead.ID != "A" {
		t.Fatalf("expected lead A, got %+v", page.Lead)
	}
	// B is too old to lead but stays on the page.
	want := []string{"A", "B", "C", "D", "E", "F", "G"}
	if got := page.EventIDs(); !equalStrings(got, want) {
		t.Fatalf("page order = %v, want %v", got, want)
	}
	if page.Lead.Variant != VariantZenWide || page.Lead.ImageSize != ImageLarge {
		t.Fatalf("lead variant/size = %s/%s", page.Lead.Variant, page.Lead.ImageSize)
	}
	if page.Lead.Style == nil || page.Lead.Style.Mask.Orientation != "to left" {
		t.Fatalf("lead style missing or wrong: %+v", page.Lead.Style)
	}
	if page.Lead.ImageURL != "https://img.example.com/events/large/imgA.jpg" {
		t.Fatalf("lead image = %s", page.Lead.ImageURL)
	}
	if page.Lead.URL != "/news/event-A-A" {
		t.Fatalf("lead url = %s", page.Lead.URL)
	}
	if len(page.HeroSecondary) != 2 || len(page.Quad) != 3 || len(page.Tail) != 1 {
		t.Fatalf("regions hero=%d quad=%d tail=%d", len(page.HeroSecondary), len(page.Quad), len(page.Tail))
	}
	if page.RecencyFallback || rec.fallbacks != 0 {
		t.Fatalf("unexpected recency fallback")
	}
	if page.Lead.Age != "an hour" {
		t.Fatalf("lead age = %q", page.Lead.Age)
	}
}

func TestEngineBuildAllOldUsesFallback(t *testing.T) {
	events := []domain.NewsEvent{
		event("A", 1, 30*time.Hour),
		event("B", 7, 40*time.Hour),
	}
	rec := &fakeRecorder{}
	page := newTestEngine(rec).Build(Bundle{Events: events, Now: baseNow, Locale: localeIN})

	if page.Lead == nil || page.Lead.ID != "B" {
		t.Fatalf("expected lead B from full pool, got %+v", page.Lead)
	}
	if !page.RecencyFallback || rec.fallbacks != 1 {
		t.Fatalf("expected recorded fallback, page=%v rec=%d", page.RecencyFallback, rec.fallbacks)
	}
	if got := page.EventIDs(); !equalStrings(got, []string{"B", "A"}) {
		t.Fatalf("page order = %v", got)
	}
}

func TestEngineBuildSingleEvent(t *testing.T) {
	page := newTestEngine(nil).Build(Bundle{
		Events: []domain.NewsEvent{event("solo", 0, time.Minute)},
		Now:    baseNow,
		Locale: localeIN,
	})
	if page.Lead == nil || page.Lead.ID != "solo" {
		t.Fatalf("expected solo lead")
	}
	if len(page.HeroSecondary)+len(page.Quad)+len(page.Tail) != 0 {
		t.Fatalf("expected empty regions")
	}
}

func TestEngineBuildDegradesEventsWithoutTopics(t *testing.T) {
	bare := event("bare", 1, time.Hour)
	bare.Topics = nil
	events := []domain.NewsEvent{event("A", 5, time.Hour), bare}

	rec := &fakeRecorder{}
	page := newTestEngine(rec).Build(Bundle{Events: events, Now: baseNow, Locale: localeIN})

	if len(page.HeroSecondary) != 1 {
		t.Fatalf("expected bare event rendered, got %d", len(page.HeroSecondary))
	}
	view := page.HeroSecondary[0]
	if view.MainTopic != PlaceholderTopic {
		t.Fatalf("expected placeholder topic, got %+v", view.MainTopic)
	}
	if view.TopicURL != "/topic/news" {
		t.Fatalf("topic url = %s", view.TopicURL)
	}
	if !equalStrings(page.Degraded, []string{"bare"}) || rec.degraded != 1 {
		t.Fatalf("degraded = %v rec=%d", page.Degraded, rec.degraded)
	}
}

func TestEngineBuildUsesRelevantTopic(t *testing.T) {
	evt := event("X", 1, time.Hour)
	evt.Topics = []domain.Topic{
		{ID: "t-B", Slug: "denied", Name: "Denied"},
		{ID: "t-ok", Slug: "cricket", Name: "Cricket", Abbr: "CRI"},
	}
	page := newTestEngine(nil).Build(Bundle{
		Events: []domain.NewsEvent{evt},
		Now:    baseNow,
		Locale: localeIN,
	})
	if page.Lead.MainTopic.ID != "t-ok" || page.Lead.TopicLabel != "CRI" {
		t.Fatalf("main topic = %+v label=%s", page.Lead.MainTopic, page.Lead.TopicLabel)
	}

	page = newTestEngine(nil).Build(Bundle{
		Events: []domain.NewsEvent{evt},
		Now:    baseNow,
		Locale: domain.Locale{Lang: "hi", Country: "in"},
	})
	if page.Lead.MainTopic.ID != "t-B" {
		t.Fatalf("expected first topic for other locale, got %+v", page.Lead.MainTopic)
	}
	if page.Lead.TopicURL != "/topic/denied?ul=hi" {
		t.Fatalf("topic url = %s", page.Lead.TopicURL)
	}
}

func TestEngineItemViewVariants(t *testing.T) {
	evt := event("M", 3, 2*time.Hour)
	evt.Title = strings.Repeat("word ", 40)
	evt.Summary = strings.Repeat("summary ", 40)
	evt.Items = []domain.EventItem{
		{ID: "i1", Title: "one"}, {ID: "i2", Title: "two"}, {ID: "i3", Title: "three"},
		{ID: "i4", Title: "four"}, {ID: "i5", Title: "five"},
	}
	e := newTestEngine(nil)

	main, err := e.ItemView(localeIN, baseNow, evt, VariantMain, "")
	if err != nil {
		t.Fatalf("ItemView main: %v", err)
	}
	if len([]rune(main.Title)) != 100 || main.Style != nil || main.Summary != "" {
		t.Fatalf("unexpected main view: title=%d style=%v summary=%q", len([]rune(main.Title)), main.Style, main.Summary)
	}
	if len(main.Items) != 4 || main.Items[0].URL != "/item/story-i1" {
		t.Fatalf("main items = %+v", main.Items)
	}
	if main.ImageSize != ImageLarge {
		t.Fatalf("main image size = %s", main.ImageSize)
	}

	media, err := e.ItemView(localeIN, baseNow, evt, VariantMediaRight, "")
	if err != nil {
		t.Fatalf("ItemView media: %v", err)
	}
	if !media.Reversed || media.ImageSize != ImageSquare || len(media.Items) != 0 {
		t.Fatalf("unexpected media view %+v", media)
	}

	zen, err := e.ItemView(localeIN, baseNow, evt, VariantZen, ImageSquare)
	if err != nil {
		t.Fatalf("ItemView zen: %v", err)
	}
	if zen.Style == nil || zen.ImageSize != ImageSquare || len([]rune(zen.Summary)) > 120 {
		t.Fatalf("unexpected zen view %+v", zen)
	}

	if _, err := e.ItemView(localeIN, baseNow, evt, Variant("banner"), ""); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestEngineHonoursZeroLuminanceThreshold(t *testing.T) {
	evt := event("dark", 1, time.Hour)
	evt.ImageID = "img-202020"

	zero := 0.0
	e := NewEngine(Options{LuminanceThreshold: &zero}, nil, nil)
	view, err := e.ItemView(localeIN, baseNow, evt, VariantZen, "")
	if err != nil {
		t.Fatalf("ItemView: %v", err)
	}
	if view.Style == nil || !view.Style.UseDarkText {
		t.Fatalf("threshold 0 should select dark text, got %+v", view.Style)
	}

	def, err := NewEngine(Options{}, nil, nil).ItemView(localeIN, baseNow, evt, VariantZen, "")
	if err != nil {
		t.Fatalf("ItemView: %v", err)
	}
	if def.Style == nil || def.Style.UseDarkText {
		t.Fatalf("default threshold should select light text, got %+v", def.Style)
	}
}

func TestEngineBuildQuotes(t *testing.T) {
	quotes := []domain.Quote{{
		ID:        "q1",
		Text:      "We will win.",
		Author:    domain.Topic{ID: "p1", Slug: "jane-doe", Name: "Jane Doe"},
		CreatedAt: baseNow.Add(-3 * time.Hour),
	}}
	page := newTestEngine(nil).Build(Bundle{Quotes: quotes, Now: baseNow, Locale: localeIN})
	if len(page.Quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(page.Quotes))
	}
	q := page.Quotes[0]
	if q.AuthorURL != "/topic/jane-doe" || q.Variant != VariantCard || q.Age != "3 hours" {
		t.Fatalf("unexpected quote view %+v", q)
	}
}
