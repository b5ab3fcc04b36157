package frontpage

import (
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/logger"
	"github.com/samvad-hq/samvad-news-portal/pkg/links"
)

const topicLabelLimit = 30

// Bundle is everything a single index render needs, already fetched.
type Bundle struct {
	Events []domain.NewsEvent
	Quotes []domain.Quote
	Now    time.Time
	Locale domain.Locale
}

// Options are the editorial settings of the engine. A nil LuminanceThreshold
// means DefaultLuminanceThreshold; 0 gives dark text on every non-black image.
type Options struct {
	RecencyWindow      time.Duration
	LuminanceThreshold *float64
	Denylist           *Denylist
	Location           *time.Location
	Links              *links.Builder
}

// Recorder receives render statistics.
type Recorder interface {
	RecencyFallback(locale string)
	DegradedEvents(locale string, n int)
}

type nopRecorder struct{}

func (nopRecorder) RecencyFallback(string)     {}
func (nopRecorder) DegradedEvents(string, int) {}

// Engine turns bundles into page view models. It holds no per-render state.
type Engine struct {
	opts      Options
	threshold float64
	log       logger.Logger
	recorder  Recorder
}

// NewEngine builds an Engine, filling unset options with the editorial defaults.
func NewEngine(opts Options, log logger.Logger, rec Recorder) *Engine {
	if opts.RecencyWindow <= 0 {
		opts.RecencyWindow = DefaultRecencyWindow
	}
	threshold := DefaultLuminanceThreshold
	if opts.LuminanceThreshold != nil {
		threshold = *opts.LuminanceThreshold
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Links == nil {
		opts.Links = links.New(links.Config{})
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Engine{
		opts:      opts,
		threshold: threshold,
		log:       logger.Ensure(log),
		recorder:  rec,
	}
}

// Layout runs recency selection, lead ranking and slot assignment.
// ok is false for an empty pool.
func (e *Engine) Layout(b Bundle) (layout PageLayout, fallback bool, ok bool) {
	if len(b.Events) == 0 {
		return PageLayout{}, false, false
	}

	recent, fallback := selectRecent(b.Events, b.Now, e.opts.RecencyWindow)
	lead, _, err := PickLead(recent)
	if err != nil {
		return PageLayout{}, fallback, false
	}

	// The rest comes from the whole pool, not only the recent part.
	rest := withoutEvent(b.Events, lead.ID)
	return AssignSlots(lead, rest), fallback, true
}

// Build renders the index page for b.
func (e *Engine) Build(b Bundle) IndexPage {
	lang := b.Locale.Lang
	page := IndexPage{
		Locale:      b.Locale,
		GeneratedAt: b.Now.UTC(),
		Links: PageLinks{
			RSSStories:   e.opts.Links.RSSStories(lang),
			RSSImportant: e.opts.Links.RSSImportant(lang),
			Quotes:       e.opts.Links.Quotes(lang),
		},
		Quotes: e.quoteViews(b),
	}

	layout, fallback, ok := e.Layout(b)
	page.RecencyFallback = fallback
	if fallback {
		e.recorder.RecencyFallback(b.Locale.Key())
		e.log.DebugObj("no recent events; lead chosen from full pool", "recency_fallback", map[string]any{
			"locale":      b.Locale.Key(),
			"events":      len(b.Events),
			"window_secs": int(e.opts.RecencyWindow.Seconds()),
		})
	}
	if !ok {
		return page
	}

	r := renderer{engine: e, bundle: b}
	lead := r.item(layout.Lead)
	page.Lead = &lead
	page.HeroSecondary = r.items(layout.HeroSecondary)
	page.Quad = r.items(layout.Quad)
	page.Tail = r.items(layout.Tail)
	page.Degraded = r.degraded

	if len(r.degraded) > 0 {
		e.recorder.DegradedEvents(b.Locale.Key(), len(r.degraded))
		e.log.WarnObj("events rendered with placeholder topic", "degraded_events", map[string]any{
			"locale":    b.Locale.Key(),
			"event_ids": r.degraded,
		})
	}
	return page
}

// ItemView renders a single event in the requested variant, outside of any layout.
func (e *Engine) ItemView(locale domain.Locale, now time.Time, evt domain.NewsEvent, variant Variant, size ImageSize) (ItemView, error) {
	if _, err := variant.profile(); err != nil {
		return ItemView{}, err
	}
	r := renderer{engine: e, bundle: Bundle{Locale: locale, Now: now}}
	return r.item(DisplaySlot{Event: evt, Variant: variant, ImageSize: size}), nil
}

func (e *Engine) quoteViews(b Bundle) []QuoteView {
	if len(b.Quotes) == 0 {
		return nil
	}
	out := make([]QuoteView, 0, len(b.Quotes))
	for _, q := range b.Quotes {
		out = append(out, QuoteView{
			ID:         q.ID,
			Text:       q.Text,
			AuthorName: q.Author.Name,
			AuthorURL:  e.opts.Links.Topic(q.Author.Slug, b.Locale.Lang),
			Variant:    VariantCard,
			CreatedAt:  q.CreatedAt.UTC().Format(time.RFC3339),
			Age:        ageOf(q.CreatedAt, b.Now),
		})
	}
	return out
}
