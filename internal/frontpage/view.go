package frontpage

import (
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/textutil"
)

const subItemTitleLimit = 60

// IndexPage is the rendering boundary of the index page.
type IndexPage struct {
	Locale          domain.Locale `json:"locale"`
	GeneratedAt     time.Time     `json:"generatedAt"`
	Lead            *ItemView     `json:"lead,omitempty"`
	HeroSecondary   []ItemView    `json:"heroSecondary"`
	Quad            []ItemView    `json:"quad"`
	Tail            []ItemView    `json:"tail"`
	Quotes          []QuoteView   `json:"quotes"`
	Links           PageLinks     `json:"links"`
	Degraded        []string      `json:"degraded,omitempty"`
	RecencyFallback bool          `json:"recencyFallback"`
}

// EventIDs lists the ids of every rendered event in page order.
func (p IndexPage) EventIDs() []string {
	var ids []string
	if p.Lead != nil {
		ids = append(ids, p.Lead.ID)
	}
	for _, group := range [][]ItemView{p.HeroSecondary, p.Quad, p.Tail} {
		for _, it := range group {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// PageLinks are page-wide links.
type PageLinks struct {
	RSSStories   string `json:"rssStories"`
	RSSImportant string `json:"rssImportant"`
	Quotes       string `json:"quotes"`
}

// ItemView is an event ready for a template.
type ItemView struct {
	ID             string         `json:"id"`
	Slug           string         `json:"slug"`
	Variant        Variant        `json:"variant"`
	Reversed       bool           `json:"reversed,omitempty"`
	Title          string         `json:"title"`
	FullTitle      string         `json:"fullTitle"`
	Summary        string         `json:"summary,omitempty"`
	URL            string         `json:"url"`
	ImageSize      ImageSize      `json:"imageSize"`
	ImageURL       string         `json:"imageUrl,omitempty"`
	CreatedAt      string         `json:"createdAt"`
	CreatedAtLocal string         `json:"createdAtLocal"`
	Age            string         `json:"age"`
	CountNews      int            `json:"countNews"`
	MainTopic      domain.Topic   `json:"mainTopic"`
	TopicLabel     string         `json:"topicLabel"`
	TopicURL       string         `json:"topicUrl"`
	Style          *StyleDecision `json:"style,omitempty"`
	Items          []SubItemView  `json:"items,omitempty"`
}

// SubItemView is a constituent story link of an event.
type SubItemView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// QuoteView is a quote ready for a template.
type QuoteView struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	AuthorName string  `json:"authorName"`
	AuthorURL  string  `json:"authorUrl"`
	Variant    Variant `json:"variant"`
	CreatedAt  string  `json:"createdAt"`
	Age        string  `json:"age"`
}

// renderer carries one render pass. degraded collects events that needed
// the placeholder topic.
type renderer struct {
	engine   *Engine
	bundle   Bundle
	degraded []string
}

func (r *renderer) items(slots []DisplaySlot) []ItemView {
	if len(slots) == 0 {
		return nil
	}
	out := make([]ItemView, 0, len(slots))
	for _, s := range slots {
		out = append(out, r.item(s))
	}
	return out
}

func (r *renderer) item(slot DisplaySlot) ItemView {
	opts := r.engine.opts
	lang := r.bundle.Locale.Lang
	evt := slot.Event

	profile, err := slot.Variant.profile()
	if err != nil {
		slot.Variant = VariantCard
		profile, _ = VariantCard.profile()
	}
	size := slot.ImageSize
	if size == "" {
		size = profile.imageSize
	}

	topic, err := opts.Denylist.ResolveMain(r.bundle.Locale, evt.Topics)
	if err != nil {
		topic = PlaceholderTopic
		r.degraded = append(r.degraded, evt.ID)
	}

	view := ItemView{
		ID:             evt.ID,
		Slug:           evt.Slug,
		Variant:        slot.Variant,
		Reversed:       profile.reversed,
		Title:          textutil.TruncateAt(evt.Title, profile.titleLimit),
		FullTitle:      evt.Title,
		URL:            opts.Links.Story(evt.Slug, evt.ID, lang),
		ImageSize:      size,
		ImageURL:       opts.Links.EventImage(evt.ImageID, string(size)),
		CreatedAt:      evt.CreatedAt.UTC().Format(time.RFC3339),
		CreatedAtLocal: evt.CreatedAt.In(opts.Location).Format("2006-01-02 15:04"),
		Age:            ageOf(evt.CreatedAt, r.bundle.Now),
		CountNews:      evt.CountNews,
		MainTopic:      topic,
		TopicLabel:     TopicLabel(topic, topicLabelLimit),
		TopicURL:       opts.Links.Topic(topic.Slug, lang),
	}
	if profile.summaryLimit > 0 {
		view.Summary = textutil.TruncateAt(evt.Summary, profile.summaryLimit)
	}
	if profile.styled {
		style := DeriveStyle(evt.ImageID, slot.Variant, r.engine.threshold)
		view.Style = &style
	}
	if profile.itemsLimit > 0 {
		view.Items = r.subItems(evt.Items, profile.itemsLimit)
	}
	return view
}

func (r *renderer) subItems(items []domain.EventItem, limit int) []SubItemView {
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]SubItemView, 0, len(items))
	for _, it := range items {
		out = append(out, SubItemView{
			ID:    it.ID,
			Title: textutil.TruncateAt(it.Title, subItemTitleLimit),
			URL:   r.engine.opts.Links.Item("", it.ID, r.bundle.Locale.Lang),
		})
	}
	return out
}

func ageOf(t, now time.Time) string {
	if t.IsZero() || now.IsZero() {
		return ""
	}
	return textutil.FromNow(t, now)
}
