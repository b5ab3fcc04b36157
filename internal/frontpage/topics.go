package frontpage

import (
	"strings"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/textutil"
)

// PlaceholderTopic stands in for the main topic of an event that arrived without topics.
var PlaceholderTopic = domain.Topic{
	ID:   "news",
	Slug: "news",
	Name: "News",
}

// Denylist marks topics as irrelevant for a locale. It is read-only after
// construction and safe for concurrent use. A nil *Denylist denies nothing.
type Denylist struct {
	byLocale map[string]map[string]struct{}
}

// NewDenylist builds a denylist from locale keys ("lang-country") to topic ids.
func NewDenylist(entries map[string][]string) *Denylist {
	d := &Denylist{byLocale: make(map[string]map[string]struct{}, len(entries))}
	for rawKey, ids := range entries {
		loc, err := domain.ParseLocale(rawKey)
		if err != nil {
			continue
		}
		set := d.byLocale[loc.Key()]
		if set == nil {
			set = make(map[string]struct{}, len(ids))
			d.byLocale[loc.Key()] = set
		}
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				set[id] = struct{}{}
			}
		}
	}
	return d
}

// Denied reports whether topicID is irrelevant for locale.
func (d *Denylist) Denied(locale domain.Locale, topicID string) bool {
	if d == nil {
		return false
	}
	set, ok := d.byLocale[locale.Key()]
	if !ok {
		return false
	}
	_, denied := set[strings.TrimSpace(topicID)]
	return denied
}

// Len returns the number of denied (locale, topic) pairs.
func (d *Denylist) Len() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, set := range d.byLocale {
		n += len(set)
	}
	return n
}

// FilterRelevant returns the topics not denied for locale, keeping their order.
func (d *Denylist) FilterRelevant(locale domain.Locale, topics []domain.Topic) []domain.Topic {
	out := make([]domain.Topic, 0, len(topics))
	for _, t := range topics {
		if d.Denied(locale, t.ID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ResolveMain picks the topic shown for an event: the first relevant topic,
// or the first topic when none is relevant. It fails only for an empty list.
func (d *Denylist) ResolveMain(locale domain.Locale, topics []domain.Topic) (domain.Topic, error) {
	if len(topics) == 0 {
		return domain.Topic{}, ErrNoTopic
	}
	if relevant := d.FilterRelevant(locale, topics); len(relevant) > 0 {
		return relevant[0], nil
	}
	return topics[0], nil
}

// TopicLabel is the short display text of a topic: its abbreviation when
// set, otherwise its name cut to limit runes. Blank and missing
// abbreviations are treated the same.
func TopicLabel(t domain.Topic, limit int) string {
	if abbr := strings.TrimSpace(t.Abbr); abbr != "" {
		return abbr
	}
	return textutil.TruncateAt(t.Name, limit)
}
