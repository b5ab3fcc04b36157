package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain contains the editorial models shared by the engine, the upstream
// client and the HTTP layer.

// ErrNotFound reports a missing event, story or page.
var ErrNotFound = errors.New("not found")

// Locale is a language + country pair, e.g. en-in.
type Locale struct {
	Lang    string `json:"lang" yaml:"lang"`
	Country string `json:"country" yaml:"country"`
}

// Key returns the normalized "lang-country" form used for lookups and cache keys.
func (l Locale) Key() string {
	return strings.ToLower(strings.TrimSpace(l.Lang)) + "-" + strings.ToLower(strings.TrimSpace(l.Country))
}

func (l Locale) String() string { return l.Key() }

// ParseLocale parses "lang-country" (or "lang_country").
func ParseLocale(raw string) (Locale, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "_", "-"))
	parts := strings.Split(raw, "-")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return Locale{}, fmt.Errorf("invalid locale %q (expected lang-country)", raw)
	}
	return Locale{
		Lang:    strings.ToLower(strings.TrimSpace(parts[0])),
		Country: strings.ToLower(strings.TrimSpace(parts[1])),
	}, nil
}

// Topic is an editorial topic attached to events.
type Topic struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Abbr    string `json:"abbr,omitempty"`
	Lang    string `json:"lang,omitempty"`
	Country string `json:"country,omitempty"`
}

// EventItem is a constituent story of an event.
type EventItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewsEvent is an aggregated news event. CountNews is the engagement proxy:
// the number of stories that contributed to the event.
type NewsEvent struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Summary   string      `json:"summary"`
	Slug      string      `json:"slug"`
	ImageID   string      `json:"imageId"`
	CreatedAt time.Time   `json:"createdAt"`
	CountNews int         `json:"countNews"`
	Topics    []Topic     `json:"topics"`
	Items     []EventItem `json:"items"`
}

// Quote is a statement attributed to a named person.
type Quote struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    Topic     `json:"author"`
	EventID   string    `json:"eventId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Story is a single web page (news item) collected by the aggregator.
type Story struct {
	ID         string    `json:"id"`
	UniqueName string    `json:"uniqueName"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	URL        string    `json:"url"`
	Host       string    `json:"host"`
	ImageID    string    `json:"imageId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
