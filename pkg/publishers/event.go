package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
)

// LeadChange is the payload published when the lead event of a locale changes.
type LeadChange struct {
	Locale          string    `json:"locale"`
	EventID         string    `json:"event_id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	URL             string    `json:"url"`
	CountNews       int       `json:"count_news"`
	PreviousEventID string    `json:"previous_event_id,omitempty"`
	DetectedAt      time.Time `json:"detected_at"`
}

// NewLeadChange describes lead replacing previousID on locale's front page.
func NewLeadChange(locale domain.Locale, lead domain.NewsEvent, previousID, url string, at time.Time) LeadChange {
	return LeadChange{
		Locale:          locale.Key(),
		EventID:         lead.ID,
		Title:           lead.Title,
		Slug:            lead.Slug,
		URL:             url,
		CountNews:       lead.CountNews,
		PreviousEventID: previousID,
		DetectedAt:      at.UTC(),
	}
}

// attributes are the routing attributes attached to queue and topic messages.
func (c LeadChange) attributes() map[string]string {
	return map[string]string{
		"locale":   c.Locale,
		"event_id": c.EventID,
	}
}
