package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
)

func sampleChange() LeadChange {
	return NewLeadChange(
		domain.Locale{Lang: "en", Country: "in"},
		domain.NewsEvent{ID: "e2", Title: "Budget passed", Slug: "budget-passed", CountNews: 9},
		"e1",
		"/news/budget-passed-e2",
		time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800)),
	)
}
