package frontpage

import "github.com/samvad-hq/samvad-news-portal/internal/domain"

// PickLead returns the candidate with the highest CountNews together with its
// index in candidates. Ties go to the earliest candidate.
func PickLead(candidates []domain.NewsEvent) (domain.NewsEvent, int, error) {
	if len(candidates) == 0 {
		return domain.NewsEvent{}, -1, ErrEmptyPool
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].CountNews > candidates[best].CountNews {
			best = i
		}
	}
	return candidates[best], best, nil
}

// withoutEvent returns events minus every entry sharing id. The input is not modified.
func withoutEvent(events []domain.NewsEvent, id string) []domain.NewsEvent {
	out := make([]domain.NewsEvent, 0, len(events))
	for _, evt := range events {
		if evt.ID == id {
			continue
		}
		out = append(out, evt)
	}
	return out
}
