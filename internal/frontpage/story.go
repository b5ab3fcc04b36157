package frontpage

import (
	"fmt"
	"regexp"
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/textutil"
)

const descriptionLimit = 200

var storyPathPattern = regexp.MustCompile(`^(.+)-(\w{32})$`)

// ParseStoryPath splits "<uniqueName>-<id>" where id is 32 word characters.
func ParseStoryPath(raw string) (uniqueName, id string, err error) {
	m := storyPathPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", fmt.Errorf("invalid story path %q", raw)
	}
	return m[1], m[2], nil
}

// ShareInfo feeds the social sharing widgets of a page.
type ShareInfo struct {
	ClientID   string `json:"clientId"`
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
}

// RelatedView is a compact story link.
type RelatedView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Age   string `json:"age"`
}

// StoryPage is the rendering boundary of a single story page.
type StoryPage struct {
	Story       domain.Story  `json:"story"`
	Canonical   string        `json:"canonical"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Share       ShareInfo     `json:"share"`
	Related     []RelatedView `json:"related"`
}

// BuildStory renders the story page. related stories equal to story are skipped.
func (e *Engine) BuildStory(locale domain.Locale, now time.Time, story domain.Story, related []domain.Story) StoryPage {
	lang := locale.Lang
	canonical := e.opts.Links.Absolute(e.opts.Links.Item(story.UniqueName, story.ID, lang))
	description := textutil.WrapAt(story.Summary, descriptionLimit)

	page := StoryPage{
		Story:       story,
		Canonical:   canonical,
		Title:       story.Title,
		Description: description,
		Share: ShareInfo{
			ClientID:   "item-" + story.ID,
			Identifier: canonical,
			URL:        canonical,
			Title:      story.Title,
			Summary:    description,
		},
	}
	for _, rel := range related {
		if rel.ID == story.ID {
			continue
		}
		page.Related = append(page.Related, RelatedView{
			ID:    rel.ID,
			Title: textutil.TruncateAt(rel.Title, 80),
			URL:   e.opts.Links.Item(rel.UniqueName, rel.ID, lang),
			Age:   ageOf(rel.CreatedAt, now),
		})
	}
	return page
}
