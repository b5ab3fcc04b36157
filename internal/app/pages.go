package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/frontpage"
)

// RenderObserver records render outcomes.
type RenderObserver interface {
	ObserveRender(page, status string, elapsed time.Duration)
}

// Pages renders portal pages from live data. It implements server.Pages.
type Pages struct {
	source   *Source
	engine   *frontpage.Engine
	observer RenderObserver
}

// NewPages builds Pages. observer may be nil.
func NewPages(source *Source, engine *frontpage.Engine, observer RenderObserver) *Pages {
	if observer == nil {
		observer = nopRenderObserver{}
	}
	return &Pages{source: source, engine: engine, observer: observer}
}

// Index renders the front page of locale.
func (p *Pages) Index(ctx context.Context, locale domain.Locale) (page frontpage.IndexPage, err error) {
	defer p.observe("index", time.Now(), &err)

	bundle, err := p.source.Bundle(ctx, locale)
	if err != nil {
		return frontpage.IndexPage{}, err
	}
	return p.engine.Build(bundle), nil
}

// Story renders the page of the story addressed by "<uniqueName>-<id>".
func (p *Pages) Story(ctx context.Context, locale domain.Locale, unique string) (page frontpage.StoryPage, err error) {
	defer p.observe("story", time.Now(), &err)

	_, id, err := frontpage.ParseStoryPath(unique)
	if err != nil {
		return frontpage.StoryPage{}, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	story, related, err := p.source.Story(ctx, locale, id)
	if err != nil {
		return frontpage.StoryPage{}, err
	}
	page = p.engine.BuildStory(locale, p.source.Now(), story, related)
	if limit := p.source.limits.Related; len(page.Related) > limit {
		page.Related = page.Related[:limit]
	}
	return page, nil
}

func (p *Pages) observe(page string, start time.Time, err *error) {
	status := "ok"
	if *err != nil {
		status = "error"
	}
	p.observer.ObserveRender(page, status, time.Since(start))
}

type nopRenderObserver struct{}

func (nopRenderObserver) ObserveRender(string, string, time.Duration) {}
