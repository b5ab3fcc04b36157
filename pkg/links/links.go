// Package links builds portal URLs from slugs and ids.
package links

import (
	"net/url"
	"strings"
)

// Config describes the public hosts of the portal.
type Config struct {
	Host        string
	ImageHost   string
	DefaultLang string
}

// Builder creates site-relative links. The zero value is usable.
type Builder struct {
	host        string
	imageHost   string
	defaultLang string
}

// New builds a link Builder.
func New(cfg Config) *Builder {
	return &Builder{
		host:        strings.TrimSuffix(strings.TrimSpace(cfg.Host), "/"),
		imageHost:   strings.TrimSuffix(strings.TrimSpace(cfg.ImageHost), "/"),
		defaultLang: strings.ToLower(strings.TrimSpace(cfg.DefaultLang)),
	}
}

// Story links an event page.
func (b *Builder) Story(slug, id, lang string) string {
	return b.withLang("/news/"+joinSlugID(slug, id), lang)
}

// Topic links a topic page.
func (b *Builder) Topic(slug, lang string) string {
	return b.withLang("/topic/"+url.PathEscape(slug), lang)
}

// Item links a single story. Items without a unique name use "story".
func (b *Builder) Item(uniqueName, id, lang string) string {
	if strings.TrimSpace(uniqueName) == "" {
		uniqueName = "story"
	}
	return b.withLang("/item/"+joinSlugID(uniqueName, id), lang)
}

// Quotes links the latest quotes page.
func (b *Builder) Quotes(lang string) string {
	return b.withLang("/quotes", lang)
}

// RSSStories links the latest events feed.
func (b *Builder) RSSStories(lang string) string {
	return b.withLang("/rss/stories", lang)
}

// RSSImportant links the important events feed.
func (b *Builder) RSSImportant(lang string) string {
	return b.withLang("/rss/stories/important", lang)
}

// EventImage returns the URL of an event image rendition.
func (b *Builder) EventImage(imageID, size string) string {
	if strings.TrimSpace(imageID) == "" {
		return ""
	}
	return b.imageHost + "/events/" + url.PathEscape(size) + "/" + url.PathEscape(imageID) + ".jpg"
}

// Absolute prefixes a site-relative path with the portal host.
func (b *Builder) Absolute(path string) string {
	if b.host == "" {
		return path
	}
	return "http://" + b.host + path
}

// withLang adds the ul query parameter when lang is not the default language.
func (b *Builder) withLang(path, lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || lang == b.defaultLang {
		return path
	}
	return path + "?" + url.Values{"ul": []string{lang}}.Encode()
}

func joinSlugID(slug, id string) string {
	slug = url.PathEscape(strings.TrimSpace(slug))
	id = url.PathEscape(strings.TrimSpace(id))
	if slug == "" {
		return id
	}
	return slug + "-" + id
}
