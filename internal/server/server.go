// Package server exposes portal pages over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/frontpage"
	"github.com/samvad-hq/samvad-news-portal/internal/logger"
)

const (
	indexMaxAge = "public, max-age=180"
	itemMaxAge  = "public, max-age=600"
)

var langPattern = regexp.MustCompile(`^[a-z]{2,3}$`)

// Pages renders the portal pages.
type Pages interface {
	Index(ctx context.Context, locale domain.Locale) (frontpage.IndexPage, error)
	Story(ctx context.Context, locale domain.Locale, unique string) (frontpage.StoryPage, error)
}

// Options configures the HTTP surface.
type Options struct {
	DefaultLocale domain.Locale
	// Languages lists the accepted page languages as "lang" or "lang-country".
	// A bare lang is served with the default country. Empty accepts only the default.
	Languages   []string
	CORSOrigins []string
	Metrics     http.Handler
}

type handler struct {
	pages Pages
	opts  Options
	log   logger.Logger
	langs map[string]string // lang -> country
}

// New builds the gin engine serving the portal.
func New(pages Pages, opts Options, log logger.Logger) *gin.Engine {
	h := &handler{
		pages: pages,
		opts:  opts,
		log:   logger.Ensure(log),
		langs: map[string]string{opts.DefaultLocale.Lang: opts.DefaultLocale.Country},
	}
	for _, l := range opts.Languages {
		if lang, country, ok := parseLanguage(l, opts.DefaultLocale.Country); ok {
			h.langs[lang] = country
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.log))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/health", h.health)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	r.GET("/item/:unique", h.story)
	r.GET("/", h.index)
	r.GET("/:lang", h.index)
	return r
}

func (h *handler) index(c *gin.Context) {
	locale, ok := h.locale(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown language"})
		return
	}

	page, err := h.pages.Index(c.Request.Context(), locale)
	if err != nil {
		h.fail(c, "index", locale, err)
		return
	}
	c.Header("Cache-Control", indexMaxAge)
	c.JSON(http.StatusOK, page)
}

func (h *handler) story(c *gin.Context) {
	locale, ok := h.locale(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown language"})
		return
	}

	page, err := h.pages.Story(c.Request.Context(), locale, c.Param("unique"))
	if err != nil {
		h.fail(c, "story", locale, err)
		return
	}
	c.Header("Cache-Control", itemMaxAge)
	c.JSON(http.StatusOK, page)
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// locale resolves the page language from the path, then the ul query.
func (h *handler) locale(c *gin.Context) (domain.Locale, bool) {
	locale := h.opts.DefaultLocale
	lang := c.Param("lang")
	if lang == "" {
		lang = c.Query("ul")
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return locale, true
	}
	country, known := h.langs[lang]
	if !langPattern.MatchString(lang) || !known {
		return domain.Locale{}, false
	}
	return domain.Locale{Lang: lang, Country: country}, true
}

// parseLanguage reads a Languages entry.
func parseLanguage(raw, defaultCountry string) (lang, country string, ok bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	lang, country, found := strings.Cut(raw, "-")
	if !found {
		country = defaultCountry
	}
	if !langPattern.MatchString(lang) || country == "" {
		return "", "", false
	}
	return lang, country, true
}

func (h *handler) fail(c *gin.Context, page string, locale domain.Locale, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.log.ErrorObj("page render failed", "render_error", map[string]any{
		"page":   page,
		"locale": locale.Key(),
		"path":   c.Request.URL.Path,
		"error":  err.Error(),
	})
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
}

// requestLogger logs one line per request at debug level, and 5xx at warn.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]any{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.WarnObj("http request failed", "http_request", fields)
			return
		}
		log.DebugObj("http request", "http_request", fields)
	}
}
