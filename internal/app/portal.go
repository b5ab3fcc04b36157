package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/samvad-news-portal/internal/config"
	"github.com/samvad-hq/samvad-news-portal/internal/logger"
	"github.com/samvad-hq/samvad-news-portal/internal/server"
)

const shutdownTimeout = 10 * time.Second

// Portal is the HTTP runtime serving front pages and story pages.
type Portal struct {
	core   *core
	server *http.Server
	log    logger.Logger
}

// NewPortal builds the portal runtime from config.
func NewPortal(cfg *config.Config, log logger.Logger) (*Portal, error) {
	c, err := newCore(cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	pages := NewPages(c.source, c.engine, c.metrics)
	router := server.New(pages, server.Options{
		DefaultLocale: c.defaultLocale(),
		Languages:     config.SplitList(cfg.Languages),
		CORSOrigins:   config.SplitList(cfg.CORSOrigins),
		Metrics:       c.metrics.Handler(),
	}, c.log)

	return &Portal{
		core: c,
		server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: c.log,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (p *Portal) Run(ctx context.Context) error {
	if p == nil || p.server == nil {
		return fmt.Errorf("portal is not initialized")
	}
	defer p.core.close()

	errCh := make(chan error, 1)
	go func() {
		p.log.InfoObj("portal listening", "http_addr", p.server.Addr)
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	p.log.InfoObj("portal shutting down", "reason", ctx.Err().Error())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := p.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
