package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Package storage caches upstream snapshots and watcher state with expiry.

// Store is a byte-oriented key/value cache with per-entry expiry.
type Store interface {
	Close() error
	// Get returns the value for key; ok is false for missing or expired entries.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put stores value under key. A non-positive ttl uses the store default.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTTL             = 5 * time.Minute
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured storage backend. dsn is the bbolt file
// path or the redis URL depending on typ.
func NewStore(typ, dsn string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(dsn) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(dsn, opts)
	case "redis":
		if strings.TrimSpace(dsn) == "" {
			return nil, fmt.Errorf("redis storage requires a url")
		}
		return openRedis(dsn, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error {
	return nil
}

func (noopStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (noopStore) Put(context.Context, string, []byte, time.Duration) error {
	return nil
}
