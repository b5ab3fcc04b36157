package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"gopkg.in/yaml.v3"
)

// Supported publisher types.
const (
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeHTTP      = "http"
	TypeGCPPubSub = "gcp_pubsub"
)

// File is the decoded publishers file.
type File struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is one publisher entry. Exactly the section named by Type
// is read.
type PublisherConfig struct {
	ID        string                    `json:"id" yaml:"id"`
	Type      string                    `json:"type" yaml:"type"`
	Enabled   *bool                     `json:"enabled" yaml:"enabled"`
	Locales   []string                  `json:"locales" yaml:"locales"`
	SQS       *SQSPublisherConfig       `json:"sqs" yaml:"sqs"`
	SNS       *SNSPublisherConfig       `json:"sns" yaml:"sns"`
	HTTP      *HTTPPublisherConfig      `json:"http" yaml:"http"`
	GCPPubSub *GCPPubSubPublisherConfig `json:"gcp_pubsub" yaml:"gcp_pubsub"`
}

// settings is the type specific section of a PublisherConfig.
type settings interface {
	normalize()
	check() error
}

// Load reads the publishers file at path. The extension selects the decoder.
func Load(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open publishers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}
	return Parse(raw, filepath.Ext(path))
}

// Parse decodes and validates a publishers file. An empty ext tries every decoder.
func Parse(data []byte, ext string) (*File, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := map[string]func([]byte, any) error{
		".yaml": yaml.Unmarshal,
		".yml":  yaml.Unmarshal,
		".json": json.Unmarshal,
	}
	order := []string{".yaml", ".json"}
	if ext != "" {
		if _, ok := decoders[ext]; !ok {
			return nil, fmt.Errorf("unsupported publishers file extension %q", ext)
		}
		order = []string{ext}
	}

	for _, e := range order {
		var f File
		if err := decoders[e](data, &f); err != nil {
			continue
		}
		if err := f.sanitize(); err != nil {
			return nil, err
		}
		return &f, nil
	}
	return nil, errors.New("publishers file format not recognized (expected YAML or JSON)")
}

func (f *File) sanitize() error {
	if len(f.Publishers) == 0 {
		return errors.New("publishers file contains no publishers entries")
	}
	seen := make(map[string]bool, len(f.Publishers))
	for i := range f.Publishers {
		cfg := &f.Publishers[i]
		if err := cfg.normalize(); err != nil {
			return fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if seen[cfg.ID] {
			return fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = true
	}
	return nil
}

// Enabled returns the entries that are not switched off, in file order.
func (f *File) Enabled() []PublisherConfig {
	if f == nil {
		return nil
	}
	var out []PublisherConfig
	for _, cfg := range f.Publishers {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// normalize trims the entry, canonicalizes its locales and checks the
// section of its type.
func (c *PublisherConfig) normalize() error {
	c.ID = strings.TrimSpace(c.ID)
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	if c.ID == "" {
		return errors.New("id is required")
	}
	if c.Type == "" {
		return fmt.Errorf("type is required for publisher %q", c.ID)
	}

	locales := c.Locales[:0]
	for _, raw := range c.Locales {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		loc, err := domain.ParseLocale(raw)
		if err != nil {
			return fmt.Errorf("publisher %q: %w", c.ID, err)
		}
		locales = append(locales, loc.Key())
	}
	c.Locales = locales

	s, err := c.settings()
	if err != nil {
		return fmt.Errorf("publisher %q: %w", c.ID, err)
	}
	s.normalize()
	if err := s.check(); err != nil {
		return fmt.Errorf("publisher %q: %w", c.ID, err)
	}
	return nil
}

func (c *PublisherConfig) settings() (settings, error) {
	switch c.Type {
	case TypeSQS:
		if c.SQS != nil {
			return c.SQS, nil
		}
	case TypeSNS:
		if c.SNS != nil {
			return c.SNS, nil
		}
	case TypeHTTP:
		if c.HTTP != nil {
			return c.HTTP, nil
		}
	case TypeGCPPubSub:
		if c.GCPPubSub != nil {
			return c.GCPPubSub, nil
		}
	default:
		return nil, fmt.Errorf("unsupported type %q", c.Type)
	}
	return nil, fmt.Errorf("%s section is required", c.Type)
}

// Accepts reports whether the publisher should receive changes of locale.
// An empty locale list accepts every locale.
func (c PublisherConfig) Accepts(locale string) bool {
	if len(c.Locales) == 0 {
		return true
	}
	for _, l := range c.Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// EnabledValue returns the enabled flag, defaulting to true.
func (c PublisherConfig) EnabledValue() bool {
	return c.Enabled == nil || *c.Enabled
}
