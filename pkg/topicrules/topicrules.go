// Package topicrules loads the per-locale topic denylist from YAML or JSON files.
package topicrules

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

// Rule lists the topics that are irrelevant for one locale.
type Rule struct {
	Locale string   `json:"locale" yaml:"locale"`
	Topics []string `json:"topics" yaml:"topics"`
	Note   string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// Rules is the decoded denylist file.
type Rules struct {
	Locales []Rule `json:"locales" yaml:"locales"`
}

// Load reads rules from path. The extension selects the decoder.
func Load(path string) (*Rules, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("topic rules file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open topic rules file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read topic rules file: %w", err)
	}

	return Parse(raw, filepath.Ext(path))
}

// Parse decodes and validates rules. An empty ext tries every decoder.
func Parse(data []byte, ext string) (*Rules, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var rules Rules
		if err := d.fn(data, &rules); err != nil {
			continue
		}
		if err := rules.sanitize(); err != nil {
			return nil, err
		}
		return &rules, nil
	}

	return nil, errors.New("topic rules file format not recognized (expected YAML or JSON)")
}

// sanitize normalizes locale keys, trims ids and merges duplicate locales.
func (r *Rules) sanitize() error {
	merged := make([]Rule, 0, len(r.Locales))
	idx := make(map[string]int, len(r.Locales))

	for i, rule := range r.Locales {
		loc, err := domain.ParseLocale(rule.Locale)
		if err != nil {
			return fmt.Errorf("locales[%d]: %w", i, err)
		}
		key := loc.Key()

		pos, ok := idx[key]
		if !ok {
			pos = len(merged)
			idx[key] = pos
			merged = append(merged, Rule{Locale: key, Note: strings.TrimSpace(rule.Note)})
		}
		for _, id := range rule.Topics {
			if id = strings.TrimSpace(id); id != "" {
				merged[pos].Topics = append(merged[pos].Topics, id)
			}
		}
	}

	r.Locales = merged
	return nil
}

// Index maps locale keys to denied topic ids.
func (r *Rules) Index() map[string][]string {
	if r == nil {
		return nil
	}
	out := make(map[string][]string, len(r.Locales))
	for _, rule := range r.Locales {
		out[rule.Locale] = append(out[rule.Locale], rule.Topics...)
	}
	return out
}
