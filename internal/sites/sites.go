// Package sites loads the watch list the checker is configured with. The
// canonical form is a `jobs:` document, but the checker's own multi-document
// job stream is accepted too.
package sites

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Site struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url" validate:"required,url"`
}

type List struct {
	sites  []Site
	byGUID map[string]Site
}

// GUID derives the checker's per-site identifier from a URL.
func GUID(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

func Load(path string) (List, error) {
	f, err := os.Open(path)
	if err != nil {
		return List{}, fmt.Errorf("open sites file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return List{}, fmt.Errorf("read sites file: %w", err)
	}

	entries, err := parse(raw)
	if err != nil {
		return List{}, err
	}

	v := validator.New()
	for idx, site := range entries {
		if err := v.Struct(site); err != nil {
			return List{}, fmt.Errorf("invalid site entry %d: %w", idx, err)
		}
	}

	byGUID := make(map[string]Site, len(entries))
	for _, site := range entries {
		byGUID[GUID(site.URL)] = site
	}
	return List{sites: entries, byGUID: byGUID}, nil
}

func parse(raw []byte) ([]Site, error) {
	var doc struct {
		Jobs []Site `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(raw, &doc); err == nil && len(doc.Jobs) > 0 {
		return doc.Jobs, nil
	}

	// Multi-document stream: one job per document.
	var entries []Site
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	for {
		var site Site
		if err := dec.Decode(&site); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse sites file: %w", err)
		}
		if site.Name == "" && site.URL == "" {
			continue
		}
		entries = append(entries, site)
	}
	return entries, nil
}

func (l List) Count() int { return len(l.sites) }

func (l List) All() []Site { return l.sites }

func (l List) NameFor(url string) string {
	if site, ok := l.byGUID[GUID(url)]; ok {
		return site.Name
	}
	return ""
}

func (l List) NameForGUID(guid string) string {
	if site, ok := l.byGUID[guid]; ok {
		return site.Name
	}
	return ""
}
