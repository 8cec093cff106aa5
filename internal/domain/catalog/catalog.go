// Package catalog holds the static benchmark, lab and organization tables the
// pipeline and the read model share.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Benchmark describes one tracked evaluation and where its data lives in the
// upstream archive.
type Benchmark struct {
	Key         string `yaml:"key" json:"key"`
	File        string `yaml:"file" json:"-"`
	ScoreColumn string `yaml:"score_column" json:"-"`
	Name        string `yaml:"name" json:"name"`
	Category    string `yaml:"category" json:"category"`
	Description string `yaml:"description" json:"description"`
	Link        string `yaml:"link" json:"link"`
}

// Lab is a canonical AI lab.
type Lab struct {
	Key   string `yaml:"key" json:"key"`
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
}

// Catalog is the full set of static tables.
type Catalog struct {
	Benchmarks []Benchmark `yaml:"benchmarks"`
	Labs       []Lab       `yaml:"labs"`
	// Organizations maps a lowercased organization name to a lab key.
	Organizations map[string]string `yaml:"organizations"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. The embedded file is covered by
// tests, so a parse failure here is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	normalized := make(map[string]string, len(c.Organizations))
	for alias, lab := range c.Organizations {
		normalized[strings.ToLower(strings.TrimSpace(alias))] = lab
	}
	c.Organizations = normalized
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks keys are unique and aliases resolve to known labs.
func (c *Catalog) Validate() error {
	if len(c.Labs) == 0 {
		return fmt.Errorf("%w: no labs", ErrInvalidCatalog)
	}
	labs := make(map[string]bool, len(c.Labs))
	for _, l := range c.Labs {
		if l.Key == "" {
			return fmt.Errorf("%w: lab without key", ErrInvalidCatalog)
		}
		if labs[l.Key] {
			return fmt.Errorf("%w: duplicate lab %q", ErrInvalidCatalog, l.Key)
		}
		labs[l.Key] = true
	}
	for alias, lab := range c.Organizations {
		if !labs[lab] {
			return fmt.Errorf("%w: organization %q maps to unknown lab %q", ErrInvalidCatalog, alias, lab)
		}
	}
	keys := make(map[string]bool, len(c.Benchmarks))
	files := make(map[string]bool, len(c.Benchmarks))
	for _, b := range c.Benchmarks {
		if b.Key == "" || b.File == "" {
			return fmt.Errorf("%w: benchmark needs key and file", ErrInvalidCatalog)
		}
		if keys[b.Key] {
			return fmt.Errorf("%w: duplicate benchmark %q", ErrInvalidCatalog, b.Key)
		}
		if files[b.File] {
			return fmt.Errorf("%w: duplicate file %q", ErrInvalidCatalog, b.File)
		}
		keys[b.Key] = true
		files[b.File] = true
	}
	return nil
}

// LabForAlias resolves an already-normalized organization name.
func (c *Catalog) LabForAlias(alias string) (string, bool) {
	lab, ok := c.Organizations[alias]
	return lab, ok
}

// LabKeys returns lab keys in display order.
func (c *Catalog) LabKeys() []string {
	out := make([]string, len(c.Labs))
	for i, l := range c.Labs {
		out[i] = l.Key
	}
	return out
}

// HasLab reports whether key is a known lab.
func (c *Catalog) HasLab(key string) bool {
	for _, l := range c.Labs {
		if l.Key == key {
			return true
		}
	}
	return false
}

// Files returns the archive file allow-list.
func (c *Catalog) Files() []string {
	out := make([]string, len(c.Benchmarks))
	for i, b := range c.Benchmarks {
		out[i] = b.File
	}
	return out
}

// Benchmark looks up a benchmark by key.
func (c *Catalog) Benchmark(key string) (Benchmark, bool) {
	for _, b := range c.Benchmarks {
		if b.Key == key {
			return b, true
		}
	}
	return Benchmark{}, false
}
