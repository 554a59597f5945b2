// Package templates provides the read-only catalog of preset MML documents
// the editor cycles through.
package templates

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Template is a preset document and its display name.
type Template struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Catalog is a fixed, ordered list of templates. It always holds at least
// one entry and is never modified after construction.
type Catalog struct {
	entries []Template
}

// ErrEmpty is returned when a catalog would have no templates.
var ErrEmpty = errors.New("template catalog is empty")

//go:embed templates.yml
var defaultTemplates []byte

var defaultCatalog *Catalog

func init() {
	c, err := Load(bytes.NewReader(defaultTemplates))
	if err != nil {
		panic(fmt.Errorf("failed to load default templates: %w", err))
	}
	defaultCatalog = c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// New returns a catalog holding a copy of entries.
func New(entries ...Template) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	return &Catalog{entries: append([]Template(nil), entries...)}, nil
}

// Load decodes a YAML list of templates. Unknown fields are rejected.
func Load(r io.Reader) (*Catalog, error) {
	var entries []Template
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	return New(entries...)
}

// Extend returns a new catalog with extra appended after c's entries.
func (c *Catalog) Extend(extra ...Template) *Catalog {
	entries := make([]Template, 0, len(c.entries)+len(extra))
	entries = append(entries, c.entries...)
	entries = append(entries, extra...)
	return &Catalog{entries: entries}
}

// Count returns the number of templates.
func (c *Catalog) Count() int {
	return len(c.entries)
}

// Get returns the content at index. Out of range indices return the first
// template's content.
func (c *Catalog) Get(index int) string {
	return c.at(index).Content
}

// Title returns the display name for index. Indices without a named entry
// get a generic "Template N" label.
func (c *Catalog) Title(index int) string {
	if index >= 0 && index < len(c.entries) && c.entries[index].Title != "" {
		return c.entries[index].Title
	}
	if index < 0 {
		index = 0
	}
	return fmt.Sprintf("Template %d", index+1)
}

// Next returns the index after index, wrapping to 0 after the last entry.
func (c *Catalog) Next(index int) int {
	n := len(c.entries)
	return ((index+1)%n + n) % n
}

func (c *Catalog) at(index int) Template {
	if index < 0 || index >= len(c.entries) {
		return c.entries[0]
	}
	return c.entries[index]
}
