// Package catalog holds the static marketing copy and the service
// offerings.  The data is embedded in the binary and parsed once; every
// accessor hands out copies so the catalog stays immutable at runtime.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/raveworks-booking/internal/model"
)

//go:embed catalog.yaml
var embedded []byte

// ErrInvalidCatalog is returned when catalog data breaks one of the load
// time checks (empty titles, duplicate service ids, negative prices).
var ErrInvalidCatalog = errors.New("invalid catalog")

type document struct {
	Default  model.ContentEntry                     `yaml:"default"`
	Success  model.ContentEntry                     `yaml:"success"`
	Aliases  map[string]model.SectionID             `yaml:"aliases"`
	Sections map[model.SectionID]model.ContentEntry `yaml:"sections"`
	Services []model.ServiceOffering                `yaml:"services"`
}

// Catalog maps section ids to content and lists the service offerings.
type Catalog struct {
	def      model.ContentEntry
	success  model.ContentEntry
	aliases  map[string]model.SectionID
	sections map[model.SectionID]model.ContentEntry
	services []model.ServiceOffering
}

// Load parses the catalog compiled into the binary.
func Load() (*Catalog, error) {
	return Parse(embedded)
}

// Parse builds a Catalog from YAML data.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if strings.TrimSpace(doc.Default.Title) == "" {
		return nil, fmt.Errorf("%w: default entry has no title", ErrInvalidCatalog)
	}
	if strings.TrimSpace(doc.Success.Title) == "" {
		doc.Success = doc.Default
	}
	for id, e := range doc.Sections {
		if !id.Valid() {
			return nil, fmt.Errorf("%w: unknown section %q", ErrInvalidCatalog, id)
		}
		if strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("%w: section %q has no title", ErrInvalidCatalog, id)
		}
	}
	for alias, id := range doc.Aliases {
		if !id.Valid() {
			return nil, fmt.Errorf("%w: alias %q points to unknown section %q", ErrInvalidCatalog, alias, id)
		}
	}
	seen := make(map[int]struct{}, len(doc.Services))
	for _, s := range doc.Services {
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate service id %d", ErrInvalidCatalog, s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Price < 0 {
			return nil, fmt.Errorf("%w: service %d has negative price", ErrInvalidCatalog, s.ID)
		}
	}
	if doc.Aliases == nil {
		doc.Aliases = map[string]model.SectionID{}
	}
	if doc.Sections == nil {
		doc.Sections = map[model.SectionID]model.ContentEntry{}
	}
	return &Catalog{
		def:      doc.Default,
		success:  doc.Success,
		aliases:  doc.Aliases,
		sections: doc.Sections,
		services: doc.Services,
	}, nil
}

// Normalize lower-cases raw and resolves UI aliases (central, raves, book)
// to their canonical section.  Unknown tokens are returned unchanged so
// the caller can decide whether to reject them.
func (c *Catalog) Normalize(raw string) model.SectionID {
	key := strings.ToLower(strings.TrimSpace(raw))
	if id, ok := c.aliases[key]; ok {
		return id
	}
	return model.SectionID(key)
}

// Lookup returns the content for id.  It never fails: ids without an
// entry, including unknown ones, resolve to the default entry.
func (c *Catalog) Lookup(id model.SectionID) model.ContentEntry {
	if e, ok := c.sections[c.Normalize(string(id))]; ok {
		return cloneEntry(e)
	}
	return cloneEntry(c.def)
}

// Default returns the fallback entry.
func (c *Catalog) Default() model.ContentEntry { return cloneEntry(c.def) }

// Success returns the copy shown after a booking goes through.
func (c *Catalog) Success() model.ContentEntry { return cloneEntry(c.success) }

// ListServices returns the offerings in definition order.
func (c *Catalog) ListServices() []model.ServiceOffering {
	out := make([]model.ServiceOffering, 0, len(c.services))
	for _, s := range c.services {
		out = append(out, s.Clone())
	}
	return out
}

// Service looks up an offering by id.
func (c *Catalog) Service(id int) (model.ServiceOffering, bool) {
	for _, s := range c.services {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return model.ServiceOffering{}, false
}

// Contains reports whether id is a catalog service.
func (c *Catalog) Contains(id int) bool {
	_, ok := c.Service(id)
	return ok
}

func cloneEntry(e model.ContentEntry) model.ContentEntry {
	out := e
	if e.Body != nil {
		out.Body = append([]string(nil), e.Body...)
	}
	return out
}
