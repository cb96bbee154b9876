// Package catalog loads the static data shipped with the binary: search
// providers, regional filter lists, internal pages and top sites.
package catalog

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/domain/url"
)

//go:embed assets/*
var assets embed.FS

const (
	providersFile  = "assets/search_providers.toml"
	regionsFile    = "assets/regions.yaml"
	topSitesFile   = "assets/top_sites.txt"
	aboutPagesFile = "assets/about_pages.txt"
)

// ErrInvalidCatalog is wrapped by every validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

type providersDoc struct {
	Providers []entity.SearchProvider `toml:"provider"`
}

type regionsDoc struct {
	Regions []entity.Region `yaml:"regions"`
}

// Catalog is an immutable view of the embedded data.
type Catalog struct {
	providers  []entity.SearchProvider
	byName     map[string]int
	regions    []entity.Region
	aboutPages []string
	topSites   []string
}

var _ port.Catalog = (*Catalog)(nil)

// Load reads the catalog embedded in the binary.
func Load() (*Catalog, error) {
	return LoadFS(assets)
}

// LoadFS reads a catalog laid out like the embedded assets directory.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int)}

	data, err := fs.ReadFile(fsys, providersFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers: %w", err)
	}
	if err := c.loadProviders(data); err != nil {
		return nil, err
	}

	data, err = fs.ReadFile(fsys, regionsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions: %w", err)
	}
	if err := c.loadRegions(data); err != nil {
		return nil, err
	}

	if c.topSites, err = readLines(fsys, topSitesFile); err != nil {
		return nil, err
	}
	if c.aboutPages, err = readLines(fsys, aboutPagesFile); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadProviders(data []byte) error {
	var doc providersDoc
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return fmt.Errorf("%w: providers: %v", ErrInvalidCatalog, err)
	}
	if len(doc.Providers) == 0 {
		return fmt.Errorf("%w: no search providers", ErrInvalidCatalog)
	}

	shortcuts := make(map[string]string)
	for i, p := range doc.Providers {
		if p.Name == "" {
			return fmt.Errorf("%w: provider %d has no name", ErrInvalidCatalog, i)
		}
		if !strings.Contains(p.SearchURL, url.SearchTermsPlaceholder) {
			return fmt.Errorf("%w: provider %s search_url lacks %s", ErrInvalidCatalog, p.Name, url.SearchTermsPlaceholder)
		}
		key := strings.ToLower(p.Name)
		if _, dup := c.byName[key]; dup {
			return fmt.Errorf("%w: duplicate provider %s", ErrInvalidCatalog, p.Name)
		}
		if p.Shortcut != "" {
			if other, dup := shortcuts[p.Shortcut]; dup {
				return fmt.Errorf("%w: shortcut %s used by %s and %s", ErrInvalidCatalog, p.Shortcut, other, p.Name)
			}
			shortcuts[p.Shortcut] = p.Name
		}
		c.byName[key] = i
	}
	c.providers = doc.Providers
	return nil
}

func (c *Catalog) loadRegions(data []byte) error {
	var doc regionsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: regions: %v", ErrInvalidCatalog, err)
	}

	seen := make(map[string]bool)
	for _, r := range doc.Regions {
		id, err := uuid.Parse(r.UUID)
		if err != nil {
			return fmt.Errorf("%w: region %q: %v", ErrInvalidCatalog, r.Title, err)
		}
		if seen[id.String()] {
			return fmt.Errorf("%w: duplicate region %s", ErrInvalidCatalog, r.UUID)
		}
		seen[id.String()] = true
	}
	c.regions = doc.Regions
	return nil
}

func readLines(fsys fs.FS, name string) ([]string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

func (c *Catalog) Providers() []entity.SearchProvider {
	return append([]entity.SearchProvider(nil), c.providers...)
}

func (c *Catalog) Provider(name string) (entity.SearchProvider, bool) {
	i, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return entity.SearchProvider{}, false
	}
	return c.providers[i], true
}

// DefaultProvider is the first declared provider.
func (c *Catalog) DefaultProvider() entity.SearchProvider {
	return c.providers[0]
}

func (c *Catalog) AboutPages() []string {
	return append([]string(nil), c.aboutPages...)
}

func (c *Catalog) TopSites() []string {
	return append([]string(nil), c.topSites...)
}

func (c *Catalog) Regions() []entity.Region {
	return append([]entity.Region(nil), c.regions...)
}

// Region looks a regional list up by UUID, in any casing.
func (c *Catalog) Region(id string) (entity.Region, bool) {
	for _, r := range c.regions {
		if strings.EqualFold(r.UUID, id) {
			return r, true
		}
	}
	return entity.Region{}, false
}

func (c *Catalog) IsInternalURL(location string) bool {
	return url.IsInternal(location)
}
