package usecase_test

import (
	"context"
	"strings"

	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/logging"
)

func testContext() context.Context {
	logger := logging.New(logging.ConfigFromValues("debug", "console"))
	return logging.WithContext(context.Background(), logger)
}

type fakeCatalog struct {
	providers []entity.SearchProvider
	about     []string
	topSites  []string
	regions   []entity.Region
}

func (c *fakeCatalog) Providers() []entity.SearchProvider { return c.providers }

func (c *fakeCatalog) Provider(name string) (entity.SearchProvider, bool) {
	for _, p := range c.providers {
		if p.Name == name {
			return p, true
		}
	}
	return entity.SearchProvider{}, false
}

func (c *fakeCatalog) AboutPages() []string     { return c.about }
func (c *fakeCatalog) TopSites() []string       { return c.topSites }
func (c *fakeCatalog) Regions() []entity.Region { return c.regions }

func (c *fakeCatalog) IsInternalURL(location string) bool {
	return strings.HasPrefix(location, "about:") || strings.HasPrefix(location, "wayfinder:")
}
