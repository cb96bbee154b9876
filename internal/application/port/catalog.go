package port

import "github.com/bnema/wayfinder/internal/domain/entity"

// Catalog exposes the static data shipped with the binary.
type Catalog interface {
	// Providers returns the search providers in declaration order.
	Providers() []entity.SearchProvider

	// Provider returns the provider with the given name.
	Provider(name string) (entity.SearchProvider, bool)

	// AboutPages returns the navigable internal pages.
	AboutPages() []string

	// TopSites returns popular sites in rank order.
	TopSites() []string

	// Regions returns the regional filter lists.
	Regions() []entity.Region

	// IsInternalURL reports whether location is one of the browser's own pages.
	IsInternalURL(location string) bool
}
