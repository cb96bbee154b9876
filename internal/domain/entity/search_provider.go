package entity

// SearchProvider is a search engine the URL bar can route queries to.
// SearchURL and AutocompleteURL carry a {searchTerms} placeholder.
type SearchProvider struct {
	Name            string `toml:"name" json:"name"`
	Shortcut        string `toml:"shortcut" json:"shortcut,omitempty"`
	SearchURL       string `toml:"search_url" json:"search_url"`
	AutocompleteURL string `toml:"autocomplete_url" json:"autocomplete_url,omitempty"`
	Image           string `toml:"image" json:"image,omitempty"`
}

// HasAutocomplete reports whether the provider exposes a suggestion endpoint.
func (p SearchProvider) HasAutocomplete() bool {
	return p.AutocompleteURL != ""
}
