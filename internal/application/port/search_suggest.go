package port

import "context"

// SearchSuggestionFetcher queries a provider autocomplete endpoint.
type SearchSuggestionFetcher interface {
	// Fetch returns the suggestions for query. autocompleteURL carries a
	// {searchTerms} placeholder. Implementations degrade to an empty list
	// rather than failing on bad endpoints or bodies.
	Fetch(ctx context.Context, autocompleteURL, query string) ([]string, error)
}
