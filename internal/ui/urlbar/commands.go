package urlbar

// Command is a side effect requested by the reducer. The store executes
// commands after the new state is in place.
type Command interface {
	commandName() string
}

// FetchSuggestions asks for remote search suggestions for a tab. Results
// come back as a SearchResultsAvailable event.
type FetchSuggestions struct {
	TabID           int    `json:"tab_id"`
	AutocompleteURL string `json:"autocomplete_url"`
	Query           string `json:"query"`
}

func (FetchSuggestions) commandName() string { return "fetch_suggestions" }

// ActivateSearchEngine reports that a frame switched to a provider through
// its shortcut.
type ActivateSearchEngine struct {
	FrameKey int    `json:"frame_key"`
	Provider string `json:"provider"`
}

func (ActivateSearchEngine) commandName() string { return "activate_search_engine" }

// CommandName returns the wire name of c.
func CommandName(c Command) string {
	return c.commandName()
}
