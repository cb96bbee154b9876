package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/wayfinder/internal/application/usecase"
	"github.com/bnema/wayfinder/internal/cli"
	"github.com/bnema/wayfinder/internal/logging"
	"github.com/bnema/wayfinder/internal/ui/urlbar"
)

var (
	suggestJSON   bool
	suggestRemote bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <input>",
	Short: "Rank URL-bar suggestions for an input",
	Long: `Run one suggestion pass as if input had been typed into an empty tab.

With --remote the active search provider's autocomplete endpoint is queried
first, so search suggestions are included.

Examples:
  wayfinder suggest gith
  wayfinder suggest --remote ":g golang generics"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "output as JSON")
	suggestCmd.Flags().BoolVar(&suggestRemote, "remote", false, "fetch remote search suggestions")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := a.Ctx()
	input := strings.Join(args, " ")

	state := oneShotState(a, input, suggestRemote)
	in, _ := urlbar.SuggestInput(state)
	out := a.SuggestUC.Execute(ctx, in)

	if suggestJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return renderSuggestions(cmd.OutOrStdout(), a, state, out)
}

// oneShotState runs the reducer for a single keystroke in a fresh tab,
// performing the fetch it asks for when remote is set.
func oneShotState(a *cli.App, input string, remote bool) urlbar.State {
	ctx := a.Ctx()
	reducer := urlbar.NewReducer(a.Catalog, a.Settings)
	state := urlbar.State{
		ActiveFrameKey: 1,
		SearchDetail:   a.DefaultSearch(),
		Frames:         []urlbar.Frame{{Key: 1, TabID: 1}},
	}

	state, cmds := reducer.Reduce(state, urlbar.SetNavbarInput{Input: input})
	if !remote {
		return state
	}
	for _, c := range cmds {
		fetch, ok := c.(urlbar.FetchSuggestions)
		if !ok {
			continue
		}
		fetchCtx, cancel := context.WithTimeout(ctx, a.Config.Search.SuggestTimeout())
		results, err := a.Fetcher.Fetch(fetchCtx, fetch.AutocompleteURL, fetch.Query)
		cancel()
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("remote suggestions unavailable")
			continue
		}
		state, _ = reducer.Reduce(state, urlbar.SearchResultsAvailable{TabID: fetch.TabID, Results: results})
	}
	return state
}

func renderSuggestions(w io.Writer, a *cli.App, state urlbar.State, out *usecase.SuggestURLBarOutput) error {
	t := a.Theme
	if active, ok := state.ActiveFrame(); ok && active.Navbar.URLBar.SearchDetail != nil {
		_, _ = fmt.Fprintln(w, t.Subtle.Render("searching with ")+t.Highlight.Render(active.Navbar.URLBar.SearchDetail.Name))
	}
	if out.Completion != "" {
		_, _ = fmt.Fprintln(w, t.Subtle.Render("completion: ")+t.Normal.Render(out.CompletionURL))
	}
	if len(out.Suggestions) == 0 {
		_, err := fmt.Fprintln(w, t.Subtle.Render("no suggestions"))
		return err
	}
	for _, s := range out.Suggestions {
		line := t.SuggestionBadge(s.Type) + " " + t.Normal.Render(s.Title)
		if s.Location != "" && s.Location != s.Title {
			line += "  " + t.ListItemDesc.Render(s.Location)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
