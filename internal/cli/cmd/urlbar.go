package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/wayfinder/internal/cli/model"
	"github.com/bnema/wayfinder/internal/domain/autocomplete"
	"github.com/bnema/wayfinder/internal/mainloop"
	"github.com/bnema/wayfinder/internal/ui/urlbar"
)

var urlbarCmd = &cobra.Command{
	Use:   "urlbar",
	Short: "Interactive URL bar in the terminal",
	Long: `Type into a terminal URL bar backed by the same state machine and ranking
the service uses. Provider shortcuts, remote search suggestions and inline
completion all work. The picked location is printed on exit.`,
	RunE: runURLBar,
}

func init() {
	rootCmd.AddCommand(urlbarCmd)
}

func runURLBar(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(a.Ctx())
	defer cancel()

	loop := mainloop.New()
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	store := urlbar.NewStore(ctx, loop,
		urlbar.NewReducer(a.Catalog, a.Settings),
		a.Fetcher,
		urlbar.State{
			ActiveFrameKey: 1,
			SearchDetail:   a.DefaultSearch(),
			Frames:         []urlbar.Frame{{Key: 1, TabID: 1}},
		},
		urlbar.WithFetchTimeout(a.Config.Search.SuggestTimeout()),
	)
	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	m := model.NewURLBarModel(ctx, a.Theme, store, updates, a.SuggestUC)
	final, err := tea.NewProgram(m).Run()
	cancel()
	if loopErr := <-loopDone; loopErr != nil && !errors.Is(loopErr, context.Canceled) {
		return loopErr
	}
	store.Wait()
	if err != nil {
		return fmt.Errorf("run url bar: %w", err)
	}

	result, ok := final.(model.URLBarModel)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}
	if result.Err() != nil {
		return result.Err()
	}
	if picked := result.Picked(); picked != nil {
		switch picked.Kind {
		case autocomplete.ActionActivateFrame:
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "frame:%d\n", picked.FrameKey)
		default:
			_, err = fmt.Fprintln(cmd.OutOrStdout(), picked.URL)
		}
	}
	return err
}
