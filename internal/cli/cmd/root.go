// Package cmd provides Cobra CLI commands for wayfinder.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/wayfinder/internal/cli"
	"github.com/bnema/wayfinder/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "wayfinder",
		Short: "URL-bar suggestions and request filtering for browser shells",
		Long: `Wayfinder - the navigation core of a browser, as a local service.

It ranks URL-bar suggestions from history, bookmarks, open tabs, internal
pages, search providers and top sites, tracks the URL-bar state of every
tab, and decides which sub-resource requests are blocked by the ad-block,
safe-browsing, regional and custom filter lists.

Use 'wayfinder serve' to expose it over HTTP and WebSocket, or the other
subcommands to query it from the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version", "schema":
				return nil
			}

			opts := cli.Options{BuildInfo: buildInfo}
			if cmd.Name() == serveCmd.Name() {
				opts.FileLog = true
				opts.LogName = serveLogName
			}

			var err error
			app, err = cli.NewApp(opts)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

func requireApp() (*cli.App, error) {
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
