package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/wayfinder/internal/cli"
	"github.com/bnema/wayfinder/internal/infrastructure/config"
	"github.com/bnema/wayfinder/internal/infrastructure/filtering"
	"github.com/bnema/wayfinder/internal/infrastructure/httpapi"
	"github.com/bnema/wayfinder/internal/logging"
	"github.com/bnema/wayfinder/internal/mainloop"
	"github.com/bnema/wayfinder/internal/ui/urlbar"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket API",
	Long: `Run the navigation core as a local service.

The URL-bar state, suggestion ranking and request filter are exposed over
HTTP, with a WebSocket stream of URL-bar updates. Filter lists are loaded
from the cache, refreshed in the background, and the config file is watched
so settings changes apply without a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides server.listen)")
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(a.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	loop := mainloop.New()
	filters, err := a.NewFilterStack(loop.Poster(), true)
	if err != nil {
		return err
	}
	defer filters.Close()

	store := urlbar.NewStore(ctx, loop,
		urlbar.NewReducer(a.Catalog, a.Settings),
		a.Fetcher,
		urlbar.State{SearchDetail: a.DefaultSearch()},
		urlbar.WithFetchTimeout(a.Config.Search.SuggestTimeout()),
	)
	defer store.Wait()

	listen := a.Config.Server.Listen
	if serveListen != "" {
		listen = serveListen
	}
	server := httpapi.New(ctx, httpapi.Config{
		Listen:          listen,
		ShutdownTimeout: a.Config.Server.ShutdownTimeout(),
		Version:         a.BuildInfo.Version,
	}, httpapi.Deps{
		Suggester:  a.SuggestUC,
		Store:      store,
		Filter:     filtering.NewPipeline(ctx, filters.Manager, store),
		Resources:  filters.Manager,
		Rules:      a.Settings,
		History:    a.HistoryUC,
		Bookmarks:  a.FavoritesUC,
		Invalidate: a.SuggestUC.Invalidate,
	})

	settingsTasks := mainloop.NewCoalescer(loop.Poster())
	defer settingsTasks.Destroy()
	watchSettings(ctx, a, settingsTasks, filters, store)
	if err := a.Manager.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error {
		reloadOnHangup(gctx, a.Manager)
		return nil
	})
	g.Go(func() error {
		// Filter lists that fail to load stay inactive; the service still runs.
		if err := filters.Manager.Init(gctx); err != nil {
			log.Warn().Err(err).Msg("filter initialization incomplete")
		}
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info().Msg("wayfinder stopped")
	return err
}

// settingsTask is the coalescing key of config reloads on the loop.
const settingsTask = "settings"

// coalesceReloads posts apply to the loop through tasks, so a burst of
// config notifications applies only the latest config, once.
func coalesceReloads(tasks *mainloop.Coalescer, apply func(*config.Config)) func(*config.Config) {
	return func(cfg *config.Config) {
		tasks.Post(settingsTask, func() { apply(cfg) })
	}
}

// watchSettings applies config reloads. Filter changes run on the main
// loop; custom rules go through the manager's debounce so a burst of edits
// rebuilds once.
func watchSettings(ctx context.Context, a *cli.App, tasks *mainloop.Coalescer, filters *cli.FilterStack, store *urlbar.Store) {
	log := logging.FromContext(ctx)
	lastRules := a.Config.Adblock.CustomRules

	apply := coalesceReloads(tasks, func(cfg *config.Config) {
		log.Debug().Msg("applying settings change")
		if err := filters.Manager.Reconfigure(ctx); err != nil {
			log.Warn().Err(err).Msg("filter reconfigure failed")
		}
		if cfg.Adblock.CustomRules != lastRules {
			lastRules = cfg.Adblock.CustomRules
			filters.Manager.UpdateCustomRules(ctx, lastRules)
		}
		a.SuggestUC.Invalidate()
	})

	a.Manager.OnConfigChange(func(cfg *config.Config) {
		apply(cfg)

		// Callbacks never run on the loop, so waiting on it here is safe.
		search := a.DefaultSearch()
		if _, err := store.Mutate(ctx, func(s urlbar.State) urlbar.State {
			s.SearchDetail = search
			return s
		}); err != nil {
			log.Debug().Err(err).Msg("default search not updated")
		}
	})
}

// reloadOnHangup re-reads the config file on SIGHUP, for setups where file
// notifications are unavailable.
func reloadOnHangup(ctx context.Context, m *config.Manager) {
	log := logging.FromContext(ctx)
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := m.Reload(); err != nil {
				log.Warn().Err(err).Msg("config reload failed, keeping current settings")
				continue
			}
			log.Info().Msg("config reloaded")
		}
	}
}
