// Package cli holds the dependencies shared by the wayfinder commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/wayfinder/internal/application/usecase"
	"github.com/bnema/wayfinder/internal/cli/styles"
	"github.com/bnema/wayfinder/internal/domain/build"
	"github.com/bnema/wayfinder/internal/infrastructure/catalog"
	"github.com/bnema/wayfinder/internal/infrastructure/config"
	"github.com/bnema/wayfinder/internal/infrastructure/filtering"
	"github.com/bnema/wayfinder/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/wayfinder/internal/infrastructure/searchsuggest"
	"github.com/bnema/wayfinder/internal/infrastructure/xdg"
	"github.com/bnema/wayfinder/internal/logging"
	"github.com/bnema/wayfinder/internal/ui/urlbar"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Settings  *config.Settings
	Theme     *styles.Theme
	BuildInfo build.Info
	Catalog   *catalog.Catalog
	Paths     *xdg.Adapter

	db *sqlite.LazyDB

	// Use cases
	HistoryUC   *usecase.ManageHistoryUseCase
	FavoritesUC *usecase.ManageFavoritesUseCase
	SuggestUC   *usecase.SuggestURLBarUseCase

	Fetcher *searchsuggest.Fetcher

	// Context with logger
	ctx        context.Context
	logCleanup func()
}

// Options tune NewApp for a command.
type Options struct {
	// FileLog enables the rotated log file when the config asks for it.
	// Only long-running commands set it.
	FileLog bool
	// LogName is the file name inside the log directory.
	LogName string
	// BuildInfo is reported by version and used in the fetcher's User-Agent.
	BuildInfo build.Info
}

// NewApp loads the config and builds everything the commands share. The
// database is opened lazily on first use.
func NewApp(opts Options) (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	ctx, logCleanup := newLoggerContext(cfg, opts)
	log := logging.FromContext(ctx)

	cat, err := catalog.Load()
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	settings := config.NewSettings(mgr)
	db := sqlite.NewLazyDB(cfg.Database.Path)
	historyRepo := sqlite.NewLazyHistoryRepository(db)
	favoriteRepo := sqlite.NewLazyFavoriteRepository(db)

	limits := cfg.URLBar.Limits
	suggestUC := usecase.NewSuggestURLBarUseCase(historyRepo, favoriteRepo, settings, cat,
		usecase.WithLimits(usecase.URLBarLimits{
			History:    limits.History,
			Bookmarks:  limits.Bookmarks,
			AboutPages: limits.AboutPages,
			Tabs:       limits.Tabs,
			Search:     limits.Search,
			TopSites:   limits.TopSites,
		}),
		usecase.WithAgeDecay(cfg.URLBar.AgeDecay()),
	)

	log.Debug().Str("db_path", cfg.Database.Path).Str("config", mgr.GetConfigFile()).Msg("app initialized")

	return &App{
		Config:      cfg,
		Manager:     mgr,
		Settings:    settings,
		Theme:       styles.NewTheme(),
		BuildInfo:   opts.BuildInfo,
		Catalog:     cat,
		Paths:       xdg.New(),
		db:          db,
		HistoryUC:   usecase.NewManageHistoryUseCase(historyRepo),
		FavoritesUC: usecase.NewManageFavoritesUseCase(favoriteRepo),
		SuggestUC:   suggestUC,
		Fetcher: searchsuggest.New(searchsuggest.Config{
			CacheSize: cfg.Search.SuggestCacheSize,
			UserAgent: userAgent(opts.BuildInfo),
			Timeout:   cfg.Search.SuggestTimeout(),
		}),
		ctx:        ctx,
		logCleanup: logCleanup,
	}, nil
}

func userAgent(info build.Info) string {
	if info.Version == "" {
		return "wayfinder/dev"
	}
	return "wayfinder/" + info.Version
}

func newLoggerContext(cfg *config.Config, opts Options) (context.Context, func()) {
	base := logging.ConfigFromValues(cfg.Logging.Level, string(cfg.Logging.Format))
	base.TimeFormat = "15:04:05"

	if !opts.FileLog || !cfg.Logging.EnableFileLog {
		return logging.WithContext(context.Background(), logging.New(base)), func() {}
	}

	name := opts.LogName
	if name == "" {
		name = "wayfinder.log"
	}
	logger, cleanup, err := logging.NewWithFile(base, logging.FileConfig{
		Dir:        cfg.Logging.LogDir,
		Name:       name,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxAgeDays: cfg.Logging.MaxAge,
		Compress:   true,
	})
	if err != nil {
		logger.Warn().Err(err).Str("dir", cfg.Logging.LogDir).Msg("file logging disabled")
	} else {
		logger.Debug().Str("path", filepath.Join(cfg.Logging.LogDir, name)).Msg("file logging enabled")
	}
	return logging.WithContext(context.Background(), logger), cleanup
}

// Close releases all resources.
func (a *App) Close() error {
	if a.logCleanup != nil {
		a.logCleanup()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// DefaultSearch resolves the window-wide search engine from the config,
// falling back to the first catalog provider.
func (a *App) DefaultSearch() urlbar.DefaultSearch {
	p := a.Catalog.DefaultProvider()
	if name := a.Settings.String("search.default_provider"); name != "" {
		if named, ok := a.Catalog.Provider(name); ok {
			p = named
		} else {
			logging.FromContext(a.ctx).Warn().Str("provider", name).Msg("unknown default provider, using the first one")
		}
	}
	return urlbar.DefaultSearch{SearchURL: p.SearchURL, AutocompleteURL: p.AutocompleteURL}
}

// FilterStack is the request filter with its data-file loader.
type FilterStack struct {
	DataFiles *filtering.DataFiles
	Manager   *filtering.Manager

	offline bool
}

// ErrOffline is returned by RefreshAll when adblock.offline is set.
var ErrOffline = errors.New("filter downloads are disabled (adblock.offline)")

// NewFilterStack builds the downloader and the filter manager. post
// schedules debounced rebuilds; nil runs them on the timer goroutine.
// Without background, no recheck workers are started and lists only change
// through RefreshAll.
func (a *App) NewFilterStack(post func(func()), background bool) (*FilterStack, error) {
	cacheDir, err := a.Paths.FilterCacheDir()
	if err != nil {
		return nil, err
	}
	files, err := filtering.NewDataFiles(filtering.DataFilesConfig{
		CacheDir: cacheDir,
		Offline:  a.Config.Adblock.Offline || !background,
	})
	if err != nil {
		return nil, err
	}

	manager, err := filtering.NewManager(filtering.ManagerConfig{
		Loader:          files,
		Settings:        a.Settings,
		Regions:         a.Catalog.Regions(),
		URLTemplate:     a.Config.Adblock.DataFileURL,
		RecheckInterval: a.Config.Adblock.RecheckDuration(),
		CustomDebounce:  a.Config.Adblock.DebounceDuration(),
		Post:            post,
	})
	if err != nil {
		files.Close()
		return nil, err
	}
	return &FilterStack{DataFiles: files, Manager: manager, offline: a.Config.Adblock.Offline}, nil
}

// RefreshAll downloads every enabled list once, concurrently. The custom
// list is built locally and skipped. Lists the server reports unchanged
// are not errors.
func (f *FilterStack) RefreshAll(ctx context.Context) error {
	if f.offline {
		return ErrOffline
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, status := range f.Manager.Statuses() {
		if status.State == filtering.StateDisabled || status.Name == filtering.CustomFiltersUUID {
			continue
		}
		name := status.Name
		g.Go(func() error {
			err := f.DataFiles.Refresh(gctx, name)
			switch {
			case err == nil, errors.Is(err, filtering.ErrNotModified), errors.Is(err, filtering.ErrUnknownResource):
				return nil
			default:
				return fmt.Errorf("refresh %s: %w", name, err)
			}
		})
	}
	return g.Wait()
}

// Close stops downloads and pending rebuilds.
func (f *FilterStack) Close() {
	f.Manager.Close()
	f.DataFiles.Close()
}
