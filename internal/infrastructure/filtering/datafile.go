package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/logging"
)

const (
	cacheDirPerm  = 0o755
	cacheFilePerm = 0o644
	metaFileName  = "meta.json"
	lockRetry     = 50 * time.Millisecond
	lockTimeout   = 5 * time.Second
)

// ErrNotModified is returned by Refresh when the server reports no change.
var ErrNotModified = errors.New("filtering: data file not modified")

// DataFilesConfig configures the data-file downloader.
type DataFilesConfig struct {
	CacheDir   string
	HTTPClient *http.Client // defaults to a client with a 60s timeout
	// Offline disables the background recheck workers; cached payloads are
	// loaded and only explicit Refresh calls download.
	Offline bool
}

type fileMeta struct {
	ETag      string    `json:"etag"`
	Version   int       `json:"version"`
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updated_at"`
}

type dataFile struct {
	cfg       port.DataFileConfig
	hooks     port.DataFileHooks
	activated bool
	running   bool
	// accepted is the config of the payload currently installed.
	accepted *port.DataFileConfig
}

func (f *dataFile) current(cfg port.DataFileConfig) bool {
	return f.activated && f.accepted != nil &&
		f.accepted.Version == cfg.Version && f.accepted.URL == cfg.URL
}

// DataFiles downloads filter lists, caches them on disk next to their ETag,
// and refreshes them on each resource's recheck interval. It implements
// port.DataFileLoader.
type DataFiles struct {
	cacheDir   string
	httpClient *http.Client
	offline    bool

	mu    sync.Mutex
	files map[string]*dataFile
	meta  map[string]fileMeta

	wg     sync.WaitGroup
	cancel context.CancelFunc
	ctx    context.Context
}

var _ port.DataFileLoader = (*DataFiles)(nil)

// NewDataFiles creates the downloader and reads the cached metadata.
func NewDataFiles(cfg DataFilesConfig) (*DataFiles, error) {
	if err := os.MkdirAll(cfg.CacheDir, cacheDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create filter cache dir: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &DataFiles{
		cacheDir:   cfg.CacheDir,
		httpClient: client,
		offline:    cfg.Offline,
		files:      make(map[string]*dataFile),
		meta:       make(map[string]fileMeta),
		ctx:        ctx,
		cancel:     cancel,
	}
	if err := d.readMeta(); err != nil {
		cancel()
		return nil, err
	}
	return d, nil
}

// Configure registers or replaces the config of resource.
func (d *DataFiles) Configure(resource string, cfg port.DataFileConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.files[resource]
	if !ok {
		d.files[resource] = &dataFile{cfg: cfg}
		return
	}
	f.cfg = cfg
}

// Init loads the cached payload of resource and starts its refresh worker.
// Calling it again for a running resource only updates the config; the
// installed payload is kept when its version and URL are unchanged.
func (d *DataFiles) Init(ctx context.Context, resource string, cfg port.DataFileConfig, hooks port.DataFileHooks) error {
	log := logging.FromContext(ctx).With().
		Str("component", "filter-datafiles").
		Str("resource", resource).
		Logger()

	d.Configure(resource, cfg)
	if !cfg.Enabled {
		return nil
	}

	d.mu.Lock()
	f := d.files[resource]
	f.hooks = hooks
	start := !f.running && !d.offline && cfg.URL != ""
	if start {
		f.running = true
	}
	upToDate := f.current(cfg)
	d.mu.Unlock()

	if !upToDate {
		data, err := d.readCached(ctx, resource, cfg.Version)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("failed to read cached filter list")
		case data != nil && hooks.Deserialize != nil:
			if err := hooks.Deserialize(data); err != nil {
				log.Warn().Err(err).Msg("cached filter list rejected")
			} else {
				d.markActivated(resource, cfg)
			}
		}
	}

	if start {
		d.wg.Add(1)
		go d.worker(logging.WithContext(d.ctx, log), resource)
	}
	return nil
}

func (d *DataFiles) markActivated(resource string, cfg port.DataFileConfig) {
	d.mu.Lock()
	f := d.files[resource]
	var onActivate func()
	if f != nil {
		accepted := cfg
		f.accepted = &accepted
		if !f.activated {
			f.activated = true
			onActivate = f.hooks.OnActivate
		}
	}
	d.mu.Unlock()

	if onActivate != nil {
		onActivate()
	}
}

func (d *DataFiles) worker(ctx context.Context, resource string) {
	defer d.wg.Done()
	log := logging.FromContext(ctx)

	for {
		err := d.Refresh(ctx, resource)
		switch {
		case err == nil, errors.Is(err, ErrNotModified):
		case errors.Is(err, context.Canceled):
			return
		default:
			log.Warn().Err(err).Msg("filter list refresh failed, keeping current rules")
		}

		d.mu.Lock()
		interval := d.files[resource].cfg.RecheckInterval
		d.mu.Unlock()
		if interval <= 0 {
			interval = DefaultRecheckInterval
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Refresh downloads resource once, honouring the cached ETag. A rejected
// payload is neither cached nor activated.
func (d *DataFiles) Refresh(ctx context.Context, resource string) error {
	d.mu.Lock()
	f, ok := d.files[resource]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	cfg := f.cfg
	hooks := f.hooks
	etag := d.meta[resource].ETag
	if !f.activated || d.meta[resource].Version != cfg.Version || d.meta[resource].URL != cfg.URL {
		etag = ""
	}
	d.mu.Unlock()

	if !cfg.Enabled || cfg.URL == "" || hooks.Deserialize == nil {
		return nil
	}

	data, newETag, err := d.download(ctx, cfg.URL, etag)
	if err != nil {
		return err
	}
	if err := hooks.Deserialize(data); err != nil {
		return fmt.Errorf("failed to load %s: %w", resource, err)
	}
	cached := data
	if hooks.Serialize != nil {
		if snap, err := hooks.Serialize(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("resource", resource).Msg("failed to snapshot filter list, caching text")
		} else {
			cached = snap
		}
	}
	if err := d.writeCached(ctx, resource, cfg, cached, newETag); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("resource", resource).Msg("failed to cache filter list")
	}
	d.markActivated(resource, cfg)

	logging.FromContext(ctx).Info().
		Str("resource", resource).
		Int("bytes", len(data)).
		Str("etag", newETag).
		Msg("filter list updated")
	return nil
}

func (d *DataFiles) download(ctx context.Context, url, etag string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logging.FromContext(ctx).Debug().Err(closeErr).Msg("failed to close filter response body")
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotModified:
		return nil, "", ErrNotModified
	default:
		return nil, "", fmt.Errorf("download %s failed with status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, resp.Header.Get("ETag"), nil
}

func (d *DataFiles) payloadPath(resource string, version int) string {
	return filepath.Join(d.cacheDir, fmt.Sprintf("%s-v%d.dat", resource, version))
}

func (d *DataFiles) lock(ctx context.Context) (*flock.Flock, error) {
	fl := flock.New(filepath.Join(d.cacheDir, ".lock"))
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := fl.TryLockContext(lockCtx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("failed to lock filter cache: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock filter cache: %s", fl.Path())
	}
	return fl, nil
}

func (d *DataFiles) readCached(ctx context.Context, resource string, version int) ([]byte, error) {
	fl, err := d.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fl.Unlock() }()

	data, err := os.ReadFile(d.payloadPath(resource, version))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (d *DataFiles) writeCached(ctx context.Context, resource string, cfg port.DataFileConfig, data []byte, etag string) error {
	fl, err := d.lock(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	if err := os.MkdirAll(d.cacheDir, cacheDirPerm); err != nil {
		return fmt.Errorf("failed to create filter cache dir: %w", err)
	}
	path := d.payloadPath(resource, cfg.Version)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, cacheFilePerm); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	d.mu.Lock()
	d.meta[resource] = fileMeta{ETag: etag, Version: cfg.Version, URL: cfg.URL, UpdatedAt: time.Now().UTC()}
	snapshot, err := json.MarshalIndent(d.meta, "", "  ")
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal filter metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(d.cacheDir, metaFileName), snapshot, cacheFilePerm)
}

func (d *DataFiles) readMeta() error {
	data, err := os.ReadFile(filepath.Join(d.cacheDir, metaFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read filter metadata: %w", err)
	}
	if err := json.Unmarshal(data, &d.meta); err != nil {
		return fmt.Errorf("failed to parse filter metadata: %w", err)
	}
	return nil
}

// SetETag records the version marker of a locally built resource.
func (d *DataFiles) SetETag(resource, etag string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.meta[resource]
	m.ETag = etag
	d.meta[resource] = m
}

// ETag returns the version marker of the last accepted payload.
func (d *DataFiles) ETag(resource string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.meta[resource].ETag
}

// Close stops every refresh worker and waits for them to exit.
func (d *DataFiles) Close() {
	d.cancel()
	d.wg.Wait()
}
