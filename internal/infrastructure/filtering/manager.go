package filtering

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/filtering/adblock"
	"github.com/bnema/wayfinder/internal/logging"
	"github.com/bnema/wayfinder/internal/mainloop"
)

var (
	// ErrNoLoader is returned when a Manager is built without a data-file loader.
	ErrNoLoader = errors.New("filtering: data file loader is required")
	// ErrUnknownResource is returned for lookups of unregistered resources.
	ErrUnknownResource = errors.New("filtering: unknown resource")
)

// ManagerConfig holds configuration for the filter manager.
type ManagerConfig struct {
	Loader   port.DataFileLoader
	Settings port.Settings
	Regions  []entity.Region

	URLTemplate     string        // expanded with {uuid} and {version}
	RecheckInterval time.Duration // defaults to DefaultRecheckInterval
	CustomDebounce  time.Duration // defaults to DefaultCustomRulesDebounce

	// Post schedules debounced rebuilds, usually onto the main loop.
	// When nil they run on the timer goroutine.
	Post func(func())
}

type resource struct {
	name            string
	title           string
	client          *adblock.Client
	checksMainFrame bool
	version         int

	enabled bool
	loaded  bool
	active  bool
}

// Manager owns one matcher per filter-list resource and the order in which
// resources became active. The registry is only written through
// insert-if-absent, so re-registering a resource never replaces its matcher.
type Manager struct {
	loader      port.DataFileLoader
	settings    port.Settings
	regions     []entity.Region
	urlTemplate string
	recheck     time.Duration
	debouncer   *mainloop.Debouncer

	mu         sync.RWMutex
	resources  map[string]*resource
	registered []string
	order      []string

	// rebuildMu serializes custom rule rebuilds.
	rebuildMu      sync.Mutex
	customMu       sync.Mutex
	pendingCustom  string
	appliedCustom  *string
	customRebuilds atomic.Uint64
}

// NewManager creates a new filter Manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Loader == nil {
		return nil, ErrNoLoader
	}
	if cfg.URLTemplate == "" {
		cfg.URLTemplate = DefaultDataFileURL
	}
	if cfg.RecheckInterval <= 0 {
		cfg.RecheckInterval = DefaultRecheckInterval
	}
	if cfg.CustomDebounce <= 0 {
		cfg.CustomDebounce = DefaultCustomRulesDebounce
	}
	post := cfg.Post
	if post == nil {
		post = func(fn func()) { fn() }
	}

	return &Manager{
		loader:      cfg.Loader,
		settings:    cfg.Settings,
		regions:     cfg.Regions,
		urlTemplate: cfg.URLTemplate,
		recheck:     cfg.RecheckInterval,
		debouncer:   mainloop.NewDebouncer(cfg.CustomDebounce, post),
		resources:   make(map[string]*resource),
	}, nil
}

// Init registers every resource and applies the current settings to it,
// building the custom rule set right away when it changed.
// It is safe to call again whenever settings change: existing matchers are
// kept, configs are re-registered, and lists switched off are deactivated.
func (m *Manager) Init(ctx context.Context) error {
	err := m.Reconfigure(ctx)

	if m.settings != nil {
		// Read the rules under rebuildMu so a debounced rebuild finishing
		// first cannot be overwritten with an older value.
		m.rebuildMu.Lock()
		rules := m.settings.String(port.SettingCustomRules)
		m.customMu.Lock()
		changed := (m.appliedCustom == nil && rules != "") ||
			(m.appliedCustom != nil && *m.appliedCustom != rules)
		m.customMu.Unlock()
		if changed {
			m.applyCustomRules(ctx, rules)
		}
		m.rebuildMu.Unlock()
	}
	return err
}

// Reconfigure re-applies the enable settings and data-file configs of the
// downloadable resources. Custom rules are left to UpdateCustomRules.
func (m *Manager) Reconfigure(ctx context.Context) error {
	log := logging.FromContext(ctx).With().
		Str("component", "filter-manager").
		Logger()

	var errs []error
	adblockOn := m.boolSetting(port.SettingAdblockEnabled)

	if err := m.initResource(ctx, ResourceAdblock, "Default ad list", false,
		m.dataFileConfig(ResourceAdblock, ResourceAdblock, defaultDataFileVersion, adblockOn, "")); err != nil {
		errs = append(errs, err)
	}
	if err := m.initResource(ctx, ResourceSafeBrowsing, "Safe browsing", true,
		m.dataFileConfig(ResourceSafeBrowsing, ResourceSafeBrowsing, defaultDataFileVersion,
			m.boolSetting(port.SettingSafeBrowsingEnabled), "")); err != nil {
		errs = append(errs, err)
	}

	for _, region := range m.regions {
		enabled := adblockOn && m.boolSetting(port.RegionSettingKey(region.UUID))
		cfg := m.dataFileConfig(region.Key(), ResourceAdblock, regionDataFileVersion, enabled, region.URL)
		if err := m.initResource(ctx, region.Key(), region.Title, false, cfg); err != nil {
			errs = append(errs, err)
		}
	}

	log.Debug().
		Int("resources", len(m.Statuses())).
		Int("active", len(m.activeResources())).
		Msg("filter resources configured")

	return errors.Join(errs...)
}

func (m *Manager) initResource(ctx context.Context, name, title string, checksMainFrame bool, cfg port.DataFileConfig) error {
	res := m.register(name, title, checksMainFrame, cfg)

	m.mu.Lock()
	res.enabled = cfg.Enabled
	reactivate := cfg.Enabled && res.loaded && !res.active
	m.mu.Unlock()

	if !cfg.Enabled {
		m.deactivate(ctx, name)
		return nil
	}
	if reactivate {
		m.activate(ctx, name)
	}

	err := m.loader.Init(ctx, name, cfg, port.DataFileHooks{
		Deserialize: func(data []byte) error {
			result, err := res.client.Load(data)
			if err != nil {
				return err
			}
			m.mu.Lock()
			res.loaded = true
			m.mu.Unlock()
			logging.FromContext(ctx).Debug().
				Str("resource", name).
				Int("rules", result.Added).
				Int("skipped", result.Skipped).
				Msg("filter list loaded")
			return nil
		},
		OnActivate: func() { m.activate(ctx, name) },
		Serialize:  res.client.Serialize,
	})
	if err != nil {
		return fmt.Errorf("init %s: %w", name, err)
	}
	return nil
}

// register inserts the resource if absent and always re-registers its
// data-file config.
func (m *Manager) register(name, title string, checksMainFrame bool, cfg port.DataFileConfig) *resource {
	m.mu.Lock()
	res, ok := m.resources[name]
	if !ok {
		res = &resource{
			name:            name,
			title:           title,
			client:          adblock.New(),
			checksMainFrame: checksMainFrame,
		}
		m.resources[name] = res
		m.registered = append(m.registered, name)
	}
	res.version = cfg.Version
	m.mu.Unlock()

	m.loader.Configure(name, cfg)
	return res
}

func (m *Manager) dataFileConfig(id, resourceType string, version int, enabled bool, url string) port.DataFileConfig {
	if url == "" {
		url = ExpandURL(m.urlTemplate, id, version)
	}
	return port.DataFileConfig{
		ResourceType:    resourceType,
		Enabled:         enabled,
		RecheckInterval: m.recheck,
		URL:             url,
		Version:         version,
	}
}

// ExpandURL fills the {uuid} and {version} placeholders of a data-file URL template.
func ExpandURL(template, id string, version int) string {
	return strings.NewReplacer("{uuid}", id, "{version}", strconv.Itoa(version)).Replace(template)
}

func (m *Manager) boolSetting(key string) bool {
	return m.settings != nil && m.settings.Bool(key)
}

func (m *Manager) activate(ctx context.Context, name string) {
	m.mu.Lock()
	res, ok := m.resources[name]
	if !ok || res.active || !res.enabled {
		m.mu.Unlock()
		return
	}
	res.active = true
	res.loaded = true
	m.order = append(m.order, name)
	m.mu.Unlock()

	logging.FromContext(ctx).Info().
		Str("component", "filter-manager").
		Str("resource", name).
		Int("rules", res.client.RuleCount()).
		Msg("filter resource active")
}

func (m *Manager) deactivate(ctx context.Context, name string) {
	m.mu.Lock()
	res, ok := m.resources[name]
	if !ok || !res.active {
		m.mu.Unlock()
		return
	}
	res.active = false
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	m.mu.Unlock()

	logging.FromContext(ctx).Info().
		Str("component", "filter-manager").
		Str("resource", name).
		Msg("filter resource disabled")
}

// UpdateCustomRules schedules a rebuild of the custom rule set. Calls within
// the debounce window collapse into one rebuild using the latest rules.
func (m *Manager) UpdateCustomRules(ctx context.Context, rules string) {
	m.customMu.Lock()
	m.pendingCustom = rules
	m.customMu.Unlock()

	m.debouncer.Trigger(func() {
		m.customMu.Lock()
		latest := m.pendingCustom
		m.customMu.Unlock()
		m.ApplyCustomRulesNow(ctx, latest)
	})
}

// ApplyCustomRulesNow replaces the custom matcher's rules with rules.
// The first build registers and activates the resource.
func (m *Manager) ApplyCustomRulesNow(ctx context.Context, rules string) adblock.ParseResult {
	m.rebuildMu.Lock()
	defer m.rebuildMu.Unlock()
	return m.applyCustomRules(ctx, rules)
}

func (m *Manager) applyCustomRules(ctx context.Context, rules string) adblock.ParseResult {
	res := m.register(CustomFiltersUUID, "Custom filters", false, port.DataFileConfig{
		ResourceType:    ResourceAdblock,
		Enabled:         true,
		RecheckInterval: m.recheck,
		Version:         customDataFileVersion,
	})

	result := res.client.Replace(rules)
	m.loader.SetETag(CustomFiltersUUID, customRulesETag)

	m.mu.Lock()
	res.enabled = true
	m.mu.Unlock()
	m.activate(ctx, CustomFiltersUUID)

	m.customMu.Lock()
	applied := rules
	m.appliedCustom = &applied
	m.customMu.Unlock()
	m.customRebuilds.Add(1)

	logging.FromContext(ctx).Info().
		Str("component", "filter-manager").
		Int("rules", result.Added).
		Int("skipped", result.Skipped).
		Msg("custom filter rules rebuilt")
	return result
}

// CustomRebuilds returns how many times the custom rule set was rebuilt.
func (m *Manager) CustomRebuilds() uint64 {
	return m.customRebuilds.Load()
}

// CustomRulesPending reports whether a debounced rebuild is waiting.
func (m *Manager) CustomRulesPending() bool {
	return m.debouncer.Pending()
}

// Matcher looks up the matcher of a registered resource.
func (m *Manager) Matcher(name string) (*adblock.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	return res.client, nil
}

type activeResource struct {
	name            string
	client          *adblock.Client
	checksMainFrame bool
}

// activeResources snapshots the active resources in activation order.
func (m *Manager) activeResources() []activeResource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]activeResource, 0, len(m.order))
	for _, name := range m.order {
		res := m.resources[name]
		out = append(out, activeResource{
			name:            name,
			client:          res.client,
			checksMainFrame: res.checksMainFrame,
		})
	}
	return out
}

// Statuses reports every registered resource in registration order.
func (m *Manager) Statuses() []ResourceStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ResourceStatus, 0, len(m.registered))
	for _, name := range m.registered {
		res := m.resources[name]
		state := StateRegistered
		switch {
		case !res.enabled:
			state = StateDisabled
		case res.active:
			state = StateActive
		}
		out = append(out, ResourceStatus{
			Name:            name,
			Title:           res.title,
			State:           state,
			ETag:            m.loader.ETag(name),
			Version:         res.version,
			Rules:           res.client.RuleCount(),
			Skipped:         res.client.Skipped(),
			ChecksMainFrame: res.checksMainFrame,
		})
	}
	return out
}

// Close cancels a pending custom-rule rebuild.
func (m *Manager) Close() {
	m.debouncer.Stop()
}
