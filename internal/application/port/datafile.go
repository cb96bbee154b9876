package port

import (
	"context"
	"time"
)

// DataFileConfig describes how a filter-list resource is fetched and refreshed.
type DataFileConfig struct {
	ResourceType    string
	Enabled         bool
	RecheckInterval time.Duration
	// URL is the fully expanded download location. Empty for local-only resources.
	URL     string
	Version int
}

// DataFileHooks connect a loader to the consumer of a resource's payloads.
type DataFileHooks struct {
	// Deserialize installs a payload; an error rejects it.
	Deserialize func([]byte) error
	// OnActivate runs the first time a payload was accepted.
	OnActivate func()
	// Serialize, when set, returns the form of the accepted payload that is
	// written to the cache, so a restart skips reparsing the download.
	Serialize func() ([]byte, error)
}

// DataFileLoader fetches, caches and periodically refreshes resource payloads.
type DataFileLoader interface {
	// Configure registers (or replaces) the config of resource.
	Configure(resource string, cfg DataFileConfig)

	// Init loads the cached payload if any, schedules downloads and rechecks,
	// and hands every new payload to hooks.Deserialize. A resource whose
	// accepted payload matches cfg is not reloaded.
	Init(ctx context.Context, resource string, cfg DataFileConfig, hooks DataFileHooks) error

	// SetETag records the version marker of a resource that is built locally.
	SetETag(resource, etag string)

	// ETag returns the version marker of the last accepted payload.
	ETag(resource string) string
}
