package filtering

import (
	"time"

	"github.com/bnema/wayfinder/internal/filtering/adblock"
)

// Resource names of the built-in filter lists.
const (
	ResourceAdblock      = "adblock"
	ResourceSafeBrowsing = "safeBrowsing"

	// CustomFiltersUUID identifies the user's own rule set.
	CustomFiltersUUID = "CE61F035-9F0A-4999-9A5A-D4E46AF676F7"
)

const (
	// DefaultRecheckInterval is how often a downloaded list is refreshed.
	DefaultRecheckInterval = 24 * time.Hour
	// DefaultCustomRulesDebounce collapses bursts of custom-rule edits.
	DefaultCustomRulesDebounce = 1500 * time.Millisecond
	// DefaultDataFileURL is expanded with {uuid} and {version}.
	DefaultDataFileURL = "https://filters.wayfinder.dev/{version}/{uuid}.txt"

	regionDataFileVersion  = 2
	defaultDataFileVersion = 2
	customDataFileVersion  = 1

	// customRulesETag marks the custom list as built locally.
	customRulesETag = "."
)

// ResourceState is the lifecycle position of one filter list.
type ResourceState string

const (
	// StateRegistered means the matcher exists but holds no accepted payload yet.
	StateRegistered ResourceState = "registered"
	// StateActive means the matcher participates in request decisions.
	StateActive ResourceState = "active"
	// StateDisabled means the list is switched off by settings.
	StateDisabled ResourceState = "disabled"
)

// ResourceStatus reports one filter list for status endpoints and the CLI.
type ResourceStatus struct {
	Name            string        `json:"name"`
	Title           string        `json:"title,omitempty"`
	State           ResourceState `json:"state"`
	ETag            string        `json:"etag,omitempty"`
	Version         int           `json:"version"`
	Rules           int           `json:"rules"`
	Skipped         int           `json:"skipped"`
	ChecksMainFrame bool          `json:"checks_main_frame"`
}

// Resource types reported by the request hook.
const (
	ResourceTypeMainFrame  = "mainFrame"
	ResourceTypeSubFrame   = "subFrame"
	ResourceTypeStylesheet = "stylesheet"
	ResourceTypeScript     = "script"
	ResourceTypeImage      = "image"
	ResourceTypeObject     = "object"
	ResourceTypeXHR        = "xhr"
	ResourceTypeOther      = "other"
)

var resourceTypeOptions = map[string]adblock.FilterOption{
	ResourceTypeMainFrame:  adblock.OptionDocument,
	ResourceTypeSubFrame:   adblock.OptionSubdocument,
	ResourceTypeStylesheet: adblock.OptionStylesheet,
	ResourceTypeScript:     adblock.OptionScript,
	ResourceTypeImage:      adblock.OptionImage,
	ResourceTypeObject:     adblock.OptionObject,
	ResourceTypeXHR:        adblock.OptionXMLHTTPRequest,
	ResourceTypeOther:      adblock.OptionOther,
}

// FilterOptionFor maps a request resource type to the matcher option.
// Unknown types report false and are never blocked.
func FilterOptionFor(resourceType string) (adblock.FilterOption, bool) {
	opt, ok := resourceTypeOptions[resourceType]
	return opt, ok
}

// RequestDetails describes an outgoing request seen by the hook.
type RequestDetails struct {
	URL           string `json:"url"`
	ResourceType  string `json:"resource_type"`
	TabID         int    `json:"tab_id"`
	FirstPartyURL string `json:"first_party_url,omitempty"`
}

// Decision is the hook's verdict. ResourceName names the list that matched.
type Decision struct {
	Cancel       bool   `json:"cancel"`
	ResourceName string `json:"resource_name,omitempty"`
}
