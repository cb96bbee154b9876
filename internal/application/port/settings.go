package port

import "strings"

// Setting keys read by the navigation core.
const (
	SettingHistorySuggestions   = "urlbar.history_suggestions"
	SettingBookmarkSuggestions  = "urlbar.bookmark_suggestions"
	SettingOpenedTabSuggestions = "urlbar.opened_tab_suggestions"
	SettingOfferSuggestions     = "search.offer_suggestions"
	SettingAdblockEnabled       = "adblock.enabled"
	SettingSafeBrowsingEnabled  = "safe_browsing.enabled"
	SettingCustomRules          = "adblock.custom_rules"
	regionSettingPrefix         = "adblock.regions."
)

// RegionSettingKey returns the bool setting toggling the regional list uuid.
func RegionSettingKey(uuid string) string {
	return regionSettingPrefix + strings.ToLower(uuid)
}

// Settings provides keyed reads of user preferences.
// Implementations must be safe for concurrent use.
type Settings interface {
	// Bool returns the boolean value of key, false when unset.
	Bool(key string) bool

	// String returns the string value of key, "" when unset.
	String(key string) string
}
