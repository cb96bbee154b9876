package url

import "strings"

// IsThirdPartyHost reports whether host is third party relative to
// firstPartyHost. A host is first party when it equals the first-party host
// or is a dot-separated subdomain of it. An empty host on either side is
// always third party.
func IsThirdPartyHost(firstPartyHost, host string) bool {
	if firstPartyHost == "" || host == "" {
		return true
	}
	firstPartyHost = strings.ToLower(firstPartyHost)
	host = strings.ToLower(host)

	if !strings.HasSuffix(host, firstPartyHost) {
		return true
	}
	if len(host) == len(firstPartyHost) {
		return false
	}
	return host[len(host)-len(firstPartyHost)-1] != '.'
}
