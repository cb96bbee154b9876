package filtering

import "strings"

var allowlistedHosts = map[string]struct{}{
	"disqus.com":      {},
	"a.disquscdn.com": {},
}

// isAllowlisted reports hosts that are never blocked because embedding
// sites break without them.
func isAllowlisted(host string) bool {
	host = strings.ToLower(host)
	if _, ok := allowlistedHosts[host]; ok {
		return true
	}
	return strings.HasSuffix(host, ".disqus.com")
}
