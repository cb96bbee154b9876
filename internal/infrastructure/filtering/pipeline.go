package filtering

import (
	"context"
	neturl "net/url"

	"github.com/rs/zerolog"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/domain/url"
	"github.com/bnema/wayfinder/internal/logging"
)

// Pipeline is the single request hook consulting every active resource.
type Pipeline struct {
	manager *Manager
	frames  port.MainFrameResolver
	log     zerolog.Logger
}

// NewPipeline creates the request hook. frames may be nil, in which case
// sub-resource requests must carry their first-party URL.
func NewPipeline(ctx context.Context, manager *Manager, frames port.MainFrameResolver) *Pipeline {
	return &Pipeline{
		manager: manager,
		frames:  frames,
		log:     logging.FromContext(ctx).With().Str("component", "filter-pipeline").Logger(),
	}
}

// Evaluate decides whether a request is cancelled. Resources are consulted
// in activation order and the first match wins.
func (p *Pipeline) Evaluate(details RequestDetails) Decision {
	firstPartyURL, ok := p.firstPartyURL(details)
	if !ok || !url.IsHTTP(firstPartyURL) {
		return Decision{}
	}

	firstParty, err := neturl.Parse(firstPartyURL)
	if err != nil {
		return Decision{}
	}
	firstPartyHost := firstParty.Hostname()
	host := url.Hostname(details.URL)

	opt, mapped := FilterOptionFor(details.ResourceType)
	if !mapped || isAllowlisted(host) {
		return Decision{}
	}
	thirdParty := details.ResourceType != ResourceTypeMainFrame &&
		url.IsThirdPartyHost(firstPartyHost, host)

	for _, res := range p.manager.activeResources() {
		if !res.checksMainFrame && !thirdParty {
			continue
		}
		if res.client.Matches(details.URL, opt, firstPartyHost) {
			p.log.Debug().
				Str("url", logging.TruncateURL(details.URL, 120)).
				Str("resource", res.name).
				Str("type", details.ResourceType).
				Msg("request blocked")
			return Decision{Cancel: true, ResourceName: res.name}
		}
	}
	return Decision{}
}

// firstPartyURL resolves the page a request belongs to: the explicit value,
// the request itself for main-frame loads, or the tab's main frame.
func (p *Pipeline) firstPartyURL(details RequestDetails) (string, bool) {
	if details.FirstPartyURL != "" {
		return details.FirstPartyURL, true
	}
	if details.ResourceType == ResourceTypeMainFrame {
		return details.URL, details.URL != ""
	}
	if p.frames == nil {
		return "", false
	}
	return p.frames.MainFrameURL(details.TabID)
}
