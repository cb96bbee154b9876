package autocomplete

import (
	neturl "net/url"
	"slices"
	"strings"
	"time"
)

// VirtualHistory synthesizes a root candidate (scheme://host) for every host
// in history that was only ever visited on deeper paths, so a searched-for
// site like www.google.com surfaces even if its front page never was.
// Synthesized candidates have count 0, the host as title and now as
// last-accessed time.
func VirtualHistory(history []Candidate, now time.Time) []Candidate {
	type group struct {
		scheme string
		simple bool
	}

	groups := make(map[string]*group)
	var order []string

	for _, c := range history {
		parsed, err := neturl.Parse(c.Location)
		if err != nil || parsed.Host == "" {
			continue
		}
		host := strings.ToLower(parsed.Host)
		g, ok := groups[host]
		if !ok {
			g = &group{scheme: parsed.Scheme}
			groups[host] = g
			order = append(order, host)
		}
		if IsSimpleDomain(c.Location) {
			g.simple = true
		}
	}

	virtual := make([]Candidate, 0, len(order))
	for _, host := range order {
		g := groups[host]
		if g.simple {
			continue
		}
		virtual = append(virtual, Candidate{
			Title:        host,
			Location:     g.scheme + "://" + host,
			LastAccessed: now,
		})
	}
	return virtual
}

// WithVirtualHistory appends the virtual candidates of history to it,
// skipping any location already present.
func WithVirtualHistory(history []Candidate, now time.Time) []Candidate {
	seen := make(map[string]struct{}, len(history))
	for _, c := range history {
		seen[strings.ToLower(c.Location)] = struct{}{}
	}

	out := slices.Clone(history)
	for _, v := range VirtualHistory(history, now) {
		key := strings.ToLower(v.Location)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
