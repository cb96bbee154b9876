// Package adblock is a compact Adblock Plus network-filter matcher. Rules
// anchored on a host ("||host^") are indexed in a trie keyed by reversed host
// labels so a lookup only visits rules for the request host and its parents.
package adblock

import (
	"errors"
	neturl "net/url"
	"strings"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"

	wurl "github.com/bnema/wayfinder/internal/domain/url"
)

// ParseResult reports how many lines became rules and how many were rejected.
// Blank lines and comments count as neither.
type ParseResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

type ruleSet struct {
	byHost  *patricia.Trie
	generic []*Rule
}

func newRuleSet() ruleSet {
	return ruleSet{byHost: patricia.NewTrie()}
}

func (s *ruleSet) add(r *Rule) {
	if r.host == "" {
		s.generic = append(s.generic, r)
		return
	}
	key := patricia.Prefix(hostKey(r.host))
	if item := s.byHost.Get(key); item != nil {
		s.byHost.Set(key, append(item.([]*Rule), r))
		return
	}
	s.byHost.Insert(key, []*Rule{r})
}

var errStop = errors.New("stop")

func (s *ruleSet) match(req *request) *Rule {
	var found *Rule
	if req.hostKey != "" {
		_ = s.byHost.VisitPrefixes(patricia.Prefix(req.hostKey), func(_ patricia.Prefix, item patricia.Item) error {
			for _, r := range item.([]*Rule) {
				if r.matches(req) {
					found = r
					return errStop
				}
			}
			return nil
		})
		if found != nil {
			return found
		}
	}
	for _, r := range s.generic {
		if r.matches(req) {
			return r
		}
	}
	return nil
}

// hostKey reverses the labels of host and terminates every label with a
// dot: "ads.example.com" becomes "com.example.ads.". A rule key is then a
// prefix of a request key exactly when the rule host is the request host or
// one of its parents.
func hostKey(host string) string {
	labels := strings.Split(strings.ToLower(host), ".")
	var b strings.Builder
	b.Grow(len(host) + 1)
	for i := len(labels) - 1; i >= 0; i-- {
		if labels[i] == "" {
			continue
		}
		b.WriteString(labels[i])
		b.WriteByte('.')
	}
	return b.String()
}

type request struct {
	url            string
	hostKey        string
	option         FilterOption
	thirdParty     bool
	firstPartyHost string
}

// Client holds the block and exception rules of one filter list.
// It is safe for concurrent use.
type Client struct {
	mu         sync.RWMutex
	blocks     ruleSet
	exceptions ruleSet
	raw        []string
	skipped    int
}

// New creates an empty matcher.
func New() *Client {
	return &Client{
		blocks:     newRuleSet(),
		exceptions: newRuleSet(),
	}
}

// AddRule parses and inserts one filter line.
func (c *Client) AddRule(line string) error {
	r, err := ParseRule(line)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.insertLocked(r)
	return nil
}

func (c *Client) insertLocked(r *Rule) {
	if r.Exception {
		c.exceptions.add(r)
	} else {
		c.blocks.add(r)
	}
	c.raw = append(c.raw, r.Raw)
}

// Parse adds every rule of a filter-list text. Invalid lines are counted
// and skipped.
func (c *Client) Parse(text string) ParseResult {
	parsed, res := parseLines(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range parsed {
		c.insertLocked(r)
	}
	c.skipped += res.Skipped
	return res
}

// Replace swaps the current rules for those of text in one step: matches
// running concurrently see either the old rules or the new ones, never an
// empty matcher.
func (c *Client) Replace(text string) ParseResult {
	parsed, res := parseLines(text)
	c.replace(parsed, res.Skipped)
	return res
}

func parseLines(text string) ([]*Rule, ParseResult) {
	var res ParseResult
	var parsed []*Rule
	for _, line := range strings.Split(text, "\n") {
		r, err := ParseRule(line)
		switch {
		case err == nil:
			parsed = append(parsed, r)
			res.Added++
		case errors.Is(err, ErrEmptyRule):
		default:
			res.Skipped++
		}
	}
	return parsed, res
}

// replace indexes rules off-lock and installs them under a single write lock.
func (c *Client) replace(rules []*Rule, skipped int) {
	blocks, exceptions := newRuleSet(), newRuleSet()
	raw := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Exception {
			exceptions.add(r)
		} else {
			blocks.add(r)
		}
		raw = append(raw, r.Raw)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = blocks
	c.exceptions = exceptions
	c.raw = raw
	c.skipped = skipped
}

// RuleCount returns the number of accepted rules.
func (c *Client) RuleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.raw)
}

// Skipped returns how many lines were rejected since the last Replace or Load.
func (c *Client) Skipped() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.skipped
}

// Matches reports whether rawURL, loaded as a resource of kind opt by a
// page on firstPartyHost, is blocked: some block rule matches and no
// exception rule does.
func (c *Client) Matches(rawURL string, opt FilterOption, firstPartyHost string) bool {
	parsed, err := neturl.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	firstPartyHost = strings.ToLower(firstPartyHost)

	req := &request{
		url:            rawURL,
		hostKey:        hostKey(host),
		option:         opt,
		thirdParty:     wurl.IsThirdPartyHost(firstPartyHost, host),
		firstPartyHost: firstPartyHost,
	}
	if host == "" {
		req.hostKey = ""
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.blocks.match(req) == nil {
		return false
	}
	return c.exceptions.match(req) == nil
}
