package adblock

import (
	"fmt"
	"regexp"
	"strings"
)

// separatorClass is what "^" stands for: any character that cannot be part
// of a host or path segment, or the end of the address.
const separatorClass = `(?:[^a-zA-Z0-9_.%-]|$)`

type partyMatch int8

const (
	anyParty partyMatch = iota
	thirdPartyOnly
	firstPartyOnly
)

// Rule is one parsed network filter.
type Rule struct {
	Raw       string
	Exception bool

	// host is the anchor host of "||host^" rules, used to index the rule.
	host string

	re         *regexp.Regexp
	matchCase  bool
	types      FilterOption
	notTypes   FilterOption
	party      partyMatch
	domains    []string
	notDomains []string
}

// ParseRule parses a single Adblock Plus network filter line.
func ParseRule(line string) (*Rule, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "!") ||
		(strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")) {
		return nil, ErrEmptyRule
	}
	if strings.Contains(line, "##") || strings.Contains(line, "#@#") || strings.Contains(line, "#?#") {
		return nil, ErrCosmeticRule
	}

	r := &Rule{Raw: line}
	body := line
	if rest, ok := strings.CutPrefix(body, "@@"); ok {
		r.Exception = true
		body = rest
	}

	pattern := body
	// a trailing /regex/ may itself contain "$"
	if idx := strings.LastIndex(body, "$"); idx != -1 && !isRegexLiteral(body) {
		pattern = body[:idx]
		if err := r.parseOptions(body[idx+1:]); err != nil {
			return nil, fmt.Errorf("%q: %w", line, err)
		}
	}

	if strings.TrimSpace(pattern) == "" {
		pattern = "*"
	}
	if err := r.compile(pattern); err != nil {
		return nil, fmt.Errorf("%q: %w", line, err)
	}
	return r, nil
}

func isRegexLiteral(s string) bool {
	return len(s) > 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/")
}

func (r *Rule) parseOptions(raw string) error {
	for _, opt := range strings.Split(raw, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		negated := strings.HasPrefix(opt, "~")
		name := strings.TrimPrefix(opt, "~")

		switch {
		case name == "third-party" || name == "3p":
			if negated {
				r.party = firstPartyOnly
			} else {
				r.party = thirdPartyOnly
			}
		case name == "first-party" || name == "1p":
			if negated {
				r.party = thirdPartyOnly
			} else {
				r.party = firstPartyOnly
			}
		case name == "match-case":
			r.matchCase = true
		case strings.HasPrefix(name, "domain="):
			if negated {
				return ErrUnsupportedOption
			}
			for _, d := range strings.Split(name[len("domain="):], "|") {
				d = strings.ToLower(strings.TrimSpace(d))
				if rest, ok := strings.CutPrefix(d, "~"); ok {
					r.notDomains = append(r.notDomains, rest)
				} else if d != "" {
					r.domains = append(r.domains, d)
				}
			}
		default:
			flag, ok := ParseOption(name)
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnsupportedOption, name)
			}
			if negated {
				r.notTypes |= flag
			} else {
				r.types |= flag
			}
		}
	}
	return nil
}

func (r *Rule) compile(pattern string) error {
	var expr string
	if isRegexLiteral(pattern) {
		expr = pattern[1 : len(pattern)-1]
	} else {
		expr = r.translate(pattern)
	}
	if !r.matchCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	r.re = re
	return nil
}

// translate turns the ABP wildcard syntax into a regular expression.
func (r *Rule) translate(pattern string) string {
	domainAnchor := strings.HasPrefix(pattern, "||")
	startAnchor := !domainAnchor && strings.HasPrefix(pattern, "|")
	endAnchor := strings.HasSuffix(pattern, "|") && len(pattern) > 1 && !strings.HasSuffix(pattern, "||")

	switch {
	case domainAnchor:
		pattern = pattern[2:]
		r.host = anchorHost(pattern)
	case startAnchor:
		pattern = pattern[1:]
	}
	if endAnchor {
		pattern = pattern[:len(pattern)-1]
	}

	expr := regexp.QuoteMeta(pattern)
	expr = strings.ReplaceAll(expr, `\*`, ".*")
	expr = strings.ReplaceAll(expr, `\^`, separatorClass)

	switch {
	case domainAnchor:
		expr = `^[a-z][a-z0-9+.-]*://([^/?#]*\.)?` + expr
	case startAnchor:
		expr = "^" + expr
	}
	if endAnchor {
		expr += "$"
	}
	return expr
}

// anchorHost returns the literal host a "||" pattern starts with when the
// host is complete, e.g. "ads.example.com" for "||ads.example.com^$script".
func anchorHost(pattern string) string {
	end := strings.IndexAny(pattern, "^/|*?:")
	host := pattern
	if end >= 0 {
		if pattern[end] == '*' {
			return ""
		}
		host = pattern[:end]
	}
	host = strings.ToLower(host)
	if host == "" || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return ""
	}
	for _, c := range host {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '.' || c == '-') {
			return ""
		}
	}
	return host
}

// Host returns the indexed anchor host, or "" for generic rules.
func (r *Rule) Host() string {
	return r.host
}

func (r *Rule) matches(req *request) bool {
	if r.types != 0 && r.types&req.option == 0 {
		return false
	}
	if r.notTypes&req.option != 0 {
		return false
	}
	switch r.party {
	case thirdPartyOnly:
		if !req.thirdParty {
			return false
		}
	case firstPartyOnly:
		if req.thirdParty {
			return false
		}
	}
	if len(r.domains) > 0 && !domainListMatches(r.domains, req.firstPartyHost) {
		return false
	}
	if len(r.notDomains) > 0 && domainListMatches(r.notDomains, req.firstPartyHost) {
		return false
	}
	return r.re.MatchString(req.url)
}

func domainListMatches(domains []string, host string) bool {
	if host == "" {
		return false
	}
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
