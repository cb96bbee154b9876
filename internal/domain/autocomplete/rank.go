package autocomplete

import (
	"math"
	neturl "net/url"
	"slices"
	"strings"
	"time"
)

// DefaultAgeDecay is the time constant of the access-count decay.
const DefaultAgeDecay = 50 * time.Hour

var normalizePrefixes = []string{"http://", "https://", "www."}

// ShouldNormalizeLocation reports whether locations should be compared
// without scheme and www. It is false only while the input is still a
// partial spelling of one of those prefixes ("htt", "https:/", "ww").
func ShouldNormalizeLocation(input string) bool {
	for _, prefix := range normalizePrefixes {
		if len(input) <= len(prefix) && strings.HasPrefix(prefix, input) {
			return false
		}
	}
	return true
}

// NormalizeLocation strips the http(s) scheme and a leading "www.".
func NormalizeLocation(location string) string {
	location = strings.TrimPrefix(location, "http://")
	location = strings.TrimPrefix(location, "https://")
	return strings.TrimPrefix(location, "www.")
}

// IsSimpleDomain reports whether location is a bare origin: path "/" or
// empty, no query and no fragment.
func IsSimpleDomain(location string) bool {
	parsed, err := neturl.Parse(location)
	if err != nil || parsed.Host == "" {
		return false
	}
	return (parsed.Path == "" || parsed.Path == "/") &&
		parsed.RawQuery == "" && !parsed.ForceQuery &&
		parsed.Fragment == ""
}

func simpleDomainValue(location string) int {
	if IsSimpleDomain(location) {
		return 1
	}
	return 0
}

// AccessPriority is count * exp(-age/decay). A zero lastAccessed counts as
// accessed now.
func AccessPriority(count int64, lastAccessed, now time.Time, decay time.Duration) float64 {
	if count <= 0 {
		return 0
	}
	if decay <= 0 {
		decay = DefaultAgeDecay
	}
	if lastAccessed.IsZero() {
		lastAccessed = now
	}
	age := now.Sub(lastAccessed)
	return float64(count) * math.Exp(-float64(age)/float64(decay))
}

// Ranker orders candidates by match position, then bare-origin preference,
// then decayed access count.
type Ranker struct {
	query Query
	now   time.Time
	decay time.Duration
}

func NewRanker(q Query, now time.Time, decay time.Duration) Ranker {
	return Ranker{query: q, now: now, decay: decay}
}

func (r Ranker) position(location string) int {
	location = strings.ToLower(location)
	if r.query.Normalize {
		location = NormalizeLocation(location)
	}
	return strings.Index(location, r.query.MatchKey())
}

// Compare returns a negative number when a ranks before b.
func (r Ranker) Compare(a, b Candidate) int {
	pa, pb := r.position(a.Location), r.position(b.Location)
	switch {
	case pa == -1 && pb == -1:
		return 0
	case pa == -1:
		return 1
	case pb == -1:
		return -1
	case pa != pb:
		return pa - pb
	}

	if sa, sb := simpleDomainValue(a.Location), simpleDomainValue(b.Location); sa != sb {
		return sb - sa
	}

	prioA := AccessPriority(a.Count, a.LastAccessed, r.now, r.decay)
	prioB := AccessPriority(b.Count, b.LastAccessed, r.now, r.decay)
	switch {
	case prioA > prioB:
		return -1
	case prioA < prioB:
		return 1
	}
	return 0
}

// Sort orders candidates in place. Full ties keep their source order.
func (r Ranker) Sort(candidates []Candidate) {
	slices.SortStableFunc(candidates, r.Compare)
}
