package autocomplete

import "strings"

// Pool is one candidate source with its pipeline settings.
type Pool struct {
	Type       SuggestionType
	Candidates []Candidate
	Max        int
	Filter     Filter
	// Ranked pools are ordered by the Ranker; others keep source order.
	Ranked bool
	// Action maps a kept candidate to its activation. Defaults to Navigate.
	Action func(Candidate) Action
}

// Aggregator runs pools in the order they are added and concatenates their
// output. A location taken by an earlier pool is not offered again, except
// by the tab pool.
type Aggregator struct {
	ranker Ranker
	seen   map[string]struct{}
	out    []Suggestion
}

func NewAggregator(ranker Ranker) *Aggregator {
	return &Aggregator{
		ranker: ranker,
		seen:   make(map[string]struct{}),
	}
}

// Add runs one pool through filter, cross-pool dedup, ordering and
// truncation, and returns what it contributed.
func (a *Aggregator) Add(p Pool) []Suggestion {
	if p.Max <= 0 {
		return nil
	}
	tab := p.Type == TypeTab

	kept := make([]Candidate, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		if p.Filter != nil && !p.Filter(c) {
			continue
		}
		if !tab && a.taken(c.Location) {
			continue
		}
		kept = append(kept, c)
	}

	if p.Ranked {
		a.ranker.Sort(kept)
	}

	added := make([]Suggestion, 0, min(len(kept), p.Max))
	local := make(map[string]struct{}, len(kept))
	for _, c := range kept {
		if len(added) == p.Max {
			break
		}
		key := strings.ToLower(c.Location)
		if !tab {
			if _, dup := local[key]; dup {
				continue
			}
			local[key] = struct{}{}
		}

		action := Navigate(c.Location)
		if p.Action != nil {
			action = p.Action(c)
		}
		added = append(added, Suggestion{
			Title:    c.Title,
			Location: c.Location,
			Type:     p.Type,
			Action:   action,
		})
	}

	for _, s := range added {
		a.seen[strings.ToLower(s.Location)] = struct{}{}
	}
	a.out = append(a.out, added...)
	return added
}

func (a *Aggregator) taken(location string) bool {
	_, ok := a.seen[strings.ToLower(location)]
	return ok
}

// Suggestions returns everything added so far, in pool order.
func (a *Aggregator) Suggestions() []Suggestion {
	return a.out
}
