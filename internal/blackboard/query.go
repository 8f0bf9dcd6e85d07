package blackboard

import "strings"

// Query is the predicate set accepted by Store.Query (spec §4.8).
type Query struct {
	Types              []Kind
	Authors            []string
	Parent             Hash
	HasParent          bool
	MinConfidence      float64
	MinEpoch           uint64 // accepted but not applied; see matches
	Text               string // case-insensitive substring match on Content
	IncludeTombstoned  bool
	Limit              int
}

// ByType returns a Query matching any of the given kinds.
func ByType(kinds ...Kind) Query { return Query{Types: kinds} }

// ByAuthor returns a Query matching any of the given authors.
func ByAuthor(authors ...string) Query { return Query{Authors: authors} }

// ChildrenOf returns a Query matching entries whose Parent is h.
func ChildrenOf(h Hash) Query { return Query{Parent: h, HasParent: true} }

// WithLimit returns a copy of q with Limit set.
func (q Query) WithLimit(n int) Query { q.Limit = n; return q }

// WithMinConfidence returns a copy of q with MinConfidence set.
func (q Query) WithMinConfidence(c float64) Query { q.MinConfidence = clampConfidence(c); return q }

// Query applies the predicate set to the store. Candidate selection uses
// the first applicable index (types, then authors, then parent, else a
// full scan of live ∪ pending); the result is then filtered against the
// remaining predicates and truncated to Limit. Results preserve index
// order, which is deterministic even under concurrent writes — readers
// see a consistent view of the indexes at the time they're read, not
// necessarily the most recent write.
func (s *memStore) Query(q Query) ([]Entry, error) {
	candidates := s.selectCandidates(q)

	var out []Entry
	for _, h := range candidates {
		e, ok := s.Get(h)
		if !ok {
			continue
		}
		if !matches(e, q) {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func (s *memStore) selectCandidates(q Query) []Hash {
	switch {
	case len(q.Types) > 0:
		keys := make([]string, len(q.Types))
		for i, k := range q.Types {
			keys[i] = string(k)
		}
		return s.byType.union(keys)
	case len(q.Authors) > 0:
		return s.byAuthor.union(q.Authors)
	case q.HasParent:
		return s.byParent.get(q.Parent.String())
	default:
		return s.fullScanHashes()
	}
}

func (s *memStore) fullScanHashes() []Hash {
	live := s.live.all()
	pending := s.pending.all()
	out := make([]Hash, 0, len(live)+len(pending))
	for _, e := range live {
		out = append(out, e.Hash)
	}
	for _, e := range pending {
		out = append(out, e.Hash)
	}
	return out
}

func matches(e Entry, q Query) bool {
	if !q.IncludeTombstoned && e.Tombstoned {
		return false
	}
	if len(q.Types) > 0 && !containsKind(q.Types, e.Kind) {
		return false
	}
	if len(q.Authors) > 0 && !containsString(q.Authors, e.Author) {
		return false
	}
	if q.HasParent && (!e.HasParent || e.Parent != q.Parent) {
		return false
	}
	if q.MinConfidence > 0 && e.Confidence < q.MinConfidence {
		return false
	}
	if q.Text != "" && !strings.Contains(strings.ToLower(e.Content), strings.ToLower(q.Text)) {
		return false
	}
	// q.MinEpoch is accepted but not enforced: entries do not carry an
	// individual commit epoch in this implementation (spec §9).
	return true
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, vv := range values {
		if vv == v {
			return true
		}
	}
	return false
}
