package blackboard

import "context"

// VectorBackend is the interface a semantic-search delegate must satisfy
// to back the FlavorVector store variant. This package ships no concrete
// implementation: the spec treats the vector-backed store as an
// interface-level Non-goal, and no vector-database client exists in the
// dependency set this module is grounded on. A caller wishing to enable
// semantic queries implements this interface against whatever vector
// store they have available and attaches it to a FlavorVector store
// with WithBackend.
type VectorBackend interface {
	// Upsert indexes an entry's content under its hash for later
	// similarity search.
	Upsert(ctx context.Context, e Entry) error

	// Delete removes an entry's vector by hash.
	Delete(ctx context.Context, h Hash) error

	// SimilaritySearch returns the hashes of the k entries whose indexed
	// content is most similar to query, most similar first. Behavior when
	// embeddings disagree with a parallel substring-based Query result is
	// left to the implementation (spec §9 Open Question 3).
	SimilaritySearch(ctx context.Context, query string, k int) ([]Hash, error)

	// Close releases any resources held by the backend.
	Close() error
}

// vectorStore wraps a memStore as the authoritative source of truth and
// optionally delegates semantic queries to a VectorBackend. If no backend
// is supplied, it behaves exactly like the memory flavor.
type vectorStore struct {
	*memStore
	backend VectorBackend
}

func newVectorStore(cfg Config, policy PolicyHook, sink EventSink) (Store, error) {
	return &vectorStore{memStore: newMemStore(cfg, policy, sink)}, nil
}

func (v *vectorStore) FlavorName() string { return string(FlavorVector) }

// Post writes through to memStore and, if a backend is attached, upserts
// the entry into it best-effort: indexing failures there never fail the
// write, mirroring how the live store stays authoritative even when the
// backend lags or errors (see lance.rs's fallback-on-unavailable pattern).
func (v *vectorStore) Post(e Entry) (Hash, error) {
	h, err := v.memStore.Post(e)
	if err != nil {
		return h, err
	}
	if v.backend != nil {
		_ = v.backend.Upsert(context.Background(), e)
	}
	return h, nil
}

// WithBackend attaches a VectorBackend to an existing vector-flavored
// store, keeping every write path flowing through memStore so the
// backend never becomes the sole source of truth.
func WithBackend(s Store, backend VectorBackend) (Store, error) {
	vs, ok := s.(*vectorStore)
	if !ok {
		return nil, ErrVectorBackend
	}
	vs.backend = backend
	return vs, nil
}

// SimilarityQuery runs a semantic search through the attached backend and
// resolves the returned hashes against the store. Returns ErrVectorBackend
// if no backend is attached.
func (v *vectorStore) SimilarityQuery(ctx context.Context, query string, k int) ([]Entry, error) {
	if v.backend == nil {
		return nil, ErrVectorBackend
	}
	hashes, err := v.backend.SimilaritySearch(ctx, query, k)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(hashes))
	for _, h := range hashes {
		if e, ok := v.Get(h); ok {
			out = append(out, e)
		}
	}
	return out, nil
}
