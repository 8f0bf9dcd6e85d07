package blackboard

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const entryShardCount = 32

// entryMap is a sharded, hash-keyed concurrent map used for both the
// pending and live entry sets. Readers take a shard read lock; writers
// (post, tombstone, deindex-on-compact) take a shard write lock — no
// single lock ever guards the whole map.
type entryMap struct {
	shards [entryShardCount]entryMapShard
}

type entryMapShard struct {
	mu sync.RWMutex
	m  map[Hash]*Entry
}

func newEntryMap() *entryMap {
	em := &entryMap{}
	for i := range em.shards {
		em.shards[i].m = make(map[Hash]*Entry)
	}
	return em
}

func (em *entryMap) shardFor(h Hash) *entryMapShard {
	return &em.shards[h[0]%entryShardCount]
}

func (em *entryMap) get(h Hash) (Entry, bool) {
	s := em.shardFor(h)
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.m[h]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (em *entryMap) has(h Hash) bool {
	s := em.shardFor(h)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.m[h]
	return ok
}

func (em *entryMap) put(e Entry) {
	s := em.shardFor(e.Hash)
	s.mu.Lock()
	cp := e
	s.m[e.Hash] = &cp
	s.mu.Unlock()
}

func (em *entryMap) delete(h Hash) {
	s := em.shardFor(h)
	s.mu.Lock()
	delete(s.m, h)
	s.mu.Unlock()
}

// tombstone flips the Tombstoned flag in place under the entry's shard
// lock. Returns false if the hash isn't present.
func (em *entryMap) tombstone(h Hash) bool {
	s := em.shardFor(h)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[h]
	if !ok {
		return false
	}
	e.Tombstoned = true
	return true
}

func (em *entryMap) len() int {
	n := 0
	for i := range em.shards {
		s := &em.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}

func (em *entryMap) all() []Entry {
	out := make([]Entry, 0, em.len())
	for i := range em.shards {
		s := &em.shards[i]
		s.mu.RLock()
		for _, e := range s.m {
			out = append(out, *e)
		}
		s.mu.RUnlock()
	}
	return out
}

func (em *entryMap) clear() {
	for i := range em.shards {
		s := &em.shards[i]
		s.mu.Lock()
		s.m = make(map[Hash]*Entry)
		s.mu.Unlock()
	}
}

// Store is the public contract implemented by each flavor (memory, simple,
// vector-backed). There is no process-wide singleton: callers construct a
// Store via NewStore(cfg) and thread it through explicitly.
type Store interface {
	Post(e Entry) (Hash, error)
	PostBatch(entries []Entry) ([]Hash, error)
	Get(h Hash) (Entry, bool)
	Query(q Query) ([]Entry, error)
	Len() int
	IsEmpty() bool
	Snapshot() (*Snapshot, error)
	CacheThumbprint() Hash
	Epoch() uint64
	AdvanceEpoch() uint64
	Tombstone(h Hash) error
	Compact() (CompactionStats, error)
	Clear()
	ExportEntries(sinceEpoch *uint64) ([]Entry, error)
	ImportEntries(entries []Entry) ([]Hash, error)
	BuildContextForTask(task, extraContext string) string
	Stats() map[string]any
	FlavorName() string
}

// PolicyHook is consulted by Post before accepting a write. A nil hook
// accepts everything. See internal/gate for the production implementation.
type PolicyHook interface {
	AllowPost(e Entry) error
}

// Lifecycle event type strings, matching internal/eventbus.EventType's
// values exactly so an EventSink adapter can convert one to the other
// without a lookup table.
const (
	EventEntryPosted     = "EntryPosted"
	EventEntryTombstoned = "EntryTombstoned"
	EventEpochAdvanced   = "EpochAdvanced"
	EventCompacted       = "Compacted"
	EventPolicyDenied    = "PolicyDenied"
)

// LifecycleEvent describes a single store lifecycle notification. Field
// meanings mirror internal/eventbus.Event, which this package does not
// import — EventSink is the producing side of that decoupling, just as
// PolicyHook is for gate.
type LifecycleEvent struct {
	Type      string
	EntryHash string
	Author    string
	Epoch     uint64
	Reason    string
}

// EventSink receives LifecycleEvent notifications for every entry post,
// tombstone, epoch advance, and compaction. A nil sink means no
// notifications are sent; see internal/eventbus for the production
// fan-out dispatcher cmd/bbctl wires in.
type EventSink interface {
	Emit(event LifecycleEvent)
}

// StoreOption configures optional NewStore behavior.
type StoreOption func(*storeOptions)

type storeOptions struct {
	sink EventSink
}

// WithEventSink attaches an EventSink that receives lifecycle
// notifications for post, tombstone, epoch-advance, and compact.
func WithEventSink(sink EventSink) StoreOption {
	return func(o *storeOptions) { o.sink = sink }
}

// memStore is the default sharded in-memory Store flavor.
type memStore struct {
	cfg Config

	pending *entryMap
	live    *entryMap

	byType   *secondaryIndex
	byAuthor *secondaryIndex
	byParent *secondaryIndex

	order *canonicalOrder
	epoch atomic.Uint64

	snapMu   sync.RWMutex
	snapshot *Snapshot

	policy PolicyHook
	sink   EventSink
}

// NewStore constructs a Store for the given configuration's Flavor.
func NewStore(cfg Config, policy PolicyHook, opts ...StoreOption) (Store, error) {
	var o storeOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch cfg.Flavor {
	case "", FlavorMemory:
		return newMemStore(cfg, policy, o.sink), nil
	case FlavorSimple:
		return newSimpleStore(cfg, policy, o.sink), nil
	case FlavorVector:
		return newVectorStore(cfg, policy, o.sink)
	default:
		return nil, fmt.Errorf("%w: unknown flavor %q", ErrStorage, cfg.Flavor)
	}
}

func newMemStore(cfg Config, policy PolicyHook, sink EventSink) *memStore {
	return &memStore{
		cfg:      cfg,
		pending:  newEntryMap(),
		live:     newEntryMap(),
		byType:   newSecondaryIndex(),
		byAuthor: newSecondaryIndex(),
		byParent: newSecondaryIndex(),
		order:    &canonicalOrder{},
		policy:   policy,
		sink:     sink,
	}
}

// emit notifies the attached EventSink, if any, of a lifecycle event. No-op
// when no sink is attached.
func (s *memStore) emit(eventType, entryHash, author string, epoch uint64, reason string) {
	if s.sink == nil {
		return
	}
	s.sink.Emit(LifecycleEvent{
		Type:      eventType,
		EntryHash: entryHash,
		Author:    author,
		Epoch:     epoch,
		Reason:    reason,
	})
}

func (s *memStore) FlavorName() string { return string(FlavorMemory) }

// Post writes e into pending. Duplicate posts (same hash already in
// pending or live) are idempotent no-ops. Entries named in e.Supersedes
// are tombstoned in live if present. Indexing and cache invalidation
// happen unconditionally on a fresh post.
func (s *memStore) Post(e Entry) (Hash, error) {
	span := startWriteSpan(s.FlavorName(), "post")
	var err error
	defer func() { endWriteSpan(span, err) }()

	if s.policy != nil {
		if perr := s.policy.AllowPost(e); perr != nil {
			s.emit(EventPolicyDenied, e.Hash.String(), e.Author, s.Epoch(), perr.Error())
			err = fmt.Errorf("%w: %v", ErrPolicyDenied, perr)
			return Hash{}, err
		}
	}

	if s.pending.has(e.Hash) || s.live.has(e.Hash) {
		return e.Hash, nil
	}

	for _, superseded := range e.Supersedes {
		if s.live.tombstone(superseded) {
			s.emit(EventEntryTombstoned, superseded.String(), e.Author, s.Epoch(), "superseded by "+e.Hash.String())
		}
	}

	s.pending.put(e)
	s.indexEntry(e)
	s.invalidateSnapshot()
	s.emit(EventEntryPosted, e.Hash.String(), e.Author, s.Epoch(), "")

	return e.Hash, nil
}

// PostBatch posts each entry in order, returning their hashes in the same
// order. It stops and returns the error from the first failing post.
func (s *memStore) PostBatch(entries []Entry) ([]Hash, error) {
	hashes := make([]Hash, 0, len(entries))
	for _, e := range entries {
		h, err := s.Post(e)
		if err != nil {
			return hashes, err
		}
		hashes = append(hashes, h)
	}
	return hashes, nil
}

func (s *memStore) indexEntry(e Entry) {
	s.byType.add(string(e.Kind), e.Hash)
	s.byAuthor.add(e.Author, e.Hash)
	if e.HasParent {
		s.byParent.add(e.Parent.String(), e.Hash)
	}
}

func (s *memStore) deindexEntry(e Entry) {
	s.byType.remove(string(e.Kind), e.Hash)
	s.byAuthor.remove(e.Author, e.Hash)
	if e.HasParent {
		s.byParent.remove(e.Parent.String(), e.Hash)
	}
}

// Get looks up a hash in live, then pending. A missing hash is a normal
// "absent" result, not an error (see spec §7 propagation policy).
func (s *memStore) Get(h Hash) (Entry, bool) {
	if e, ok := s.live.get(h); ok {
		return e, true
	}
	return s.pending.get(h)
}

func (s *memStore) Len() int {
	return s.live.len() + s.pending.len()
}

func (s *memStore) IsEmpty() bool {
	return s.Len() == 0
}

func (s *memStore) Epoch() uint64 {
	return s.epoch.Load()
}

// AdvanceEpoch promotes every pending entry into live, in ascending
// hash-byte order (the documented deterministic tie-break), appends the
// promoted hashes to canonical order, clears pending, invalidates the
// memoized snapshot, and returns the new epoch.
func (s *memStore) AdvanceEpoch() uint64 {
	span := startWriteSpan(s.FlavorName(), "advance_epoch")
	defer endWriteSpan(span, nil)

	promoted := s.pending.all()
	hashes := make([]Hash, len(promoted))
	for i, e := range promoted {
		s.live.put(e)
		hashes[i] = e.Hash
	}
	s.order.appendSorted(hashes)
	s.pending.clear()
	s.invalidateSnapshot()
	epoch := s.epoch.Add(1)
	s.emit(EventEpochAdvanced, "", "", epoch, "")
	return epoch
}

// Tombstone marks a live or pending entry as tombstoned. Returns
// ErrNotFound if the hash is present in neither.
func (s *memStore) Tombstone(h Hash) error {
	if s.live.tombstone(h) {
		s.invalidateSnapshot()
		s.emit(EventEntryTombstoned, h.String(), "", s.Epoch(), "")
		return nil
	}
	if s.pending.tombstone(h) {
		s.invalidateSnapshot()
		s.emit(EventEntryTombstoned, h.String(), "", s.Epoch(), "")
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, h)
}

func (s *memStore) Clear() {
	s.live.clear()
	s.pending.clear()
	s.byType = newSecondaryIndex()
	s.byAuthor = newSecondaryIndex()
	s.byParent = newSecondaryIndex()
	s.order.clear()
	s.epoch.Store(0)
	s.invalidateSnapshot()
}

func (s *memStore) invalidateSnapshot() {
	s.snapMu.Lock()
	s.snapshot = nil
	s.snapMu.Unlock()
}

// ExportEntries returns a deduplicated set of live entries for A2A sync.
// sinceEpoch is accepted for interface compatibility but, per spec §9's
// documented Open Question, entries do not carry an individual commit
// epoch in this implementation, so the predicate is advisory and ignored.
func (s *memStore) ExportEntries(sinceEpoch *uint64) ([]Entry, error) {
	_ = sinceEpoch
	return s.live.all(), nil
}

// ImportEntries validates each entry's hash against its own content before
// accepting it (a mismatch is a Serialization error, with no partial state
// change for that entry), deduplicates against existing hashes, and adds
// novel entries to pending so they participate in the next epoch advance.
func (s *memStore) ImportEntries(entries []Entry) ([]Hash, error) {
	var imported []Hash
	for _, e := range entries {
		want := computeEntryHash(e.Author, e.Content, e.Parent, e.HasParent)
		if want != e.Hash {
			return imported, fmt.Errorf("%w: entry %s re-hashes to %s", ErrSerialization, e.Hash, want)
		}
		if s.pending.has(e.Hash) || s.live.has(e.Hash) {
			continue
		}
		s.pending.put(e)
		s.indexEntry(e)
		imported = append(imported, e.Hash)
	}
	if len(imported) > 0 {
		s.invalidateSnapshot()
	}
	return imported, nil
}

// SyncDirection selects which way SyncWith moves entries between two
// stores.
type SyncDirection int

const (
	// SyncPush copies local's live entries into peer.
	SyncPush SyncDirection = iota
	// SyncPull copies peer's live entries into local.
	SyncPull
	// SyncBoth does both, local-to-peer first.
	SyncBoth
)

// SyncWith moves entries between two stores by composing ExportEntries and
// ImportEntries in the given direction. It is a convenience over those two
// operations, not a separate protocol: the peer store accepts or rejects
// each entry exactly as ImportEntries always does (hash revalidation,
// dedup against existing hashes), and an import failure aborts the whole
// call without rolling back entries already imported in an earlier leg.
func SyncWith(local, peer Store, dir SyncDirection) error {
	if dir == SyncPush || dir == SyncBoth {
		entries, err := local.ExportEntries(nil)
		if err != nil {
			return fmt.Errorf("exporting from local: %w", err)
		}
		if _, err := peer.ImportEntries(entries); err != nil {
			return fmt.Errorf("importing into peer: %w", err)
		}
	}
	if dir == SyncPull || dir == SyncBoth {
		entries, err := peer.ExportEntries(nil)
		if err != nil {
			return fmt.Errorf("exporting from peer: %w", err)
		}
		if _, err := local.ImportEntries(entries); err != nil {
			return fmt.Errorf("importing into local: %w", err)
		}
	}
	return nil
}

// BuildContextForTask renders the current snapshot as prompt text. Per
// spec §6 this operation never fails — any internal error yields an empty
// string rather than propagating.
func (s *memStore) BuildContextForTask(task, extraContext string) string {
	snap, err := s.Snapshot()
	if err != nil {
		return ""
	}
	return snap.Rendered
}

func (s *memStore) Stats() map[string]any {
	return map[string]any{
		"flavor":  s.FlavorName(),
		"entries": s.Len(),
		"live":    s.live.len(),
		"pending": s.pending.len(),
		"epoch":   s.Epoch(),
	}
}

// stmTTL returns the configured Stm-tier default TTL, used by expiry
// checks throughout snapshot construction and compaction.
func (s *memStore) stmTTL() time.Duration {
	return s.cfg.StmTTL
}
