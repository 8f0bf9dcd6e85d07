package blackboard

import (
	"os"
	"strconv"
	"time"
)

// Flavor selects which Store implementation a factory constructs.
type Flavor string

const (
	// FlavorMemory is the default sharded in-memory store.
	FlavorMemory Flavor = "memory"
	// FlavorSimple is the unindexed linear-scan store, suited to tests
	// and small single-agent workloads.
	FlavorSimple Flavor = "simple"
	// FlavorVector delegates semantic queries to an optional VectorBackend
	// while keeping the in-memory store as the backing source of truth.
	FlavorVector Flavor = "vector"
)

// Config configures a Store at construction time. There is no process-wide
// singleton selection: callers build a Config and thread it through
// explicitly to NewStore.
type Config struct {
	Flavor Flavor

	// PruneExpired selects between tombstone-only removal (false, the
	// default — preserves the hash chain) and physical removal (true) of
	// tombstoned/expired entries during compaction.
	PruneExpired bool

	// SeparateDB, when the vector flavor is used, controls whether the
	// vector backend uses its own persistent store vs. sharing one with
	// other blackboard instances in the process. It has no effect on the
	// memory/simple flavors.
	SeparateDB bool

	// VectorStorePath is the local directory a VectorBackend implementation
	// may use for persistence.
	VectorStorePath string

	// VectorStoreRemote is an optional remote backup URI a VectorBackend
	// implementation may use.
	VectorStoreRemote string

	// MaxEntries is the capacity enforced by Compact: once |live| exceeds
	// this, the oldest entries (by canonical order) are evicted first.
	MaxEntries int

	// StmTTL is the default time-to-live for Stm-tier entries that don't
	// set their own TTL. Zero means no expiry.
	StmTTL time.Duration
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		Flavor:            FlavorMemory,
		PruneExpired:      false,
		SeparateDB:        true,
		VectorStorePath:   "./blackboard_data",
		VectorStoreRemote: "",
		MaxEntries:        10_000,
		StmTTL:            time.Hour,
	}
}

// ConfigFromEnv builds a Config from DefaultConfig overridden by the
// environment variables documented in the external-interfaces table:
// BLACKBOARD_FLAVOR, BLACKBOARD_PRUNE_EXPIRED, BLACKBOARD_SEPARATE_DB,
// BLACKBOARD_VECTOR_STORE_PATH, BLACKBOARD_VECTOR_STORE_REMOTE,
// BLACKBOARD_MAX_ENTRIES, BLACKBOARD_STM_TTL_SECONDS.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BLACKBOARD_FLAVOR"); v != "" {
		cfg.Flavor = Flavor(v)
	}
	if v, ok := parseBool("BLACKBOARD_PRUNE_EXPIRED"); ok {
		cfg.PruneExpired = v
	}
	if v, ok := parseBool("BLACKBOARD_SEPARATE_DB"); ok {
		cfg.SeparateDB = v
	}
	if v := os.Getenv("BLACKBOARD_VECTOR_STORE_PATH"); v != "" {
		cfg.VectorStorePath = v
	}
	if v := os.Getenv("BLACKBOARD_VECTOR_STORE_REMOTE"); v != "" {
		cfg.VectorStoreRemote = v
	}
	if v := os.Getenv("BLACKBOARD_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxEntries = n
		}
	}
	if v := os.Getenv("BLACKBOARD_STM_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.StmTTL = time.Duration(n) * time.Second
		}
	}

	return cfg
}

func parseBool(envVar string) (value bool, ok bool) {
	raw := os.Getenv(envVar)
	if raw == "" {
		return false, false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return b, true
}
