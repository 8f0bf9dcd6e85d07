package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anthropics/blackboard/internal/blackboard"
	"github.com/anthropics/blackboard/internal/config"
	"github.com/anthropics/blackboard/internal/eventbus"
	"github.com/anthropics/blackboard/internal/gate"
)

const entriesFile = "entries.json"

// openStore loads the blackboard's persisted entries (if any) from
// dataDir/entries.json into a fresh in-memory Store and commits them,
// since bbctl is a new process per invocation and the Store types
// otherwise hold no state across runs.
func openStore() (blackboard.Store, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dataDir, err)
	}

	cfg := config.LoadConfig(dataDir)

	reg := gate.NewRegistry()
	gate.RegisterBuiltinGates(reg)
	enforcer := gate.NewEnforcer(reg)

	bus := eventbus.New()
	bus.Register(newProgressHandler(os.Stderr))

	store, err := blackboard.NewStore(cfg, enforcer, blackboard.WithEventSink(newBusSink(bus)))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	path := filepath.Join(dataDir, entriesFile)
	data, err := os.ReadFile(path) // #nosec G304 - path built from --data-dir flag
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var entries []blackboard.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(entries) == 0 {
		return store, nil
	}

	if _, err := store.ImportEntries(entries); err != nil {
		return nil, fmt.Errorf("loading persisted entries: %w", err)
	}
	store.AdvanceEpoch()

	return store, nil
}

// persistStore writes every entry, live and pending, back to
// dataDir/entries.json so the next bbctl invocation sees them (openStore
// commits them on load).
func persistStore(store blackboard.Store) error {
	entries, err := store.Query(blackboard.Query{IncludeTombstoned: true})
	if err != nil {
		return fmt.Errorf("collecting entries: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling entries: %w", err)
	}

	path := filepath.Join(dataDir, entriesFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
