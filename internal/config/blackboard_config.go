// Package config loads blackboard.Config from a YAML file layered with
// environment variable overrides, and can watch that file for changes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/anthropics/blackboard/internal/blackboard"
)

// fileConfig is the YAML shape of config.yaml. Field names mirror
// blackboard.Config but as strings/native YAML types, since durations
// and flavors need custom parsing.
type fileConfig struct {
	Flavor            string `yaml:"flavor"`
	PruneExpired      bool   `yaml:"prune-expired"`
	SeparateDB        bool   `yaml:"separate-db"`
	VectorStorePath   string `yaml:"vector-store-path"`
	VectorStoreRemote string `yaml:"vector-store-remote"`
	MaxEntries        int    `yaml:"max-entries"`
	StmTTLSeconds     int    `yaml:"stm-ttl-seconds"`
}

// LoadConfig reads config.yaml from dir, applies environment variable
// overrides via blackboard.ConfigFromEnv's precedence, and returns a
// ready-to-use blackboard.Config. Returns blackboard.DefaultConfig()
// (with env overrides applied) if the file doesn't exist or fails to
// parse.
func LoadConfig(dir string) blackboard.Config {
	cfg := blackboard.DefaultConfig()

	path := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(path) // #nosec G304 - path built from caller-controlled dir
	if err == nil {
		var fc fileConfig
		if yaml.Unmarshal(data, &fc) == nil {
			applyFileConfig(&cfg, fc)
		}
	}

	// Environment variables take precedence over the file, matching
	// blackboard.ConfigFromEnv's own precedence over DefaultConfig.
	return mergeEnv(cfg)
}

func applyFileConfig(cfg *blackboard.Config, fc fileConfig) {
	if fc.Flavor != "" {
		cfg.Flavor = blackboard.Flavor(fc.Flavor)
	}
	cfg.PruneExpired = fc.PruneExpired
	cfg.SeparateDB = fc.SeparateDB
	if fc.VectorStorePath != "" {
		cfg.VectorStorePath = fc.VectorStorePath
	}
	if fc.VectorStoreRemote != "" {
		cfg.VectorStoreRemote = fc.VectorStoreRemote
	}
	if fc.MaxEntries > 0 {
		cfg.MaxEntries = fc.MaxEntries
	}
	if fc.StmTTLSeconds > 0 {
		cfg.StmTTL = time.Duration(fc.StmTTLSeconds) * time.Second
	}
}

// mergeEnv layers blackboard.ConfigFromEnv's overrides on top of base,
// but only for fields an environment variable actually set.
func mergeEnv(base blackboard.Config) blackboard.Config {
	envCfg := blackboard.ConfigFromEnv()

	if os.Getenv("BLACKBOARD_FLAVOR") != "" {
		base.Flavor = envCfg.Flavor
	}
	if os.Getenv("BLACKBOARD_PRUNE_EXPIRED") != "" {
		base.PruneExpired = envCfg.PruneExpired
	}
	if os.Getenv("BLACKBOARD_SEPARATE_DB") != "" {
		base.SeparateDB = envCfg.SeparateDB
	}
	if os.Getenv("BLACKBOARD_VECTOR_STORE_PATH") != "" {
		base.VectorStorePath = envCfg.VectorStorePath
	}
	if os.Getenv("BLACKBOARD_VECTOR_STORE_REMOTE") != "" {
		base.VectorStoreRemote = envCfg.VectorStoreRemote
	}
	if os.Getenv("BLACKBOARD_MAX_ENTRIES") != "" {
		base.MaxEntries = envCfg.MaxEntries
	}
	if os.Getenv("BLACKBOARD_STM_TTL_SECONDS") != "" {
		base.StmTTL = envCfg.StmTTL
	}
	return base
}

// Watcher reloads a blackboard.Config whenever dir/config.yaml changes
// on disk, calling onChange with the new config. Stop the watcher with
// Close.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchConfig starts watching dir/config.yaml and invokes onChange (with
// the result of LoadConfig(dir)) each time the file is written. The
// initial load is not delivered to onChange; call LoadConfig yourself
// first.
func WatchConfig(dir string, onChange func(blackboard.Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("config: watching %s: %w", dir, err)
	}

	w := &Watcher{watcher: fw, done: make(chan struct{})}
	configPath := filepath.Join(dir, "config.yaml")

	go func() {
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if event.Name == configPath && (event.Op&(fsnotify.Write|fsnotify.Create) != 0) {
					onChange(LoadConfig(dir))
				}
			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

// Close stops the watcher goroutine and releases its fsnotify handle.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	close(w.done)
	return w.watcher.Close()
}
