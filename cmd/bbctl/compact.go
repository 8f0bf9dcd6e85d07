package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Run compaction: prune tombstoned/expired entries and enforce max-entries",
	RunE:  runCompact,
}

func runCompact(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	stats, err := store.Compact()
	if err != nil {
		return err
	}

	if err := persistStore(store); err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d -> %d entries (tombstoned=%d expired=%d pruned=%d superseded_removed=%d)\n",
		stats.EntriesBefore, stats.EntriesAfter, stats.Tombstoned, stats.Expired, stats.Pruned, stats.SupersededRemoved)
	return nil
}
