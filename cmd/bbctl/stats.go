package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print store statistics (entry counts, flavor, epoch)",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	stats := store.Stats()

	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
	}

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s %v\n", k, stats[k])
	}
	return nil
}
