package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anthropics/blackboard/internal/blackboard"
)

var getCmd = &cobra.Command{
	Use:   "get <hash>",
	Short: "Fetch a single entry by hex hash",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	var h blackboard.Hash
	if err := h.UnmarshalText([]byte(args[0])); err != nil {
		return fmt.Errorf("parsing hash: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	entry, ok := store.Get(h)
	if !ok {
		return fmt.Errorf("no entry with hash %s", args[0])
	}

	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(entry)
	}
	fmt.Fprintln(cmd.OutOrStdout(), entry.String())
	return nil
}
