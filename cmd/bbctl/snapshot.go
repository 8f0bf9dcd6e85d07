package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the current snapshot's thumbprint and entry count",
	RunE:  runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	snap, err := store.Snapshot()
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
			"epoch":      snap.Epoch,
			"thumbprint": snap.Thumbprint.String(),
			"count":      snap.Len(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s epoch=%d entries=%d\n",
		accentStyle.Render(snap.Thumbprint.Short(16)), snap.Epoch, snap.Len())
	return nil
}
