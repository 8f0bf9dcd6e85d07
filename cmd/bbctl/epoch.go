package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var epochCmd = &cobra.Command{
	Use:   "epoch",
	Short: "Inspect or advance the store's epoch",
}

var epochShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current epoch",
	RunE:  runEpochShow,
}

var epochAdvanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Promote all pending entries into the live view, advancing the epoch",
	RunE:  runEpochAdvance,
}

func init() {
	epochCmd.AddCommand(epochShowCmd)
	epochCmd.AddCommand(epochAdvanceCmd)
}

func runEpochShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	return printEpoch(cmd, store.Epoch())
}

func runEpochAdvance(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	next := store.AdvanceEpoch()

	if err := persistStore(store); err != nil {
		return err
	}
	return printEpoch(cmd, next)
}

func printEpoch(cmd *cobra.Command, epoch uint64) error {
	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]uint64{"epoch": epoch})
	}
	fmt.Fprintln(cmd.OutOrStdout(), epoch)
	return nil
}
