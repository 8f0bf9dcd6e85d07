// Command bbctl is a CLI for a single in-process blackboard: post
// entries, query them, advance the epoch, compact, and render a
// cache-aligned snapshot for inspection.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anthropics/blackboard/internal/telemetry"
)

var (
	dataDir    string
	jsonOutput bool
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"})
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"})
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"})
)

var rootCmd = &cobra.Command{
	Use:   "bbctl",
	Short: "Inspect and drive a blackboard shared workspace",
	Long: `bbctl is a command-line client for the blackboard: a content-addressed,
epoch-versioned shared workspace multiple agents post to and read a
cache-aligned snapshot of.

Examples:
  bbctl post --author alice --kind fact --content "build is green"
  bbctl epoch advance
  bbctl render
  bbctl query --author alice --kind decision`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", ".blackboard", "directory holding config.yaml and this store's persisted state")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output machine-readable JSON")
	_ = viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(epochCmd)
	rootCmd.AddCommand(compactCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(renderCmd)
}

func main() {
	ctx := context.Background()
	provs, err := telemetry.Init(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provs.Shutdown(shutdownCtx)
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
