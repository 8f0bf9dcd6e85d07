package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anthropics/blackboard/internal/blackboard"
	"github.com/anthropics/blackboard/internal/idgen"
)

var (
	queryAuthors       []string
	queryKinds         []string
	queryParent        string
	queryMinConfidence float64
	queryText          string
	queryLimit         int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query entries by author, kind, parent, confidence, or text",
	Long: `Query live and pending entries (tombstoned entries are always
excluded; expired entries are not filtered out). Filters combine with AND.

Examples:
  bbctl query --author alice
  bbctl query --kind decision --kind veto
  bbctl query --parent abcd1234... --limit 5`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringSliceVar(&queryAuthors, "author", nil, "filter by author (repeatable)")
	queryCmd.Flags().StringSliceVar(&queryKinds, "kind", nil, "filter by kind (repeatable)")
	queryCmd.Flags().StringVar(&queryParent, "parent", "", "filter by parent hash")
	queryCmd.Flags().Float64Var(&queryMinConfidence, "min-confidence", 0, "minimum confidence")
	queryCmd.Flags().StringVar(&queryText, "text", "", "substring match against content")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum results (0 = unlimited)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	q := blackboard.Query{
		Authors:       queryAuthors,
		MinConfidence: queryMinConfidence,
		Text:          queryText,
		Limit:         queryLimit,
	}
	for _, k := range queryKinds {
		q.Types = append(q.Types, blackboard.Kind(k))
	}
	if queryParent != "" {
		var h blackboard.Hash
		if err := h.UnmarshalText([]byte(queryParent)); err != nil {
			return fmt.Errorf("parsing --parent: %w", err)
		}
		q.Parent, q.HasParent = h, true
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	entries, err := store.Query(q)
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(entries)
	}
	for _, e := range entries {
		tag := idgen.AuthorTag(e.Author, 5)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mutedStyle.Render(tag), e.String())
	}
	return nil
}
