package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/anthropics/blackboard/internal/blackboard"
)

var (
	postAuthor      string
	postKind        string
	postContent     string
	postConfidence  float64
	postParent      string
	postTTL         string
	postSupersedes  []string
	postInteractive bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a new entry to the blackboard",
	Long: `Post a new entry to the blackboard.

Examples:
  bbctl post --author alice --kind fact --content "build is green"
  bbctl post --author bob --kind decision --content "ship it" --confidence 0.9
  bbctl post --author alice --kind observation --content "flaky test" --ttl "in 2 hours"`,
	RunE: runPost,
}

func init() {
	postCmd.Flags().StringVar(&postAuthor, "author", "", "author of the entry (required)")
	postCmd.Flags().StringVar(&postKind, "kind", "fact", "entry kind: fact, hypothesis, decision, veto, partial, query, observation, reasoning")
	postCmd.Flags().StringVar(&postContent, "content", "", "entry content (required)")
	postCmd.Flags().Float64Var(&postConfidence, "confidence", 1.0, "confidence in [0, 1]")
	postCmd.Flags().StringVar(&postParent, "parent", "", "hex hash of the parent entry, if any")
	postCmd.Flags().StringVar(&postTTL, "ttl", "", `time-to-live, natural language ("in 2 hours") or a Go duration ("2h")`)
	postCmd.Flags().StringSliceVar(&postSupersedes, "supersedes", nil, "hex hashes this entry supersedes (tombstones them immediately)")
	postCmd.Flags().BoolVar(&postInteractive, "interactive", false, "prompt for author/kind/content/confidence with a form instead of reading flags")
}

func runPost(cmd *cobra.Command, args []string) error {
	if postInteractive {
		if err := runPostForm(); err != nil {
			return err
		}
	} else {
		if postAuthor == "" {
			return fmt.Errorf("--author is required (or pass --interactive)")
		}
		if postContent == "" {
			return fmt.Errorf("--content is required (or pass --interactive)")
		}
	}

	kind := blackboard.Kind(postKind)

	var opts []blackboard.Option
	opts = append(opts, blackboard.WithConfidence(postConfidence))

	if postTTL != "" {
		d, err := parseTTL(postTTL)
		if err != nil {
			return fmt.Errorf("parsing --ttl: %w", err)
		}
		opts = append(opts, blackboard.WithTTL(d))
	}

	var supersedes []blackboard.Hash
	for _, s := range postSupersedes {
		var h blackboard.Hash
		if err := h.UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("parsing --supersedes %q: %w", s, err)
		}
		supersedes = append(supersedes, h)
	}
	if len(supersedes) > 0 {
		opts = append(opts, blackboard.WithSupersedes(supersedes...))
	}

	var parent blackboard.Hash
	hasParent := postParent != ""
	if hasParent {
		if err := parent.UnmarshalText([]byte(postParent)); err != nil {
			return fmt.Errorf("parsing --parent: %w", err)
		}
	}

	entry := blackboard.NewEntry(postAuthor, kind, postContent, parent, hasParent, opts...)

	store, err := openStore()
	if err != nil {
		return err
	}

	hash, err := store.Post(entry)
	if err != nil {
		return err
	}

	if err := persistStore(store); err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"hash": hash.String()})
	}
	fmt.Fprintln(cmd.OutOrStdout(), accentStyle.Render(hash.Short(8)), mutedStyle.Render("posted"))
	return nil
}

// runPostForm fills postAuthor/postKind/postContent/postConfidence from an
// interactive huh form instead of flags, for a terminal running bbctl by hand.
func runPostForm() error {
	confidenceStr := fmt.Sprintf("%.2f", postConfidence)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Author").
				Value(&postAuthor).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("author is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("fact", "fact"),
					huh.NewOption("hypothesis", "hypothesis"),
					huh.NewOption("decision", "decision"),
					huh.NewOption("veto", "veto"),
					huh.NewOption("partial", "partial"),
					huh.NewOption("query", "query"),
					huh.NewOption("observation", "observation"),
					huh.NewOption("reasoning", "reasoning"),
				).
				Value(&postKind),
			huh.NewText().
				Title("Content").
				Value(&postContent).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("content is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Confidence (0-1)").
				Value(&confidenceStr),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("post form: %w", err)
	}

	if _, err := fmt.Sscanf(confidenceStr, "%f", &postConfidence); err != nil {
		return fmt.Errorf("parsing confidence %q: %w", confidenceStr, err)
	}
	return nil
}

// parseTTL accepts a Go duration string ("2h") or falls back to natural
// language parsing ("in 2 hours") relative to now.
func parseTTL(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(s, time.Now())
	if err != nil {
		return 0, err
	}
	if result == nil {
		return 0, fmt.Errorf("could not parse %q as a duration or time expression", s)
	}

	d := time.Until(result.Time)
	if d < 0 {
		return 0, fmt.Errorf("%q resolved to a time in the past", s)
	}
	return d, nil
}
