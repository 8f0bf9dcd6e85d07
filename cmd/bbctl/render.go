package main

import (
	"fmt"
	"strings"

	glamour "charm.land/glamour/v2"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var renderPlain bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the current snapshot as styled markdown",
	Long: `Render the current snapshot the same way a prompt assembler would see
it, but passed through glamour for a readable terminal view.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&renderPlain, "plain", false, "skip glamour styling, print the raw rendered text")
}

func runRender(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	snap, err := store.Snapshot()
	if err != nil {
		return err
	}

	if snap.IsEmpty() {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("(blackboard is empty)"))
		return nil
	}

	if renderPlain || !termenv.NewOutput(cmd.OutOrStdout()).Profile.Color() {
		fmt.Fprintln(cmd.OutOrStdout(), snap.Rendered)
		return nil
	}

	md := toMarkdown(snap.Rendered)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		var out string
		if out, err = renderer.Render(md); err == nil {
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}
	}
	// Fall back to unstyled output rather than failing the command.
	fmt.Fprintln(cmd.OutOrStdout(), snap.Rendered)
	return nil
}

// toMarkdown promotes the rendered snapshot's "## Group" headings and
// "- [hash] ..." bullet lines into markdown glamour already understands;
// the renderer's own output is close enough that only the title line
// needs a "# " prefix.
func toMarkdown(rendered string) string {
	lines := strings.SplitN(rendered, "\n", 2)
	if len(lines) == 0 {
		return rendered
	}
	lines[0] = "# " + strings.TrimPrefix(lines[0], "# ")
	return strings.Join(lines, "\n")
}
