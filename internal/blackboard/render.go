package blackboard

import (
	"fmt"
	"strings"
)

// groupOrder is the fixed rendering order for entry kinds (spec §4.11).
var groupOrder = []struct {
	kind  Kind
	label string
}{
	{KindDecision, "Decisions"},
	{KindFact, "Facts"},
	{KindHypothesis, "Hypotheses"},
	{KindObservation, "Observations"},
	{KindPartial, "In Progress"},
	{KindQuery, "Open Questions"},
	{KindVeto, "Vetoed"},
	{KindReasoning, "Reasoning Traces"},
}

// renderSnapshot renders entries (already in canonical order) into the
// fixed-format textual prefix used in prompts. Entries within a group
// keep canonical order.
func renderSnapshot(entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Blackboard — %d entries, thumbprint %s]\n", len(entries), computeThumbprint(hashesOf(entries)).Short(8))

	for _, group := range groupOrder {
		var inGroup []Entry
		for _, e := range entries {
			if e.Kind == group.kind {
				inGroup = append(inGroup, e)
			}
		}
		if len(inGroup) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", group.label)
		for _, e := range inGroup {
			fmt.Fprintf(&b, "- [%s] (%s, conf=%.2f): %s\n", e.Hash.Short(8), e.Author, e.Confidence, e.Content)
		}
	}

	return b.String()
}

func hashesOf(entries []Entry) []Hash {
	out := make([]Hash, len(entries))
	for i, e := range entries {
		out[i] = e.Hash
	}
	return out
}
