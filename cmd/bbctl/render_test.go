package main

import "testing"

func TestToMarkdownPromotesTitle(t *testing.T) {
	rendered := "blackboard snapshot (epoch 3)\n## facts\n- [abcd1234] (alice, conf=1.00): build is green\n"
	md := toMarkdown(rendered)
	want := "# blackboard snapshot (epoch 3)\n## facts\n- [abcd1234] (alice, conf=1.00): build is green\n"
	if md != want {
		t.Fatalf("got %q, want %q", md, want)
	}
}

func TestToMarkdownEmptyInput(t *testing.T) {
	if got := toMarkdown(""); got != "# " {
		t.Fatalf("got %q", got)
	}
}
