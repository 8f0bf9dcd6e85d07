package audit

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
)

func TestAppend_CreatesFileAndWritesJSONL(t *testing.T) {
	dir := t.TempDir()

	id1, err := Append(dir, &Entry{Kind: "llm_call", Model: "test-model", Prompt: "p", Response: "r"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id1 == "" {
		t.Fatalf("expected id")
	}

	_, err = Append(dir, &Entry{Kind: "label", ParentID: id1, Label: "good", Reason: "ok"})
	if err != nil {
		t.Fatalf("append label: %v", err)
	}

	p := filepath.Join(dir, FileName)
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	lines := 0
	for sc.Scan() {
		lines++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}
}

func TestAppend_GeneratesIDWhenMissing(t *testing.T) {
	dir := t.TempDir()

	id, err := Append(dir, &Entry{Kind: "policy_denied", Reason: "confidence-floor"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}
}
