package main

import (
	"testing"
	"time"
)

func TestParseTTLGoDuration(t *testing.T) {
	d, err := parseTTL("2h")
	if err != nil {
		t.Fatalf("parseTTL: %v", err)
	}
	if d != 2*time.Hour {
		t.Fatalf("got %v, want 2h", d)
	}
}

func TestParseTTLNaturalLanguage(t *testing.T) {
	d, err := parseTTL("in 2 hours")
	if err != nil {
		t.Fatalf("parseTTL: %v", err)
	}
	if d <= 0 || d > 2*time.Hour+time.Minute {
		t.Fatalf("got %v, want ~2h", d)
	}
}

func TestParseTTLRejectsGarbage(t *testing.T) {
	if _, err := parseTTL("not a duration at all"); err == nil {
		t.Fatal("expected error for unparseable ttl")
	}
}
