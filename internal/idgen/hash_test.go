package idgen

import "testing"

func TestEncodeBase36FixedLengthDeterministic(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef}
	got := EncodeBase36(data, 8)
	if len(got) != 8 {
		t.Fatalf("expected length 8, got %d (%s)", len(got), got)
	}
	// Deterministic: same input always produces same output.
	again := EncodeBase36(data, 8)
	if got != again {
		t.Fatalf("not deterministic: %s != %s", got, again)
	}
}

func TestEncodeBase36PadsShortInput(t *testing.T) {
	got := EncodeBase36([]byte{0x01}, 6)
	if len(got) != 6 {
		t.Fatalf("expected padded length 6, got %d (%s)", len(got), got)
	}
}

func TestShortHex(t *testing.T) {
	hash := []byte{0xab, 0xcd, 0xef, 0x01, 0x02}
	if got := ShortHex(hash, 8); got != "abcdef01" {
		t.Fatalf("got %s", got)
	}
	if got := ShortHex(hash, 100); got != "abcdef0102" {
		t.Fatalf("clamped form wrong: %s", got)
	}
}

func TestAuthorTagDeterministic(t *testing.T) {
	a := AuthorTag("agent-researcher-7", 6)
	b := AuthorTag("agent-researcher-7", 6)
	if a != b {
		t.Fatalf("AuthorTag not deterministic: %s != %s", a, b)
	}
	c := AuthorTag("agent-critic-2", 6)
	if a == c {
		t.Fatalf("expected different tags for different authors")
	}
	if len(a) != 6 {
		t.Fatalf("expected length 6, got %d", len(a))
	}
}
