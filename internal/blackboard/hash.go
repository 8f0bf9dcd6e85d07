package blackboard

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Hash is the blackboard's content-addressed identity: a 32-byte digest
// over (author, content, parent). Two entries with equal Hash are the
// same entry by definition.
type Hash [32]byte

// ZeroHash is the all-zero digest, used as the fallback cache thumbprint
// when thumbprint computation fails (see Store.CacheThumbprint).
var ZeroHash Hash

// String renders the hash as lowercase hex.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short renders the first n hex characters of the hash, used throughout
// rendered snapshots ("[abcd1234]").
func (h Hash) Short(n int) string {
	s := h.String()
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// MarshalText renders h as lowercase hex, so Hash fields serialize
// readably in JSON/YAML rather than as an array of 32 integers.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses the lowercase hex produced by MarshalText.
func (h *Hash) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("blackboard: invalid hash hex %q: %w", text, err)
	}
	if len(decoded) != len(h) {
		return fmt.Errorf("blackboard: hash must be %d bytes, got %d", len(h), len(decoded))
	}
	copy(h[:], decoded)
	return nil
}

// tagged feeds an optional byte slice into the hasher using a presence
// byte plus an 8-byte big-endian length prefix: absence of a field is a
// distinct domain element from presence of an empty field, and every
// field's extent is unambiguous regardless of its content — two fields
// can never be confused by shifting bytes across the boundary between
// them, since the reader (the hash function) always knows exactly how
// many bytes belong to the field it's about to consume.
func tagged(w interface{ Write([]byte) (int, error) }, present bool, data []byte) {
	if !present {
		w.Write([]byte{0x00})
		return
	}
	w.Write([]byte{0x01})
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(data)))
	w.Write(lenBuf[:])
	w.Write(data)
}

// computeEntryHash computes H(author ‖ content ‖ parent-or-absent), each
// field length-prefixed via tagged so the feed is unambiguous: without a
// length prefix, (author="a", content="\x00\x01z") and
// (author="a\x00\x01", content="z") would otherwise hash identically.
// parent is passed as (hash, ok) — ok=false means "no parent".
func computeEntryHash(author, content string, parent Hash, hasParent bool) Hash {
	h := sha256.New()
	tagged(h, true, []byte(author))
	tagged(h, true, []byte(content))
	tagged(h, hasParent, parent[:])

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// computeThumbprint computes H(hash_1 ‖ … ‖ hash_n ‖ n) over entry hashes
// in canonical order, per spec §4.7 / §9 Open Question 1.
func computeThumbprint(hashes []Hash) Hash {
	h := sha256.New()
	for _, hh := range hashes {
		h.Write(hh[:])
	}
	n := len(hashes)
	var nb [8]byte
	for i := 0; i < 8; i++ {
		nb[i] = byte(n >> (8 * i))
	}
	h.Write(nb[:])

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}
