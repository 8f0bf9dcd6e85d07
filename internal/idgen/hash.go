// Package idgen generates short, human-friendly identifiers: base36 and
// hex forms of byte strings, and AuthorTag, a compact tag derived from an
// author string for CLI output. Entry hashes themselves are displayed via
// blackboard.Hash.Short, not this package.
package idgen

import (
	"encoding/hex"
	"math/big"
	"strings"
)

// base36Alphabet is the character set for base36 encoding (0-9, a-z).
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// EncodeBase36 converts a byte slice to a base36 string of specified length.
func EncodeBase36(data []byte, length int) string {
	num := new(big.Int).SetBytes(data)

	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}

	var result strings.Builder
	for i := len(chars) - 1; i >= 0; i-- {
		result.WriteByte(chars[i])
	}

	str := result.String()
	if len(str) < length {
		str = strings.Repeat("0", length-len(str)) + str
	}
	if len(str) > length {
		str = str[len(str)-length:]
	}
	return str
}

// ShortHex returns the first n hex characters of a content hash.
// n is clamped to the hash's actual length.
func ShortHex(hash []byte, n int) string {
	full := hex.EncodeToString(hash)
	if n > len(full) {
		n = len(full)
	}
	return full[:n]
}

// AuthorTag derives a short, stable base36 tag from an author identifier.
// Two calls with the same author string always produce the same tag; it is
// used to keep multi-agent logs readable without printing full author
// strings (model name + instance id) on every line.
func AuthorTag(author string, length int) string {
	sum := fnv64a(author)
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(sum)
		sum >>= 8
	}
	return EncodeBase36(buf, length)
}

// fnv64a is a tiny FNV-1a implementation so AuthorTag doesn't need to pull
// in hash/fnv for an 8-byte digest.
func fnv64a(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
