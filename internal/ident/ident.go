// Package ident derives the 64-bit identifiers used throughout a package
// from content digests, so that rebuilding the same logical content always
// reproduces the same identifiers. Nothing here uses counters or clocks.
package ident

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"

	"github.com/ankismith/ankismith/internal/domain"
)

// deckIDRange bounds deck identifiers to the range the original tooling
// used. The importing application reserves deck id 1 for its default deck.
const deckIDRange = 1_000_000_000

// canonicalize cleans one field value before hashing: lowercased, trimmed,
// line endings normalized. Two values that differ only in those respects
// identify the same note.
func canonicalize(value string) string {
	v := strings.ToLower(value)
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "\r\n", "\n")
	return v
}

// Digest hashes the model type and canonicalized field values of one card.
// Fields are joined with the unit separator, which is banned from field
// values, so distinct field splits can never produce the same digest input.
func Digest(modelType domain.ModelType, fieldValues []string) [32]byte {
	parts := make([]string, 0, len(fieldValues)+1)
	parts = append(parts, string(modelType))
	for _, v := range fieldValues {
		parts = append(parts, canonicalize(v))
	}
	return sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
}

// NoteID reduces a content digest into a positive int64 identifier.
func NoteID(digest [32]byte) int64 {
	id := int64(binary.BigEndian.Uint64(digest[:8]) & (1<<63 - 1))
	if id == 0 {
		id = 1
	}
	return id
}

// DeckID derives a deck identifier from the trimmed deck name. The result
// avoids 0 and the reserved default deck id 1.
func DeckID(name string) int64 {
	sum := sha256.Sum256([]byte(strings.TrimSpace(name)))
	id := int64(binary.BigEndian.Uint64(sum[:8]) % deckIDRange)
	if id < 2 {
		id += 2
	}
	return id
}
