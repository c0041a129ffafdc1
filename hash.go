package s256k1

import (
	"hash"

	sha256simd "github.com/minio/sha256-simd"
)

// SHA256 represents a SHA-256 hash context
type SHA256 struct {
	hasher hash.Hash
}

// NewSHA256 creates a new SHA-256 hash context
func NewSHA256() *SHA256 {
	return &SHA256{hasher: sha256simd.New()}
}

// Write writes data to the hash
func (h *SHA256) Write(data []byte) {
	h.hasher.Write(data)
}

// Finalize finalizes the hash and writes the result to out32 (must be 32 bytes)
func (h *SHA256) Finalize(out32 []byte) {
	if len(out32) != 32 {
		panic("output buffer must be 32 bytes")
	}
	var sum [32]byte
	copy(out32, h.hasher.Sum(sum[:0]))
	memclear(sum[:])
}

// Clear resets the hash state so nothing written to it lingers
func (h *SHA256) Clear() {
	h.hasher.Reset()
}

// sha256Sum is SHA-256 of the concatenation of parts.
func sha256Sum(parts ...[]byte) (sum [32]byte) {
	h := NewSHA256()
	for _, p := range parts {
		h.Write(p)
	}
	h.Finalize(sum[:])
	h.Clear()
	return
}
