package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// RenderKey generates the cache key for a rendered artifact. The key is
// derived from the full DOT source and the output format, so any change to
// the graph or styling produces a distinct key.
func RenderKey(dot, format string) string {
	return fmt.Sprintf("render:%s:%s", format, Hash([]byte(dot)))
}
