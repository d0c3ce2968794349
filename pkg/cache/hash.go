package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashKey builds "prefix:<sha256 of parts>". Parts are NUL-separated so
// ("ab", "c") and ("a", "bc") never collide.
func hashKey(prefix string, parts ...string) string {
	return prefix + ":" + Hash([]byte(strings.Join(parts, "\x00")))
}

// Hash returns the hex SHA-256 of data. FileCache names its files by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
