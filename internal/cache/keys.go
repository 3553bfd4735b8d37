package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Key joins a namespace with a digest of the canonical form of its parts.
// The digest is a fixed-width SHA-256 prefix over the sorted parts joined
// with a defined separator, so the same logical inputs always map to the
// same key regardless of supply order, process, or run.
func Key(namespace string, parts ...string) string {
	if len(parts) == 0 {
		return namespace
	}
	sorted := make([]string, len(parts))
	copy(sorted, parts)
	sort.Strings(sorted)
	return namespace + ":" + Digest(strings.Join(sorted, "&"))
}

// Digest returns a 16-byte hex SHA-256 prefix of the canonical string.
func Digest(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:16])
}
