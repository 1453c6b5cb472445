package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

const searchKeyPrefix = "listings:search:"

// cache key for an address search. Terms are unbounded, so the key carries a digest.
func SearchKey(term string) string {
	sum := sha256.Sum256([]byte(term))
	return searchKeyPrefix + hex.EncodeToString(sum[:])
}
