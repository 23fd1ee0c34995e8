// Package daily derives the shared grid seed for a calendar day, so every
// player asking for the daily puzzle of a level gets the same board.
package daily

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the grid seed for level on the UTC day of t:
// the first 8 bytes of BLAKE2b-256 keyed with salt over "YYYY-MM-DD#level".
// The salt keeps upcoming boards unguessable from the date alone.
func Seed(t time.Time, salt string, level int) int64 {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		// only reachable with a key longer than 64 bytes, handled above
		panic(err)
	}
	fmt.Fprintf(h, "%s#%d", DateKey(t), level)
	return int64(binary.BigEndian.Uint64(h.Sum(nil)[:8]))
}
