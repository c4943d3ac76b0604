package badger

import (
	"encoding/binary"

	"github.com/poiesic/anadex/core"
)

// Key prefixes for different data types
const (
	catalogEntryPrefix = "catent"
)

// makeCatalogEntryKey generates a key for a catalog entry by ID.
// The ID is written fixed-width BigEndian so a lexicographic prefix scan
// visits entries in ascending ID order.
func makeCatalogEntryKey(id core.ID) []byte {
	prefix := catalogEntryPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
