package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/partkb/core"
)

// Key prefixes for different data types
const (
	partPrefix         = "part"
	partCategoryPrefix = "partcat"
	termPrefix         = "term"
	termTuplePrefix    = "termtok"
	buildPrefix        = "build"
	sourcePrefix       = "src"
)

func prefixOf(name string) []byte {
	return []byte(name + ":")
}

// makePartKey generates a key for a part by identity key.
func makePartKey(key string) []byte {
	return []byte(partPrefix + ":" + key)
}

// makePartCategoryKey generates a composite key for the category index.
// Format: prefix:category:key
func makePartCategoryKey(category core.Category, key string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", partCategoryPrefix, category, key))
}

// makePartialPartCategoryKey generates a partial key for category scans.
func makePartialPartCategoryKey(category core.Category) []byte {
	return []byte(fmt.Sprintf("%s:%s:", partCategoryPrefix, category))
}

// makeTermKey generates a key for a term by ID.
func makeTermKey(id core.ID) []byte {
	prefix := prefixOf(termPrefix)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeTermTupleKey generates a composite key for term lookup by (kind, token).
// Format: prefix:kind:token
func makeTermTupleKey(kind core.TermKind, token string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s", termTuplePrefix, kind, token))
}

// makeBuildKey generates a key for a build record.
// Format: prefix:timestamp:runID, with the timestamp BigEndian so keys sort
// chronologically.
func makeBuildKey(builtAt time.Time, runID string) []byte {
	prefix := prefixOf(buildPrefix)
	buf := make([]byte, len(prefix)+8+len(runID))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(builtAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], runID)
	return buf
}

// makeSourceKey generates a key for a source state by path.
func makeSourceKey(path string) []byte {
	return []byte(sourcePrefix + ":" + path)
}
