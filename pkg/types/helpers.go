package types

import (
	"cmp"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"shardexec/pkg/primitives"
)

// compareOrdered performs a comparison between two ordered values using the given predicate.
func compareOrdered[T cmp.Ordered](a, b T, op primitives.Predicate) bool {
	return op.FromOrdering(cmp.Compare(a, b))
}

// hashTagged hashes data prefixed with the type tag so equal bytes of different
// types do not collide systematically.
func hashTagged(t Type, data []byte) primitives.HashCode {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(t)})
	_, _ = d.Write(data)
	return primitives.HashCode(d.Sum64())
}

// toBytes64 converts a uint64 value to an 8-byte big-endian slice.
func toBytes64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
