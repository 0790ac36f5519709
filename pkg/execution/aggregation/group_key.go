package aggregation

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"shardexec/pkg/primitives"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

// nullHash stands in for the hash of a NULL group value.
const nullHash primitives.HashCode = 0x9e3779b97f4a7c15

// GroupByKey is the tuple of group-by values of one row. Two keys are equal
// when every value is equal; NULLs group together.
type GroupByKey struct {
	values []types.Field
	hash   primitives.HashCode
}

// NewGroupByKey extracts the columns at indexes from row.
func NewGroupByKey(row tuple.Row, indexes []int) GroupByKey {
	values := make([]types.Field, len(indexes))
	for i, idx := range indexes {
		values[i] = row.Get(idx)
	}
	return GroupByKey{values: values, hash: hashValues(values)}
}

func hashValues(values []types.Field) primitives.HashCode {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range values {
		h := nullHash
		if v != nil {
			h = v.Hash()
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(h))
		_, _ = d.Write(buf[:])
	}
	return primitives.HashCode(d.Sum64())
}

// Hash returns the combined hash of the key's values.
func (k GroupByKey) Hash() primitives.HashCode {
	return k.hash
}

// Values returns the group-by values in group-by order.
func (k GroupByKey) Values() []types.Field {
	return k.values
}

// Equals reports whether k and other hold the same values.
func (k GroupByKey) Equals(other GroupByKey) bool {
	if k.hash != other.hash || len(k.values) != len(other.values) {
		return false
	}
	for i, v := range k.values {
		o := other.values[i]
		if v == nil || o == nil {
			if v != o {
				return false
			}
			continue
		}
		if !v.Equals(o) {
			return false
		}
	}
	return true
}

// groupTable maps keys to per-group state. Keys with colliding hashes share
// a bucket and are told apart by Equals. Groups are listed in first-seen order.
type groupTable[S any] struct {
	buckets map[primitives.HashCode][]int
	keys    []GroupByKey
	states  []S
}

func newGroupTable[S any]() *groupTable[S] {
	return &groupTable[S]{buckets: make(map[primitives.HashCode][]int)}
}

// find returns the state for key, creating it with create when key is new.
func (t *groupTable[S]) find(key GroupByKey, create func() S) S {
	for _, i := range t.buckets[key.hash] {
		if t.keys[i].Equals(key) {
			return t.states[i]
		}
	}
	i := len(t.keys)
	t.keys = append(t.keys, key)
	t.states = append(t.states, create())
	t.buckets[key.hash] = append(t.buckets[key.hash], i)
	return t.states[i]
}

// contains reports whether key is present.
func (t *groupTable[S]) contains(key GroupByKey) bool {
	for _, i := range t.buckets[key.hash] {
		if t.keys[i].Equals(key) {
			return true
		}
	}
	return false
}

func (t *groupTable[S]) Len() int {
	return len(t.keys)
}
