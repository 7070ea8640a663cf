package callset

import (
	"sort"
	"sync"
	"sync/atomic"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/traverse"
)

// Index groups the valid calls of a collection by partition Key. Calls with
// invalid coordinates are not indexed.
type Index struct {
	keys     []Key
	members  map[Key][]int32
	numValid int
}

// NewIndex builds an Index in one pass over the collection.
func NewIndex(calls []Call) *Index {
	x := &Index{members: map[Key][]int32{}}
	for i := range calls {
		c := &calls[i]
		if !c.Valid() {
			continue
		}
		k := KeyOf(c)
		x.members[k] = append(x.members[k], c.ID)
		x.numValid++
	}
	x.finish()
	return x
}

const (
	numIndexShards = 256
	// Collections below this size are not worth sharding.
	minParallelIndex = 1 << 12
)

// indexShard is one lockable slice of the sharded member map used by the
// parallel build.
type indexShard struct {
	mu      sync.Mutex
	members map[Key][]int32
}

// NewIndexParallel builds the same Index as NewIndex, splitting the
// collection into contiguous chunks processed concurrently. Chunk results
// land in a hash-sharded locked map, so member lists union-merge across
// chunks instead of overwriting each other. Member lists are sorted at the
// end, making the result identical to the serial build's.
func NewIndexParallel(calls []Call, parallelism int) (*Index, error) {
	if parallelism <= 1 || len(calls) < minParallelIndex {
		return NewIndex(calls), nil
	}
	shards := make([]indexShard, numIndexShards)
	for i := range shards {
		shards[i].members = map[Key][]int32{}
	}
	var numValid int64
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(calls)) / parallelism
		endIdx := ((jobIdx + 1) * len(calls)) / parallelism
		n := 0
		var buf []byte
		for i := startIdx; i < endIdx; i++ {
			c := &calls[i]
			if !c.Valid() {
				continue
			}
			n++
			k := KeyOf(c)
			buf = appendKey(buf[:0], k)
			shard := &shards[seahash.Sum64(buf)%numIndexShards]
			shard.mu.Lock()
			shard.members[k] = append(shard.members[k], c.ID)
			shard.mu.Unlock()
		}
		atomic.AddInt64(&numValid, int64(n))
		return nil
	})
	if err != nil {
		return nil, err
	}
	x := &Index{members: make(map[Key][]int32), numValid: int(numValid)}
	for i := range shards {
		for k, ids := range shards[i].members {
			sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
			x.members[k] = ids
		}
	}
	x.finish()
	return x, nil
}

// appendKey serializes k for shard hashing. Tabs cannot appear inside TSV
// cells, so they are safe field separators.
func appendKey(b []byte, k Key) []byte {
	b = append(b, k.Sample...)
	b = append(b, '\t')
	b = append(b, k.Chr...)
	b = append(b, '\t')
	b = append(b, k.Type...)
	return b
}

func (x *Index) finish() {
	x.keys = make([]Key, 0, len(x.members))
	for k := range x.members {
		x.keys = append(x.keys, k)
	}
	sort.Slice(x.keys, func(i, j int) bool { return x.keys[i].less(x.keys[j]) })
}

// Keys returns the partition keys present in the collection, sorted.
func (x *Index) Keys() []Key { return x.keys }

// Members returns the IDs of the valid calls under k, in ascending order.
// The result is nil for keys not present.
func (x *Index) Members(k Key) []int32 { return x.members[k] }

// NumValid returns the number of calls indexed.
func (x *Index) NumValid() int { return x.numValid }
