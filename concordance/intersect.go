package concordance

import (
	"context"
	"runtime"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/cnv/callset"
	"github.com/grailbio/cnv/interval"
)

// Intersector computes reciprocal-overlap flags between two call sets.
//
// The hit matrices are indexed [fraction][Call.ID]: aHits[fi][id] is
// true iff call id of a overlaps at least one call of b with the same
// partition key, reciprocally at fractions[fi]; bHits mirrors this for
// b. Every call's ID must equal its index in its slice. Invalid calls
// never hit and are never hit.
type Intersector interface {
	Intersect(ctx context.Context, a, b []callset.Call, fractions []float64) (aHits, bHits [][]bool, err error)
}

// TreeIntersector is the in-process Intersector. It partitions both
// call sets by (SampleID, Chr, Type) and runs an interval tree scan
// within each partition present on both sides, parallelized across
// partitions. The set of qualifying pairs it finds is exactly the set
// a full pairwise scan would find; the tree only prunes pairs with no
// overlap at all, which can qualify at no fraction.
type TreeIntersector struct {
	// Parallelism bounds the number of workers. <= 0 means
	// runtime.NumCPU().
	Parallelism int
}

// Intersect implements Intersector.
func (x *TreeIntersector) Intersect(ctx context.Context, a, b []callset.Call, fractions []float64) (aHits, bHits [][]bool, err error) {
	parallelism := x.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	aIdx, err := callset.NewIndexParallel(a, parallelism)
	if err != nil {
		return nil, nil, err
	}
	bIdx, err := callset.NewIndexParallel(b, parallelism)
	if err != nil {
		return nil, nil, err
	}
	aHits = newHits(len(fractions), len(a))
	bHits = newHits(len(fractions), len(b))

	// Calls under a key present on only one side can have no partner;
	// their flags stay zero.
	var keys []callset.Key
	for _, k := range aIdx.Keys() {
		if len(bIdx.Members(k)) > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return aHits, bHits, nil
	}

	// Each key names disjoint call sets on both sides, so workers write
	// disjoint hit matrix entries and the outcome does not depend on
	// scheduling order.
	err = traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(keys)) / parallelism
		endIdx := ((jobIdx + 1) * len(keys)) / parallelism
		for _, k := range keys[startIdx:endIdx] {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := intersectKey(a, b, aIdx.Members(k), bIdx.Members(k), fractions, aHits, bHits); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return aHits, bHits, nil
}

func intersectKey(a, b []callset.Call, aIDs, bIDs []int32, fractions []float64, aHits, bHits [][]bool) error {
	spans := make([]interval.Span, len(bIDs))
	for i, id := range bIDs {
		spans[i] = interval.Span{ID: id, Start: b[id].Start, End: b[id].End}
	}
	tree, err := interval.NewTree(spans)
	if err != nil {
		return err
	}
	for _, id := range aIDs {
		q := interval.Span{ID: id, Start: a[id].Start, End: a[id].End}
		tree.Candidates(q, func(s interval.Span) {
			for fi, f := range fractions {
				if interval.Qualifies(q, s, f) {
					aHits[fi][q.ID] = true
					bHits[fi][s.ID] = true
				}
			}
		})
	}
	return nil
}

func newHits(numFractions, numCalls int) [][]bool {
	hits := make([][]bool, numFractions)
	for i := range hits {
		hits[i] = make([]bool, numCalls)
	}
	return hits
}
