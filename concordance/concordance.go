// Package concordance compares two CNV call sets and flags, for every
// call, whether the other set contains a concordant call.
//
// Calls are compared only when they agree on (SampleID, Chr, Type).
// Coordinate concordance requires reciprocal overlap: the overlapping
// length must reach a fraction of both call lengths. Gene concordance
// requires an exact (SampleID, Type, gene) tuple match in the other set
// and ignores coordinates entirely. Both flags are existential: one
// qualifying partner is enough, extra partners change nothing.
package concordance

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/cnv/callset"
)

// Opts controls a comparison.
type Opts struct {
	// Fraction is the reciprocal overlap threshold in (0, 1].
	Fraction float64
	// Parallelism bounds the number of concurrent partition workers.
	// <= 0 means runtime.NumCPU().
	Parallelism int
	// Intersector overrides the coordinate matcher. Nil means an
	// in-process TreeIntersector.
	Intersector Intersector
}

// DefaultOpts is the configuration used by the bio-cnv concordance
// command when no flags are given.
var DefaultOpts = Opts{Fraction: 0.5}

// Result holds the flags computed for one side of a comparison. Slices
// are indexed by Call.ID.
type Result struct {
	// CNV reports a reciprocal coordinate overlap with the other set.
	CNV []bool
	// Gene reports an exact gene tuple match in the other set. Valid
	// only when GeneChecked; otherwise the flag is NA for every call.
	Gene        []bool
	GeneChecked bool
}

// Run compares a against b and returns the flags for each side. It
// fails with callset.EmptyCollectionError if either side has no valid
// calls.
func Run(ctx context.Context, a, b *callset.CallSet, opts Opts) (ra, rb *Result, err error) {
	for _, cs := range []*callset.CallSet{a, b} {
		if cs.NumValid() == 0 {
			return nil, nil, &callset.EmptyCollectionError{Collection: cs.Name}
		}
	}
	intersector := opts.Intersector
	if intersector == nil {
		intersector = &TreeIntersector{Parallelism: opts.Parallelism}
	}
	log.Printf("computing reciprocal overlaps >= %v", opts.Fraction)
	aHits, bHits, err := intersector.Intersect(ctx, a.Calls, b.Calls, []float64{opts.Fraction})
	if err != nil {
		return nil, nil, err
	}
	ra = &Result{CNV: aHits[0]}
	rb = &Result{CNV: bHits[0]}
	if a.HasGene() && b.HasGene() {
		log.Printf("checking gene overlaps")
		ra.Gene, ra.GeneChecked = matchGenes(a.Calls, NewGeneMatcher(b.Calls)), true
		rb.Gene, rb.GeneChecked = matchGenes(b.Calls, NewGeneMatcher(a.Calls)), true
	} else {
		log.Printf("skipping gene overlap check (gene column missing in one or both inputs)")
	}
	return ra, rb, nil
}

func matchGenes(calls []callset.Call, m *GeneMatcher) []bool {
	flags := make([]bool, len(calls))
	for i := range calls {
		if c := &calls[i]; c.Valid() {
			flags[c.ID] = m.Match(c)
		}
	}
	return flags
}
