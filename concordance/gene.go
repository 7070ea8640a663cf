package concordance

import (
	"github.com/grailbio/cnv/callset"
	"gopkg.in/fatih/set.v0"
)

// GeneMatcher answers whether a (SampleID, Type, gene) tuple occurs in
// a call set. Matching ignores coordinates: two calls on opposite ends
// of a chromosome still match if their tuples agree.
type GeneMatcher struct {
	tuples set.Interface
}

// NewGeneMatcher indexes the tuples of the given calls. Calls with an
// empty gene cell and calls excluded from matching contribute nothing.
func NewGeneMatcher(calls []callset.Call) *GeneMatcher {
	tuples := set.New(set.NonThreadSafe)
	for i := range calls {
		c := &calls[i]
		if !c.Valid() || c.Gene == "" {
			continue
		}
		tuples.Add(geneTuple(c))
	}
	return &GeneMatcher{tuples: tuples}
}

// Match reports whether c's tuple appears in the indexed set. A call
// with an empty gene cell matches nothing.
func (m *GeneMatcher) Match(c *callset.Call) bool {
	if c.Gene == "" {
		return false
	}
	return m.tuples.Has(geneTuple(c))
}

// Size returns the number of distinct indexed tuples.
func (m *GeneMatcher) Size() int { return m.tuples.Size() }

func geneTuple(c *callset.Call) string {
	return c.SampleID + "\t" + c.Type + "\t" + c.Gene
}
