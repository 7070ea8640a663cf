package concordance

import (
	"fmt"
	"strings"
)

// Stats summarizes the flags of one side of a comparison.
type Stats struct {
	Total       int  // all input calls, valid or not
	CNVOverlap  int  // calls with a reciprocal overlap partner
	GeneOverlap int  // calls with an exact gene tuple match
	BothOverlap int  // calls with both flags set
	GeneChecked bool // gene columns were present in both inputs
}

// Stats computes the summary counts of the result.
func (r *Result) Stats() Stats {
	s := Stats{Total: len(r.CNV), GeneChecked: r.GeneChecked}
	for id, cnv := range r.CNV {
		if cnv {
			s.CNVOverlap++
		}
		if r.GeneChecked && r.Gene[id] {
			s.GeneOverlap++
			if cnv {
				s.BothOverlap++
			}
		}
	}
	return s
}

// Summary renders the counts as the block printed at the end of a
// comparison. The gene lines are omitted when the gene check was
// skipped, so a skipped check never reads as zero matches.
func (s Stats) Summary(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d CNVs\n", name, s.Total)
	fmt.Fprintf(&b, "  CNV-overlap: %d (%.2f%%)\n", s.CNVOverlap, s.pct(s.CNVOverlap))
	if s.GeneChecked {
		fmt.Fprintf(&b, "  Gene-overlap: %d (%.2f%%)\n", s.GeneOverlap, s.pct(s.GeneOverlap))
		fmt.Fprintf(&b, "  Both overlap types: %d (%.2f%%)\n", s.BothOverlap, s.pct(s.BothOverlap))
	}
	return b.String()
}

func (s Stats) pct(n int) float64 {
	return float64(n) / float64(s.Total) * 100
}
