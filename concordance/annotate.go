package concordance

import (
	"github.com/grailbio/cnv/callset"
)

// Names of the appended flag columns.
const (
	CNVOverlapCol  = "CNV_based_overlap"
	GeneOverlapCol = "gene_based_overlap"
)

// naValue marks the gene flag as unavailable rather than unmatched.
const naValue = "NA"

// Columns returns the flag columns to append to the call set the
// result was computed for. callset.Write keeps the input rows, their
// order and their columns untouched; these columns only extend each
// row on the right.
func (r *Result) Columns() []callset.ExtraColumn {
	return []callset.ExtraColumn{
		{Name: CNVOverlapCol, Value: func(id int32) string {
			return flag01(r.CNV[id])
		}},
		{Name: GeneOverlapCol, Value: func(id int32) string {
			if !r.GeneChecked {
				return naValue
			}
			return flag01(r.Gene[id])
		}},
	}
}

func flag01(hit bool) string {
	if hit {
		return "1"
	}
	return "0"
}
