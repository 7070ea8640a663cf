// Package trio annotates the CNV calls of children with whether each
// call is also observed in a parent.
//
// The pedigree names the trios. For every child, the father's and
// mother's calls are pooled and the child's calls are tested for
// reciprocal overlap against the pool, at one or more fractions. Each
// fraction contributes one boolean output column. A call in a parent
// shared by several children is tested against each child
// independently.
package trio

import (
	"context"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/cnv/callset"
	"github.com/grailbio/cnv/concordance"
	"github.com/grailbio/cnv/util"
	"github.com/pkg/errors"
)

// Fraction is one reciprocal overlap threshold together with the label
// it had on the command line. The label names the output column, so
// "0.50" and "0.5" produce differently named but identical columns.
type Fraction struct {
	Value float64
	Label string
}

// observedCol prefixes the per-fraction output columns.
const observedCol = "observed_in_parent_ovlap"

// Column returns the name of the output column for this fraction.
func (f Fraction) Column() string { return observedCol + f.Label }

// ParseFractions parses a comma-separated fraction list, e.g.
// "0.5,0.1".
func ParseFractions(list string) ([]Fraction, error) {
	var fractions []Fraction
	seen := map[string]bool{}
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "trio: overlap fraction %q", s)
		}
		if v <= 0 || v > 1 {
			return nil, errors.Errorf("trio: overlap fraction %v outside (0, 1]", v)
		}
		if seen[s] {
			return nil, errors.Errorf("trio: duplicate overlap fraction %q", s)
		}
		seen[s] = true
		fractions = append(fractions, Fraction{Value: v, Label: s})
	}
	if len(fractions) == 0 {
		return nil, errors.New("trio: no overlap fractions given")
	}
	return fractions, nil
}

// Opts controls an inheritance run.
type Opts struct {
	// Fractions are the thresholds to evaluate, one output column each.
	Fractions []Fraction
	// TypeCol optionally names the column whose value must also agree
	// between a child call and a parental call. Empty compares calls of
	// all types against each other.
	TypeCol string
	// Parallelism bounds the number of concurrent partition workers.
	// <= 0 means runtime.NumCPU().
	Parallelism int
	// Intersector overrides the coordinate matcher. Nil means an
	// in-process concordance.TreeIntersector.
	Intersector concordance.Intersector
}

// DefaultOpts is the configuration used by the bio-cnv inheritance
// command when no flags are given.
var DefaultOpts = Opts{Fractions: []Fraction{{Value: 0.5, Label: "0.5"}}}

// Result is the outcome of an inheritance run.
type Result struct {
	// Child holds the input rows of trio children, in input order.
	Child *callset.CallSet
	// Flags[fi][id] reports whether child call id was observed in a
	// parent at Fractions[fi].
	Flags [][]bool
	// Fractions are the evaluated thresholds, as passed to Run.
	Fractions []Fraction
	// NumTrios is the number of complete trios.
	NumTrios int
}

// Columns returns the per-fraction output columns to append to the
// child rows.
func (r *Result) Columns() []callset.ExtraColumn {
	cols := make([]callset.ExtraColumn, len(r.Fractions))
	for fi, f := range r.Fractions {
		flags := r.Flags[fi]
		cols[fi] = callset.ExtraColumn{
			Name:  f.Column(),
			Value: func(id int32) string { return strconv.FormatBool(flags[id]) },
		}
	}
	return cols
}

// Observed returns the number of child calls observed in a parent at
// Fractions[fi].
func (r *Result) Observed(fi int) int {
	n := 0
	for _, hit := range r.Flags[fi] {
		if hit {
			n++
		}
	}
	return n
}

// Run annotates the trio children of cnv according to ped.
func Run(ctx context.Context, cnv *callset.CallSet, ped *Pedigree, opts Opts) (*Result, error) {
	trios := ped.Complete(cnv)
	log.Printf("%d of %d pedigree rows form complete trios", len(trios), len(ped.Trios))
	if len(trios) == 0 {
		return nil, &callset.EmptyCollectionError{Collection: "child"}
	}
	typeOf := func(*callset.Call) string { return "" }
	if opts.TypeCol != "" {
		field, ok := cnv.Field(opts.TypeCol)
		if !ok {
			serr := &callset.SchemaError{Path: cnv.Path, Column: opts.TypeCol}
			serr.Suggestion, _ = util.Suggest(opts.TypeCol, cnv.Header)
			return nil, serr
		}
		typeOf = func(c *callset.Call) string { return field(c.ID) }
	}
	asm := assemble(cnv, trios, typeOf)
	if numValid(asm.children) == 0 {
		return nil, &callset.EmptyCollectionError{Collection: "child"}
	}
	if numValid(asm.parents) == 0 {
		return nil, &callset.EmptyCollectionError{Collection: "parents"}
	}
	log.Printf("matching %d child calls against %d parental calls", len(asm.children), len(asm.parents))

	intersector := opts.Intersector
	if intersector == nil {
		intersector = &concordance.TreeIntersector{Parallelism: opts.Parallelism}
	}
	values := make([]float64, len(opts.Fractions))
	for fi, f := range opts.Fractions {
		values[fi] = f.Value
	}
	hits, _, err := intersector.Intersect(ctx, asm.children, asm.parents, values)
	if err != nil {
		return nil, err
	}
	r := &Result{
		Child:     cnv.Subset(asm.childIDs),
		Flags:     hits,
		Fractions: opts.Fractions,
		NumTrios:  len(trios),
	}
	for fi, f := range r.Fractions {
		log.Printf("fraction %s: %d of %d child calls observed in a parent",
			f.Label, r.Observed(fi), len(r.Flags[fi]))
	}
	return r, nil
}

// assembly holds the derived call sets fed to the intersector. Both
// sides are keyed by (child, Chr, type): a child call by the child's
// own sample, a parental call by the child it is pooled for, once per
// child of that parent.
type assembly struct {
	childIDs []int32 // input row IDs of child calls, input order
	children []callset.Call
	parents  []callset.Call
}

func assemble(cs *callset.CallSet, trios []Trio, typeOf func(c *callset.Call) string) *assembly {
	isChild := map[string]bool{}
	childrenOf := map[string][]string{}
	edgeSeen := map[[2]string]bool{}
	addEdge := func(parent, child string) {
		k := [2]string{parent, child}
		if edgeSeen[k] {
			return
		}
		edgeSeen[k] = true
		childrenOf[parent] = append(childrenOf[parent], child)
	}
	for _, trio := range trios {
		isChild[trio.Child] = true
		addEdge(trio.Father, trio.Child)
		addEdge(trio.Mother, trio.Child)
	}
	asm := &assembly{}
	for i := range cs.Calls {
		c := &cs.Calls[i]
		if isChild[c.SampleID] {
			asm.childIDs = append(asm.childIDs, c.ID)
			asm.children = append(asm.children, derived(c, int32(len(asm.children)), c.SampleID, typeOf))
		}
		for _, child := range childrenOf[c.SampleID] {
			asm.parents = append(asm.parents, derived(c, int32(len(asm.parents)), child, typeOf))
		}
	}
	return asm
}

func derived(c *callset.Call, id int32, qualifier string, typeOf func(c *callset.Call) string) callset.Call {
	return callset.Call{
		ID:       id,
		SampleID: qualifier,
		Chr:      c.Chr,
		Start:    c.Start,
		End:      c.End,
		Type:     typeOf(c),
	}
}

func numValid(calls []callset.Call) int {
	n := 0
	for i := range calls {
		if calls[i].Valid() {
			n++
		}
	}
	return n
}
