package trio

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/cnv/callset"
	"github.com/pkg/errors"
	"gopkg.in/fatih/set.v0"
)

// Trio is one pedigree row.
type Trio struct {
	Child  string `tsv:"SampleID"`
	Father string `tsv:"FatherID"`
	Mother string `tsv:"MotherID"`
}

// Pedigree is the set of trios to analyze. Relatedness and sex
// inference happen upstream; rows arrive pre-validated.
type Pedigree struct {
	Trios []Trio

	ids set.Interface // every sample mentioned in any column
}

// ReadPedigree reads a pedigree table with columns SampleID, FatherID
// and MotherID.
func ReadPedigree(ctx context.Context, path string) (p *Pedigree, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.Wrapf(e, "trio.ReadPedigree %s", path)
		}
	}()
	r := tsv.NewReader(in.Reader(ctx))
	r.HasHeaderRow = true
	r.UseHeaderNames = true
	p = &Pedigree{ids: set.New(set.NonThreadSafe)}
	for {
		var row Trio
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "trio.ReadPedigree %s", path)
		}
		p.Trios = append(p.Trios, row)
		p.ids.Add(row.Child, row.Father, row.Mother)
	}
	return p, nil
}

// Mentions reports whether sample appears anywhere in the pedigree, as
// child or parent. Used to drop unrelated samples before loading their
// calls.
func (p *Pedigree) Mentions(sample string) bool {
	return p.ids.Has(sample)
}

// Complete returns the trios whose child, father and mother all have
// at least one call in cs, in pedigree order. Presence is what counts;
// a member whose calls are all invalid still completes its trio.
func (p *Pedigree) Complete(cs *callset.CallSet) []Trio {
	present := set.New(set.NonThreadSafe)
	for i := range cs.Calls {
		present.Add(cs.Calls[i].SampleID)
	}
	var trios []Trio
	for _, trio := range p.Trios {
		if present.Has(trio.Child) && present.Has(trio.Father) && present.Has(trio.Mother) {
			trios = append(trios, trio)
		}
	}
	return trios
}
