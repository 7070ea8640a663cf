package concordance_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/cnv/callset"
	"github.com/grailbio/cnv/concordance"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func readSet(t *testing.T, tmpdir, name, content string) *callset.CallSet {
	ctx := vcontext.Background()
	path := filepath.Join(tmpdir, name+".tsv")
	out, err := file.Create(ctx, path)
	assert.NoError(t, err)
	_, err = out.Writer(ctx).Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, out.Close(ctx))
	opts := callset.DefaultReadOpts
	opts.Name = name
	cs, err := callset.Read(ctx, path, opts)
	assert.NoError(t, err)
	return cs
}

// The worked example: A = [100, 200), B = [150, 300), overlap 50.
// At f=0.5 B needs 75 overlapping bases, so neither side qualifies; at
// f=0.1 both do.
func TestRunThreshold(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	a := readSet(t, tmpdir, "a", "SampleID\tChr\tStart\tEnd\tType\nS1\tchr1\t100\t200\tDEL\n")
	b := readSet(t, tmpdir, "b", "SampleID\tChr\tStart\tEnd\tType\nS1\tchr1\t150\t300\tDEL\n")

	for _, tc := range []struct {
		fraction float64
		want     bool
	}{
		{0.5, false},
		{0.1, true},
	} {
		ra, rb, err := concordance.Run(ctx, a, b, concordance.Opts{Fraction: tc.fraction})
		assert.NoError(t, err)
		expect.EQ(t, ra.CNV[0], tc.want)
		expect.EQ(t, rb.CNV[0], tc.want)
		expect.False(t, ra.GeneChecked)
		expect.False(t, rb.GeneChecked)
	}
}

// One qualifying partner is enough even when another candidate fails.
func TestRunExistential(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	a := readSet(t, tmpdir, "a", "SampleID\tChr\tStart\tEnd\tType\nS1\tchr1\t100\t200\tDEL\n")
	b := readSet(t, tmpdir, "b", `SampleID	Chr	Start	End	Type
S1	chr1	100	200	DEL
S1	chr1	195	400	DEL
`)
	ra, rb, err := concordance.Run(ctx, a, b, concordance.DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, ra.CNV, []bool{true})
	expect.EQ(t, rb.CNV, []bool{true, false})
}

// Identical coordinates never match across partition keys.
func TestRunKeyMismatch(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	a := readSet(t, tmpdir, "a", `SampleID	Chr	Start	End	Type
S1	chr1	100	200	DEL
S1	chr2	100	200	DEL
S1	chr1	100	200	DUP
`)
	b := readSet(t, tmpdir, "b", "SampleID\tChr\tStart\tEnd\tType\nS2\tchr1\t100\t200\tDEL\n")
	ra, rb, err := concordance.Run(ctx, a, b, concordance.DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, ra.CNV, []bool{false, false, false})
	expect.EQ(t, rb.CNV, []bool{false})
}

// An exact gene tuple match flags 1 even with disjoint coordinates, and
// the coordinate flag is unaffected in the other direction.
func TestRunGeneIndependent(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	a := readSet(t, tmpdir, "a", "SampleID\tChr\tStart\tEnd\tType\tGeneID\nS1\tchr1\t100\t200\tDEL\tGENE1\n")
	b := readSet(t, tmpdir, "b", "SampleID\tChr\tStart\tEnd\tType\tGeneID\nS1\tchr9\t5000\t6000\tDEL\tGENE1\n")
	ra, rb, err := concordance.Run(ctx, a, b, concordance.DefaultOpts)
	assert.NoError(t, err)
	expect.True(t, ra.GeneChecked)
	expect.EQ(t, ra.CNV, []bool{false})
	expect.EQ(t, ra.Gene, []bool{true})
	expect.EQ(t, rb.CNV, []bool{false})
	expect.EQ(t, rb.Gene, []bool{true})
}

// A gene column missing on either side degrades the gene flag to NA for
// every call on both sides.
func TestRunGeneDegraded(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	a := readSet(t, tmpdir, "a", "SampleID\tChr\tStart\tEnd\tType\tGeneID\nS1\tchr1\t100\t200\tDEL\tGENE1\n")
	b := readSet(t, tmpdir, "b", "SampleID\tChr\tStart\tEnd\tType\nS1\tchr1\t100\t200\tDEL\n")
	ra, rb, err := concordance.Run(ctx, a, b, concordance.DefaultOpts)
	assert.NoError(t, err)
	expect.False(t, ra.GeneChecked)
	expect.False(t, rb.GeneChecked)

	cols := ra.Columns()
	expect.EQ(t, cols[0].Name, "CNV_based_overlap")
	expect.EQ(t, cols[1].Name, "gene_based_overlap")
	expect.EQ(t, cols[0].Value(0), "1")
	expect.EQ(t, cols[1].Value(0), "NA")

	stats := ra.Stats()
	expect.EQ(t, stats.Summary("File A"), "File A: 1 CNVs\n  CNV-overlap: 1 (100.00%)\n")
}

// Calls with End <= Start are excluded from matching on both sides,
// including the coordinate-free gene check.
func TestRunInvalidExcluded(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	a := readSet(t, tmpdir, "a", `SampleID	Chr	Start	End	Type	GeneID
S1	chr1	500	400	DEL	GENE9
S1	chr1	100	200	DEL	GENE1
`)
	b := readSet(t, tmpdir, "b", "SampleID\tChr\tStart\tEnd\tType\tGeneID\nS1\tchr5\t1\t100\tDEL\tGENE9\n")
	expect.EQ(t, a.NumInvalid, 1)

	ra, rb, err := concordance.Run(ctx, a, b, concordance.DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, ra.Gene, []bool{false, false})
	expect.EQ(t, rb.Gene, []bool{false})
}

func TestRunEmptyCollection(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	a := readSet(t, tmpdir, "a", "SampleID\tChr\tStart\tEnd\tType\nS1\tchr1\t100\t200\tDEL\n")
	b := readSet(t, tmpdir, "b", "SampleID\tChr\tStart\tEnd\tType\nS1\tchr1\t300\t250\tDEL\n")

	_, _, err := concordance.Run(ctx, a, b, concordance.DefaultOpts)
	eerr, ok := err.(*callset.EmptyCollectionError)
	assert.True(t, ok)
	expect.EQ(t, eerr.Collection, "b")
	expect.EQ(t, eerr.Error(), "b: no valid records to compare")
}

func TestStats(t *testing.T) {
	r := &concordance.Result{
		CNV:         []bool{true, true, false},
		Gene:        []bool{true, false, false},
		GeneChecked: true,
	}
	stats := r.Stats()
	expect.EQ(t, stats, concordance.Stats{
		Total:       3,
		CNVOverlap:  2,
		GeneOverlap: 1,
		BothOverlap: 1,
		GeneChecked: true,
	})
	want := `File A: 3 CNVs
  CNV-overlap: 2 (66.67%)
  Gene-overlap: 1 (33.33%)
  Both overlap types: 1 (33.33%)
`
	expect.EQ(t, stats.Summary("File A"), want)
}

// Annotated output keeps every input row, in input order, with the
// input columns as a strict prefix, for any worker count.
func TestRunAnnotatedOutput(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	a := readSet(t, tmpdir, "a", `SampleID	Chr	Start	End	Type	GeneID	Caller
S1	chr1	100	200	DEL	GENE1	cnvkit
S1	chr1	999	900	DEL	GENE2	cnvkit
S2	chr2	100	200	DUP		manta
`)
	b := readSet(t, tmpdir, "b", `SampleID	Chr	Start	End	Type	GeneID
S1	chr1	120	210	DEL	GENE1
S2	chr2	100	200	DUP	GENE3
`)
	want := `SampleID	Chr	Start	End	Type	GeneID	Caller	CNV_based_overlap	gene_based_overlap
S1	chr1	100	200	DEL	GENE1	cnvkit	1	1
S1	chr1	999	900	DEL	GENE2	cnvkit	0	0
S2	chr2	100	200	DUP		manta	1	0
`
	for _, parallelism := range []int{1, 8} {
		ra, _, err := concordance.Run(ctx, a, b, concordance.Opts{Fraction: 0.5, Parallelism: parallelism})
		assert.NoError(t, err)
		outPath := filepath.Join(tmpdir, "out.tsv")
		assert.NoError(t, callset.Write(ctx, a, outPath, ra.Columns()))
		got, err := ioutil.ReadFile(outPath)
		assert.NoError(t, err)
		expect.EQ(t, string(got), want)
	}
}
