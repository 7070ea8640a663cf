package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/cnv/callset"
	"github.com/grailbio/cnv/concordance"
	"golang.org/x/sync/errgroup"
	"v.io/x/lib/cmdline"
)

type concordanceFlags struct {
	fileA, fileB string
	outA, outB   string
	fraction     float64
	geneCol      string
	parallelism  int
}

func newCmdConcordance() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "concordance",
		Short: `Compare two CNV call files.
Each call is flagged with whether the other file has a call with reciprocal
coordinate overlap, and, when both files carry a gene column, with whether the
other file has a call with the same (SampleID, Type, gene) tuple.`,
	}
	flags := concordanceFlags{}
	cmd.Flags.StringVar(&flags.fileA, "a", "", "Path to the first call file (TSV; .gz or .lz4 allowed)")
	cmd.Flags.StringVar(&flags.fileB, "b", "", "Path to the second call file")
	cmd.Flags.StringVar(&flags.outA, "out-a", "comparison_a.tsv", "Output path for the first file's annotated calls")
	cmd.Flags.StringVar(&flags.outB, "out-b", "comparison_b.tsv", "Output path for the second file's annotated calls")
	cmd.Flags.Float64Var(&flags.fraction, "overlap", concordance.DefaultOpts.Fraction, "Reciprocal overlap fraction, in (0, 1]")
	cmd.Flags.StringVar(&flags.geneCol, "gene-col", callset.DefaultReadOpts.GeneCol, "Name of the optional gene column")
	cmd.Flags.IntVar(&flags.parallelism, "parallelism", 0, "Limit on concurrent workers. 0 means the number of CPUs")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("concordance takes no positional arguments, but got %v", argv)
		}
		if flags.fileA == "" || flags.fileB == "" {
			return fmt.Errorf("concordance requires both -a and -b")
		}
		if flags.fraction <= 0 || flags.fraction > 1 {
			return fmt.Errorf("-overlap %v outside (0, 1]", flags.fraction)
		}
		return runConcordance(flags)
	})
	return cmd
}

func runConcordance(flags concordanceFlags) error {
	ctx := vcontext.Background()
	var a, b *callset.CallSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = callset.Read(gctx, flags.fileA, callset.ReadOpts{GeneCol: flags.geneCol, Name: "File A"})
		return err
	})
	g.Go(func() error {
		var err error
		b, err = callset.Read(gctx, flags.fileB, callset.ReadOpts{GeneCol: flags.geneCol, Name: "File B"})
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	ra, rb, err := concordance.Run(ctx, a, b, concordance.Opts{
		Fraction:    flags.fraction,
		Parallelism: flags.parallelism,
	})
	if err != nil {
		return err
	}
	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Print(ra.Stats().Summary(a.Name))
	fmt.Println()
	fmt.Print(rb.Stats().Summary(b.Name))
	fmt.Println()
	log.Printf("saving results to %s and %s", flags.outA, flags.outB)
	if err := callset.Write(ctx, a, flags.outA, ra.Columns()); err != nil {
		return err
	}
	return callset.Write(ctx, b, flags.outB, rb.Columns())
}
