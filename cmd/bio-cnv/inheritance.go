package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/cnv/callset"
	"github.com/grailbio/cnv/concordance"
	"github.com/grailbio/cnv/trio"
	"v.io/x/lib/cmdline"
)

type inheritanceFlags struct {
	cnvPath     string
	pedPath     string
	out         string
	overlaps    string
	typeCol     string
	useBedtools bool
	parallelism int
}

func newCmdInheritance() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "inheritance",
		Short: `Annotate the CNV calls of trio children with parental support.
For every complete trio in the pedigree, each child call is tested for
reciprocal overlap against the pooled calls of the father and the mother, at
one or more fractions. Samples not mentioned in the pedigree are ignored.`,
	}
	flags := inheritanceFlags{}
	cmd.Flags.StringVar(&flags.cnvPath, "cnv", "", "Path to the merged CNV call file (TSV; .gz or .lz4 allowed)")
	cmd.Flags.StringVar(&flags.pedPath, "pedigree", "", "Path to the pedigree file (columns SampleID, FatherID, MotherID)")
	cmd.Flags.StringVar(&flags.out, "out", "annotated_child_cnv.tsv", "Output path for the annotated child calls")
	cmd.Flags.StringVar(&flags.overlaps, "overlap", "0.5", "Comma-separated reciprocal overlap fractions, e.g. 0.5,0.1")
	cmd.Flags.StringVar(&flags.typeCol, "type-col", "", "Column that must also agree between child and parental calls, e.g. Type. Empty compares calls of all types against each other")
	cmd.Flags.BoolVar(&flags.useBedtools, "bedtools", false, "Delegate the overlap test to the bedtools executable on PATH")
	cmd.Flags.IntVar(&flags.parallelism, "parallelism", 0, "Limit on concurrent workers. 0 means the number of CPUs")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("inheritance takes no positional arguments, but got %v", argv)
		}
		if flags.cnvPath == "" || flags.pedPath == "" {
			return fmt.Errorf("inheritance requires both -cnv and -pedigree")
		}
		return runInheritance(flags)
	})
	return cmd
}

func runInheritance(flags inheritanceFlags) error {
	ctx := vcontext.Background()
	fractions, err := trio.ParseFractions(flags.overlaps)
	if err != nil {
		return err
	}
	ped, err := trio.ReadPedigree(ctx, flags.pedPath)
	if err != nil {
		return err
	}
	log.Printf("read %d pedigree rows from %s", len(ped.Trios), flags.pedPath)
	cnv, err := callset.Read(ctx, flags.cnvPath, callset.ReadOpts{
		GeneCol:    callset.DefaultReadOpts.GeneCol,
		Name:       "cnv",
		KeepSample: ped.Mentions,
	})
	if err != nil {
		return err
	}
	opts := trio.Opts{
		Fractions:   fractions,
		TypeCol:     flags.typeCol,
		Parallelism: flags.parallelism,
	}
	if flags.useBedtools {
		opts.Intersector = &concordance.ExecIntersector{}
	}
	r, err := trio.Run(ctx, cnv, ped, opts)
	if err != nil {
		return err
	}
	if err := callset.Write(ctx, r.Child, flags.out, r.Columns()); err != nil {
		return err
	}
	log.Printf("results written to %s", flags.out)
	return nil
}
