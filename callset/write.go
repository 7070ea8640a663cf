package callset

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4"
)

// ExtraColumn is an output column appended after the input columns.
type ExtraColumn struct {
	// Name is the column header.
	Name string
	// Value returns the cell for the call with the given ID.
	Value func(id int32) string
}

// Write writes the collection to path as TSV: the input columns verbatim,
// in input row order, followed by the extra columns. A .gz or .lz4 path
// suffix selects the corresponding compression.
func Write(ctx context.Context, cs *CallSet, path string, extra []ExtraColumn) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	var w io.Writer = out.Writer(ctx)
	var zw io.WriteCloser
	switch {
	case strings.HasSuffix(path, ".gz"):
		zw = gzip.NewWriter(w)
		w = zw
	case strings.HasSuffix(path, ".lz4"):
		zw = lz4.NewWriter(w)
		w = zw
	}
	once := errors.Once{}
	once.Set(writeRows(tsv.NewWriter(w), cs, extra))
	if zw != nil {
		once.Set(zw.Close())
	}
	once.Set(out.Close(ctx))
	return once.Err()
}

func writeRows(tw *tsv.Writer, cs *CallSet, extra []ExtraColumn) error {
	for _, col := range cs.Header {
		tw.WriteString(col)
	}
	for _, col := range extra {
		tw.WriteString(col.Name)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i := range cs.Calls {
		c := &cs.Calls[i]
		for _, cell := range c.fields {
			tw.WriteString(cell)
		}
		for _, col := range extra {
			tw.WriteString(col.Value(c.ID))
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
