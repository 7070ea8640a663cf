package callset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/cnv/util"
	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
)

// Mandatory column names. The gene column is configurable because it is
// optional and appears under different names in the wild.
const (
	colSample = "SampleID"
	colChr    = "Chr"
	colStart  = "Start"
	colEnd    = "End"
	colType   = "Type"
)

// ReadOpts configures Read.
type ReadOpts struct {
	// GeneCol is the header name of the optional gene column. Empty
	// disables gene handling entirely.
	GeneCol string
	// Name labels the collection in logs, summaries and errors. Defaults
	// to the path.
	Name string
	// KeepSample, when non-nil, restricts the collection to rows whose
	// SampleID it accepts. Dropped rows are not part of the collection at
	// all: they get no flags and appear in no output.
	KeepSample func(sample string) bool
}

// DefaultReadOpts is the default configuration for Read.
var DefaultReadOpts = ReadOpts{GeneCol: "GeneID"}

// Read loads a call table from a tab-separated file with one header row.
// The header must carry the mandatory columns; any additional columns pass
// through to output untouched. Files ending in .lz4, or in a suffix
// compress recognizes (.gz, .bz2, .zst), are decompressed transparently.
func Read(ctx context.Context, path string, opts ReadOpts) (cs *CallSet, err error) {
	name := opts.Name
	if name == "" {
		name = path
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "callset.Read %s", name)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.Wrapf(e, "callset.Read %s", name)
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if strings.HasSuffix(path, ".lz4") {
		r = lz4.NewReader(r)
	} else if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if e := scanner.Err(); e != nil {
			return nil, errors.Wrapf(e, "callset.Read %s", name)
		}
		return nil, fmt.Errorf("callset.Read %s: empty file, expected a header row", name)
	}
	header := strings.Split(scanner.Text(), "\t")
	find := func(col string) (int, error) {
		for i, h := range header {
			if h == col {
				return i, nil
			}
		}
		serr := &SchemaError{Path: name, Column: col}
		if s, ok := util.Suggest(col, header); ok {
			serr.Suggestion = s
		}
		return -1, serr
	}
	var sampleIdx, chrIdx, startIdx, endIdx, typeIdx int
	if sampleIdx, err = find(colSample); err != nil {
		return nil, err
	}
	if chrIdx, err = find(colChr); err != nil {
		return nil, err
	}
	if startIdx, err = find(colStart); err != nil {
		return nil, err
	}
	if endIdx, err = find(colEnd); err != nil {
		return nil, err
	}
	if typeIdx, err = find(colType); err != nil {
		return nil, err
	}
	geneIdx := -1
	if opts.GeneCol != "" {
		for i, h := range header {
			if h == opts.GeneCol {
				geneIdx = i
				break
			}
		}
	}
	cs = &CallSet{Name: name, Path: path, Header: header, geneCol: geneIdx}

	nLine := 1
	for scanner.Scan() {
		nLine++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("callset.Read %s:%d: %d fields, expected %d", name, nLine, len(fields), len(header))
		}
		for _, m := range []struct {
			idx int
			col string
		}{{sampleIdx, colSample}, {chrIdx, colChr}, {startIdx, colStart}, {endIdx, colEnd}, {typeIdx, colType}} {
			if fields[m.idx] == "" {
				return nil, &SchemaError{Path: name, Line: nLine, Column: m.col}
			}
		}
		start, perr := strconv.Atoi(fields[startIdx])
		if perr != nil {
			return nil, errors.Wrapf(perr, "callset.Read %s:%d: column %s", name, nLine, colStart)
		}
		end, perr := strconv.Atoi(fields[endIdx])
		if perr != nil {
			return nil, errors.Wrapf(perr, "callset.Read %s:%d: column %s", name, nLine, colEnd)
		}
		if opts.KeepSample != nil && !opts.KeepSample(fields[sampleIdx]) {
			continue
		}
		c := Call{
			ID:       int32(len(cs.Calls)),
			SampleID: fields[sampleIdx],
			Chr:      fields[chrIdx],
			Start:    start,
			End:      end,
			Type:     fields[typeIdx],
			fields:   fields,
		}
		if geneIdx >= 0 {
			c.Gene = fields[geneIdx]
		}
		if !c.Valid() {
			cs.NumInvalid++
		}
		cs.Calls = append(cs.Calls, c)
	}
	if e := scanner.Err(); e != nil {
		return nil, errors.Wrapf(e, "callset.Read %s", name)
	}
	if cs.NumInvalid > 0 {
		log.Printf("%s: %d records with End <= Start will be excluded from matching", name, cs.NumInvalid)
	}
	log.Printf("%s: loaded %d records", name, len(cs.Calls))
	return cs, nil
}
