package concordance

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/cnv/callset"
	"github.com/pkg/errors"
	"v.io/x/lib/envvar"
	"v.io/x/lib/lookpath"
)

// bedLabelSep joins the partition key components into the BED
// chromosome label. Unit separator, so it cannot collide with real
// sample, chromosome or type names.
const bedLabelSep = "\x1f"

// ExecIntersector delegates the reciprocal overlap test to the
// bedtools executable ("bedtools intersect -f <fraction> -r"). The
// partition key is folded into the chromosome label of the
// intermediate BED files, so bedtools never matches across samples or
// types. Results are identical to TreeIntersector's; this exists to
// cross-validate against the widely deployed implementation.
type ExecIntersector struct {
	// Tool is the bedtools binary. Empty means look up "bedtools" in
	// PATH.
	Tool string
	// TempDir is where the intermediate BED files go. Empty means the
	// system default.
	TempDir string
}

// Intersect implements Intersector. bedtools reports hits for its -a
// side only, so each fraction costs two runs, one per direction.
func (x *ExecIntersector) Intersect(ctx context.Context, a, b []callset.Call, fractions []float64) (aHits, bHits [][]bool, err error) {
	tool := x.Tool
	if tool == "" {
		if tool, err = lookpath.Look(envvar.SliceToMap(os.Environ()), "bedtools"); err != nil {
			return nil, nil, errors.Wrap(err, "concordance: bedtools not found")
		}
	}
	tmpdir, err := ioutil.TempDir(x.TempDir, "cnv-intersect")
	if err != nil {
		return nil, nil, err
	}
	defer os.RemoveAll(tmpdir)
	aPath := filepath.Join(tmpdir, "a.bed")
	bPath := filepath.Join(tmpdir, "b.bed")
	if err = writeBED(aPath, a); err != nil {
		return nil, nil, err
	}
	if err = writeBED(bPath, b); err != nil {
		return nil, nil, err
	}
	aHits = newHits(len(fractions), len(a))
	bHits = newHits(len(fractions), len(b))
	for fi, f := range fractions {
		if err = runIntersect(ctx, tool, aPath, bPath, f, aHits[fi]); err != nil {
			return nil, nil, err
		}
		if err = runIntersect(ctx, tool, bPath, aPath, f, bHits[fi]); err != nil {
			return nil, nil, err
		}
	}
	return aHits, bHits, nil
}

// runIntersect runs one bedtools invocation and records the IDs of the
// source-side intervals it reports.
func runIntersect(ctx context.Context, tool, srcPath, destPath string, fraction float64, hits []bool) error {
	args := []string{"intersect",
		"-a", srcPath,
		"-b", destPath,
		"-f", strconv.FormatFloat(fraction, 'g', -1, 64),
		"-r", "-wa"}
	cmd := exec.CommandContext(ctx, tool, args...)
	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s %s: %s", tool, strings.Join(args, " "), stderr.String())
	}
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			id, err := parseBEDID(line)
			if err != nil {
				return err
			}
			hits[id] = true
		}
	}
	return scanner.Err()
}

// writeBED writes the valid calls as half-open BED intervals, with the
// call ID in the name column.
func writeBED(path string, calls []callset.Call) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()
	w := tsv.NewWriter(f)
	for i := range calls {
		c := &calls[i]
		if !c.Valid() {
			continue
		}
		w.WriteString(bedLabel(c))
		w.WriteInt64(int64(c.Start))
		w.WriteInt64(int64(c.End))
		w.WriteInt64(int64(c.ID))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}

func bedLabel(c *callset.Call) string {
	return c.SampleID + bedLabelSep + c.Chr + bedLabelSep + c.Type
}

func parseBEDID(line string) (int32, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return 0, fmt.Errorf("concordance: malformed bedtools output line %q", line)
	}
	id, err := strconv.Atoi(fields[3])
	if err != nil {
		return 0, errors.Wrapf(err, "concordance: bedtools output line %q", line)
	}
	return int32(id), nil
}
