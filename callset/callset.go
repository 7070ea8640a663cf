// Package callset holds the CNV call model: reading and writing call
// tables, schema validation, and the partition index that groups calls
// before any pair of them is compared.
package callset

// Call is one CNV record from a call table.
type Call struct {
	// ID is the dense per-collection record identifier: the call's position
	// in CallSet.Calls. It is assigned in input order, is stable for the
	// run, and never appears in output.
	ID       int32
	SampleID string
	Chr      string
	Start    int
	End      int
	Type     string
	// Gene is the value of the optional gene column. Empty when the column
	// is absent from the collection or the cell itself is empty; an empty
	// gene never matches anything.
	Gene string

	// fields holds every input cell of the row, in header order, so output
	// rows reproduce input rows verbatim.
	fields []string
}

// Valid reports whether the call's coordinates are usable for matching.
// Calls with End <= Start are excluded from matching but still written to
// output with zero flags.
func (c *Call) Valid() bool { return c.End > c.Start }

// Key identifies the partition a call belongs to. Two calls are compared
// only if their Keys are equal; this is a hard pre-filter, not a hint.
type Key struct {
	Sample string
	Chr    string
	Type   string
}

// KeyOf returns the partition key of c.
func KeyOf(c *Call) Key { return Key{Sample: c.SampleID, Chr: c.Chr, Type: c.Type} }

func (k Key) less(o Key) bool {
	if k.Sample != o.Sample {
		return k.Sample < o.Sample
	}
	if k.Chr != o.Chr {
		return k.Chr < o.Chr
	}
	return k.Type < o.Type
}

// CallSet is an ordered collection of calls read from one file. Order is
// meaningful only for output reproduction, never for matching.
type CallSet struct {
	// Name labels the collection in logs, summaries and errors.
	Name string
	// Path is the file the collection was read from.
	Path string
	// Header is the input header, in input order.
	Header []string
	// Calls holds the records in input order; Calls[i].ID == i.
	Calls []Call
	// NumInvalid is the number of calls with End <= Start.
	NumInvalid int

	geneCol int // index in Header of the gene column, or -1
}

// HasGene reports whether the collection carries the optional gene column.
func (cs *CallSet) HasGene() bool { return cs.geneCol >= 0 }

// NumValid returns the number of calls usable for matching.
func (cs *CallSet) NumValid() int { return len(cs.Calls) - cs.NumInvalid }

// Field returns a getter for the raw cells of the named input column,
// or false if the collection has no such column.
func (cs *CallSet) Field(name string) (func(id int32) string, bool) {
	for i, col := range cs.Header {
		if col == name {
			return func(id int32) string { return cs.Calls[id].fields[i] }, true
		}
	}
	return nil, false
}

// Subset returns a new collection containing the given rows, in the given
// order, re-identified densely from zero. Row cells are shared with the
// receiver, not copied.
func (cs *CallSet) Subset(ids []int32) *CallSet {
	sub := &CallSet{
		Name:    cs.Name,
		Path:    cs.Path,
		Header:  cs.Header,
		Calls:   make([]Call, 0, len(ids)),
		geneCol: cs.geneCol,
	}
	for _, id := range ids {
		c := cs.Calls[id]
		c.ID = int32(len(sub.Calls))
		if !c.Valid() {
			sub.NumInvalid++
		}
		sub.Calls = append(sub.Calls, c)
	}
	return sub
}
