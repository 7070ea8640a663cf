package interval

// Span is a half-open interval [Start, End) tagged with the caller's record
// identifier. A Span is valid iff End > Start.
type Span struct {
	ID    int32
	Start int
	End   int
}

// Len returns the length of the span.
func (s Span) Len() int { return s.End - s.Start }

// Valid reports whether the span has positive length.
func (s Span) Valid() bool { return s.End > s.Start }

// OverlapLen returns the length of the intersection of a and b. The result
// is <= 0 when the spans do not intersect; spans that merely touch yield 0.
func OverlapLen(a, b Span) int {
	start := a.Start
	if b.Start > start {
		start = b.Start
	}
	end := a.End
	if b.End < end {
		end = b.End
	}
	return end - start
}

// Qualifies reports whether a and b overlap reciprocally at fraction f: the
// intersection must be positive and cover at least f of the length of each
// span. f is expected to be in (0, 1].
func Qualifies(a, b Span, f float64) bool {
	ovl := OverlapLen(a, b)
	if ovl <= 0 {
		return false
	}
	o := float64(ovl)
	return o >= f*float64(a.Len()) && o >= f*float64(b.Len())
}
