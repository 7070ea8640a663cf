/*Package interval implements reciprocal-overlap tests between half-open
  genomic intervals, plus an interval tree for enumerating overlap
  candidates within a group.
  (Note that overlapping intervals are tracked separately, never merged;
  every indexed interval keeps its own identity so per-record match flags
  can be computed.)
  Coordinates are plain ints; callers are trusted to supply self-consistent
  0- or 1-based positions.
*/
package interval
