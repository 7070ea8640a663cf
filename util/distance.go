package util

import (
	"fmt"
	"strconv"
	"strings"
)

// matrix represents a 2 dimensional matrix.
type matrix struct {
	nRow, nCol int
	data       []int // row-major nRow*nCol array.
}

// newMatrix returns an n x m matrix.
func newMatrix(n, m int) (x matrix) {
	return matrix{
		nRow: n,
		nCol: m,
		data: make([]int, n*m),
	}
}

// String returns a string representation of a matrix.
func (m matrix) String() (r string) {
	maxLength := 0
	for _, d := range m.data {
		if l := len(strconv.Itoa(d)); l > maxLength {
			maxLength = l
		}
	}

	lines := []string{"\n"}
	for i := 0; i < m.nRow; i++ {
		var parts []string
		for j := 0; j < m.nCol; j++ {
			parts = append(parts, fmt.Sprintf("%0*s", maxLength, strconv.Itoa(m.data[i*m.nCol+j])))
		}
		lines = append(lines, strings.Join(parts, " | "))
	}
	return strings.Join(lines, "\n")
}

// computeCell computes the cell (i, j) in a Levenshtein matrix.
func (m matrix) computeCell(i, j int, r1, r2 []byte) {
	if i == 0 {
		m.data[i*m.nCol+j] = j
		return
	}
	if j == 0 {
		m.data[i*m.nCol+j] = i
		return
	}
	if r1[i-1] == r2[j-1] {
		m.data[i*m.nCol+j] = m.data[(i-1)*m.nCol+(j-1)]
		return
	}

	downValue := m.data[(i-1)*m.nCol+j] + 1
	diagonalValue := m.data[(i-1)*m.nCol+(j-1)] + 1
	rightValue := m.data[i*m.nCol+(j-1)] + 1

	minValue := downValue
	if diagonalValue < minValue {
		minValue = diagonalValue
	}
	if rightValue < minValue {
		minValue = rightValue
	}

	m.data[i*m.nCol+j] = minValue
}

// Levenshtein computes the Levenshtein distance between two strings: the
// number of single-character insertions, deletions, and substitutions it
// takes to transform s1 into s2. Each step in the transformation "costs" one
// distance point. The strings may have different lengths.
func Levenshtein(s1, s2 string) (distance int) {
	r1 := []byte(s1)
	r2 := []byte(s2)

	rows := len(r1)
	cols := len(r2)

	m := newMatrix(rows+1, cols+1)
	for i := 0; i <= rows; i++ {
		for j := 0; j <= cols; j++ {
			m.computeCell(i, j, r1, r2)
		}
	}
	return m.data[rows*m.nCol+cols]
}

// maxSuggestDistance bounds how far a candidate may be from the wanted name
// before Suggest stops treating it as a plausible misspelling.
const maxSuggestDistance = 2

// Suggest returns the candidate most likely to be a misspelling of want,
// comparing case-insensitively. The second return value is false when no
// candidate is within maxSuggestDistance edits. Ties are broken by candidate
// order, so the result is deterministic.
func Suggest(want string, candidates []string) (string, bool) {
	lowerWant := strings.ToLower(want)
	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, c := range candidates {
		d := Levenshtein(lowerWant, strings.ToLower(c))
		if d < bestDistance {
			best = c
			bestDistance = d
		}
	}
	return best, bestDistance <= maxSuggestDistance
}
