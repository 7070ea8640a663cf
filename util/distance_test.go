package util

import (
	"reflect"
	"testing"

	"github.com/antzucaro/matchr"
)

// TestLevenshtein tests our implementation of the Levenshtein distance
// against the reference implementation in the matchr package.
func TestLevenshtein(t *testing.T) {
	tests := []struct {
		s1   string
		s2   string
		want int
	}{
		{"", "", 0},
		{"SampleID", "SampleID", 0},
		{"SampleId", "SampleID", 1},
		{"Gene_ID", "GeneID", 1},
		{"Strt", "Start", 1},
		{"Chrom", "Chr", 2},
		{"End", "Start", 5},
		{"ACAATTGG", "AXAAXTGX", 3},
	}

	for _, test := range tests {
		got := Levenshtein(test.s1, test.s2)
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("incorrect levenshtein result for (%s, %s): got %v, want %v", test.s1, test.s2, got, test.want)
		}
		reference := matchr.Levenshtein(test.s1, test.s2)
		if !reflect.DeepEqual(got, reference) {
			t.Errorf("discrepancy with reference levenshtein for (%s, %s): got %v, reference %v", test.s1, test.s2, got, reference)
		}
	}
}

func TestSuggest(t *testing.T) {
	header := []string{"SampleID", "Chr", "Start", "End", "Type", "Gene_ID"}
	tests := []struct {
		want string
		best string
		ok   bool
	}{
		{"GeneID", "Gene_ID", true},
		{"sampleid", "SampleID", true},
		{"Strt", "Start", true},
		{"Quality", "", false},
	}

	for _, test := range tests {
		best, ok := Suggest(test.want, header)
		if ok != test.ok || (ok && best != test.best) {
			t.Errorf("incorrect suggestion for %s: got (%s, %v), want (%s, %v)", test.want, best, ok, test.best, test.ok)
		}
	}
}
