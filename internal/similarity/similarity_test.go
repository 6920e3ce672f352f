package similarity

import (
	"math"
	"testing"

	"github.com/irbench/ir-bench/internal/pkg/errors"
	"github.com/irbench/ir-bench/internal/weighting"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		tag     string
		want    Kind
		wantErr bool
	}{
		{"cosine", Cosine, false},
		{"jaccard", Jaccard, false},
		{"dice", Dice, false},
		{"overlap", Overlap, false},
		{"euclidean", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseKind(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if err != nil {
				if !errors.IsInvalidConfiguration(err) {
					t.Errorf("ParseKind(%q) error = %v, want INVALID_CONFIGURATION", tt.tag, err)
				}
				return
			}
			if got != tt.want || got.String() != tt.tag {
				t.Errorf("ParseKind(%q) = %v (%q)", tt.tag, got, got.String())
			}
		})
	}
}

func TestScore_Cosine(t *testing.T) {
	q := weighting.Vector{"cat": 1}
	d := weighting.Vector{"cat": 2, "dog": 2}

	// dot = 2, |q| = 1, |d| = 2*sqrt(2).
	want := 2 / (2 * math.Sqrt2)
	if got := Score(q, d, Cosine); !almostEqual(got, want) {
		t.Errorf("cosine = %v, want %v", got, want)
	}
}

func TestScore_CosineZeroNorm(t *testing.T) {
	q := weighting.Vector{}
	d := weighting.Vector{"cat": 1}

	if got := Score(q, d, Cosine); got != 0 {
		t.Errorf("cosine with zero-norm query = %v, want 0", got)
	}
	if got := Score(d, q, Cosine); got != 0 {
		t.Errorf("cosine with zero-norm document = %v, want 0", got)
	}
}

func TestScore_SetMeasuresUseSupportNotWeights(t *testing.T) {
	// Identical supports, wildly different weights: all set measures
	// must score 1.
	q := weighting.Vector{"cat": 0.1, "sat": 9}
	d := weighting.Vector{"cat": 100, "sat": 0.001}

	for _, kind := range []Kind{Jaccard, Dice, Overlap} {
		if got := Score(q, d, kind); !almostEqual(got, 1) {
			t.Errorf("%v on identical supports = %v, want 1", kind, got)
		}
	}
}

func TestScore_SetMeasureDivergence(t *testing.T) {
	// Corpus D1=[cat sat mat], D2=[cat dog], query=[cat], boolean
	// weights with w1=1.
	q := weighting.Vector{"cat": 1}
	d1 := weighting.Vector{"cat": 1, "sat": 1, "mat": 1}
	d2 := weighting.Vector{"cat": 1, "dog": 1}

	// Overlap is insensitive to the vocabulary-size mismatch: both
	// documents tie at 1.0.
	if got := Score(q, d1, Overlap); !almostEqual(got, 1) {
		t.Errorf("overlap(q,d1) = %v, want 1", got)
	}
	if got := Score(q, d2, Overlap); !almostEqual(got, 1) {
		t.Errorf("overlap(q,d2) = %v, want 1", got)
	}

	// Jaccard penalizes the larger document: d2 ranks above d1.
	if got := Score(q, d1, Jaccard); !almostEqual(got, 1.0/3.0) {
		t.Errorf("jaccard(q,d1) = %v, want 1/3", got)
	}
	if got := Score(q, d2, Jaccard); !almostEqual(got, 0.5) {
		t.Errorf("jaccard(q,d2) = %v, want 1/2", got)
	}
}

func TestScore_BothEmpty(t *testing.T) {
	q := weighting.Vector{}
	d := weighting.Vector{}

	for _, kind := range AllKinds() {
		if got := Score(q, d, kind); got != 0 {
			t.Errorf("%v on empty vectors = %v, want 0", kind, got)
		}
	}
}

func TestScore_ZeroWeightEntriesExcludedFromSupport(t *testing.T) {
	// Entries with weight 0 do not belong to the support.
	q := weighting.Vector{"cat": 0, "dog": 1}
	d := weighting.Vector{"cat": 1, "dog": 1}

	// Supports are {dog} and {cat,dog}: jaccard = 1/2.
	if got := Score(q, d, Jaccard); !almostEqual(got, 0.5) {
		t.Errorf("jaccard = %v, want 0.5", got)
	}
	// overlap = 1/min(1,2) = 1.
	if got := Score(q, d, Overlap); !almostEqual(got, 1) {
		t.Errorf("overlap = %v, want 1", got)
	}
}

func TestScore_Bounds(t *testing.T) {
	vectors := []weighting.Vector{
		{},
		{"a": 1},
		{"a": 0.5, "b": 2},
		{"b": 3, "c": 1, "d": 0.25},
		{"e": 10},
	}

	for _, q := range vectors {
		for _, d := range vectors {
			for _, kind := range AllKinds() {
				got := Score(q, d, kind)
				if got < 0 || got > 1 {
					t.Errorf("%v(%v, %v) = %v, want in [0,1]", kind, q, d, got)
				}
			}
		}
	}
}

func TestScore_JaccardNeverExceedsDice(t *testing.T) {
	pairs := [][2]weighting.Vector{
		{{"a": 1, "b": 1}, {"b": 1, "c": 1}},
		{{"a": 1}, {"a": 1, "b": 1, "c": 1}},
		{{"a": 1, "b": 1, "c": 1}, {"a": 1, "b": 1, "c": 1}},
		{{"a": 1}, {"b": 1}},
	}

	for _, pair := range pairs {
		j := Score(pair[0], pair[1], Jaccard)
		d := Score(pair[0], pair[1], Dice)
		if j > d+1e-12 {
			t.Errorf("jaccard %v > dice %v for %v", j, d, pair)
		}
	}
}
