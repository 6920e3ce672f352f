package weighting

import (
	"math"
	"testing"

	"github.com/irbench/ir-bench/internal/analysis"
	"github.com/irbench/ir-bench/internal/pkg/errors"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		tag     string
		want    Scheme
		wantErr bool
	}{
		{"boolean", Boolean, false},
		{"tf", TF, false},
		{"tfidf", TFIDF, false},
		{"bm25", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseScheme(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScheme(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if err != nil {
				if !errors.IsInvalidConfiguration(err) {
					t.Errorf("ParseScheme(%q) error code = %v, want INVALID_CONFIGURATION", tt.tag, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseScheme(%q) = %v, want %v", tt.tag, got, tt.want)
			}
			if got.String() != tt.tag {
				t.Errorf("String() = %q, want %q", got.String(), tt.tag)
			}
		})
	}
}

func TestProfile_Validate(t *testing.T) {
	if err := (Profile{1, 0, 0, 0}).Validate(); err != nil {
		t.Errorf("Validate() on non-negative profile = %v, want nil", err)
	}

	err := (Profile{1, -2, 0, 0}).Validate()
	if err == nil {
		t.Fatal("Validate() on negative coefficient = nil, want error")
	}
	if !errors.IsInvalidProfile(err) {
		t.Errorf("Validate() error = %v, want INVALID_PROFILE", err)
	}
}

func TestNewStats(t *testing.T) {
	docs := [][]analysis.Term{
		{"cat", "sat", "cat"},
		{"cat", "dog"},
		{},
	}

	stats := NewStats(docs)
	if stats.N != 3 {
		t.Errorf("N = %d, want 3", stats.N)
	}
	if stats.DocFreq["cat"] != 2 {
		t.Errorf("df(cat) = %d, want 2 (duplicates within a document count once)", stats.DocFreq["cat"])
	}
	if stats.DocFreq["dog"] != 1 {
		t.Errorf("df(dog) = %d, want 1", stats.DocFreq["dog"])
	}

	if got, want := stats.IDF("cat"), math.Log(3.0/2.0); !almostEqual(got, want) {
		t.Errorf("IDF(cat) = %v, want %v", got, want)
	}
	if got := stats.IDF("unseen"); got != 0 {
		t.Errorf("IDF(unseen) = %v, want 0", got)
	}
}

func TestWeight_Boolean(t *testing.T) {
	vec := Weight([]analysis.Term{"cat", "cat", "sat"}, Boolean, Profile{2, 0, 0, 0}, nil)

	if len(vec) != 2 {
		t.Fatalf("vector has %d terms, want 2", len(vec))
	}
	if vec["cat"] != 2 || vec["sat"] != 2 {
		t.Errorf("boolean weights = %v, want w1 for every occurring term", vec)
	}
}

func TestWeight_TF(t *testing.T) {
	vec := Weight([]analysis.Term{"cat", "cat", "sat"}, TF, Profile{3, 0, 0, 0}, nil)

	if !almostEqual(vec["cat"], 6) {
		t.Errorf("weight(cat) = %v, want 6 (w1 × count)", vec["cat"])
	}
	if !almostEqual(vec["sat"], 3) {
		t.Errorf("weight(sat) = %v, want 3", vec["sat"])
	}
}

func TestWeight_TFIDF(t *testing.T) {
	stats := NewStats([][]analysis.Term{
		{"cat", "sat"},
		{"cat"},
	})

	vec := Weight([]analysis.Term{"cat", "sat", "sat"}, TFIDF, Profile{1, 1, 0, 0}, stats)

	// df(cat)=2 over N=2, so idf(cat)=0 and its weight vanishes.
	if !almostEqual(vec["cat"], 0) {
		t.Errorf("weight(cat) = %v, want 0", vec["cat"])
	}
	if want := 2 * math.Log(2); !almostEqual(vec["sat"], want) {
		t.Errorf("weight(sat) = %v, want %v", vec["sat"], want)
	}
}

func TestWeight_LengthNormalization(t *testing.T) {
	terms := []analysis.Term{"cat", "cat", "sat", "mat"}

	plain := Weight(terms, TF, Profile{1, 0, 0, 0}, nil)
	normalized := Weight(terms, TF, Profile{1, 0, 2, 0}, nil)

	// w3=2 over 4 terms divides every weight by 8.
	for term, w := range plain {
		if !almostEqual(normalized[term], w/8) {
			t.Errorf("weight(%s) = %v, want %v", term, normalized[term], w/8)
		}
	}
}

func TestWeight_NormNormalization(t *testing.T) {
	terms := []analysis.Term{"cat", "sat"}

	vec := Weight(terms, TF, Profile{1, 0, 0, 1}, nil)

	// With w4=1 the vector is scaled to unit norm.
	if !almostEqual(vec.Norm(), 1) {
		t.Errorf("Norm() = %v, want 1", vec.Norm())
	}
}

func TestWeight_EmptySequence(t *testing.T) {
	vec := Weight(nil, TFIDF, Profile{1, 1, 1, 1}, NewStats(nil))

	if len(vec) != 0 {
		t.Errorf("Weight(empty) = %v, want empty vector", vec)
	}
	if vec.Support() != 0 {
		t.Errorf("Support() = %d, want 0", vec.Support())
	}
}

func TestWeight_NonNegative(t *testing.T) {
	stats := NewStats([][]analysis.Term{{"cat"}, {"dog", "cat"}, {"mat"}})
	terms := []analysis.Term{"cat", "dog", "mat", "unseen", "cat"}

	for _, scheme := range AllSchemes() {
		for _, profile := range []Profile{
			{1, 1, 1, 1},
			{0.5, 2, 0, 3},
			{0, 0, 0, 0},
		} {
			vec := Weight(terms, scheme, profile, stats)
			for term, w := range vec {
				if w < 0 {
					t.Errorf("scheme %v profile %v: weight(%s) = %v, want >= 0",
						scheme, profile, term, w)
				}
			}
		}
	}
}
