// Package weighting turns preprocessed term sequences into sparse
// term-weight vectors under a closed set of weighting schemes and a
// 4-coefficient weight profile.
package weighting

import (
	"fmt"
	"math"
	"sort"

	"github.com/irbench/ir-bench/internal/analysis"
	"github.com/irbench/ir-bench/internal/pkg/errors"
)

// Scheme is a closed enumeration of term-weighting schemes.
type Scheme int

const (
	Boolean Scheme = iota
	TF
	TFIDF
)

// String returns the scheme's configuration tag.
func (s Scheme) String() string {
	switch s {
	case Boolean:
		return "boolean"
	case TF:
		return "tf"
	case TFIDF:
		return "tfidf"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

// ParseScheme resolves a configuration tag to a Scheme.
func ParseScheme(tag string) (Scheme, error) {
	switch tag {
	case "boolean":
		return Boolean, nil
	case "tf":
		return TF, nil
	case "tfidf":
		return TFIDF, nil
	default:
		return 0, errors.InvalidConfigurationError("unknown weighting scheme").
			WithDetail("scheme", tag)
	}
}

// AllSchemes returns every scheme in enumeration order.
func AllSchemes() []Scheme {
	return []Scheme{Boolean, TF, TFIDF}
}

// Profile is an ordered quadruple of non-negative coefficients
// (w1, w2, w3, w4). Coefficient meaning is fixed across schemes:
//
//	w1: occurrence/frequency multiplier
//	w2: idf multiplier (tfidf only)
//	w3: when > 0, divide every weight by w3 × term-sequence length
//	w4: when > 0, divide every weight by w4 × Euclidean norm
//
// A zero coefficient disables its factor.
type Profile [4]float64

// Validate fails with an INVALID_PROFILE error if any coefficient is
// negative. It is run once at configuration construction, not per
// document.
func (p Profile) Validate() error {
	for i, w := range p {
		if w < 0 {
			return errors.InvalidProfileError("negative coefficient").
				WithDetail("coefficient", fmt.Sprintf("w%d", i+1)).
				WithDetail("value", fmt.Sprintf("%g", w))
		}
	}
	return nil
}

// String renders the profile as its four comma-separated coefficients.
func (p Profile) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", p[0], p[1], p[2], p[3])
}

// Vector is a sparse term-to-weight mapping. Terms absent imply weight
// zero. Vectors are never mutated after creation.
type Vector map[analysis.Term]float64

// Terms returns the vector's terms in sorted order. Summations iterate
// sorted terms so repeated runs are bit-identical; map iteration order
// would reorder float additions.
func (v Vector) Terms() []analysis.Term {
	terms := make([]analysis.Term, 0, len(v))
	for t := range v {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// Norm returns the Euclidean norm of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, t := range v.Terms() {
		w := v[t]
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Support returns the number of terms with nonzero weight.
func (v Vector) Support() int {
	n := 0
	for _, w := range v {
		if w != 0 {
			n++
		}
	}
	return n
}

// Stats holds corpus-level statistics for one preprocessing pair. It must
// be rebuilt whenever the (removeStopwords, stem) pair changes and never
// shared across pairs.
type Stats struct {
	N       int
	DocFreq map[analysis.Term]int
}

// NewStats computes document frequencies over a preprocessed corpus.
func NewStats(docs [][]analysis.Term) *Stats {
	stats := &Stats{
		N:       len(docs),
		DocFreq: make(map[analysis.Term]int),
	}
	for _, terms := range docs {
		seen := make(map[analysis.Term]bool, len(terms))
		for _, t := range terms {
			if !seen[t] {
				seen[t] = true
				stats.DocFreq[t]++
			}
		}
	}
	return stats
}

// IDF returns log(N / df(t)), or 0 for terms that occur in no document
// (query-only terms).
func (s *Stats) IDF(t analysis.Term) float64 {
	df := s.DocFreq[t]
	if df == 0 {
		return 0
	}
	return math.Log(float64(s.N) / float64(df))
}

// Weight produces the sparse weight vector for a preprocessed term
// sequence. An empty sequence yields an empty (all-zero) vector; a
// document reduced to nothing by stopword removal stays scoreable.
// The profile is assumed validated.
func Weight(terms []analysis.Term, scheme Scheme, profile Profile, stats *Stats) Vector {
	vec := make(Vector, len(terms))
	if len(terms) == 0 {
		return vec
	}

	counts := make(map[analysis.Term]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}

	switch scheme {
	case Boolean:
		for t := range counts {
			vec[t] = profile[0]
		}
	case TF:
		for t, c := range counts {
			vec[t] = profile[0] * float64(c)
		}
	case TFIDF:
		for t, c := range counts {
			vec[t] = profile[0] * float64(c) * profile[1] * stats.IDF(t)
		}
	}

	if profile[2] > 0 {
		div := profile[2] * float64(len(terms))
		for t := range vec {
			vec[t] /= div
		}
	}
	if profile[3] > 0 {
		if norm := vec.Norm(); norm > 0 {
			div := profile[3] * norm
			for t := range vec {
				vec[t] /= div
			}
		}
	}

	return vec
}
