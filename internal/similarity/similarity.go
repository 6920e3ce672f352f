// Package similarity scores pairs of sparse weight vectors under a closed
// set of similarity measures. Cosine works on the full numeric weights;
// jaccard, dice and overlap work on unweighted term supports. Mixing
// those conventions is a correctness requirement, not a style choice.
package similarity

import (
	"fmt"

	"github.com/irbench/ir-bench/internal/pkg/errors"
	"github.com/irbench/ir-bench/internal/weighting"
)

// Kind is a closed enumeration of similarity measures.
type Kind int

const (
	Cosine Kind = iota
	Jaccard
	Dice
	Overlap
)

// String returns the kind's configuration tag.
func (k Kind) String() string {
	switch k {
	case Cosine:
		return "cosine"
	case Jaccard:
		return "jaccard"
	case Dice:
		return "dice"
	case Overlap:
		return "overlap"
	default:
		return fmt.Sprintf("similarity(%d)", int(k))
	}
}

// ParseKind resolves a configuration tag to a Kind.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "cosine":
		return Cosine, nil
	case "jaccard":
		return Jaccard, nil
	case "dice":
		return Dice, nil
	case "overlap":
		return Overlap, nil
	default:
		return 0, errors.InvalidConfigurationError("unknown similarity kind").
			WithDetail("similarity", tag)
	}
}

// AllKinds returns every kind in enumeration order.
func AllKinds() []Kind {
	return []Kind{Cosine, Jaccard, Dice, Overlap}
}

// Score computes the similarity between a query and a document vector.
// The result is always in [0,1]. Zero-norm and empty-support vectors
// score 0 by convention, never an error.
func Score(q, d weighting.Vector, kind Kind) float64 {
	switch kind {
	case Cosine:
		return cosine(q, d)
	case Jaccard:
		inter, nq, nd := supportOverlap(q, d)
		union := nq + nd - inter
		if union == 0 {
			return 0
		}
		return float64(inter) / float64(union)
	case Dice:
		inter, nq, nd := supportOverlap(q, d)
		if nq+nd == 0 {
			return 0
		}
		return 2 * float64(inter) / float64(nq+nd)
	case Overlap:
		inter, nq, nd := supportOverlap(q, d)
		smaller := min(nq, nd)
		if smaller == 0 {
			return 0
		}
		return float64(inter) / float64(smaller)
	default:
		return 0
	}
}

func cosine(q, d weighting.Vector) float64 {
	num := dot(q, d)
	if num == 0 {
		return 0
	}
	return num / (q.Norm() * d.Norm())
}

// dot iterates the smaller vector's terms in sorted order so the float
// summation order, and therefore the score, is identical across runs.
func dot(x, y weighting.Vector) float64 {
	if len(y) < len(x) {
		x, y = y, x
	}
	var sum float64
	for _, t := range x.Terms() {
		sum += x[t] * y[t]
	}
	return sum
}

// supportOverlap returns the intersection size and the two support sizes,
// counting only terms with nonzero weight.
func supportOverlap(q, d weighting.Vector) (inter, nq, nd int) {
	for _, w := range q {
		if w != 0 {
			nq++
		}
	}
	for _, w := range d {
		if w != 0 {
			nd++
		}
	}

	small, large := q, d
	if len(d) < len(q) {
		small, large = d, q
	}
	for t, w := range small {
		if w != 0 && large[t] != 0 {
			inter++
		}
	}
	return inter, nq, nd
}
