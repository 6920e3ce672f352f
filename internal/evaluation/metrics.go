// Package evaluation ranks scored documents and derives
// precision/recall-family metrics against relevance judgments.
package evaluation

import (
	"math"
	"sort"
)

// RecallLevels are the fixed recall levels reported per configuration.
var RecallLevels = [4]float64{0.25, 0.5, 0.75, 1.0}

// Hit is a scored document.
type Hit struct {
	DocID int
	Score float64
}

// Rank orders hits by descending score with a deterministic tie-break by
// ascending document ID, and returns the ranked document IDs. The input
// slice is not modified.
func Rank(hits []Hit) []int {
	sorted := make([]Hit, len(hits))
	copy(sorted, hits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].DocID < sorted[j].DocID
	})

	ids := make([]int, len(sorted))
	for i, h := range sorted {
		ids[i] = h.DocID
	}
	return ids
}

// QueryMetrics holds the metric values for one evaluated query. Every
// value is in [0,1].
type QueryMetrics struct {
	PrecisionAt    [4]float64 // aligned with RecallLevels
	MeanPrecision1 float64
	MeanPrecision2 float64
	NormPrecision  float64
	NormRecall     float64
}

// Evaluate derives the metrics for one ranked result list against a
// relevance set. The second return value is false when the relevance set
// is empty; such queries contribute nothing to aggregates.
func Evaluate(ranked []int, relevant []int) (QueryMetrics, bool) {
	if len(relevant) == 0 {
		return QueryMetrics{}, false
	}

	relSet := make(map[int]bool, len(relevant))
	for _, id := range relevant {
		relSet[id] = true
	}

	var m QueryMetrics
	for i, r := range RecallLevels {
		m.PrecisionAt[i] = precisionAtRecall(r, ranked, relSet, len(relevant))
	}

	var sum float64
	for _, p := range m.PrecisionAt {
		sum += p
	}
	m.MeanPrecision1 = sum / float64(len(RecallLevels))
	m.MeanPrecision2 = averagePrecision(ranked, relSet, len(relevant))

	ranks := relevantRanks(ranked, relSet)
	m.NormRecall = normRecall(ranks, len(ranked))
	m.NormPrecision = normPrecision(ranks, len(ranked))

	return m, true
}

// precisionAtRecall computes recall-level interpolated precision: the
// maximum precision observed at any rank where recall has reached r.
// Zero when the ranking never reaches recall r.
func precisionAtRecall(r float64, ranked []int, relSet map[int]bool, totalRelevant int) float64 {
	var best float64
	tp := 0
	for i, id := range ranked {
		if !relSet[id] {
			continue
		}
		tp++
		recall := float64(tp) / float64(totalRelevant)
		if recall+1e-12 < r {
			continue
		}
		// Precision maxima occur at relevant positions.
		if p := float64(tp) / float64(i+1); p > best {
			best = p
		}
	}
	return best
}

// averagePrecision is the mean of the precision values at the rank of
// each relevant document. Relevant documents missing from the ranking
// contribute zero.
func averagePrecision(ranked []int, relSet map[int]bool, totalRelevant int) float64 {
	tp := 0
	var sum float64
	for i, id := range ranked {
		if relSet[id] {
			tp++
			sum += float64(tp) / float64(i+1)
		}
	}
	return sum / float64(totalRelevant)
}

// relevantRanks returns the 1-based rank of every relevant document found
// in the ranking, in rank order.
func relevantRanks(ranked []int, relSet map[int]bool) []int {
	var ranks []int
	for i, id := range ranked {
		if relSet[id] {
			ranks = append(ranks, i+1)
		}
	}
	return ranks
}

// normRecall is the Salton & McGill normalized recall: one minus the
// total rank displacement of the relevant documents from their ideal
// positions, scaled by the worst possible displacement.
//
//	R_norm = 1 - (Σ rank_i - Σ i) / (R × (N - R))
//
// 1.0 for an ideal ranking; defined as 1.0 when every document is
// relevant (any ranking is ideal).
func normRecall(ranks []int, n int) float64 {
	r := len(ranks)
	if r == 0 || r == n {
		return 1
	}

	var sumRank, sumIdeal int
	for i, rank := range ranks {
		sumRank += rank
		sumIdeal += i + 1
	}

	v := 1 - float64(sumRank-sumIdeal)/(float64(r)*float64(n-r))
	return clamp01(v)
}

// normPrecision is the log-weighted counterpart of normRecall, which
// penalizes displacement near the top of the ranking more heavily.
//
//	P_norm = 1 - (Σ ln rank_i - Σ ln i) / (N·lnN - (N-R)·ln(N-R) - R·lnR)
func normPrecision(ranks []int, n int) float64 {
	r := len(ranks)
	if r == 0 || r == n {
		return 1
	}

	var logRank, logIdeal float64
	for i, rank := range ranks {
		logRank += math.Log(float64(rank))
		logIdeal += math.Log(float64(i + 1))
	}

	nf, rf := float64(n), float64(r)
	denom := nf*math.Log(nf) - (nf-rf)*math.Log(nf-rf) - rf*math.Log(rf)
	if denom == 0 {
		return 1
	}

	v := 1 - (logRank-logIdeal)/denom
	return clamp01(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Aggregate averages per-query metrics into one row-level value set. The
// second return value is the number of contributing queries; zero means
// no query had a non-empty relevance set.
func Aggregate(all []QueryMetrics) (QueryMetrics, int) {
	if len(all) == 0 {
		return QueryMetrics{}, 0
	}

	var agg QueryMetrics
	for _, m := range all {
		for i := range agg.PrecisionAt {
			agg.PrecisionAt[i] += m.PrecisionAt[i]
		}
		agg.MeanPrecision1 += m.MeanPrecision1
		agg.MeanPrecision2 += m.MeanPrecision2
		agg.NormPrecision += m.NormPrecision
		agg.NormRecall += m.NormRecall
	}

	n := float64(len(all))
	for i := range agg.PrecisionAt {
		agg.PrecisionAt[i] /= n
	}
	agg.MeanPrecision1 /= n
	agg.MeanPrecision2 /= n
	agg.NormPrecision /= n
	agg.NormRecall /= n

	return agg, len(all)
}
