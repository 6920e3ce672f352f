// Package report emits one aggregated metric row per configuration. The
// TSV column order and presence are the compatibility contract for
// downstream analysis; the SQLite sink is a supplementary copy of the
// same rows.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/irbench/ir-bench/internal/evaluation"
	"github.com/irbench/ir-bench/internal/sweep"
	"github.com/irbench/ir-bench/internal/weighting"
)

// Columns is the fixed output header.
var Columns = []string{
	"scheme", "similarity", "removeStopwords", "stem",
	"w1", "w2", "w3", "w4",
	"precision@0.25", "precision@0.5", "precision@0.75", "precision@1.0",
	"mean_precision_1", "mean_precision_2",
	"precision_normalization", "recall_normalization",
}

// Row is one configuration's output row. Failed configurations keep the
// column contract with NaN in every metric cell.
type Row struct {
	Scheme          string
	Similarity      string
	RemoveStopwords bool
	Stem            bool
	Profile         weighting.Profile
	Metrics         evaluation.QueryMetrics
	Failed          bool
}

// FromResults converts sweep results into output rows, preserving order.
func FromResults(results []sweep.Result) []Row {
	rows := make([]Row, len(results))
	for i, res := range results {
		rows[i] = Row{
			Scheme:          res.Config.Scheme.String(),
			Similarity:      res.Config.Kind.String(),
			RemoveStopwords: res.Config.RemoveStopwords,
			Stem:            res.Config.Stem,
			Profile:         res.Config.Profile,
			Metrics:         res.Metrics,
			Failed:          res.Failed(),
		}
	}
	return rows
}

func (r Row) metrics() [8]float64 {
	return [8]float64{
		r.Metrics.PrecisionAt[0],
		r.Metrics.PrecisionAt[1],
		r.Metrics.PrecisionAt[2],
		r.Metrics.PrecisionAt[3],
		r.Metrics.MeanPrecision1,
		r.Metrics.MeanPrecision2,
		r.Metrics.NormPrecision,
		r.Metrics.NormRecall,
	}
}

// WriteTSV writes the header row then one row per configuration.
func WriteTSV(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintln(w, strings.Join(Columns, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		fields := make([]string, 0, len(Columns))
		fields = append(fields,
			row.Scheme,
			row.Similarity,
			fmt.Sprintf("%t", row.RemoveStopwords),
			fmt.Sprintf("%t", row.Stem),
		)
		for _, c := range row.Profile {
			fields = append(fields, fmt.Sprintf("%g", c))
		}
		for _, m := range row.metrics() {
			if row.Failed {
				fields = append(fields, "NaN")
			} else {
				fields = append(fields, fmt.Sprintf("%.4f", m))
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}

	return nil
}
