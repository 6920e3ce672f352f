// Package sweep enumerates the configuration space of the evaluation
// harness and runs the preprocess → weight → score → rank → evaluate
// pipeline once per configuration, in parallel, with deterministic
// output ordering.
package sweep

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/irbench/ir-bench/internal/analysis"
	"github.com/irbench/ir-bench/internal/corpus"
	"github.com/irbench/ir-bench/internal/evaluation"
	"github.com/irbench/ir-bench/internal/pkg/errors"
	"github.com/irbench/ir-bench/internal/pkg/logger"
	"github.com/irbench/ir-bench/internal/similarity"
	"github.com/irbench/ir-bench/internal/weighting"
)

// Config is one point in the Cartesian product of the sweep dimensions.
// Immutable value.
type Config struct {
	Scheme          weighting.Scheme
	Kind            similarity.Kind
	RemoveStopwords bool
	Stem            bool
	Profile         weighting.Profile
}

// Pair returns the preprocessing pair of the configuration.
func (c Config) Pair() analysis.Pair {
	return analysis.Pair{RemoveStopwords: c.RemoveStopwords, Stem: c.Stem}
}

// String renders a short tag for logging.
func (c Config) String() string {
	return fmt.Sprintf("%s/%s/stop=%t/stem=%t/%s",
		c.Scheme, c.Kind, c.RemoveStopwords, c.Stem, c.Profile)
}

// Validate fails fast on a negative profile coefficient or an
// out-of-range scheme/similarity tag. Failures abort this configuration
// only; the sweep continues.
func (c Config) Validate() error {
	if c.Scheme < weighting.Boolean || c.Scheme > weighting.TFIDF {
		return errors.InvalidConfigurationError("unknown weighting scheme").
			WithDetail("scheme", c.Scheme.String())
	}
	if c.Kind < similarity.Cosine || c.Kind > similarity.Overlap {
		return errors.InvalidConfigurationError("unknown similarity kind").
			WithDetail("similarity", c.Kind.String())
	}
	return c.Profile.Validate()
}

// Dimensions spans the configuration space. Enumerate walks it in fixed
// nested order: scheme, then similarity, then stopword choice, then stem
// choice, then profile.
type Dimensions struct {
	Schemes         []weighting.Scheme
	Kinds           []similarity.Kind
	StopwordChoices []bool
	StemChoices     []bool
	Profiles        []weighting.Profile
}

// Size returns the number of configurations in the product.
func (d Dimensions) Size() int {
	return len(d.Schemes) * len(d.Kinds) * len(d.StopwordChoices) *
		len(d.StemChoices) * len(d.Profiles)
}

// Enumerate returns every configuration in deterministic order.
func (d Dimensions) Enumerate() []Config {
	configs := make([]Config, 0, d.Size())
	for _, scheme := range d.Schemes {
		for _, kind := range d.Kinds {
			for _, removeStop := range d.StopwordChoices {
				for _, stem := range d.StemChoices {
					for _, profile := range d.Profiles {
						configs = append(configs, Config{
							Scheme:          scheme,
							Kind:            kind,
							RemoveStopwords: removeStop,
							Stem:            stem,
							Profile:         profile,
						})
					}
				}
			}
		}
	}
	return configs
}

// Pairs returns the distinct preprocessing pairs of the dimensions, in
// enumeration order.
func (d Dimensions) Pairs() []analysis.Pair {
	var pairs []analysis.Pair
	seen := make(map[analysis.Pair]bool)
	for _, removeStop := range d.StopwordChoices {
		for _, stem := range d.StemChoices {
			p := analysis.Pair{RemoveStopwords: removeStop, Stem: stem}
			if !seen[p] {
				seen[p] = true
				pairs = append(pairs, p)
			}
		}
	}
	return pairs
}

// Result is the outcome of one configuration: aggregated metrics, or an
// isolated per-configuration error.
type Result struct {
	Config  Config
	Metrics evaluation.QueryMetrics
	Queries int
	Err     error
}

// Failed reports whether the configuration produced no metrics.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Runner evaluates configurations over a fixed corpus and query set.
type Runner struct {
	docIDs  []int
	queries []corpus.Query
	cache   *analysis.Cache
	workers int
	log     *logger.Logger

	// stats per preprocessing pair; populated before workers start,
	// read-only afterwards.
	stats map[analysis.Pair]*weighting.Stats
}

// NewRunner creates a runner. workers <= 0 means one worker.
func NewRunner(docs []corpus.Document, queries []corpus.Query, analyzer analysis.Analyzer, workers int, log *logger.Logger) *Runner {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logger.Default()
	}

	docIDs := make([]int, len(docs))
	docTokens := make([][]string, len(docs))
	for i, d := range docs {
		docIDs[i] = d.ID
		docTokens[i] = d.Tokens()
	}
	queryTokens := make([][]string, len(queries))
	for i, q := range queries {
		queryTokens[i] = q.Tokens()
	}

	return &Runner{
		docIDs:  docIDs,
		queries: queries,
		cache:   analysis.NewCache(analyzer, docTokens, queryTokens),
		workers: workers,
		log:     log,
		stats:   make(map[analysis.Pair]*weighting.Stats),
	}
}

// Run evaluates the full Cartesian product of dims and returns one Result
// per configuration, in enumeration order regardless of completion order.
// Per-configuration failures are recorded on their Result; they never
// cross into another configuration. Cancelling ctx stops dispatching new
// configurations and lets in-flight ones complete.
func (r *Runner) Run(ctx context.Context, dims Dimensions) ([]Result, error) {
	configs := dims.Enumerate()
	if len(configs) == 0 {
		return nil, nil
	}

	// Populate the preprocessing cache and per-pair corpus statistics
	// before any worker reads them.
	for _, pair := range dims.Pairs() {
		snap := r.cache.Get(pair)
		r.stats[pair] = weighting.NewStats(snap.Docs)
	}

	r.log.Info("starting sweep",
		"configurations", len(configs),
		"queries", len(r.queries),
		"documents", len(r.docIDs),
		"workers", r.workers,
	)

	results := make([]Result, len(configs))
	var done atomic.Int64
	progress := rate.NewLimiter(rate.Every(time.Second), 1)

	g := new(errgroup.Group)
	g.SetLimit(r.workers)

	for i, cfg := range configs {
		i, cfg := i, cfg
		if ctx.Err() != nil {
			results[i] = Result{
				Config: cfg,
				Err:    errors.InternalError("sweep cancelled", ctx.Err()),
			}
			continue
		}

		g.Go(func() error {
			results[i] = r.evaluateConfig(cfg)
			if results[i].Err != nil {
				r.log.WithConfiguration(cfg.String()).
					WithError(results[i].Err).
					Warn("configuration failed")
			}
			if n := done.Add(1); progress.Allow() {
				r.log.Info("sweep progress", "done", n, "total", len(configs))
			}
			return nil
		})
	}

	// Workers never return errors; failures are isolated per Result.
	_ = g.Wait()

	r.log.Info("sweep complete", "configurations", len(configs))
	return results, nil
}

// evaluateConfig runs the full pipeline for one configuration.
func (r *Runner) evaluateConfig(cfg Config) Result {
	if err := cfg.Validate(); err != nil {
		return Result{Config: cfg, Err: err}
	}

	snap := r.cache.Get(cfg.Pair())
	stats := r.stats[cfg.Pair()]

	docVectors := make([]weighting.Vector, len(snap.Docs))
	for i, terms := range snap.Docs {
		docVectors[i] = weighting.Weight(terms, cfg.Scheme, cfg.Profile, stats)
	}

	var perQuery []evaluation.QueryMetrics
	for qi, q := range r.queries {
		if len(q.Relevant) == 0 {
			continue
		}

		queryVec := weighting.Weight(snap.Queries[qi], cfg.Scheme, cfg.Profile, stats)

		hits := make([]evaluation.Hit, len(docVectors))
		for di, docVec := range docVectors {
			hits[di] = evaluation.Hit{
				DocID: r.docIDs[di],
				Score: similarity.Score(queryVec, docVec, cfg.Kind),
			}
		}

		m, ok := evaluation.Evaluate(evaluation.Rank(hits), q.Relevant)
		if ok {
			perQuery = append(perQuery, m)
		}
	}

	agg, n := evaluation.Aggregate(perQuery)
	return Result{Config: cfg, Metrics: agg, Queries: n}
}
