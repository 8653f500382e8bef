// Package fdr estimates target-decoy false discovery rates for ion
// annotations and digitizes them into discrete confidence levels.
//
// For every target modifier the calculator builds one empirical score->FDR
// curve per decoy draw, takes the median across draws at each distinct target
// score, and assigns every target ion the smallest configured level whose
// score threshold it reaches.
package fdr

import (
	"fmt"
	"runtime"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
	"github.com/ChrisMcGann/FDRKey/pkg/decoy"
)

// Calculator estimates FDR levels for the target ions of a decoy table.
// It holds no mutable state and may be reused across score tables.
type Calculator struct {
	catalog *core.ModifierCatalog
	decoys  *decoy.Table
	levels  []float64
	workers int
	logger  *zap.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLevels overrides core.DefaultLevels. Levels must be ascending in (0, 1).
func WithLevels(levels []float64) Option {
	return func(c *Calculator) {
		c.levels = levels
	}
}

// WithWorkers bounds the number of target modifiers processed concurrently.
func WithWorkers(n int) Option {
	return func(c *Calculator) {
		c.workers = n
	}
}

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// Result is the outcome of one estimation run.
type Result struct {
	// Annotations holds one entry per target ion, grouped by target modifier
	// in catalog order and by formula in sampling order within a modifier.
	Annotations []core.Annotation
	// MissingScores counts ions of the ion set absent from the score table.
	MissingScores int
}

// NewCalculator prepares a calculator for a decoy table sampled from catalog.
func NewCalculator(catalog *core.ModifierCatalog, decoys *decoy.Table, opts ...Option) (*Calculator, error) {
	c := &Calculator{
		catalog: catalog,
		decoys:  decoys,
		levels:  core.DefaultLevels,
		workers: runtime.GOMAXPROCS(0),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := core.ValidateLevels(c.levels); err != nil {
		return nil, err
	}
	if len(c.levels) == 0 {
		c.levels = core.DefaultLevels
	}
	if c.workers <= 0 {
		c.workers = 1
	}
	if !slices.Equal(catalog.Modifiers(), decoys.Modifiers()) {
		return nil, fmt.Errorf("decoy table modifiers %v do not match catalog modifiers %v",
			decoys.Modifiers(), catalog.Modifiers())
	}

	return c, nil
}

// Levels returns the FDR levels annotations are digitized into.
func (c *Calculator) Levels() []float64 {
	return append([]float64(nil), c.levels...)
}

// Estimate computes FDR levels for every target ion. Ions missing from scores
// count as score 0. Target modifiers are processed concurrently; the output
// order does not depend on scheduling.
func (c *Calculator) Estimate(scores core.ScoreTable) (*Result, error) {
	res := &Result{}

	if len(c.decoys.Formulas()) == 0 {
		c.logger.Warn("no target formulas, FDR result is empty")
		return res, nil
	}

	ions := decoy.IonSet(c.decoys)
	res.MissingScores = scores.Missing(ions)
	if res.MissingScores > 0 {
		c.logger.Warn("score table is missing ions, treating them as score 0",
			zap.Int("missing", res.MissingScores),
			zap.Int("ions", len(ions)))
	}

	mods := c.decoys.Modifiers()
	parts := make([][]core.Annotation, len(mods))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, tm := range mods {
		g.Go(func() error {
			anns, err := c.estimateModifier(tm, scores)
			if err != nil {
				return err
			}
			parts[i] = anns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range parts {
		res.Annotations = append(res.Annotations, p...)
	}

	c.logger.Info("estimated FDR",
		zap.Int("modifiers", len(mods)),
		zap.Int("annotations", len(res.Annotations)))

	return res, nil
}

// estimateModifier computes the annotations of a single target modifier.
func (c *Calculator) estimateModifier(tm string, scores core.ScoreTable) ([]core.Annotation, error) {
	row, ok := c.catalog.Lookup(tm)
	if !ok {
		return nil, fmt.Errorf("target modifier '%s' is not in the catalog", tm)
	}

	targets := c.decoys.Targets(tm)
	if len(targets) == 0 {
		c.logger.Warn("no target ions for modifier", zap.String("modifier", tm))
		return nil, nil
	}

	targetScores := lookupScores(scores, targets)
	sortedTargets := sortedDesc(targetScores)
	thresholds := distinctDesc(sortedTargets)

	n := c.decoys.SampleSize()
	curves := make([][]float64, n)
	for i := 0; i < n; i++ {
		decoyScores := sortedDesc(lookupScores(scores, c.decoys.Draw(tm, i)))
		curves[i] = empiricalFDR(thresholds, sortedTargets, decoyScores)
	}
	agg := medianCurve(curves)

	levels := digitize(targetScores, thresholds, agg, c.levels)

	anns := make([]core.Annotation, len(targets))
	for i, k := range targets {
		anns[i] = core.Annotation{
			Formula:     k.Formula,
			Modifier:    tm,
			ChemMod:     row.ChemMod,
			NeutralLoss: row.NeutralLoss,
			Adduct:      row.Adduct,
			MSM:         targetScores[i],
			FDR:         levels[i],
		}
	}

	c.logger.Debug("digitized modifier",
		zap.String("modifier", tm),
		zap.Int("targets", len(targets)),
		zap.Int("draws", n))

	return anns, nil
}

func lookupScores(scores core.ScoreTable, keys []core.IonKey) []float64 {
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = scores.Score(k)
	}
	return out
}
