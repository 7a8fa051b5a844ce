package cw

import (
	"fmt"
	"math"
)

// TrainOption configures a call to Train
type TrainOption func(*trainConfig)

type trainConfig struct {
	onPass func(pass int)
}

// OnPass registers a callback invoked after each completed pass, with the
// 1-based pass number.
func OnPass(fn func(pass int)) TrainOption {
	return func(c *trainConfig) {
		c.onPass = fn
	}
}

// Train runs iterations passes of TrainExample over examples, in order.
// The configuration is validated before the model is touched, and the first
// failing example aborts the run.
func Train(m *Model, examples []Example, iterations int, options ...TrainOption) error {
	if err := validConfidence(m.confidence); err != nil {
		return err
	}
	if iterations <= 0 {
		return fmt.Errorf("%w: iteration number must be positive, got %d", ErrConfig, iterations)
	}

	var cfg trainConfig
	for _, opt := range options {
		opt(&cfg)
	}

	for pass := 1; pass <= iterations; pass++ {
		for i, ex := range examples {
			if _, err := m.TrainExample(ex.Features, ex.Label); err != nil {
				return fmt.Errorf("pass %d, example %d: %w", pass, i+1, err)
			}
		}
		if cfg.onPass != nil {
			cfg.onPass(pass)
		}
	}

	return nil
}

// TestResult is the contingency table of an evaluation run, keyed as
// (actual, predicted).
type TestResult struct {
	PP int // actual positive, predicted positive
	PN int // actual positive, predicted negative
	NP int // actual negative, predicted positive
	NN int // actual negative, predicted negative
}

// Correct returns the number of correctly classified examples.
func (r TestResult) Correct() int {
	return r.PP + r.NN
}

// Total returns the number of evaluated examples.
func (r TestResult) Total() int {
	return r.PP + r.PN + r.NP + r.NN
}

// Accuracy returns Correct/Total, NaN for an empty result.
func (r TestResult) Accuracy() float64 {
	total := r.Total()
	if total == 0 {
		return math.NaN()
	}
	return float64(r.Correct()) / float64(total)
}

// String renders the fixed two-line accuracy report.
func (r TestResult) String() string {
	pct := 0.0
	if r.Total() > 0 {
		pct = 100 * r.Accuracy()
	}
	return fmt.Sprintf("accuracy %.3f%% (%d/%d)\n(Answer, Predict): (p,p):%d (p,n):%d (n,p):%d (n,n):%d",
		pct, r.Correct(), r.Total(), r.PP, r.PN, r.NP, r.NN)
}

// Add tallies a single classification.
func (r *TestResult) Add(actual Label, margin float64) error {
	switch {
	case math.IsNaN(margin):
		return fmt.Errorf("%w: score %v label %s", ErrScore, margin, actual)
	case margin >= 0 && actual == Positive:
		r.PP++
	case margin < 0 && actual == Positive:
		r.PN++
	case margin >= 0 && actual == Negative:
		r.NP++
	case margin < 0 && actual == Negative:
		r.NN++
	default:
		return fmt.Errorf("%w: score %v label %s", ErrScore, margin, actual)
	}
	return nil
}

// Evaluate classifies every example by the sign of its margin and tallies
// the results. The model is not modified.
func Evaluate(m *Model, examples []Example) (TestResult, error) {
	var res TestResult
	for i, ex := range examples {
		if !ex.Label.Valid() {
			return TestResult{}, fmt.Errorf("example %d: %w: %d", i+1, ErrLabel, int(ex.Label))
		}
		if err := res.Add(ex.Label, m.Margin(ex.Features)); err != nil {
			return TestResult{}, fmt.Errorf("example %d: %w", i+1, err)
		}
	}
	return res, nil
}
