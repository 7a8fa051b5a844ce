// Package cw implements Confidence-Weighted online learning for binary
// classification.
//
// Every feature weight is modeled as a Gaussian with its own mean and
// variance. Each training example moves the means along the features it
// touches and shrinks their variances, with a step size solved in closed
// form from a probabilistic margin constraint:
//   - Lazily grown weight arrays, unseen indices act as mean 0 / variance 1
//   - Deterministic in-order training, no randomness anywhere
//   - Fixed little-endian binary model format
//
// A Model is not safe for concurrent use.
package cw

import (
	"fmt"
	"math"
)

const (
	// DefaultConfidence is the confidence parameter of a fresh model.
	DefaultConfidence = 1.0

	priorMean     = 0.0
	priorVariance = 1.0
)

// Model holds the per-feature Gaussian weights of a CW classifier.
type Model struct {
	confidence float64 // trade-off between conservative and aggressive updates
	strict     bool    // return ErrNumeric on degenerate steps instead of skipping

	mean     []float64 // per-feature mean weight
	variance []float64 // per-feature variance, parallel to mean

	nUpdates uint64 // examples that changed the model
	nSkipped uint64 // degenerate steps that were skipped
}

// Option defines a functional option for configuring a Model
type Option func(*Model)

// WithConfidence sets the confidence parameter
func WithConfidence(confidence float64) Option {
	return func(m *Model) {
		m.confidence = confidence
	}
}

// WithCapacity pre-allocates backing storage for n features.
// The model dimension is unchanged.
func WithCapacity(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.mean = make([]float64, 0, n)
			m.variance = make([]float64, 0, n)
		}
	}
}

// WithStrictNumerics makes TrainExample fail with ErrNumeric when the step
// size cannot be computed, instead of skipping the example.
func WithStrictNumerics(strict bool) Option {
	return func(m *Model) {
		m.strict = strict
	}
}

// New creates an empty model.
func New(options ...Option) (*Model, error) {
	m := &Model{
		confidence: DefaultConfidence,
	}

	for _, opt := range options {
		opt(m)
	}

	if err := validConfidence(m.confidence); err != nil {
		return nil, err
	}

	return m, nil
}

func validConfidence(c float64) error {
	if !(c > 0) || math.IsInf(c, 0) {
		return fmt.Errorf("%w: confidence parameter must be positive, got %v", ErrConfig, c)
	}
	return nil
}

// SetConfidence replaces the confidence parameter.
func (m *Model) SetConfidence(c float64) error {
	if err := validConfidence(c); err != nil {
		return err
	}
	m.confidence = c
	return nil
}

// Confidence returns the confidence parameter.
func (m *Model) Confidence() float64 {
	return m.confidence
}

// Dim returns the number of explicitly stored features.
func (m *Model) Dim() int {
	return len(m.mean)
}

// Mean returns the mean weight of feature i, 0 if it was never touched.
func (m *Model) Mean(i int) float64 {
	if i < 0 || i >= len(m.mean) {
		return priorMean
	}
	return m.mean[i]
}

// Variance returns the variance of feature i, 1 if it was never touched.
func (m *Model) Variance(i int) float64 {
	if i < 0 || i >= len(m.variance) {
		return priorVariance
	}
	return m.variance[i]
}

// Weights returns a copy of the mean weight vector.
func (m *Model) Weights() []float64 {
	w := make([]float64, len(m.mean))
	copy(w, m.mean)
	return w
}

// Variances returns a copy of the variance vector.
func (m *Model) Variances() []float64 {
	v := make([]float64, len(m.variance))
	copy(v, m.variance)
	return v
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	c := *m
	c.mean = m.Weights()
	c.variance = m.Variances()
	return &c
}

// grow extends both arrays to n entries, filling with the priors.
func (m *Model) grow(n int) {
	for len(m.mean) < n {
		m.mean = append(m.mean, priorMean)
		m.variance = append(m.variance, priorVariance)
	}
}
