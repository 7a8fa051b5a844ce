package cw

import (
	"fmt"
	"math"
)

// Margin returns the dot product of the mean weights and fv.
// Indices past Dim contribute nothing.
func (m *Model) Margin(fv FeatureVector) float64 {
	ret := 0.0
	for _, f := range fv {
		if f.Index < 0 || f.Index >= len(m.mean) {
			continue
		}
		ret += m.mean[f.Index] * f.Value
	}
	return ret
}

// PredictiveVariance returns the variance of the margin under the current
// weight distribution. An index past Dim contributes 2*value rather than
// value*value; the model format and trained weights depend on this term.
func (m *Model) PredictiveVariance(fv FeatureVector) float64 {
	ret := 0.0
	for _, f := range fv {
		if f.Index < 0 || f.Index >= len(m.variance) {
			ret += priorVariance*f.Value + f.Value
			continue
		}
		ret += m.variance[f.Index] * f.Value * f.Value
	}
	return ret
}

// Predict returns Positive when the margin is non-negative.
func (m *Model) Predict(fv FeatureVector) Label {
	if m.Margin(fv) >= 0 {
		return Positive
	}
	return Negative
}

// StepSize solves the CW constraint for the update magnitude of a single
// example. It returns ok=false when the quadratic has no usable root:
// non-positive predictive variance, negative discriminant or a non-finite
// result.
func (m *Model) StepSize(fv FeatureVector, label Label) (gamma float64, ok bool) {
	margin := m.Margin(fv) * float64(label)
	variance := m.PredictiveVariance(fv)
	return stepSize(m.confidence, margin, variance)
}

func stepSize(conf, margin, variance float64) (float64, bool) {
	if !(variance > 0) {
		return 0, false
	}

	b := 1.0 + 2.0*conf*margin
	disc := b*b - 8.0*conf*(margin-conf*variance)
	if !(disc >= 0) {
		return 0, false
	}

	gamma := (-b + math.Sqrt(disc)) / (4.0 * conf * variance)
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return 0, false
	}
	return gamma, true
}

// TrainExample applies one CW update and reports whether the model changed.
// A confidently correct example leaves the model untouched.
func (m *Model) TrainExample(fv FeatureVector, label Label) (bool, error) {
	if !label.Valid() {
		return false, fmt.Errorf("%w: %d", ErrLabel, int(label))
	}
	for _, f := range fv {
		if f.Index < 0 {
			return false, fmt.Errorf("%w: %d", ErrIndex, f.Index)
		}
	}

	gamma, ok := m.StepSize(fv, label)
	if !ok {
		return false, m.degenerate(fmt.Sprintf("margin=%v variance=%v",
			m.Margin(fv)*float64(label), m.PredictiveVariance(fv)))
	}

	if gamma <= 0 {
		return false, nil
	}

	if !m.update(fv, label, gamma) {
		return false, m.degenerate(fmt.Sprintf("step %v overflows the weights", gamma))
	}
	m.nUpdates++
	return true, nil
}

// degenerate records a step that could not be applied.
func (m *Model) degenerate(detail string) error {
	if m.strict {
		return fmt.Errorf("%w: %s", ErrNumeric, detail)
	}
	m.nSkipped++
	return nil
}

type savedWeight struct {
	index    int
	mean     float64
	variance float64
}

// update moves the means and shrinks the variances of every feature in fv.
// Pairs are applied in input order; each reads its own index's variance as
// left by the previous pair. If any pair yields a non-finite mean or a
// variance that is not positive, the model is restored and update returns
// false.
func (m *Model) update(fv FeatureVector, label Label, alpha float64) bool {
	dim := len(m.variance)
	if n := fv.MaxIndex(); n >= dim {
		m.grow(n + 1)
	}

	y := float64(label)
	saved := make([]savedWeight, 0, len(fv))
	for _, f := range fv {
		v := m.variance[f.Index]
		saved = append(saved, savedWeight{f.Index, m.mean[f.Index], v})

		mean := m.mean[f.Index] + alpha*y*v*f.Value
		variance := 1.0 / (1.0/v + 2.0*alpha*m.confidence*f.Value*f.Value)
		if math.IsNaN(mean) || math.IsInf(mean, 0) || !(variance > 0) {
			m.restore(saved, dim)
			return false
		}
		m.mean[f.Index] = mean
		m.variance[f.Index] = variance
	}
	return true
}

// restore undoes a partial update, newest pair first, and shrinks the
// arrays back to dim.
func (m *Model) restore(saved []savedWeight, dim int) {
	for i := len(saved) - 1; i >= 0; i-- {
		s := saved[i]
		m.mean[s.index] = s.mean
		m.variance[s.index] = s.variance
	}
	m.mean = m.mean[:dim]
	m.variance = m.variance[:dim]
}
