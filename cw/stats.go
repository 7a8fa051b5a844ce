package cw

import (
	"gonum.org/v1/gonum/floats"
)

// Stats is a snapshot of model state for reporting.
type Stats struct {
	Dim         int     `yaml:"dim"`
	Confidence  float64 `yaml:"confidence"`
	Updates     uint64  `yaml:"updates"`
	Skipped     uint64  `yaml:"skipped"`
	NormMean    float64 `yaml:"norm_mean"`
	MinVariance float64 `yaml:"min_variance"`
	MaxVariance float64 `yaml:"max_variance"`
}

// GetStats returns current model statistics. Variance bounds of an empty
// model are the prior.
func (m *Model) GetStats() Stats {
	s := Stats{
		Dim:         len(m.mean),
		Confidence:  m.confidence,
		Updates:     m.nUpdates,
		Skipped:     m.nSkipped,
		MinVariance: priorVariance,
		MaxVariance: priorVariance,
	}

	if len(m.mean) > 0 {
		s.NormMean = floats.Norm(m.mean, 2)
		s.MinVariance = floats.Min(m.variance)
		s.MaxVariance = floats.Max(m.variance)
	}

	return s
}
