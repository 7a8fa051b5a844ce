package cw

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestTrainValidation(t *testing.T) {
	examples := []Example{{FeatureVector{{0, 1}}, Positive}}

	tests := []struct {
		name       string
		model      *Model
		iterations int
	}{
		{"zero iterations", &Model{confidence: 1}, 0},
		{"negative iterations", &Model{confidence: 1}, -3},
		{"zero confidence", &Model{}, 1},
		{"negative confidence", &Model{confidence: -0.5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Train(tt.model, examples, tt.iterations)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("Train() error = %v, want ErrConfig", err)
			}
			if tt.model.Dim() != 0 {
				t.Errorf("Train() touched the model before validating")
			}
		})
	}
}

func TestTrainTwoExamplesOnePass(t *testing.T) {
	m := newModel(t)
	examples := []Example{
		{FeatureVector{{0, 1}, {1, 1}}, Positive},
		{FeatureVector{{0, -1}, {1, -1}}, Negative},
	}

	if err := Train(m, examples, 1); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if !(m.Mean(i) > 0) {
			t.Errorf("mean[%d] = %v, want > 0", i, m.Mean(i))
		}
		if !(m.Variance(i) < 1) {
			t.Errorf("variance[%d] = %v, want < 1", i, m.Variance(i))
		}
	}
	if s := m.GetStats(); s.Updates != 2 {
		t.Errorf("Updates = %v, want 2", s.Updates)
	}
}

func TestTrainDeterministic(t *testing.T) {
	examples := syntheticExamples(200, 30, 11)

	run := func() *Model {
		m, err := New(WithConfidence(0.5))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if err := Train(m, examples, 5); err != nil {
			t.Fatalf("Train() error = %v", err)
		}
		return m
	}

	a, b := run(), run()
	assertSameModel(t, a, b)
	if !floats.Equal(a.Weights(), b.Weights()) {
		t.Errorf("weights differ between identical runs")
	}
}

func TestTrainOnPass(t *testing.T) {
	m := newModel(t)
	var passes []int

	err := Train(m, syntheticExamples(10, 5, 3), 4, OnPass(func(pass int) {
		passes = append(passes, pass)
	}))
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if len(passes) != 4 {
		t.Fatalf("OnPass called %d times, want 4", len(passes))
	}
	for i, p := range passes {
		if p != i+1 {
			t.Errorf("pass %d reported as %d", i+1, p)
		}
	}
}

func TestTrainAbortsOnBadExample(t *testing.T) {
	m := newModel(t)
	examples := []Example{
		{FeatureVector{{0, 1}}, Positive},
		{FeatureVector{{1, 1}}, 5},
		{FeatureVector{{2, 1}}, Positive},
	}

	called := false
	err := Train(m, examples, 3, OnPass(func(int) { called = true }))
	if !errors.Is(err, ErrLabel) {
		t.Fatalf("Train() error = %v, want ErrLabel", err)
	}
	if called {
		t.Errorf("OnPass called for an aborted pass")
	}
	if m.Dim() != 1 {
		t.Errorf("Dim() = %v, want 1 (stopped at example 2)", m.Dim())
	}
}

func TestTrainLearnsSeparableData(t *testing.T) {
	train := syntheticExamples(500, 20, 1)
	test := syntheticExamples(200, 20, 2)

	m := newModel(t)
	if err := Train(m, train, 10); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	res, err := Evaluate(m, test)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if acc := res.Accuracy(); acc < 0.85 {
		t.Errorf("accuracy = %v, want >= 0.85 (%s)", acc, res)
	}
}

func TestEvaluate(t *testing.T) {
	m := newModel(t)
	m.mean = []float64{1, -1}
	m.variance = []float64{1, 1}

	examples := []Example{
		{FeatureVector{{0, 1}}, Positive},          // pp
		{FeatureVector{{0, 2}}, Positive},          // pp
		{FeatureVector{{1, 1}}, Positive},          // pn
		{FeatureVector{{0, 1}, {1, 1}}, Negative},  // np, margin 0
		{FeatureVector{{1, 3}}, Negative},          // nn
		{FeatureVector{{9, 1}}, Negative},          // np, unseen
		{FeatureVector{{0, -1}, {1, 1}}, Negative}, // nn
	}

	res, err := Evaluate(m, examples)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	want := TestResult{PP: 2, PN: 1, NP: 2, NN: 2}
	if res != want {
		t.Errorf("Evaluate() = %+v, want %+v", res, want)
	}
	if m.Dim() != 2 || m.Mean(0) != 1 {
		t.Errorf("Evaluate() modified the model")
	}
}

func TestEvaluateZeroModelPositive(t *testing.T) {
	m := newModel(t)
	m.mean = []float64{0, 0, 0}
	m.variance = []float64{1, 1, 1}

	res, err := Evaluate(m, []Example{{FeatureVector{{0, 3}, {2, -7}}, Positive}})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if res != (TestResult{PP: 1}) {
		t.Errorf("Evaluate() = %+v, want a single pp", res)
	}
}

func TestEvaluateErrors(t *testing.T) {
	m := newModel(t)
	m.mean = []float64{1}
	m.variance = []float64{1}

	_, err := Evaluate(m, []Example{{FeatureVector{{0, math.NaN()}}, Positive}})
	if !errors.Is(err, ErrScore) {
		t.Errorf("Evaluate() with NaN margin error = %v, want ErrScore", err)
	}

	_, err = Evaluate(m, []Example{{FeatureVector{{0, 1}}, 0}})
	if !errors.Is(err, ErrLabel) {
		t.Errorf("Evaluate() with invalid label error = %v, want ErrLabel", err)
	}
}

func TestTestResult(t *testing.T) {
	tests := []struct {
		name    string
		res     TestResult
		wantAcc float64
		wantStr string
	}{
		{
			name:    "mixed",
			res:     TestResult{PP: 2, PN: 1, NP: 0, NN: 1},
			wantAcc: 0.75,
			wantStr: "accuracy 75.000% (3/4)\n(Answer, Predict): (p,p):2 (p,n):1 (n,p):0 (n,n):1",
		},
		{
			name:    "all wrong",
			res:     TestResult{PN: 2, NP: 1},
			wantAcc: 0,
			wantStr: "accuracy 0.000% (0/3)\n(Answer, Predict): (p,p):0 (p,n):2 (n,p):1 (n,n):0",
		},
		{
			name:    "thirds",
			res:     TestResult{PP: 1, NN: 1, PN: 1},
			wantAcc: 2.0 / 3.0,
			wantStr: "accuracy 66.667% (2/3)\n(Answer, Predict): (p,p):1 (p,n):1 (n,p):0 (n,n):1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.Accuracy(); math.Abs(got-tt.wantAcc) > 1e-12 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.wantAcc)
			}
			if got := tt.res.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
		})
	}

	var empty TestResult
	if !math.IsNaN(empty.Accuracy()) {
		t.Errorf("Accuracy() of empty result = %v, want NaN", empty.Accuracy())
	}
	if got := empty.String(); got != "accuracy 0.000% (0/0)\n(Answer, Predict): (p,p):0 (p,n):0 (n,p):0 (n,n):0" {
		t.Errorf("String() of empty result = %q", got)
	}
}

// syntheticExamples draws sparse examples labeled by a fixed hidden
// hyperplane over dim features.
func syntheticExamples(n, dim int, seed int64) []Example {
	rng := rand.New(rand.NewSource(seed))
	hidden := rand.New(rand.NewSource(99))
	w := make([]float64, dim)
	for i := range w {
		w[i] = hidden.NormFloat64()
	}

	examples := make([]Example, 0, n)
	for len(examples) < n {
		fv := make(FeatureVector, 0, 5)
		score := 0.0
		for _, idx := range rng.Perm(dim)[:5] {
			v := rng.Float64()
			fv = append(fv, Feature{Index: idx, Value: v})
			score += w[idx] * v
		}
		if math.Abs(score) < 0.1 {
			continue
		}
		label := Positive
		if score < 0 {
			label = Negative
		}
		examples = append(examples, Example{Features: fv, Label: label})
	}
	return examples
}
