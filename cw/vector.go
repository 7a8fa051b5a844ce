package cw

import "fmt"

// Feature is a single (index, value) pair of a sparse feature vector.
type Feature struct {
	Index int
	Value float64
}

// FeatureVector is an ordered list of features. Indices are usually unique
// but duplicates are allowed and processed in order.
type FeatureVector []Feature

// Label is the binary class of an example.
type Label int

const (
	Positive Label = 1
	Negative Label = -1
)

// Valid reports whether l is exactly +1 or -1.
func (l Label) Valid() bool {
	return l == Positive || l == Negative
}

func (l Label) String() string {
	switch l {
	case Positive:
		return "+1"
	case Negative:
		return "-1"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// Example is one labeled training or test instance.
type Example struct {
	Features FeatureVector
	Label    Label
}

// MaxIndex returns the largest feature index in fv, or -1 for an empty vector.
func (fv FeatureVector) MaxIndex() int {
	n := -1
	for _, f := range fv {
		if f.Index > n {
			n = f.Index
		}
	}
	return n
}
