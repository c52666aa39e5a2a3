package nn

import "fmt"

// DimensionError reports input data whose shape does not match what a layer
// or network expects: wrong feature width, wrong label count, or a label
// outside the class mapping fixed at training time.
type DimensionError struct {
	Op     string // Operation that detected the mismatch (e.g. "Linear.Forward").
	Got    int
	Want   int
	Detail string // Non-numeric mismatches (e.g. unknown class label).
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("%s: dimension mismatch: got %d, want %d", e.Op, e.Got, e.Want)
}

// StateError reports an operation attempted in the wrong lifecycle state,
// such as backpropagation without a preceding feed, or inference on an
// untrained estimator.
type StateError struct {
	Op     string
	Reason string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
