package nn

import "github.com/grove-ml/grove/internal/tensor"

// Input is the passthrough entry layer of a network. Its width is the
// feature count of the dataset; it owns no parameters and only validates
// that incoming samples have the expected width.
type Input struct {
	width int
}

// NewInput creates an Input layer expecting width features per sample.
func NewInput(width int) *Input {
	return &Input{width: width}
}

// Width returns the feature count.
func (l *Input) Width() int { return l.width }

// Forward validates the sample width and returns the input unchanged.
func (l *Input) Forward(input *tensor.Dense) (*tensor.Dense, error) {
	if input.Cols() != l.width {
		return nil, &DimensionError{Op: "Input.Forward", Got: input.Cols(), Want: l.width}
	}
	return input, nil
}
