package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grove-ml/grove/internal/tensor"
)

func TestLinear_ForwardReLU(t *testing.T) {
	layer := NewLinear(2, 2, ReLU)
	copy(layer.Weights().Data(), []float64{1, 0, 0, -1})
	layer.Bias()[0] = 1
	layer.Bias()[1] = 0

	x, err := tensor.FromSlice([]float64{2, 3}, 1, 2)
	require.NoError(t, err)

	out, err := layer.Forward(x)
	require.NoError(t, err)

	// z = (2*1 + 3*0 + 1, 2*0 + 3*-1 + 0) = (3, -3); ReLU → (3, 0).
	assert.InDelta(t, 3.0, out.At(0, 0), 1e-12)
	assert.InDelta(t, 0.0, out.At(0, 1), 1e-12)
}

func TestLinear_ForwardWidthMismatch(t *testing.T) {
	layer := NewLinear(3, 2, ReLU)

	x, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, 1, 4)
	_, err := layer.Forward(x)

	var dimErr *DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 4, dimErr.Got)
	assert.Equal(t, 3, dimErr.Want)
}

func TestLinear_BackwardChainsThroughActivation(t *testing.T) {
	layer := NewLinear(2, 2, ReLU)
	copy(layer.Weights().Data(), []float64{1, 0, 0, -1})

	x, _ := tensor.FromSlice([]float64{2, 3}, 1, 2)
	_, err := layer.Forward(x)
	require.NoError(t, err)

	// z = (2, -3): ReLU' = (1, 0), so the second unit's gradient is gated
	// off entirely.
	upstream, _ := tensor.FromSlice([]float64{0.5, 0.7}, 1, 2)
	downstream, grad, err := layer.Backward(upstream)
	require.NoError(t, err)

	// dZ = (0.5, 0); dW = dZ.T @ x.
	assert.InDelta(t, 1.0, grad.Weights.At(0, 0), 1e-12)
	assert.InDelta(t, 1.5, grad.Weights.At(0, 1), 1e-12)
	assert.InDelta(t, 0.0, grad.Weights.At(1, 0), 1e-12)
	assert.InDelta(t, 0.0, grad.Weights.At(1, 1), 1e-12)
	assert.InDelta(t, 0.5, grad.Bias[0], 1e-12)
	assert.InDelta(t, 0.0, grad.Bias[1], 1e-12)

	// downstream = dZ @ W = (0.5*1 + 0*0, 0.5*0 + 0*-1).
	assert.InDelta(t, 0.5, downstream.At(0, 0), 1e-12)
	assert.InDelta(t, 0.0, downstream.At(0, 1), 1e-12)
}

func TestLinear_BackwardWithoutForward(t *testing.T) {
	layer := NewLinear(2, 2, ReLU)

	upstream, _ := tensor.FromSlice([]float64{1, 1}, 1, 2)
	_, _, err := layer.Backward(upstream)

	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestLinear_BackwardConsumesCache(t *testing.T) {
	layer := NewLinear(2, 2, Sigmoid)

	x, _ := tensor.FromSlice([]float64{1, 1}, 1, 2)
	_, err := layer.Forward(x)
	require.NoError(t, err)

	upstream, _ := tensor.FromSlice([]float64{1, 1}, 1, 2)
	_, _, err = layer.Backward(upstream)
	require.NoError(t, err)

	_, _, err = layer.Backward(upstream)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestLinear_ApplyDelta(t *testing.T) {
	layer := NewLinear(2, 1, Tanh)
	copy(layer.Weights().Data(), []float64{1, 2})
	layer.Bias()[0] = 3

	dw, _ := tensor.FromSlice([]float64{0.5, 0.25}, 1, 2)
	layer.ApplyDelta(dw, []float64{1})

	assert.Equal(t, 0.5, layer.Weights().At(0, 0))
	assert.Equal(t, 1.75, layer.Weights().At(0, 1))
	assert.Equal(t, 2.0, layer.Bias()[0])
}

func TestActivationDerivatives(t *testing.T) {
	cases := []struct {
		name string
		act  Activation
		z    float64
		want float64
	}{
		{"relu positive", ReLU, 2, 1},
		{"relu negative", ReLU, -2, 0},
		{"sigmoid at zero", Sigmoid, 0, 0.25},
		{"tanh at zero", Tanh, 0, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.act.derivative(tc.z), 1e-12)
		})
	}
}
