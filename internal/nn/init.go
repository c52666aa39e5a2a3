package nn

import (
	"math"
	"math/rand"

	"github.com/grove-ml/grove/internal/tensor"
)

// Xavier returns a fanOut×fanIn weight matrix drawn from the Glorot uniform
// distribution U(-b, b) with b = sqrt(6 / (fanIn + fanOut)).
//
// The caller supplies rng so that weight initialization is reproducible from
// a fixed seed.
func Xavier(rng *rand.Rand, fanIn, fanOut int) *tensor.Dense {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	w := tensor.New(fanOut, fanIn)
	data := w.Data()
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * bound
	}
	return w
}
