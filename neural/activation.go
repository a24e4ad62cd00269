package neural

import (
	"fmt"
	"math"
)

// Activation is the nonlinearity applied to a layer's pre-activations.
type Activation int

const (
	Identity Activation = iota
	ReLU
	Sigmoid
	Tanh
	Softmax // normalized over the whole layer
)

var activationNames = [...]string{
	Identity: "identity",
	ReLU:     "relu",
	Sigmoid:  "sigmoid",
	Tanh:     "tanh",
	Softmax:  "softmax",
}

func (a Activation) String() string {
	if a < 0 || int(a) >= len(activationNames) {
		return fmt.Sprintf("Activation(%d)", int(a))
	}
	return activationNames[a]
}

// Apply transforms xs in place.
func (a Activation) Apply(xs []float32) {
	switch a {
	case Identity:
	case ReLU:
		for i, x := range xs {
			if x < 0 {
				xs[i] = 0
			}
		}
	case Sigmoid:
		for i, x := range xs {
			xs[i] = float32(1 / (1 + math.Exp(-float64(x))))
		}
	case Tanh:
		for i, x := range xs {
			xs[i] = float32(math.Tanh(float64(x)))
		}
	case Softmax:
		softmax(xs)
	default:
		panic(fmt.Sprintf("neural: unknown activation %d", int(a)))
	}
}

// softmax subtracts the maximum before exponentiating so large inputs
// cannot overflow.
func softmax(xs []float32) {
	if len(xs) == 0 {
		return
	}
	peak := xs[0]
	for _, x := range xs[1:] {
		peak = max(peak, x)
	}

	var sum float64
	exps := make([]float64, len(xs))
	for i, x := range xs {
		exps[i] = math.Exp(float64(x - peak))
		sum += exps[i]
	}
	for i := range xs {
		xs[i] = float32(exps[i] / sum)
	}
}
