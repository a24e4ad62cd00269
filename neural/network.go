// Package neural provides the feed-forward networks used as creature brains.
// A network is fully described by its topology plus one flat weight vector,
// which is what the genetic algorithm evolves.
package neural

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/blas/blas32"
)

var (
	ErrTooFewWeights  = errors.New("too few weights")
	ErrTooManyWeights = errors.New("too many weights")
)

// LayerTopology describes one layer: its width and the activation applied
// to its outputs. The activation of the input layer is ignored.
type LayerTopology struct {
	Neurons    int
	Activation Activation
}

// Topology lists layers from input to output.
type Topology []LayerTopology

func (t Topology) validate() {
	if len(t) < 2 {
		panic(fmt.Sprintf("neural: topology needs at least 2 layers, got %d", len(t)))
	}
	for i, l := range t {
		if l.Neurons < 1 {
			panic(fmt.Sprintf("neural: layer %d has %d neurons", i, l.Neurons))
		}
	}
}

// Inputs returns the width of the input layer.
func (t Topology) Inputs() int { return t[0].Neurons }

// Outputs returns the width of the output layer.
func (t Topology) Outputs() int { return t[len(t)-1].Neurons }

// WeightCount returns the number of parameters (weights and biases) a
// network of this topology holds. This is the length of Network.Weights.
func WeightCount(topology Topology) int {
	topology.validate()
	n := 0
	for i := 1; i < len(topology); i++ {
		n += (topology[i-1].Neurons + 1) * topology[i].Neurons
	}
	return n
}

// Neuron holds one bias and one weight per input.
type Neuron struct {
	Bias    float32
	Weights []float32
}

// Propagate returns the pre-activation bias + weights·inputs.
func (n *Neuron) Propagate(inputs []float32) float32 {
	if len(inputs) != len(n.Weights) {
		panic(fmt.Sprintf("neural: neuron expects %d inputs, got %d", len(n.Weights), len(inputs)))
	}
	w := blas32.Vector{N: len(n.Weights), Inc: 1, Data: n.Weights}
	x := blas32.Vector{N: len(inputs), Inc: 1, Data: inputs}
	return n.Bias + blas32.Dot(w, x)
}

// Layer is a set of neurons sharing inputs and an activation.
type Layer struct {
	Neurons    []Neuron
	Activation Activation
}

// Propagate computes the layer's activated outputs.
func (l *Layer) Propagate(inputs []float32) []float32 {
	out := make([]float32, len(l.Neurons))
	for i := range l.Neurons {
		out[i] = l.Neurons[i].Propagate(inputs)
	}
	l.Activation.Apply(out)
	return out
}

// Network is a feed-forward stack of layers.
type Network struct {
	Layers []Layer
}

// Random builds a network for topology with every bias and weight drawn
// uniformly from [-1, 1]. Each neuron draws its bias before its weights.
func Random(rng *rand.Rand, topology Topology) *Network {
	topology.validate()

	nn := &Network{Layers: make([]Layer, len(topology)-1)}
	for i := range nn.Layers {
		in, out := topology[i].Neurons, topology[i+1]
		layer := Layer{Neurons: make([]Neuron, out.Neurons), Activation: out.Activation}
		for j := range layer.Neurons {
			neuron := Neuron{Bias: uniform(rng), Weights: make([]float32, in)}
			for k := range neuron.Weights {
				neuron.Weights[k] = uniform(rng)
			}
			layer.Neurons[j] = neuron
		}
		nn.Layers[i] = layer
	}
	return nn
}

func uniform(rng *rand.Rand) float32 {
	return rng.Float32()*2 - 1
}

// FromWeights inflates a network from the flat layout produced by Weights.
func FromWeights(topology Topology, weights []float32) (*Network, error) {
	topology.validate()

	next := 0
	take := func() (float32, error) {
		if next >= len(weights) {
			return 0, fmt.Errorf("%w: have %d, need %d", ErrTooFewWeights, len(weights), WeightCount(topology))
		}
		w := weights[next]
		next++
		return w, nil
	}

	nn := &Network{Layers: make([]Layer, len(topology)-1)}
	for i := range nn.Layers {
		in, out := topology[i].Neurons, topology[i+1]
		layer := Layer{Neurons: make([]Neuron, out.Neurons), Activation: out.Activation}
		for j := range layer.Neurons {
			bias, err := take()
			if err != nil {
				return nil, err
			}
			neuron := Neuron{Bias: bias, Weights: make([]float32, in)}
			for k := range neuron.Weights {
				if neuron.Weights[k], err = take(); err != nil {
					return nil, err
				}
			}
			layer.Neurons[j] = neuron
		}
		nn.Layers[i] = layer
	}

	if next != len(weights) {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooManyWeights, len(weights), next)
	}
	return nn, nil
}

// Weights flattens the network: layer-major, neuron-major, with each
// neuron's bias ahead of its weights.
func (nn *Network) Weights() []float32 {
	var out []float32
	for _, layer := range nn.Layers {
		for _, neuron := range layer.Neurons {
			out = append(out, neuron.Bias)
			out = append(out, neuron.Weights...)
		}
	}
	return out
}

// Topology reconstructs the topology the network was built from. The input
// layer reports Identity.
func (nn *Network) Topology() Topology {
	t := Topology{{Neurons: len(nn.Layers[0].Neurons[0].Weights)}}
	for _, layer := range nn.Layers {
		t = append(t, LayerTopology{Neurons: len(layer.Neurons), Activation: layer.Activation})
	}
	return t
}

// Propagate feeds inputs through every layer and returns the output layer.
func (nn *Network) Propagate(inputs []float32) []float32 {
	for i := range nn.Layers {
		inputs = nn.Layers[i].Propagate(inputs)
	}
	return inputs
}
