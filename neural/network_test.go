package neural

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-5*math.Max(1, math.Abs(float64(b)))
}

func approxSlice(t *testing.T, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range got {
		if !approxEqual(got[i], want[i]) {
			t.Errorf("[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func testLayer() Layer {
	return Layer{
		Neurons: []Neuron{
			{Bias: 0, Weights: []float32{0.25, 0.75}},
			{Bias: 0.5, Weights: []float32{0.5, 0.5}},
		},
		Activation: ReLU,
	}
}

func TestNeuronPropagate(t *testing.T) {
	n := Neuron{Bias: 0.5, Weights: []float32{0.5, 0.5}}

	relu := func(x float32) float32 {
		xs := []float32{x}
		ReLU.Apply(xs)
		return xs[0]
	}

	if got := relu(n.Propagate([]float32{-10, -10})); got != 0 {
		t.Errorf("relu(-10,-10) = %g, want 0", got)
	}
	if got := relu(n.Propagate([]float32{1, 0.5})); !approxEqual(got, 1.25) {
		t.Errorf("relu(1,0.5) = %g, want 1.25", got)
	}
}

func TestNeuronInputMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on input width mismatch")
		}
	}()
	n := Neuron{Weights: []float32{1, 2}}
	n.Propagate([]float32{1})
}

func TestLayerPropagate(t *testing.T) {
	layer := testLayer()
	approxSlice(t, layer.Propagate([]float32{0.3, 0.6}), []float32{0.525, 0.95})
}

func TestNetworkPropagate(t *testing.T) {
	nn := &Network{Layers: []Layer{testLayer(), testLayer()}}
	approxSlice(t, nn.Propagate([]float32{0.3, 0.6}), []float32{0.84375, 1.2375})
}

func TestActivations(t *testing.T) {
	tests := []struct {
		activation Activation
		in         []float32
		want       []float32
	}{
		{Identity, []float32{-1, 2}, []float32{-1, 2}},
		{ReLU, []float32{-1, 0, 2}, []float32{0, 0, 2}},
		{Sigmoid, []float32{0}, []float32{0.5}},
		{Tanh, []float32{0, 100, -100}, []float32{0, 1, -1}},
		{Softmax, []float32{1, 1}, []float32{0.5, 0.5}},
		{Softmax, []float32{1000, 0}, []float32{1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.activation.String(), func(t *testing.T) {
			xs := append([]float32(nil), tt.in...)
			tt.activation.Apply(xs)
			approxSlice(t, xs, tt.want)
		})
	}
}

func TestSoftmaxSumsToOne(t *testing.T) {
	xs := []float32{0.3, -2, 5, 1.1}
	Softmax.Apply(xs)
	var sum float32
	for _, x := range xs {
		if x <= 0 || x >= 1 {
			t.Errorf("softmax output %g outside (0,1)", x)
		}
		sum += x
	}
	if !approxEqual(sum, 1) {
		t.Errorf("softmax sums to %g", sum)
	}
}

func TestActivationString(t *testing.T) {
	if ReLU.String() != "relu" {
		t.Errorf("ReLU.String() = %q", ReLU.String())
	}
	if Activation(42).String() != "Activation(42)" {
		t.Errorf("unknown activation string = %q", Activation(42).String())
	}
}

func testTopology() Topology {
	return Topology{
		{Neurons: 3},
		{Neurons: 6, Activation: ReLU},
		{Neurons: 2, Activation: Tanh},
	}
}

func TestWeightCount(t *testing.T) {
	tests := []struct {
		name     string
		topology Topology
		want     int
	}{
		{"single layer", Topology{{Neurons: 2}, {Neurons: 1}}, 3},
		{"creature brain", testTopology(), (3+1)*6 + (6+1)*2},
		{"eye of nine", Topology{{Neurons: 9}, {Neurons: 18, Activation: ReLU}, {Neurons: 2, Activation: Tanh}}, 10*18 + 19*2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeightCount(tt.topology); got != tt.want {
				t.Errorf("WeightCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRandomShapeAndRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn := Random(rng, testTopology())

	if len(nn.Layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(nn.Layers))
	}
	if len(nn.Layers[0].Neurons) != 6 || len(nn.Layers[0].Neurons[0].Weights) != 3 {
		t.Errorf("hidden layer shape wrong")
	}
	if nn.Layers[1].Activation != Tanh {
		t.Errorf("output activation = %v, want tanh", nn.Layers[1].Activation)
	}

	weights := nn.Weights()
	if len(weights) != WeightCount(testTopology()) {
		t.Fatalf("Weights() has %d values, want %d", len(weights), WeightCount(testTopology()))
	}
	for i, w := range weights {
		if w < -1 || w > 1 {
			t.Errorf("weight %d = %g outside [-1, 1]", i, w)
		}
	}
}

func TestRandomDeterministic(t *testing.T) {
	a := Random(rand.New(rand.NewSource(7)), testTopology()).Weights()
	b := Random(rand.New(rand.NewSource(7)), testTopology()).Weights()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("weight %d differs: %g vs %g", i, a[i], b[i])
		}
	}
}

func TestWeightsOrder(t *testing.T) {
	nn := &Network{Layers: []Layer{testLayer()}}
	approxSlice(t, nn.Weights(), []float32{0, 0.25, 0.75, 0.5, 0.5, 0.5})
}

func TestFromWeightsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	topology := testTopology()
	original := Random(rng, topology)

	restored, err := FromWeights(topology, original.Weights())
	if err != nil {
		t.Fatalf("FromWeights: %v", err)
	}
	approxSlice(t, restored.Weights(), original.Weights())

	input := []float32{0.1, 0.5, 0.9}
	approxSlice(t, restored.Propagate(input), original.Propagate(input))

	got := restored.Topology()
	for i := range topology {
		if got[i].Neurons != topology[i].Neurons {
			t.Errorf("layer %d has %d neurons, want %d", i, got[i].Neurons, topology[i].Neurons)
		}
	}
}

func TestFromWeightsLengthMismatch(t *testing.T) {
	topology := testTopology()
	n := WeightCount(topology)

	tests := []struct {
		name   string
		length int
		want   error
	}{
		{"empty", 0, ErrTooFewWeights},
		{"one short", n - 1, ErrTooFewWeights},
		{"one extra", n + 1, ErrTooManyWeights},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nn, err := FromWeights(topology, make([]float32, tt.length))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if nn != nil {
				t.Error("expected nil network on error")
			}
		})
	}
}

func TestInvalidTopologyPanics(t *testing.T) {
	for _, topology := range []Topology{
		nil,
		{{Neurons: 3}},
		{{Neurons: 3}, {Neurons: 0}},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for topology %v", topology)
				}
			}()
			WeightCount(topology)
		}()
	}
}

func BenchmarkPropagate(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	topology := Topology{{Neurons: 9}, {Neurons: 18, Activation: ReLU}, {Neurons: 2, Activation: Tanh}}
	nn := Random(rng, topology)
	inputs := make([]float32, 9)
	for i := range inputs {
		inputs[i] = rng.Float32()
	}

	b.ResetTimer()
	for b.Loop() {
		nn.Propagate(inputs)
	}
}
