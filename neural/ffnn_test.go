package neural

import (
	"math/rand/v2"
	"testing"
)

func newRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 42))
}

func testInputs() *Inputs {
	var in Inputs
	in.SetSound(0.7)
	in.SetSmell(5)
	in.SetClock1(0.3)
	in.SetClock2(-0.9)
	return &in
}

func TestNewBrainRanges(t *testing.T) {
	for _, kind := range []Kind{KindSimple, KindBig} {
		t.Run(kind.String(), func(t *testing.T) {
			bw := New(kind, newRNG()).Weights()
			for _, w := range bw.Weights {
				if w < -initWeightRange || w > initWeightRange {
					t.Errorf("weight %v outside init range", w)
				}
			}
			for _, b := range bw.Biases {
				if b < -initBiasRange || b > initBiasRange {
					t.Errorf("bias %v outside init range", b)
				}
			}
			if bw.Kind != kind.String() {
				t.Errorf("Weights().Kind = %q, want %q", bw.Kind, kind)
			}
		})
	}
}

func TestWeightCounts(t *testing.T) {
	simple := NewSimpleBrain(newRNG()).Weights()
	if len(simple.Weights) != NumOutputs*NumInputs || len(simple.Biases) != NumOutputs {
		t.Errorf("simple: %d weights, %d biases", len(simple.Weights), len(simple.Biases))
	}
	big := NewBigBrain(newRNG()).Weights()
	if len(big.Weights) != NumHidden*NumInputs+NumOutputs*NumHidden || len(big.Biases) != NumHidden+NumOutputs {
		t.Errorf("big: %d weights, %d biases", len(big.Weights), len(big.Biases))
	}
}

func TestThinkBounded(t *testing.T) {
	extreme := &Inputs{}
	for i := range extreme.data {
		extreme.data[i] = 1e6
	}

	for _, kind := range []Kind{KindSimple, KindBig} {
		t.Run(kind.String(), func(t *testing.T) {
			b := New(kind, newRNG())
			// Blow the parameters up so the activations saturate.
			for i := 0; i < 5; i++ {
				b.Mutate(newRNG(), Mutation{Rate: 20, WeightScale: 1, BiasScale: 1})
			}
			for _, in := range []*Inputs{testInputs(), extreme} {
				o := b.Think(in)
				for i, v := range o.Raw() {
					if v < -0.5 || v > 0.5 {
						t.Errorf("output %d = %v outside [-0.5, 0.5]", i, v)
					}
				}
				if o.R() < 0 || o.R() > 1 || o.G() < 0 || o.G() > 1 || o.B() < 0 || o.B() > 1 {
					t.Errorf("colour out of range: %v %v %v", o.R(), o.G(), o.B())
				}
				if o.Speed() <= 0 {
					t.Errorf("speed %v should be positive", o.Speed())
				}
			}
		})
	}
}

func TestThinkPure(t *testing.T) {
	for _, kind := range []Kind{KindSimple, KindBig} {
		b := New(kind, newRNG())
		before := b.Clone()
		o1 := b.Think(testInputs())
		o2 := b.Think(testInputs())
		if o1 != o2 {
			t.Errorf("%v: Think is not deterministic", kind)
		}
		if !b.Equal(before) {
			t.Errorf("%v: Think mutated the brain", kind)
		}
	}
}

func TestZeroBrainOutputsCentre(t *testing.T) {
	o := (&SimpleBrain{}).Think(testInputs())
	for i, v := range o.Raw() {
		if v != 0 {
			t.Errorf("output %d = %v, want 0 for zero parameters", i, v)
		}
	}
	if o.R() != 0.5 {
		t.Errorf("R = %v, want 0.5", o.R())
	}
}

func TestCloneIndependent(t *testing.T) {
	for _, kind := range []Kind{KindSimple, KindBig} {
		b := New(kind, newRNG())
		clone := b.Clone()
		if !b.Equal(clone) {
			t.Fatalf("%v: clone differs", kind)
		}
		clone.Mutate(newRNG(), DefaultMutation())
		if b.Equal(clone) {
			t.Errorf("%v: mutating the clone changed the original", kind)
		}
	}
}

func TestEqualAcrossKinds(t *testing.T) {
	if NewSimpleBrain(newRNG()).Equal(NewBigBrain(newRNG())) {
		t.Error("different kinds must not be equal")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"simple", KindSimple, false},
		{"", KindSimple, false},
		{"big", KindBig, false},
		{"huge", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr || (!tt.wantErr && got != tt.want) {
			t.Errorf("ParseKind(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func BenchmarkThinkBig(b *testing.B) {
	nn := NewBigBrain(newRNG())
	in := testInputs()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		nn.Think(in)
	}
}
