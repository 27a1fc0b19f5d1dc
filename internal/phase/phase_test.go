package phase

import (
	"math"
	"testing"

	"github.com/opencodec/codec2/internal/rng"
	"github.com/opencodec/codec2/internal/sinemodel"
)

func TestSynthesizeZeroOrderVoicedDeterministic(t *testing.T) {
	s := New()
	g := rng.New()
	model := sinemodel.New(2 * math.Pi / 80)
	model.Voiced = true
	ak := make([]float64, 11)
	ak[0] = 1

	s.SynthesizeZeroOrder(&model, ak, g, 80)
	for m := 1; m <= model.L; m++ {
		if math.IsNaN(model.Phi[m]) {
			t.Fatalf("phi[%d] is NaN", m)
		}
	}
}

func TestSynthesizeZeroOrderUnvoicedUsesRng(t *testing.T) {
	s := New()
	g := rng.New()
	model := sinemodel.New(2 * math.Pi / 80)
	model.Voiced = false

	s.SynthesizeZeroOrder(&model, nil, g, 80)
	allZero := true
	for m := 1; m <= model.L; m++ {
		if model.Phi[m] != 0 {
			allZero = false
		}
	}
	if allZero {
		t.Fatalf("unvoiced phases all zero, want RNG-derived spread")
	}
}

func TestResetZeroesAccumulator(t *testing.T) {
	s := New()
	s.exPhase = 1.5
	s.Reset()
	if s.exPhase != 0 {
		t.Fatalf("exPhase = %v, want 0 after Reset", s.exPhase)
	}
}

// TestPhaseAccumulatorStaysWrapped drives the accumulator repeatedly
// with Wo=2*pi/80 over 80-sample frames and checks it stays in [-pi, pi)
// at every step rather than growing without bound.
func TestPhaseAccumulatorStaysWrapped(t *testing.T) {
	s := New()
	g := rng.New()
	model := sinemodel.New(2 * math.Pi / 80)
	model.Voiced = true

	for i := 0; i < 1000; i++ {
		s.SynthesizeZeroOrder(&model, nil, g, 80)
		if math.Abs(s.exPhase) > math.Pi {
			t.Fatalf("step %d: |exPhase| = %v > pi", i, math.Abs(s.exPhase))
		}
	}
}

// TestRandomisePhasesOnlyBelowBackgroundThreshold checks the
// frequency-selective pseudo-voicing: after the tracker settles on a
// noise floor, a voiced frame's quiet harmonics get their phase
// replaced while loud ones keep the synthesised value.
func TestRandomisePhasesOnlyBelowBackgroundThreshold(t *testing.T) {
	bn := NewBackgroundNoise()
	for i := 0; i < 100; i++ {
		bn.Update(false, 20) // quiet unvoiced frames, below BgThreshDb
	}

	g := rng.New()
	model := sinemodel.New(2 * math.Pi / 80)
	model.Voiced = true
	loud := math.Pow(10, (20+BgMarginDb)/20) * 100
	for m := 1; m <= model.L; m++ {
		if m%2 == 0 {
			model.A[m] = loud
		} else {
			model.A[m] = 1e-3
		}
		model.Phi[m] = 0.5
	}

	bn.RandomisePhases(&model, g)
	for m := 1; m <= model.L; m++ {
		if m%2 == 0 && model.Phi[m] != 0.5 {
			t.Fatalf("phi[%d] = %v, loud harmonic should keep its phase", m, model.Phi[m])
		}
		if m%2 == 1 && model.Phi[m] == 0.5 {
			t.Fatalf("phi[%d] unchanged, quiet harmonic should be randomised", m)
		}
	}
}

// TestRandomisePhasesSkipsUnvoicedFrames checks that unvoiced frames
// (already carrying random phases) are left alone.
func TestRandomisePhasesSkipsUnvoicedFrames(t *testing.T) {
	bn := NewBackgroundNoise()
	g := rng.New()
	model := sinemodel.New(2 * math.Pi / 80)
	model.Voiced = false
	for m := 1; m <= model.L; m++ {
		model.Phi[m] = 0.5
	}
	bn.RandomisePhases(&model, g)
	for m := 1; m <= model.L; m++ {
		if model.Phi[m] != 0.5 {
			t.Fatalf("phi[%d] = %v, want untouched on unvoiced frame", m, model.Phi[m])
		}
	}
}

// TestBackgroundUpdateIgnoresLoudAndVoicedFrames checks the estimate
// only follows quiet unvoiced frames.
func TestBackgroundUpdateIgnoresLoudAndVoicedFrames(t *testing.T) {
	bn := NewBackgroundNoise()
	before := bn.bgEstDb
	bn.Update(true, 10)
	bn.Update(false, BgThreshDb+10)
	if bn.bgEstDb != before {
		t.Fatalf("bgEstDb moved to %v on frames that should be ignored", bn.bgEstDb)
	}
	bn.Update(false, 10)
	if bn.bgEstDb == before {
		t.Fatalf("bgEstDb unchanged by a quiet unvoiced frame")
	}
}
