package synth

import (
	"math"
	"testing"

	"github.com/opencodec/codec2/internal/c2const"
	"github.com/opencodec/codec2/internal/fourier"
	"github.com/opencodec/codec2/internal/sinemodel"
)

func TestSynthesizeOneFrameProducesFiniteSamples(t *testing.T) {
	c := c2const.New(8000, 0.01)
	plan, err := fourier.NewPlan(fourier.SizeDec)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	s := New(c, plan)

	model := sinemodel.New(2 * math.Pi / 80)
	model.Voiced = true
	for m := 1; m <= model.L; m++ {
		model.A[m] = 100
	}

	out := make([]int16, c.NSamp)
	for frame := 0; frame < 4; frame++ {
		if err := s.SynthesizeOneFrame(model, out); err != nil {
			t.Fatalf("SynthesizeOneFrame: %v", err)
		}
	}
	for i, v := range out {
		if v < -32768 || v > 32767 {
			t.Fatalf("out[%d] = %d out of int16 range", i, v)
		}
	}
}

// TestEarProtectIdempotentBelowPeak checks frames already within the
// peak limit pass through bit-exact, and frames above it are scaled by
// the squared inverse of the overshoot.
func TestEarProtectIdempotentBelowPeak(t *testing.T) {
	quiet := []float64{100, -30000, 29999, 0}
	want := append([]float64(nil), quiet...)
	earProtect(quiet)
	for i := range quiet {
		if quiet[i] != want[i] {
			t.Fatalf("quiet[%d] = %v, want untouched %v", i, quiet[i], want[i])
		}
	}

	loud := []float64{60000, -15000}
	earProtect(loud)
	// peak/30000 = 2, so the whole frame is scaled by 1/4.
	if math.Abs(loud[0]-15000) > 1e-9 || math.Abs(loud[1]+3750) > 1e-9 {
		t.Fatalf("loud = %v, want [15000 -3750]", loud)
	}
}

func TestClipInt16Bounds(t *testing.T) {
	if clipInt16(1e9) != 32767 {
		t.Fatalf("clipInt16(huge) should saturate at 32767")
	}
	if clipInt16(-1e9) != -32768 {
		t.Fatalf("clipInt16(-huge) should saturate at -32768")
	}
}
