package nlp

import (
	"math"
	"testing"

	"github.com/opencodec/codec2/internal/c2const"
)

func TestCoarsePitchFindsKnownPeriod(t *testing.T) {
	c := c2const.New(8000, 0.01)
	s := New(c)

	const period = 80.0 // 100Hz at 8kHz
	sn := make([]float64, c.MPitch)
	for i := range sn {
		sn[i] = math.Sin(2 * math.Pi * float64(i) / period)
	}

	got := s.CoarsePitch(c, sn)
	if got < float64(c.PMin) || got > float64(c.PMax) {
		t.Fatalf("CoarsePitch() = %v, want in [%d, %d]", got, c.PMin, c.PMax)
	}
	if math.Abs(got-period) > 4 {
		t.Errorf("CoarsePitch() = %v, want near %v", got, period)
	}
}

func TestCoarsePitchUpdatesPrevPeriod(t *testing.T) {
	c := c2const.New(8000, 0.01)
	s := New(c)
	if s.prevPeriod != float64(c.PMax) {
		t.Fatalf("initial prevPeriod = %v, want %v", s.prevPeriod, c.PMax)
	}
	sn := make([]float64, c.MPitch)
	for i := range sn {
		sn[i] = math.Sin(2 * math.Pi * float64(i) / 80.0)
	}
	s.CoarsePitch(c, sn)
	if s.prevPeriod == float64(c.PMax) {
		t.Errorf("prevPeriod unchanged after CoarsePitch")
	}
}

func TestRefineHarmonicStaysWithinWoRange(t *testing.T) {
	c := c2const.New(8000, 0.01)
	s := New(c)

	fftEnc := 512
	sw := make([]complex128, fftEnc)
	wo := 2 * math.Pi / 80.0
	for m := 1; m*int(wo*float64(fftEnc)/(2*math.Pi)) < fftEnc/2; m++ {
		bin := int(float64(m) * wo * float64(fftEnc) / (2 * math.Pi))
		sw[bin] = complex(1.0, 0)
	}

	got := s.RefineHarmonic(c, sw, fftEnc, 80.0)
	if got < c.WoMin || got > c.WoMax {
		t.Fatalf("RefineHarmonic() = %v, want in [%v, %v]", got, c.WoMin, c.WoMax)
	}
}
