package newamp1

import (
	"math"
	"testing"

	"github.com/opencodec/codec2/internal/fourier"
)

func TestRateKGridAscending(t *testing.T) {
	grid := RateKGrid()
	for i := 1; i < K; i++ {
		if grid[i] <= grid[i-1] {
			t.Fatalf("grid[%d]=%v not > grid[%d]=%v", i, grid[i], i-1, grid[i-1])
		}
	}
}

func TestResampleRoundTripShape(t *testing.T) {
	var a [81]float64
	l := 30
	wo := 2 * math.Pi / 80
	for m := 1; m <= l; m++ {
		a[m] = 1.0
	}
	rateK := ResampleToRateK(a[:], l, wo, 8000)

	var out [81]float64
	ResampleFromRateK(rateK, l, wo, 8000, &out)
	for m := 1; m <= l; m++ {
		if out[m] <= 0 {
			t.Fatalf("a[%d] = %v, want > 0", m, out[m])
		}
	}
}

func TestVQEncodeDecodeIndexesInRange(t *testing.T) {
	var v [K]float64
	for i := range v {
		v[i] = float64(i) - 10
	}
	i1, i2 := Encode(v)
	if i1 >= 1<<Stage1Bits || i2 >= 1<<Stage2Bits {
		t.Fatalf("indexes out of range: %d %d", i1, i2)
	}
	got := Decode(i1, i2)
	for _, x := range got {
		if math.IsNaN(x) {
			t.Fatalf("decoded NaN")
		}
	}
}

func TestMeanRemoveZeroMean(t *testing.T) {
	v := [K]float64{}
	for i := range v {
		v[i] = float64(i)
	}
	out, mean := MeanRemove(v)
	sum := 0.0
	for _, x := range out {
		sum += x
	}
	if math.Abs(sum) > 1e-9 {
		t.Fatalf("mean-removed sum = %v, want ~0", sum)
	}
	if mean <= 0 {
		t.Fatalf("mean = %v, want > 0", mean)
	}
}

func TestEqualizerResetZeroesState(t *testing.T) {
	eq := NewEqualizer()
	var uq, q [K]float64
	for i := range uq {
		uq[i] = 5
	}
	eq.Update(uq, q)
	eq.Reset()
	applied := eq.Apply(q)
	for i, x := range applied {
		if x != q[i] {
			t.Fatalf("applied[%d] = %v, want %v after reset", i, x, q[i])
		}
	}
}

func TestEncodeWoVoicingZeroMeansUnvoiced(t *testing.T) {
	woMin, woMax := 2*math.Pi/160, 2*math.Pi/20
	idx := EncodeWoVoicing(2*math.Pi/80, woMin, woMax, false)
	if idx != 0 {
		t.Fatalf("unvoiced index = %d, want 0", idx)
	}
	gotWo, voiced := DecodeWoVoicing(0, woMin, woMax)
	if voiced {
		t.Fatalf("DecodeWoVoicing(0) voiced = true, want false")
	}
	if gotWo <= 0 {
		t.Fatalf("DecodeWoVoicing(0) wo = %v, want > 0", gotWo)
	}
}

func TestWoVoicingRoundTripVoiced(t *testing.T) {
	woMin, woMax := 2*math.Pi/160, 2*math.Pi/20
	wo := 2 * math.Pi / 90
	idx := EncodeWoVoicing(wo, woMin, woMax, true)
	if idx == 0 {
		t.Fatalf("voiced index = 0, collides with the unvoiced sentinel")
	}
	if idx >= WoLevels {
		t.Fatalf("index %d out of range", idx)
	}
	gotWo, voiced := DecodeWoVoicing(idx, woMin, woMax)
	if !voiced {
		t.Fatalf("decoded voiced = false, want true")
	}
	if math.Abs(gotWo-wo)/wo > 0.1 {
		t.Fatalf("decoded wo %v too far from %v", gotWo, wo)
	}
}

func TestEnergyRoundTripApprox(t *testing.T) {
	e := 800.0
	idx := EncodeEnergy(e)
	if idx >= 1<<EnergyBits {
		t.Fatalf("index %d out of range", idx)
	}
	got := DecodeEnergy(idx)
	if got <= 0 {
		t.Fatalf("decoded energy %v, want > 0", got)
	}
}

func TestSynthesisePhasesProducesFiniteValues(t *testing.T) {
	plan, err := fourier.NewPlan(PhaseNFFT)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	var rateK [K]float64
	for i := range rateK {
		rateK[i] = 1
	}
	var phi [81]float64
	l := 20
	wo := 2 * math.Pi / 80
	if err := SynthesisePhases(rateK, l, wo, 8000, plan, &phi); err != nil {
		t.Fatalf("SynthesisePhases: %v", err)
	}
	for m := 1; m <= l; m++ {
		if math.IsNaN(phi[m]) || math.IsInf(phi[m], 0) {
			t.Fatalf("phi[%d] = %v, want finite", m, phi[m])
		}
	}
}
