package newamp2

import (
	"math"
	"testing"
)

func TestRateKGridAscending(t *testing.T) {
	grid := RateKGrid(K8k, 8000)
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			t.Fatalf("grid[%d]=%v not > grid[%d]=%v", i, grid[i], i-1, grid[i-1])
		}
	}
}

func TestKForSelectsBySampleRate(t *testing.T) {
	if KFor(8000) != K8k {
		t.Fatalf("KFor(8000) = %d, want %d", KFor(8000), K8k)
	}
	if KFor(16000) != K16k {
		t.Fatalf("KFor(16000) = %d, want %d", KFor(16000), K16k)
	}
}

func TestResampleRoundTripPositive(t *testing.T) {
	var a [81]float64
	l := 25
	wo := 2 * math.Pi / 90
	for m := 1; m <= l; m++ {
		a[m] = 2.0
	}
	rateK := ResampleToRateK(a[:], l, wo, 8000, K8k)

	var out [81]float64
	ResampleFromRateK(rateK, l, wo, 8000, K8k, &out)
	for m := 1; m <= l; m++ {
		if out[m] <= 0 {
			t.Fatalf("a[%d] = %v, want > 0", m, out[m])
		}
	}
}

func TestShapeEncodeDecodeInRange(t *testing.T) {
	v := make([]float64, K8k)
	for i := range v {
		v[i] = float64(i) - 14
	}
	idx := EncodeShape(v)
	if idx >= 1<<ShapeBits {
		t.Fatalf("index %d out of range", idx)
	}
	got := DecodeShape(idx, K8k)
	if len(got) != K8k {
		t.Fatalf("len = %d, want %d", len(got), K8k)
	}
}

// TestWoVoicingPlosiveSentinels pins the joint index's wire format: the
// all-zero index is the unvoiced sentinel, the all-ones index is the
// plosive sentinel, and every voiced frame lands strictly between them.
func TestWoVoicingPlosiveSentinels(t *testing.T) {
	woMin, woMax := 2*math.Pi/160, 2*math.Pi/20
	wo := 2 * math.Pi / 70

	if idx := EncodeWoVoicingPlosive(wo, woMin, woMax, false, false); idx != 0 {
		t.Fatalf("unvoiced index = %d, want 0", idx)
	}
	if idx := EncodeWoVoicingPlosive(wo, woMin, woMax, true, true); idx != PlosiveIndex {
		t.Fatalf("plosive index = %d, want %d", idx, PlosiveIndex)
	}
	if _, voiced, plosive := DecodeWoVoicingPlosive(0, woMin, woMax); voiced || plosive {
		t.Fatalf("Decode(0): voiced=%v plosive=%v, want false,false", voiced, plosive)
	}
	if _, _, plosive := DecodeWoVoicingPlosive(PlosiveIndex, woMin, woMax); !plosive {
		t.Fatalf("Decode(%d): plosive = false, want true", PlosiveIndex)
	}
}

func TestWoVoicingPlosiveRoundTripVoiced(t *testing.T) {
	woMin, woMax := 2*math.Pi/160, 2*math.Pi/20
	wo := 2 * math.Pi / 70
	idx := EncodeWoVoicingPlosive(wo, woMin, woMax, true, false)
	if idx == 0 || idx >= PlosiveIndex {
		t.Fatalf("voiced index = %d, collides with a sentinel", idx)
	}
	gotWo, voiced, plosive := DecodeWoVoicingPlosive(idx, woMin, woMax)
	if !voiced || plosive {
		t.Fatalf("voiced=%v plosive=%v, want true,false", voiced, plosive)
	}
	if math.Abs(gotWo-wo)/wo > 0.1 {
		t.Fatalf("decoded wo %v too far from %v", gotWo, wo)
	}
}

// TestWoVoicingPlosiveEndpointsExact checks the 62 voiced levels span
// the full pitch range: index 1 is Wo_min, the level below the plosive
// sentinel is Wo_max.
func TestWoVoicingPlosiveEndpointsExact(t *testing.T) {
	woMin, woMax := 2*math.Pi/160, 2*math.Pi/20
	if got, _, _ := DecodeWoVoicingPlosive(1, woMin, woMax); math.Abs(got-woMin)/woMin > 1e-9 {
		t.Fatalf("Decode(1) = %v, want woMin %v", got, woMin)
	}
	if got, _, _ := DecodeWoVoicingPlosive(PlosiveIndex-1, woMin, woMax); math.Abs(got-woMax)/woMax > 1e-9 {
		t.Fatalf("Decode(%d) = %v, want woMax %v", PlosiveIndex-1, got, woMax)
	}
}

func TestDetectPlosiveThreshold(t *testing.T) {
	if DetectPlosive(10, 20) {
		t.Fatalf("10dB rise should not be plosive")
	}
	if !DetectPlosive(10, 30) {
		t.Fatalf("20dB rise should be plosive")
	}
}
