package lpc

import (
	"math"
	"testing"
)

func TestLevinsonUnitImpulse(t *testing.T) {
	r := make([]float64, Order+1)
	r[0] = 1
	ak, e := Levinson(r, Order)
	if ak[0] != 1 {
		t.Fatalf("ak[0] = %v, want 1", ak[0])
	}
	if e <= 0 {
		t.Fatalf("residual energy e = %v, want > 0", e)
	}
}

func TestAksToLspAscendingInRange(t *testing.T) {
	ak := make([]float64, Order+1)
	ak[0] = 1
	ak[1] = -0.8
	ak[2] = 0.3
	ak[3] = -0.1
	lsp := AksToLsp(ak, Order)
	if len(lsp) != Order {
		t.Fatalf("len(lsp) = %d, want %d", len(lsp), Order)
	}
	CheckLspOrder(lsp, Order)
	for i, v := range lsp {
		if v <= 0 || v >= math.Pi {
			t.Fatalf("lsp[%d] = %v, want in (0, pi)", i, v)
		}
		if i > 0 && v <= lsp[i-1] {
			t.Fatalf("lsp not strictly ascending at %d: %v <= %v", i, v, lsp[i-1])
		}
	}
}

func TestCheckLspOrderFixesInversions(t *testing.T) {
	lsp := []float64{0.5, 0.4, 0.6, 0.6, 1.0, 1.5, 2.0, 2.5, 2.8, 3.0}
	CheckLspOrder(lsp, len(lsp))
	for i := 1; i < len(lsp); i++ {
		if lsp[i] <= lsp[i-1] {
			t.Fatalf("lsp[%d]=%v not > lsp[%d]=%v after CheckLspOrder", i, lsp[i], i-1, lsp[i-1])
		}
	}
}

func TestBwExpandLspsWidensNarrowGaps(t *testing.T) {
	lsp := make([]float64, Order)
	for i := range lsp {
		lsp[i] = float64(i+1) * 0.01
	}
	BwExpandLsps(lsp, Order, 8000, 50, 100)
	for i := 1; i < 4; i++ {
		if lsp[i]-lsp[i-1] < 2*math.Pi*50/8000-1e-9 {
			t.Fatalf("gap %d not widened: %v", i, lsp[i]-lsp[i-1])
		}
	}
}

func TestLspToAkRoundTripPreservesOrderZero(t *testing.T) {
	lsp := []float64{0.1, 0.3, 0.6, 0.9, 1.2, 1.6, 1.9, 2.3, 2.6, 2.9}
	ak := LspToAk(lsp, Order)
	if ak[0] != 1 {
		t.Fatalf("ak[0] = %v, want 1", ak[0])
	}
	if len(ak) != Order+1 {
		t.Fatalf("len(ak) = %d, want %d", len(ak), Order+1)
	}
}

func TestAksToM2ProducesNonNegativeMagnitudes(t *testing.T) {
	ak := make([]float64, Order+1)
	ak[0] = 1
	var a [81]float64
	AksToM2(ak, 2*math.Pi/100, 40, 8000, 1000, true, true, LpcPostfilterBeta, LpcPostfilterGamma, &a)
	for m := 1; m <= 40; m++ {
		if a[m] < 0 {
			t.Fatalf("a[%d] = %v, want >= 0", m, a[m])
		}
	}
}

// TestAksToM2PostFilterSharpensFormants checks the H(z/gamma)/H(z/beta)
// ratio filter actually reshapes the envelope: with a resonant all-pole
// model, the post-filtered magnitudes must differ from the plain ones at
// equal total energy, raising the peak-to-mean ratio.
func TestAksToM2PostFilterSharpensFormants(t *testing.T) {
	// A single strong resonance near 1kHz at 8kHz.
	ak := make([]float64, Order+1)
	ak[0] = 1
	ak[1] = -1.4
	ak[2] = 0.9

	wo := 2 * math.Pi / 80
	l := 35
	var plain, filtered [81]float64
	AksToM2(ak, wo, l, 8000, 1000, false, false, LpcPostfilterBeta, LpcPostfilterGamma, &plain)
	AksToM2(ak, wo, l, 8000, 1000, true, false, LpcPostfilterBeta, LpcPostfilterGamma, &filtered)

	peakToMean := func(a *[81]float64) float64 {
		peak, sum := 0.0, 0.0
		for m := 1; m <= l; m++ {
			if a[m] > peak {
				peak = a[m]
			}
			sum += a[m]
		}
		return peak / (sum / float64(l))
	}
	if peakToMean(&filtered) <= peakToMean(&plain) {
		t.Fatalf("post-filter peak/mean %v <= plain %v, want sharper formants",
			peakToMean(&filtered), peakToMean(&plain))
	}
}
