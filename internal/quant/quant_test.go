package quant

import (
	"math"
	"testing"
)

func TestWoRoundTripApprox(t *testing.T) {
	woMin, woMax := 2*math.Pi/160, 2*math.Pi/20
	wo := 2 * math.Pi / 80
	idx := EncodeWo(wo, woMin, woMax)
	got := DecodeWo(idx, woMin, woMax)
	if math.Abs(got-wo)/wo > 0.05 {
		t.Fatalf("decoded wo %v too far from %v", got, wo)
	}
}

func TestWoIndexFitsBits(t *testing.T) {
	woMin, woMax := 2*math.Pi/160, 2*math.Pi/20
	idx := EncodeWo(woMax, woMin, woMax)
	if idx >= 1<<WoBits {
		t.Fatalf("index %d exceeds %d bits", idx, WoBits)
	}
}

func TestEnergyRoundTripApprox(t *testing.T) {
	e := 1234.0
	idx := EncodeEnergy(e)
	got := DecodeEnergy(idx)
	if got <= 0 {
		t.Fatalf("decoded energy %v, want > 0", got)
	}
}

func TestJointWoEEncodeDecodeConverges(t *testing.T) {
	woMin, woMax := 2*math.Pi/160, 2*math.Pi/20
	enc := NewJointWoEState(woMin, woMax)
	dec := NewJointWoEState(woMin, woMax)

	wo := 2 * math.Pi / 100
	e := 500.0
	for i := 0; i < 10; i++ {
		idx := enc.Encode(wo, e)
		if idx >= woEBook {
			t.Fatalf("index %d out of range", idx)
		}
		gotWo, gotE := dec.Decode(idx)
		if gotWo <= 0 || gotE <= 0 {
			t.Fatalf("decoded non-positive wo/e: %v %v", gotWo, gotE)
		}
	}
}

func TestLspScalarRoundTripStaysInRange(t *testing.T) {
	lsp := []float64{0.2, 0.5, 0.9, 1.2, 1.6, 1.9, 2.2, 2.5, 2.8, 3.0}
	idx := EncodeLspScalar(lsp, 10)
	got := DecodeLspScalar(idx, 10)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	for i, v := range got {
		if v < 0 || v > math.Pi {
			t.Fatalf("lsp[%d] = %v out of [0,pi]", i, v)
		}
	}
}

func TestLspDeltaStateTracksSlowlyChangingInput(t *testing.T) {
	s := NewLspDeltaState(10)
	lsp := []float64{0.2, 0.5, 0.9, 1.2, 1.6, 1.9, 2.2, 2.5, 2.8, 3.0}
	idx := s.EncodeLspDelta(lsp, 10)
	d := NewLspDeltaState(10)
	got := d.DecodeLspDelta(idx, 10)
	for i := range got {
		if math.Abs(got[i]-lsp[i]) > deltaRange {
			t.Fatalf("lsp[%d] decoded %v too far from %v", i, got[i], lsp[i])
		}
	}
}

func TestLspVqEncodeDecodeIndexesInRange(t *testing.T) {
	s := NewLspVqState()
	lsp := []float64{0.2, 0.5, 0.9, 1.2, 1.6, 1.9, 2.2, 2.5, 2.8, 3.0}
	i1, i2 := s.Encode(lsp)
	if i1 >= 1<<LspVqStage1Bits || i2 >= 1<<LspVqStage2Bits {
		t.Fatalf("indexes out of range: %d %d", i1, i2)
	}
	d := NewLspVqState()
	got := d.Decode(i1, i2)
	if len(got) != lspVqOrder {
		t.Fatalf("len = %d, want %d", len(got), lspVqOrder)
	}
}
