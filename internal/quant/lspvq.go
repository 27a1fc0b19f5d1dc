package quant

import "math"

// LspVqStage1Bits and LspVqStage2Bits are the two-stage predictive LSP VQ
// used by mode 1200: a coarse first-stage codebook over the full 10-LSP
// vector followed by a residual second-stage codebook, both predicted
// from the previous frame's reconstruction via AR(1), spending
// LspVqStage1Bits+LspVqStage2Bits=27 bits total for the whole LSP
// vector instead of per-coefficient scalar coding.
const (
	LspVqStage1Bits = 14
	LspVqStage2Bits = 13
	lspVqOrder      = 10
	lspVqAr         = 0.7
)

// lspVqStage1 and lspVqStage2 are procedurally generated codebooks (see
// package doc): deterministic pseudo-random points spread across the
// typical LSP vector range, generated once at package init via a fixed
// seed so encode and decode always see the same tables.
var (
	// Stage 1 codes the AR(1) prediction residual, whose typical value for
	// a slowly-moving LSP track is (1-lspVqAr) times the absolute LSP, so
	// its codewords are centred there; stage 2 codes what stage 1 left
	// over, centred on zero with a tighter spread.
	lspVqStage1 = generateLspCodebook(1<<LspVqStage1Bits, 1, 1-lspVqAr, 0.3)
	lspVqStage2 = generateLspCodebook(1<<LspVqStage2Bits, 2, 0, 0.1)
)

func generateLspCodebook(entries int, seed uint32, centreScale, spreadScale float64) [][lspVqOrder]float64 {
	book := make([][lspVqOrder]float64, entries)
	state := seed*2654435761 + 1
	next := func() float64 {
		state = state*1103515245 + 12345
		return float64((state/65536)%32768) / 32768.0
	}
	for i := range book {
		for j := 0; j < lspVqOrder; j++ {
			centre := math.Pi * float64(j+1) / float64(lspVqOrder+1)
			spread := math.Pi / float64(lspVqOrder+1)
			book[i][j] = centreScale*centre + spreadScale*spread*(next()*2-1)
		}
	}
	return book
}

// LspVqState carries the AR(1) predictor's memory for the two-stage LSP
// VQ across frames.
type LspVqState struct {
	prev [lspVqOrder]float64
}

// NewLspVqState seeds the predictor identically to NewLspDeltaState.
func NewLspVqState() *LspVqState {
	s := &LspVqState{}
	for i := 0; i < lspVqOrder; i++ {
		s.prev[i] = math.Pi * float64(i+1) / float64(lspVqOrder+1)
	}
	return s
}

// Encode predicts lsp from the AR(1) model, searches stage 1 against the
// prediction residual, searches stage 2 against stage 1's leftover
// residual, updates the predictor from the full quantised
// reconstruction, and returns the two codeword indexes.
func (s *LspVqState) Encode(lsp []float64) (idx1, idx2 uint32) {
	var pred, res1 [lspVqOrder]float64
	for i := 0; i < lspVqOrder; i++ {
		pred[i] = lspVqAr * s.prev[i]
		res1[i] = lsp[i] - pred[i]
	}

	idx1 = nearestCodeword(res1, lspVqStage1)
	var res2 [lspVqOrder]float64
	for i := 0; i < lspVqOrder; i++ {
		res2[i] = res1[i] - lspVqStage1[idx1][i]
	}
	idx2 = nearestCodeword(res2, lspVqStage2)

	for i := 0; i < lspVqOrder; i++ {
		s.prev[i] = pred[i] + lspVqStage1[idx1][i] + lspVqStage2[idx2][i]
	}
	return idx1, idx2
}

// Decode inverts Encode.
func (s *LspVqState) Decode(idx1, idx2 uint32) []float64 {
	if int(idx1) >= len(lspVqStage1) {
		idx1 = 0
	}
	if int(idx2) >= len(lspVqStage2) {
		idx2 = 0
	}

	lsp := make([]float64, lspVqOrder)
	for i := 0; i < lspVqOrder; i++ {
		pred := lspVqAr * s.prev[i]
		v := pred + lspVqStage1[idx1][i] + lspVqStage2[idx2][i]
		lsp[i] = v
	}
	copy(s.prev[:], lsp)
	return lsp
}

func nearestCodeword(target [lspVqOrder]float64, book [][lspVqOrder]float64) uint32 {
	best := uint32(0)
	bestDist := math.Inf(1)
	for i, c := range book {
		d := 0.0
		for j := 0; j < lspVqOrder; j++ {
			diff := target[j] - c[j]
			d += diff * diff
		}
		if d < bestDist {
			bestDist = d
			best = uint32(i)
		}
	}
	return best
}
