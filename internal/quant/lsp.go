package quant

import "math"

// LspScalarBits is the per-index bit allocation for the independent
// scalar LSP quantiser (modes 2400/1600/1400/1300, 36 bits total),
// spending more bits on the lower-order (perceptually more important,
// lower-frequency) LSPs.
var LspScalarBits = [10]int{5, 4, 4, 4, 4, 3, 3, 3, 3, 3}

// LspDeltaBits is the per-index bit allocation for the delta-scalar LSP
// quantiser (mode 3200 only, 50 bits total), which codes
// each LSP relative to the previous frame's quantised value instead of
// independently.
var LspDeltaBits = [10]int{6, 6, 6, 5, 5, 5, 5, 4, 4, 4}

// lspLo/lspHi bound the scalar quantiser's range: the full [0, pi]
// interval LSPs live in, split uniformly for every coefficient.
const (
	lspLo = 0.0
	lspHi = math.Pi
)

// EncodeLspScalar independently scalar-quantises each of order LSPs
// using LspScalarBits, returning one index per coefficient.
func EncodeLspScalar(lsp []float64, order int) []uint32 {
	idx := make([]uint32, order)
	for i := 0; i < order; i++ {
		idx[i], _ = quantizeUniform(lsp[i], lspLo, lspHi, LspScalarBits[i])
	}
	return idx
}

// DecodeLspScalar inverts EncodeLspScalar.
func DecodeLspScalar(idx []uint32, order int) []float64 {
	lsp := make([]float64, order)
	for i := 0; i < order; i++ {
		lsp[i] = dequantizeUniform(idx[i], lspLo, lspHi, LspScalarBits[i])
	}
	return lsp
}

// LspDeltaState carries the previous frame's quantised LSP vector across
// calls, as the delta-scalar quantiser predicts each coefficient from its
// own value one frame ago.
type LspDeltaState struct {
	prev [10]float64
}

// NewLspDeltaState seeds the predictor at a uniform spread across (0,pi),
// a reasonable silence/onset LSP vector.
func NewLspDeltaState(order int) *LspDeltaState {
	s := &LspDeltaState{}
	for i := 0; i < order; i++ {
		s.prev[i] = math.Pi * float64(i+1) / float64(order+1)
	}
	return s
}

// deltaRange bounds the per-coefficient prediction residual.
const deltaRange = 0.5

// EncodeLspDelta quantises lsp[i]-prev[i] for each coefficient using
// LspDeltaBits, then updates prev from the *quantised* reconstruction.
func (s *LspDeltaState) EncodeLspDelta(lsp []float64, order int) []uint32 {
	idx := make([]uint32, order)
	for i := 0; i < order; i++ {
		d := lsp[i] - s.prev[i]
		var dq float64
		idx[i], dq = quantizeUniform(d, -deltaRange, deltaRange, LspDeltaBits[i])
		s.prev[i] += dq
	}
	return idx
}

// DecodeLspDelta inverts EncodeLspDelta.
func (s *LspDeltaState) DecodeLspDelta(idx []uint32, order int) []float64 {
	lsp := make([]float64, order)
	for i := 0; i < order; i++ {
		dq := dequantizeUniform(idx[i], -deltaRange, deltaRange, LspDeltaBits[i])
		s.prev[i] += dq
		lsp[i] = s.prev[i]
	}
	return lsp
}
