package newamp1

import "math"

// Stage1Bits and Stage2Bits are the two-stage VQ's per-stage index
// widths; mean-removed rate-K vectors are coded as stage1 + residual
// stage2, each a K-dimensional codeword.
const (
	Stage1Bits = 9
	Stage2Bits = 9
)

// stage1Book and stage2Book are procedurally generated (package doc):
// the real codec ships codebooks trained offline on a large speech
// corpus, which is not available here, so these are deterministic
// pseudo-random codewords spread across a plausible log-magnitude range.
var (
	stage1Book = generateBook(1<<Stage1Bits, 11)
	stage2Book = generateBook(1<<Stage2Bits, 22)
)

func generateBook(entries int, seed uint32) [][K]float64 {
	book := make([][K]float64, entries)
	state := seed*2654435761 + 1
	next := func() float64 {
		state = state*1103515245 + 12345
		return float64((state/65536)%32768)/32768.0*2 - 1
	}
	for i := range book {
		for k := 0; k < K; k++ {
			book[i][k] = 12 * next()
		}
	}
	return book
}

// MeanRemove subtracts and returns the mean of a rate-K log-magnitude
// vector, the encode-side first step before VQ (the mean is sent
// separately via the energy quantiser, not coded by the shape VQ).
func MeanRemove(v [K]float64) (out [K]float64, mean float64) {
	for _, x := range v {
		mean += x
	}
	mean /= K
	for i, x := range v {
		out[i] = x - mean
	}
	return out, mean
}

// Encode vector-quantises a mean-removed rate-K vector in two stages,
// returning both codeword indexes.
func Encode(v [K]float64) (idx1, idx2 uint32) {
	idx1 = nearest(v, stage1Book)
	var res [K]float64
	for i := range v {
		res[i] = v[i] - stage1Book[idx1][i]
	}
	idx2 = nearest(res, stage2Book)
	return idx1, idx2
}

// Decode reconstructs a mean-removed rate-K vector from the two codeword
// indexes.
func Decode(idx1, idx2 uint32) [K]float64 {
	if int(idx1) >= len(stage1Book) {
		idx1 = 0
	}
	if int(idx2) >= len(stage2Book) {
		idx2 = 0
	}
	var out [K]float64
	for i := range out {
		out[i] = stage1Book[idx1][i] + stage2Book[idx2][i]
	}
	return out
}

func nearest(v [K]float64, book [][K]float64) uint32 {
	best := uint32(0)
	bestDist := math.Inf(1)
	for i, c := range book {
		d := 0.0
		for k := 0; k < K; k++ {
			diff := v[k] - c[k]
			d += diff * diff
		}
		if d < bestDist {
			bestDist = d
			best = uint32(i)
		}
	}
	return best
}
