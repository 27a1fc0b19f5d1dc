package newamp2

import "math"

// ShapeBits is the single-stage VQ's index width for the mean-removed
// rate-K log-magnitude shape.
const ShapeBits = 9

// EnergyBits quantises the frame's mean rate-K log magnitude (sent
// separately from the shape VQ, as in newamp1).
const EnergyBits = 3

// WoVoicingPlosiveBits is the joint index covering fundamental frequency,
// voicing, and the plosive flag in a single low bit-rate field.
const WoVoicingPlosiveBits = 6

// shapeBook is procedurally generated (see package doc): dimensioned for
// the larger K8k/K16k rate-K vectors.
var shapeBook = generateShapeBook(1<<ShapeBits, K8k, 7)

func generateShapeBook(entries, dim int, seed uint32) [][]float64 {
	book := make([][]float64, entries)
	state := seed*2654435761 + 1
	next := func() float64 {
		state = state*1103515245 + 12345
		return float64((state/65536)%32768)/32768.0*2 - 1
	}
	for i := range book {
		row := make([]float64, dim)
		for k := range row {
			row[k] = 10 * next()
		}
		book[i] = row
	}
	return book
}

// MeanRemove subtracts and returns the mean of a rate-K log-magnitude
// vector of length k.
func MeanRemove(v []float64) (out []float64, mean float64) {
	out = make([]float64, len(v))
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	for i, x := range v {
		out[i] = x - mean
	}
	return out, mean
}

// EncodeShape vector-quantises a mean-removed rate-K vector against the
// single-stage codebook, truncating/padding the codebook dimension to
// len(v).
func EncodeShape(v []float64) uint32 {
	best := uint32(0)
	bestDist := math.Inf(1)
	for i, c := range shapeBook {
		d := 0.0
		n := len(v)
		if len(c) < n {
			n = len(c)
		}
		for k := 0; k < n; k++ {
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

// DecodeShape reconstructs a k-dimensional mean-removed rate-K vector
// from its codeword index.
func DecodeShape(index uint32, k int) []float64 {
	if int(index) >= len(shapeBook) {
		index = 0
	}
	out := make([]float64, k)
	c := shapeBook[index]
	n := k
	if len(c) < n {
		n = len(c)
	}
	copy(out, c[:n])
	return out
}

// EncodeEnergy quantises mean log-magnitude on a dB scale.
func EncodeEnergy(meanDb float64) uint32 {
	const lo, hi = -20.0, 40.0
	levels := uint32(1) << EnergyBits
	step := (hi - lo) / float64(levels-1)
	if meanDb < lo {
		meanDb = lo
	}
	if meanDb > hi {
		meanDb = hi
	}
	idx := uint32(math.Round((meanDb - lo) / step))
	if idx >= levels {
		idx = levels - 1
	}
	return idx
}

// DecodeEnergy inverts EncodeEnergy.
func DecodeEnergy(index uint32) float64 {
	const lo, hi = -20.0, 40.0
	levels := uint32(1) << EnergyBits
	step := (hi - lo) / float64(levels-1)
	if index >= levels {
		index = levels - 1
	}
	return lo + float64(index)*step
}
