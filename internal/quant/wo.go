package quant

import "math"

// WoBits is WO_BITS: the number of bits used to scalar-quantise the log
// fundamental frequency in every classical mode that doesn't use the
// joint Wo/energy quantiser.
const WoBits = 7

// EncodeWo quantises wo (clamped to [woMin, woMax]) on a log frequency
// scale, matching the reference's perceptually-uniform pitch
// quantisation (equal index steps correspond to equal steps in log
// frequency, not linear frequency).
func EncodeWo(wo, woMin, woMax float64) uint32 {
	lo, hi := math.Log(woMin), math.Log(woMax)
	idx, _ := quantizeUniform(math.Log(wo), lo, hi, WoBits)
	return idx
}

// DecodeWo inverts EncodeWo.
func DecodeWo(index uint32, woMin, woMax float64) float64 {
	lo, hi := math.Log(woMin), math.Log(woMax)
	return math.Exp(dequantizeUniform(index, lo, hi, WoBits))
}
