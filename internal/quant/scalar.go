// Package quant implements the scalar, delta-scalar, joint-predictive
// and vector quantisers used by the classical (non rate-K) bit-rate
// modes: Wo, energy, joint Wo/energy, and per-mode LSP quantisation.
//
// The codebooks here are procedurally generated rather than trained on
// a speech corpus, built once at package init so encoder and decoder
// always see identical tables: the two-stage LSP VQ stages are
// deterministic pseudo-random codewords, the joint Wo/energy codebook
// is a uniform residual grid, and the Wo, energy and scalar/delta LSP
// quantisers use uniform steps over a fixed range. The quantisation
// algorithms around them (uniform scalar steps, AR(1) prediction,
// nearest-codeword VQ search) are the standard ones.
package quant

import "math"

// quantizeUniform maps val, clamped to [lo, hi], onto one of 1<<bits
// uniformly spaced levels and returns both the index and the
// dequantized value the decoder will reconstruct.
func quantizeUniform(val, lo, hi float64, bits int) (index uint32, dequant float64) {
	if val < lo {
		val = lo
	}
	if val > hi {
		val = hi
	}
	levels := uint32(1) << uint(bits)
	step := (hi - lo) / float64(levels-1)
	idx := uint32(math.Round((val - lo) / step))
	if idx >= levels {
		idx = levels - 1
	}
	return idx, lo + float64(idx)*step
}

func dequantizeUniform(index uint32, lo, hi float64, bits int) float64 {
	levels := uint32(1) << uint(bits)
	step := (hi - lo) / float64(levels-1)
	if index >= levels {
		index = levels - 1
	}
	return lo + float64(index)*step
}
