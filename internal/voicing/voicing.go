// Package voicing implements the MBE-style voicing decision, the
// est_voicing_mbe scheme of the reference C codec: a low-band (<=1kHz)
// single-sinusoid SNR test using the precomputed analysis-window
// spectrum fw for the least-squares harmonic fit, refined by a low/high
// band (elow/ehigh) energy-ratio heuristic that guards against
// sub-octave pitch errors on unvoiced or noisy input.
package voicing

import "math"

// VThresh is the SNR threshold (dB) above which the low-band fit is
// judged voiced.
const VThresh = 6.0

// Decide makes the est_voicing_mbe decision given the
// already-estimated harmonic magnitudes a (1-indexed, a[1..l]), the
// frame's analysis spectrum sw and its matching analysis-window DFT fw
// (symmetric about fftEnc/2, as produced by winbuild.BuildAnalysisWindow),
// fundamental wo, harmonic count l and sample rate fs. Returns the
// voicing decision.
func Decide(a []float64, sw, fw []complex128, fftEnc int, wo float64, l int, fs int) bool {
	halfFs := float64(fs) / 2

	l1k := bandLimit(l, 1000, halfFs)

	sig := 1e-4
	for m := 1; m <= l1k; m++ {
		sig += a[m] * a[m]
	}

	errSum := 1e-4
	for m := 1; m <= l1k; m++ {
		errSum += harmonicFitResidual(sw, fw, fftEnc, wo, m)
	}

	snr := 10 * math.Log10(sig/errSum)
	voiced := snr > VThresh

	l2k := bandLimit(l, 2000, halfFs)
	l4k := bandLimit(l, 4000, halfFs)

	elow := 1e-4
	for m := 1; m <= l2k; m++ {
		elow += a[m] * a[m]
	}
	ehigh := 1e-4
	for m := l2k; m <= l4k; m++ {
		ehigh += a[m] * a[m]
	}
	eratio := 10 * math.Log10(elow/ehigh)

	switch {
	case !voiced && eratio > 10:
		voiced = true
	case voiced && eratio < -10:
		voiced = false
	case voiced && eratio < -4 && wo <= 60*2*math.Pi/float64(fs):
		voiced = false
	}

	return voiced
}

// bandLimit returns L*freqHz/halfFs, matching the reference's l_1000hz/l_2000hz/
// l_4000hz computation (floor via integer truncation), clamped to [1, l].
func bandLimit(l int, freqHz, halfFs float64) int {
	n := int(float64(l) * freqHz / halfFs)
	if n < 1 {
		n = 1
	}
	if n > l {
		n = l
	}
	return n
}

// harmonicFitResidual computes ||Sw - W*Am||^2 over harmonic m's bin
// range, where Am is the least-squares single-sinusoid fit
// Am = sum(W*Sw)/sum(W^2), with W's spectrum shifted (via offset) to be
// centred on the harmonic's DFT bin. Direct port of the per-harmonic loop
// body in est_voicing_mbe.
func harmonicFitResidual(sw, fw []complex128, fftEnc int, wo float64, m int) float64 {
	r := 2 * math.Pi / float64(fftEnc)

	al := int(math.Ceil((float64(m) - 0.5) * wo / r))
	bl := int(math.Ceil((float64(m) + 0.5) * wo / r))
	offset := fftEnc/2 - int(float64(m)*wo/r+0.5)

	var num complex128
	var den float64
	for i := al; i < bl; i++ {
		wi := windowAt(fw, offset+i)
		num += wi * sw[clampIdx(i, len(sw))]
		den += real(wi)*real(wi) + imag(wi)*imag(wi)
	}

	var amp complex128
	if den > 1e-12 {
		amp = num / complex(den, 0)
	}

	errSum := 0.0
	for i := al; i < bl; i++ {
		wi := windowAt(fw, offset+i)
		d := sw[clampIdx(i, len(sw))] - wi*amp
		errSum += real(d)*real(d) + imag(d)*imag(d)
	}
	return errSum
}

func windowAt(fw []complex128, idx int) complex128 {
	return fw[clampIdx(idx, len(fw))]
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
