package lpc

import "math"

// LpcPostfilterGamma and LpcPostfilterBeta are the default pole/zero
// bandwidth-expansion factors of the formant-sharpening post-filter,
// H(z/gamma) over H(z/beta), applied in the magnitude domain at decode
// time. Callers may override them per instance.
const (
	LpcPostfilterGamma = 0.5
	LpcPostfilterBeta  = 0.2
)

// LspToLpc is the decode-side counterpart of AksToLsp: it reconstructs ak
// (length order+1, ak[0]=1) from order LSP angles.
func LspToLpc(lsp []float64, order int) []float64 {
	return LspToAk(lsp, order)
}

// LpcToSpectrum evaluates 1/A(e^jw) at n_fft/2+1 linearly spaced points
// covering w in [0, pi], giving the LPC spectral envelope magnitude. Used
// by AksToM2 to resample harmonic magnitudes from the LPC model rather
// than the directly-estimated (and transmitted-only-as-LSPs) amplitudes.
func LpcToSpectrum(ak []float64, gamma float64, nFft int) []float64 {
	half := nFft/2 + 1
	mag := make([]float64, half)
	for k := 0; k < half; k++ {
		w := math.Pi * float64(k) / float64(half-1)
		var re, im float64 = 1, 0
		g := 1.0
		for j := 1; j < len(ak); j++ {
			g *= gamma
			re += ak[j] * g * math.Cos(float64(j)*w)
			im -= ak[j] * g * math.Sin(float64(j)*w)
		}
		den := re*re + im*im
		if den < 1e-12 {
			den = 1e-12
		}
		mag[k] = 1 / math.Sqrt(den)
	}
	return mag
}

// LpcSpectrumComplex evaluates 1/A(z/gamma) at n_fft/2+1 linearly spaced
// points covering w in [0, pi], returning the complex frequency response
// so both magnitude and minimum phase are available; the phase
// synthesiser needs the latter, AksToM2 only the former.
func LpcSpectrumComplex(ak []float64, gamma float64, nFft int) []complex128 {
	half := nFft/2 + 1
	h := make([]complex128, half)
	for k := 0; k < half; k++ {
		w := math.Pi * float64(k) / float64(half-1)
		var re, im float64 = 1, 0
		g := 1.0
		for j := 1; j < len(ak); j++ {
			g *= gamma
			re += ak[j] * g * math.Cos(float64(j)*w)
			im -= ak[j] * g * math.Sin(float64(j)*w)
		}
		den := complex(re, im)
		if re*re+im*im < 1e-12 {
			den = complex(1e-6, 0)
		}
		h[k] = 1 / den
	}
	return h
}

// AksToM2 is aks_to_M2: it resamples the LPC spectral envelope 1/A(z)
// at each of the l harmonic frequencies of wo, scales the result so the
// envelope's energy matches the target frame energy e, and optionally
// applies the formant post-filter and a mild low-frequency bass boost.
// The post-filter weights the envelope by the magnitude ratio
// H(z/gamma)/H(z/beta) of two bandwidth-expanded copies of the same
// all-pole model, sharpening formant peaks while the following energy
// normalisation keeps the overall level unchanged. The harmonic phases
// are left untouched by this step; only the magnitudes A[1..l] are
// overwritten.
func AksToM2(ak []float64, wo float64, l int, fs int, e float64, postfilter, bassBoost bool, beta, gamma float64, a *[81]float64) {
	const nFft = 512
	envelope := LpcToSpectrum(ak, 1.0, nFft)
	if postfilter {
		// LpcToSpectrum returns |H(z/g)| = 1/|A(z/g)|, so dividing the
		// gamma response by the beta response forms H(z/gamma)/H(z/beta).
		num := LpcToSpectrum(ak, gamma, nFft)
		den := LpcToSpectrum(ak, beta, nFft)
		for k := range envelope {
			envelope[k] *= num[k] / den[k]
		}
	}

	half := len(envelope) - 1
	r := float64(half) / math.Pi

	sumEnv := 0.0
	for m := 1; m <= l; m++ {
		idx := int(float64(m)*wo*r + 0.5)
		if idx < 0 {
			idx = 0
		}
		if idx > half {
			idx = half
		}
		a[m] = envelope[idx]
		sumEnv += a[m] * a[m]
	}

	if sumEnv < 1e-6 {
		sumEnv = 1e-6
	}
	gain := math.Sqrt(e * float64(l) / sumEnv)
	for m := 1; m <= l; m++ {
		a[m] *= gain
	}

	if bassBoost {
		// Low harmonics below 400Hz get a mild (+6dB max, tapering to 0 at
		// 400Hz) lift to compensate for the post-filter's tendency to
		// suppress the fundamental on low-pitched voiced speech.
		cutoffHarmonic := int(400 * 2 * math.Pi / (wo * float64(fs)))
		for m := 1; m <= l && m <= cutoffHarmonic; m++ {
			boost := 1 + 1*(1-float64(m)/float64(cutoffHarmonic+1))
			a[m] *= boost
		}
	}
}
