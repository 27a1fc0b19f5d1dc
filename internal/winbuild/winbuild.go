// Package winbuild builds the two windows the codec uses: a Hamming
// analysis window centred in the pitch-analysis buffer (plus its
// precomputed DFT), and a trapezoidal (Parzen) overlap-add synthesis
// window.
//
// The raw Hamming coefficients come from algo-dsp's dsp/window package;
// the codec-specific centering, zero-padding, energy normalisation and
// DFT pre-shift (the make_analysis_window shaping of the reference C
// codec) have no off-the-shelf equivalent and are built here, as is the
// Parzen trapezoid of make_synthesis_window.
package winbuild

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/opencodec/codec2/internal/fourier"
)

// AnalysisWindow holds the time-domain window w[] and its precomputed,
// FFT_ENC-shifted DFT W[] used by harmonic amplitude/voicing estimation.
type AnalysisWindow struct {
	W  []float64      // length mPitch, zero outside the centred nw taper
	FW []complex128   // length fftEnc, shifted DFT of w (real-valued by construction)
}

// BuildAnalysisWindow constructs the Hamming analysis window centred in a
// buffer of length mPitch, and its DFT evaluated through plan (which must
// have been built for fftEnc points).
func BuildAnalysisWindow(mPitch, nw, fftEnc int, plan *fourier.Plan) (*AnalysisWindow, error) {
	w := make([]float64, mPitch)

	// The reference's "hamming" is 0.5 - 0.5*cos(2*pi*j/(nw-1)), which is
	// a symmetric Hann window.
	coeffs := window.Generate(window.TypeHann, nw)

	start := mPitch/2 - nw/2
	energy := 0.0
	for j := 0; j < nw; j++ {
		w[start+j] = coeffs[j]
		energy += coeffs[j] * coeffs[j]
	}

	norm := 1.0 / math.Sqrt(energy*float64(fftEnc))
	for i := range w {
		w[i] *= norm
	}

	// Modulo-fftEnc shift so the window is even about n=0, which makes
	// its DFT purely real; the same modulo shift the reference applies.
	shifted := make([]complex128, fftEnc)
	for i := 0; i < nw/2; i++ {
		shifted[i] = complex(w[i+mPitch/2], 0)
	}
	for i, j := fftEnc-nw/2, mPitch/2-nw/2; i < fftEnc; i, j = i+1, j+1 {
		shifted[i] = complex(w[j], 0)
	}

	temp := make([]complex128, fftEnc)
	if err := plan.Forward(temp, shifted); err != nil {
		return nil, err
	}

	fw := make([]complex128, fftEnc)
	half := fftEnc / 2
	for i := 0; i < half; i++ {
		fw[i] = complex(real(temp[i+half]), 0)
		fw[i+half] = complex(real(temp[i]), 0)
	}

	return &AnalysisWindow{W: w, FW: fw}, nil
}

// BuildSynthesisWindow builds the trapezoidal (Parzen) overlap-add window
// of length 2*nSamp with rise/fall width tw, following the reference's
// make_synthesis_window.
func BuildSynthesisWindow(nSamp, tw int) []float64 {
	pn := make([]float64, 2*nSamp)

	win := 0.0
	for i := nSamp/2 - tw; i < nSamp/2+tw; i++ {
		pn[i] = win
		win += 1.0 / float64(2*tw)
	}
	for i := nSamp/2 + tw; i < 3*nSamp/2-tw; i++ {
		pn[i] = 1.0
	}
	win = 1.0
	for i := 3*nSamp/2 - tw; i < 3*nSamp/2+tw; i++ {
		pn[i] = win
		win -= 1.0 / float64(2*tw)
	}

	return pn
}
