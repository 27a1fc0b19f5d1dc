// Package fourier is a thin facade over the fixed-size complex FFTs the
// codec needs: the encoder's analysis transform (FFT_ENC), the decoder's
// synthesis transform (FFT_DEC), and the 128-point transform used by
// the newamp1 minimum-phase reconstruction. The transforms
// themselves are delegated to algo-fft; this package only pins the
// sizes and keeps a reusable scratch buffer per plan.
package fourier

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Sizes used throughout the codec.
const (
	SizeEnc   = 512 // FFT_ENC: encoder analysis transform
	SizeDec   = 512 // FFT_DEC: decoder synthesis transform
	SizePhase = 128 // NEWAMP1_PHASE_NFFT
)

// Plan wraps a reusable complex FFT plan of a fixed size.
type Plan struct {
	n    int
	plan *algofft.Plan[complex128]
	buf  []complex128
}

// NewPlan builds a plan for a complex transform of length n.
func NewPlan(n int) (*Plan, error) {
	p, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("fourier: failed to create plan of size %d: %w", n, err)
	}
	return &Plan{n: n, plan: p, buf: make([]complex128, n)}, nil
}

// Size returns the transform length this plan was built for.
func (p *Plan) Size() int { return p.n }

// Forward computes the forward DFT of src (zero-padded/truncated to the
// plan size) into dst, which must have length >= Size().
func (p *Plan) Forward(dst, src []complex128) error {
	n := p.n
	for i := 0; i < n; i++ {
		if i < len(src) {
			p.buf[i] = src[i]
		} else {
			p.buf[i] = 0
		}
	}
	return p.plan.Forward(dst[:n], p.buf)
}

// Inverse computes the inverse DFT of src into dst. Both must have length
// >= Size(). The result is NOT normalised by the caller; algo-fft's
// Inverse already applies the 1/N scaling (matching a standard IFFT).
func (p *Plan) Inverse(dst, src []complex128) error {
	return p.plan.Inverse(dst[:p.n], src[:p.n])
}

// RealSpectrum returns only the first n/2+1 bins of a Hermitian-symmetric
// spectrum produced by a real-valued input, which is the representation
// the codec's harmonic-magnitude estimation and Sw_ construction operate
// on (mirrors the reference's FFT_STATE / FFTR_STATE split between complex
// analysis and real-input/real-output transforms).
func RealSpectrum(full []complex128) []complex128 {
	return full[:len(full)/2+1]
}
