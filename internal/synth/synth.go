// Package synth implements harmonic sinewave synthesis via overlap-add:
// each frame's voiced/unvoiced harmonics are placed into an
// FFT_DEC-point spectrum, inverse-transformed, windowed with the
// trapezoidal (Parzen) synthesis window, and overlap-added into a
// running output buffer, following the reference's synthesise/
// synthesise_one_frame structure.
package synth

import (
	"math"

	"github.com/opencodec/codec2/internal/c2const"
	"github.com/opencodec/codec2/internal/fourier"
	"github.com/opencodec/codec2/internal/sinemodel"
	"github.com/opencodec/codec2/internal/winbuild"
)

// EarProtectionPeak is the peak level above which ear_protection
// engages; bursts beyond it (typical of undetected bit errors) are
// attenuated more than proportionally.
const EarProtectionPeak = 30000.0

// State owns the overlap-add ring buffer and synthesis window; it is per
// decoder instance, not shareable across concurrent decode calls.
type State struct {
	c2const c2const.Const
	fft     *fourier.Plan
	win     []float64
	ola     []float64 // length c2const.MPitch, sliding overlap-add accumulator
}

// New constructs synthesiser state for geometry c using fft (an
// fourier.SizeDec-point plan).
func New(c c2const.Const, fft *fourier.Plan) *State {
	return &State{
		c2const: c,
		fft:     fft,
		win:     winbuild.BuildSynthesisWindow(c.NSamp, c.Tw),
		ola:     make([]float64, c.MPitch),
	}
}

// SynthesizeOneFrame renders model's harmonics into nSamp int16 PCM
// samples, overlap-adding this frame's windowed IFFT into the running
// buffer and returning the oldest nSamp samples now fully summed.
func (s *State) SynthesizeOneFrame(model sinemodel.Model, out []int16) error {
	n := s.c2const.NSamp
	fftDec := fourier.SizeDec

	spectrum := make([]complex128, fftDec)
	for m := 1; m <= model.L; m++ {
		bin := int(float64(m) * model.Wo / (2 * math.Pi) * float64(fftDec))
		if bin < 1 || bin >= fftDec/2 {
			continue
		}
		v := complex(model.A[m]*math.Cos(model.Phi[m]), model.A[m]*math.Sin(model.Phi[m]))
		spectrum[bin] += v
		spectrum[fftDec-bin] += complex(real(v), -imag(v))
	}

	timeDomain := make([]complex128, fftDec)
	if err := s.fft.Inverse(timeDomain, spectrum); err != nil {
		return err
	}

	// Centre the fftDec-point IFFT output on the overlap-add buffer the
	// way dft_speech's analysis window is centred, then window and
	// accumulate.
	shift := fftDec/2 - len(s.win)/2
	for i, w := range s.win {
		idx := i + shift
		if idx < 0 || idx >= fftDec {
			continue
		}
		if i >= len(s.ola) {
			break
		}
		s.ola[i] += w * real(timeDomain[idx])
	}

	earProtect(s.ola[:n])
	for i := 0; i < n; i++ {
		out[i] = clipInt16(s.ola[i])
	}

	copy(s.ola, s.ola[n:])
	for i := len(s.ola) - n; i < len(s.ola); i++ {
		s.ola[i] = 0
	}
	return nil
}

// earProtect is ear_protection: if the frame peak exceeds
// EarProtectionPeak the whole frame is scaled by the squared inverse of
// the overshoot, so loud bursts are attenuated more than proportionally.
// Frames whose peak is already within range pass through unchanged.
func earProtect(buf []float64) {
	peak := 0.0
	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	over := peak / EarProtectionPeak
	if over <= 1 {
		return
	}
	gain := 1 / (over * over)
	for i := range buf {
		buf[i] *= gain
	}
}

func clipInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(math.Round(v))
}
