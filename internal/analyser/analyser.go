// Package analyser implements the sinusoidal analyser: given a 10ms
// sub-frame of speech, it updates the sliding analysis buffer, computes
// the windowed analysis spectrum, estimates the fundamental via the
// non-linear pitch tracker and harmonic-sum refinement, estimates
// harmonic magnitudes (and optionally phases), and makes the voicing
// decision. Follows the analyse_one_frame/dft_speech/
// estimate_amplitudes structure of the reference C codec.
package analyser

import (
	"math"

	"github.com/opencodec/codec2/internal/c2const"
	"github.com/opencodec/codec2/internal/fourier"
	"github.com/opencodec/codec2/internal/nlp"
	"github.com/opencodec/codec2/internal/sinemodel"
	"github.com/opencodec/codec2/internal/voicing"
	"github.com/opencodec/codec2/internal/winbuild"
)

// State is the analyser's per-instance memory: the sliding pitch-analysis
// buffer, the analysis window and its DFT, and the pitch tracker's
// cross-frame state. Owned exclusively by one Codec2 instance.
type State struct {
	c2const c2const.Const
	sn      []float64
	win     *winbuild.AnalysisWindow
	fft     *fourier.Plan
	nlp     *nlp.State
}

// New builds analyser state for geometry c, using fft (an
// fourier.SizeEnc-point plan) for both the analysis window's DFT and the
// per-frame speech spectrum.
func New(c c2const.Const, fft *fourier.Plan) (*State, error) {
	win, err := winbuild.BuildAnalysisWindow(c.MPitch, c.Nw, fourier.SizeEnc, fft)
	if err != nil {
		return nil, err
	}
	return &State{
		c2const: c,
		sn:      make([]float64, c.MPitch),
		win:     win,
		fft:     fft,
		nlp:     nlp.New(c),
	}, nil
}

// AnalyseOneFrame shifts c.NSamp new samples into the sliding buffer and
// returns the sinusoidal model for this 10ms sub-frame. estPhase selects
// whether per-harmonic phases are also estimated; the encode path never
// needs them (the decoder synthesises its own phases), so it passes
// false and skips the work.
func (s *State) AnalyseOneFrame(speech []float64, estPhase bool) sinemodel.Model {
	n := s.c2const.NSamp
	copy(s.sn, s.sn[n:])
	copy(s.sn[len(s.sn)-n:], speech)

	sw := s.dftSpeech()

	coarse := s.nlp.CoarsePitch(s.c2const, s.sn)
	wo := s.nlp.RefineHarmonic(s.c2const, sw, fourier.SizeEnc, coarse)

	model := sinemodel.New(wo)
	s.estimateAmplitudes(sw, &model, estPhase)
	model.Voiced = voicing.Decide(model.A[:], sw, s.win.FW, fourier.SizeEnc, model.Wo, model.L, s.c2const.Fs)

	return model
}

// Sn returns the current sliding analysis buffer (read-only view), used
// by the LPC pipeline which windows the same raw samples.
func (s *State) Sn() []float64 { return s.sn }

// Window returns the analysis window coefficients w[], used by the LPC
// pipeline's autocorrelation step.
func (s *State) Window() []float64 { return s.win.W }

func (s *State) dftSpeech() []complex128 {
	fftEnc := fourier.SizeEnc
	nw := s.c2const.Nw
	mPitch := s.c2const.MPitch

	shifted := make([]complex128, fftEnc)
	for i := 0; i < nw/2; i++ {
		shifted[i] = complex(s.sn[i+mPitch/2]*s.win.W[i+mPitch/2], 0)
	}
	for i := 0; i < nw/2; i++ {
		shifted[fftEnc-nw/2+i] = complex(s.sn[i+mPitch/2-nw/2]*s.win.W[i+mPitch/2-nw/2], 0)
	}

	sw := make([]complex128, fftEnc)
	s.fft.Forward(sw, shifted) //nolint:errcheck // fixed-size plan, never fails after construction
	return sw
}

// estimateAmplitudes is estimate_amplitudes: the harmonic magnitude is the
// square root of the summed energy in the harmonic's DFT bin range; the
// phase, when requested, is the angle of the spectrum at the bin nearest
// the harmonic centre.
func (s *State) estimateAmplitudes(sw []complex128, model *sinemodel.Model, estPhase bool) {
	fftEnc := fourier.SizeEnc
	r := 2 * math.Pi / float64(fftEnc)
	oneOnR := 1.0 / r

	for m := 1; m <= model.L; m++ {
		am := int((float64(m)-0.5)*model.Wo*oneOnR + 0.5)
		bm := int((float64(m)+0.5)*model.Wo*oneOnR + 0.5)

		den := 0.0
		for i := am; i < bm; i++ {
			if i < 0 || i >= len(sw) {
				continue
			}
			re, im := real(sw[i]), imag(sw[i])
			den += re*re + im*im
		}
		model.A[m] = math.Sqrt(den)

		if estPhase {
			b := int(float64(m)*model.Wo*oneOnR + 0.5)
			if b < 0 {
				b = 0
			}
			if b >= len(sw) {
				b = len(sw) - 1
			}
			model.Phi[m] = math.Atan2(imag(sw[b]), real(sw[b]))
		}
	}
}
