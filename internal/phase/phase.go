// Package phase implements the zero-order phase synthesiser and the
// background-noise-tracking post-filter: voiced harmonics get a phase
// derived from the LPC model's minimum-phase spectrum plus an
// accumulated linear term locking them to the pitch period, unvoiced
// harmonics get a phase drawn from the deterministic RNG, and the
// post-filter re-randomises voiced harmonics that sink below the
// tracked noise floor.
package phase

import (
	"math"

	"github.com/opencodec/codec2/internal/lpc"
	"github.com/opencodec/codec2/internal/rng"
	"github.com/opencodec/codec2/internal/sinemodel"
)

// NFFT is the FFT size used to evaluate the LPC model's minimum-phase
// spectrum for voiced harmonic phase synthesis.
const NFFT = 512

// State carries the pitch-locked phase accumulator across frames; one
// instance belongs to exactly one decoder.
type State struct {
	exPhase float64
}

// New returns a phase synthesiser with a zero initial phase.
func New() *State {
	return &State{}
}

// SynthesizeZeroOrder is phase_synth_zero_order: given this frame's model
// (Wo, L, voicing) and its reconstructed LPC coefficients ak (nil when no
// LPC model is available, in which case voiced harmonics get the linear
// pitch-locked term alone), it fills model.Phi for every harmonic and
// advances the pitch phase accumulator by Wo*nSamp.
func (s *State) SynthesizeZeroOrder(model *sinemodel.Model, ak []float64, g *rng.LCG, nSamp int) {
	s.exPhase += model.Wo * float64(nSamp)
	// Wrap to [-pi, pi); only the value modulo 2*pi matters, and keeping
	// it centred on zero bounds the linear term below.
	s.exPhase -= 2 * math.Pi * math.Floor(s.exPhase/(2*math.Pi)+0.5)

	var spectrum []complex128
	if ak != nil {
		spectrum = lpc.LpcSpectrumComplex(ak, 1.0, NFFT)
	}

	for m := 1; m <= model.L; m++ {
		if !model.Voiced {
			model.Phi[m] = 2 * math.Pi * float64(g.Next()) / 32768.0
			continue
		}

		linear := float64(m) * s.exPhase
		if spectrum == nil {
			model.Phi[m] = math.Mod(linear, 2*math.Pi)
			continue
		}

		half := len(spectrum) - 1
		r := float64(half) / math.Pi
		idx := int(float64(m)*model.Wo*r + 0.5)
		if idx < 0 {
			idx = 0
		}
		if idx > half {
			idx = half
		}
		model.Phi[m] = math.Mod(linear+math.Atan2(imag(spectrum[idx]), real(spectrum[idx])), 2*math.Pi)
	}
}

// Reset zeroes the phase accumulator, used when the decoder drops back
// into a known state (e.g. after a long silence or error concealment
// reset).
func (s *State) Reset() {
	s.exPhase = 0
}
