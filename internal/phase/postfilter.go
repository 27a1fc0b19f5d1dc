package phase

import (
	"math"

	"github.com/opencodec/codec2/internal/rng"
	"github.com/opencodec/codec2/internal/sinemodel"
)

// BackgroundNoise tracks a slowly-varying background-energy estimate
// from quiet unvoiced frames and, on voiced frames, randomises the
// phase of any harmonic whose amplitude sits below that floor, giving
// frequency-selective pseudo-voicing without a transmitted mixed-voicing
// mask.
type BackgroundNoise struct {
	bgEstDb float64
}

// Background-energy tracker constants: frames are only folded into the
// estimate while unvoiced and below BgThreshDb; harmonics quieter than
// the estimate plus BgMarginDb get their phase randomised.
const (
	BgThreshDb = 40.0
	BgMarginDb = 6.0
	bgBeta     = 0.1
)

// NewBackgroundNoise seeds the estimate at a low level so speech onset
// before the first quiet frame isn't randomised.
func NewBackgroundNoise() *BackgroundNoise {
	return &BackgroundNoise{bgEstDb: 0}
}

// Update advances the IIR background estimate given this frame's voicing
// decision and frame energy in dB.
func (b *BackgroundNoise) Update(voiced bool, eDb float64) {
	if !voiced && eDb < BgThreshDb {
		b.bgEstDb = (1-bgBeta)*b.bgEstDb + bgBeta*eDb
	}
}

// RandomisePhases replaces the phase of every voiced harmonic whose
// amplitude falls below the tracked background threshold with an
// RNG-derived one. Unvoiced frames already carry random phases and are
// left untouched.
func (b *BackgroundNoise) RandomisePhases(model *sinemodel.Model, g *rng.LCG) {
	if !model.Voiced {
		return
	}
	thresh := math.Pow(10, (b.bgEstDb+BgMarginDb)/20)
	for m := 1; m <= model.L; m++ {
		if model.A[m] < thresh {
			model.Phi[m] = 2 * math.Pi * float64(g.Next()) / 32768.0
		}
	}
}
