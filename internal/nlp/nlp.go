// Package nlp implements the non-linear pitch estimator: a coarse,
// squaring-based time-domain tracker followed by the two-stage
// harmonic-sum refinement (search widths of 5 samples at step 1.0, then
// 1 sample at step 0.25, scoring each candidate period by the summed
// squared magnitude of Sw at each harmonic's nearest DFT bin, the
// two_stage_pitch_refinement/hs_pitch_refinement scheme of the
// reference C codec).
package nlp

import (
	"math"

	"github.com/opencodec/codec2/internal/c2const"
)

// subMultipleMargin is how close (in normalised correlation) a shorter
// period must score to the global best to be preferred over it. Every
// integer multiple of the true period correlates almost perfectly, so
// without this post-processing the search would frequently lock onto a
// sub-octave.
const subMultipleMargin = 0.02

// State carries the previous frame's pitch across calls. One State
// belongs to exactly one codec instance.
type State struct {
	prevPeriod float64
}

// New returns pitch-tracker state seeded to the longest legal period.
func New(c c2const.Const) *State {
	return &State{prevPeriod: float64(c.PMax)}
}

// CoarsePitch performs the non-linear time-domain pitch search on the raw
// (unwindowed) speech buffer sn (length c.MPitch) and returns a coarse
// pitch period in samples, clamped to [c.PMin, c.PMax].
func (s *State) CoarsePitch(c c2const.Const, sn []float64) float64 {
	n := len(sn)

	mean := 0.0
	for _, v := range sn {
		mean += v
	}
	mean /= float64(n)

	// Square a mean-removed copy: the classic non-linear trick that
	// regenerates energy at the fundamental when telephony filtering has
	// removed it, at the cost of also creating a half-period image that
	// the raw-correlation check below rejects.
	dc := make([]float64, n)
	sq := make([]float64, n)
	for i, v := range sn {
		d := v - mean
		dc[i] = d
		sq[i] = d * d
	}

	scores := make([]float64, c.PMax+1)
	rawScores := make([]float64, c.PMax+1)
	bestScore := math.Inf(-1)
	bestPeriod := c.PMax
	for p := c.PMin; p <= c.PMax && p < n; p++ {
		scores[p] = normCorrAtLag(sq, p)
		rawScores[p] = normCorrAtLag(dc, p)
		if scores[p] > bestScore {
			bestScore = scores[p]
			bestPeriod = p
		}
	}

	// Post-process sub-multiples: take the shortest period that scores
	// within subMultipleMargin of the best AND correlates positively in
	// the un-squared signal (the squaring image at half the true period
	// anti-correlates there and is rejected).
	for p := c.PMin; p <= c.PMax && p < n; p++ {
		if scores[p] >= bestScore-subMultipleMargin && rawScores[p] > 0 {
			bestPeriod = p
			break
		}
	}

	period := float64(bestPeriod)
	s.prevPeriod = period
	return period
}

func normCorrAtLag(x []float64, lag int) float64 {
	num, den1, den2 := 0.0, 0.0, 0.0
	for i := 0; i+lag < len(x); i++ {
		num += x[i] * x[i+lag]
		den1 += x[i] * x[i]
		den2 += x[i+lag] * x[i+lag]
	}
	den := math.Sqrt(den1 * den2)
	if den < 1e-12 {
		return 0
	}
	return num / den
}

// RefineHarmonic runs the two-stage harmonic-sum refinement on the
// FFT_ENC-point analysis spectrum sw, starting from
// coarsePeriod (samples), and returns the refined fundamental angular
// frequency Wo, already clamped to [c.WoMin, c.WoMax].
func (s *State) RefineHarmonic(c c2const.Const, sw []complex128, fftEnc int, coarsePeriod float64) float64 {
	wo := 2 * math.Pi / coarsePeriod
	wo = harmonicSumSearch(sw, fftEnc, wo, coarsePeriod-5, coarsePeriod+5, 1.0)
	period := 2 * math.Pi / wo
	wo = harmonicSumSearch(sw, fftEnc, wo, period-1, period+1, 0.25)

	if wo < c.WoMin {
		wo = c.WoMin
	}
	if wo > c.WoMax {
		wo = c.WoMax
	}
	return wo
}

// harmonicSumSearch is hs_pitch_refinement: for each candidate period p in
// [pmin,pmax] step pstep, sums |Sw[bin]|^2 at the nearest DFT bin of every
// harmonic of Wo=2pi/p (using the harmonic count implied by the starting
// Wo, matching the reference's "use initial pitch est. for L"), and
// returns the Wo that maximises that sum.
func harmonicSumSearch(sw []complex128, fftEnc int, startWo, pmin, pmax, pstep float64) float64 {
	l := int(math.Pi / startWo)
	if l < 1 {
		l = 1
	}

	r := 2 * math.Pi / float64(fftEnc)
	oneOnR := 1.0 / r

	bestWo := startWo
	bestE := -1.0
	for p := pmin; p <= pmax; p += pstep {
		wo := 2 * math.Pi / p
		e := 0.0
		for m := 1; m <= l; m++ {
			b := int(float64(m)*wo*oneOnR + 0.5)
			if b < 0 {
				b = 0
			}
			if b >= len(sw) {
				b = len(sw) - 1
			}
			re, im := real(sw[b]), imag(sw[b])
			e += re*re + im*im
		}
		if e > bestE {
			bestE = e
			bestWo = wo
		}
	}
	return bestWo
}
