// Package newamp1 implements the rate-K mel-resampled spectral
// amplitude codec used by the 700C bit-rate mode: harmonic magnitudes are
// resampled onto a fixed K=20 mel-warped frequency grid, mean-removed and
// two-stage vector-quantised, tracked by a running spectral equalizer,
// and resampled back to the frame's actual harmonic count with a
// minimum-phase synthesis filter at decode time.
//
package newamp1

import "math"

// K is NEWAMP1_K, the number of mel-spaced rate-K samples per frame.
const K = 20

// melLo and melHi bound the mel grid in Hz: the band that matters for
// intelligibility at 700 bit/s, skipping the sub-200Hz region the
// fundamental covers and the thin energy above 3700Hz.
const (
	melLo = 200.0
	melHi = 3700.0
)

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// RateKGrid returns the K mel-spaced centre frequencies in Hz used by
// ResampleToRateK/ResampleFromRateK.
func RateKGrid() [K]float64 {
	var grid [K]float64
	mLo, mHi := hzToMel(melLo), hzToMel(melHi)
	for i := 0; i < K; i++ {
		m := mLo + (mHi-mLo)*float64(i)/float64(K-1)
		grid[i] = melToHz(m)
	}
	return grid
}

// ResampleToRateK resamples the l harmonic magnitudes a[1..l] (fundamental
// wo, sample rate fs) onto the K-point mel grid, in dB, via linear
// interpolation against the harmonics' frequencies: the encode-side half
// of the rate-K transform.
func ResampleToRateK(a []float64, l int, wo float64, fs int) [K]float64 {
	freqs := make([]float64, l+1)
	amps := make([]float64, l+1)
	for m := 1; m <= l; m++ {
		freqs[m] = float64(m) * wo * float64(fs) / (2 * math.Pi)
		amps[m] = ampToDb(a[m])
	}

	grid := RateKGrid()
	var out [K]float64
	for i, f := range grid {
		out[i] = interpAmpAt(freqs, amps, l, f)
	}
	return out
}

// ResampleFromRateK resamples the K-point mel grid (in dB) back onto l
// harmonic magnitudes (linear) for fundamental wo and sample rate fs:
// the decode-side half of the rate-K transform.
func ResampleFromRateK(rateK [K]float64, l int, wo float64, fs int, a *[81]float64) {
	// interpAmpAt reads 1-indexed arrays, so shift the grid up by one.
	grid := RateKGrid()
	var freqs, amps [K + 1]float64
	copy(freqs[1:], grid[:])
	copy(amps[1:], rateK[:])
	for m := 1; m <= l; m++ {
		f := float64(m) * wo * float64(fs) / (2 * math.Pi)
		db := interpAmpAt(freqs[:], amps[:], K, f)
		a[m] = dbToAmp(db)
	}
}

func interpAmpAt(freqs, amps []float64, n int, f float64) float64 {
	if f <= freqs[1] {
		return amps[1]
	}
	if f >= freqs[n] {
		return amps[n]
	}
	for m := 1; m < n; m++ {
		if f >= freqs[m] && f <= freqs[m+1] {
			span := freqs[m+1] - freqs[m]
			if span < 1e-9 {
				return amps[m]
			}
			frac := (f - freqs[m]) / span
			return amps[m]*(1-frac) + amps[m+1]*frac
		}
	}
	return amps[n]
}

// pfGain is the power-law exponent the decode-side post-filter applies
// to the mean-removed rate-K log-magnitude shape: >1 raises formant
// peaks and deepens inter-formant valleys.
const pfGain = 1.5

// PostFilter sharpens formant structure on a mean-removed rate-K
// log-magnitude shape by a fixed power law, shifting the result so its
// total linear energy is unchanged.
func PostFilter(v [K]float64) [K]float64 {
	var out [K]float64
	eIn, eOut := 0.0, 0.0
	for i := range v {
		out[i] = pfGain * v[i]
		eIn += math.Pow(10, v[i]/10)
		eOut += math.Pow(10, out[i]/10)
	}
	correction := 10 * math.Log10(eIn/eOut)
	for i := range out {
		out[i] += correction
	}
	return out
}

func ampToDb(a float64) float64 {
	if a < 1e-6 {
		a = 1e-6
	}
	return 20 * math.Log10(a)
}

func dbToAmp(db float64) float64 {
	return math.Pow(10, db/20)
}
