// Package newamp2 implements the rate-K spectral codec used by the 450
// and 450PWB bit-rate modes: a coarser single-stage VQ than newamp1's,
// a 3-bit energy quantiser, a 6-bit joint Wo/voicing/plosive index, and a
// plosive onset detector that flags sudden energy rises so the decoder
// can avoid over-smoothing percussive consonants.
//
package newamp2

import "math"

// K8k and K16k are the rate-K dimensions for the 8kHz (mode 450) and
// 16kHz (mode 450PWB) variants respectively.
const (
	K8k  = 29
	K16k = 29
)

// KFor returns the rate-K dimension for the given sample rate.
func KFor(fs int) int {
	if fs >= 16000 {
		return K16k
	}
	return K8k
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// RateKGrid returns k mel-spaced centre frequencies in Hz spanning
// [100Hz, fs/2 - 100Hz].
func RateKGrid(k int, fs int) []float64 {
	lo, hi := 100.0, float64(fs)/2-100
	mLo, mHi := hzToMel(lo), hzToMel(hi)
	grid := make([]float64, k)
	for i := 0; i < k; i++ {
		m := mLo + (mHi-mLo)*float64(i)/float64(k-1)
		grid[i] = melToHz(m)
	}
	return grid
}

// ResampleToRateK resamples harmonic magnitudes a[1..l] (fundamental wo,
// sample rate fs) onto the k-point mel grid, in dB.
func ResampleToRateK(a []float64, l int, wo float64, fs, k int) []float64 {
	freqs := make([]float64, l+1)
	amps := make([]float64, l+1)
	for m := 1; m <= l; m++ {
		freqs[m] = float64(m) * wo * float64(fs) / (2 * math.Pi)
		amps[m] = ampToDb(a[m])
	}

	grid := RateKGrid(k, fs)
	out := make([]float64, k)
	for i, f := range grid {
		out[i] = interpAt(freqs, amps, l, f)
	}
	return out
}

// ResampleFromRateK resamples a k-point mel grid (dB) back onto l
// harmonic magnitudes (linear).
func ResampleFromRateK(rateK []float64, l int, wo float64, fs, k int, a *[81]float64) {
	grid := RateKGrid(k, fs)
	for m := 1; m <= l; m++ {
		f := float64(m) * wo * float64(fs) / (2 * math.Pi)
		db := interpAt0(grid, rateK, f)
		a[m] = dbToAmp(db)
	}
}

// interpAt interpolates 1-indexed freqs/amps (valid range [1,n]).
func interpAt(freqs, amps []float64, n int, f float64) float64 {
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

// interpAt0 interpolates 0-indexed freqs/amps of equal length.
func interpAt0(freqs, amps []float64, f float64) float64 {
	n := len(freqs) - 1
	if f <= freqs[0] {
		return amps[0]
	}
	if f >= freqs[n] {
		return amps[n]
	}
	for m := 0; m < n; m++ {
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

func ampToDb(a float64) float64 {
	if a < 1e-6 {
		a = 1e-6
	}
	return 20 * math.Log10(a)
}

func dbToAmp(db float64) float64 {
	return math.Pow(10, db/20)
}
