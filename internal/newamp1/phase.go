package newamp1

import (
	"math"

	"github.com/opencodec/codec2/internal/fourier"
)

// PhaseNFFT is NEWAMP1_PHASE_NFFT, the FFT size used for the rate-K
// minimum-phase reconstruction below.
const PhaseNFFT = 128

// SynthesisePhases derives minimum-phase harmonic phases from a rate-K
// magnitude envelope via the real cepstrum method: the log-magnitude
// spectrum's cepstrum is made causal (negative quefrencies folded into
// the positive side) and transformed back, yielding the Hilbert-transform
// relationship between log-magnitude and minimum phase.
func SynthesisePhases(rateK [K]float64, l int, wo float64, fs int, plan *fourier.Plan, phi *[81]float64) error {
	var magDb [PhaseNFFT/2 + 1]float64
	grid := RateKGrid()
	var freqs, amps [K + 1]float64
	copy(freqs[1:], grid[:])
	copy(amps[1:], rateK[:])
	for i := range magDb {
		f := float64(i) * float64(fs) / 2 / float64(PhaseNFFT/2)
		magDb[i] = interpAmpAt(freqs[:], amps[:], K, f)
	}

	logMag := make([]complex128, PhaseNFFT)
	for i := 0; i <= PhaseNFFT/2; i++ {
		v := magDb[i] * math.Ln10 / 20
		logMag[i] = complex(v, 0)
		if i > 0 && i < PhaseNFFT/2 {
			logMag[PhaseNFFT-i] = complex(v, 0)
		}
	}

	cepstrum := make([]complex128, PhaseNFFT)
	if err := plan.Inverse(cepstrum, logMag); err != nil {
		return err
	}

	causal := make([]complex128, PhaseNFFT)
	causal[0] = cepstrum[0]
	for i := 1; i < PhaseNFFT/2; i++ {
		causal[i] = complex(2*real(cepstrum[i]), 0)
	}
	causal[PhaseNFFT/2] = cepstrum[PhaseNFFT/2]

	minPhaseSpec := make([]complex128, PhaseNFFT)
	if err := plan.Forward(minPhaseSpec, causal); err != nil {
		return err
	}

	for m := 1; m <= l; m++ {
		bin := int(float64(m) * wo / (2 * math.Pi) * PhaseNFFT)
		if bin < 0 {
			bin = 0
		}
		if bin > PhaseNFFT/2 {
			bin = PhaseNFFT / 2
		}
		phi[m] = imag(minPhaseSpec[bin])
	}
	return nil
}
