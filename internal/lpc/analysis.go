// Package lpc implements the classical linear-predictive-coding pipeline:
// autocorrelation -> Levinson-Durbin -> LSP conversion, LSP stability
// enforcement, bandwidth expansion, and the LPC-to-harmonic-magnitude
// synthesis step used by the classical (non rate-K) modes.
//
// The entry points mirror the reference's speech_to_uq_lsps/lsp_to_lpc/
// aks_to_M2 call chain; the algorithms themselves are the textbook
// Levinson-Durbin recursion and Chebyshev-domain LSP root search.
package lpc

// Order is LPC_ORD, the fixed LPC analysis order used by every classical
// mode.
const Order = 10

// Autocorrelate computes the order+1 autocorrelation lags of the
// windowed speech frame sn*w (both length m_pitch), per the standard
// windowed-autocorrelation method.
func Autocorrelate(sn, w []float64, order int) []float64 {
	n := len(sn)
	windowed := make([]float64, n)
	for i := range sn {
		windowed[i] = sn[i] * w[i]
	}

	r := make([]float64, order+1)
	for lag := 0; lag <= order; lag++ {
		sum := 0.0
		for i := 0; i+lag < n; i++ {
			sum += windowed[i] * windowed[i+lag]
		}
		r[lag] = sum
	}
	// A tiny white-noise correction keeps Levinson-Durbin well
	// conditioned on near-silent frames.
	r[0] *= 1.0001
	r[0] += 1e-6
	return r
}

// Levinson runs Levinson-Durbin recursion on autocorrelation lags r
// (length order+1) and returns the LPC coefficients ak (length order+1,
// ak[0]=1) and the residual (gain) energy e.
func Levinson(r []float64, order int) (ak []float64, e float64) {
	ak = make([]float64, order+1)
	ak[0] = 1
	e = r[0]
	if e <= 0 {
		return ak, 1e-6
	}

	tmp := make([]float64, order+1)
	for i := 1; i <= order; i++ {
		acc := r[i]
		for j := 1; j < i; j++ {
			acc += ak[j] * r[i-j]
		}
		k := -acc / e

		for j := 1; j < i; j++ {
			tmp[j] = ak[j] + k*ak[i-j]
		}
		for j := 1; j < i; j++ {
			ak[j] = tmp[j]
		}
		ak[i] = k
		e *= 1 - k*k
		if e < 1e-9 {
			e = 1e-9
		}
	}
	return ak, e
}
