package codec2

import "math"

// interpWo linearly interpolates (on a log scale, matching pitch
// perception) between the previous and current frame's fundamental for
// sub-frame weight frac in [0,1], matching the reference's interp_Wo.
func interpWo(woPrev, woCur, frac float64) float64 {
	return math.Exp((1-frac)*math.Log(woPrev) + frac*math.Log(woCur))
}

// interpWo2 is interp_Wo's unvoiced variant: when either endpoint is
// unvoiced, interpolating the pitch is meaningless (there is no pitch),
// so fall back to whichever endpoint's voiced, or the current frame's Wo
// if both are unvoiced.
func interpWo2(woPrev, woCur float64, voicedPrev, voicedCur bool, frac float64) float64 {
	switch {
	case voicedPrev && voicedCur:
		return interpWo(woPrev, woCur, frac)
	case voicedCur:
		return woCur
	case voicedPrev:
		return woPrev
	default:
		return woCur
	}
}

// interpEnergy interpolates frame energy on a dB scale between ePrev and
// eCur for sub-frame weight frac, matching the reference's interp_energy.
func interpEnergy(ePrev, eCur, frac float64) float64 {
	dbPrev := 10 * math.Log10(math.Max(ePrev, 1e-6))
	dbCur := 10 * math.Log10(math.Max(eCur, 1e-6))
	db := (1-frac)*dbPrev + frac*dbCur
	return math.Pow(10, db/10)
}

// interpEnergy2 is a two-point variant used by every mode's sub-frame
// energy reconstruction, identical in method to interpEnergy but named separately to mirror the
// reference's interp_energy2 (one call per intermediate sub-frame rather
// than a single mid-point call).
func interpEnergy2(ePrev, eCur, frac float64) float64 {
	return interpEnergy(ePrev, eCur, frac)
}

// interpolateLspVer2 linearly interpolates each of order LSP
// coefficients between lspPrev and lspCur for sub-frame weight frac, per
// the reference's interpolate_lsp_ver2.
func interpolateLspVer2(lspPrev, lspCur []float64, frac float64, order int) []float64 {
	out := make([]float64, order)
	for i := 0; i < order; i++ {
		out[i] = (1-frac)*lspPrev[i] + frac*lspCur[i]
	}
	return out
}
