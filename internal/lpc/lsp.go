package lpc

import "math"

// gridPoints controls the angular resolution of the Chebyshev root
// search; finer than this buys no practical accuracy improvement once
// the bisection refinement below runs.
const gridPoints = 180

// AksToLsp converts LPC coefficients ak (length order+1, ak[0]=1) to
// order line-spectral-pair angular frequencies in (0, pi), strictly
// ascending, by root-finding on the symmetric/antisymmetric polynomials
// P(z), Q(z) in the Chebyshev x=cos(theta) domain.
func AksToLsp(ak []float64, order int) []float64 {
	half := order / 2

	f1 := make([]float64, half+1)
	f2 := make([]float64, half+1)
	f1[0], f2[0] = 1, 1
	for i := 1; i <= half; i++ {
		f1[i] = ak[i] + ak[order+1-i] - f1[i-1]
		f2[i] = ak[i] - ak[order+1-i] + f2[i-1]
	}

	roots := make([]float64, 0, order)
	roots = append(roots, findRoots(f1, half, gridPoints)...)
	roots = append(roots, findRoots(f2, half, gridPoints)...)

	// Merge-sort the two interlacing root sets by angle.
	lsp := mergeSortedAngles(roots, order)
	return lsp
}

// chebyEval evaluates the Chebyshev series c[n]/2 + sum_{k<n} c[k]*
// cos((n-k)*theta), n = len(c)-1, at theta, which is P(cos theta) or
// Q(cos theta) up to a constant scale, sufficient for sign-change root
// finding.
func chebyEval(c []float64, theta float64) float64 {
	n := len(c) - 1
	sum := 0.5 * c[n]
	for k := 0; k < n; k++ {
		sum += c[k] * math.Cos(float64(n-k)*theta)
	}
	return sum
}

// findRoots scans theta in (0, pi) for sign changes of the Chebyshev
// series c and bisects each bracket to a root, returning up to len(c)-1
// angles in ascending order.
func findRoots(c []float64, count, grid int) []float64 {
	roots := make([]float64, 0, count)
	prevTheta := 0.0
	prevVal := chebyEval(c, prevTheta)

	for i := 1; i <= grid && len(roots) < count; i++ {
		theta := math.Pi * float64(i) / float64(grid)
		val := chebyEval(c, theta)
		if (prevVal > 0) != (val > 0) {
			roots = append(roots, bisect(c, prevTheta, theta, prevVal, val))
		}
		prevTheta, prevVal = theta, val
	}
	return roots
}

func bisect(c []float64, lo, hi, loVal, hiVal float64) float64 {
	for i := 0; i < 30; i++ {
		mid := 0.5 * (lo + hi)
		midVal := chebyEval(c, mid)
		if (midVal > 0) == (loVal > 0) {
			lo, loVal = mid, midVal
		} else {
			hi, hiVal = mid, midVal
		}
	}
	return 0.5 * (lo + hi)
}

// mergeSortedAngles merges two already-sorted angle slices, truncating or
// zero-extending to exactly n entries (LSP roots interlace 1:1 between
// the two polynomials, so simple concatenation+sort is equivalent to a
// true merge here).
func mergeSortedAngles(angles []float64, n int) []float64 {
	out := make([]float64, len(angles))
	copy(out, angles)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	for len(out) < n {
		last := 0.0
		if len(out) > 0 {
			last = out[len(out)-1]
		}
		out = append(out, math.Min(math.Pi-1e-3, last+0.01))
	}
	return out
}

// LspToAk reconstructs LPC coefficients (length order+1, ak[0]=1) from
// order ascending LSP angles, inverting AksToLsp by reconstructing the
// symmetric/antisymmetric polynomials from their roots and summing them.
func LspToAk(lsp []float64, order int) []float64 {
	half := order / 2

	// P(z) has roots at the even-indexed LSPs (0,2,4,...), Q(z) at the
	// odd-indexed ones, each appearing as conjugate pairs e^{+-j*lsp}.
	p := polyFromRoots(lsp, 0, order)
	q := polyFromRoots(lsp, 1, order)

	ak := make([]float64, order+1)
	ak[0] = 1
	for i := 1; i <= half; i++ {
		sumPQ := p[i] + q[i]
		diffPQ := p[i] - q[i]
		ak[i] = 0.5 * sumPQ
		ak[order+1-i] = 0.5 * diffPQ
	}
	return ak
}

// polyFromRoots builds the real coefficient vector (length half+1,
// indices 0..half map to the Chebyshev-domain coefficients f1/f2 used in
// AksToLsp) implied by every other LSP angle starting at offset, by
// multiplying out (x - cos(theta_k)) factors in the x=cos(theta) domain
// and converting back to the k*theta cosine basis is unnecessary here:
// we directly re-derive f1/f2 via the elementary symmetric functions of
// cos(theta_k), which is algebraically equivalent for this use.
func polyFromRoots(lsp []float64, offset, order int) []float64 {
	half := order / 2
	cosVals := make([]float64, 0, half)
	for i := offset; i < len(lsp); i += 2 {
		cosVals = append(cosVals, math.Cos(lsp[i]))
	}

	// Elementary symmetric polynomial coefficients of (x - cosVals[k]).
	coeffs := make([]float64, len(cosVals)+1)
	coeffs[0] = 1
	for _, cv := range cosVals {
		for j := len(coeffs) - 1; j > 0; j-- {
			coeffs[j] = coeffs[j-1] - cv*coeffs[j]
		}
		coeffs[0] *= -cv
	}
	// Pad/truncate to half+1 terms expected by the caller.
	out := make([]float64, half+1)
	copy(out, coeffs)
	return out
}

// CheckLspOrder enforces strict ascending order on lsp (length order),
// swapping any out-of-order neighbours and nudging them apart by a
// minimum gap, so quantisation error can never produce an unstable
// synthesis filter.
func CheckLspOrder(lsp []float64, order int) {
	const minGap = 0.01
	for i := 1; i < order; i++ {
		if lsp[i] < lsp[i-1] {
			lsp[i], lsp[i-1] = lsp[i-1], lsp[i]
		}
	}
	for i := 1; i < order; i++ {
		if lsp[i]-lsp[i-1] < minGap {
			lsp[i] = lsp[i-1] + minGap
		}
	}
	if lsp[0] <= 0 {
		lsp[0] = minGap
	}
	if lsp[order-1] >= math.Pi {
		lsp[order-1] = math.Pi - minGap
	}
}

// BwExpandLsps enforces a minimum spacing between adjacent LSPs
// (separations converted to radians via the frame's sample rate): the
// first four LSPs are pushed apart to at least minSepHz, and every later
// LSP to at least maxSepHz above its predecessor, avoiding
// narrow-bandwidth resonances in the reconstructed LPC filter. The first
// LSP is not checked against 0, nor the last against pi.
func BwExpandLsps(lsp []float64, order, fs int, minSepHz, maxSepHz float64) {
	minSep := 2 * math.Pi * minSepHz / float64(fs)
	for i := 1; i < 4 && i < order; i++ {
		if lsp[i]-lsp[i-1] < minSep {
			lsp[i] = lsp[i-1] + minSep
		}
	}
	maxSep := 2 * math.Pi * maxSepHz / float64(fs)
	for i := 4; i < order; i++ {
		if lsp[i]-lsp[i-1] < maxSep {
			lsp[i] = lsp[i-1] + maxSep
		}
	}
}
