// Package sinemodel defines the per-10ms sinusoidal model parameters
// shared by the analyser, quantisers and synthesiser. Model is a plain
// value struct: the cross-frame interpolation code copies it rather
// than aliasing it, so a later frame can never mutate an earlier
// frame's snapshot.
package sinemodel

import "math"

// MaxAmp is the largest number of harmonics a Model can carry.
const MaxAmp = 80

// Model holds one 10ms frame's sinusoidal analysis: fundamental
// frequency, harmonic count, harmonic magnitudes and phases, and the
// voicing decision.
type Model struct {
	Wo     float64             // fundamental angular frequency, rad/sample
	L      int                 // number of harmonics, 1..MaxAmp
	A      [MaxAmp + 1]float64 // harmonic magnitudes, A[1..L]
	Phi    [MaxAmp + 1]float64 // harmonic phases, Phi[1..L], in (-pi, pi]
	Voiced bool
}

// New builds a Model from Wo, clamping L so Wo*L < pi and clearing the
// harmonic arrays.
func New(wo float64) Model {
	m := Model{Wo: wo}
	m.L = clampL(wo)
	return m
}

// SetWo updates Wo and re-derives L, clamping to preserve Wo*L < pi.
func (m *Model) SetWo(wo float64) {
	m.Wo = wo
	m.L = clampL(wo)
}

func clampL(wo float64) int {
	l := int(math.Floor(math.Pi / wo))
	if l < 1 {
		l = 1
	}
	if l > MaxAmp {
		l = MaxAmp
	}
	for l > 1 && wo*float64(l) >= math.Pi {
		l--
	}
	return l
}

// Copy returns an independent value copy of m (arrays are copied by
// value already; this exists purely to document the no-aliasing
// invariant at call sites that copy MODEL across frames).
func (m Model) Copy() Model {
	return m
}
