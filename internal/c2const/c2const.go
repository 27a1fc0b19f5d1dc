// Package c2const derives the fixed frame-geometry constants shared by
// every stage of the codec from the sample rate and analysis frame
// length, the same derivation as the reference's c2const_create: a
// sample rate goes in, a small immutable struct of sizes comes out, and
// the rest of the codec treats it as read-only.
package c2const

import "math"

const twoPi = 2 * math.Pi

// Const holds the frame geometry for one sample rate. It is built once by
// New and never mutated afterwards.
type Const struct {
	Fs      int     // sample rate, 8000 or 16000
	NSamp   int     // samples per 10ms sub-frame
	MPitch  int     // pitch analysis window length in samples
	PMin    int     // minimum pitch period, samples
	PMax    int     // maximum pitch period, samples
	MaxAmp  int     // largest usable harmonic index before aliasing
	WoMin   float64 // 2*pi/PMax
	WoMax   float64 // 2*pi/PMin
	Nw      int     // analysis window width, samples
	Tw      int     // trapezoid rise/fall width, samples
}

// Timing constants from the codec2 reference (seconds).
const (
	pMinS     = 0.0025 // 2.5ms -> 400Hz
	pMaxS     = 0.02   // 20ms -> 50Hz
	mPitchS   = 0.0400 // 40ms pitch analysis window
	twS       = 0.005  // 5ms trapezoid taper
)

// New derives the frame geometry for sample rate fs and analysis frame
// length framelengthS (seconds, e.g. 0.01 for a 10ms sub-frame).
//
// fs must be 8000 or 16000; any other value is a configuration error and
// the caller (codec2.New) must reject it before calling here.
func New(fs int, framelengthS float64) Const {
	c := Const{Fs: fs}

	c.NSamp = int(math.Round(float64(fs) * framelengthS))
	c.MaxAmp = int(math.Floor(float64(fs) * pMaxS / 2))
	c.PMin = int(math.Floor(float64(fs) * pMinS))
	c.PMax = int(math.Floor(float64(fs) * pMaxS))
	c.MPitch = int(math.Floor(float64(fs) * mPitchS))
	c.WoMin = twoPi / float64(c.PMax)
	c.WoMax = twoPi / float64(c.PMin)

	if fs == 8000 {
		c.Nw = 279
	} else {
		c.Nw = 511
	}
	c.Tw = int(float64(fs) * twS)

	return c
}
