// Package codec2 implements the sinusoidal very-low-bitrate speech
// codec: a ten-millisecond-granularity harmonic analysis/synthesis
// engine quantised down to one of nine fixed bit rates from 450 to 3200
// bit/s.
package codec2

import (
	"math"

	"github.com/opencodec/codec2/internal/analyser"
	"github.com/opencodec/codec2/internal/c2const"
	"github.com/opencodec/codec2/internal/fourier"
	"github.com/opencodec/codec2/internal/lpc"
	"github.com/opencodec/codec2/internal/newamp1"
	"github.com/opencodec/codec2/internal/phase"
	"github.com/opencodec/codec2/internal/quant"
	"github.com/opencodec/codec2/internal/rng"
	"github.com/opencodec/codec2/internal/sinemodel"
	"github.com/opencodec/codec2/internal/synth"
)

// Codec2 is one encoder/decoder instance for a fixed Mode. Encode and
// Decode are not safe for concurrent use on the same instance; create
// one Codec2 per concurrent stream.
type Codec2 struct {
	mode     Mode
	info     modeInfo
	c2const  c2const.Const
	natural  bool
	softBits []float32
	pf700c   bool
	eq700c   bool
	userK    int

	// Classical-mode LPC post-filter state: the enable and bass-boost
	// switches plus the beta/gamma bandwidth-expansion factors applied by
	// lpc.AksToM2 at decode time.
	lpcPFEnable    bool
	lpcPFBassBoost bool
	lpcPFBeta      float64
	lpcPFGamma     float64

	fftEnc   *fourier.Plan
	fftDec   *fourier.Plan
	fftPhase *fourier.Plan

	ana *analyser.State
	syn *synth.State
	ph  *phase.State
	bg  *phase.BackgroundNoise
	rng *rng.LCG

	prevModelEnc sinemodel.Model
	prevLspEnc   []float64

	prevModelDec  sinemodel.Model
	prevLspDec    []float64
	prevEnergyDec float64

	jointWoEEnc *quant.JointWoEState
	jointWoEDec *quant.JointWoEState
	lspDeltaEnc *quant.LspDeltaState
	lspDeltaDec *quant.LspDeltaState
	lspVqEnc    *quant.LspVqState
	lspVqDec    *quant.LspVqState

	// eqEnc is the 700C encoder-side spectral equaliser; it adds a
	// slowly-tracked correction before the shape VQ, so the decoder needs no
	// counterpart: the correction is already inside the transmitted
	// indexes.
	eqEnc *newamp1.Equalizer

	// prevMeanDbEnc tracks the previous sub-frame's mean log magnitude
	// above 300Hz so encodeRateK's plosive detector can compare
	// consecutive sub-frames across the frame boundary; the decoder has
	// no equivalent need since the plosive flag arrives already decided,
	// inside the transmitted joint index.
	prevMeanDbEnc float64

	lastEnergy float64

	// varSumSq/varCount accumulate the newamp1 (700C) two-stage shape
	// VQ's squared quantisation error across frames since construction or
	// the last ResetVar call; GetVar reports their running mean.
	varSumSq float64
	varCount int

	// pendingRateK1/pendingRateK2 carry the current frame's decoded
	// rate-K spectral shape across the per-subframe resynthesis loop,
	// since the shape is sent once per codec frame but resampled onto
	// every subframe's (interpolated) harmonic set; prevRateK1Dec/
	// prevRateK2Dec hold the previous frame's shape, the other end of
	// that interpolation.
	pendingRateK1 [newamp1.K]float64
	prevRateK1Dec [newamp1.K]float64
	pendingRateK2 []float64
	prevRateK2Dec []float64
}

// New constructs a Codec2 instance for the given Mode.
func New(mode Mode) (*Codec2, error) {
	info, err := lookupMode(mode)
	if err != nil {
		return nil, err
	}

	c := c2const.New(info.fs, info.frameLengthS)

	fftEnc, err := fourier.NewPlan(fourier.SizeEnc)
	if err != nil {
		return nil, ErrPlanCreation
	}
	fftDec, err := fourier.NewPlan(fourier.SizeDec)
	if err != nil {
		return nil, ErrPlanCreation
	}
	fftPhase, err := fourier.NewPlan(newamp1.PhaseNFFT)
	if err != nil {
		return nil, ErrPlanCreation
	}

	ana, err := analyser.New(c, fftEnc)
	if err != nil {
		return nil, err
	}

	defaultLsp := make([]float64, lpc.Order)
	for i := range defaultLsp {
		defaultLsp[i] = math.Pi * float64(i+1) / float64(lpc.Order+1)
	}
	lspEnc := make([]float64, lpc.Order)
	lspDec := make([]float64, lpc.Order)
	copy(lspEnc, defaultLsp)
	copy(lspDec, defaultLsp)

	codec := &Codec2{
		mode:    mode,
		info:    info,
		c2const: c,
		// Gray coding is on by default only at 1300, the mode tuned for HF
		// radio, where an isolated channel bit error should land on an
		// adjacent quantiser level.
		natural:       mode != Mode1300,
		fftEnc:        fftEnc,
		fftDec:        fftDec,
		fftPhase:      fftPhase,
		ana:           ana,
		syn:           synth.New(c, fftDec),
		ph:            phase.New(),
		bg:            phase.NewBackgroundNoise(),
		rng:           rng.New(),
		prevModelEnc:  sinemodel.New(c.WoMax),
		prevLspEnc:    lspEnc,
		prevModelDec:  sinemodel.New(c.WoMax),
		prevLspDec:    lspDec,
		prevEnergyDec: 1e-4,
		jointWoEEnc:   quant.NewJointWoEState(c.WoMin, c.WoMax),
		jointWoEDec:   quant.NewJointWoEState(c.WoMin, c.WoMax),
		lspDeltaEnc:   quant.NewLspDeltaState(lpc.Order),
		lspDeltaDec:   quant.NewLspDeltaState(lpc.Order),
		lspVqEnc:      quant.NewLspVqState(),
		lspVqDec:      quant.NewLspVqState(),
		eqEnc:         newamp1.NewEqualizer(),
		// A high baseline keeps the 450 plosive detector from flagging a
		// loud first frame as an onset.
		prevMeanDbEnc:  100,
		pf700c:         true,
		eq700c:         true,
		lpcPFEnable:    true,
		lpcPFBassBoost: true,
		lpcPFBeta:      lpc.LpcPostfilterBeta,
		lpcPFGamma:     lpc.LpcPostfilterGamma,
	}
	return codec, nil
}

// SamplesPerFrame returns the number of PCM samples Encode consumes and
// Decode produces per call, for this instance's Mode.
func (c *Codec2) SamplesPerFrame() int { return c.info.nSamplesFrame }

// BitsPerFrame returns the number of bits Encode packs into its output
// buffer (callers must size bits to at least (BitsPerFrame()+7)/8 bytes).
func (c *Codec2) BitsPerFrame() int { return c.info.bitsPerFrame }

// SetNaturalOrGray selects natural binary (true) or Gray-coded (false)
// indexing for the VQ fields. Gray coding makes an isolated channel bit
// error land on an adjacent codeword; it is the construction-time
// default only at 1300, the mode tuned for HF radio channels.
func (c *Codec2) SetNaturalOrGray(natural bool) { c.natural = natural }

// SetSoftDec installs a per-bit soft-decision buffer (positive meaning
// more likely 1, length BitsPerFrame) that subsequent Decode calls read
// instead of the hard-bit buffer; the caller refills it before each
// decode. Pass nil to revert to hard bits.
func (c *Codec2) SetSoftDec(soft []float32) { c.softBits = soft }

// SetLpcPostFilter configures the classical modes' decode-side formant
// post-filter: the enable and bass-boost switches plus the beta/gamma
// bandwidth-expansion factors, which must lie in [0, 1].
func (c *Codec2) SetLpcPostFilter(enable, bassBoost bool, beta, gamma float64) error {
	if beta < 0 || beta > 1 || gamma < 0 || gamma > 1 {
		return ErrInvalidPostFilter
	}
	c.lpcPFEnable = enable
	c.lpcPFBassBoost = bassBoost
	c.lpcPFBeta = beta
	c.lpcPFGamma = gamma
	return nil
}

// Set700CPostFilter enables or disables the 700C mode's formant
// post-filter, a power law on its mean-removed rate-K envelope.
func (c *Codec2) Set700CPostFilter(enable bool) { c.pf700c = enable }

// Set700CEqualizer enables or disables the 700C mode's spectral
// equalizer tracking.
func (c *Codec2) Set700CEqualizer(enable bool) { c.eq700c = enable }

// SetUserRateK overrides the rate-K dimension used by the newamp2
// pipeline (Mode450/Mode450PWB; 0 restores the mode's default K), a
// supplemented control surface for experimenting with the rate-K
// resolution/bit-rate trade-off. newamp1 (Mode700C) carries its K as a
// fixed array size and is unaffected.
func (c *Codec2) SetUserRateK(k int) error {
	if k != 0 && (k < 4 || k > 40) {
		return ErrInvalidRateK
	}
	c.userK = k
	return nil
}

// LastEnergy returns the most recently encoded or decoded frame's linear
// energy estimate. For extracting energy from a packed frame without
// decoding it, see GetEnergy.
func (c *Codec2) LastEnergy() float64 { return c.lastEnergy }

// GetVar returns the mean squared quantisation error of the newamp1
// (700C) two-stage shape VQ across every frame encoded since
// construction or the last ResetVar call; other modes never update it
// and it reads 0.
func (c *Codec2) GetVar() float64 {
	if c.varCount == 0 {
		return 0
	}
	return c.varSumSq / float64(c.varCount)
}

// ResetVar clears the running average GetVar reports, restarting it from
// the next 700C-encoded frame.
func (c *Codec2) ResetVar() {
	c.varSumSq = 0
	c.varCount = 0
}

// updateVar folds one frame's newamp1 shape-VQ quantisation error
// (mean-removed target vs. its two-stage VQ reconstruction) into the
// running average GetVar reports.
func (c *Codec2) updateVar(target, reconstructed [newamp1.K]float64) {
	sum := 0.0
	for i := range target {
		d := target[i] - reconstructed[i]
		sum += d * d
	}
	c.varSumSq += sum / float64(len(target))
	c.varCount++
}

func frameEnergy(model sinemodel.Model) float64 {
	if model.L == 0 {
		return 1e-6
	}
	sum := 0.0
	for m := 1; m <= model.L; m++ {
		sum += model.A[m] * model.A[m]
	}
	return sum / float64(model.L)
}
