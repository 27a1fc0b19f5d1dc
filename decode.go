package codec2

import (
	"math"

	"github.com/opencodec/codec2/internal/lpc"
	"github.com/opencodec/codec2/internal/newamp1"
	"github.com/opencodec/codec2/internal/newamp2"
	"github.com/opencodec/codec2/internal/quant"
	"github.com/opencodec/codec2/internal/sinemodel"
)

// berMuteThreshold is the estimated bit-error rate above which DecodeBER
// soft-mutes the output on modes that support it (1300): voicing forced
// off, energy clamped low, LSPs bandwidth-expanded.
const berMuteThreshold = 0.15

// Decode unpacks bits (as packed by Encode) and synthesises
// SamplesPerFrame() PCM samples into pcm. If a soft-decision buffer was
// installed with SetSoftDec, the bits are taken from it instead of the
// hard-bit buffer.
func (c *Codec2) Decode(bits []byte, pcm []int16) error {
	return c.DecodeBER(bits, pcm, 0)
}

// DecodeBER is Decode with a caller-supplied estimate of the channel's
// current bit-error rate (0..1). Modes that support it (1300) soft-mute
// the output once berEst exceeds berMuteThreshold, attenuating the
// screeching a badly errored frame would otherwise synthesise.
func (c *Codec2) DecodeBER(bits []byte, pcm []int16, berEst float64) error {
	if len(pcm) < c.info.nSamplesFrame {
		return ErrShortBitBuffer
	}
	var r bitSource
	if c.softBits != nil {
		if len(c.softBits) != c.info.bitsPerFrame {
			return ErrShortBERBuffer
		}
		r = newSoftBitReader(c.softBits)
	} else {
		if len(bits)*8 < c.info.bitsPerFrame {
			return ErrShortBitBuffer
		}
		r = newBitReader(bits)
	}
	if c.info.rateK {
		return c.decodeRateKFrame(r, pcm)
	}
	return c.decodeClassicalFrame(r, pcm, berEst)
}

// decodeClassicalFrame unpacks a classical mode's per-sub-frame
// voicing/Wo/energy fields and synthesises each
// sub-frame from its own transmitted (or group-interpolated) parameters;
// sub-frames without a transmitted pair, and every sub-frame's LSPs,
// interpolate from the previous codec frame's decoded values.
func (c *Codec2) decodeClassicalFrame(r bitSource, pcm []int16, berEst float64) error {
	voiced, subWo, subEnergy, lsp := c.decodeClassical(r)

	if c.mode == Mode1300 && berEst > berMuteThreshold {
		for i := range voiced {
			voiced[i] = false
		}
		muted := quant.DecodeEnergy(1)
		for i := range subEnergy {
			subEnergy[i] = muted
		}
		lpc.BwExpandLsps(lsp, lpc.Order, c.c2const.Fs, 200, 200)
	}

	c.lastEnergy = subEnergy[len(subEnergy)-1]

	m := c.info.subFrames
	for i := 0; i < m; i++ {
		model := sinemodel.New(subWo[i])
		model.Voiced = voiced[i]

		frac := float64(i+1) / float64(m)
		subLsp := interpolateLspVer2(c.prevLspDec, lsp, frac, lpc.Order)
		ak := lpc.LspToLpc(subLsp, lpc.Order)
		lpc.AksToM2(ak, model.Wo, model.L, c.c2const.Fs, subEnergy[i],
			c.lpcPFEnable, c.lpcPFBassBoost, c.lpcPFBeta, c.lpcPFGamma, &model.A)
		c.ph.SynthesizeZeroOrder(&model, ak, c.rng, c.c2const.NSamp)

		c.bg.Update(model.Voiced, modelEnergyDb(model))
		c.bg.RandomisePhases(&model, c.rng)

		start := i * c.c2const.NSamp
		if err := c.syn.SynthesizeOneFrame(model, pcm[start:start+c.c2const.NSamp]); err != nil {
			return err
		}
	}

	c.prevModelDec = sinemodel.New(subWo[m-1])
	c.prevModelDec.Voiced = voiced[m-1]
	c.prevEnergyDec = subEnergy[m-1]
	c.prevLspDec = lsp
	return nil
}

// decodeRateKFrame unpacks the newamp1/newamp2 pipelines' once-per-frame
// Wo/voicing/energy/shape fields and resynthesises every sub-frame from
// them, linearly interpolating the rate-K surface, Wo and energy between
// the previous packed frame's reconstruction and the current one (these
// modes have no per-sub-frame transmitted parameters).
// A plosive frame (450) skips the interpolation and ramps up from
// silence instead, keeping the onset sharp.
func (c *Codec2) decodeRateKFrame(r bitSource, pcm []int16) error {
	wo, energy, voiced, plosive := c.decodeRateKHeader(r)

	c.lastEnergy = energy

	m := c.info.subFrames
	for i := 0; i < m; i++ {
		frac := float64(i+1) / float64(m)

		var subWo, subEnergy float64
		if plosive {
			subWo = wo
			subEnergy = interpEnergy2(1e-6, energy, frac)
		} else {
			subWo = interpWo2(c.prevModelDec.Wo, wo, c.prevModelDec.Voiced, voiced, frac)
			subEnergy = interpEnergy2(c.prevEnergyDec, energy, frac)
		}

		model := sinemodel.New(subWo)
		model.Voiced = voiced

		c.synthesizeRateKSubframe(&model, subEnergy, frac, plosive)

		c.bg.Update(model.Voiced, modelEnergyDb(model))
		c.bg.RandomisePhases(&model, c.rng)

		start := i * c.c2const.NSamp
		if err := c.syn.SynthesizeOneFrame(model, pcm[start:start+c.c2const.NSamp]); err != nil {
			return err
		}
	}

	c.prevModelDec = sinemodel.New(wo)
	c.prevModelDec.Voiced = voiced
	c.prevEnergyDec = energy
	if c.mode == Mode700C {
		c.prevRateK1Dec = c.pendingRateK1
	} else {
		c.prevRateK2Dec = c.pendingRateK2
	}
	return nil
}

// decodeClassical unpacks a classical mode's per-sub-frame voicing bits
// plus its Wo/energy field(s) and once-per-frame LSP set, then resolves
// every sub-frame's own Wo/energy (exact for a sub-frame that carries a
// transmitted pair, interpolated between neighbouring transmitted pairs
// otherwise) exactly mirroring the layouts encodeClassical packs.
func (c *Codec2) decodeClassical(r bitSource) (voiced []bool, subWo, subEnergy, lsp []float64) {
	m := c.info.subFrames
	switch c.mode {
	case Mode3200:
		vb, wo, energy := c.unpackSingleGroupScalar(r, m)
		voiced = vb
		subWo = reconstructSingleGroupWo(c.prevModelDec.Wo, c.prevModelDec.Voiced, wo, vb)
		subEnergy = reconstructSingleGroupEnergy(c.prevEnergyDec, energy, m)
		idx := make([]uint32, lpc.Order)
		for i := range idx {
			idx[i] = unpackIndex(r, quant.LspDeltaBits[i], c.natural)
		}
		lsp = c.lspDeltaDec.DecodeLspDelta(idx, lpc.Order)
	case Mode2400:
		vb, wo, energy := c.unpackSingleGroupJoint(r, m)
		voiced = vb
		subWo = reconstructSingleGroupWo(c.prevModelDec.Wo, c.prevModelDec.Voiced, wo, vb)
		subEnergy = reconstructSingleGroupEnergy(c.prevEnergyDec, energy, m)
		lsp = c.decodeLspScalar(r)
		r.GetBits(2) // spare
	case Mode1600:
		vb, wo, energy := c.unpackTwoGroupScalar(r)
		voiced = vb[:]
		subWo = reconstructTwoGroupWo(c.prevModelDec.Wo, c.prevModelDec.Voiced, wo, vb)
		subEnergy = reconstructTwoGroupEnergy(c.prevEnergyDec, energy)
		lsp = c.decodeLspScalar(r)
	case Mode1400:
		vb, wo, energy := c.unpackTwoGroupJoint(r)
		voiced = vb[:]
		subWo = reconstructTwoGroupWo(c.prevModelDec.Wo, c.prevModelDec.Voiced, wo, vb)
		subEnergy = reconstructTwoGroupEnergy(c.prevEnergyDec, energy)
		lsp = c.decodeLspScalar(r)
	case Mode1300:
		vb, wo, energy := c.unpackSingleGroupScalar(r, m)
		voiced = vb
		subWo = reconstructSingleGroupWo(c.prevModelDec.Wo, c.prevModelDec.Voiced, wo, vb)
		subEnergy = reconstructSingleGroupEnergy(c.prevEnergyDec, energy, m)
		lsp = c.decodeLspScalar(r)
	case Mode1200:
		vb, wo, energy := c.unpackTwoGroupJoint(r)
		voiced = vb[:]
		subWo = reconstructTwoGroupWo(c.prevModelDec.Wo, c.prevModelDec.Voiced, wo, vb)
		subEnergy = reconstructTwoGroupEnergy(c.prevEnergyDec, energy)
		i1 := unpackIndex(r, quant.LspVqStage1Bits, c.natural)
		i2 := unpackIndex(r, quant.LspVqStage2Bits, c.natural)
		lsp = c.lspVqDec.Decode(i1, i2)
		r.GetBits(1) // spare
	}
	return voiced, subWo, subEnergy, lsp
}

func (c *Codec2) decodeLspScalar(r bitSource) []float64 {
	idx := make([]uint32, lpc.Order)
	for i := range idx {
		idx[i] = unpackIndex(r, quant.LspScalarBits[i], c.natural)
	}
	return quant.DecodeLspScalar(idx, lpc.Order)
}

// unpackSingleGroupScalar inverts packSingleGroupScalar.
func (c *Codec2) unpackSingleGroupScalar(r bitSource, m int) (voiced []bool, wo, energy float64) {
	voiced = make([]bool, m)
	for i := range voiced {
		voiced[i] = r.GetBits(1) != 0
	}
	wo = quant.DecodeWo(unpackIndex(r, quant.WoBits, c.natural), c.c2const.WoMin, c.c2const.WoMax)
	energy = quant.DecodeEnergy(unpackIndex(r, quant.EBits, c.natural))
	return voiced, wo, energy
}

// unpackSingleGroupJoint inverts packSingleGroupJoint.
func (c *Codec2) unpackSingleGroupJoint(r bitSource, m int) (voiced []bool, wo, energy float64) {
	voiced = make([]bool, m)
	for i := range voiced {
		voiced[i] = r.GetBits(1) != 0
	}
	idx := unpackIndex(r, quant.WoEBits, c.natural)
	wo, energy = c.jointWoEDec.Decode(idx)
	return voiced, wo, energy
}

// unpackTwoGroupScalar inverts packTwoGroupScalar.
func (c *Codec2) unpackTwoGroupScalar(r bitSource) (voiced [4]bool, wo, energy [2]float64) {
	for g := 0; g < 2; g++ {
		voiced[2*g] = r.GetBits(1) != 0
		voiced[2*g+1] = r.GetBits(1) != 0
		wo[g] = quant.DecodeWo(unpackIndex(r, quant.WoBits, c.natural), c.c2const.WoMin, c.c2const.WoMax)
		energy[g] = quant.DecodeEnergy(unpackIndex(r, quant.EBits, c.natural))
	}
	return voiced, wo, energy
}

// unpackTwoGroupJoint inverts packTwoGroupJoint.
func (c *Codec2) unpackTwoGroupJoint(r bitSource) (voiced [4]bool, wo, energy [2]float64) {
	for g := 0; g < 2; g++ {
		voiced[2*g] = r.GetBits(1) != 0
		voiced[2*g+1] = r.GetBits(1) != 0
		idx := unpackIndex(r, quant.WoEBits, c.natural)
		wo[g], energy[g] = c.jointWoEDec.Decode(idx)
	}
	return voiced, wo, energy
}

// reconstructSingleGroupWo resolves every sub-frame's Wo when only one
// Wo/energy pair is transmitted for the whole packed frame (modes 3200,
// 2400, 1300): each sub-frame interpolates between the previous frame's
// final Wo and this frame's transmitted Wo, at its own fractional
// position, exactly as a single-sub-frame design would but repeated per
// sub-frame instead of collapsed to one.
func reconstructSingleGroupWo(prevWo float64, prevVoiced bool, wo float64, voiced []bool) []float64 {
	m := len(voiced)
	endVoiced := voiced[m-1]
	sub := make([]float64, m)
	for i := 0; i < m; i++ {
		frac := float64(i+1) / float64(m)
		sub[i] = interpWo2(prevWo, wo, prevVoiced, endVoiced, frac)
	}
	return sub
}

func reconstructSingleGroupEnergy(prevEnergy, energy float64, m int) []float64 {
	sub := make([]float64, m)
	for i := 0; i < m; i++ {
		frac := float64(i+1) / float64(m)
		sub[i] = interpEnergy2(prevEnergy, energy, frac)
	}
	return sub
}

// reconstructTwoGroupWo resolves the 4 sub-frames' Wo when two Wo pairs
// are transmitted, one per group of two (modes 1600, 1400, 1200):
// sub-frames 1 and 3 equal their own transmitted Wo exactly, while
// sub-frames 0 and 2 interpolate at the group's midpoint between the
// previous anchor and this group's transmitted Wo.
func reconstructTwoGroupWo(prevWo float64, prevVoiced bool, wo [2]float64, voiced [4]bool) []float64 {
	return []float64{
		interpWo2(prevWo, wo[0], prevVoiced, voiced[1], 0.5),
		wo[0],
		interpWo2(wo[0], wo[1], voiced[1], voiced[3], 0.5),
		wo[1],
	}
}

func reconstructTwoGroupEnergy(prevEnergy float64, energy [2]float64) []float64 {
	return []float64{
		interpEnergy2(prevEnergy, energy[0], 0.5),
		energy[0],
		interpEnergy2(energy[0], energy[1], 0.5),
		energy[1],
	}
}

// decodeRateKHeader unpacks the per-frame fields that precede the
// per-subframe magnitude reconstruction: the rate-K shape/VQ indexes,
// frame energy, and the joint Wo/voicing (700C) or Wo/voicing/plosive
// (450) field, in the exact order encodeRateK writes them.
func (c *Codec2) decodeRateKHeader(r bitSource) (wo, energy float64, voiced, plosive bool) {
	if c.mode == Mode700C {
		idx1 := unpackIndex(r, newamp1.Stage1Bits, c.natural)
		idx2 := unpackIndex(r, newamp1.Stage2Bits, c.natural)
		c.pendingRateK1 = newamp1.Decode(idx1, idx2)
		energy = newamp1.DecodeEnergy(unpackIndex(r, newamp1.EnergyBits, c.natural))
		joint := unpackIndex(r, newamp1.WoVoicingBits, c.natural)
		wo, voiced = newamp1.DecodeWoVoicing(joint, c.c2const.WoMin, c.c2const.WoMax)
		return wo, energy, voiced, false
	}

	// Mode450 / Mode450PWB field order: VQ1(9) E(3) WoVP(6).
	k := c.rateK2()
	shapeIdx := unpackIndex(r, newamp2.ShapeBits, c.natural)
	energyIdx := unpackIndex(r, newamp2.EnergyBits, c.natural)
	joint := unpackIndex(r, newamp2.WoVoicingPlosiveBits, c.natural)
	wo, voiced, plosive = newamp2.DecodeWoVoicingPlosive(joint, c.c2const.WoMin, c.c2const.WoMax)
	meanDb := newamp2.DecodeEnergy(energyIdx)
	energy = math.Pow(10, meanDb/10)
	c.pendingRateK2 = newamp2.DecodeShape(shapeIdx, k)
	return wo, energy, voiced, plosive
}

// synthesizeRateKSubframe reconstructs one sub-frame's harmonic
// amplitudes from the rate-K shape decodeRateKHeader unpacked for this
// codec frame, blended with the previous frame's shape at the
// sub-frame's fractional position (the newamp pipelines carry one
// spectral shape per frame, not per sub-frame). Plosive frames use the
// current shape directly; blending across a plosive onset smears it.
func (c *Codec2) synthesizeRateKSubframe(model *sinemodel.Model, energy, frac float64, plosive bool) {
	fs := c.c2const.Fs
	if c.mode == Mode700C {
		var vec [newamp1.K]float64
		for i := range vec {
			vec[i] = (1-frac)*c.prevRateK1Dec[i] + frac*c.pendingRateK1[i]
		}
		if c.pf700c {
			vec = newamp1.PostFilter(vec)
		}
		newamp1.ResampleFromRateK(vec, model.L, model.Wo, fs, &model.A)
		applyEnergyTarget(model.A[:], model.L, energy)
		if err := newamp1.SynthesisePhases(vec, model.L, model.Wo, fs, c.fftPhase, &model.Phi); err != nil {
			for mIdx := 1; mIdx <= model.L; mIdx++ {
				model.Phi[mIdx] = 2 * math.Pi * float64(c.rng.Next()) / 32768.0
			}
		}
		return
	}

	k := c.rateK2()
	shape := make([]float64, k)
	for i := range shape {
		cur := 0.0
		if i < len(c.pendingRateK2) {
			cur = c.pendingRateK2[i]
		}
		if plosive {
			shape[i] = cur
			continue
		}
		prev := 0.0
		if i < len(c.prevRateK2Dec) {
			prev = c.prevRateK2Dec[i]
		}
		shape[i] = (1-frac)*prev + frac*cur
	}
	newamp2.ResampleFromRateK(shape, model.L, model.Wo, fs, k, &model.A)
	applyEnergyTarget(model.A[:], model.L, energy)
	c.ph.SynthesizeZeroOrder(model, nil, c.rng, c.c2const.NSamp)
}

// rateK2 resolves the newamp2 rate-K dimension, honouring a SetUserRateK
// override.
func (c *Codec2) rateK2() int {
	if c.userK != 0 {
		return c.userK
	}
	return newamp2.KFor(c.c2const.Fs)
}

func applyEnergyTarget(a []float64, l int, energy float64) {
	sum := 0.0
	for m := 1; m <= l; m++ {
		sum += a[m] * a[m]
	}
	if sum < 1e-9 {
		sum = 1e-9
	}
	gain := math.Sqrt(energy * float64(l) / sum)
	for m := 1; m <= l; m++ {
		a[m] *= gain
	}
}

// modelEnergyDb is the frame level the background-noise tracker runs on:
// mean harmonic energy in dB.
func modelEnergyDb(model sinemodel.Model) float64 {
	e := frameEnergy(model)
	if e < 1e-6 {
		e = 1e-6
	}
	return 10 * math.Log10(e)
}

// GetEnergy extracts the frame energy carried in a packed frame without
// running the decoder or touching any decoder state beyond a read of the
// joint-quantiser predictor, so a host can meter or squelch a stream it
// isn't synthesising.
func (c *Codec2) GetEnergy(bits []byte) (float64, error) {
	if len(bits)*8 < c.info.bitsPerFrame {
		return 0, ErrShortBitBuffer
	}
	r := newBitReader(bits)
	switch c.mode {
	case Mode3200:
		r.GetBits(2) // voicing
		r.GetBits(quant.WoBits)
		return quant.DecodeEnergy(unpackIndex(r, quant.EBits, c.natural)), nil
	case Mode2400:
		r.GetBits(2)
		return c.jointWoEDec.PeekEnergy(unpackIndex(r, quant.WoEBits, c.natural)), nil
	case Mode1600:
		r.GetBits(2)
		r.GetBits(quant.WoBits)
		return quant.DecodeEnergy(unpackIndex(r, quant.EBits, c.natural)), nil
	case Mode1400, Mode1200:
		r.GetBits(2)
		return c.jointWoEDec.PeekEnergy(unpackIndex(r, quant.WoEBits, c.natural)), nil
	case Mode1300:
		r.GetBits(4) // voicing
		r.GetBits(quant.WoBits)
		return quant.DecodeEnergy(unpackIndex(r, quant.EBits, c.natural)), nil
	case Mode700C:
		r.GetBits(newamp1.Stage1Bits + newamp1.Stage2Bits)
		return newamp1.DecodeEnergy(unpackIndex(r, newamp1.EnergyBits, c.natural)), nil
	case Mode450, Mode450PWB:
		r.GetBits(newamp2.ShapeBits)
		meanDb := newamp2.DecodeEnergy(unpackIndex(r, newamp2.EnergyBits, c.natural))
		return math.Pow(10, meanDb/10), nil
	}
	return 0, ErrUnsupportedMode
}
