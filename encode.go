package codec2

import (
	"math"

	"github.com/opencodec/codec2/internal/lpc"
	"github.com/opencodec/codec2/internal/newamp1"
	"github.com/opencodec/codec2/internal/newamp2"
	"github.com/opencodec/codec2/internal/quant"
	"github.com/opencodec/codec2/internal/sinemodel"
)

// Encode analyses SamplesPerFrame() samples of speech and packs the
// result into bits, which must be at least (BitsPerFrame()+7)/8 bytes.
func (c *Codec2) Encode(speech []int16, bits []byte) error {
	if c.mode == Mode450PWB {
		return ErrEncodeNotSupported
	}
	if len(speech) < c.info.nSamplesFrame {
		return ErrShortSpeechBuffer
	}
	if len(bits)*8 < c.info.bitsPerFrame {
		return ErrShortBitBuffer
	}

	m := c.info.subFrames
	models := make([]sinemodel.Model, m)
	energies := make([]float64, m)
	sub := make([]float64, c.c2const.NSamp)
	for i := 0; i < m; i++ {
		start := i * c.c2const.NSamp
		for j := range sub {
			sub[j] = float64(speech[start+j])
		}
		models[i] = c.ana.AnalyseOneFrame(sub, false)
		energies[i] = frameEnergy(models[i])
	}
	last := models[m-1]

	meanEnergy := 0.0
	for _, e := range energies {
		meanEnergy += e
	}
	meanEnergy /= float64(m)

	c.lastEnergy = meanEnergy

	w := newBitWriter(bits)

	if c.info.rateK {
		c.encodeRateK(w, models, meanEnergy)
		c.prevModelEnc = last
		return nil
	}

	_, lsp := c.lpcAnalyse()
	c.encodeClassical(w, models, energies, lsp)

	c.prevModelEnc = last
	c.prevLspEnc = lsp
	return nil
}

func (c *Codec2) lpcAnalyse() (ak, lsp []float64) {
	r := lpc.Autocorrelate(c.ana.Sn(), c.ana.Window(), lpc.Order)
	ak, _ = lpc.Levinson(r, lpc.Order)
	lsp = lpc.AksToLsp(ak, lpc.Order)
	lpc.CheckLspOrder(lsp, lpc.Order)
	lpc.BwExpandLsps(lsp, lpc.Order, c.c2const.Fs, 50, 100)
	return ak, lsp
}

// encodeClassical packs the per-sub-frame voicing bits, Wo/energy
// field(s) and the once-per-frame LSP set in each mode's fixed field
// order.
func (c *Codec2) encodeClassical(w *bitWriter, models []sinemodel.Model, energies []float64, lsp []float64) {
	switch c.mode {
	case Mode3200:
		c.packSingleGroupScalar(w, models, energies)
		idx := c.lspDeltaEnc.EncodeLspDelta(lsp, lpc.Order)
		for i, v := range idx {
			packIndex(w, v, quant.LspDeltaBits[i], c.natural)
		}
	case Mode2400:
		c.packSingleGroupJoint(w, models, energies)
		c.packLspScalar(w, lsp)
		w.PutBits(0, 2) // spare
	case Mode1600:
		c.packTwoGroupScalar(w, models, energies)
		c.packLspScalar(w, lsp)
	case Mode1400:
		c.packTwoGroupJoint(w, models, energies)
		c.packLspScalar(w, lsp)
	case Mode1300:
		c.packSingleGroupScalar(w, models, energies)
		c.packLspScalar(w, lsp)
	case Mode1200:
		c.packTwoGroupJoint(w, models, energies)
		i1, i2 := c.lspVqEnc.Encode(lsp)
		packIndex(w, i1, quant.LspVqStage1Bits, c.natural)
		packIndex(w, i2, quant.LspVqStage2Bits, c.natural)
		w.PutBits(0, 1) // spare
	}
}

func (c *Codec2) packLspScalar(w *bitWriter, lsp []float64) {
	idx := quant.EncodeLspScalar(lsp, lpc.Order)
	for i, v := range idx {
		packIndex(w, v, quant.LspScalarBits[i], c.natural)
	}
}

// packSingleGroupScalar writes one voicing bit per sub-frame followed by
// a single scalar Wo/energy pair taken from the last sub-frame: the
// "v0 v1 ... Wo E" layout of modes 3200 and 1300.
func (c *Codec2) packSingleGroupScalar(w *bitWriter, models []sinemodel.Model, energies []float64) {
	for _, model := range models {
		w.PutBits(boolBit(model.Voiced), 1)
	}
	last := models[len(models)-1]
	packIndex(w, quant.EncodeWo(last.Wo, c.c2const.WoMin, c.c2const.WoMax), quant.WoBits, c.natural)
	packIndex(w, quant.EncodeEnergy(energies[len(energies)-1]), quant.EBits, c.natural)
}

// packSingleGroupJoint is packSingleGroupScalar's joint-WoE variant
// (mode 2400).
func (c *Codec2) packSingleGroupJoint(w *bitWriter, models []sinemodel.Model, energies []float64) {
	for _, model := range models {
		w.PutBits(boolBit(model.Voiced), 1)
	}
	last := models[len(models)-1]
	packIndex(w, c.jointWoEEnc.Encode(last.Wo, energies[len(energies)-1]), quant.WoEBits, c.natural)
}

// packTwoGroupScalar writes the 4-sub-frame "v0 | v1 Wo E | v2 | v3 Wo E"
// layout (mode 1600): sub-frames 0/2 contribute only their own voicing
// bit, sub-frames 1/3 additionally carry a scalar Wo/energy pair.
func (c *Codec2) packTwoGroupScalar(w *bitWriter, models []sinemodel.Model, energies []float64) {
	for g := 0; g < 2; g++ {
		lo, hi := 2*g, 2*g+1
		w.PutBits(boolBit(models[lo].Voiced), 1)
		w.PutBits(boolBit(models[hi].Voiced), 1)
		packIndex(w, quant.EncodeWo(models[hi].Wo, c.c2const.WoMin, c.c2const.WoMax), quant.WoBits, c.natural)
		packIndex(w, quant.EncodeEnergy(energies[hi]), quant.EBits, c.natural)
	}
}

// packTwoGroupJoint is packTwoGroupScalar's joint-WoE variant (modes
// 1400 and 1200).
func (c *Codec2) packTwoGroupJoint(w *bitWriter, models []sinemodel.Model, energies []float64) {
	for g := 0; g < 2; g++ {
		lo, hi := 2*g, 2*g+1
		w.PutBits(boolBit(models[lo].Voiced), 1)
		w.PutBits(boolBit(models[hi].Voiced), 1)
		packIndex(w, c.jointWoEEnc.Encode(models[hi].Wo, energies[hi]), quant.WoEBits, c.natural)
	}
}

// encodeRateK packs one newamp1 (700C) or newamp2 (450) frame from the
// M analysed sub-frames. The rate-K shape is taken from one
// representative sub-frame: normally the last, but a detected plosive
// sub-frame takes over as representative so the onset's spectrum is what
// gets transmitted.
func (c *Codec2) encodeRateK(w *bitWriter, models []sinemodel.Model, energy float64) {
	fs := c.c2const.Fs

	if c.mode == Mode700C {
		model := models[len(models)-1]
		rateK := newamp1.ResampleToRateK(model.A[:], model.L, model.Wo, fs)
		meanRemoved, _ := newamp1.MeanRemove(rateK)
		if c.eq700c {
			meanRemoved = c.eqEnc.Apply(meanRemoved)
		}
		idx1, idx2 := newamp1.Encode(meanRemoved)
		quantised := newamp1.Decode(idx1, idx2)
		c.updateVar(meanRemoved, quantised)
		if c.eq700c {
			c.eqEnc.Update(meanRemoved, quantised)
		}

		// Field order: VQ1(9) VQ2(9) E(4) WoV(6).
		packIndex(w, idx1, newamp1.Stage1Bits, c.natural)
		packIndex(w, idx2, newamp1.Stage2Bits, c.natural)
		packIndex(w, newamp1.EncodeEnergy(energy), newamp1.EnergyBits, c.natural)
		joint := newamp1.EncodeWoVoicing(model.Wo, c.c2const.WoMin, c.c2const.WoMax, model.Voiced)
		packIndex(w, joint, newamp1.WoVoicingBits, c.natural)
		return
	}

	// Mode450: the plosive detector walks the per-sub-frame mean log
	// magnitude above 300Hz; the first onset it finds becomes the frame's
	// representative sub-frame.
	model := models[len(models)-1]
	plosive := false
	prevDb := c.prevMeanDbEnc
	for _, sub := range models {
		curDb := meanLogMagAbove300(sub, fs)
		if !plosive && newamp2.DetectPlosive(prevDb, curDb) {
			plosive = true
			model = sub
		}
		prevDb = curDb
	}
	c.prevMeanDbEnc = prevDb

	k := c.rateK2()
	rateK := newamp2.ResampleToRateK(model.A[:], model.L, model.Wo, fs, k)
	meanRemoved, mean := newamp2.MeanRemove(rateK)
	shapeIdx := newamp2.EncodeShape(meanRemoved)
	joint := newamp2.EncodeWoVoicingPlosive(model.Wo, c.c2const.WoMin, c.c2const.WoMax, model.Voiced, plosive)

	// Field order: VQ1(9) E(3) WoVP(6).
	packIndex(w, shapeIdx, newamp2.ShapeBits, c.natural)
	packIndex(w, newamp2.EncodeEnergy(mean), newamp2.EnergyBits, c.natural)
	packIndex(w, joint, newamp2.WoVoicingPlosiveBits, c.natural)
}

// meanLogMagAbove300 is the plosive detector's per-sub-frame level: the
// mean log magnitude (dB) of the harmonics above 300Hz.
func meanLogMagAbove300(model sinemodel.Model, fs int) float64 {
	sum, n := 0.0, 0
	for m := 1; m <= model.L; m++ {
		if float64(m)*model.Wo*float64(fs)/(2*math.Pi) <= 300 {
			continue
		}
		a := model.A[m]
		if a < 1e-6 {
			a = 1e-6
		}
		sum += 20 * math.Log10(a)
		n++
	}
	if n == 0 {
		return -120
	}
	return sum / float64(n)
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
