package newamp1

import "math"

// WoVoicingBits is the joint Wo/voicing index width mode 700C spends in
// place of a standalone voicing bit: index 0 always means unvoiced, and
// the remaining WoLevels-1 indexes log-quantise the voiced fundamental.
const WoVoicingBits = 6

// WoLevels is the number of values WoVoicingBits can address.
const WoLevels = 1 << WoVoicingBits

// EncodeWoVoicing packs wo and the voicing decision into one
// WoVoicingBits-wide index.
func EncodeWoVoicing(wo, woMin, woMax float64, voiced bool) uint32 {
	if !voiced {
		return 0
	}
	lo, hi := math.Log(woMin), math.Log(woMax)
	step := (hi - lo) / float64(WoLevels-2)
	idx := uint32(math.Round((math.Log(wo)-lo)/step)) + 1
	if idx >= WoLevels {
		idx = WoLevels - 1
	}
	return idx
}

// DecodeWoVoicing inverts EncodeWoVoicing.
func DecodeWoVoicing(index uint32, woMin, woMax float64) (wo float64, voiced bool) {
	if index == 0 {
		return woMin, false
	}
	lo, hi := math.Log(woMin), math.Log(woMax)
	step := (hi - lo) / float64(WoLevels-2)
	wo = math.Exp(lo + float64(index-1)*step)
	return wo, true
}

// EnergyBits is mode 700C's frame-energy index width: narrower than the
// classical modes' quant.EBits since 700C spends most of its 28 bits on
// the rate-K shape VQ.
const EnergyBits = 4

// energyDbMin/energyDbMax bound the dB range the 4-bit energy quantiser
// covers, matching quant.EnergyDbMin/EnergyDbMax.
const (
	energyDbMin = 0.0
	energyDbMax = 60.0
)

// EncodeEnergy quantises linear frame energy on a dB scale.
func EncodeEnergy(e float64) uint32 {
	db := energyToDb(e)
	levels := uint32(1) << EnergyBits
	step := (energyDbMax - energyDbMin) / float64(levels-1)
	if db < energyDbMin {
		db = energyDbMin
	}
	if db > energyDbMax {
		db = energyDbMax
	}
	idx := uint32(math.Round((db - energyDbMin) / step))
	if idx >= levels {
		idx = levels - 1
	}
	return idx
}

// DecodeEnergy inverts EncodeEnergy, returning linear energy.
func DecodeEnergy(index uint32) float64 {
	levels := uint32(1) << EnergyBits
	step := (energyDbMax - energyDbMin) / float64(levels-1)
	if index >= levels {
		index = levels - 1
	}
	db := energyDbMin + float64(index)*step
	return math.Pow(10, db/10)
}

func energyToDb(e float64) float64 {
	if e < 1e-6 {
		e = 1e-6
	}
	return 10 * math.Log10(e)
}
