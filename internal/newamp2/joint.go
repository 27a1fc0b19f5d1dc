package newamp2

import "math"

// WoLevels is the number of values the joint index can address. Two of
// them are sentinels: the all-zero index means unvoiced and the
// all-ones index (PlosiveIndex) means a plosive frame, leaving
// WoLevels-2 usable levels that log-quantise the voiced fundamental.
// This mirrors the 700C joint field's index-0-unvoiced scheme with one
// more codepoint carved out at the top.
const (
	WoLevels     = 1 << WoVoicingPlosiveBits
	PlosiveIndex = WoLevels - 1
)

// EncodeWoVoicingPlosive packs wo, the voicing decision and the plosive
// flag into a single WoVoicingPlosiveBits-wide index. The plosive
// sentinel wins over everything else (a plosive frame transmits no
// pitch), then the unvoiced sentinel, then the quantised Wo.
func EncodeWoVoicingPlosive(wo, woMin, woMax float64, voiced, plosive bool) uint32 {
	if plosive {
		return PlosiveIndex
	}
	if !voiced {
		return 0
	}
	lo, hi := math.Log(woMin), math.Log(woMax)
	step := (hi - lo) / float64(WoLevels-3)
	idx := uint32(math.Round((math.Log(wo)-lo)/step)) + 1
	if idx > PlosiveIndex-1 {
		idx = PlosiveIndex - 1
	}
	return idx
}

// DecodeWoVoicingPlosive inverts EncodeWoVoicingPlosive. A plosive frame
// carries no pitch, so both sentinels decode to Wo_min and unvoiced.
func DecodeWoVoicingPlosive(index uint32, woMin, woMax float64) (wo float64, voiced, plosive bool) {
	switch index {
	case 0:
		return woMin, false, false
	case PlosiveIndex:
		return woMin, false, true
	}
	lo, hi := math.Log(woMin), math.Log(woMax)
	step := (hi - lo) / float64(WoLevels-3)
	wo = math.Exp(lo + float64(index-1)*step)
	return wo, true, false
}

// PlosiveThresholdDb is the sub-frame energy rise (in dB) above which a
// frame onset is flagged as plosive.
const PlosiveThresholdDb = 15.0

// DetectPlosive compares a sub-frame's mean log magnitude (dB, above
// 300Hz) against its predecessor's and flags a plosive onset when the
// level rises by at least PlosiveThresholdDb from a baseline that was
// itself below the threshold; a loud frame following another loud
// frame is sustained speech, not an onset.
func DetectPlosive(prevMeanDb, curMeanDb float64) bool {
	return prevMeanDb < PlosiveThresholdDb && curMeanDb-prevMeanDb >= PlosiveThresholdDb
}
