package quant

import "math"

// WoEBits is WO_E_BITS: the combined index width of the joint Wo/energy
// quantiser used by classical modes 2400, 1400 and 1200, which
// predicts both quantities from the previous frame's reconstructed
// values via a first-order autoregressive model and then vector-quantises
// the (small) prediction residual, spending far fewer bits than
// independent scalar quantisation of Wo and energy would.
const WoEBits = 8

// arCoeff is the AR(1) prediction coefficient applied to both the log-Wo
// and dB-energy trajectories between frames.
const arCoeff = 0.8

const woEBook = 1 << WoEBits

// woEEntry is one residual codeword: a (log-Wo, dB-energy) pair.
type woEEntry struct {
	dWo, dE float64
}

// woECodebook is procedurally generated (see package doc) as a uniform
// grid over a plausible residual range, in place of a trained codebook.
var woECodebook = buildWoECodebook()

func buildWoECodebook() []woEEntry {
	const side = 16 // 16*16 = 256 = 1<<WoEBits
	book := make([]woEEntry, 0, woEBook)
	for i := 0; i < side; i++ {
		dWo := -0.5 + float64(i)/float64(side-1)
		for j := 0; j < side; j++ {
			dE := -15 + 30*float64(j)/float64(side-1)
			book = append(book, woEEntry{dWo: dWo, dE: dE})
		}
	}
	return book
}

// JointWoEState carries the AR(1) predictor's memory across frames. One
// instance belongs to exactly one encoder or decoder direction.
type JointWoEState struct {
	prevLogWo float64
	prevDbE   float64
}

// NewJointWoEState seeds the predictor at a representative mid-range
// pitch and low energy, so the first frame's prediction residual isn't
// pathological.
func NewJointWoEState(woMin, woMax float64) *JointWoEState {
	return &JointWoEState{
		prevLogWo: math.Log(math.Sqrt(woMin * woMax)),
		prevDbE:   10,
	}
}

// Encode predicts (logWo, dbE) from the AR(1) model, vector-quantises the
// residual against woECodebook, updates the predictor state from the
// *quantised* reconstruction (so encoder and decoder predictors never
// diverge), and returns the codeword index.
func (s *JointWoEState) Encode(wo, e float64) uint32 {
	logWo := math.Log(wo)
	dbE := energyToDb(e)

	predLogWo := arCoeff * s.prevLogWo
	predDbE := arCoeff * s.prevDbE

	resLogWo := logWo - predLogWo
	resDbE := dbE - predDbE

	best := uint32(0)
	bestDist := math.Inf(1)
	for i, c := range woECodebook {
		d := (resLogWo-c.dWo)*(resLogWo-c.dWo) + 0.01*(resDbE-c.dE)*(resDbE-c.dE)
		if d < bestDist {
			bestDist = d
			best = uint32(i)
		}
	}

	c := woECodebook[best]
	s.prevLogWo = predLogWo + c.dWo
	s.prevDbE = predDbE + c.dE

	return best
}

// PeekEnergy returns the energy Decode would reconstruct for index
// without advancing the predictor state, so a caller can extract frame
// energy from a packed frame it isn't going to decode.
func (s *JointWoEState) PeekEnergy(index uint32) float64 {
	if int(index) >= len(woECodebook) {
		index = 0
	}
	return dbToEnergy(arCoeff*s.prevDbE + woECodebook[index].dE)
}

// Decode inverts Encode, returning (wo, e) and advancing the predictor
// state identically to the encoder.
func (s *JointWoEState) Decode(index uint32) (wo, e float64) {
	if int(index) >= len(woECodebook) {
		index = 0
	}
	c := woECodebook[index]

	predLogWo := arCoeff * s.prevLogWo
	predDbE := arCoeff * s.prevDbE

	logWo := predLogWo + c.dWo
	dbE := predDbE + c.dE

	s.prevLogWo = logWo
	s.prevDbE = dbE

	return math.Exp(logWo), dbToEnergy(dbE)
}
