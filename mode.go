package codec2

// Mode selects one of the nine defined bit rates, each with its own frame
// geometry, quantiser set and bit-packing layout. Values match
// CODEC2_MODE_* in the reference implementation so serialized mode
// numbers are portable.
type Mode int

const (
	Mode3200 Mode = iota
	Mode2400
	Mode1600
	Mode1400
	Mode1300
	Mode1200
	Mode700C
	Mode450
	Mode450PWB
)

func (m Mode) String() string {
	switch m {
	case Mode3200:
		return "3200"
	case Mode2400:
		return "2400"
	case Mode1600:
		return "1600"
	case Mode1400:
		return "1400"
	case Mode1300:
		return "1300"
	case Mode1200:
		return "1200"
	case Mode700C:
		return "700C"
	case Mode450:
		return "450"
	case Mode450PWB:
		return "450PWB"
	default:
		return "unknown"
	}
}

// modeInfo carries the per-mode constants the reference keeps in
// codec2_create/codec2_bits_per_frame/codec2_samples_per_frame: frame
// geometry, the number of 10ms analysis sub-frames packed per codec
// frame, and the bit-rate mode's packed size.
type modeInfo struct {
	fs            int
	bitsPerFrame  int
	nSamplesFrame int
	frameLengthS  float64
	subFrames     int
	rateK         bool // true for the newamp1/newamp2 rate-K pipeline
}

// Per-mode bitsPerFrame below is the sum of the mode's packed field
// widths (voicing bits + Wo/energy/LSP fields, see encode.go/decode.go);
// each total reproduces the mode's nominal bitrate exactly via
// bits_per_frame*Fs/samples_per_frame.
var modeTable = map[Mode]modeInfo{
	Mode3200:   {fs: 8000, bitsPerFrame: 64, nSamplesFrame: 160, frameLengthS: 0.01, subFrames: 2},
	Mode2400:   {fs: 8000, bitsPerFrame: 48, nSamplesFrame: 160, frameLengthS: 0.01, subFrames: 2},
	Mode1600:   {fs: 8000, bitsPerFrame: 64, nSamplesFrame: 320, frameLengthS: 0.01, subFrames: 4},
	Mode1400:   {fs: 8000, bitsPerFrame: 56, nSamplesFrame: 320, frameLengthS: 0.01, subFrames: 4},
	Mode1300:   {fs: 8000, bitsPerFrame: 52, nSamplesFrame: 320, frameLengthS: 0.01, subFrames: 4},
	Mode1200:   {fs: 8000, bitsPerFrame: 48, nSamplesFrame: 320, frameLengthS: 0.01, subFrames: 4},
	Mode700C:   {fs: 8000, bitsPerFrame: 28, nSamplesFrame: 320, frameLengthS: 0.01, subFrames: 4, rateK: true},
	Mode450:    {fs: 8000, bitsPerFrame: 18, nSamplesFrame: 320, frameLengthS: 0.01, subFrames: 4, rateK: true},
	Mode450PWB: {fs: 16000, bitsPerFrame: 18, nSamplesFrame: 640, frameLengthS: 0.01, subFrames: 4, rateK: true},
}

func lookupMode(m Mode) (modeInfo, error) {
	info, ok := modeTable[m]
	if !ok {
		return modeInfo{}, ErrUnsupportedMode
	}
	return info, nil
}
