package codec2

import "errors"

// Sentinel errors returned by New and the per-frame encode/decode entry
// points. Callers compare with errors.Is.
var (
	// ErrUnsupportedMode is returned by New for a Mode value outside the
	// nine defined constants.
	ErrUnsupportedMode = errors.New("codec2: unsupported mode")

	// ErrShortSpeechBuffer is returned by Encode when the supplied speech
	// buffer is shorter than SamplesPerFrame.
	ErrShortSpeechBuffer = errors.New("codec2: speech buffer shorter than one frame")

	// ErrShortBitBuffer is returned by Encode/Decode when the supplied
	// packed-bit buffer is shorter than BitsPerFrame/8 bytes.
	ErrShortBitBuffer = errors.New("codec2: bit buffer shorter than one frame")

	// ErrShortBERBuffer is returned by Decode when a soft-decision buffer
	// installed with SetSoftDec doesn't match BitsPerFrame in length.
	ErrShortBERBuffer = errors.New("codec2: soft-decision buffer length mismatch")

	// ErrInvalidRateK is returned by SetUserRateK when k falls outside the
	// newamp pipeline's supported range.
	ErrInvalidRateK = errors.New("codec2: rate-K value out of range")

	// ErrInvalidPostFilter is returned by SetLpcPostFilter when beta or
	// gamma falls outside [0, 1].
	ErrInvalidPostFilter = errors.New("codec2: post-filter factor out of range")

	// ErrEncodeNotSupported is returned by Encode for a Mode that only
	// supports decoding (currently Mode450PWB, whose 16kHz wideband
	// encoder path the reference never shipped).
	ErrEncodeNotSupported = errors.New("codec2: encode not supported for this mode")

	// ErrPlanCreation wraps a failure constructing an FFT plan during New.
	ErrPlanCreation = errors.New("codec2: failed to create FFT plan")
)
