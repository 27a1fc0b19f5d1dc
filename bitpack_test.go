package codec2

import "testing"

func TestBitWriterReaderRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	w := newBitWriter(buf)
	w.PutBits(0x5, 3)
	w.PutBits(0x2A, 7)
	w.PutBits(0x1, 1)

	r := newBitReader(buf)
	if got := r.GetBits(3); got != 0x5 {
		t.Fatalf("field 1 = %#x, want 0x5", got)
	}
	if got := r.GetBits(7); got != 0x2A {
		t.Fatalf("field 2 = %#x, want 0x2A", got)
	}
	if got := r.GetBits(1); got != 0x1 {
		t.Fatalf("field 3 = %#x, want 0x1", got)
	}
}

func TestGrayRoundTrip(t *testing.T) {
	for v := uint32(0); v < 256; v++ {
		if got := grayDecode(grayEncode(v)); got != v {
			t.Fatalf("grayDecode(grayEncode(%d)) = %d", v, got)
		}
	}
}

func TestGrayAdjacentValuesDifferByOneBit(t *testing.T) {
	for v := uint32(0); v < 255; v++ {
		diff := grayEncode(v) ^ grayEncode(v+1)
		if diff == 0 || diff&(diff-1) != 0 {
			t.Fatalf("gray(%d)^gray(%d) = %#x, want a single bit set", v, v+1, diff)
		}
	}
}

func TestSoftBitReaderMatchesHardDecisions(t *testing.T) {
	bits := []float32{1, -1, 1, 1, -1}
	r := newSoftBitReader(bits)
	if got := r.GetBits(5); got != 0b10110 {
		t.Fatalf("got %#b, want 0b10110", got)
	}
}
