package bitio

import "testing"

// Reference decode of a short payload whose final chunk needs zero
// padding. The expected symbols pin the exact arithmetic of the decoder.
func TestBoolReader_ShortPayload(t *testing.T) {
	br := NewBoolReader([]byte("hel"))

	if got := br.GetFlag(); got != false {
		t.Errorf("GetFlag() = %v, want false", got)
	}
	if got := br.GetBit(10); got != 1 {
		t.Errorf("GetBit(10) = %d, want 1", got)
	}
	if got := br.GetBit(250); got != 0 {
		t.Errorf("GetBit(250) = %d, want 0", got)
	}
	if got := br.GetValue(1); got != 1 {
		t.Errorf("GetValue(1) = %d, want 1", got)
	}
	if got := br.GetValue(3); got != 5 {
		t.Errorf("GetValue(3) = %d, want 5", got)
	}
	if got := br.GetValue(8); got != 64 {
		t.Errorf("GetValue(8) = %d, want 64", got)
	}
	if got := br.GetValue(8); got != 185 {
		t.Errorf("GetValue(8) = %d, want 185", got)
	}
	if br.Overflow() {
		t.Error("unexpected overflow")
	}
	if err := br.Check(); err != nil {
		t.Errorf("Check() = %v, want nil", err)
	}
}

// Same prefix over a longer payload must decode identically, plus one more
// literal.
func TestBoolReader_LongPayload(t *testing.T) {
	br := NewBoolReader([]byte("hello world"))

	want := []struct {
		bits int
		v    uint8
	}{{1, 1}, {3, 5}, {8, 64}, {8, 185}, {8, 31}}

	if br.GetFlag() {
		t.Error("GetFlag() = true, want false")
	}
	if br.GetBit(10) != 1 || br.GetBit(250) != 0 {
		t.Fatal("probability-conditioned prefix mismatch")
	}
	for _, w := range want {
		if got := br.GetValue(w.bits); got != w.v {
			t.Errorf("GetValue(%d) = %d, want %d", w.bits, got, w.v)
		}
	}
	if br.Overflow() {
		t.Error("unexpected overflow")
	}
}

func TestBoolReader_EmptyPayloadOverflows(t *testing.T) {
	br := NewBoolReader(nil)
	br.GetFlag()
	if !br.Overflow() {
		t.Error("expected overflow after reading from empty payload")
	}
	if err := br.Check(); err == nil {
		t.Error("Check() = nil, want ErrBitStream")
	}
}

func TestBoolReader_OverflowSticks(t *testing.T) {
	br := NewBoolReader([]byte{0x42})
	for i := 0; i < 200; i++ {
		br.GetBit(128)
	}
	if !br.Overflow() {
		t.Fatal("expected overflow after draining a one-byte payload")
	}
	// Reads keep working (values undefined) and the flag never clears.
	br.GetFlag()
	br.GetSigned(3)
	if !br.Overflow() {
		t.Error("overflow flag cleared")
	}
}

// After every decoded symbol the range stays in [128, 255] and the bit
// count is non-negative (a refill runs before the next symbol otherwise).
func TestBoolReader_StateInvariants(t *testing.T) {
	data := []byte{
		0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0,
		0x0f, 0xed, 0xcb, 0xa9, 0x87, 0x65, 0x43, 0x21,
	}
	br := NewBoolReader(data)
	probs := []uint8{1, 10, 64, 128, 200, 250, 255}

	for i := 0; i < 100; i++ {
		br.GetBit(probs[i%len(probs)])
		if r := br.Range(); r < 128 || r > 255 {
			t.Fatalf("after symbol %d: range = %d, want [128, 255]", i, r)
		}
		if b := br.BitCount(); b < -32 || b > 63 {
			t.Fatalf("after symbol %d: bit count = %d out of range", i, b)
		}
	}
}

func TestBoolReader_GetSignedRoundTrip(t *testing.T) {
	// All-zero data decodes the value branch of GetSigned as positive.
	br := NewBoolReader(make([]byte, 8))
	if got := br.GetSigned(42); got != 42 {
		t.Errorf("GetSigned(42) = %d, want 42", got)
	}
	// All-ones data decodes as negative.
	br = NewBoolReader([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	if got := br.GetSigned(42); got != -42 {
		t.Errorf("GetSigned(42) = %d, want -42", got)
	}
}

func TestBoolReader_GetOptionalSignedValue(t *testing.T) {
	// A zero payload decodes the presence flag as 0, so the value is 0.
	br := NewBoolReader(make([]byte, 8))
	if got := br.GetOptionalSignedValue(6); got != 0 {
		t.Errorf("GetOptionalSignedValue(6) = %d, want 0", got)
	}
}

func TestBoolReader_GetTree(t *testing.T) {
	// Two-level tree over uniform probabilities: symbols 0..2.
	tree := []TreeNode{
		{Prob: 128, Left: TreeLeaf(0), Right: 1},
		{Prob: 128, Left: TreeLeaf(1), Right: TreeLeaf(2)},
	}

	// Zero data always decodes the 0 branch.
	br := NewBoolReader(make([]byte, 8))
	if got := br.GetTree(tree); got != 0 {
		t.Errorf("GetTree = %d, want 0", got)
	}
	// All-ones data walks right twice.
	br = NewBoolReader([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	if got := br.GetTree(tree); got != 2 {
		t.Errorf("GetTree = %d, want 2", got)
	}
}

func TestTreeLeafRoundTrip(t *testing.T) {
	for v := int8(0); v < 16; v++ {
		child := TreeLeaf(v)
		if child >= 0 {
			t.Fatalf("TreeLeaf(%d) = %d, want negative", v, child)
		}
		if got := LeafValue(child); got != v {
			t.Fatalf("LeafValue(TreeLeaf(%d)) = %d", v, got)
		}
	}
}
