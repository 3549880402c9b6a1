package lossy

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/deepteams/webpdec/internal/bitio"
)

// vp8Payload2x2 is the VP8 chunk payload of a 2x2 single-colour image
// (imagemagick output), frame tag included.
var vp8Payload2x2 = []byte{
	0xd0, 0x01, 0x00, 0x9d, 0x01, 0x2a, 0x02, 0x00, 0x02, 0x00,
	0x02, 0x00, 0x34, 0x25, 0xa0, 0x02, 0x74, 0xba, 0x01, 0xf8,
	0x00, 0x03, 0xb0, 0x00, 0xfe, 0xf0, 0xc4, 0x0b, 0xff, 0x20,
	0xb9, 0x61, 0x75, 0xc8, 0xd7, 0xff, 0x20, 0x3f, 0xe4, 0x07,
	0xfc, 0x80, 0xff, 0xf8, 0xf2, 0x00, 0x00, 0x00,
}

func TestParseHeaders_FrameTag(t *testing.T) {
	d := &Decoder{}
	if err := d.parseHeaders(vp8Payload2x2); err != nil {
		t.Fatalf("parseHeaders: %v", err)
	}

	want := FrameHeader{
		KeyFrame:      true,
		Version:       0,
		Show:          true,
		FirstPartSize: 14,
	}
	if diff := cmp.Diff(want, d.frmHdr); diff != "" {
		t.Errorf("frame header mismatch (-want +got):\n%s", diff)
	}
	if d.width != 2 || d.height != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", d.width, d.height)
	}
	if d.mbW != 1 || d.mbH != 1 {
		t.Errorf("macroblock grid = %dx%d, want 1x1", d.mbW, d.mbH)
	}
	if d.nparts != 1 && d.nparts != 2 && d.nparts != 4 && d.nparts != 8 {
		t.Errorf("nparts = %d, want a power of two up to 8", d.nparts)
	}
}

func TestDecodeFrame_SingleColour2x2(t *testing.T) {
	frame, err := DecodeFrame(vp8Payload2x2)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if frame.Width != 2 || frame.Height != 2 {
		t.Fatalf("dimensions = %dx%d, want 2x2", frame.Width, frame.Height)
	}
	if frame.YStride != 16 || frame.UVStride != 8 {
		t.Errorf("strides = %d/%d, want 16/8", frame.YStride, frame.UVStride)
	}

	// A single-colour source decodes to uniform planes over the visible
	// region.
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			if frame.Y[j*frame.YStride+i] != frame.Y[0] {
				t.Errorf("Y(%d,%d) = %d, want %d", i, j, frame.Y[j*frame.YStride+i], frame.Y[0])
			}
		}
	}
}

func TestDecodeFrame_Truncated(t *testing.T) {
	// Removing payload bytes must produce an error, never a panic.
	for cut := 0; cut < len(vp8Payload2x2); cut++ {
		payload := vp8Payload2x2[:cut]
		if _, err := DecodeFrame(payload); err == nil {
			// Trailing truncation can still decode when the cut bytes
			// were never reached; that is acceptable.
			if cut < 24 {
				t.Errorf("cut at %d: expected an error", cut)
			}
		}
	}
}

func TestKZigzag_IsPermutation(t *testing.T) {
	var seen [16]bool
	for _, z := range KZigzag {
		if z >= 16 || seen[z] {
			t.Fatalf("KZigzag is not a permutation: %v", KZigzag)
		}
		seen[z] = true
	}
}

func TestKBands_Range(t *testing.T) {
	for i, b := range KBands {
		if b >= NumBands {
			t.Errorf("KBands[%d] = %d, out of range", i, b)
		}
	}
}

func TestBModeTree_LeafCoverage(t *testing.T) {
	// Every sub-block mode must be reachable exactly once as a leaf.
	var count [NumBModes]int
	for _, node := range kBModeTree {
		for _, child := range [2]int8{node.Left, node.Right} {
			if child < 0 {
				count[^child]++
			}
		}
	}
	for mode, c := range count {
		if c != 1 {
			t.Errorf("mode %d appears %d times as a leaf", mode, c)
		}
	}
}

func TestQuantTables_Anchors(t *testing.T) {
	// Spot-check the dequantization tables against spec values.
	if KDcTable[0] != 4 || KDcTable[10] != 13 || KDcTable[127] != 157 {
		t.Errorf("KDcTable anchors: %d %d %d", KDcTable[0], KDcTable[10], KDcTable[127])
	}
	if KAcTable[0] != 4 || KAcTable[10] != 14 || KAcTable[127] != 284 {
		t.Errorf("KAcTable anchors: %d %d %d", KAcTable[0], KAcTable[10], KAcTable[127])
	}
}

func TestParseQuant_ZeroIndex(t *testing.T) {
	// An all-zero bool stream decodes base index 0 with no deltas. The Y2
	// factors exercise both the DC doubling and the AC floor of 8.
	d := &Decoder{}
	d.segHdr.AbsoluteDelta = true
	d.br = bitio.NewBoolReader(make([]byte, 8))
	d.parseQuant()

	m := d.dqm[0]
	if m.y1 != [2]int{4, 4} {
		t.Errorf("y1 = %v, want [4 4]", m.y1)
	}
	if m.y2 != [2]int{8, 8} {
		t.Errorf("y2 = %v, want [8 8]", m.y2)
	}
	if m.uv != [2]int{4, 4} {
		t.Errorf("uv = %v, want [4 4]", m.uv)
	}
	// Without segmentation all segments share the base quantizer.
	if d.dqm[3] != m {
		t.Errorf("segment 3 = %v, want %v", d.dqm[3], m)
	}
}

func TestPrecomputeFilterStrengths(t *testing.T) {
	d := &Decoder{}
	d.filterHdr.Level = 10
	d.filterHdr.Sharpness = 0
	d.filterType = 2
	d.precomputeFilterStrengths()

	info := d.fstrengths[0][0]
	if info.ilevel != 10 {
		t.Errorf("ilevel = %d, want 10", info.ilevel)
	}
	if info.limit != 30 { // 2*level + ilevel
		t.Errorf("limit = %d, want 30", info.limit)
	}
	if info.hevThresh != 0 {
		t.Errorf("hevThresh = %d, want 0", info.hevThresh)
	}
	if info.inner {
		t.Error("whole-block mode must not force inner filtering")
	}
	if !d.fstrengths[0][1].inner {
		t.Error("B_PRED mode must force inner filtering")
	}

	// High levels raise the edge-variance threshold.
	d.filterHdr.Level = 45
	d.precomputeFilterStrengths()
	if d.fstrengths[0][0].hevThresh != 2 {
		t.Errorf("hevThresh = %d, want 2", d.fstrengths[0][0].hevThresh)
	}
}

func TestFilterFlatRegionUnchanged(t *testing.T) {
	// A perfectly flat plane has zero edge deltas; every kernel is the
	// identity there.
	d := &Decoder{}
	d.mbW, d.mbH = 2, 1
	d.frame.YStride = 32
	d.frame.UVStride = 16
	d.frame.Y = make([]byte, 32*16)
	d.frame.U = make([]byte, 16*8)
	d.frame.V = make([]byte, 16*8)
	for i := range d.frame.Y {
		d.frame.Y[i] = 100
	}
	for i := range d.frame.U {
		d.frame.U[i] = 100
		d.frame.V[i] = 100
	}
	d.filterType = 2
	d.fInfo = []filterInfo{
		{limit: 20, ilevel: 8, hevThresh: 0, inner: true},
		{limit: 20, ilevel: 8, hevThresh: 0, inner: true},
	}

	d.filterRow(0)

	for i, v := range d.frame.Y {
		if v != 100 {
			t.Fatalf("Y[%d] = %d after filtering a flat plane", i, v)
		}
	}
	for i := range d.frame.U {
		if d.frame.U[i] != 100 || d.frame.V[i] != 100 {
			t.Fatalf("chroma changed at %d", i)
		}
	}
}
