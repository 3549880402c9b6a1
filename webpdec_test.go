package webpdec_test

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/deepteams/webpdec"
)

// red2x2 is a 2x2 single-colour (red) lossy WebP produced by imagemagick.
var red2x2 = []byte{
	0x52, 0x49, 0x46, 0x46, 0x3c, 0x00, 0x00, 0x00, 0x57, 0x45, 0x42, 0x50,
	0x56, 0x50, 0x38, 0x20, 0x30, 0x00, 0x00, 0x00, 0xd0, 0x01, 0x00, 0x9d,
	0x01, 0x2a, 0x02, 0x00, 0x02, 0x00, 0x02, 0x00, 0x34, 0x25, 0xa0, 0x02,
	0x74, 0xba, 0x01, 0xf8, 0x00, 0x03, 0xb0, 0x00, 0xfe, 0xf0, 0xc4, 0x0b,
	0xff, 0x20, 0xb9, 0x61, 0x75, 0xc8, 0xd7, 0xff, 0x20, 0x3f, 0xe4, 0x07,
	0xfc, 0x80, 0xff, 0xf8, 0xf2, 0x00, 0x00, 0x00,
}

// red3x3 is the 3x3 variant of the same bitstream, exercising the odd
// right/bottom crop.
var red3x3 = func() []byte {
	b := bytes.Clone(red2x2)
	b[26], b[28] = 0x03, 0x03
	return b
}()

func TestDecoder_EmptyInput(t *testing.T) {
	_, err := webpdec.NewDecoder(nil)
	if !errors.Is(err, webpdec.ErrBufferUnderrun) && !errors.Is(err, webpdec.ErrInvalidSignature) {
		t.Errorf("err = %v, want buffer underrun or invalid signature", err)
	}
}

func TestDecoder_2x2SingleColour(t *testing.T) {
	dec, err := webpdec.NewDecoder(red2x2)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if w, h := dec.Dimensions(); w != 2 || h != 2 {
		t.Fatalf("Dimensions() = (%d, %d), want (2, 2)", w, h)
	}
	size, ok := dec.OutputBufferSize()
	if !ok || size != 12 {
		t.Fatalf("OutputBufferSize() = (%d, %v), want (12, true)", size, ok)
	}

	out := make([]byte, size)
	if err := dec.ReadImage(out); err != nil {
		t.Fatalf("ReadImage: %v", err)
	}

	first := out[:3]
	for p := 1; p < 4; p++ {
		if !bytes.Equal(out[3*p:3*p+3], first) {
			t.Fatalf("pixel %d = %v, want %v", p, out[3*p:3*p+3], first)
		}
	}
	// The source image is red.
	if first[0] <= first[1] || first[0] <= first[2] {
		t.Errorf("pixel = %v, want red-dominant", first)
	}
}

func TestDecoder_3x3SingleColour(t *testing.T) {
	dec, err := webpdec.NewDecoder(red3x3)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if w, h := dec.Dimensions(); w != 3 || h != 3 {
		t.Fatalf("Dimensions() = (%d, %d), want (3, 3)", w, h)
	}

	out := make([]byte, 3*3*3)
	if err := dec.ReadImage(out); err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	first := out[:3]
	for p := 1; p < 9; p++ {
		if !bytes.Equal(out[3*p:3*p+3], first) {
			t.Fatalf("pixel %d = %v, want %v", p, out[3*p:3*p+3], first)
		}
	}
}

func TestDecoder_WrongBufferLength(t *testing.T) {
	dec, err := webpdec.NewDecoder(red2x2)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	for _, n := range []int{0, 11, 13, 48} {
		if err := dec.ReadImage(make([]byte, n)); !errors.Is(err, webpdec.ErrImageTooLarge) {
			t.Errorf("len %d: err = %v, want ErrImageTooLarge", n, err)
		}
	}
}

func TestDecoder_Deterministic(t *testing.T) {
	dec, err := webpdec.NewDecoder(red2x2)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	a := make([]byte, 12)
	b := make([]byte, 12)
	if err := dec.ReadImage(a); err != nil {
		t.Fatalf("first ReadImage: %v", err)
	}
	if err := dec.ReadImage(b); err != nil {
		t.Fatalf("second ReadImage: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("repeated decodes differ")
	}
}

func TestDecoder_UnsupportedSubformats(t *testing.T) {
	vp8l := []byte("RIFF\x14\x00\x00\x00WEBPVP8L\x08\x00\x00\x00\x2f\x00\x00\x00\x00\x00\x00\x00")
	if _, err := webpdec.NewDecoder(vp8l); !errors.Is(err, webpdec.ErrLosslessUnsupported) {
		t.Errorf("VP8L: err = %v, want ErrLosslessUnsupported", err)
	}

	vp8x := []byte("RIFF\x14\x00\x00\x00WEBPVP8X\x0a\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	if _, err := webpdec.NewDecoder(vp8x); !errors.Is(err, webpdec.ErrExtendedUnsupported) {
		t.Errorf("VP8X: err = %v, want ErrExtendedUnsupported", err)
	}
}

// A header whose RIFF size is hostile and whose chunk is unknown must fail
// cleanly, with no panic or out-of-bounds access.
func TestDecoder_HostileHeader(t *testing.T) {
	data := []byte{
		0x52, 0x49, 0x46, 0x46, 0xaf, 0x37, 0x80, 0x47, 0x57, 0x45, 0x42, 0x50,
		0x6c, 0x64, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff, 0xfb, 0x7e, 0x73, 0x00,
		0x06, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05, 0x00, 0x00, 0x00,
		0x65, 0x65, 0x65, 0x65, 0x65, 0x65, 0x40, 0xfb, 0xff, 0xff, 0x65, 0x65,
		0x65, 0x65, 0x65, 0x65, 0x65, 0x65, 0x65, 0x65, 0x00, 0x00, 0x00, 0x00,
		0x62, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x49, 0x49, 0x54,
		0x55, 0x50, 0x4c, 0x54, 0x59, 0x50, 0x45, 0x33, 0x37, 0x44, 0x4d, 0x46,
	}
	if _, err := webpdec.NewDecoder(data); err == nil {
		t.Error("expected an error for a hostile header")
	}
}

// Truncating a valid file must either fail or decode a bit-identical
// image; silent corruption is not allowed.
func TestDecoder_TruncationNeverCorrupts(t *testing.T) {
	ref := make([]byte, 12)
	full, err := webpdec.NewDecoder(red2x2)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if err := full.ReadImage(ref); err != nil {
		t.Fatalf("ReadImage: %v", err)
	}

	for cut := 0; cut < len(red2x2); cut++ {
		dec, err := webpdec.NewDecoder(red2x2[:cut])
		if err != nil {
			continue
		}
		out := make([]byte, 12)
		if err := dec.ReadImage(out); err != nil {
			continue
		}
		if !bytes.Equal(out, ref) {
			t.Errorf("cut at %d: decode succeeded with different pixels", cut)
		}
	}
}

func TestImageDecode_Registered(t *testing.T) {
	img, kind, err := image.Decode(bytes.NewReader(red2x2))
	if err != nil {
		t.Fatalf("image.Decode: %v", err)
	}
	if kind != "webp" {
		t.Errorf("format = %q, want webp", kind)
	}
	ycbcr, ok := img.(*image.YCbCr)
	if !ok {
		t.Fatalf("image type = %T, want *image.YCbCr", img)
	}
	if b := ycbcr.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 2x2", b)
	}
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := webpdec.DecodeConfig(bytes.NewReader(red3x3))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 3 || cfg.Height != 3 {
		t.Errorf("config = %dx%d, want 3x3", cfg.Width, cfg.Height)
	}
}
