package container

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// header builds a RIFF/WEBP wrapper around a single chunk.
func header(fourcc string, chunkSize uint32, body []byte) []byte {
	data := []byte("RIFF\x00\x00\x00\x00WEBP")
	data = append(data, fourcc...)
	data = append(data,
		byte(chunkSize), byte(chunkSize>>8), byte(chunkSize>>16), byte(chunkSize>>24))
	return append(data, body...)
}

// vp8Body returns a minimal valid 10-byte VP8 frame header.
func vp8Body(width, height uint16) []byte {
	return []byte{
		0x00, 0x00, 0x00, // keyframe tag
		0x9d, 0x01, 0x2a, // start code
		byte(width), byte(width >> 8),
		byte(height), byte(height >> 8),
	}
}

func TestParseWebP_ValidVP8(t *testing.T) {
	body := vp8Body(2, 2)
	frame, err := ParseWebP(header("VP8 ", uint32(len(body)), body))
	if err != nil {
		t.Fatalf("ParseWebP: %v", err)
	}
	want := Frame{Width: 2, Height: 2, Payload: body}
	if diff := cmp.Diff(want, frame); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWebP_DimensionMasking(t *testing.T) {
	// The top two bits of each dimension are scaling hints, not size.
	body := vp8Body(0x4000|640, 0x8000|480)
	frame, err := ParseWebP(header("VP8 ", uint32(len(body)), body))
	if err != nil {
		t.Fatalf("ParseWebP: %v", err)
	}
	if frame.Width != 640 || frame.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", frame.Width, frame.Height)
	}
}

func TestParseWebP_ChunkDispatch(t *testing.T) {
	tests := []struct {
		fourcc  string
		wantErr error
	}{
		{"VP8L", ErrLosslessUnsupported},
		{"VP8X", ErrExtendedUnsupported},
	}
	for _, tc := range tests {
		_, err := ParseWebP(header(tc.fourcc, 10, make([]byte, 10)))
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: err = %v, want %v", tc.fourcc, err, tc.wantErr)
		}
	}

	// Any other FourCC is an invalid chunk header carrying the tag.
	_, err := ParseWebP(header("ICCP", 10, make([]byte, 10)))
	var che ChunkHeaderError
	if !errors.As(err, &che) {
		t.Fatalf("ICCP: err = %v, want ChunkHeaderError", err)
	}
	if string(che.FourCC[:]) != "ICCP" {
		t.Errorf("FourCC = %q, want ICCP", che.FourCC[:])
	}
}

func TestParseWebP_Failures(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrBufferUnderrun},
		{"not riff", []byte("JUNKDATAJUNK"), ErrInvalidSignature},
		{"riff only", []byte("RIFF\x04\x00\x00\x00WEBP"), ErrBufferUnderrun},
		{"non-keyframe", header("VP8 ", 10, []byte{0x01, 0, 0, 0x9d, 0x01, 0x2a, 2, 0, 2, 0}), ErrNonKeyframe},
		{"zero width", header("VP8 ", 10, vp8Body(0, 2)), ErrInvalidImageSize},
		{"zero height", header("VP8 ", 10, vp8Body(2, 0)), ErrInvalidImageSize},
		{"short chunk", header("VP8 ", 4, []byte{0, 0, 0, 0}), ErrInvalidChunkSize},
		{"declared size beyond data", header("VP8 ", 100, vp8Body(2, 2)), ErrBufferUnderrun},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseWebP(tc.data)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseWebP_BadMagic(t *testing.T) {
	body := vp8Body(2, 2)
	body[3] = 0x9c
	_, err := ParseWebP(header("VP8 ", uint32(len(body)), body))
	var e VP8MagicError
	if !errors.As(err, &e) {
		t.Fatalf("err = %v, want VP8MagicError", err)
	}
	if e.Tag != [3]byte{0x9c, 0x01, 0x2a} {
		t.Errorf("Tag = %v", e.Tag)
	}
}
