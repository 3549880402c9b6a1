// Package webpdec implements a decoder for simple lossy WebP still images:
// a RIFF/WebP container holding a single VP8 keyframe.
//
// The primary interface is [Decoder], which exposes the image dimensions
// and writes interleaved 8-bit RGB into a caller-supplied buffer. The
// package also registers itself with the standard library's image package,
// so image.Decode can read lossy WebP files transparently; those decodes
// return *image.YCbCr without a colour-space conversion.
//
// Lossless (VP8L) and extended (VP8X) files are recognised and rejected
// with [ErrLosslessUnsupported] and [ErrExtendedUnsupported].
package webpdec

import (
	"image"
	"image/color"
	"io"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/deepteams/webpdec/internal/container"
	"github.com/deepteams/webpdec/internal/dsp"
	"github.com/deepteams/webpdec/internal/lossy"
)

func init() {
	image.RegisterFormat("webp", "RIFF????WEBP", Decode, DecodeConfig)
}

const rgbBytesPerPixel = 3

// Decoder decodes one WebP file held in memory. It retains the container
// metadata and the compressed payload; each ReadImage call runs the full
// VP8 pipeline and is independent of previous calls.
type Decoder struct {
	width   int
	height  int
	payload []byte
}

// NewDecoder parses the RIFF/WebP container in data and returns a decoder
// for the VP8 keyframe it holds. The payload aliases data; the caller must
// not mutate it while the decoder is in use.
func NewDecoder(data []byte) (*Decoder, error) {
	frame, err := container.ParseWebP(data)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		width:   frame.Width,
		height:  frame.Height,
		payload: frame.Payload,
	}, nil
}

// Dimensions returns the image width and height in pixels.
func (d *Decoder) Dimensions() (width, height int) {
	return d.width, d.height
}

// OutputBufferSize returns the number of bytes ReadImage requires:
// width*height*3. ok is false if that product overflows int.
func (d *Decoder) OutputBufferSize() (size int, ok bool) {
	hi, lo := bits.Mul64(uint64(d.width), uint64(d.height))
	if hi != 0 {
		return 0, false
	}
	hi, lo = bits.Mul64(lo, rgbBytesPerPixel)
	if hi != 0 || lo > uint64(maxInt) {
		return 0, false
	}
	return int(lo), true
}

const maxInt = int(^uint(0) >> 1)

// ReadImage decodes the frame and writes interleaved R, G, B rows into
// out, which must be exactly OutputBufferSize bytes long.
func (d *Decoder) ReadImage(out []byte) error {
	size, ok := d.OutputBufferSize()
	if !ok {
		return ErrMemoryLimitExceeded
	}
	if len(out) != size {
		return ErrImageTooLarge
	}

	frame, err := lossy.DecodeFrame(d.payload)
	if err != nil {
		return err
	}

	dsp.YUV420ToRGB(frame.Y, frame.YStride, frame.U, frame.V, frame.UVStride,
		d.width, d.height, out)
	return nil
}

// readAll reads all of r. When r knows its length (e.g. *bytes.Reader) a
// single exact-sized allocation is used.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		if n := lr.Len(); n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Decode reads a lossy WebP image from r and returns it as *image.YCbCr
// (4:2:0), avoiding any colour-space conversion.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "webpdec: reading data")
	}
	dec, err := NewDecoder(data)
	if err != nil {
		return nil, err
	}
	frame, err := lossy.DecodeFrame(dec.payload)
	if err != nil {
		return nil, err
	}
	return buildYCbCr(dec.width, dec.height, frame), nil
}

// DecodeConfig returns the colour model and dimensions of a WebP image
// without decoding pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, errors.Wrap(err, "webpdec: reading data")
	}
	dec, err := NewDecoder(data)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.YCbCrModel,
		Width:      dec.width,
		Height:     dec.height,
	}, nil
}

// buildYCbCr copies the decoder's macroblock-padded planes into an
// image.YCbCr cropped to the image size.
func buildYCbCr(width, height int, frame *lossy.Frame) *image.YCbCr {
	chromaH := (height + 1) / 2

	yLen := height * frame.YStride
	cLen := chromaH * frame.UVStride
	buf := make([]byte, yLen+2*cLen)
	copy(buf[:yLen], frame.Y[:yLen])
	copy(buf[yLen:yLen+cLen], frame.U[:cLen])
	copy(buf[yLen+cLen:], frame.V[:cLen])

	return &image.YCbCr{
		Y:              buf[:yLen],
		Cb:             buf[yLen : yLen+cLen],
		Cr:             buf[yLen+cLen:],
		YStride:        frame.YStride,
		CStride:        frame.UVStride,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, width, height),
	}
}
