package lossy

import (
	"encoding/binary"
	stderrors "errors"

	"github.com/pkg/errors"

	"github.com/deepteams/webpdec/internal/bitio"
	"github.com/deepteams/webpdec/internal/container"
	"github.com/deepteams/webpdec/internal/dsp"
)

// Errors for VP8 frame-level failures. Container-level kinds are reused
// from the container package so that callers see a single closed set.
var (
	ErrColorSpace        = stderrors.New("webpdec: invalid color space")
	ErrVersionNumber     = stderrors.New("webpdec: invalid version number")
	ErrNotEnoughInitData = stderrors.New("webpdec: not enough initialization data")
	ErrInvalidParameter  = stderrors.New("webpdec: invalid parameter")
	ErrLumaModeInvalid   = stderrors.New("webpdec: invalid luma prediction mode")
	ErrChromaModeInvalid = stderrors.New("webpdec: invalid chroma prediction mode")
	ErrIntraModeInvalid  = stderrors.New("webpdec: invalid intra prediction mode")
)

// Scratch buffer geometry. One macroblock is reconstructed at a time in a
// BPS-strided buffer with a one-row top border and an 8-column left margin
// so that prediction can read its reference samples at fixed offsets.
const (
	yuvSize = dsp.BPS*17 + dsp.BPS*9
	yOff    = dsp.BPS*1 + 8
	uOff    = yOff + dsp.BPS*16 + dsp.BPS
	vOff    = uOff + 16
)

// FrameHeader holds the uncompressed frame tag (RFC 6386 9.1).
type FrameHeader struct {
	KeyFrame      bool
	Version       uint8
	Show          bool
	FirstPartSize uint32
}

// SegmentHeader holds segment-based quantizer and filter overrides
// (RFC 6386 9.3).
type SegmentHeader struct {
	UseSegment     bool
	UpdateMap      bool
	AbsoluteDelta  bool
	Quantizer      [NumMBSegments]int8
	FilterStrength [NumMBSegments]int8
}

// FilterHeader holds the loop-filter parameters (RFC 6386 9.4).
type FilterHeader struct {
	Simple      bool
	Level       int
	Sharpness   int
	UseLFDelta  bool
	RefLFDelta  [NumRefLFDeltas]int
	ModeLFDelta [NumModeLFDeltas]int
}

// quantMatrix holds the per-segment dequantization factors as [DC, AC]
// pairs (RFC 6386 9.6, 14.1).
type quantMatrix struct {
	y1 [2]int
	y2 [2]int
	uv [2]int
}

// mbContext carries the packed had-non-zero flags of one macroblock column
// (or the left sentinel) used to select coefficient contexts: four luma
// bits, two U bits and two V bits in nz, plus the Y2 DC bit.
type mbContext struct {
	nz   uint8
	nzDC uint8
}

// mbData is the parsed state of one macroblock awaiting reconstruction.
type mbData struct {
	coeffs    [384]int16 // (16 Y + 4 U + 4 V) blocks of 16
	yMode     uint8
	uvMode    uint8
	bModes    [16]uint8 // sub-block modes when yMode == BPred
	segment   uint8
	skip      bool   // skip flag from the bitstream
	coeffless bool   // true when no residual coefficient is non-zero
	nonZeroY  uint32 // 2-bit transform codes per luma sub-block
	nonZeroUV uint32 // 2-bit transform codes per chroma sub-block
}

// topSamples saves the bottom edge of a reconstructed macroblock row,
// before filtering, for prediction in the row below.
type topSamples struct {
	y [16]uint8
	u [8]uint8
	v [8]uint8
}

// filterInfo is the precomputed filter strength of one macroblock.
type filterInfo struct {
	limit     uint8
	ilevel    uint8
	hevThresh uint8
	inner     bool
}

// Frame is a decoded VP8 keyframe. The planes are padded to macroblock
// granularity: Y is mbW*16 by mbH*16, U and V are mbW*8 by mbH*8.
type Frame struct {
	Width, Height int
	Y, U, V       []byte
	YStride       int
	UVStride      int
}

// Decoder decodes a single VP8 keyframe. All state lives for one
// DecodeFrame call.
type Decoder struct {
	frmHdr    FrameHeader
	segHdr    SegmentHeader
	filterHdr FilterHeader

	width, height int
	mbW, mbH      int

	br    *bitio.BoolReader // partition 0: header and modes
	parts [MaxNumPartitions]*bitio.BoolReader
	nparts int

	proba       Proba
	useSkipProba bool
	skipProb     uint8

	dqm [NumMBSegments]quantMatrix

	filterType  int // 0 = off, 1 = simple, 2 = normal
	fstrengths  [NumMBSegments][2]filterInfo

	// Per-row state.
	intraT []uint8     // sub-block modes of the row above (4 per MB)
	intraL [4]uint8    // sub-block modes to the left
	mbInfo []mbContext // index 0 is the left sentinel
	mbData []mbData
	fInfo  []filterInfo
	yuvT   []topSamples

	yuvB      [yuvSize]byte
	dcScratch [16]int16

	frame Frame
}

// DecodeFrame decodes the VP8 chunk payload (frame tag included) into YUV
// planes.
func DecodeFrame(payload []byte) (*Frame, error) {
	d := &Decoder{}
	if err := d.parseHeaders(payload); err != nil {
		return nil, err
	}
	d.initFrame()
	d.precomputeFilterStrengths()
	if err := d.parseFrame(); err != nil {
		return nil, err
	}
	return &d.frame, nil
}

// parseHeaders reads the frame tag, picture header, and the compressed
// header from partition 0 (RFC 6386 9.1 - 9.11).
func (d *Decoder) parseHeaders(payload []byte) error {
	if len(payload) < container.VP8FrameHeaderSize {
		return errors.Wrap(container.ErrBufferUnderrun, "frame header")
	}

	tag := uint32(payload[0]) | uint32(payload[1])<<8 | uint32(payload[2])<<16
	d.frmHdr.KeyFrame = tag&1 == 0
	d.frmHdr.Version = uint8(tag >> 1 & 7)
	d.frmHdr.Show = tag>>4&1 != 0
	d.frmHdr.FirstPartSize = tag >> 5

	if !d.frmHdr.KeyFrame {
		return container.ErrNonKeyframe
	}
	if d.frmHdr.Version > 3 {
		return ErrVersionNumber
	}

	if payload[3] != 0x9d || payload[4] != 0x01 || payload[5] != 0x2a {
		var e container.VP8MagicError
		copy(e.Tag[:], payload[3:6])
		return e
	}
	d.width = int(binary.LittleEndian.Uint16(payload[6:8])) & container.MaxDimension
	d.height = int(binary.LittleEndian.Uint16(payload[8:10])) & container.MaxDimension
	if d.width == 0 || d.height == 0 {
		return container.ErrInvalidImageSize
	}
	d.mbW = (d.width + 15) >> 4
	d.mbH = (d.height + 15) >> 4

	buf := payload[container.VP8FrameHeaderSize:]
	partLen := int(d.frmHdr.FirstPartSize)
	if partLen > len(buf) {
		return errors.Wrap(ErrNotEnoughInitData, "mode partition")
	}
	d.br = bitio.NewBoolReader(buf[:partLen])
	tokenBuf := buf[partLen:]

	ResetProba(&d.proba)
	d.segHdr.AbsoluteDelta = true

	// Keyframe colour space and clamping type (RFC 6386 9.2).
	if d.br.GetFlag() {
		return ErrColorSpace
	}
	d.br.GetFlag() // clamping type: both values decode identically here

	d.parseSegmentHeader()
	d.parseFilterHeader()

	if err := d.parsePartitions(tokenBuf); err != nil {
		return err
	}

	d.parseQuant()

	// refresh_entropy_probs: always set on keyframes, value unused.
	d.br.GetFlag()

	d.parseProbaUpdates()

	if err := d.br.Check(); err != nil {
		return errors.Wrap(err, "frame header")
	}
	return nil
}

// parseSegmentHeader reads segmentation state (RFC 6386 9.3).
func (d *Decoder) parseSegmentHeader() {
	br := d.br
	hdr := &d.segHdr

	hdr.UseSegment = br.GetFlag()
	if !hdr.UseSegment {
		hdr.UpdateMap = false
		return
	}
	hdr.UpdateMap = br.GetFlag()
	if br.GetFlag() { // update segment feature data
		hdr.AbsoluteDelta = br.GetFlag()
		for s := 0; s < NumMBSegments; s++ {
			hdr.Quantizer[s] = int8(br.GetOptionalSignedValue(7))
		}
		for s := 0; s < NumMBSegments; s++ {
			hdr.FilterStrength[s] = int8(br.GetOptionalSignedValue(6))
		}
	}
	if hdr.UpdateMap {
		for s := 0; s < MBFeatureTreeProbs; s++ {
			if br.GetFlag() {
				d.proba.Segments[s] = br.GetValue(8)
			} else {
				d.proba.Segments[s] = 255
			}
		}
	}
}

// parseFilterHeader reads the loop-filter parameters (RFC 6386 9.4).
func (d *Decoder) parseFilterHeader() {
	br := d.br
	hdr := &d.filterHdr

	hdr.Simple = br.GetFlag()
	hdr.Level = int(br.GetValue(6))
	hdr.Sharpness = int(br.GetValue(3))
	hdr.UseLFDelta = br.GetFlag()
	if hdr.UseLFDelta && br.GetFlag() {
		for i := 0; i < NumRefLFDeltas; i++ {
			hdr.RefLFDelta[i] = int(br.GetOptionalSignedValue(6))
		}
		for i := 0; i < NumModeLFDeltas; i++ {
			hdr.ModeLFDelta[i] = int(br.GetOptionalSignedValue(6))
		}
	}

	switch {
	case hdr.Level == 0:
		d.filterType = 0
	case hdr.Simple:
		d.filterType = 1
	default:
		d.filterType = 2
	}
}

// parsePartitions locates the token partitions after partition 0
// (RFC 6386 9.5). Their 3-byte little-endian sizes precede the data; the
// last partition runs to the end of the payload.
func (d *Decoder) parsePartitions(buf []byte) error {
	d.nparts = 1 << d.br.GetValue(2)
	lastPart := d.nparts - 1

	if len(buf) < 3*lastPart {
		return errors.Wrap(ErrNotEnoughInitData, "partition sizes")
	}
	partStart := buf[lastPart*3:]
	sizes := buf
	for p := 0; p < lastPart; p++ {
		psize := int(sizes[0]) | int(sizes[1])<<8 | int(sizes[2])<<16
		if psize > len(partStart) {
			return errors.Wrapf(ErrNotEnoughInitData, "partition %d", p)
		}
		d.parts[p] = bitio.NewBoolReader(partStart[:psize])
		partStart = partStart[psize:]
		sizes = sizes[3:]
	}
	// A zero-length final partition is not an error here; truncation shows
	// up as a bitstream overflow during macroblock decoding.
	d.parts[lastPart] = bitio.NewBoolReader(partStart)
	return nil
}

// parseQuant reads the quantizer indices and fills the per-segment
// dequantization factors (RFC 6386 9.6, 14.1).
func (d *Decoder) parseQuant() {
	br := d.br
	baseQ := int(br.GetValue(7))
	dqy1DC := int(br.GetOptionalSignedValue(4))
	dqy2DC := int(br.GetOptionalSignedValue(4))
	dqy2AC := int(br.GetOptionalSignedValue(4))
	dquvDC := int(br.GetOptionalSignedValue(4))
	dquvAC := int(br.GetOptionalSignedValue(4))

	for s := 0; s < NumMBSegments; s++ {
		var q int
		if d.segHdr.UseSegment {
			q = int(d.segHdr.Quantizer[s])
			if !d.segHdr.AbsoluteDelta {
				q += baseQ
			}
		} else {
			if s > 0 {
				d.dqm[s] = d.dqm[0]
				continue
			}
			q = baseQ
		}

		m := &d.dqm[s]
		m.y1[0] = int(KDcTable[clip(q+dqy1DC, 127)])
		m.y1[1] = int(KAcTable[clip(q, 127)])

		m.y2[0] = int(KDcTable[clip(q+dqy2DC, 127)]) * 2
		// y2 AC: ac * 155 / 100, floor 8.
		m.y2[1] = int(KAcTable[clip(q+dqy2AC, 127)]) * 155 / 100
		if m.y2[1] < 8 {
			m.y2[1] = 8
		}

		m.uv[0] = int(KDcTable[clip(q+dquvDC, 117)])
		m.uv[1] = int(KAcTable[clip(q+dquvAC, 127)])
	}
}

// clip clamps v to [0, max].
func clip(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// initFrame allocates the reconstruction planes and per-row state.
func (d *Decoder) initFrame() {
	mbW := d.mbW

	d.frame.Width = d.width
	d.frame.Height = d.height
	d.frame.YStride = mbW * 16
	d.frame.UVStride = mbW * 8
	d.frame.Y = make([]byte, d.frame.YStride*d.mbH*16)
	d.frame.U = make([]byte, d.frame.UVStride*d.mbH*8)
	d.frame.V = make([]byte, d.frame.UVStride*d.mbH*8)

	d.intraT = make([]uint8, 4*mbW)
	for i := range d.intraT {
		d.intraT[i] = BDCPred
	}
	d.mbInfo = make([]mbContext, mbW+1)
	d.mbData = make([]mbData, mbW)
	d.fInfo = make([]filterInfo, mbW)
	d.yuvT = make([]topSamples, mbW)
}

// parseFrame runs the main decode loop: one macroblock row at a time,
// modes from partition 0, residuals from the row's token partition,
// then reconstruction and filtering.
func (d *Decoder) parseFrame() error {
	for mbY := 0; mbY < d.mbH; mbY++ {
		tokenBR := d.parts[mbY&(d.nparts-1)]

		d.parseIntraModeRow()

		d.initScanline()
		for mbX := 0; mbX < d.mbW; mbX++ {
			d.decodeMB(mbX, tokenBR)
		}

		if err := d.br.Check(); err != nil {
			return errors.Wrapf(err, "mode row %d", mbY)
		}
		if err := tokenBR.Check(); err != nil {
			return errors.Wrapf(err, "macroblock row %d", mbY)
		}

		d.reconstructRow(mbY)
		if d.filterType > 0 {
			d.filterRow(mbY)
		}
	}
	return nil
}

// initScanline resets the left-edge context at the start of a row.
func (d *Decoder) initScanline() {
	left := &d.mbInfo[0]
	left.nz = 0
	left.nzDC = 0
	for i := range d.intraL {
		d.intraL[i] = BDCPred
	}
}
