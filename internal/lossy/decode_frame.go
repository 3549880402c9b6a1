package lossy

import "github.com/deepteams/webpdec/internal/dsp"

// kScan maps the 16 luma sub-block indices to their offsets in the
// BPS-strided scratch buffer.
var kScan = [16]int{
	0 + 0*dsp.BPS, 4 + 0*dsp.BPS, 8 + 0*dsp.BPS, 12 + 0*dsp.BPS,
	0 + 4*dsp.BPS, 4 + 4*dsp.BPS, 8 + 4*dsp.BPS, 12 + 4*dsp.BPS,
	0 + 8*dsp.BPS, 4 + 8*dsp.BPS, 8 + 8*dsp.BPS, 12 + 8*dsp.BPS,
	0 + 12*dsp.BPS, 4 + 12*dsp.BPS, 8 + 12*dsp.BPS, 12 + 12*dsp.BPS,
}

// checkMode selects the DC prediction variant for macroblocks on the top
// or left image boundary, where one or both reference edges are absent.
func checkMode(mbX, mbY int, mode uint8) int {
	if mode != DCPred {
		return int(mode)
	}
	switch {
	case mbX == 0 && mbY == 0:
		return dsp.PredDCNoTopLeft
	case mbX == 0:
		return dsp.PredDCNoLeft
	case mbY == 0:
		return dsp.PredDCNoTop
	}
	return dsp.PredDC
}

// doTransform applies the inverse transform selected by a sub-block's
// 2-bit code from the residual parser.
func doTransform(code uint32, src []int16, dst []byte) {
	switch code >> 30 {
	case 3:
		dsp.TransformOne(src, dst)
	case 2:
		dsp.TransformAC3(src, dst)
	case 1:
		dsp.TransformDC(src, dst)
	}
}

// doUVTransform applies the inverse transforms of the four chroma
// sub-blocks of one plane, driven by their packed 2-bit codes.
func doUVTransform(codes uint32, src []int16, dst []byte) {
	if codes&0xff == 0 {
		return
	}
	if codes&0xaa != 0 {
		// At least one block has AC coefficients: full transforms.
		dsp.TransformOne(src[0:], dst[0:])
		dsp.TransformOne(src[16:], dst[4:])
		dsp.TransformOne(src[32:], dst[4*dsp.BPS:])
		dsp.TransformOne(src[48:], dst[4*dsp.BPS+4:])
		return
	}
	if src[0] != 0 {
		dsp.TransformDC(src[0:], dst[0:])
	}
	if src[16] != 0 {
		dsp.TransformDC(src[16:], dst[4:])
	}
	if src[32] != 0 {
		dsp.TransformDC(src[32:], dst[4*dsp.BPS:])
	}
	if src[48] != 0 {
		dsp.TransformDC(src[48:], dst[4*dsp.BPS+4:])
	}
}

// reconstructRow predicts and reconstructs every macroblock of row mbY in
// the scratch buffer, then copies the samples into the frame planes.
// Prediction context (left column, top row, top-right) comes from
// unfiltered neighbours: the scratch's left margin, and the top samples
// saved before the row above was filtered.
func (d *Decoder) reconstructRow(mbY int) {
	const bps = dsp.BPS
	buf := d.yuvB[:]

	// Left margin of the first macroblock: 129, per the spec's edge
	// substitution rule.
	for j := 0; j < 16; j++ {
		buf[yOff+j*bps-1] = 129
	}
	for j := 0; j < 8; j++ {
		buf[uOff+j*bps-1] = 129
		buf[vOff+j*bps-1] = 129
	}

	if mbY > 0 {
		buf[yOff-1-bps] = 129
		buf[uOff-1-bps] = 129
		buf[vOff-1-bps] = 129
	} else {
		// Top image boundary: the missing top row reads as 127. The luma
		// fill covers the top-right extension as well.
		fillBytes(buf[yOff-bps-1:], 127, 16+4+1)
		fillBytes(buf[uOff-bps-1:], 127, 8+1)
		fillBytes(buf[vOff-bps-1:], 127, 8+1)
	}

	for mbX := 0; mbX < d.mbW; mbX++ {
		block := &d.mbData[mbX]

		// Shift in the left context from the previous macroblock.
		if mbX > 0 {
			for j := -1; j < 16; j++ {
				copy(buf[yOff+j*bps-4:yOff+j*bps], buf[yOff+j*bps+12:yOff+j*bps+16])
			}
			for j := -1; j < 8; j++ {
				copy(buf[uOff+j*bps-4:uOff+j*bps], buf[uOff+j*bps+4:uOff+j*bps+8])
				copy(buf[vOff+j*bps-4:vOff+j*bps], buf[vOff+j*bps+4:vOff+j*bps+8])
			}
		}

		top := &d.yuvT[mbX]
		if mbY > 0 {
			copy(buf[yOff-bps:], top.y[:])
			copy(buf[uOff-bps:], top.u[:])
			copy(buf[vOff-bps:], top.v[:])
		}

		coeffs := block.coeffs[:]
		codes := block.nonZeroY

		if block.yMode == BPred {
			topRight := buf[yOff-bps+16:]
			if mbY > 0 {
				if mbX >= d.mbW-1 {
					// Right image boundary: replicate the last top pixel.
					fillBytes(topRight, top.y[15], 4)
				} else {
					copy(topRight[:4], d.yuvT[mbX+1].y[:4])
				}
			}
			// Sub-blocks in the rightmost column of rows 1..3 read their
			// top-right from the same four pixels.
			for r := 1; r <= 3; r++ {
				copy(topRight[r*4*bps:r*4*bps+4], topRight[:4])
			}

			for n := 0; n < 16; n++ {
				off := yOff + kScan[n]
				dsp.PredLuma4(int(block.bModes[n]), buf, off)
				doTransform(codes, coeffs[n*16:], buf[off:])
				codes <<= 2
			}
		} else {
			dsp.PredLuma16(checkMode(mbX, mbY, block.yMode), buf, yOff)
			if codes != 0 {
				for n := 0; n < 16; n++ {
					doTransform(codes, coeffs[n*16:], buf[yOff+kScan[n]:])
					codes <<= 2
				}
			}
		}

		uvMode := checkMode(mbX, mbY, block.uvMode)
		dsp.PredChroma8(uvMode, buf, uOff)
		dsp.PredChroma8(uvMode, buf, vOff)
		doUVTransform(block.nonZeroUV>>0, coeffs[16*16:], buf[uOff:])
		doUVTransform(block.nonZeroUV>>8, coeffs[20*16:], buf[vOff:])

		// Save this macroblock's bottom edge, pre-filtering, for the next
		// row's prediction.
		if mbY < d.mbH-1 {
			copy(top.y[:], buf[yOff+15*bps:yOff+15*bps+16])
			copy(top.u[:], buf[uOff+7*bps:uOff+7*bps+8])
			copy(top.v[:], buf[vOff+7*bps:vOff+7*bps+8])
		}

		// Transfer to the frame planes.
		yOut := d.frame.Y[mbY*16*d.frame.YStride+mbX*16:]
		uOut := d.frame.U[mbY*8*d.frame.UVStride+mbX*8:]
		vOut := d.frame.V[mbY*8*d.frame.UVStride+mbX*8:]
		for j := 0; j < 16; j++ {
			copy(yOut[j*d.frame.YStride:j*d.frame.YStride+16], buf[yOff+j*bps:yOff+j*bps+16])
		}
		for j := 0; j < 8; j++ {
			copy(uOut[j*d.frame.UVStride:j*d.frame.UVStride+8], buf[uOff+j*bps:uOff+j*bps+8])
			copy(vOut[j*d.frame.UVStride:j*d.frame.UVStride+8], buf[vOff+j*bps:vOff+j*bps+8])
		}
	}
}

// fillBytes writes n copies of v at the start of dst.
func fillBytes(dst []byte, v byte, n int) {
	for i := 0; i < n; i++ {
		dst[i] = v
	}
}
