package lossy

import (
	"github.com/deepteams/webpdec/internal/bitio"
	"github.com/deepteams/webpdec/internal/dsp"
)

// getLargeValue decodes a coefficient magnitude greater than one
// (RFC 6386 13.2, the category sub-tree).
func getLargeValue(br *bitio.BoolReader, p *[NumProbas]uint8) int {
	var v int
	if br.GetBit(p[3]) == 0 {
		if br.GetBit(p[4]) == 0 {
			v = 2
		} else {
			v = 3 + br.GetBit(p[5])
		}
	} else if br.GetBit(p[6]) == 0 {
		if br.GetBit(p[7]) == 0 {
			// Category 1: 5..6.
			v = 5 + br.GetBit(159)
		} else {
			// Category 2: 7..10.
			v = 7 + 2*br.GetBit(165) + br.GetBit(145)
		}
	} else {
		// Categories 3..6, selected by two more bits; each category reads
		// a fixed number of extra magnitude bits.
		bit1 := br.GetBit(p[8])
		bit0 := br.GetBit(p[9+bit1])
		cat := 2*bit1 + bit0
		for _, prob := range kCat3456[cat] {
			v = v + v + br.GetBit(prob)
		}
		v += 3 + 8<<uint(cat)
	}
	return v
}

// getCoeffs decodes one 4x4 coefficient block starting at position first.
// probs is the band table for the block type, ctx the (left + above)
// had-non-zero context, dqDC/dqAC the dequantization factors. Dequantized
// coefficients land at their zig-zag positions in out. The return value is
// the position after the last decoded coefficient (first means the block is
// empty).
func getCoeffs(br *bitio.BoolReader, probs *[NumBands][NumCTX][NumProbas]uint8, ctx, dqDC, dqAC, first int, out []int16) int {
	n := first
	p := &probs[KBands[n]][ctx]
	for n < 16 {
		if br.GetBit(p[0]) == 0 {
			return n // end of block
		}

		// Run of zero coefficients.
		for br.GetBit(p[1]) == 0 {
			n++
			if n == 16 {
				return 16
			}
			p = &probs[KBands[n]][0]
		}

		var v, nextCtx int
		if br.GetBit(p[2]) == 0 {
			v = 1
			nextCtx = 1
		} else {
			v = getLargeValue(br, p)
			nextCtx = 2
		}

		dq := dqAC
		if n == 0 {
			dq = dqDC
		}
		out[KZigzag[n]] = int16(int(br.GetSigned(int32(v))) * dq)

		n++
		if n == 16 {
			return 16
		}
		p = &probs[KBands[n]][nextCtx]
	}
	return 16
}

// nzCodeBits appends the 2-bit transform code for one sub-block: 3 for a
// full inverse DCT, 2 when only the first three scan positions are
// populated, else the DC presence bit.
func nzCodeBits(codes uint32, nz, dcNz int) uint32 {
	codes <<= 2
	switch {
	case nz > 3:
		codes |= 3
	case nz > 1:
		codes |= 2
	default:
		codes |= uint32(dcNz)
	}
	return codes
}

// decodeMB parses the residuals of one macroblock from its token
// partition and records the filter strength for the filtering pass.
func (d *Decoder) decodeMB(mbX int, tokenBR *bitio.BoolReader) {
	left := &d.mbInfo[0]
	mb := &d.mbInfo[mbX+1]
	block := &d.mbData[mbX]

	if !block.skip {
		d.parseResiduals(mb, left, block, tokenBR)
		block.coeffless = block.nonZeroY == 0 && block.nonZeroUV == 0
	} else {
		left.nz = 0
		mb.nz = 0
		if block.yMode != BPred {
			left.nzDC = 0
			mb.nzDC = 0
		}
		block.nonZeroY = 0
		block.nonZeroUV = 0
		block.coeffless = true
	}

	if d.filterType > 0 {
		info := &d.fInfo[mbX]
		*info = d.fstrengths[block.segment][b2i(block.yMode == BPred)]
		info.inner = info.inner || !block.coeffless
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseResiduals decodes the Y2, luma and chroma coefficient blocks of one
// macroblock (RFC 6386 13.3) and updates the had-non-zero contexts.
func (d *Decoder) parseResiduals(mb, left *mbContext, block *mbData, tokenBR *bitio.BoolReader) {
	q := &d.dqm[block.segment]
	for i := range block.coeffs {
		block.coeffs[i] = 0
	}
	dst := block.coeffs[:]

	var first int
	var acProba *[NumBands][NumCTX][NumProbas]uint8

	if block.yMode != BPred {
		// The virtual Y2 block collects the luma DC coefficients.
		dc := &d.dcScratch
		for i := range dc {
			dc[i] = 0
		}
		ctx := int(mb.nzDC) + int(left.nzDC)
		nz := getCoeffs(tokenBR, &d.proba.Coeffs[1], ctx, q.y2[0], q.y2[1], 0, dc[:])
		if nz > 0 {
			mb.nzDC = 1
			left.nzDC = 1
		} else {
			mb.nzDC = 0
			left.nzDC = 0
		}
		if nz > 1 {
			dsp.TransformWHT(dc[:], dst)
		} else {
			// Only the Y2 DC is present: all sixteen outputs collapse to
			// the same rounded value.
			dc0 := int16((int(dc[0]) + 3) >> 3)
			for i := 0; i < 16*16; i += 16 {
				dst[i] = dc0
			}
		}
		first = 1
		acProba = &d.proba.Coeffs[0]
	} else {
		first = 0
		acProba = &d.proba.Coeffs[3]
	}

	var nonZeroY, nonZeroUV uint32

	// Luma sub-blocks.
	tnz := mb.nz & 0x0f
	lnz := left.nz & 0x0f
	for y := 0; y < 4; y++ {
		l := lnz & 1
		var codes uint32
		for x := 0; x < 4; x++ {
			ctx := int(l) + int(tnz&1)
			nz := getCoeffs(tokenBR, acProba, ctx, q.y1[0], q.y1[1], first, dst)
			if nz > first {
				l = 1
			} else {
				l = 0
			}
			tnz = tnz>>1 | l<<7
			dcNz := 0
			if dst[0] != 0 {
				dcNz = 1
			}
			codes = nzCodeBits(codes, nz, dcNz)
			dst = dst[16:]
		}
		tnz >>= 4
		lnz = lnz>>1 | l<<7
		nonZeroY = nonZeroY<<8 | codes
	}
	outTNz := tnz
	outLNz := lnz >> 4

	// Chroma sub-blocks: U then V, two rows of two.
	for ch := 0; ch < 4; ch += 2 {
		var codes uint32
		tnz = mb.nz >> (4 + uint(ch))
		lnz = left.nz >> (4 + uint(ch))
		for y := 0; y < 2; y++ {
			l := lnz & 1
			for x := 0; x < 2; x++ {
				ctx := int(l) + int(tnz&1)
				nz := getCoeffs(tokenBR, &d.proba.Coeffs[2], ctx, q.uv[0], q.uv[1], 0, dst)
				if nz > 0 {
					l = 1
				} else {
					l = 0
				}
				tnz = tnz>>1 | l<<3
				dcNz := 0
				if dst[0] != 0 {
					dcNz = 1
				}
				codes = nzCodeBits(codes, nz, dcNz)
				dst = dst[16:]
			}
			tnz >>= 2
			lnz = lnz>>1 | l<<5
		}
		nonZeroUV |= codes << uint(4*ch)
		outTNz |= (tnz << 4) << uint(ch)
		outLNz |= (lnz & 0xf0) << uint(ch)
	}

	mb.nz = outTNz
	left.nz = outLNz
	block.nonZeroY = nonZeroY
	block.nonZeroUV = nonZeroUV
}
