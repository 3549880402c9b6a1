package lossy

import "github.com/deepteams/webpdec/internal/bitio"

// kYModeToBMode maps a whole-block luma mode to the sub-block mode it
// contributes as prediction context for a neighbouring B_PRED macroblock.
var kYModeToBMode = [4]uint8{BDCPred, BVEPred, BHEPred, BTMPred}

// parseProbaUpdates reads the coefficient probability updates and the skip
// probability from partition 0 (RFC 6386 9.9, 9.11, 13.4).
func (d *Decoder) parseProbaUpdates() {
	br := d.br
	for t := 0; t < NumTypes; t++ {
		for b := 0; b < NumBands; b++ {
			for c := 0; c < NumCTX; c++ {
				for p := 0; p < NumProbas; p++ {
					if br.GetBit(KCoeffsUpdateProba[t][b][c][p]) != 0 {
						d.proba.Coeffs[t][b][c][p] = br.GetValue(8)
					}
				}
			}
		}
	}

	d.useSkipProba = br.GetFlag()
	if d.useSkipProba {
		d.skipProb = br.GetValue(8)
	}
}

// parseIntraModeRow parses segment ids, skip flags and prediction modes
// for one macroblock row from partition 0 (RFC 6386 11).
func (d *Decoder) parseIntraModeRow() {
	for mbX := 0; mbX < d.mbW; mbX++ {
		d.parseIntraMode(mbX)
	}
}

// parseIntraMode parses the mode information of a single macroblock.
func (d *Decoder) parseIntraMode(mbX int) {
	br := d.br
	top := d.intraT[4*mbX : 4*mbX+4]
	block := &d.mbData[mbX]

	if d.segHdr.UpdateMap {
		block.segment = uint8(d.readSegment())
	} else {
		block.segment = 0
	}

	if d.useSkipProba {
		block.skip = br.GetBit(d.skipProb) != 0
	} else {
		block.skip = false
	}

	block.yMode = uint8(br.GetTree(kYModeTreeKF))
	if block.yMode == BPred {
		// Sub-block modes, each conditioned on the modes above and to
		// the left (RFC 6386 11.4).
		for y := 0; y < 4; y++ {
			left := d.intraL[y]
			for x := 0; x < 4; x++ {
				mode := readBMode(br, &KBModesProba[top[x]][left])
				left = mode
				top[x] = mode
				block.bModes[4*y+x] = mode
			}
			d.intraL[y] = left
		}
	} else {
		bMode := kYModeToBMode[block.yMode]
		for i := 0; i < 4; i++ {
			top[i] = bMode
			d.intraL[i] = bMode
		}
	}

	block.uvMode = uint8(br.GetTree(kUVModeTreeKF))
}

// readSegment decodes a segment id with the per-frame segment tree
// probabilities.
func (d *Decoder) readSegment() int8 {
	br := d.br
	p := &d.proba.Segments
	if br.GetBit(p[0]) == 0 {
		return int8(br.GetBit(p[1]))
	}
	return int8(br.GetBit(p[2])) + 2
}

// readBMode walks the sub-block mode tree with the context-selected
// probability set.
func readBMode(br *bitio.BoolReader, probs *[NumBModes - 1]uint8) uint8 {
	i := int8(0)
	for {
		node := kBModeTree[i]
		var child int8
		if br.GetBit(probs[i]) != 0 {
			child = node.Right
		} else {
			child = node.Left
		}
		if child < 0 {
			return uint8(bitio.LeafValue(child))
		}
		i = child
	}
}
