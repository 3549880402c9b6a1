// Package lossy decodes VP8 keyframe bitstreams (RFC 6386).
//
// The package is organised the way the bitstream is: header parsing
// (decode.go), per-macroblock mode and residual decoding (decode_tree.go,
// decode_mb.go), reconstruction (decode_frame.go) and the in-loop
// deblocking filter (filter.go). All spec constant tables live here and in
// proba.go; they are immutable. ResetProba copies the default coefficient
// probabilities into the per-frame state at frame start.
package lossy

import "github.com/deepteams/webpdec/internal/bitio"

// Luma 16x16 / chroma prediction modes (RFC 6386 intra_mbmode order).
const (
	DCPred = 0
	VPred  = 1
	HPred  = 2
	TMPred = 3
	BPred  = 4 // luma only: per-subblock 4x4 modes
)

// 4x4 sub-block prediction modes (RFC 6386 intra_bmode order).
const (
	BDCPred = 0
	BTMPred = 1
	BVEPred = 2
	BHEPred = 3
	BLDPred = 4
	BRDPred = 5
	BVRPred = 6
	BVLPred = 7
	BHDPred = 8
	BHUPred = 9
	NumBModes = 10
)

// Segment, filter and probability dimensions.
const (
	NumMBSegments      = 4
	MBFeatureTreeProbs = 3
	NumRefLFDeltas     = 4
	NumModeLFDeltas    = 4
	MaxNumPartitions   = 8

	NumTypes  = 4 // 0: luma after Y2, 1: Y2, 2: chroma, 3: luma without Y2
	NumBands  = 8
	NumCTX    = 3
	NumProbas = 11
)

// leaf abbreviates the tree-leaf encoding for table literals.
func leaf(v int8) int8 { return bitio.TreeLeaf(v) }

// kYModeTreeKF decodes the luma mode of a keyframe macroblock
// (RFC 6386 11.2, kf_ymode_tree with kf_ymode_prob baked in).
var kYModeTreeKF = []bitio.TreeNode{
	{Prob: 145, Left: leaf(BPred), Right: 1},
	{Prob: 156, Left: 2, Right: 3},
	{Prob: 163, Left: leaf(DCPred), Right: leaf(VPred)},
	{Prob: 128, Left: leaf(HPred), Right: leaf(TMPred)},
}

// kUVModeTreeKF decodes the chroma mode (RFC 6386 11.2, uv_mode_tree with
// kf_uv_mode_prob baked in).
var kUVModeTreeKF = []bitio.TreeNode{
	{Prob: 142, Left: leaf(DCPred), Right: 1},
	{Prob: 114, Left: leaf(VPred), Right: 2},
	{Prob: 183, Left: leaf(HPred), Right: leaf(TMPred)},
}

// kBModeTree is the sub-block mode tree (RFC 6386 11.2, bmode_tree). Node
// probabilities come from KBModesProba indexed by the above/left sub-modes;
// node n reads probability n.
var kBModeTree = [9]bitio.TreeNode{
	{Left: leaf(BDCPred), Right: 1},
	{Left: leaf(BTMPred), Right: 2},
	{Left: leaf(BVEPred), Right: 3},
	{Left: 4, Right: 6},
	{Left: leaf(BHEPred), Right: 5},
	{Left: leaf(BRDPred), Right: leaf(BVRPred)},
	{Left: leaf(BLDPred), Right: 7},
	{Left: leaf(BVLPred), Right: 8},
	{Left: leaf(BHDPred), Right: leaf(BHUPred)},
}

// KZigzag maps coefficient read order to raster position in a 4x4 block.
var KZigzag = [16]uint8{
	0, 1, 4, 8, 5, 2, 3, 6, 9, 12, 13, 10, 7, 11, 14, 15,
}

// KBands maps a coefficient position to its probability band. The extra
// 17th entry covers the band lookup for position n+1 after a coefficient
// at position 15.
var KBands = [16 + 1]uint8{
	0, 1, 2, 3, 6, 4, 5, 6, 6, 6, 6, 6, 6, 6, 6, 7, 0,
}

// Extra-bit probability tables for the coefficient value categories
// (RFC 6386 13.2). Categories 1..6 cover values starting at 5, 7, 11, 19,
// 35 and 67; getLargeValue adds these bases.
var (
	KCat1 = [1]uint8{159}
	KCat2 = [2]uint8{165, 145}
	KCat3 = [3]uint8{173, 148, 140}
	KCat4 = [4]uint8{176, 155, 140, 135}
	KCat5 = [5]uint8{180, 157, 141, 134, 130}
	KCat6 = [11]uint8{254, 254, 243, 230, 196, 177, 153, 140, 133, 130, 129}
)

// kCat3456 groups the tables for categories 3..6, selected by two bits.
var kCat3456 = [4][]uint8{KCat3[:], KCat4[:], KCat5[:], KCat6[:]}

// KDcTable and KAcTable map a clamped quantizer index to dequantization
// factors (RFC 6386 14.1).
var KDcTable = [128]uint16{
	4, 5, 6, 7, 8, 9, 10, 10,
	11, 12, 13, 14, 15, 16, 17, 17,
	18, 19, 20, 20, 21, 21, 22, 22,
	23, 23, 24, 25, 25, 26, 27, 28,
	29, 30, 31, 32, 33, 34, 35, 36,
	37, 37, 38, 39, 40, 41, 42, 43,
	44, 45, 46, 46, 47, 48, 49, 50,
	51, 52, 53, 54, 55, 56, 57, 58,
	59, 60, 61, 62, 63, 64, 65, 66,
	67, 68, 69, 70, 71, 72, 73, 74,
	75, 76, 76, 77, 78, 79, 80, 81,
	82, 83, 84, 85, 86, 87, 88, 89,
	91, 93, 95, 96, 98, 100, 101, 102,
	104, 106, 108, 110, 112, 114, 116, 118,
	122, 124, 126, 128, 130, 132, 134, 136,
	138, 140, 143, 145, 148, 151, 154, 157,
}

var KAcTable = [128]uint16{
	4, 5, 6, 7, 8, 9, 10, 11,
	12, 13, 14, 15, 16, 17, 18, 19,
	20, 21, 22, 23, 24, 25, 26, 27,
	28, 29, 30, 31, 32, 33, 34, 35,
	36, 37, 38, 39, 40, 41, 42, 43,
	44, 45, 46, 47, 48, 49, 50, 51,
	52, 53, 54, 55, 56, 57, 58, 60,
	62, 64, 66, 68, 70, 72, 74, 76,
	78, 80, 82, 84, 86, 88, 90, 92,
	94, 96, 98, 100, 102, 104, 106, 108,
	110, 112, 114, 116, 119, 122, 125, 128,
	131, 134, 137, 140, 143, 146, 149, 152,
	155, 158, 161, 164, 167, 170, 173, 177,
	181, 185, 189, 193, 197, 201, 205, 209,
	213, 217, 221, 225, 229, 234, 239, 245,
	249, 254, 259, 264, 269, 274, 279, 284,
}
