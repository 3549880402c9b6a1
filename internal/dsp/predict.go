package dsp

// Intra prediction (RFC 6386 12.2, 12.3). Mode numbering follows the RFC:
// 16x16/chroma modes are DC, V, H, TM with the DC edge variants appended
// (no-top, no-left, no-top-left); 4x4 modes are DC, TM, VE, HE, LD, RD,
// VR, VL, HD, HU.

// 16x16 and chroma prediction modes with the DC edge variants, shared by
// PredLuma16 and PredChroma8.
const (
	PredDC          = 0
	PredV           = 1
	PredH           = 2
	PredTM          = 3
	PredDCNoTop     = 4
	PredDCNoLeft    = 5
	PredDCNoTopLeft = 6
)

// PredLuma16 predicts a 16x16 luma block in the given mode.
func PredLuma16(mode int, dst []byte, off int) {
	predSquare(mode, dst, off, 16)
}

// PredChroma8 predicts an 8x8 chroma block in the given mode.
func PredChroma8(mode int, dst []byte, off int) {
	predSquare(mode, dst, off, 8)
}

// predSquare implements the shared n by n whole-block modes.
func predSquare(mode int, dst []byte, off, n int) {
	switch mode {
	case PredDC:
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(dst[off+i-BPS]) + int(dst[off-1+i*BPS])
		}
		shift := uint(4)
		if n == 8 {
			shift = 3
		}
		fill(dst, off, n, uint8((sum+n)>>(shift+1)))
	case PredV:
		for j := 0; j < n; j++ {
			copy(dst[off+j*BPS:off+j*BPS+n], dst[off-BPS:off-BPS+n])
		}
	case PredH:
		for j := 0; j < n; j++ {
			row := dst[off+j*BPS : off+j*BPS+n]
			v := dst[off-1+j*BPS]
			for i := range row {
				row[i] = v
			}
		}
	case PredTM:
		tl := int(dst[off-1-BPS])
		for j := 0; j < n; j++ {
			base := int(dst[off-1+j*BPS]) - tl
			for i := 0; i < n; i++ {
				dst[off+i+j*BPS] = Clip8b(base + int(dst[off+i-BPS]))
			}
		}
	case PredDCNoTop:
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(dst[off-1+i*BPS])
		}
		shift := uint(4)
		if n == 8 {
			shift = 3
		}
		fill(dst, off, n, uint8((sum+n/2)>>shift))
	case PredDCNoLeft:
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(dst[off+i-BPS])
		}
		shift := uint(4)
		if n == 8 {
			shift = 3
		}
		fill(dst, off, n, uint8((sum+n/2)>>shift))
	case PredDCNoTopLeft:
		fill(dst, off, n, 128)
	}
}

// PredLuma4 predicts a 4x4 luma sub-block in the given mode
// (RFC intra_bmode order).
func PredLuma4(mode int, dst []byte, off int) {
	switch mode {
	case 0:
		dc4(dst, off)
	case 1:
		tm4(dst, off)
	case 2:
		ve4(dst, off)
	case 3:
		he4(dst, off)
	case 4:
		ld4(dst, off)
	case 5:
		rd4(dst, off)
	case 6:
		vr4(dst, off)
	case 7:
		vl4(dst, off)
	case 8:
		hd4(dst, off)
	case 9:
		hu4(dst, off)
	}
}

func dc4(dst []byte, off int) {
	sum := 4
	for i := 0; i < 4; i++ {
		sum += int(dst[off+i-BPS]) + int(dst[off-1+i*BPS])
	}
	fill(dst, off, 4, uint8(sum>>3))
}

func tm4(dst []byte, off int) {
	tl := int(dst[off-1-BPS])
	for j := 0; j < 4; j++ {
		base := int(dst[off-1+j*BPS]) - tl
		for i := 0; i < 4; i++ {
			dst[off+i+j*BPS] = Clip8b(base + int(dst[off+i-BPS]))
		}
	}
}

func ve4(dst []byte, off int) {
	tl := dst[off-1-BPS]
	t0 := dst[off+0-BPS]
	t1 := dst[off+1-BPS]
	t2 := dst[off+2-BPS]
	t3 := dst[off+3-BPS]
	t4 := dst[off+4-BPS]
	vals := [4]uint8{
		avg3(tl, t0, t1),
		avg3(t0, t1, t2),
		avg3(t1, t2, t3),
		avg3(t2, t3, t4),
	}
	for j := 0; j < 4; j++ {
		copy(dst[off+j*BPS:off+j*BPS+4], vals[:])
	}
}

func he4(dst []byte, off int) {
	tl := dst[off-1-BPS]
	l0 := dst[off-1+0*BPS]
	l1 := dst[off-1+1*BPS]
	l2 := dst[off-1+2*BPS]
	l3 := dst[off-1+3*BPS]
	vals := [4]uint8{
		avg3(tl, l0, l1),
		avg3(l0, l1, l2),
		avg3(l1, l2, l3),
		avg3(l2, l3, l3),
	}
	for j := 0; j < 4; j++ {
		v := vals[j]
		for i := 0; i < 4; i++ {
			dst[off+i+j*BPS] = v
		}
	}
}

func ld4(dst []byte, off int) {
	a := dst[off+0-BPS]
	b := dst[off+1-BPS]
	c := dst[off+2-BPS]
	d := dst[off+3-BPS]
	e := dst[off+4-BPS]
	f := dst[off+5-BPS]
	g := dst[off+6-BPS]
	h := dst[off+7-BPS]

	dst[off+0+0*BPS] = avg3(a, b, c)
	v1 := avg3(b, c, d)
	dst[off+1+0*BPS] = v1
	dst[off+0+1*BPS] = v1
	v2 := avg3(c, d, e)
	dst[off+2+0*BPS] = v2
	dst[off+1+1*BPS] = v2
	dst[off+0+2*BPS] = v2
	v3 := avg3(d, e, f)
	dst[off+3+0*BPS] = v3
	dst[off+2+1*BPS] = v3
	dst[off+1+2*BPS] = v3
	dst[off+0+3*BPS] = v3
	v4 := avg3(e, f, g)
	dst[off+3+1*BPS] = v4
	dst[off+2+2*BPS] = v4
	dst[off+1+3*BPS] = v4
	v5 := avg3(f, g, h)
	dst[off+3+2*BPS] = v5
	dst[off+2+3*BPS] = v5
	dst[off+3+3*BPS] = avg3(g, h, h)
}

func rd4(dst []byte, off int) {
	tl := dst[off-1-BPS]
	t0 := dst[off+0-BPS]
	t1 := dst[off+1-BPS]
	t2 := dst[off+2-BPS]
	t3 := dst[off+3-BPS]
	l0 := dst[off-1+0*BPS]
	l1 := dst[off-1+1*BPS]
	l2 := dst[off-1+2*BPS]
	l3 := dst[off-1+3*BPS]

	dst[off+0+3*BPS] = avg3(l3, l2, l1)
	v1 := avg3(l2, l1, l0)
	dst[off+0+2*BPS] = v1
	dst[off+1+3*BPS] = v1
	v2 := avg3(l1, l0, tl)
	dst[off+0+1*BPS] = v2
	dst[off+1+2*BPS] = v2
	dst[off+2+3*BPS] = v2
	v3 := avg3(l0, tl, t0)
	dst[off+0+0*BPS] = v3
	dst[off+1+1*BPS] = v3
	dst[off+2+2*BPS] = v3
	dst[off+3+3*BPS] = v3
	v4 := avg3(tl, t0, t1)
	dst[off+1+0*BPS] = v4
	dst[off+2+1*BPS] = v4
	dst[off+3+2*BPS] = v4
	v5 := avg3(t0, t1, t2)
	dst[off+2+0*BPS] = v5
	dst[off+3+1*BPS] = v5
	dst[off+3+0*BPS] = avg3(t1, t2, t3)
}

func vr4(dst []byte, off int) {
	tl := dst[off-1-BPS]
	t0 := dst[off+0-BPS]
	t1 := dst[off+1-BPS]
	t2 := dst[off+2-BPS]
	t3 := dst[off+3-BPS]
	l0 := dst[off-1+0*BPS]
	l1 := dst[off-1+1*BPS]
	l2 := dst[off-1+2*BPS]

	dst[off+0+0*BPS] = avg2(tl, t0)
	dst[off+1+0*BPS] = avg2(t0, t1)
	dst[off+2+0*BPS] = avg2(t1, t2)
	dst[off+3+0*BPS] = avg2(t2, t3)

	dst[off+0+1*BPS] = avg3(l0, tl, t0)
	dst[off+1+1*BPS] = avg3(tl, t0, t1)
	dst[off+2+1*BPS] = avg3(t0, t1, t2)
	dst[off+3+1*BPS] = avg3(t1, t2, t3)

	dst[off+0+2*BPS] = avg3(l1, l0, tl)
	dst[off+1+2*BPS] = dst[off+0+0*BPS]
	dst[off+2+2*BPS] = dst[off+1+0*BPS]
	dst[off+3+2*BPS] = dst[off+2+0*BPS]

	dst[off+0+3*BPS] = avg3(l2, l1, l0)
	dst[off+1+3*BPS] = dst[off+0+1*BPS]
	dst[off+2+3*BPS] = dst[off+1+1*BPS]
	dst[off+3+3*BPS] = dst[off+2+1*BPS]
}

func vl4(dst []byte, off int) {
	a := dst[off+0-BPS]
	b := dst[off+1-BPS]
	c := dst[off+2-BPS]
	d := dst[off+3-BPS]
	e := dst[off+4-BPS]
	f := dst[off+5-BPS]
	g := dst[off+6-BPS]
	h := dst[off+7-BPS]

	dst[off+0+0*BPS] = avg2(a, b)
	v1 := avg2(b, c)
	dst[off+1+0*BPS] = v1
	dst[off+0+2*BPS] = v1
	v2 := avg2(c, d)
	dst[off+2+0*BPS] = v2
	dst[off+1+2*BPS] = v2
	v3 := avg2(d, e)
	dst[off+3+0*BPS] = v3
	dst[off+2+2*BPS] = v3

	dst[off+0+1*BPS] = avg3(a, b, c)
	v4 := avg3(b, c, d)
	dst[off+1+1*BPS] = v4
	dst[off+0+3*BPS] = v4
	v5 := avg3(c, d, e)
	dst[off+2+1*BPS] = v5
	dst[off+1+3*BPS] = v5
	v6 := avg3(d, e, f)
	dst[off+3+1*BPS] = v6
	dst[off+2+3*BPS] = v6
	dst[off+3+2*BPS] = avg3(e, f, g)
	dst[off+3+3*BPS] = avg3(f, g, h)
}

func hd4(dst []byte, off int) {
	tl := dst[off-1-BPS]
	t0 := dst[off+0-BPS]
	t1 := dst[off+1-BPS]
	t2 := dst[off+2-BPS]
	l0 := dst[off-1+0*BPS]
	l1 := dst[off-1+1*BPS]
	l2 := dst[off-1+2*BPS]
	l3 := dst[off-1+3*BPS]

	dst[off+0+0*BPS] = avg2(tl, l0)
	dst[off+1+0*BPS] = avg3(l0, tl, t0)
	dst[off+2+0*BPS] = avg3(tl, t0, t1)
	dst[off+3+0*BPS] = avg3(t0, t1, t2)

	dst[off+0+1*BPS] = avg2(l0, l1)
	dst[off+1+1*BPS] = avg3(tl, l0, l1)
	dst[off+2+1*BPS] = dst[off+0+0*BPS]
	dst[off+3+1*BPS] = dst[off+1+0*BPS]

	dst[off+0+2*BPS] = avg2(l1, l2)
	dst[off+1+2*BPS] = avg3(l0, l1, l2)
	dst[off+2+2*BPS] = dst[off+0+1*BPS]
	dst[off+3+2*BPS] = dst[off+1+1*BPS]

	dst[off+0+3*BPS] = avg2(l2, l3)
	dst[off+1+3*BPS] = avg3(l1, l2, l3)
	dst[off+2+3*BPS] = dst[off+0+2*BPS]
	dst[off+3+3*BPS] = dst[off+1+2*BPS]
}

func hu4(dst []byte, off int) {
	l0 := dst[off-1+0*BPS]
	l1 := dst[off-1+1*BPS]
	l2 := dst[off-1+2*BPS]
	l3 := dst[off-1+3*BPS]

	dst[off+0+0*BPS] = avg2(l0, l1)
	dst[off+1+0*BPS] = avg3(l0, l1, l2)
	dst[off+2+0*BPS] = avg2(l1, l2)
	dst[off+3+0*BPS] = avg3(l1, l2, l3)

	dst[off+0+1*BPS] = dst[off+2+0*BPS]
	dst[off+1+1*BPS] = dst[off+3+0*BPS]
	dst[off+2+1*BPS] = avg2(l2, l3)
	dst[off+3+1*BPS] = avg3(l2, l3, l3)

	dst[off+0+2*BPS] = dst[off+2+1*BPS]
	dst[off+1+2*BPS] = dst[off+3+1*BPS]
	dst[off+2+2*BPS] = l3
	dst[off+3+2*BPS] = l3

	dst[off+0+3*BPS] = l3
	dst[off+1+3*BPS] = l3
	dst[off+2+3*BPS] = l3
	dst[off+3+3*BPS] = l3
}
