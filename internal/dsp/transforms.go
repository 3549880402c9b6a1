package dsp

// Inverse transforms (RFC 6386 14.3, 14.4). The fixed-point constants are
// the spec values cos(pi/8)*sqrt(2)*2^16 - 2^16 and sin(pi/8)*sqrt(2)*2^16.

const (
	cospi8sqrt2minus1 = 20091
	sinpi8sqrt2       = 35468
)

// mul1 computes a * (cospi8sqrt2minus1/65536 + 1).
func mul1(a int) int {
	return ((a * cospi8sqrt2minus1) >> 16) + a
}

// mul2 computes a * sinpi8sqrt2/65536.
func mul2(a int) int {
	return (a * sinpi8sqrt2) >> 16
}

// store adds (x >> 3) to the prediction at dst[off] with saturation.
func store(dst []byte, off, x int) {
	dst[off] = Clip8b(int(dst[off]) + (x >> 3))
}

// TransformOne applies a single 4x4 inverse DCT to in (16 coefficients in
// raster order) and adds the result to the prediction at dst with stride
// BPS. All intermediate arithmetic is signed 32-bit; the final rounding is
// (x + 4) >> 3 folded into the horizontal pass DC.
func TransformOne(in []int16, dst []byte) {
	_ = in[15]
	_ = dst[3+3*BPS]

	var tmp [16]int
	for i := 0; i < 4; i++ {
		a := int(in[i]) + int(in[8+i])
		b := int(in[i]) - int(in[8+i])
		c := mul2(int(in[4+i])) - mul1(int(in[12+i]))
		d := mul1(int(in[4+i])) + mul2(int(in[12+i]))
		tmp[i] = a + d
		tmp[4+i] = b + c
		tmp[8+i] = b - c
		tmp[12+i] = a - d
	}
	for j := 0; j < 4; j++ {
		dc := tmp[4*j] + 4
		a := dc + tmp[4*j+2]
		b := dc - tmp[4*j+2]
		c := mul2(tmp[4*j+1]) - mul1(tmp[4*j+3])
		d := mul1(tmp[4*j+1]) + mul2(tmp[4*j+3])
		off := j * BPS
		store(dst, off+0, a+d)
		store(dst, off+1, b+c)
		store(dst, off+2, b-c)
		store(dst, off+3, a-d)
	}
}

// TransformDC applies the DC-only inverse transform: every sample gets the
// same rounded DC contribution.
func TransformDC(in []int16, dst []byte) {
	add := (int(in[0]) + 4) >> 3
	_ = dst[3+3*BPS]
	for j := 0; j < 4; j++ {
		off := j * BPS
		dst[off+0] = Clip8b(int(dst[off+0]) + add)
		dst[off+1] = Clip8b(int(dst[off+1]) + add)
		dst[off+2] = Clip8b(int(dst[off+2]) + add)
		dst[off+3] = Clip8b(int(dst[off+3]) + add)
	}
}

// TransformAC3 is the inverse transform for blocks whose only non-zero
// coefficients are at scan positions 0, 1 and 2 (raster 0, 1 and 4).
func TransformAC3(in []int16, dst []byte) {
	a := int(in[0]) + 4
	c4 := mul2(int(in[4]))
	d4 := mul1(int(in[4]))
	c1 := mul2(int(in[1]))
	d1 := mul1(int(in[1]))

	_ = dst[3+3*BPS]
	rows := [4]int{a + d4, a + c4, a - c4, a - d4}
	for j, r := range rows {
		off := j * BPS
		store(dst, off+0, r+d1)
		store(dst, off+1, r+c1)
		store(dst, off+2, r-c1)
		store(dst, off+3, r-d1)
	}
}

// TransformWHT applies the inverse Walsh-Hadamard transform to the Y2
// block. The 16 outputs land at stride 16 in out, seeding the DC
// coefficient of each luma sub-block's coefficient slot.
func TransformWHT(in []int16, out []int16) {
	var tmp [16]int
	for i := 0; i < 4; i++ {
		a0 := int(in[0+i]) + int(in[12+i])
		a1 := int(in[4+i]) + int(in[8+i])
		a2 := int(in[4+i]) - int(in[8+i])
		a3 := int(in[0+i]) - int(in[12+i])
		tmp[0+i] = a0 + a1
		tmp[8+i] = a0 - a1
		tmp[4+i] = a3 + a2
		tmp[12+i] = a3 - a2
	}
	for i := 0; i < 4; i++ {
		dc := tmp[4*i+0] + 3
		a0 := dc + tmp[4*i+3]
		a1 := tmp[4*i+1] + tmp[4*i+2]
		a2 := tmp[4*i+1] - tmp[4*i+2]
		a3 := dc - tmp[4*i+3]
		base := i * 4 * 16
		out[base+0*16] = int16((a0 + a1) >> 3)
		out[base+1*16] = int16((a3 + a2) >> 3)
		out[base+2*16] = int16((a0 - a1) >> 3)
		out[base+3*16] = int16((a3 - a2) >> 3)
	}
}
