package dsp

import "testing"

func flatBlock(v byte) []byte {
	b := make([]byte, 4*BPS)
	for i := range b {
		b[i] = v
	}
	return b
}

func TestTransformOne_ZeroCoefficientsIsIdentity(t *testing.T) {
	dst := flatBlock(100)
	var in [16]int16
	TransformOne(in[:], dst)
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			if dst[j*BPS+i] != 100 {
				t.Fatalf("pixel (%d,%d) = %d, want 100", i, j, dst[j*BPS+i])
			}
		}
	}
}

func TestTransformOne_DCOnlyMatchesTransformDC(t *testing.T) {
	var in [16]int16
	in[0] = 123

	full := flatBlock(60)
	TransformOne(in[:], full)

	dc := flatBlock(60)
	TransformDC(in[:], dc)

	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			if full[j*BPS+i] != dc[j*BPS+i] {
				t.Fatalf("pixel (%d,%d): full = %d, dc = %d",
					i, j, full[j*BPS+i], dc[j*BPS+i])
			}
		}
	}
}

func TestTransformDC_RoundingAndClamp(t *testing.T) {
	var in [16]int16
	in[0] = 16 // (16+4)>>3 = 2
	dst := flatBlock(100)
	TransformDC(in[:], dst)
	if dst[0] != 102 {
		t.Errorf("dst[0] = %d, want 102", dst[0])
	}

	in[0] = 32767
	dst = flatBlock(200)
	TransformDC(in[:], dst)
	if dst[0] != 255 {
		t.Errorf("saturated dst[0] = %d, want 255", dst[0])
	}

	in[0] = -32768
	dst = flatBlock(50)
	TransformDC(in[:], dst)
	if dst[0] != 0 {
		t.Errorf("saturated dst[0] = %d, want 0", dst[0])
	}
}

func TestTransformAC3_MatchesTransformOne(t *testing.T) {
	// AC3 covers blocks with coefficients only at raster 0, 1 and 4.
	var in [16]int16
	in[0] = 40
	in[1] = -25
	in[4] = 17

	full := flatBlock(128)
	TransformOne(in[:], full)

	ac3 := flatBlock(128)
	TransformAC3(in[:], ac3)

	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			if full[j*BPS+i] != ac3[j*BPS+i] {
				t.Fatalf("pixel (%d,%d): full = %d, ac3 = %d",
					i, j, full[j*BPS+i], ac3[j*BPS+i])
			}
		}
	}
}

func TestTransformWHT_DCOnly(t *testing.T) {
	var in [16]int16
	in[0] = 8
	out := make([]int16, 16*16)
	TransformWHT(in[:], out)
	for i := 0; i < 16; i++ {
		if out[i*16] != 1 { // (8+3)>>3
			t.Errorf("DC %d = %d, want 1", i, out[i*16])
		}
	}
}

func TestTransformWHT_OutputStride(t *testing.T) {
	var in [16]int16
	for i := range in {
		in[i] = int16(i * 7)
	}
	out := make([]int16, 16*16)
	for i := range out {
		out[i] = -999
	}
	TransformWHT(in[:], out)
	for i, v := range out {
		if i%16 == 0 {
			continue
		}
		if v != -999 {
			t.Fatalf("out[%d] = %d: WHT wrote outside the DC slots", i, v)
		}
	}
}
