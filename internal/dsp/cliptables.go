package dsp

// Pre-computed clip lookup tables for the loop filter. Negative-index
// access is emulated through fixed offsets into oversized arrays; the
// ranges cover every intermediate value the filter arithmetic can produce.

const (
	sclip1Offset = 1020
	sclip2Offset = 112
	clip1Offset  = 255
)

var (
	sclip1Tab [2*sclip1Offset + 1]int8  // clips to [-128, 127]
	sclip2Tab [2*sclip2Offset + 1]int8  // clips to [-16, 15]
	clip1Tab  [clip1Offset + 511 + 1]uint8 // clips to [0, 255]
)

// Sclip1 clips v to [-128, 127].
func Sclip1(v int) int { return int(sclip1Tab[sclip1Offset+v]) }

// Sclip2 clips v to [-16, 15].
func Sclip2(v int) int { return int(sclip2Tab[sclip2Offset+v]) }

// Clip1 clips v to [0, 255].
func Clip1(v int) uint8 { return clip1Tab[clip1Offset+v] }

func init() {
	for i := -sclip1Offset; i <= sclip1Offset; i++ {
		v := i
		if v < -128 {
			v = -128
		} else if v > 127 {
			v = 127
		}
		sclip1Tab[sclip1Offset+i] = int8(v)
	}
	for i := -sclip2Offset; i <= sclip2Offset; i++ {
		v := i
		if v < -16 {
			v = -16
		} else if v > 15 {
			v = 15
		}
		sclip2Tab[sclip2Offset+i] = int8(v)
	}
	for i := -clip1Offset; i <= 511; i++ {
		v := i
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		clip1Tab[clip1Offset+i] = uint8(v)
	}
}
