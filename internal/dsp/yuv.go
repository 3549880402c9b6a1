package dsp

// YUV 4:2:0 to RGB conversion using the BT.601 studio-range matrix:
//
//	r = clip((298*(y-16)           + 409*(v-128) + 128) >> 8)
//	g = clip((298*(y-16) - 100*(u-128) - 208*(v-128) + 128) >> 8)
//	b = clip((298*(y-16) + 516*(u-128)           + 128) >> 8)
//
// Chroma is upsampled by nearest-neighbour replication: each chroma sample
// covers a 2x2 luma square.

const (
	yScale = 298
	rV     = 409
	gU     = 100
	gV     = 208
	bU     = 516
)

// YUVToRGB converts one (y, u, v) triple and writes R, G, B to rgb[0:3].
func YUVToRGB(y, u, v int, rgb []byte) {
	y1 := yScale * (y - 16)
	cb := u - 128
	cr := v - 128
	rgb[0] = Clip8b((y1 + rV*cr + 128) >> 8)
	rgb[1] = Clip8b((y1 - gU*cb - gV*cr + 128) >> 8)
	rgb[2] = Clip8b((y1 + bU*cb + 128) >> 8)
}

// YUV420ToRGB converts planar 4:2:0 YUV to interleaved RGB, cropping the
// macroblock-padded planes to width by height. out must hold exactly
// width*height*3 bytes.
func YUV420ToRGB(yPlane []byte, yStride int, uPlane, vPlane []byte, uvStride, width, height int, out []byte) {
	di := 0
	for row := 0; row < height; row++ {
		yi := row * yStride
		ci := (row >> 1) * uvStride
		for col := 0; col < width; col++ {
			YUVToRGB(
				int(yPlane[yi+col]),
				int(uPlane[ci+(col>>1)]),
				int(vPlane[ci+(col>>1)]),
				out[di:di+3],
			)
			di += 3
		}
	}
}
