package lossy

import "github.com/deepteams/webpdec/internal/dsp"

// In-loop deblocking filter (RFC 6386 15). All primitives take the full
// plane plus a base offset so that neighbour access across the edge
// resolves to non-negative indices. Filtering runs per macroblock row in
// raster order, after the row has been reconstructed.

// precomputeFilterStrengths derives the per-segment filter limits from the
// filter header (RFC 6386 15.1, 15.2).
func (d *Decoder) precomputeFilterStrengths() {
	if d.filterType == 0 {
		return
	}
	hdr := &d.filterHdr
	for s := 0; s < NumMBSegments; s++ {
		baseLevel := hdr.Level
		if d.segHdr.UseSegment {
			baseLevel = int(d.segHdr.FilterStrength[s])
			if !d.segHdr.AbsoluteDelta {
				baseLevel += hdr.Level
			}
		}

		for i4x4 := 0; i4x4 <= 1; i4x4++ {
			info := &d.fstrengths[s][i4x4]
			level := baseLevel
			if hdr.UseLFDelta {
				// Keyframes predict only from the intra frame.
				level += hdr.RefLFDelta[0]
				if i4x4 != 0 {
					level += hdr.ModeLFDelta[0]
				}
			}
			level = clip(level, 63)

			if level == 0 {
				*info = filterInfo{}
				info.inner = i4x4 != 0
				continue
			}

			ilevel := level
			if hdr.Sharpness > 0 {
				if hdr.Sharpness > 4 {
					ilevel >>= 2
				} else {
					ilevel >>= 1
				}
				if ilevel > 9-hdr.Sharpness {
					ilevel = 9 - hdr.Sharpness
				}
			}
			if ilevel < 1 {
				ilevel = 1
			}

			info.ilevel = uint8(ilevel)
			info.limit = uint8(2*level + ilevel)
			switch {
			case level >= 40:
				info.hevThresh = 2
			case level >= 15:
				info.hevThresh = 1
			default:
				info.hevThresh = 0
			}
			info.inner = i4x4 != 0
		}
	}
}

// filterRow filters every macroblock of row mbY.
func (d *Decoder) filterRow(mbY int) {
	for mbX := 0; mbX < d.mbW; mbX++ {
		d.filterMB(mbX, mbY)
	}
}

// filterMB filters one macroblock: left edge, inner vertical edges, top
// edge, inner horizontal edges, in that order. Chroma is filtered only by
// the normal filter.
func (d *Decoder) filterMB(mbX, mbY int) {
	info := &d.fInfo[mbX]
	limit := int(info.limit)
	if limit == 0 {
		return
	}
	ilevel := int(info.ilevel)
	yStride := d.frame.YStride
	yBase := mbY*16*yStride + mbX*16

	if d.filterType == 1 {
		if mbX > 0 {
			simpleHFilter16(d.frame.Y, yBase, yStride, limit+4)
		}
		if info.inner {
			simpleHFilter16i(d.frame.Y, yBase, yStride, limit)
		}
		if mbY > 0 {
			simpleVFilter16(d.frame.Y, yBase, yStride, limit+4)
		}
		if info.inner {
			simpleVFilter16i(d.frame.Y, yBase, yStride, limit)
		}
		return
	}

	uvStride := d.frame.UVStride
	uvBase := mbY*8*uvStride + mbX*8
	hev := int(info.hevThresh)

	if mbX > 0 {
		hFilter26(d.frame.Y, yBase, yStride, 16, limit+4, ilevel, hev)
		hFilter26(d.frame.U, uvBase, uvStride, 8, limit+4, ilevel, hev)
		hFilter26(d.frame.V, uvBase, uvStride, 8, limit+4, ilevel, hev)
	}
	if info.inner {
		for k := 1; k <= 3; k++ {
			hFilter24(d.frame.Y, yBase+k*4, yStride, 16, limit, ilevel, hev)
		}
		hFilter24(d.frame.U, uvBase+4, uvStride, 8, limit, ilevel, hev)
		hFilter24(d.frame.V, uvBase+4, uvStride, 8, limit, ilevel, hev)
	}
	if mbY > 0 {
		vFilter26(d.frame.Y, yBase, yStride, 16, limit+4, ilevel, hev)
		vFilter26(d.frame.U, uvBase, uvStride, 8, limit+4, ilevel, hev)
		vFilter26(d.frame.V, uvBase, uvStride, 8, limit+4, ilevel, hev)
	}
	if info.inner {
		for k := 1; k <= 3; k++ {
			vFilter24(d.frame.Y, yBase+k*4*yStride, yStride, 16, limit, ilevel, hev)
		}
		vFilter24(d.frame.U, uvBase+4*uvStride, uvStride, 8, limit, ilevel, hev)
		vFilter24(d.frame.V, uvBase+4*uvStride, uvStride, 8, limit, ilevel, hev)
	}
}

// ---------------------------------------------------------------------------
// Simple filter (luma only).
// ---------------------------------------------------------------------------

// simpleVFilter16 filters the horizontal edge above base across 16 columns.
func simpleVFilter16(p []byte, base, stride, thresh int) {
	thresh2 := 2*thresh + 1
	for i := 0; i < 16; i++ {
		off := base + i
		if needsFilter(p, off, stride, thresh2) {
			doFilter2(p, off, stride)
		}
	}
}

// simpleHFilter16 filters the vertical edge left of base across 16 rows.
func simpleHFilter16(p []byte, base, stride, thresh int) {
	thresh2 := 2*thresh + 1
	for j := 0; j < 16; j++ {
		off := base + j*stride
		if needsFilter(p, off, 1, thresh2) {
			doFilter2(p, off, 1)
		}
	}
}

func simpleVFilter16i(p []byte, base, stride, thresh int) {
	for k := 1; k <= 3; k++ {
		simpleVFilter16(p, base+k*4*stride, stride, thresh)
	}
}

func simpleHFilter16i(p []byte, base, stride, thresh int) {
	for k := 1; k <= 3; k++ {
		simpleHFilter16(p, base+k*4, stride, thresh)
	}
}

// ---------------------------------------------------------------------------
// Normal filter.
// ---------------------------------------------------------------------------

// vFilter26 filters a macroblock's top edge with the 6-tap kernel unless
// high edge variance selects the 2-tap one.
func vFilter26(p []byte, base, stride, width, thresh, ithresh, hevThresh int) {
	filterLoop26(p, base, stride, 1, width, thresh, ithresh, hevThresh)
}

// hFilter26 is the left-edge counterpart of vFilter26.
func hFilter26(p []byte, base, stride, height, thresh, ithresh, hevThresh int) {
	filterLoop26(p, base, 1, stride, height, thresh, ithresh, hevThresh)
}

// vFilter24 filters an inner horizontal edge with the 4-tap kernel.
func vFilter24(p []byte, base, stride, width, thresh, ithresh, hevThresh int) {
	filterLoop24(p, base, stride, 1, width, thresh, ithresh, hevThresh)
}

// hFilter24 is the inner vertical-edge counterpart of vFilter24.
func hFilter24(p []byte, base, stride, height, thresh, ithresh, hevThresh int) {
	filterLoop24(p, base, 1, stride, height, thresh, ithresh, hevThresh)
}

// filterLoop26 walks size pixels along the edge, filtering with DoFilter6
// or, under high edge variance, DoFilter2.
func filterLoop26(p []byte, base, hstride, vstride, size, thresh, ithresh, hevThresh int) {
	thresh2 := 2*thresh + 1
	for i := 0; i < size; i++ {
		off := base + i*vstride
		if needsFilter2(p, off, hstride, thresh2, ithresh) {
			if hev(p, off, hstride, hevThresh) {
				doFilter2(p, off, hstride)
			} else {
				doFilter6(p, off, hstride)
			}
		}
	}
}

// filterLoop24 is filterLoop26 with the 4-tap kernel on the low-variance
// path.
func filterLoop24(p []byte, base, hstride, vstride, size, thresh, ithresh, hevThresh int) {
	thresh2 := 2*thresh + 1
	for i := 0; i < size; i++ {
		off := base + i*vstride
		if needsFilter2(p, off, hstride, thresh2, ithresh) {
			if hev(p, off, hstride, hevThresh) {
				doFilter2(p, off, hstride)
			} else {
				doFilter4(p, off, hstride)
			}
		}
	}
}

// needsFilter is the simple-filter edge test over p1, p0, q0, q1.
func needsFilter(p []byte, off, step, thresh2 int) bool {
	p1 := int(p[off-2*step])
	p0 := int(p[off-step])
	q0 := int(p[off])
	q1 := int(p[off+step])
	return 4*abs(p0-q0)+abs(p1-q1) <= thresh2
}

// needsFilter2 is the normal-filter edge test over all eight pixels.
func needsFilter2(p []byte, off, step, thresh2, ithresh int) bool {
	p3 := int(p[off-4*step])
	p2 := int(p[off-3*step])
	p1 := int(p[off-2*step])
	p0 := int(p[off-step])
	q0 := int(p[off])
	q1 := int(p[off+step])
	q2 := int(p[off+2*step])
	q3 := int(p[off+3*step])
	if 4*abs(p0-q0)+abs(p1-q1) > thresh2 {
		return false
	}
	return abs(p3-p2) <= ithresh && abs(p2-p1) <= ithresh &&
		abs(p1-p0) <= ithresh && abs(q3-q2) <= ithresh &&
		abs(q2-q1) <= ithresh && abs(q1-q0) <= ithresh
}

// hev reports high edge variance at the edge.
func hev(p []byte, off, step, thresh int) bool {
	p1 := int(p[off-2*step])
	p0 := int(p[off-step])
	q0 := int(p[off])
	q1 := int(p[off+step])
	return abs(p1-p0) > thresh || abs(q1-q0) > thresh
}

// doFilter2 applies the 2-tap kernel: p0 and q0 move toward each other.
func doFilter2(p []byte, off, step int) {
	p1 := int(p[off-2*step])
	p0 := int(p[off-step])
	q0 := int(p[off])
	q1 := int(p[off+step])
	a := 3*(q0-p0) + dsp.Sclip1(p1-q1)
	a1 := dsp.Sclip2((a + 4) >> 3)
	a2 := dsp.Sclip2((a + 3) >> 3)
	p[off-step] = dsp.Clip1(p0 + a2)
	p[off] = dsp.Clip1(q0 - a1)
}

// doFilter4 applies the 4-tap kernel: p1, p0, q0, q1 all move.
func doFilter4(p []byte, off, step int) {
	p1 := int(p[off-2*step])
	p0 := int(p[off-step])
	q0 := int(p[off])
	q1 := int(p[off+step])
	a := 3 * (q0 - p0)
	a1 := dsp.Sclip2((a + 4) >> 3)
	a2 := dsp.Sclip2((a + 3) >> 3)
	a3 := (a1 + 1) >> 1
	p[off-2*step] = dsp.Clip1(p1 + a3)
	p[off-step] = dsp.Clip1(p0 + a2)
	p[off] = dsp.Clip1(q0 - a1)
	p[off+step] = dsp.Clip1(q1 - a3)
}

// doFilter6 applies the 6-tap kernel used on macroblock edges.
func doFilter6(p []byte, off, step int) {
	p2 := int(p[off-3*step])
	p1 := int(p[off-2*step])
	p0 := int(p[off-step])
	q0 := int(p[off])
	q1 := int(p[off+step])
	q2 := int(p[off+2*step])
	a := dsp.Sclip1(3*(q0-p0) + dsp.Sclip1(p1-q1))
	a1 := (27*a + 63) >> 7
	a2 := (18*a + 63) >> 7
	a3 := (9*a + 63) >> 7
	p[off-3*step] = dsp.Clip1(p2 + a3)
	p[off-2*step] = dsp.Clip1(p1 + a2)
	p[off-step] = dsp.Clip1(p0 + a1)
	p[off] = dsp.Clip1(q0 - a1)
	p[off+step] = dsp.Clip1(q1 - a2)
	p[off+2*step] = dsp.Clip1(q2 - a3)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
