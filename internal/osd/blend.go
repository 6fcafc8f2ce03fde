package osd

import (
	"github.com/MeKo-Christian/osdcompositor/internal/format"
	"github.com/MeKo-Christian/osdcompositor/internal/imgbuf"
	"github.com/MeKo-Christian/osdcompositor/internal/repack"
)

// blend walks every dirty row band and slice, repacking video_overlay
// (or rgba_overlay), the destination, and chroma alpha into the
// per-slice float scratch buffers, applying the uniform
// "dst = overlay + dst*(1-alpha)" blend per plane, and repacking the
// result back into dst (spec.md §4.F).
func (c *Cache) blend(dst *imgbuf.Image) error {
	for y := 0; y < c.h; y += c.alignY {
		bandH := c.alignY
		if y+bandH > c.h {
			bandH = c.h - y
		}
		if err := c.blendBand(dst, y, bandH); err != nil {
			return err
		}
	}
	return nil
}

// blendBand processes one row band, one SliceW-wide column at a time,
// merging the per-row dirty extents recorded for every row the band
// covers into a single aligned [x0,x1) run before repacking — the dirty
// map is recorded per row, but the Blender (like the tiled Overlay
// Converter) must move whole alignY-tall bands at once.
func (c *Cache) blendBand(dst *imgbuf.Image, y, bandH int) error {
	overlaySrc := c.videoOverlay
	if overlaySrc == nil {
		overlaySrc = c.rgbaOverlay
	}

	columns := c.dirty.TileColumns()
	for sx := 0; sx < columns; sx++ {
		x0, x1 := -1, -1
		for dy := 0; dy < bandH; dy++ {
			s := c.dirty.RowSlice(y+dy, sx)
			if s.Empty() {
				continue
			}
			gx0 := sx*SliceW + s.X0
			gx1 := sx*SliceW + s.X1
			if x0 == -1 || gx0 < x0 {
				x0 = gx0
			}
			if gx1 > x1 {
				x1 = gx1
			}
		}
		if x0 == -1 {
			continue
		}
		x0 = floorTo(x0, c.alignX)
		x1 = ceilTo(x1, c.alignX)
		if x1 > c.w {
			x1 = c.w
		}
		w := x1 - x0
		if w <= 0 {
			continue
		}
		assertf(x0%c.alignX == 0 && w%c.alignX == 0, "osd: blend slice misaligned x0=%d w=%d", x0, w)

		if err := c.blendSlice(dst, overlaySrc, x0, y, w, bandH); err != nil {
			return err
		}
	}
	return nil
}

// blendSlice repacks one [x0,x0+w)x[y,y+bandH) run into the scratch
// buffers, blends it, and repacks the result back into dst.
func (c *Cache) blendSlice(dst, overlaySrc *imgbuf.Image, x0, y, w, bandH int) error {
	if err := c.overlayToF32.ConfigBuffers([4]int{}, c.overlayTmp, [4]int{}, overlaySrc); err != nil {
		return errorf("osd: binding overlay repack: %v", err)
	}
	for row := 0; row < bandH; row++ {
		if err := c.overlayToF32.Line(0, row, x0, y+row, w); err != nil {
			return errorf("osd: repacking overlay row: %v", err)
		}
	}

	if err := c.videoToF32.ConfigBuffers([4]int{}, c.videoTmp, [4]int{}, dst); err != nil {
		return errorf("osd: binding video repack: %v", err)
	}
	for row := 0; row < bandH; row++ {
		if err := c.videoToF32.Line(0, row, x0, y+row, w); err != nil {
			return errorf("osd: repacking video row: %v", err)
		}
	}

	if c.calphaOverlay != nil {
		xs, ys := c.videoOverlay.Desc.ChromaShiftX, c.videoOverlay.Desc.ChromaShiftY
		if err := c.calphaToF32.ConfigBuffers([4]int{}, c.calphaTmp, [4]int{}, c.calphaOverlay); err != nil {
			return errorf("osd: binding calpha repack: %v", err)
		}
		rows := (bandH + (1 << uint(ys)) - 1) >> uint(ys)
		cw := w >> uint(xs)
		for row := 0; row < rows; row++ {
			if err := c.calphaToF32.Line(0, row, x0>>uint(xs), (y>>uint(ys))+row, cw); err != nil {
				return errorf("osd: repacking calpha row: %v", err)
			}
		}
	}

	blendPlanes(c.videoTmp, c.overlayTmp, c.calphaTmp, w, bandH)

	if err := c.videoFromF32.ConfigBuffers([4]int{}, dst, [4]int{}, c.videoTmp); err != nil {
		return errorf("osd: binding video writeback: %v", err)
	}
	for row := 0; row < bandH; row++ {
		if err := c.videoFromF32.Line(x0, y+row, 0, row, w); err != nil {
			return errorf("osd: writing back video row: %v", err)
		}
	}
	return nil
}

// blendPlanes applies "dst = overlay + dst*(1-alpha)" per component of
// every plane. A plane whose own components include alpha blends
// against itself (the same prelerp identity AGG's RGBA8Prelerp uses for
// the alpha channel); every other plane draws its alpha either from its
// own (non-subsampled) share of overlay_tmp's dedicated alpha plane, or,
// when the plane is chroma-subsampled, from calpha_tmp.
func blendPlanes(videoTmp, overlayTmp, calphaTmp *imgbuf.Image, bandW, bandH int) {
	desc := videoTmp.Desc
	overlayAlphaPlane := overlayTmp.Desc.AlphaPlane()

	for p := 0; p < desc.PlaneCount; p++ {
		xs, ys := 0, 0
		if p > 0 {
			xs, ys = desc.ChromaShiftX, desc.ChromaShiftY
		}
		subsampled := xs != 0 || ys != 0
		pw := (bandW + (1 << uint(xs)) - 1) >> uint(xs)
		rows := (bandH + (1 << uint(ys)) - 1) >> uint(ys)

		comps := desc.Planes[p].Components
		alphaCompIdx := -1
		for ci, comp := range comps {
			if comp == format.CompA {
				alphaCompIdx = ci
			}
		}
		n := len(comps)

		for row := 0; row < rows; row++ {
			dstRow := videoTmp.PixelPointer(p, 0, row)
			ovRow := overlayTmp.PixelPointer(p, 0, row)

			var extAlphaRow []byte
			if alphaCompIdx < 0 {
				if subsampled && calphaTmp != nil {
					extAlphaRow = calphaTmp.PixelPointer(0, 0, row)
				} else {
					extAlphaRow = overlayTmp.PixelPointer(overlayAlphaPlane, 0, row)
				}
			}

			for x := 0; x < pw; x++ {
				var al float32
				if alphaCompIdx >= 0 {
					al = repack.GetFloatSample(ovRow, x*n+alphaCompIdx)
				} else {
					al = repack.GetFloatSample(extAlphaRow, x)
				}
				for ci := 0; ci < n; ci++ {
					idx := x*n + ci
					ov := repack.GetFloatSample(ovRow, idx)
					dv := repack.GetFloatSample(dstRow, idx)
					repack.PutFloatSample(dstRow, idx, ov+dv*(1-al))
				}
			}
		}
	}
}
