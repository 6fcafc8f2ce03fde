package osd

import "github.com/MeKo-Christian/osdcompositor/internal/imgbuf"

// stageRGBA clips, scales (once, then caches), and straight-alpha-over
// blends an external BGRA bitmap into rgba_overlay (spec.md §4.C).
func (c *Cache) stageRGBA(partIndex, bitmapIndex int, changeID int64, p RGBAPart) error {
	x0 := p.X
	y0 := p.Y
	x1 := p.X + p.DW
	y1 := p.Y + p.DH
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > c.params.W {
		x1 = c.params.W
	}
	if y1 > c.params.H {
		y1 = c.params.H
	}
	dw, dh := x1-x0, y1-y0
	if dw <= 0 || dh <= 0 {
		return nil
	}

	fx := float64(p.DW) / float64(p.W)
	fy := float64(p.DH) / float64(p.H)
	sx := clampF(float64(x0-p.X)/fx, 0, float64(p.W))
	sy := clampF(float64(y0-p.Y)/fy, 0, float64(p.H))
	sw := clampI(int(float64(dw)/fx), 1, p.W)
	sh := clampI(int(float64(dh)/fy), 1, p.H)

	var source *imgbuf.Image
	if dw == sw && dh == sh {
		source = imgbuf.WrapBGRA(p.Bitmap, p.Stride, int(sx), int(sy), sw, sh)
	} else {
		entry := c.parts.get(partIndex, changeID)
		cached, ok := entry.scaled[bitmapIndex]
		if !ok {
			clipped := imgbuf.WrapBGRA(p.Bitmap, p.Stride, int(sx), int(sy), sw, sh)
			scaled, err := imgbuf.AllocBGRA(dw, dh)
			if err != nil {
				return errorf("osd: allocating scaled RGBA part: %v", err)
			}
			if err := c.rgbaScaler.Scale(scaled, clipped); err != nil {
				return errorf("osd: scaling RGBA part: %v", err)
			}
			entry.scaled[bitmapIndex] = scaled
			cached = scaled
		}
		source = cached
	}

	blendOverPremul(c.rgbaOverlay, x0, y0, source)
	c.dirty.MarkRect(x0, y0, x1, y1)
	return nil
}

// blendOverPremul implements spec.md §4.C's straight "over premul"
// blend: D.c = S.c + D.c*(65025 - S.A*255)/65025 for each channel.
func blendOverPremul(dst *imgbuf.Image, x0, y0 int, src *imgbuf.Image) {
	for j := 0; j < src.Params.H; j++ {
		srow := src.PixelPointer(0, 0, j)
		drow := dst.PixelPointer(0, x0, y0+j)
		for i := 0; i < src.Params.W; i++ {
			o := i * 4
			sA := srow[o+3]
			inv := uint32(65025) - uint32(sA)*255
			drow[o+0] = byte(uint32(srow[o+0]) + uint32(drow[o+0])*inv/65025)
			drow[o+1] = byte(uint32(srow[o+1]) + uint32(drow[o+1])*inv/65025)
			drow[o+2] = byte(uint32(srow[o+2]) + uint32(drow[o+2])*inv/65025)
			drow[o+3] = byte(uint32(srow[o+3]) + uint32(drow[o+3])*inv/65025)
		}
	}
}
