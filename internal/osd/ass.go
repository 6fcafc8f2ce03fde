package osd

import "github.com/MeKo-Christian/osdcompositor/internal/imgbuf"

// blendASSGlyph blends a monochrome 8-bit coverage bitmap, tinted by a
// single 0xRRGGBBAA color (the low byte an inverse alpha), into the
// BGRA premultiplied overlay (spec.md §4.B).
//
// The integer math is the same lerp-over-premultiplied shape as AGG's
// BlenderRGBAPre.BlendPix (internal/pixfmt/blender_rgba.go), but spec.md
// §4.B fixes the denominator at 255*255=65025 with truncating integer
// division rather than AGG's (x*257+128)>>16-style fixed-point
// approximation, so the arithmetic is reproduced exactly here instead
// of calling into color.RGBA8Prelerp.
func blendASSGlyph(overlay *imgbuf.Image, dirty *DirtyMap, x, y, w, h int, bitmap []byte, stride int, rgbaColor uint32) {
	r := byte(rgbaColor >> 24)
	g := byte(rgbaColor >> 16)
	b := byte(rgbaColor >> 8)
	a := 255 - byte(rgbaColor)

	for j := 0; j < h; j++ {
		srcRow := bitmap[j*stride : j*stride+w]
		dstRow := overlay.PixelPointer(0, x, y+j)
		for i := 0; i < w; i++ {
			v := uint32(srcRow[i])
			aa := uint32(a) * v
			inv := uint32(65025) - aa

			o := i * 4
			dB := uint32(dstRow[o+0])
			dG := uint32(dstRow[o+1])
			dR := uint32(dstRow[o+2])
			dA := uint32(dstRow[o+3])

			dstRow[o+0] = byte((v*uint32(b)*uint32(a) + dB*inv) / 65025)
			dstRow[o+1] = byte((v*uint32(g)*uint32(a) + dG*inv) / 65025)
			dstRow[o+2] = byte((v*uint32(r)*uint32(a) + dR*inv) / 65025)
			dstRow[o+3] = byte((aa*255 + dA*inv) / 65025)
		}
	}

	dirty.MarkRect(x, y, x+w, y+h)
}
