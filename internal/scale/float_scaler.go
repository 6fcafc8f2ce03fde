package scale

import (
	"github.com/MeKo-Christian/osdcompositor/internal/color"
	"github.com/MeKo-Christian/osdcompositor/internal/format"
	"github.com/MeKo-Christian/osdcompositor/internal/imgbuf"
)

// FloatScaler is the "one backend privileged" for alpha-aware
// conversions (spec.md §6): same-size straight<->premultiplied
// conversion for the Premul Wrap, BGRA8-premultiplied-to-video
// colorspace conversion for the Overlay Converter, and single-plane
// gray resampling for the chroma-alpha downsample. It works in double
// precision the way AGG's ImageFilterLUT computes weights in float64
// before quantizing back to integer samples.
type FloatScaler struct{}

func NewFloatScaler() *FloatScaler { return &FloatScaler{} }

func (s *FloatScaler) Alloc() error { return nil }

func (s *FloatScaler) Supports(dst, src format.ID) bool {
	if dst == src {
		return true
	}
	if src == format.BGRA8 {
		_, ok := format.Lookup(dst)
		return ok && dst != format.NV12
	}
	return false
}

func (s *FloatScaler) Scale(dst, src *imgbuf.Image) error {
	sameSize := dst.Params.W == src.Params.W && dst.Params.H == src.Params.H
	switch {
	case dst.Params.Format == src.Params.Format && sameSize && dst.Params.Alpha != src.Params.Alpha:
		return premulConvert(dst, src)
	case dst.Params.Format == src.Params.Format && sameSize:
		return copySamePlanes(dst, src)
	case dst.Params.Format == src.Params.Format:
		return resampleSameFormat(dst, src)
	case src.Params.Format == format.BGRA8:
		return convertBGRAToVideo(dst, src)
	default:
		return errUnsupported
	}
}

// premulConvert converts a BGRA8 image between straight and
// premultiplied alpha in place of a copy, the operation spec.md §4.G's
// Premul Wrap drives twice per frame (dst->premul_tmp, premul_tmp->dst).
func premulConvert(dst, src *imgbuf.Image) error {
	if dst.Params.Format != format.BGRA8 {
		return errUnsupported
	}
	w, h := dst.Params.W, dst.Params.H
	toPremul := dst.Params.Alpha == imgbuf.AlphaPremultiplied
	for y := 0; y < h; y++ {
		srow := src.PixelPointer(0, 0, y)
		drow := dst.PixelPointer(0, 0, y)
		for x := 0; x < w; x++ {
			o := x * 4
			b, g, r, a := srow[o], srow[o+1], srow[o+2], srow[o+3]
			if toPremul {
				drow[o+0] = byte(uint32(b) * uint32(a) / 255)
				drow[o+1] = byte(uint32(g) * uint32(a) / 255)
				drow[o+2] = byte(uint32(r) * uint32(a) / 255)
				drow[o+3] = a
			} else if a == 0 {
				drow[o+0], drow[o+1], drow[o+2], drow[o+3] = 0, 0, 0, 0
			} else {
				drow[o+0] = byte(clampI(int(uint32(b)*255/uint32(a)), 0, 255))
				drow[o+1] = byte(clampI(int(uint32(g)*255/uint32(a)), 0, 255))
				drow[o+2] = byte(clampI(int(uint32(r)*255/uint32(a)), 0, 255))
				drow[o+3] = a
			}
		}
	}
	alpha := dst.Params.Alpha
	dst.CopyAttributes(src)
	dst.Params.Alpha = alpha
	return nil
}

// copySamePlanes is the identity "scale": same format, same size, used
// by any pipeline stage that needs a format-preserving copy.
func copySamePlanes(dst, src *imgbuf.Image) error {
	for p := 0; p < dst.Desc.PlaneCount; p++ {
		bpp := len(dst.Desc.Planes[p].Components) * dst.Desc.CompSize
		rowBytes := dst.PlaneW[p] * bpp
		for y := 0; y < dst.PlaneH[p]; y++ {
			copy(dst.PixelPointer(p, 0, y)[:rowBytes], src.PixelPointer(p, 0, y)[:rowBytes])
		}
	}
	dst.CopyAttributes(src)
	return nil
}

// resampleSameFormat resamples a single-plane image to a new size
// using nearest-center sampling, grounding the chroma-alpha downsample
// (alpha_overlay -> calpha_overlay) spec.md §4.E step 8 requires.
func resampleSameFormat(dst, src *imgbuf.Image) error {
	if dst.Desc.PlaneCount != 1 {
		return errUnsupported
	}
	fx := float64(src.Params.W) / float64(dst.Params.W)
	fy := float64(src.Params.H) / float64(dst.Params.H)
	for y := 0; y < dst.Params.H; y++ {
		sy := clampI(int((float64(y)+0.5)*fy), 0, src.Params.H-1)
		drow := dst.PixelPointer(0, 0, y)
		srow := src.PixelPointer(0, 0, sy)
		for x := 0; x < dst.Params.W; x++ {
			sx := clampI(int((float64(x)+0.5)*fx), 0, src.Params.W-1)
			drow[x] = srow[sx]
		}
	}
	dst.CopyAttributes(src)
	return nil
}

// convertBGRAToVideo converts a premultiplied BGRA8 overlay into the
// video colorspace overlay format (spec.md §4.D), deriving the straight
// color from the premultiplied source before applying the RGB<->YUV
// matrix, then re-premultiplying every output plane by alpha so the
// Blender's uniform `dst = overlay + dst*(1-alpha)` formula (§4.F) is
// correct for every plane including chroma.
func convertBGRAToVideo(dst, src *imgbuf.Image) error {
	w, h := dst.Params.W, dst.Params.H
	if src.Params.W != w || src.Params.H != h {
		return errUnsupported
	}
	if dst.Desc.PlaneCount < 3 {
		return errUnsupported
	}
	coef := matrixFor(dst.Params.Matrix)
	limited := dst.Params.Range == imgbuf.RangeLimited
	lumaRS := color.LumaRangeScale(limited)
	chromaRS := color.ChromaRangeScale(limited)
	hasAlpha := dst.Desc.HasAlpha
	ap := dst.Desc.AlphaPlane()

	if !dst.Desc.Subsampled() {
		for y := 0; y < h; y++ {
			srow := src.PixelPointer(0, 0, y)
			for x := 0; x < w; x++ {
				yy, u, v, af := bgraToYUVPremul(srow, x, coef)
				setSample(dst, 0, x, y, yy, lumaRS)
				setSample(dst, 1, x, y, u, chromaRS)
				setSample(dst, 2, x, y, v, chromaRS)
				if hasAlpha {
					setSample(dst, ap, x, y, af, color.FullRangeScale())
				}
			}
		}
		dst.Params.Alpha = imgbuf.AlphaPremultiplied
		return nil
	}

	xs, ys := dst.Desc.ChromaShiftX, dst.Desc.ChromaShiftY
	cw, ch := dst.PlaneW[1], dst.PlaneH[1]
	usum := make([]float64, cw*ch)
	vsum := make([]float64, cw*ch)
	count := make([]int, cw*ch)
	for y := 0; y < h; y++ {
		srow := src.PixelPointer(0, 0, y)
		cy := y >> uint(ys)
		for x := 0; x < w; x++ {
			yy, u, v, af := bgraToYUVPremul(srow, x, coef)
			setSample(dst, 0, x, y, yy, lumaRS)
			if hasAlpha {
				setSample(dst, ap, x, y, af, color.FullRangeScale())
			}
			cx := x >> uint(xs)
			idx := cy*cw + cx
			usum[idx] += u
			vsum[idx] += v
			count[idx]++
		}
	}
	for cy := 0; cy < ch; cy++ {
		for cx := 0; cx < cw; cx++ {
			idx := cy*cw + cx
			n := count[idx]
			if n == 0 {
				n = 1
			}
			setSample(dst, 1, cx, cy, usum[idx]/float64(n), chromaRS)
			if len(dst.Desc.Planes[1].Components) == 2 {
				// Interleaved UV plane (NV12): V is plane 1's second byte.
				uv := dst.PixelPointer(1, cx, cy)
				uv[1] = byte(clampF(chromaRS.Encode(vsum[idx]/float64(n))*255, 0, 255) + 0.5)
				continue
			}
			setSample(dst, 2, cx, cy, vsum[idx]/float64(n), chromaRS)
		}
	}
	dst.Params.Alpha = imgbuf.AlphaPremultiplied
	return nil
}

func bgraToYUVPremul(srow []byte, x int, coef color.YUVCoeffs) (y, u, v, alpha float64) {
	o := x * 4
	b, g, r, a := srow[o], srow[o+1], srow[o+2], srow[o+3]
	alpha = float64(a) / 255.0
	var rr, gg, bb float64
	if alpha > 0 {
		rr = float64(r) / 255.0 / alpha
		gg = float64(g) / 255.0 / alpha
		bb = float64(b) / 255.0 / alpha
	}
	yy, uu, vv := color.RGBToYUV(coef, rr, gg, bb)
	return yy * alpha, uu * alpha, vv * alpha, alpha
}

func maxForSize(size int) float64 {
	if size == 2 {
		return 65535
	}
	return 255
}

// setSample writes one normalized [0,1] sample into a single-component
// plane (Y, U, V, A, or Gray), encoding it into the plane's signal
// range and integer depth.
func setSample(img *imgbuf.Image, plane, x, y int, full float64, rs color.RangeScale) {
	coded := rs.Encode(full)
	maxv := maxForSize(img.Desc.CompSize)
	v := coded * maxv
	v = clampF(v, 0, maxv)
	iv := int(v + 0.5)
	row := img.PixelPointer(plane, x, y)
	if img.Desc.CompSize == 1 {
		row[0] = byte(iv)
	} else {
		row[0] = byte(iv)
		row[1] = byte(iv >> 8)
	}
}
