package scale

import (
	stdcolor "image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/MeKo-Christian/osdcompositor/internal/format"
	"github.com/MeKo-Christian/osdcompositor/internal/imgbuf"
)

// DrawScaler resizes BGRA8-premultiplied bitmaps using
// golang.org/x/image/draw's CatmullRom kernel. This is the backend the
// RGBA Bitmap Stager (spec.md §4.C) uses to scale a clipped source
// region to display size; it is not alpha-mode-aware (it scales
// whatever premultiplied bytes it is given) so it never serves the
// Premul Wrap's straight<->premultiplied conversion — see FloatScaler
// for that.
type DrawScaler struct {
	Kernel draw.Interpolator
}

// NewDrawScaler returns a DrawScaler using CatmullRom, the same
// quality tier x/image/draw's own benchmarks (see
// _examples/deepteams-webp) use for photographic content.
func NewDrawScaler() *DrawScaler {
	return &DrawScaler{Kernel: draw.CatmullRom}
}

func (s *DrawScaler) Alloc() error { return nil }

func (s *DrawScaler) Supports(dst, src format.ID) bool {
	return dst == format.BGRA8 && src == format.BGRA8
}

func (s *DrawScaler) Scale(dst, src *imgbuf.Image) error {
	if !s.Supports(dst.Params.Format, src.Params.Format) {
		return errUnsupported
	}
	srcImg := &bgraImage{im: src}
	dstImg := &bgraImage{im: dst}
	kernel := s.Kernel
	if kernel == nil {
		kernel = draw.CatmullRom
	}
	kernel.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), draw.Src, nil)
	return nil
}

// bgraImage adapts an imgbuf.Image in BGRA8 premultiplied layout to
// image.Image/draw.Image, swapping the B/R bytes that
// image/color.RGBA expects in R,G,B,A order.
type bgraImage struct {
	im *imgbuf.Image
}

func (b *bgraImage) ColorModel() color.Model { return color.RGBAModel }

func (b *bgraImage) Bounds() stdcolor.Rectangle {
	return stdcolor.Rect(0, 0, b.im.Params.W, b.im.Params.H)
}

func (b *bgraImage) At(x, y int) color.Color {
	px := b.im.PixelPointer(0, x, y)
	return color.RGBA{R: px[2], G: px[1], B: px[0], A: px[3]}
}

func (b *bgraImage) Set(x, y int, c color.Color) {
	px := b.im.PixelPointer(0, x, y)
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	px[0], px[1], px[2], px[3] = rgba.B, rgba.G, rgba.R, rgba.A
}
