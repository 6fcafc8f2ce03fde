// Package osdcompositor blends pre-rasterized subtitle/OSD bitmaps
// onto video frames of runtime-variable planar pixel format: packed
// BGRA8 or chroma-subsampled planar YUV, any colorspace matrix, full
// or limited signal range.
//
// A Cache owns every buffer the blend needs and is reused frame to
// frame; create one per independent video stream (Caches share no
// state) and call Composite once per frame.
package osdcompositor

import (
	"github.com/MeKo-Christian/osdcompositor/internal/format"
	"github.com/MeKo-Christian/osdcompositor/internal/imgbuf"
	"github.com/MeKo-Christian/osdcompositor/internal/osd"
	"github.com/MeKo-Christian/osdcompositor/internal/scale"
)

// Format identifies a destination or bitmap pixel format.
type Format = format.ID

const (
	BGRA8     = format.BGRA8
	Gray8     = format.Gray8
	YUV420P8  = format.YUV420P8
	YUV422P8  = format.YUV422P8
	YUV444P8  = format.YUV444P8
	YUV420P10 = format.YUV420P10
	NV12      = format.NV12
)

// Range is the destination's signal range.
type Range = imgbuf.Range

const (
	RangeLimited = imgbuf.RangeLimited
	RangeFull    = imgbuf.RangeFull
)

// Matrix selects the YUV<->RGB colorspace conversion matrix.
type Matrix = imgbuf.Matrix

const (
	MatrixRGB    = imgbuf.MatrixRGB
	MatrixBT601  = imgbuf.MatrixBT601
	MatrixBT709  = imgbuf.MatrixBT709
	MatrixBT2020 = imgbuf.MatrixBT2020
)

// ChromaLocation is the chroma siting convention.
type ChromaLocation = imgbuf.ChromaLocation

const (
	ChromaLeft    = imgbuf.ChromaLeft
	ChromaCenter  = imgbuf.ChromaCenter
	ChromaTopLeft = imgbuf.ChromaTopLeft
)

// AlphaMode describes how a destination image's alpha is carried.
type AlphaMode = imgbuf.AlphaMode

const (
	AlphaNone          = imgbuf.AlphaNone
	AlphaStraight      = imgbuf.AlphaStraight
	AlphaPremultiplied = imgbuf.AlphaPremultiplied
)

// FrameParams describes the destination frame's layout: format,
// geometry, colorspace, range, chroma siting, and alpha carriage.
type FrameParams struct {
	Format    Format
	Width     int
	Height    int
	Matrix    Matrix
	Range     Range
	ChromaLoc ChromaLocation
	Alpha     AlphaMode
}

func (p FrameParams) toParams() imgbuf.Params {
	return imgbuf.Params{
		Format: p.Format, W: p.Width, H: p.Height,
		Matrix: p.Matrix, Range: p.Range, ChromaLoc: p.ChromaLoc, Alpha: p.Alpha,
	}
}

// Frame is a destination buffer to composite into, allocated by
// AllocFrame or wrapping caller-owned planes via WrapFrame.
type Frame struct {
	img *imgbuf.Image
}

// AllocFrame allocates an owned, zeroed frame buffer.
func AllocFrame(p FrameParams) (*Frame, error) {
	im, err := imgbuf.Alloc(p.toParams())
	if err != nil {
		return nil, err
	}
	return &Frame{img: im}, nil
}

// SetBGRA8 overwrites a BGRA8 frame's plane 0 with packed bytes,
// stride bytesPerRow. Used by callers that render a base image
// through their own pipeline before compositing OSD onto it.
func (f *Frame) SetBGRA8(pixels []byte, bytesPerRow int) {
	for y := 0; y < f.img.Params.H; y++ {
		row := f.img.PixelPointer(0, 0, y)
		copy(row[:f.img.Params.W*4], pixels[y*bytesPerRow:y*bytesPerRow+f.img.Params.W*4])
	}
}

// BGRA8 returns the frame's packed BGRA8 backing bytes and row stride,
// a zero-copy view a presenter can hand straight to a texture upload.
func (f *Frame) BGRA8() (pixels []byte, stride int) {
	return f.img.Planes[0], f.img.Stride[0]
}

// SupportedFormats lists the overlay bitmap input formats this
// compositor accepts.
var SupportedFormats = osd.SupportedFormats

// BitmapFormat tags one overlay part's source representation.
type BitmapFormat = osd.BitmapFormat

const (
	FormatLIBASS = osd.FormatLIBASS
	FormatRGBA   = osd.FormatRGBA
)

// GlyphPart is a monochrome coverage bitmap tinted by a single color,
// e.g. one rasterized subtitle glyph.
type GlyphPart = osd.LibassPart

// ImagePart is a straight-premultiplied BGRA bitmap blitted at a
// position and optionally resized to a display rectangle.
type ImagePart = osd.RGBAPart

// OverlayItem is one overlay-input index's contribution for the frame.
type OverlayItem = osd.Item

// Overlay is the full set of OSD content to composite this frame,
// tagged with a monotonic ChangeID so unchanged overlays skip
// re-rendering.
type Overlay = osd.OverlayList

// Tuning exposes the compositor's overridable knobs.
type Tuning = osd.Tuning

// NewDrawScaler returns the default x/image/draw-backed RGBA Bitmap
// Stager resize backend.
func NewDrawScaler() scale.Scaler { return scale.NewDrawScaler() }

// Cache is the compositor's per-stream state: destination pipeline,
// overlay buffers, and part cache. Not safe for concurrent use;
// distinct Caches are fully independent.
type Cache struct {
	c *osd.Cache
}

// NewCache returns an empty, unbuilt Cache.
func NewCache() *Cache {
	return &Cache{c: osd.NewCache()}
}

// SetTuning overrides non-default tunables. Call before the first
// Composite.
func (c *Cache) SetTuning(t Tuning) {
	c.c.SetTuning(t)
}

// Composite blends overlay onto dst, rebuilding internal buffers if
// dst's parameters changed since the last call and re-rendering the
// overlay only if overlay.ChangeID advanced. It reports whether any
// pixel of dst was touched.
func (c *Cache) Composite(dst *Frame, overlay *Overlay) (bool, error) {
	return c.c.Composite(dst.img, overlay)
}

// DebugInfo reports the Cache's current pipeline shape for logging.
func (c *Cache) DebugInfo() string {
	return c.c.DebugInfo()
}
