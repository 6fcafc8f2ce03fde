// Package osd is the compositor core: Slice Dirty Map, ASS Rasterizer,
// RGBA Bitmap Stager, Overlay Converter, Pipeline Builder, Blender, and
// Premul Wrap (spec.md §4.A-G), bound together by Cache.Composite.
//
// Cache is not safe for concurrent use; distinct Caches are fully
// independent (spec.md §5), matching AGG's own stance on types like
// internal/rasterizer's cell storage.
package osd

import "github.com/MeKo-Christian/osdcompositor/internal/imgbuf"

// SliceW is the fixed tile width a Slice's dirty column range is local
// to (spec.md §3).
const SliceW = 256

// TileH is the tile height used by tiled Overlay Converter scaling
// (spec.md §4.D).
const TileH = 4

// MaxOSDParts bounds the number of independently change-tracked
// overlay-input indices the Part Cache holds. The spec does not name
// an exact value; this mirrors the historical fixed-size OSD-object
// table the teacher's own examples size similarly (small, constant,
// stack-friendly) rather than growing a slice unboundedly.
const MaxOSDParts = 10

// BitmapFormat tags one overlay part's source representation.
type BitmapFormat int

const (
	FormatLIBASS BitmapFormat = iota
	FormatRGBA
)

// SupportedFormats is the constant table spec.md §6 requires: only
// LIBASS coverage bitmaps and BGRA bitmaps are accepted inputs.
var SupportedFormats = map[BitmapFormat]bool{
	FormatLIBASS: true,
	FormatRGBA:   true,
}

// LibassPart carries a monochrome coverage glyph bitmap and the single
// tint color to blend it with (spec.md §4.B / §6).
type LibassPart struct {
	X, Y          int
	W, H          int
	Bitmap        []byte
	Stride        int
	Color         uint32 // 0xRRGGBBAA, low byte inverse alpha
}

// RGBAPart carries a straight-premultiplied BGRA bitmap to be blitted
// at (X,Y) and drawn at display size (DW,DH) (spec.md §4.C / §6).
type RGBAPart struct {
	X, Y        int
	W, H        int
	DW, DH      int
	Bitmap      []byte
	Stride      int
	BitmapIndex int
}

// Item is one overlay-input index's contribution this frame.
type Item struct {
	Index       int
	Format      BitmapFormat
	ChangeID    int64
	LibassParts []LibassPart
	RGBAParts   []RGBAPart
}

// OverlayList is the borrowed input to Composite: a monotonic
// change_id, the logical overlay geometry, and the per-index items.
type OverlayList struct {
	ChangeID int64
	W, H     int
	Items    []Item
}

// DstFormatsEqual reports whether a and b describe the same
// destination image parameters, the check the Pipeline Builder uses to
// decide whether a full rebuild is needed.
func DstFormatsEqual(a, b imgbuf.Params) bool {
	return a.Equal(b)
}
