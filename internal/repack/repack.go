// Package repack moves pixel rows between an external integer planar
// layout and an internal planar-float layout, one row-band at a time.
// It is the opaque "repack" collaborator spec.md §6 treats as a pure
// converter: the Pipeline Builder creates a Ctx per format/direction
// pair and the Blender drives it a line at a time.
//
// The conversion performed is purely format + range (int depth <->
// normalized float, honoring limited/full range and chroma
// subsampling); colorspace matrix conversion (RGB<->YUV) is the
// scaler's job (internal/scale), grounded the same way AGG separates
// "buffer access" (internal/buffer) from "pixel math" (internal/pixfmt).
package repack

import (
	"fmt"
	"math"

	"github.com/MeKo-Christian/osdcompositor/internal/color"
	"github.com/MeKo-Christian/osdcompositor/internal/format"
	"github.com/MeKo-Christian/osdcompositor/internal/imgbuf"
)

// Flags is reserved for future repack backend hints; it carries no
// behavior today (spec.md §6 lists it in the collaborator signature
// without specifying contents).
type Flags int

const FlagNone Flags = 0

// FloatCompanion returns the planar-float descriptor that mirrors d's
// plane layout and subsampling but stores normalized float32 samples.
func FloatCompanion(d format.Descriptor) format.Descriptor {
	out := d
	out.CompType = format.CompFloat
	out.CompSize = 4
	return out
}

// Ctx is one repack pipeline, bound to a single integer format and a
// direction (int->float, or float->int when reverse is set).
type Ctx struct {
	id       format.ID
	desc     format.Descriptor
	floatDes format.Descriptor
	reverse  bool

	alignX, alignY int

	dstImg, srcImg                   *imgbuf.Image
	dstPlaneOffsets, srcPlaneOffsets [4]int
}

// CreatePlanar allocates a repack context for fmtID, in the given
// direction.
func CreatePlanar(fmtID format.ID, reverse bool, flags Flags) (*Ctx, error) {
	d, ok := format.Lookup(fmtID)
	if !ok {
		return nil, fmt.Errorf("repack: unsupported format %v", fmtID)
	}
	return &Ctx{
		id:       fmtID,
		desc:     d,
		floatDes: FloatCompanion(d),
		reverse:  reverse,
		alignX:   1 << d.ChromaShiftX,
		alignY:   1 << d.ChromaShiftY,
	}, nil
}

// SrcFormat reports which descriptor a forward (int->float) context
// reads; for a reverse context the integer format is the destination.
func (c *Ctx) SrcFormat() format.Descriptor {
	if !c.reverse {
		return c.desc
	}
	return c.floatDes
}

// DstFormat is the mirror of SrcFormat.
func (c *Ctx) DstFormat() format.Descriptor {
	if !c.reverse {
		return c.floatDes
	}
	return c.desc
}

// Alignment returns the required row/column alignment this context's
// integer side imposes (chroma subsampling forces even boundaries).
func (c *Ctx) Alignment() (int, int) {
	return c.alignX, c.alignY
}

// ConfigBuffers binds the destination and source images this context
// will read/write via Line. plane offsets are reserved for backends
// that address a sub-rectangle of a larger buffer; this implementation
// expects callers to pass already-cropped images and leaves offsets at
// zero, the same simplifying choice AGG's RenderingBuffer.Attach makes
// versus a fully offset-aware accessor.
func (c *Ctx) ConfigBuffers(dstOffsets [4]int, dst *imgbuf.Image, srcOffsets [4]int, src *imgbuf.Image) error {
	if dst == nil || src == nil {
		return fmt.Errorf("repack: nil buffer")
	}
	c.dstImg, c.srcImg = dst, src
	c.dstPlaneOffsets, c.srcPlaneOffsets = dstOffsets, srcOffsets
	return nil
}

// Line moves one source row into one destination row across every
// plane of the bound format, skipping subsampled planes on rows that
// don't own a fresh chroma sample (the same "process chroma every Nth
// row" logic a line-based swscale-style repacker uses).
//
// dstY/srcY are given in plane-0 (full resolution) row space; Line
// derives each plane's own row index by shifting.
func (c *Ctx) Line(dstX, dstY, srcX, srcY, width int) error {
	if c.dstImg == nil || c.srcImg == nil {
		return fmt.Errorf("repack: buffers not configured")
	}

	var intImg, floatImg *imgbuf.Image
	var intX, intY, floatX, floatY int
	if !c.reverse {
		intImg, intX, intY = c.srcImg, srcX, srcY
		floatImg, floatX, floatY = c.dstImg, dstX, dstY
	} else {
		intImg, intX, intY = c.dstImg, dstX, dstY
		floatImg, floatX, floatY = c.srcImg, srcX, srcY
	}

	for p := 0; p < c.desc.PlaneCount; p++ {
		xs, ys := 0, 0
		if p > 0 {
			xs, ys = c.desc.ChromaShiftX, c.desc.ChromaShiftY
		}
		if intY&((1<<uint(ys))-1) != 0 {
			continue
		}
		pw := width >> uint(xs)
		if pw <= 0 {
			continue
		}
		piX, piY := intX>>uint(xs), intY>>uint(ys)
		pfX, pfY := floatX>>uint(xs), floatY>>uint(ys)
		rs := rangeScaleFor(c.desc, p, intImg.Params.Range)
		if !c.reverse {
			lineIntToFloat(intImg, floatImg, p, piX, piY, pfX, pfY, pw, rs)
		} else {
			lineFloatToInt(intImg, floatImg, p, piX, piY, pfX, pfY, pw, rs)
		}
	}
	return nil
}

func rangeScaleFor(d format.Descriptor, plane int, rng imgbuf.Range) color.RangeScale {
	layout := d.Planes[plane].Components
	if len(layout) == 1 {
		switch layout[0] {
		case format.CompY:
			return color.LumaRangeScale(rng == imgbuf.RangeLimited)
		case format.CompA:
			return color.FullRangeScale()
		}
	}
	for _, c := range layout {
		if c == format.CompU || c == format.CompV {
			return color.ChromaRangeScale(rng == imgbuf.RangeLimited)
		}
	}
	return color.FullRangeScale()
}

func maxForSize(size int) float64 {
	switch size {
	case 1:
		return 255
	case 2:
		return 65535
	default:
		return 255
	}
}

func lineIntToFloat(intImg, floatImg *imgbuf.Image, plane, intX, intY, floatX, floatY, width int, rs color.RangeScale) {
	comps := len(intImg.Desc.Planes[plane].Components)
	size := intImg.Desc.CompSize
	maxv := maxForSize(size)

	intRow := intImg.PixelPointer(plane, intX, intY)
	floatRow := floatImg.PixelPointer(plane, floatX, floatY)

	for x := 0; x < width*comps; x++ {
		var raw float64
		if size == 1 {
			raw = float64(intRow[x])
		} else {
			off := x * 2
			raw = float64(uint16(intRow[off]) | uint16(intRow[off+1])<<8)
		}
		coded := raw / maxv
		full := rs.Decode(coded)
		putFloat32(floatRow, x, float32(full))
	}
}

func lineFloatToInt(intImg, floatImg *imgbuf.Image, plane, intX, intY, floatX, floatY, width int, rs color.RangeScale) {
	comps := len(intImg.Desc.Planes[plane].Components)
	size := intImg.Desc.CompSize
	maxv := maxForSize(size)

	intRow := intImg.PixelPointer(plane, intX, intY)
	floatRow := floatImg.PixelPointer(plane, floatX, floatY)

	for x := 0; x < width*comps; x++ {
		full := float64(getFloat32(floatRow, x))
		coded := rs.Encode(full)
		v := coded * maxv
		if v < 0 {
			v = 0
		}
		if v > maxv {
			v = maxv
		}
		iv := int(v + 0.5)
		if size == 1 {
			intRow[x] = byte(iv)
		} else {
			off := x * 2
			intRow[off] = byte(iv)
			intRow[off+1] = byte(iv >> 8)
		}
	}
}

// GetFloatSample and PutFloatSample expose the float32-planar sample
// codec used internally so the Blender (internal/osd) can read/write
// overlay_tmp/video_tmp/calpha_tmp without duplicating the encoding.
func GetFloatSample(row []byte, index int) float32 { return getFloat32(row, index) }
func PutFloatSample(row []byte, index int, v float32) { putFloat32(row, index, v) }

func putFloat32(row []byte, index int, v float32) {
	bits := math.Float32bits(v)
	off := index * 4
	row[off] = byte(bits)
	row[off+1] = byte(bits >> 8)
	row[off+2] = byte(bits >> 16)
	row[off+3] = byte(bits >> 24)
}

func getFloat32(row []byte, index int) float32 {
	off := index * 4
	bits := uint32(row[off]) | uint32(row[off+1])<<8 | uint32(row[off+2])<<16 | uint32(row[off+3])<<24
	return math.Float32frombits(bits)
}
