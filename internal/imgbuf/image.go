// Package imgbuf provides the planar image primitives the OSD
// compositor borrows and allocates: parameter description, buffer
// allocation, cropping, clearing, and pixel addressing.
//
// It plays the role AGG's internal/buffer.RenderingBuffer plays for a
// single packed plane, generalized to an arbitrary plane count with
// independent chroma subsampling per internal/format.Descriptor.
package imgbuf

import (
	"fmt"

	"github.com/MeKo-Christian/osdcompositor/internal/format"
)

// Range is the video signal range: limited ("TV", 16-235 for 8-bit
// luma) or full ("PC", 0-255).
type Range int

const (
	RangeLimited Range = iota
	RangeFull
)

// AlphaMode describes how alpha is carried, mirroring AGG's split
// between BlenderRGBA (straight) and BlenderRGBAPre (premultiplied).
type AlphaMode int

const (
	AlphaNone AlphaMode = iota
	AlphaStraight
	AlphaPremultiplied
)

// Matrix selects the YUV<->RGB conversion matrix.
type Matrix int

const (
	MatrixRGB Matrix = iota
	MatrixBT601
	MatrixBT709
	MatrixBT2020
)

// ChromaLocation is the siting convention of subsampled chroma samples
// relative to the luma grid.
type ChromaLocation int

const (
	ChromaLeft ChromaLocation = iota
	ChromaCenter
	ChromaTopLeft
)

// Params is spec.md §3's "Image Parameters": format id, geometry,
// colorspace, range, chroma siting, and alpha mode.
type Params struct {
	Format    format.ID
	W, H      int
	Matrix    Matrix
	Range     Range
	ChromaLoc ChromaLocation
	Alpha     AlphaMode
}

// Equal implements the "parameter equality" image primitive.
func (p Params) Equal(o Params) bool {
	return p == o
}

// Image is a reference to a planar pixel buffer: per-plane backing
// slice, stride, and the format descriptor that explains how to read
// it. Planes beyond Desc.PlaneCount are unused.
type Image struct {
	Params Params
	Desc   format.Descriptor

	Planes [4][]byte
	Stride [4]int
	PlaneW [4]int
	PlaneH [4]int

	ownsBacking bool
}

// planeDims returns the width/height of plane i in samples, honoring
// chroma subsampling for i > 0 on YUV-style descriptors (by
// convention plane 0 is always full resolution).
func planeDims(d format.Descriptor, w, h, plane int) (int, int) {
	if plane == 0 || d.PlaneCount <= 1 {
		return w, h
	}
	pw := (w + (1 << d.ChromaShiftX) - 1) >> d.ChromaShiftX
	ph := (h + (1 << d.ChromaShiftY) - 1) >> d.ChromaShiftY
	return pw, ph
}

// Alloc allocates a fresh, zeroed Image for the given parameters.
func Alloc(p Params) (*Image, error) {
	d, ok := format.Lookup(p.Format)
	if !ok {
		return nil, fmt.Errorf("imgbuf: unsupported format %v", p.Format)
	}
	if p.W <= 0 || p.H <= 0 {
		return nil, fmt.Errorf("imgbuf: invalid size %dx%d", p.W, p.H)
	}
	im := &Image{Params: p, Desc: d, ownsBacking: true}
	for i := 0; i < d.PlaneCount; i++ {
		pw, ph := planeDims(d, p.W, p.H, i)
		bpp := len(d.Planes[i].Components) * d.CompSize
		stride := pw * bpp
		im.Planes[i] = make([]byte, stride*ph)
		im.Stride[i] = stride
		im.PlaneW[i] = pw
		im.PlaneH[i] = ph
	}
	return im, nil
}

// AllocBGRA is a convenience used throughout the compositor for the
// always-BGRA8 rgba_overlay and scratch images.
func AllocBGRA(w, h int) (*Image, error) {
	return Alloc(Params{Format: format.BGRA8, W: w, H: h, Alpha: AlphaPremultiplied})
}

// WrapBGRA wraps a caller-owned BGRA bitmap (e.g. a text shaper's or
// image decoder's output buffer) as a non-owning Image view, cropped to
// [x,y)-(x+w,y+h). Used by the RGBA Bitmap Stager to address its input
// bitmap without copying.
func WrapBGRA(bitmap []byte, stride, x, y, w, h int) *Image {
	d, _ := format.Lookup(format.BGRA8)
	im := &Image{
		Desc:   d,
		Params: Params{Format: format.BGRA8, W: w, H: h, Alpha: AlphaPremultiplied},
	}
	start := y*stride + x*4
	im.Planes[0] = bitmap[start:]
	im.Stride[0] = stride
	im.PlaneW[0] = w
	im.PlaneH[0] = h
	return im
}

// SetFormat reallocates the image's planes for a new format id,
// keeping W/H.
func (im *Image) SetFormat(id format.ID) error {
	p := im.Params
	p.Format = id
	fresh, err := Alloc(p)
	if err != nil {
		return err
	}
	*im = *fresh
	return nil
}

// SetSize reallocates the image's planes for a new size, keeping format.
func (im *Image) SetSize(w, h int) error {
	p := im.Params
	p.W, p.H = w, h
	fresh, err := Alloc(p)
	if err != nil {
		return err
	}
	*im = *fresh
	return nil
}

// PixelPointer returns the byte slice for plane starting at sample
// (x, y) in that plane's own coordinate system (the caller is
// responsible for shifting by the plane's chroma factors, exactly as
// spec.md §4.F's blend loop does with `x>>xs`).
func (im *Image) PixelPointer(plane, x, y int) []byte {
	bpp := len(im.Desc.Planes[plane].Components) * im.Desc.CompSize
	off := y*im.Stride[plane] + x*bpp
	return im.Planes[plane][off:]
}

// Crop returns a zero-copy view of the rectangle [x0,y0)-(x1,y1) in
// plane-0 (luma/RGB) coordinates, with every plane offset and
// re-dimensioned accordingly. Used by the tiled Overlay Converter to
// address one tile without copying.
func (im *Image) Crop(x0, y0, x1, y1 int) (*Image, error) {
	if x0 < 0 || y0 < 0 || x1 > im.Params.W || y1 > im.Params.H || x1 <= x0 || y1 <= y0 {
		return nil, fmt.Errorf("imgbuf: crop (%d,%d)-(%d,%d) out of bounds for %dx%d", x0, y0, x1, y1, im.Params.W, im.Params.H)
	}
	out := &Image{Params: im.Params, Desc: im.Desc}
	out.Params.W, out.Params.H = x1-x0, y1-y0
	for i := 0; i < im.Desc.PlaneCount; i++ {
		xs, ys := 0, 0
		if i > 0 {
			xs, ys = im.Desc.ChromaShiftX, im.Desc.ChromaShiftY
		}
		px0, py0 := x0>>xs, y0>>ys
		pw, ph := planeDims(im.Desc, out.Params.W, out.Params.H, i)
		bpp := len(im.Desc.Planes[i].Components) * im.Desc.CompSize
		start := py0*im.Stride[i] + px0*bpp
		out.Planes[i] = im.Planes[i][start:]
		out.Stride[i] = im.Stride[i]
		out.PlaneW[i] = pw
		out.PlaneH[i] = ph
	}
	return out, nil
}

// ClearRect zeros plane 0's pixels in [x0,x1)x[y0,y1). Used by the
// Slice Dirty Map to zero previously-dirty RGBA columns.
func (im *Image) ClearRect(x0, y0, x1, y1 int) {
	bpp := len(im.Desc.Planes[0].Components) * im.Desc.CompSize
	for y := y0; y < y1; y++ {
		row := im.PixelPointer(0, x0, y)
		n := (x1 - x0) * bpp
		if n > len(row) {
			n = len(row)
		}
		for i := 0; i < n; i++ {
			row[i] = 0
		}
	}
}

// CopyAttributes copies colorspace/range/chroma-siting/alpha-mode
// parameters from src, keeping this image's own format/size.
func (im *Image) CopyAttributes(src *Image) {
	im.Params.Matrix = src.Params.Matrix
	im.Params.Range = src.Params.Range
	im.Params.ChromaLoc = src.Params.ChromaLoc
	im.Params.Alpha = src.Params.Alpha
}

// GrayView returns a non-owning single-plane gray Image aliasing the
// alpha plane of im (spec.md §3's alpha_overlay: "a zero-copy view of
// the alpha plane of video_overlay as a single-plane gray image").
func (im *Image) GrayView() (*Image, error) {
	ap := im.Desc.AlphaPlane()
	if ap < 0 {
		return nil, fmt.Errorf("imgbuf: image has no alpha plane to view")
	}
	gd, _ := format.Lookup(format.Gray8)
	view := &Image{
		Desc: gd,
		Params: Params{
			Format: format.Gray8,
			W:      im.PlaneW[ap],
			H:      im.PlaneH[ap],
			Range:  RangeFull,
		},
	}
	view.Planes[0] = im.Planes[ap]
	view.Stride[0] = im.Stride[ap]
	view.PlaneW[0] = im.PlaneW[ap]
	view.PlaneH[0] = im.PlaneH[ap]
	return view, nil
}
