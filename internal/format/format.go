// Package format is the pixel-format descriptor oracle consumed by the
// OSD compositor. It plays the role AGG's compile-time pixfmt template
// parameters play for the fixed RGB/RGBA formats in internal/pixfmt,
// except the format here is chosen at runtime: the compositor does not
// know at compile time whether it is blending onto BGRA8 or onto
// chroma-subsampled planar YUV.
package format

import "fmt"

// ID identifies one supported pixel format.
type ID int

const (
	BGRA8 ID = iota
	Gray8
	YUV420P8
	YUV422P8
	YUV444P8
	YUV420P10
	NV12

	// The *A ids below are never used as a destination format; they are
	// the alpha-augmented overlay descriptors the Pipeline Builder's
	// step 3 derives from a subsampled/multi-plane destination and
	// resolves back to an id via Find, the same way CreatePlanar always
	// needs a registered id rather than a bare Descriptor.
	yuv420P8A
	yuv422P8A
	yuv444P8A
	nv12A
)

func (id ID) String() string {
	switch id {
	case BGRA8:
		return "bgra8"
	case Gray8:
		return "gray8"
	case YUV420P8:
		return "yuv420p8"
	case YUV422P8:
		return "yuv422p8"
	case YUV444P8:
		return "yuv444p8"
	case YUV420P10:
		return "yuv420p10"
	case NV12:
		return "nv12"
	case yuv420P8A:
		return "yuv420p8+a"
	case yuv422P8A:
		return "yuv422p8+a"
	case yuv444P8A:
		return "yuv444p8+a"
	case nv12A:
		return "nv12+a"
	default:
		return fmt.Sprintf("format(%d)", int(id))
	}
}

// CompType is the in-memory representation of one plane's components.
type CompType int

const (
	CompInt CompType = iota
	CompFloat
)

// Component names one logical channel a plane byte maps to.
type Component int

const (
	CompNone Component = iota
	CompB
	CompG
	CompR
	CompA
	CompY
	CompU
	CompV
)

// PlaneLayout lists, in byte order, the logical channels packed into one
// plane. len(Components) is the plane's bytes-per-sample-group.
type PlaneLayout struct {
	Components []Component
}

// Descriptor is everything the compositor needs to know about a format
// without the format's own package having to be imported: plane count,
// per-plane component layout, chroma shifts, component storage, and
// whether an alpha plane/channel is present.
//
// This mirrors what AGG's pixfmt base exposes per format (PixWidth,
// order.RGBAOrder) but generalized from "one packed RGBA plane" to
// "N planes, each independently subsampled".
type Descriptor struct {
	PlaneCount   int
	Planes       [4]PlaneLayout
	ChromaShiftX int // xs: log2 horizontal chroma reduction vs luma/RGB plane 0
	ChromaShiftY int // ys: log2 vertical chroma reduction
	CompType     CompType
	CompSize     int // bytes per component
	HasAlpha     bool
}

// Subsampled reports whether any non-zero plane is chroma-reduced.
func (d Descriptor) Subsampled() bool {
	return d.ChromaShiftX != 0 || d.ChromaShiftY != 0
}

// AlphaPlane returns the index of the plane carrying alpha, or -1.
func (d Descriptor) AlphaPlane() int {
	if !d.HasAlpha {
		return -1
	}
	for i := 0; i < d.PlaneCount; i++ {
		for _, c := range d.Planes[i].Components {
			if c == CompA {
				return i
			}
		}
	}
	return -1
}

// Equal compares two descriptors structurally (component-by-component,
// not by identity) so Find can locate a constructed descriptor's id.
func (d Descriptor) Equal(o Descriptor) bool {
	if d.PlaneCount != o.PlaneCount || d.ChromaShiftX != o.ChromaShiftX ||
		d.ChromaShiftY != o.ChromaShiftY || d.CompType != o.CompType ||
		d.CompSize != o.CompSize || d.HasAlpha != o.HasAlpha {
		return false
	}
	for i := 0; i < d.PlaneCount; i++ {
		a, b := d.Planes[i].Components, o.Planes[i].Components
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

var descriptors = map[ID]Descriptor{
	BGRA8: {
		PlaneCount: 1,
		Planes:     [4]PlaneLayout{{Components: []Component{CompB, CompG, CompR, CompA}}},
		CompType:   CompInt,
		CompSize:   1,
		HasAlpha:   true,
	},
	Gray8: {
		PlaneCount: 1,
		Planes:     [4]PlaneLayout{{Components: []Component{CompY}}},
		CompType:   CompInt,
		CompSize:   1,
	},
	YUV420P8: {
		PlaneCount:   3,
		Planes:       [4]PlaneLayout{{Components: []Component{CompY}}, {Components: []Component{CompU}}, {Components: []Component{CompV}}},
		ChromaShiftX: 1,
		ChromaShiftY: 1,
		CompType:     CompInt,
		CompSize:     1,
	},
	YUV422P8: {
		PlaneCount:   3,
		Planes:       [4]PlaneLayout{{Components: []Component{CompY}}, {Components: []Component{CompU}}, {Components: []Component{CompV}}},
		ChromaShiftX: 1,
		ChromaShiftY: 0,
		CompType:     CompInt,
		CompSize:     1,
	},
	YUV444P8: {
		PlaneCount: 3,
		Planes:     [4]PlaneLayout{{Components: []Component{CompY}}, {Components: []Component{CompU}}, {Components: []Component{CompV}}},
		CompType:   CompInt,
		CompSize:   1,
	},
	YUV420P10: {
		PlaneCount:   3,
		Planes:       [4]PlaneLayout{{Components: []Component{CompY}}, {Components: []Component{CompU}}, {Components: []Component{CompV}}},
		ChromaShiftX: 1,
		ChromaShiftY: 1,
		CompType:     CompInt,
		CompSize:     2,
	},
	NV12: {
		PlaneCount:   2,
		Planes:       [4]PlaneLayout{{Components: []Component{CompY}}, {Components: []Component{CompU, CompV}}},
		ChromaShiftX: 1,
		ChromaShiftY: 1,
		CompType:     CompInt,
		CompSize:     1,
	},
	yuv420P8A: {
		PlaneCount:   4,
		Planes:       [4]PlaneLayout{{Components: []Component{CompY}}, {Components: []Component{CompU}}, {Components: []Component{CompV}}, {Components: []Component{CompA}}},
		ChromaShiftX: 1,
		ChromaShiftY: 1,
		CompType:     CompInt,
		CompSize:     1,
		HasAlpha:     true,
	},
	yuv422P8A: {
		PlaneCount:   4,
		Planes:       [4]PlaneLayout{{Components: []Component{CompY}}, {Components: []Component{CompU}}, {Components: []Component{CompV}}, {Components: []Component{CompA}}},
		ChromaShiftX: 1,
		ChromaShiftY: 0,
		CompType:     CompInt,
		CompSize:     1,
		HasAlpha:     true,
	},
	yuv444P8A: {
		PlaneCount: 4,
		Planes:     [4]PlaneLayout{{Components: []Component{CompY}}, {Components: []Component{CompU}}, {Components: []Component{CompV}}, {Components: []Component{CompA}}},
		CompType:   CompInt,
		CompSize:   1,
		HasAlpha:   true,
	},
	nv12A: {
		PlaneCount:   3,
		Planes:       [4]PlaneLayout{{Components: []Component{CompY}}, {Components: []Component{CompU, CompV}}, {Components: []Component{CompA}}},
		ChromaShiftX: 1,
		ChromaShiftY: 1,
		CompType:     CompInt,
		CompSize:     1,
		HasAlpha:     true,
	},
}

// Lookup returns the descriptor for id.
func Lookup(id ID) (Descriptor, bool) {
	d, ok := descriptors[id]
	return d, ok
}

// Find locates the format id matching a constructed descriptor, the
// runtime analogue of AGG's compile-time pixfmt selection.
func Find(d Descriptor) (ID, bool) {
	for id, cand := range descriptors {
		if cand.Equal(d) {
			return id, true
		}
	}
	return 0, false
}

// WithAlpha returns a copy of d with an appended single-component alpha
// plane, used by the Pipeline Builder when the video format's own
// descriptor lacks alpha and one must be synthesized (SPEC_FULL §4.E
// step 3). Returns ok=false if d already has 4 planes without alpha.
func (d Descriptor) WithAlpha() (Descriptor, bool) {
	if d.HasAlpha {
		return d, true
	}
	if d.PlaneCount >= 4 {
		return Descriptor{}, false
	}
	out := d
	out.Planes[d.PlaneCount] = PlaneLayout{Components: []Component{CompA}}
	out.PlaneCount = d.PlaneCount + 1
	out.HasAlpha = true
	return out, true
}
