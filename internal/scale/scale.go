// Package scale provides the opaque image scaler collaborator spec.md
// §6 requires: `alloc()`, `supports(dst, src) bool`, `scale(dst, src)
// error`. It mirrors AGG's internal/image filter machinery
// (ImageFilterLUT) generalized from "resample one RGBA image for
// display" to "resample or colorspace-convert an arbitrary planar
// image for the OSD pipeline", and hosts the one backend spec.md §4.G
// requires to be "alpha-aware" for the Premul Wrap.
package scale

import (
	"fmt"

	"github.com/MeKo-Christian/osdcompositor/internal/color"
	"github.com/MeKo-Christian/osdcompositor/internal/format"
	"github.com/MeKo-Christian/osdcompositor/internal/imgbuf"
)

// Scaler is the interface the Pipeline Builder and RGBA Bitmap Stager
// consume; every concrete backend in this package implements it.
type Scaler interface {
	Alloc() error
	Supports(dst, src format.ID) bool
	Scale(dst, src *imgbuf.Image) error
}

// matrixFor resolves the YUV coefficient set for an image's Matrix.
func matrixFor(m imgbuf.Matrix) color.YUVCoeffs {
	switch m {
	case imgbuf.MatrixBT709:
		return color.CoeffsBT709
	case imgbuf.MatrixBT2020:
		return color.CoeffsBT2020
	default:
		return color.CoeffsBT601
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var errUnsupported = fmt.Errorf("scale: unsupported conversion")
