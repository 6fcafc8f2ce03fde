package osd

import (
	"github.com/MeKo-Christian/osdcompositor/internal/format"
	"github.com/MeKo-Christian/osdcompositor/internal/imgbuf"
	"github.com/MeKo-Christian/osdcompositor/internal/repack"
	"github.com/MeKo-Christian/osdcompositor/internal/scale"
)

// Tuning holds the knobs spec.md leaves implicit, the way AGG's
// internal/config.Config lets callers override default buffer/type
// choices without touching call sites.
type Tuning struct {
	// RGBAScaler overrides the RGBA Bitmap Stager's resize backend.
	// Defaults to scale.NewDrawScaler() (x/image/draw, CatmullRom).
	RGBAScaler scale.Scaler
}

// Cache is the Compositor Cache of spec.md §3: it owns the current
// destination params, every intermediate image, the repack/scaler
// contexts, and the Part Cache. One Cache must not be used
// concurrently from multiple goroutines; distinct Caches are fully
// independent (spec.md §5).
type Cache struct {
	built  bool
	params imgbuf.Params

	alignX, alignY int
	w, h           int // logical dims, snapped to alignment
	tiled          bool
	overlayFormat  format.ID
	needPremul     bool

	rgbaOverlay   *imgbuf.Image // always BGRA8 premul
	videoOverlay  *imgbuf.Image // nil when overlay format IS BGRA8
	alphaOverlay  *imgbuf.Image // view into videoOverlay's alpha plane
	calphaOverlay *imgbuf.Image

	overlayTmp  *imgbuf.Image
	videoTmp    *imgbuf.Image
	calphaTmp   *imgbuf.Image
	premulTmp   *imgbuf.Image

	videoToF32   *repack.Ctx
	videoFromF32 *repack.Ctx
	overlayToF32 *repack.Ctx
	calphaToF32  *repack.Ctx

	rgbaToOverlay scale.Scaler
	alphaToCalpha scale.Scaler
	rgbaScaler    scale.Scaler
	premulScaler  scale.Scaler

	dirty    *DirtyMap
	parts    partCache
	changeID int64
	anyOSD   bool

	tuning Tuning
}

// NewCache returns an empty, unbuilt Cache (spec.md §3's Lifecycle:
// "created empty").
func NewCache() *Cache {
	return &Cache{tuning: Tuning{RGBAScaler: scale.NewDrawScaler()}}
}

// SetTuning overrides non-default tunables. Must be called before the
// first Composite.
func (c *Cache) SetTuning(t Tuning) {
	if t.RGBAScaler != nil {
		c.tuning.RGBAScaler = t.RGBAScaler
	}
}

func (c *Cache) reset() {
	*c = Cache{tuning: c.tuning}
}

// build is the Pipeline Builder (spec.md §4.E): it tears down and
// reallocates every owned intermediate for a new set of destination
// parameters. Called on first use, or whenever params differ from the
// cached ones.
func (c *Cache) build(params imgbuf.Params) error {
	c.reset()

	dstDesc, ok := format.Lookup(params.Format)
	if !ok {
		return errorf("osd: unsupported destination format %v", params.Format)
	}

	// Step 1: decide whether pre-premultiplication is needed.
	c.needPremul = dstDesc.HasAlpha && params.Alpha != imgbuf.AlphaPremultiplied

	// Step 2: repack contexts dst<->float32-planar.
	videoToF32, err := repack.CreatePlanar(params.Format, false, repack.FlagNone)
	if err != nil {
		return errorf("osd: building video_to_f32: %v", err)
	}
	videoFromF32, err := repack.CreatePlanar(params.Format, true, repack.FlagNone)
	if err != nil {
		return errorf("osd: building video_from_f32: %v", err)
	}

	// Step 3: choose the overlay format. Any multi-plane destination
	// needs a mirrored overlay descriptor, including semi-planar layouts
	// like NV12 (2 planes, chroma subsampled) and not just the
	// 3/4-plane fully-planar case.
	overlayID := format.BGRA8
	tiled := false
	if dstDesc.PlaneCount >= 3 || dstDesc.Subsampled() {
		withAlpha, ok := dstDesc.WithAlpha()
		if !ok {
			return errorf("osd: destination format %v has 4 planes and no alpha; cannot add overlay alpha plane", params.Format)
		}
		overlayDesc := format.Descriptor{
			PlaneCount:   withAlpha.PlaneCount,
			Planes:       withAlpha.Planes,
			ChromaShiftX: withAlpha.ChromaShiftX,
			ChromaShiftY: withAlpha.ChromaShiftY,
			CompType:     format.CompInt,
			CompSize:     1, // overlay components are always 8-bit unsigned (step 3)
			HasAlpha:     true,
		}
		id, ok := format.Find(overlayDesc)
		if !ok {
			return errorf("osd: no format id matches derived overlay descriptor for %v", params.Format)
		}
		overlayID = id
		tiled = dstDesc.Subsampled()
	}
	c.overlayFormat = overlayID
	c.tiled = tiled

	// Step 4: overlay_to_f32, verifying plane layouts modulo alpha.
	overlayToF32, err := repack.CreatePlanar(overlayID, false, repack.FlagNone)
	if err != nil {
		return errorf("osd: building overlay_to_f32: %v", err)
	}
	overlayDesc, _ := format.Lookup(overlayID)
	if !planeLayoutsMatchModuloAlpha(dstDesc, overlayDesc) {
		return errorf("osd: overlay format %v plane layout does not match video format %v", overlayID, params.Format)
	}

	// Step 5: alignment.
	alignX, alignY := videoToF32.Alignment()
	if alignX > SliceW || alignY > TileH {
		return errorf("osd: video alignment (%d,%d) exceeds tile bounds (%d,%d)", alignX, alignY, SliceW, TileH)
	}
	ovAlignX, ovAlignY := overlayToF32.Alignment()
	if ovAlignX > alignX || ovAlignY > alignY {
		return errorf("osd: overlay alignment (%d,%d) coarser than video alignment (%d,%d)", ovAlignX, ovAlignY, alignX, alignY)
	}
	c.alignX, c.alignY = alignX, alignY

	// Step 6: snapped logical dims.
	w := ceilTo(params.W, alignX)
	h := ceilTo(params.H, alignY)
	overlayW, overlayH := w, h
	if tiled {
		overlayW = ceilTo(w, SliceW)
		overlayH = ceilTo(h, TileH)
	}
	c.w, c.h = w, h

	// Step 7: allocate rgba_overlay, overlay_tmp, video_tmp; wire repacks.
	rgbaOverlay, err := imgbuf.AllocBGRA(overlayW, overlayH)
	if err != nil {
		return errorf("osd: allocating rgba_overlay: %v", err)
	}
	c.rgbaOverlay = rgbaOverlay

	overlayTmp, err := imgbuf.Alloc(imgbuf.Params{Format: overlayID, W: SliceW, H: alignY})
	if err != nil {
		return errorf("osd: allocating overlay_tmp: %v", err)
	}
	c.overlayTmp = overlayTmp

	videoTmp, err := imgbuf.Alloc(imgbuf.Params{Format: params.Format, W: SliceW, H: alignY, Matrix: params.Matrix, Range: params.Range})
	if err != nil {
		return errorf("osd: allocating video_tmp: %v", err)
	}
	c.videoTmp = videoTmp
	c.videoToF32, c.videoFromF32 = videoToF32, videoFromF32
	c.overlayToF32 = overlayToF32

	// Step 8: overlay format != BGRA means a real video_overlay exists.
	// It is allocated at the overlay's own (possibly tile-padded)
	// dimensions, not the destination's, so the tiled Overlay Converter
	// can crop it into whole SliceW x TileH tiles without running past
	// its edge.
	if overlayID != format.BGRA8 {
		videoOverlay, err := imgbuf.Alloc(imgbuf.Params{Format: overlayID, W: overlayW, H: overlayH, Matrix: params.Matrix, Range: params.Range, ChromaLoc: params.ChromaLoc})
		if err != nil {
			return errorf("osd: allocating video_overlay: %v", err)
		}
		if tiled {
			videoOverlay.Params.ChromaLoc = imgbuf.ChromaCenter
		}
		c.videoOverlay = videoOverlay
		c.rgbaToOverlay = scale.NewFloatScaler()

		if overlayDesc.Subsampled() {
			alphaView, err := videoOverlay.GrayView()
			if err != nil {
				return errorf("osd: building alpha_overlay view: %v", err)
			}
			c.alphaOverlay = alphaView

			cw := (overlayW + (1 << overlayDesc.ChromaShiftX) - 1) >> overlayDesc.ChromaShiftX
			ch := (overlayH + (1 << overlayDesc.ChromaShiftY) - 1) >> overlayDesc.ChromaShiftY
			calphaOverlay, err := imgbuf.Alloc(imgbuf.Params{Format: format.Gray8, W: cw, H: ch})
			if err != nil {
				return errorf("osd: allocating calpha_overlay: %v", err)
			}
			c.calphaOverlay = calphaOverlay

			calphaTmp, err := imgbuf.Alloc(imgbuf.Params{Format: format.Gray8, W: SliceW >> overlayDesc.ChromaShiftX, H: alignY})
			if err != nil {
				return errorf("osd: allocating calpha_tmp: %v", err)
			}
			c.calphaTmp = calphaTmp

			calphaToF32, err := repack.CreatePlanar(format.Gray8, false, repack.FlagNone)
			if err != nil {
				return errorf("osd: building calpha_to_f32: %v", err)
			}
			c.calphaToF32 = calphaToF32
			c.alphaToCalpha = scale.NewFloatScaler()
		}
	}

	// The per-slice scratch images hold normalized float32 samples, so
	// their planes are re-laid out with the format's float companion.
	for _, tmp := range []*imgbuf.Image{c.overlayTmp, c.videoTmp, c.calphaTmp} {
		if tmp == nil {
			continue
		}
		tmp.Desc = repack.FloatCompanion(tmp.Desc)
		for i := 0; i < tmp.Desc.PlaneCount; i++ {
			tmp.Stride[i] = tmp.PlaneW[i] * len(tmp.Desc.Planes[i].Components) * tmp.Desc.CompSize
			tmp.Planes[i] = make([]byte, tmp.Stride[i]*tmp.PlaneH[i])
		}
	}

	// Step 9: zero rgba_overlay, reset dirty map.
	c.dirty = NewDirtyMap(overlayW, overlayH, alignX, alignY)
	c.rgbaScaler = c.tuning.RGBAScaler

	// Step 10: premultiplication scratch.
	if c.needPremul {
		premulTmp, err := imgbuf.Alloc(params)
		if err != nil {
			return errorf("osd: allocating premul_tmp: %v", err)
		}
		premulTmp.Params.Alpha = imgbuf.AlphaPremultiplied
		c.premulTmp = premulTmp
		c.premulScaler = scale.NewFloatScaler()
	}

	c.params = params
	c.built = true
	c.anyOSD = false
	c.changeID = -1
	return nil
}

// planeLayoutsMatchModuloAlpha checks that the video descriptor and the
// overlay descriptor agree on every non-alpha plane's component set and
// subsampling, the verification spec.md §4.E step 4 requires.
func planeLayoutsMatchModuloAlpha(video, overlay format.Descriptor) bool {
	if video.ChromaShiftX != overlay.ChromaShiftX || video.ChromaShiftY != overlay.ChromaShiftY {
		return false
	}
	videoColorPlanes := video.PlaneCount
	if video.HasAlpha {
		videoColorPlanes--
	}
	overlayColorPlanes := overlay.PlaneCount
	if overlay.HasAlpha {
		overlayColorPlanes--
	}
	if videoColorPlanes != overlayColorPlanes {
		return false
	}
	for p := 0; p < videoColorPlanes; p++ {
		a, b := video.Planes[p].Components, overlay.Planes[p].Components
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}
